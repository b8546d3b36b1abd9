package options

import (
	"testing"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestIsSource(t *testing.T) {
	assert.True(t, IsSource("games/demo.asm"))
	assert.True(t, IsSource("DEMO.C8S"))
	assert.False(t, IsSource("games/pong.ch8"))
	assert.False(t, IsSource("asm"))
	assert.False(t, IsSource(""))
}

func TestSpritePolicy(t *testing.T) {
	opts := New()
	assert.Equal(t, chip8.ClipSprites, opts.SpritePolicy())

	opts.Wrap = true
	assert.Equal(t, chip8.WrapSprites, opts.SpritePolicy())
}
