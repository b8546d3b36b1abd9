package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDisplayCollision(t *testing.T) {
	var d Display

	sprite := []byte{0xFF}

	assert.False(t, d.Draw(0, 0, sprite, ClipSprites))
	assert.True(t, d.Pixel(7, 0))
	assert.False(t, d.Pixel(8, 0))

	// overlapping by 4 pixels
	assert.True(t, d.Draw(4, 0, sprite, ClipSprites))
	assert.Equal(t, uint64(0xF0F0)<<48, d.Rows[0])
	assert.Equal(t, uint64(0x0F)<<56, d.Fading[0])
	assert.True(t, d.Faded(4, 0))
	assert.False(t, d.Faded(0, 0))
}

func TestDisplayOrigin(t *testing.T) {
	var d Display

	// coordinates wrap before drawing
	d.Draw(Width+1, Height+2, []byte{0x80}, ClipSprites)
	assert.True(t, d.Pixel(1, 2))
}

func TestDisplaySpritePolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy SpritePolicy
		x, y   int
		lit    [][2]int
		unlit  [][2]int
	}{
		{
			name:   "clip right",
			policy: ClipSprites,
			x:      60, y: 0,
			lit:   [][2]int{{60, 0}, {63, 0}},
			unlit: [][2]int{{0, 0}, {3, 0}},
		},
		{
			name:   "wrap right",
			policy: WrapSprites,
			x:      60, y: 0,
			lit: [][2]int{{60, 0}, {63, 0}, {0, 0}, {3, 0}},
		},
		{
			name:   "clip bottom",
			policy: ClipSprites,
			x:      0, y: 31,
			lit:   [][2]int{{0, 31}},
			unlit: [][2]int{{0, 0}},
		},
		{
			name:   "wrap bottom",
			policy: WrapSprites,
			x:      0, y: 31,
			lit: [][2]int{{0, 31}, {0, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Display

			d.Draw(tt.x, tt.y, []byte{0xFF, 0xFF}, tt.policy)

			for _, p := range tt.lit {
				assert.True(t, d.Pixel(p[0], p[1]))
			}
			for _, p := range tt.unlit {
				assert.False(t, d.Pixel(p[0], p[1]))
			}
		})
	}
}

func TestDisplayChanged(t *testing.T) {
	var d Display

	assert.False(t, d.Changed())

	d.Draw(0, 0, []byte{0x80}, ClipSprites)
	assert.True(t, d.ConsumeChanged())
	assert.False(t, d.ConsumeChanged())

	d.Clear()
	assert.True(t, d.Changed())
	assert.Equal(t, uint64(1)<<63, d.Fading[0])
	assert.False(t, d.Pixel(0, 0))
}

func TestDisplayFadingResetOnDraw(t *testing.T) {
	var d Display

	d.Draw(0, 0, []byte{0x80}, ClipSprites)
	d.Clear()

	// the next draw only fades what it turns off itself
	d.Draw(8, 8, []byte{0x80}, ClipSprites)
	assert.Equal(t, uint64(0), d.Fading[0])
}

func TestSpritePolicyString(t *testing.T) {
	assert.Equal(t, "clip", ClipSprites.String())
	assert.Equal(t, "wrap", WrapSprites.String())
}
