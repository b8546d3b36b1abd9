package cli

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/chip8vm/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlagsDefaults(t *testing.T) {
	opts, err := ParseFlags("chip8vm", nil, io.Discard)
	assert.NoError(t, err)

	assert.Equal(t, options.DefaultSpeed, opts.Speed)
	assert.Equal(t, options.DefaultScale, opts.Scale)
	assert.Equal(t, "", opts.Input)
	assert.Equal(t, chip8.ClipSprites, opts.SpritePolicy())
}

func TestParseFlags(t *testing.T) {
	args := []string{"-speed", "1000", "-wrap", "-term", "-trace", "-wav", "beep.wav", "games/pong.ch8"}

	opts, err := ParseFlags("chip8vm", args, io.Discard)
	assert.NoError(t, err)

	assert.Equal(t, 1000, opts.Speed)
	assert.True(t, opts.Terminal)
	assert.True(t, opts.Trace)
	assert.False(t, opts.Assemble)
	assert.Equal(t, "beep.wav", opts.Wav)
	assert.Equal(t, "games/pong.ch8", opts.Input)
	assert.Equal(t, chip8.WrapSprites, opts.SpritePolicy())
}

func TestParseFlagsAssemblySource(t *testing.T) {
	opts, err := ParseFlags("chip8vm", []string{"demo.ASM"}, io.Discard)
	assert.NoError(t, err)
	assert.True(t, opts.Assemble)
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"two roms", []string{"a.ch8", "b.ch8"}, "single rom"},
		{"too slow", []string{"-speed", "1"}, "speed"},
		{"bad scale", []string{"-scale", "0"}, "scale"},
		{"disasm without rom", []string{"-disasm"}, "needs a rom"},
		{"unknown flag", []string{"-nope"}, "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &strings.Builder{}

			_, err := ParseFlags("chip8vm", tt.args, out)

			var usage *UsageError
			assert.True(t, errors.As(err, &usage))
			assert.True(t, strings.Contains(err.Error(), tt.msg))

			out.Reset()
			usage.ShowUsage()
			assert.True(t, strings.HasPrefix(out.String(), "usage: chip8vm [options] [rom]"))
		})
	}
}
