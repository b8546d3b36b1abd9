// Package options contains the program options.
package options

import (
	"path/filepath"
	"strings"

	"github.com/chip8vm/chip8vm/chip8"
)

const (
	// DefaultSpeed is the default number of instructions per second.
	DefaultSpeed = 540

	// MinSpeed and MaxSpeed bound the instruction rate.
	MinSpeed = 60
	MaxSpeed = 60000

	// DefaultScale is the default size of a CHIP-8 pixel in window pixels.
	DefaultScale = 10
)

// Program options of the interpreter.
type Program struct {
	Input string // ROM or assembly source to run, empty opens a dialog
	Wav   string // file the beep is recorded to

	Speed int // instructions per second
	Scale int // window pixels per CHIP-8 pixel

	Assemble    bool // input is assembly source
	Disassemble bool // print a listing and exit
	Terminal    bool // run in the terminal instead of a window
	Wrap        bool // wrap sprites around the display edges
	Trace       bool // log every executed instruction
	Paused      bool // boot paused
	Statsview   bool // launch the runtime stats server
	Version     bool // print the version and exit
}

// New returns the default options.
func New() Program {
	return Program{
		Speed: DefaultSpeed,
		Scale: DefaultScale,
	}
}

// SpritePolicy returns the sprite policy selected by the options.
func (p Program) SpritePolicy() chip8.SpritePolicy {
	if p.Wrap {
		return chip8.WrapSprites
	}
	return chip8.ClipSprites
}

// IsSource reports whether filename names assembly source rather than a ROM.
func IsSource(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".asm", ".c8s":
		return true
	}
	return false
}
