package main

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/chip8vm/chip8vm/logger"
)

var (
	/// Mapping of modern keyboard to CHIP-8 keys.
	///
	KeyMap = make(map[sdl.Scancode]chip8.Key, chip8.KeyCount)
)

/// InitKeyMap binds the scancode of each physical key in the layout to its
/// CHIP-8 key.
///
func InitKeyMap() {
	for k, name := range chip8.Layout {
		if code := sdl.GetScancodeFromName(name); code != sdl.SCANCODE_UNKNOWN {
			KeyMap[code] = chip8.Key(k)
		}
	}
}

/// ProcessEvents from SDL and map keys to the CHIP-8 VM.
///
func ProcessEvents() bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			key, mapped := KeyMap[ev.Keysym.Scancode]

			if ev.Type == sdl.KEYUP {
				if mapped && Machine != nil {
					Machine.Keys.Release(key)
				}
				continue
			}

			if ev.Type != sdl.KEYDOWN {
				continue
			}

			if mapped {
				if Machine != nil && ev.Repeat == 0 {
					Machine.Keys.Press(key)
				}
				continue
			}

			if !Command(ev) {
				return false
			}
		}
	}

	return true
}

/// Command runs the emulator function bound to a key. Returns false to quit.
///
func Command(ev *sdl.KeyboardEvent) bool {
	log := logger.Central()

	switch ev.Keysym.Scancode {
	case sdl.SCANCODE_ESCAPE:
		return false
	case sdl.SCANCODE_UP:
		log.ScrollUp(1)
	case sdl.SCANCODE_PAGEUP:
		log.ScrollUp(LogLines)
	case sdl.SCANCODE_DOWN:
		log.ScrollDown(1, LogLines)
	case sdl.SCANCODE_PAGEDOWN:
		log.ScrollDown(LogLines, LogLines)
	case sdl.SCANCODE_HOME:
		log.Home()
	case sdl.SCANCODE_END:
		log.End()
	case sdl.SCANCODE_F3:
		LoadDialog()
	case sdl.SCANCODE_H:
		DebugHelp()
	}

	if Machine == nil {
		return true
	}

	switch ev.Keysym.Scancode {
	case sdl.SCANCODE_BACKSPACE:
		// holding control during reset will reboot paused
		if err := Machine.Restart(ev.Keysym.Mod&sdl.KMOD_CTRL != 0); err != nil {
			ShowError(err)
		}
	case sdl.SCANCODE_LEFTBRACKET:
		Machine.Slower()
	case sdl.SCANCODE_RIGHTBRACKET:
		Machine.Faster()
	case sdl.SCANCODE_F5, sdl.SCANCODE_SPACE:
		Machine.TogglePause()
	case sdl.SCANCODE_F6, sdl.SCANCODE_F10:
		if err := Machine.Step(); err != nil {
			ShowError(err)
		}
	case sdl.SCANCODE_F8:
		if Machine.Paused() {
			DebugMemory()
		}
	case sdl.SCANCODE_F9:
		if Machine.Paused() {
			Machine.ToggleBreakpoint(Machine.VM.PC)
		}
	}

	return true
}
