package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chip8vm/chip8vm/beep"
	"github.com/chip8vm/chip8vm/chip8"
	"github.com/chip8vm/chip8vm/internal/emu"
	"github.com/chip8vm/chip8vm/internal/tty"
	"github.com/chip8vm/chip8vm/logger"
)

/// RunTerminal runs the interpreter in the controlling terminal instead of
/// a window. The buzzer rings the terminal bell.
///
func RunTerminal() error {
	if Options.Input == "" {
		return errors.New("terminal mode needs a rom")
	}

	program, err := emu.LoadProgram(Options.Input, Options.Assemble)
	if err != nil {
		return err
	}

	m, err := emu.New(filepath.Base(Options.Input), program, Options, nil)
	if err != nil {
		return err
	}

	t, err := tty.Open(tty.Device)
	if err != nil {
		return err
	}

	// the log is only readable once the screen is given back
	defer logger.Tail(os.Stderr, 8)
	defer t.Close()

	var recorder *beep.Recorder
	var tone *beep.Tone

	if Options.Wav != "" {
		recorder = beep.NewRecorder(Options.Wav)
		tone = beep.NewTone()

		defer func() {
			if err := recorder.Close(); err != nil {
				logger.Logf("audio", "%v", err)
			}
		}()
	}

	held := tty.NewHeldKeys(m.Keys, tty.DefaultHold)

	video := time.NewTicker(time.Second / 60)
	defer video.Stop()

	last := time.Now()
	status := ""
	beeping := false
	redraw := true

	for {
		select {
		case b, ok := <-t.Input():
			if !ok {
				return nil
			}

			for _, ev := range tty.ParseInput(b) {
				switch ev.Command {
				case tty.None:
					held.Press(ev.Key, time.Now())
				case tty.Quit:
					return nil
				case tty.Pause:
					m.TogglePause()
				case tty.Step:
					if err := m.Step(); err != nil {
						logger.Log("error", err.Error())
					}
				case tty.Restart:
					if err := m.Restart(false); err != nil {
						return err
					}
					redraw = true
				case tty.Slower:
					m.Slower()
				case tty.Faster:
					m.Faster()
				}
			}
		case now := <-video.C:
			held.Expire(now)

			if _, err := m.Frame(now.Sub(last)); err != nil {
				logger.Log("error", err.Error())
			}
			last = now

			on := !m.Paused() && m.VM.Beeping()

			// ring once as the buzzer starts
			if on && !beeping {
				t.Write("\a")
			}
			beeping = on

			if recorder != nil {
				recorder.Record(tone.Generate(on, beep.SamplesPerFrame))
			}

			s := terminalStatus(m)
			if s != status {
				status = s
				redraw = true
			}

			if m.VM.Display.ConsumeChanged() || redraw {
				t.Draw(tty.Render(&m.VM.Display), status)
				redraw = false
			}
		}
	}
}

// one line under the screen
func terminalStatus(m *emu.Machine) string {
	state := m.VM.State.String()
	if m.Paused() && m.VM.State != chip8.Halted {
		state = "paused"
	}

	return fmt.Sprintf(" %s  PC #%04X  %d ips  %s  [space] pause [tab] step [esc] quit",
		m.Name, m.VM.PC, m.Speed(), state)
}
