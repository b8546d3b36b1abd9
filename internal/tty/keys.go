// Package tty runs the interpreter in a raw-mode terminal: keyboard bytes
// are mapped onto the keypad and the display is drawn with block characters.
package tty

import (
	"time"

	"github.com/chip8vm/chip8vm/chip8"
)

// DefaultHold is how long a key stays down after its byte arrives. It has
// to outlast the keyboard's auto-repeat delay or held keys flicker.
const DefaultHold = 150 * time.Millisecond

// HeldKeys presses keypad keys for terminals, which only ever report key
// presses. Every press holds the key for a fixed time; repeats extend it.
type HeldKeys struct {
	keys  *chip8.Keypad
	hold  time.Duration
	since [chip8.KeyCount]time.Time
}

// NewHeldKeys drives keys.
func NewHeldKeys(keys *chip8.Keypad, hold time.Duration) *HeldKeys {
	return &HeldKeys{
		keys: keys,
		hold: hold,
	}
}

// Press a key at now.
func (h *HeldKeys) Press(key chip8.Key, now time.Time) {
	key &= 0xF

	h.keys.Press(key)
	h.since[key] = now
}

// Expire releases every key held longer than the hold time.
func (h *HeldKeys) Expire(now time.Time) {
	for k := range h.since {
		if h.since[k].IsZero() || now.Sub(h.since[k]) < h.hold {
			continue
		}

		h.keys.Release(chip8.Key(k))
		h.since[k] = time.Time{}
	}
}

// Command is an emulator key read from the terminal.
type Command int

// Terminal commands.
const (
	None Command = iota
	Quit
	Pause
	Step
	Restart
	Slower
	Faster
)

// Event is a single decoded keypress: either a command or a keypad key.
type Event struct {
	Command Command
	Key     chip8.Key
}

// ParseInput decodes the bytes of a single terminal read. Escape sequences
// (arrows, function keys) are ignored, a lone escape quits.
func ParseInput(b []byte) []Event {
	events := make([]Event, 0, len(b))

	for i := 0; i < len(b); i++ {
		switch c := b[i]; c {
		case 0x1B:
			if i == len(b)-1 {
				events = append(events, Event{Command: Quit})
				continue
			}

			// skip the sequence up to its final byte
			for i++; i < len(b)-1 && (b[i] == '[' || b[i] == 'O' || b[i] < 0x40); i++ {
			}
		case 0x03:
			events = append(events, Event{Command: Quit})
		case ' ':
			events = append(events, Event{Command: Pause})
		case '\t':
			events = append(events, Event{Command: Step})
		case 0x7F, 0x08:
			events = append(events, Event{Command: Restart})
		case '[':
			events = append(events, Event{Command: Slower})
		case ']':
			events = append(events, Event{Command: Faster})
		default:
			if key, ok := chip8.KeyNamed(string(rune(c))); ok {
				events = append(events, Event{Key: key})
			}
		}
	}

	return events
}
