package chip8

import "strings"

/// Key is one of the 16 hex keys on the CHIP-8 keypad.
///
type Key uint8

/// KeyCount is the number of keys on the keypad.
///
const KeyCount = 16

/// Input is the keypad state the VM queries. Ex9E and ExA1 ask about a
/// single key; Fx0A polls it until a key goes down.
///
type Input interface {
	KeyPressed(key Key) bool
}

/// KeyWaiter is an Input that also queues key-down events. When the input
/// implements it, Fx0A takes the next queued key instead of comparing key
/// state between steps, so taps shorter than a step aren't lost.
///
type KeyWaiter interface {
	Input

	/// NextKey pops the oldest pending key-down event.
	///
	NextKey() (Key, bool)
}

/// Layout maps each logical key to the physical key that drives it. The
/// hex pad is laid over the left side of a QWERTY keyboard:
///
///   1 2 3 C      1 2 3 4
///   4 5 6 D  ->  Q W E R
///   7 8 9 E      A S D F
///   A 0 B F      Z X C V
///
var Layout = [KeyCount]string{
	0x0: "X",
	0x1: "1",
	0x2: "2",
	0x3: "3",
	0x4: "Q",
	0x5: "W",
	0x6: "E",
	0x7: "A",
	0x8: "S",
	0x9: "D",
	0xA: "Z",
	0xB: "C",
	0xC: "4",
	0xD: "R",
	0xE: "F",
	0xF: "V",
}

// reverse of Layout
var physical = make(map[string]Key, KeyCount)

func init() {
	for k, name := range Layout {
		physical[name] = Key(k)
	}
}

/// Name returns the physical key bound to k.
///
func (k Key) Name() string {
	return Layout[k&0xF]
}

/// KeyNamed returns the logical key bound to a physical key name.
///
func KeyNamed(name string) (Key, bool) {
	k, ok := physical[strings.ToUpper(name)]
	return k, ok
}

/// maximum number of key-down events a Keypad holds on to
///
const maxKeyEvents = 16

/// Keypad is the standard Input: the host presses and releases keys as its
/// events arrive and the VM reads them back.
///
type Keypad struct {
	pressed [KeyCount]bool

	// key-down events not yet taken by NextKey
	events []Key
}

/// Press marks a key as held and queues a key-down event if it wasn't.
///
func (p *Keypad) Press(key Key) {
	key &= 0xF

	if !p.pressed[key] {
		if len(p.events) == maxKeyEvents {
			p.events = p.events[1:]
		}

		p.events = append(p.events, key)
	}

	p.pressed[key] = true
}

/// Release marks a key as no longer held.
///
func (p *Keypad) Release(key Key) {
	p.pressed[key&0xF] = false
}

/// Reset releases every key and drops pending events.
///
func (p *Keypad) Reset() {
	p.pressed = [KeyCount]bool{}
	p.events = p.events[:0]
}

/// KeyPressed implements Input.
///
func (p *Keypad) KeyPressed(key Key) bool {
	return p.pressed[key&0xF]
}

/// NextKey implements KeyWaiter.
///
func (p *Keypad) NextKey() (Key, bool) {
	if len(p.events) == 0 {
		return 0, false
	}

	key := p.events[0]
	p.events = p.events[1:]

	return key, true
}
