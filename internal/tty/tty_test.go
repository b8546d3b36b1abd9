package tty

import (
	"strings"
	"testing"
	"time"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Event
	}{
		{"key", "w", []Event{{Key: 0x5}}},
		{"upper case key", "V", []Event{{Key: 0xF}}},
		{"unmapped", "p", []Event{}},
		{"escape", "\x1b", []Event{{Command: Quit}}},
		{"ctrl-c", "\x03", []Event{{Command: Quit}}},
		{"arrow ignored", "\x1b[A", []Event{}},
		{"function key ignored", "\x1b[15~1", []Event{{Key: 0x1}}},
		{"commands", " \t\x7f[]", []Event{
			{Command: Pause},
			{Command: Step},
			{Command: Restart},
			{Command: Slower},
			{Command: Faster},
		}},
		{"several keys", "1x", []Event{{Key: 0x1}, {Key: 0x0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInput([]byte(tt.input)))
		})
	}
}

func TestHeldKeys(t *testing.T) {
	keys := &chip8.Keypad{}
	held := NewHeldKeys(keys, DefaultHold)

	now := time.Unix(0, 0)

	held.Press(0xA, now)
	assert.True(t, keys.KeyPressed(0xA))

	held.Expire(now.Add(DefaultHold / 2))
	assert.True(t, keys.KeyPressed(0xA))

	// a repeat extends the hold
	held.Press(0xA, now.Add(DefaultHold/2))
	held.Expire(now.Add(DefaultHold))
	assert.True(t, keys.KeyPressed(0xA))

	held.Expire(now.Add(2 * DefaultHold))
	assert.False(t, keys.KeyPressed(0xA))

	// a single key-down event for the whole hold
	key, ok := keys.NextKey()
	assert.True(t, ok)
	assert.Equal(t, chip8.Key(0xA), key)

	_, ok = keys.NextKey()
	assert.False(t, ok)
}

func TestRender(t *testing.T) {
	var d chip8.Display

	// top row of the first cell, both rows of the second, bottom of the last
	d.Draw(0, 0, []byte{0x80}, chip8.ClipSprites)
	d.Draw(1, 0, []byte{0x80, 0x80}, chip8.ClipSprites)
	d.Draw(63, 31, []byte{0x80}, chip8.ClipSprites)

	lines := strings.Split(Render(&d), "\r\n")

	assert.Equal(t, chip8.Height/2+3, len(lines))
	assert.Equal(t, "+"+strings.Repeat("-", chip8.Width)+"+", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "|▀█ "))
	assert.True(t, strings.HasSuffix(lines[chip8.Height/2], " ▄|"))
	assert.Equal(t, "", lines[len(lines)-1])
}
