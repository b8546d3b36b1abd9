package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestLayout(t *testing.T) {
	names := make(map[string]bool, KeyCount)

	for k := Key(0); k < KeyCount; k++ {
		name := k.Name()
		assert.False(t, names[name])
		names[name] = true

		key, ok := KeyNamed(name)
		assert.True(t, ok)
		assert.Equal(t, k, key)
	}

	key, ok := KeyNamed("q")
	assert.True(t, ok)
	assert.Equal(t, Key(0x4), key)

	_, ok = KeyNamed("P")
	assert.False(t, ok)
}

func TestKeypad(t *testing.T) {
	var p Keypad

	p.Press(0x5)
	p.Press(0x5)
	assert.True(t, p.KeyPressed(0x5))
	assert.False(t, p.KeyPressed(0x6))

	// holding a key queues a single event
	key, ok := p.NextKey()
	assert.True(t, ok)
	assert.Equal(t, Key(0x5), key)

	_, ok = p.NextKey()
	assert.False(t, ok)

	p.Release(0x5)
	assert.False(t, p.KeyPressed(0x5))

	p.Press(0x5)
	_, ok = p.NextKey()
	assert.True(t, ok)
}

func TestKeypadEventsBounded(t *testing.T) {
	var p Keypad

	for i := 0; i < 3*maxKeyEvents; i++ {
		p.Press(Key(i))
		p.Release(Key(i))
	}

	n := 0
	for _, ok := p.NextKey(); ok; _, ok = p.NextKey() {
		n++
	}
	assert.Equal(t, maxKeyEvents, n)
}

func TestKeypadReset(t *testing.T) {
	var p Keypad

	p.Press(0x1)
	p.Press(0x2)
	p.Reset()

	assert.False(t, p.KeyPressed(0x1))

	_, ok := p.NextKey()
	assert.False(t, ok)
}
