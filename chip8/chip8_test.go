package chip8

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

// fakeClock is a manually advanced clock for driving the timers.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// scriptedInput is a deterministic Input without a key-down queue.
type scriptedInput struct {
	pressed [KeyCount]bool
}

func (s *scriptedInput) KeyPressed(key Key) bool {
	return s.pressed[key]
}

func newTestVM(t *testing.T, rom []byte, opts ...Option) (*VM, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Unix(1000, 0)}
	opts = append([]Option{WithClock(clock.Now), WithRand(rand.New(rand.NewSource(1)))}, opts...)

	vm, err := Load(rom, opts...)
	assert.NoError(t, err)

	return vm, clock
}

func step(t *testing.T, vm *VM, input Input, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		assert.NoError(t, vm.Step(input))
	}
}

func TestLoadROM(t *testing.T) {
	vm, _ := newTestVM(t, []byte{0x12, 0x34, 0x56})

	assert.Equal(t, uint16(ProgramStart), vm.PC)
	assert.Equal(t, byte(0x12), vm.Memory[0x200])
	assert.Equal(t, byte(0x56), vm.Memory[0x202])
	assert.Equal(t, Font[0], vm.Memory[FontAddress])
	assert.Equal(t, Font[len(Font)-1], vm.Memory[FontAddress+len(Font)-1])
	assert.Equal(t, 0, vm.Stack.Depth())
	assert.Equal(t, Running, vm.State)
}

func TestLoadROMTooLarge(t *testing.T) {
	_, err := Load(make([]byte, ProgramSize+1))
	assert.True(t, errors.Is(err, ROMTooLarge))

	_, err = Load(make([]byte, ProgramSize))
	assert.NoError(t, err)
}

func TestLoadROMTwice(t *testing.T) {
	vm, _ := newTestVM(t, []byte{0x00, 0xE0})

	err := vm.LoadROM([]byte{0x00, 0xE0})
	assert.True(t, errors.Is(err, ROMAlreadyLoaded))
}

func TestEndToEnd(t *testing.T) {
	vm, _ := newTestVM(t, []byte{0x60, 0x05, 0x70, 0x03})

	step(t, vm, nil, 2)

	assert.Equal(t, byte(8), vm.V[0])
	assert.Equal(t, uint16(0x204), vm.PC)
	assert.Equal(t, int64(2), vm.Cycles)
}

func TestLoadImmediate(t *testing.T) {
	for x := 0; x < 16; x++ {
		vm, _ := newTestVM(t, []byte{0x60 | byte(x), 0xA5})

		step(t, vm, nil, 1)
		assert.Equal(t, byte(0xA5), vm.V[x])
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name  string
		word  uint16
		vx    byte
		vy    byte
		want  byte
		flag  byte
		flags bool
	}{
		{"ld", 0x8120, 0x01, 0x42, 0x42, 0, false},
		{"or", 0x8121, 0x0F, 0xF0, 0xFF, 0, false},
		{"and", 0x8122, 0x3C, 0x0F, 0x0C, 0, false},
		{"xor", 0x8123, 0xFF, 0x0F, 0xF0, 0, false},
		{"add overflow", 0x8124, 0xFF, 0x01, 0x00, 1, true},
		{"add", 0x8124, 0x01, 0x01, 0x02, 0, true},
		{"sub no borrow", 0x8125, 5, 3, 2, 1, true},
		{"sub equal", 0x8125, 5, 5, 0, 1, true},
		{"sub borrow", 0x8125, 3, 5, 254, 0, true},
		{"shr", 0x8126, 0b011, 0, 0b001, 1, true},
		{"shr even", 0x8126, 0b110, 0, 0b011, 0, true},
		{"subn no borrow", 0x8127, 3, 5, 2, 1, true},
		{"subn borrow", 0x8127, 5, 3, 254, 0, true},
		{"shl", 0x812E, 0b10000001, 0, 0b00000010, 1, true},
		{"shl no carry", 0x812E, 0b01000001, 0, 0b10000010, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, _ := newTestVM(t, []byte{byte(tt.word >> 8), byte(tt.word)})
			vm.V[1] = tt.vx
			vm.V[2] = tt.vy
			vm.V[0xF] = 0x77

			step(t, vm, nil, 1)

			assert.Equal(t, tt.want, vm.V[1])
			if tt.flags {
				assert.Equal(t, tt.flag, vm.V[0xF])
			} else {
				assert.Equal(t, byte(0x77), vm.V[0xF])
			}
		})
	}
}

func TestFlagRegisterAsDestination(t *testing.T) {
	// the flag is written after the result
	vm, _ := newTestVM(t, []byte{0x8F, 0x14})
	vm.V[0xF] = 0xFF
	vm.V[1] = 0x01

	step(t, vm, nil, 1)
	assert.Equal(t, byte(1), vm.V[0xF])
}

func TestAddImmediateWraps(t *testing.T) {
	vm, _ := newTestVM(t, []byte{0x73, 0x02})
	vm.V[3] = 0xFF
	vm.V[0xF] = 0x55

	step(t, vm, nil, 1)

	assert.Equal(t, byte(0x01), vm.V[3])
	assert.Equal(t, byte(0x55), vm.V[0xF])
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name string
		word uint16
		vx   byte
		vy   byte
		skip bool
	}{
		{"se byte equal", 0x3142, 0x42, 0, true},
		{"se byte not equal", 0x3142, 0x41, 0, false},
		{"sne byte equal", 0x4142, 0x42, 0, false},
		{"sne byte not equal", 0x4142, 0x41, 0, true},
		{"se reg equal", 0x5120, 7, 7, true},
		{"se reg not equal", 0x5120, 7, 8, false},
		{"sne reg equal", 0x9120, 7, 7, false},
		{"sne reg not equal", 0x9120, 7, 8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, _ := newTestVM(t, []byte{byte(tt.word >> 8), byte(tt.word)})
			vm.V[1] = tt.vx
			vm.V[2] = tt.vy

			step(t, vm, nil, 1)

			if tt.skip {
				assert.Equal(t, uint16(0x204), vm.PC)
			} else {
				assert.Equal(t, uint16(0x202), vm.PC)
			}
		})
	}
}

func TestJump(t *testing.T) {
	vm, _ := newTestVM(t, []byte{0x12, 0x50})
	vm.Memory[0x250] = 0x6A
	vm.Memory[0x251] = 0x11

	step(t, vm, nil, 1)
	assert.Equal(t, uint16(0x250), vm.PC)

	step(t, vm, nil, 1)
	assert.Equal(t, byte(0x11), vm.V[0xA])
	assert.Equal(t, uint16(0x252), vm.PC)
}

func TestJumpV0(t *testing.T) {
	vm, _ := newTestVM(t, []byte{0xB3, 0x00})
	vm.V[0] = 0x10

	step(t, vm, nil, 1)
	assert.Equal(t, uint16(0x310), vm.PC)
}

func TestCallReturn(t *testing.T) {
	vm, _ := newTestVM(t, []byte{
		0x22, 0x06, // 200: CALL #206
		0x60, 0x01, // 202: LD V0, #01
		0x12, 0x04, // 204: JP #204
		0x00, 0xEE, // 206: RET
	})

	step(t, vm, nil, 1)
	assert.Equal(t, uint16(0x206), vm.PC)
	assert.Equal(t, 1, vm.Stack.Depth())

	step(t, vm, nil, 1)
	assert.Equal(t, uint16(0x202), vm.PC)
	assert.Equal(t, 0, vm.Stack.Depth())

	step(t, vm, nil, 1)
	assert.Equal(t, byte(1), vm.V[0])
}

func TestStackOverflow(t *testing.T) {
	// 200: CALL #200
	vm, _ := newTestVM(t, []byte{0x22, 0x00})

	step(t, vm, nil, StackDepth)
	assert.Equal(t, StackDepth, vm.Stack.Depth())

	err := vm.Step(nil)
	assert.True(t, errors.Is(err, StackOverflow))
	assert.Equal(t, Halted, vm.State)
	assert.Equal(t, StackDepth, vm.Stack.Depth())

	// stays halted
	assert.Equal(t, err, vm.Step(nil))
	assert.Equal(t, err, vm.Err())
}

func TestStackUnderflow(t *testing.T) {
	vm, _ := newTestVM(t, []byte{0x00, 0xEE})

	err := vm.Step(nil)
	assert.True(t, errors.Is(err, StackUnderflow))

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, uint16(0x200), e.PC)
	assert.Equal(t, uint16(0x00EE), e.Opcode)
}

func TestUnrecognizedOpcode(t *testing.T) {
	for _, word := range []uint16{0x5121, 0x9124, 0x812F, 0xE19F, 0xF1FF, 0x0123, 0x0000} {
		vm, _ := newTestVM(t, []byte{byte(word >> 8), byte(word)})

		err := vm.Step(nil)
		assert.True(t, errors.Is(err, UnrecognizedOpcode))

		var e *Error
		assert.True(t, errors.As(err, &e))
		assert.Equal(t, word, e.Opcode)
	}
}

func TestOutOfBounds(t *testing.T) {
	tests := []struct {
		name string
		word uint16
		i    uint16
	}{
		{"bcd", 0xF033, 0xFFE},
		{"store", 0xF255, 0xFFE},
		{"load", 0xF265, 0xFFF},
		{"draw", 0xD125, 0xFFD},
		{"index past memory", 0xF065, 0x1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, _ := newTestVM(t, []byte{byte(tt.word >> 8), byte(tt.word)})
			vm.I = tt.i

			err := vm.Step(nil)
			assert.True(t, errors.Is(err, OutOfBoundsMemoryAccess))
			assert.Equal(t, Halted, vm.State)
		})
	}
}

func TestFetchOutOfBounds(t *testing.T) {
	vm, _ := newTestVM(t, []byte{0x1F, 0xFF})

	step(t, vm, nil, 1)

	err := vm.Step(nil)
	assert.True(t, errors.Is(err, OutOfBoundsMemoryAccess))
}

func TestIndexRegister(t *testing.T) {
	vm, _ := newTestVM(t, []byte{
		0xA3, 0x00, // LD I, #300
		0xF1, 0x1E, // ADD I, V1
		0xF2, 0x29, // LD F, V2
	})
	vm.V[1] = 0x20
	vm.V[2] = 0xA

	step(t, vm, nil, 2)
	assert.Equal(t, uint16(0x320), vm.I)

	step(t, vm, nil, 1)
	assert.Equal(t, uint16(FontAddress+0xA*GlyphSize), vm.I)
}

func TestBCD(t *testing.T) {
	for _, n := range []byte{0, 7, 42, 100, 254, 255} {
		vm, _ := newTestVM(t, []byte{0xF3, 0x33})
		vm.V[3] = n
		vm.I = 0x300

		step(t, vm, nil, 1)

		assert.Equal(t, n/100, vm.Memory[0x300])
		assert.Equal(t, n/10%10, vm.Memory[0x301])
		assert.Equal(t, n%10, vm.Memory[0x302])
	}
}

func TestStoreLoadRegisters(t *testing.T) {
	vm, _ := newTestVM(t, []byte{
		0xF3, 0x55, // LD [I], V3
		0xF2, 0x65, // LD V2, [I]
	})
	vm.I = 0x400
	vm.V = [16]byte{1, 2, 3, 4, 5}

	step(t, vm, nil, 1)
	assert.Equal(t, []byte{1, 2, 3, 4, 0}, vm.Memory[0x400:0x405])

	vm.V = [16]byte{}
	vm.Memory[0x400] = 9

	step(t, vm, nil, 1)
	assert.Equal(t, byte(9), vm.V[0])
	assert.Equal(t, byte(2), vm.V[1])
	assert.Equal(t, byte(3), vm.V[2])
	assert.Equal(t, byte(0), vm.V[3])
	assert.Equal(t, uint16(0x400), vm.I)
}

func TestRandom(t *testing.T) {
	vm, _ := newTestVM(t, []byte{
		0xC0, 0x00, // RND V0, #00
		0xC1, 0x0F, // RND V1, #0F
	})
	vm.V[0] = 0xFF
	vm.V[1] = 0xFF

	step(t, vm, nil, 2)

	assert.Equal(t, byte(0), vm.V[0])
	assert.Equal(t, byte(0), vm.V[1]&0xF0)
}

func TestDraw(t *testing.T) {
	vm, _ := newTestVM(t, []byte{
		0xA0, 0x50, // LD I, #050 (glyph 0)
		0xD0, 0x15, // DRW V0, V1, 5
		0xD0, 0x15, // DRW V0, V1, 5
		0xD2, 0x15, // DRW V2, V1, 5
	})
	vm.V[2] = 8

	step(t, vm, nil, 2)
	assert.Equal(t, byte(0), vm.V[0xF])
	assert.True(t, vm.Display.Changed())
	assert.Equal(t, uint64(0xF0)<<56, vm.Display.Rows[0])

	// drawing the same sprite again erases it
	step(t, vm, nil, 1)
	assert.Equal(t, byte(1), vm.V[0xF])
	assert.Equal(t, uint64(0), vm.Display.Rows[0])
	assert.Equal(t, uint64(0xF0)<<56, vm.Display.Fading[0])

	// disjoint
	step(t, vm, nil, 1)
	assert.Equal(t, byte(0), vm.V[0xF])
}

func TestClearScreen(t *testing.T) {
	vm, _ := newTestVM(t, []byte{0x00, 0xE0})
	vm.Display.Rows[3] = 0xFF

	step(t, vm, nil, 1)

	assert.Equal(t, uint64(0), vm.Display.Rows[3])
	assert.Equal(t, uint64(0xFF), vm.Display.Fading[3])
	assert.True(t, vm.Display.ConsumeChanged())
}

func TestTimers(t *testing.T) {
	// 200: JP #200
	vm, clock := newTestVM(t, []byte{0x12, 0x00})
	vm.Timers.Delay = 10

	for i := 0; i < 10; i++ {
		clock.advance(TimerPeriod)
		step(t, vm, nil, 1)
	}
	assert.Equal(t, byte(0), vm.Timers.Delay)

	for i := 0; i < 5; i++ {
		clock.advance(TimerPeriod)
		step(t, vm, nil, 1)
	}
	assert.Equal(t, byte(0), vm.Timers.Delay)
}

func TestTimersIgnoreStepRate(t *testing.T) {
	vm, clock := newTestVM(t, []byte{0x12, 0x00})
	vm.Timers.Delay = 10

	// many steps within a single period
	step(t, vm, nil, 100)
	assert.Equal(t, byte(10), vm.Timers.Delay)

	// a slow host catches up on the next step
	clock.advance(4*TimerPeriod + TimerPeriod/2)
	step(t, vm, nil, 1)
	assert.Equal(t, byte(6), vm.Timers.Delay)

	// the partial period carries over
	clock.advance(TimerPeriod / 2)
	step(t, vm, nil, 1)
	assert.Equal(t, byte(5), vm.Timers.Delay)
}

func TestDelayTimerInstructions(t *testing.T) {
	vm, clock := newTestVM(t, []byte{
		0xF0, 0x15, // LD DT, V0
		0xF1, 0x18, // LD ST, V1
		0xF2, 0x07, // LD V2, DT
	})
	vm.V[0] = 30
	vm.V[1] = 2

	step(t, vm, nil, 2)
	assert.True(t, vm.Beeping())

	clock.advance(2 * TimerPeriod)
	step(t, vm, nil, 1)

	assert.Equal(t, byte(28), vm.V[2])
	assert.False(t, vm.Beeping())
}

func TestKeySkip(t *testing.T) {
	input := &scriptedInput{}
	input.pressed[0xB] = true

	tests := []struct {
		name string
		word uint16
		key  byte
		skip bool
	}{
		{"skp pressed", 0xE39E, 0xB, true},
		{"skp released", 0xE39E, 0xC, false},
		{"sknp pressed", 0xE3A1, 0xB, false},
		{"sknp released", 0xE3A1, 0xC, true},
		{"skp high bits ignored", 0xE39E, 0xFB, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, _ := newTestVM(t, []byte{byte(tt.word >> 8), byte(tt.word)})
			vm.V[3] = tt.key

			step(t, vm, input, 1)

			if tt.skip {
				assert.Equal(t, uint16(0x204), vm.PC)
			} else {
				assert.Equal(t, uint16(0x202), vm.PC)
			}
		})
	}
}

func TestKeyWait(t *testing.T) {
	vm, clock := newTestVM(t, []byte{
		0xF4, 0x0A, // LD V4, K
		0x60, 0x01, // LD V0, #01
	})
	vm.Timers.Delay = 3

	input := &scriptedInput{}
	input.pressed[0x2] = true

	step(t, vm, input, 1)
	assert.Equal(t, AwaitingKey, vm.State)
	assert.Equal(t, uint16(0x202), vm.PC)

	// a key held since before the wait doesn't count
	step(t, vm, input, 5)
	assert.Equal(t, AwaitingKey, vm.State)

	// timers keep running while waiting
	clock.advance(3 * TimerPeriod)
	step(t, vm, input, 1)
	assert.Equal(t, byte(0), vm.Timers.Delay)

	input.pressed[0x7] = true
	step(t, vm, input, 1)

	assert.Equal(t, Running, vm.State)
	assert.Equal(t, byte(0x7), vm.V[4])
	assert.Equal(t, byte(0), vm.V[0])

	step(t, vm, input, 1)
	assert.Equal(t, byte(1), vm.V[0])
}

func TestKeyWaitReleasedAndPressedAgain(t *testing.T) {
	vm, _ := newTestVM(t, []byte{0xF4, 0x0A})

	input := &scriptedInput{}
	input.pressed[0x2] = true

	step(t, vm, input, 1)

	input.pressed[0x2] = false
	step(t, vm, input, 1)
	assert.Equal(t, AwaitingKey, vm.State)

	input.pressed[0x2] = true
	step(t, vm, input, 1)
	assert.Equal(t, Running, vm.State)
	assert.Equal(t, byte(0x2), vm.V[4])
}

func TestKeyWaitKeypad(t *testing.T) {
	vm, _ := newTestVM(t, []byte{0xF4, 0x0A})

	keys := &Keypad{}

	// pressed before the wait, then released
	keys.Press(0x1)
	keys.Release(0x1)

	step(t, vm, keys, 1)
	step(t, vm, keys, 1)
	assert.Equal(t, AwaitingKey, vm.State)

	// a tap between two steps is still seen
	keys.Press(0xE)
	keys.Release(0xE)

	step(t, vm, keys, 1)
	assert.Equal(t, Running, vm.State)
	assert.Equal(t, byte(0xE), vm.V[4])
}

func TestKeyWaitWithoutInput(t *testing.T) {
	vm, _ := newTestVM(t, []byte{0xF4, 0x0A})

	step(t, vm, nil, 10)
	assert.Equal(t, AwaitingKey, vm.State)
}

func TestTracer(t *testing.T) {
	var traced []string

	tracer := func(pc uint16, inst Instruction) {
		traced = append(traced, inst.String())
	}

	vm, _ := newTestVM(t, []byte{0x60, 0x05, 0x70, 0x03}, WithTracer(tracer))
	step(t, vm, nil, 2)

	assert.Equal(t, []string{"LD     V0, #05", "ADD    V0, #03"}, traced)
}
