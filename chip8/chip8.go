package chip8

import (
	"math/rand"
	"os"
	"time"
)

/// State is what the VM will do on the next Step.
///
type State uint8

const (
	/// Running fetches and executes the next instruction.
	///
	Running State = iota

	/// AwaitingKey is entered by Fx0A. Each Step polls the input until a
	/// key goes down.
	///
	AwaitingKey

	/// Halted after a fatal error. Step keeps returning the error.
	///
	Halted
)

func (s State) String() string {
	switch s {
	case AwaitingKey:
		return "awaiting key"
	case Halted:
		return "halted"
	}
	return "running"
}

/// Tracer is called with every instruction just before it executes.
///
type Tracer func(pc uint16, inst Instruction)

/// VM is a CHIP-8 virtual machine. It is not safe for concurrent use: a
/// single driver calls Step and reads the display between steps.
///
type VM struct {
	/// Memory addressable by CHIP-8. The font lives at 0x50 and programs
	/// are loaded at 0x200.
	///
	Memory Memory

	/// Display is the 64x32 frame buffer.
	///
	Display Display

	/// Stack of return addresses.
	///
	Stack Stack

	/// Timers are the delay and sound timers.
	///
	Timers Timers

	/// V are the 16 general registers. VF doubles as the flag register.
	///
	V [16]byte

	/// I is the index (address) register.
	///
	I uint16

	/// PC is the program counter. All programs begin at 0x200.
	///
	PC uint16

	/// State of the machine.
	///
	State State

	/// Cycles is how many instructions have been executed.
	///
	Cycles int64

	// register Fx0A stores the key in
	wait int

	// key state at the previous poll while waiting
	waitKeys [KeyCount]bool

	// fatal error that halted the machine
	fault *Error

	// true once a ROM has been loaded
	loaded bool

	clock  func() time.Time
	rng    *rand.Rand
	policy SpritePolicy
	tracer Tracer
}

/// Option configures a VM at construction.
///
type Option func(*VM)

/// WithClock replaces the wall clock driving the timers.
///
func WithClock(clock func() time.Time) Option {
	return func(vm *VM) {
		vm.clock = clock
	}
}

/// WithRand replaces the random source used by Cxkk.
///
func WithRand(rng *rand.Rand) Option {
	return func(vm *VM) {
		vm.rng = rng
	}
}

/// WithSpritePolicy sets how sprites crossing the display edge are drawn.
///
func WithSpritePolicy(policy SpritePolicy) Option {
	return func(vm *VM) {
		vm.policy = policy
	}
}

/// WithTracer installs a hook called before every instruction.
///
func WithTracer(tracer Tracer) Option {
	return func(vm *VM) {
		vm.tracer = tracer
	}
}

/// New creates a CHIP-8 virtual machine with the font loaded and no program.
///
func New(opts ...Option) *VM {
	vm := &VM{
		PC:    ProgramStart,
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(vm)
	}

	if vm.rng == nil {
		vm.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	// copy the font sprites into low memory
	copy(vm.Memory[FontAddress:], Font[:])

	return vm
}

/// Load a ROM from a byte array and return a new CHIP-8 virtual machine.
///
func Load(program []byte, opts ...Option) (*VM, error) {
	vm := New(opts...)

	if err := vm.LoadROM(program); err != nil {
		return nil, err
	}

	return vm, nil
}

/// LoadFile loads a ROM file and returns a new CHIP-8 virtual machine.
///
func LoadFile(file string, opts ...Option) (*VM, error) {
	program, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	return Load(program, opts...)
}

/// LoadROM copies a program into memory at 0x200 and starts the timers. A
/// VM runs a single ROM; loading a second one is an error.
///
func (vm *VM) LoadROM(program []byte) error {
	if vm.loaded {
		return &Error{Kind: ROMAlreadyLoaded}
	}
	if len(program) > ProgramSize {
		return &Error{Kind: ROMTooLarge, Address: len(program)}
	}

	copy(vm.Memory[ProgramStart:], program)

	vm.PC = ProgramStart
	vm.Timers.Start(vm.clock())
	vm.loaded = true

	return nil
}

/// SpritePolicy returns how the VM draws sprites crossing the display edge.
///
func (vm *VM) SpritePolicy() SpritePolicy {
	return vm.policy
}

/// Beeping is true while the sound timer is non-zero.
///
func (vm *VM) Beeping() bool {
	return vm.Timers.Beeping()
}

/// Err returns the error that halted the machine, or nil.
///
func (vm *VM) Err() error {
	if vm.fault == nil {
		return nil
	}
	return vm.fault
}

/// Step the CHIP-8 virtual machine a single instruction. The timers are
/// brought up to date first. While waiting for a key, Step only polls the
/// input. A fatal error halts the machine and is returned by every
/// subsequent call.
///
func (vm *VM) Step(input Input) error {
	if vm.fault != nil {
		return vm.fault
	}

	if input == nil {
		input = noInput{}
	}

	vm.Timers.Tick(vm.clock())

	if vm.State == AwaitingKey {
		vm.pollKey(input)
		return nil
	}

	pc := vm.PC

	// fetch the next instruction
	word, err := vm.Memory.Word(int(pc))
	if err != nil {
		return vm.halt(err, pc, 0)
	}

	inst := Decode(word)

	if vm.tracer != nil {
		vm.tracer(pc, inst)
	}

	// advance past the instruction, jumps overwrite it
	vm.PC += 2

	if err := vm.execute(inst, input); err != nil {
		return vm.halt(err, pc, word)
	}

	// increment the cycle count
	vm.Cycles++

	return nil
}

/// halt records a fatal error along with the instruction that caused it.
///
func (vm *VM) halt(err error, pc, word uint16) error {
	var e *Error

	switch err := err.(type) {
	case *Error:
		e = err
	case ErrorKind:
		e = &Error{Kind: err}
	default:
		panic(err)
	}

	e.PC = pc
	e.Opcode = word

	vm.fault = e
	vm.State = Halted

	return e
}

/// waitKey puts the machine into the AwaitingKey state for register x.
///
func (vm *VM) waitKey(x int, input Input) {
	vm.wait = x
	vm.State = AwaitingKey

	if w, ok := input.(KeyWaiter); ok {
		// only keys pressed from now on count
		for _, ok := w.NextKey(); ok; _, ok = w.NextKey() {
		}
		return
	}

	for k := range vm.waitKeys {
		vm.waitKeys[k] = input.KeyPressed(Key(k))
	}
}

/// pollKey checks the input for a newly pressed key while waiting.
///
func (vm *VM) pollKey(input Input) {
	if w, ok := input.(KeyWaiter); ok {
		if key, ok := w.NextKey(); ok {
			vm.keyHit(key)
		}
		return
	}

	for k := range vm.waitKeys {
		pressed := input.KeyPressed(Key(k))
		down := pressed && !vm.waitKeys[k]

		vm.waitKeys[k] = pressed

		if down {
			vm.keyHit(Key(k))
			return
		}
	}
}

func (vm *VM) keyHit(key Key) {
	vm.V[vm.wait] = byte(key)
	vm.State = Running
}

// used when Step is given no input at all
type noInput struct{}

func (noInput) KeyPressed(Key) bool {
	return false
}
