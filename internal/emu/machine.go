// Package emu drives a CHIP-8 virtual machine for an interactive host: it
// paces instructions against wall-clock time and handles pausing,
// single-stepping, breakpoints and restarts.
package emu

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/chip8vm/chip8vm/chip8"
	"github.com/chip8vm/chip8vm/internal/options"
	"github.com/chip8vm/chip8vm/logger"
)

const logTag = "emu"

// LoadProgram reads a ROM image, assembling it first if it's source.
func LoadProgram(filename string, assemble bool) ([]byte, error) {
	program, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}

	if !assemble {
		return program, nil
	}

	asm, err := chip8.Assemble(program)
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", filepath.Base(filename), err)
	}

	return asm.ROM, nil
}

// Machine is a running program. It isn't safe for concurrent use; the host
// loop owns it.
type Machine struct {
	// VM currently running the program. Replaced on restart.
	VM *chip8.VM

	// Keys is the keypad the host presses and the VM reads.
	Keys *chip8.Keypad

	// Name of the running program.
	Name string

	program []byte
	opts    options.Program
	log     *logger.Logger

	paused bool
	speed  int

	// instructions owed to the next frame
	budget float64

	breakpoints map[uint16]bool

	// resume over the breakpoint at PC
	skipBreak bool
}

// New boots a program.
func New(name string, program []byte, opts options.Program, log *logger.Logger) (*Machine, error) {
	if log == nil {
		log = logger.Central()
	}

	m := &Machine{
		Keys:        &chip8.Keypad{},
		Name:        name,
		program:     program,
		opts:        opts,
		log:         log,
		speed:       opts.Speed,
		breakpoints: make(map[uint16]bool),
	}

	if m.speed == 0 {
		m.speed = options.DefaultSpeed
	}

	if err := m.Restart(opts.Paused); err != nil {
		return nil, err
	}

	return m, nil
}

// Restart the program on a fresh VM. Breakpoints are kept.
func (m *Machine) Restart(paused bool) error {
	vmOpts := []chip8.Option{chip8.WithSpritePolicy(m.opts.SpritePolicy())}

	if m.opts.Trace {
		vmOpts = append(vmOpts, chip8.WithTracer(m.trace))
	}

	vm, err := chip8.Load(m.program, vmOpts...)
	if err != nil {
		return fmt.Errorf("loading %s: %w", m.Name, err)
	}

	m.VM = vm
	m.Keys.Reset()
	m.budget = 0
	m.paused = paused
	m.skipBreak = true

	m.log.Logf(logTag, "loaded %s (%d bytes, %s sprites)", m.Name, len(m.program), vm.SpritePolicy())
	if paused {
		m.log.Log(logTag, "paused")
	}

	return nil
}

func (m *Machine) trace(pc uint16, inst chip8.Instruction) {
	m.log.Logf("trace", "%04X - %s", pc, inst)
}

// Paused is true while emulation is stopped.
func (m *Machine) Paused() bool {
	return m.paused
}

// TogglePause pauses or resumes emulation. Resuming at a breakpoint runs
// over it.
func (m *Machine) TogglePause() {
	m.SetPaused(!m.paused)
}

// SetPaused pauses or resumes emulation.
func (m *Machine) SetPaused(paused bool) {
	if paused == m.paused {
		return
	}

	m.paused = paused
	m.budget = 0

	if paused {
		m.log.Logf(logTag, "paused at #%04X", m.VM.PC)
	} else {
		m.skipBreak = true
		m.log.Log(logTag, "resumed")
	}
}

// Speed is the number of instructions executed per second.
func (m *Machine) Speed() int {
	return m.speed
}

// SetSpeed changes the instruction rate, clamped to the allowed range.
func (m *Machine) SetSpeed(speed int) {
	if speed < options.MinSpeed {
		speed = options.MinSpeed
	}
	if speed > options.MaxSpeed {
		speed = options.MaxSpeed
	}

	m.speed = speed
	m.log.Logf(logTag, "speed %d instructions/sec", speed)
}

// Faster doubles the instruction rate.
func (m *Machine) Faster() {
	m.SetSpeed(m.speed * 2)
}

// Slower halves the instruction rate.
func (m *Machine) Slower() {
	m.SetSpeed(m.speed / 2)
}

// ToggleBreakpoint sets or clears a breakpoint. Returns true if set.
func (m *Machine) ToggleBreakpoint(address uint16) bool {
	if m.breakpoints[address] {
		delete(m.breakpoints, address)
		m.log.Logf(logTag, "breakpoint cleared at #%04X", address)
		return false
	}

	m.breakpoints[address] = true
	m.log.Logf(logTag, "breakpoint set at #%04X", address)
	return true
}

// Breakpoint is true if there's a breakpoint at address.
func (m *Machine) Breakpoint(address uint16) bool {
	return m.breakpoints[address]
}

// Breakpoints returns all breakpoint addresses in order.
func (m *Machine) Breakpoints() []uint16 {
	addresses := make([]uint16, 0, len(m.breakpoints))
	for address := range m.breakpoints {
		addresses = append(addresses, address)
	}

	sort.Slice(addresses, func(i, j int) bool { return addresses[i] < addresses[j] })
	return addresses
}

// Step executes a single instruction while paused.
func (m *Machine) Step() error {
	if !m.paused {
		return nil
	}

	return m.step()
}

// Frame runs the instructions owed for d of wall-clock time. It stops early
// on a breakpoint or a fatal error; the error pauses the machine. Returns the
// number of steps taken.
func (m *Machine) Frame(d time.Duration) (int, error) {
	if m.paused || m.VM.State == chip8.Halted {
		return 0, nil
	}

	m.budget += float64(m.speed) * d.Seconds()

	// don't try to catch up after a stall
	if limit := float64(m.speed) / 10; m.budget > limit {
		m.budget = limit
	}

	n := int(m.budget)
	m.budget -= float64(n)

	for i := 0; i < n; i++ {
		if m.VM.State == chip8.Running && m.breakpoints[m.VM.PC] && !m.skipBreak {
			m.paused = true
			m.budget = 0
			m.log.Logf(logTag, "breakpoint at #%04X", m.VM.PC)
			return i, nil
		}

		if err := m.step(); err != nil {
			return i + 1, err
		}
	}

	return n, nil
}

func (m *Machine) step() error {
	cycles := m.VM.Cycles

	if err := m.VM.Step(m.Keys); err != nil {
		m.paused = true
		m.log.Logf(logTag, "%s: %v", m.Name, err)
		return err
	}

	// only an executed instruction moves off a breakpoint
	if m.VM.Cycles != cycles {
		m.skipBreak = false
	}

	return nil
}
