package chip8

import "fmt"

/// ErrorKind is the closed set of fatal conditions the VM can raise. Every
/// kind is itself an error so callers can match with errors.Is.
///
type ErrorKind uint8

const (
	UnrecognizedOpcode ErrorKind = iota + 1
	StackOverflow
	StackUnderflow
	OutOfBoundsMemoryAccess
	ROMTooLarge
	ROMAlreadyLoaded
)

/// Error implements the error interface for the kind.
///
func (k ErrorKind) Error() string {
	switch k {
	case UnrecognizedOpcode:
		return "unrecognized opcode"
	case StackOverflow:
		return "stack overflow"
	case StackUnderflow:
		return "stack underflow"
	case OutOfBoundsMemoryAccess:
		return "out of bounds memory access"
	case ROMTooLarge:
		return "rom too large"
	case ROMAlreadyLoaded:
		return "rom already loaded"
	}

	return fmt.Sprintf("error kind %d", uint8(k))
}

/// Error is a fatal VM fault along with where it happened.
///
type Error struct {
	Kind ErrorKind

	/// PC is the address of the faulting instruction.
	///
	PC uint16

	/// Opcode is the faulting instruction word.
	///
	Opcode uint16

	/// Address is the offending memory offset for memory faults.
	///
	Address int
}

func (e *Error) Error() string {
	switch e.Kind {
	case OutOfBoundsMemoryAccess:
		return fmt.Sprintf("%s: #%04X at #%04X (opcode #%04X)", e.Kind, e.Address, e.PC, e.Opcode)
	case ROMTooLarge:
		return fmt.Sprintf("%s: %d bytes (max %d)", e.Kind, e.Address, ProgramSize)
	case ROMAlreadyLoaded:
		return e.Kind.Error()
	}

	return fmt.Sprintf("%s: #%04X at #%04X", e.Kind, e.Opcode, e.PC)
}

/// Unwrap returns the error kind so errors.Is(err, StackOverflow) works.
///
func (e *Error) Unwrap() error {
	return e.Kind
}

// memory faults are raised deep inside handlers, the dispatcher fills in
// the instruction context afterwards
func memoryFault(address int) *Error {
	return &Error{Kind: OutOfBoundsMemoryAccess, Address: address}
}
