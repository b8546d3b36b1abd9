package chip8

const (
	/// MemorySize is the size of the CHIP-8 address space.
	///
	MemorySize = 0x1000

	/// ProgramStart is where ROMs are loaded and execution begins.
	///
	ProgramStart = 0x200

	/// ProgramSize is the largest ROM that fits in memory.
	///
	ProgramSize = MemorySize - ProgramStart
)

/// Memory is the flat, bounds-checked CHIP-8 address space.
///
type Memory [MemorySize]byte

/// Read a single byte.
///
func (m *Memory) Read(address int) (byte, error) {
	if address < 0 || address >= MemorySize {
		return 0, memoryFault(address)
	}

	return m[address], nil
}

/// Write a single byte.
///
func (m *Memory) Write(address int, b byte) error {
	if address < 0 || address >= MemorySize {
		return memoryFault(address)
	}

	m[address] = b
	return nil
}

/// Slice returns memory[address:address+n] or a fault if any byte of the
/// range lies outside the address space.
///
func (m *Memory) Slice(address, n int) ([]byte, error) {
	if address < 0 || address >= MemorySize {
		return nil, memoryFault(address)
	}
	if n > 0 && address+n > MemorySize {
		return nil, memoryFault(MemorySize)
	}

	return m[address : address+n], nil
}

/// Word reads the big-endian 16-bit instruction at address.
///
func (m *Memory) Word(address int) (uint16, error) {
	b, err := m.Slice(address, 2)
	if err != nil {
		return 0, err
	}

	return uint16(b[0])<<8 | uint16(b[1]), nil
}
