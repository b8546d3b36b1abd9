package chip8

/// Op is the semantic operation of a decoded instruction. Decode maps every
/// 16-bit word onto exactly one Op; words outside the instruction set decode
/// to OpInvalid.
///
type Op uint8

const (
	OpInvalid Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1nnn
	OpCALL       // 2nnn
	OpSEByte     // 3xkk
	OpSNEByte    // 4xkk
	OpSEReg      // 5xy0
	OpLDByte     // 6xkk
	OpADDByte    // 7xkk
	OpLDReg      // 8xy0
	OpOR         // 8xy1
	OpAND        // 8xy2
	OpXOR        // 8xy3
	OpADDReg     // 8xy4
	OpSUB        // 8xy5
	OpSHR        // 8xy6
	OpSUBN       // 8xy7
	OpSHL        // 8xyE
	OpSNEReg     // 9xy0
	OpLDI        // Annn
	OpJPV0       // Bnnn
	OpRND        // Cxkk
	OpDRW        // Dxyn
	OpSKP        // Ex9E
	OpSKNP       // ExA1
	OpLDVxDT     // Fx07
	OpLDVxK      // Fx0A
	OpLDDTVx     // Fx15
	OpLDSTVx     // Fx18
	OpADDIVx     // Fx1E
	OpLDFVx      // Fx29
	OpLDBVx      // Fx33
	OpStore      // Fx55
	OpLoad       // Fx65

	/// number of ops, including OpInvalid
	///
	OpCount
)

/// Instruction is a single decoded instruction word.
///
type Instruction struct {
	Op Op

	/// Word is the raw big-endian instruction.
	///
	Word uint16
}

/// Nibbles splits the word into its four 4-bit fields, most significant
/// first.
///
func (i Instruction) Nibbles() (byte, byte, byte, byte) {
	return byte(i.Word >> 12), byte(i.Word >> 8 & 0xF), byte(i.Word >> 4 & 0xF), byte(i.Word & 0xF)
}

/// X is the first register operand.
///
func (i Instruction) X() int {
	return int(i.Word >> 8 & 0xF)
}

/// Y is the second register operand.
///
func (i Instruction) Y() int {
	return int(i.Word >> 4 & 0xF)
}

/// N is the low nibble (sprite height).
///
func (i Instruction) N() int {
	return int(i.Word & 0xF)
}

/// KK is the low byte immediate.
///
func (i Instruction) KK() byte {
	return byte(i.Word)
}

/// NNN is the 12-bit address immediate.
///
func (i Instruction) NNN() uint16 {
	return i.Word & 0xFFF
}

/// Valid is false for words that aren't CHIP-8 instructions.
///
func (i Instruction) Valid() bool {
	return i.Op != OpInvalid
}

/// Decode an instruction word. The primary nibble selects the family and
/// the remaining nibbles disambiguate the overloaded 0, 5, 8, 9, E and F
/// families.
///
func Decode(word uint16) Instruction {
	return Instruction{Op: decodeOp(word), Word: word}
}

func decodeOp(word uint16) Op {
	n4 := word & 0xF

	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00E0:
			return OpCLS
		case 0x00EE:
			return OpRET
		}
	case 0x1:
		return OpJP
	case 0x2:
		return OpCALL
	case 0x3:
		return OpSEByte
	case 0x4:
		return OpSNEByte
	case 0x5:
		if n4 == 0 {
			return OpSEReg
		}
	case 0x6:
		return OpLDByte
	case 0x7:
		return OpADDByte
	case 0x8:
		switch n4 {
		case 0x0:
			return OpLDReg
		case 0x1:
			return OpOR
		case 0x2:
			return OpAND
		case 0x3:
			return OpXOR
		case 0x4:
			return OpADDReg
		case 0x5:
			return OpSUB
		case 0x6:
			return OpSHR
		case 0x7:
			return OpSUBN
		case 0xE:
			return OpSHL
		}
	case 0x9:
		if n4 == 0 {
			return OpSNEReg
		}
	case 0xA:
		return OpLDI
	case 0xB:
		return OpJPV0
	case 0xC:
		return OpRND
	case 0xD:
		return OpDRW
	case 0xE:
		switch word & 0xFF {
		case 0x9E:
			return OpSKP
		case 0xA1:
			return OpSKNP
		}
	case 0xF:
		switch word & 0xFF {
		case 0x07:
			return OpLDVxDT
		case 0x0A:
			return OpLDVxK
		case 0x15:
			return OpLDDTVx
		case 0x18:
			return OpLDSTVx
		case 0x1E:
			return OpADDIVx
		case 0x29:
			return OpLDFVx
		case 0x33:
			return OpLDBVx
		case 0x55:
			return OpStore
		case 0x65:
			return OpLoad
		}
	}

	return OpInvalid
}
