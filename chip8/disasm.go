package chip8

import "fmt"

/// mnemonics for each op, indexed by Op
///
var mnemonics = [OpCount]string{
	OpInvalid: "??",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEByte:  "SE",
	OpSNEByte: "SNE",
	OpSEReg:   "SE",
	OpLDByte:  "LD",
	OpADDByte: "ADD",
	OpLDReg:   "LD",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDReg:  "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE",
	OpLDI:     "LD",
	OpJPV0:    "JP",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD",
	OpLDVxK:   "LD",
	OpLDDTVx:  "LD",
	OpLDSTVx:  "LD",
	OpADDIVx:  "ADD",
	OpLDFVx:   "LD",
	OpLDBVx:   "LD",
	OpStore:   "LD",
	OpLoad:    "LD",
}

/// Mnemonic returns the assembler mnemonic of the op.
///
func (op Op) Mnemonic() string {
	if op >= OpCount {
		return mnemonics[OpInvalid]
	}
	return mnemonics[op]
}

/// Operands returns the operand text in assembler syntax.
///
func (i Instruction) Operands() string {
	x, y := i.X(), i.Y()

	switch i.Op {
	case OpJP, OpCALL:
		return fmt.Sprintf("#%04X", i.NNN())
	case OpSEByte, OpSNEByte, OpLDByte, OpADDByte, OpRND:
		return fmt.Sprintf("V%X, #%02X", x, i.KK())
	case OpSEReg, OpSNEReg, OpLDReg, OpOR, OpAND, OpXOR, OpADDReg, OpSUB, OpSUBN:
		return fmt.Sprintf("V%X, V%X", x, y)
	case OpSHR, OpSHL, OpSKP, OpSKNP:
		return fmt.Sprintf("V%X", x)
	case OpLDI:
		return fmt.Sprintf("I, #%04X", i.NNN())
	case OpJPV0:
		return fmt.Sprintf("V0, #%04X", i.NNN())
	case OpDRW:
		return fmt.Sprintf("V%X, V%X, %d", x, y, i.N())
	case OpLDVxDT:
		return fmt.Sprintf("V%X, DT", x)
	case OpLDVxK:
		return fmt.Sprintf("V%X, K", x)
	case OpLDDTVx:
		return fmt.Sprintf("DT, V%X", x)
	case OpLDSTVx:
		return fmt.Sprintf("ST, V%X", x)
	case OpADDIVx:
		return fmt.Sprintf("I, V%X", x)
	case OpLDFVx:
		return fmt.Sprintf("F, V%X", x)
	case OpLDBVx:
		return fmt.Sprintf("B, V%X", x)
	case OpStore:
		return fmt.Sprintf("[I], V%X", x)
	case OpLoad:
		return fmt.Sprintf("V%X, [I]", x)
	}

	return ""
}

/// String renders the instruction as assembly, eg. "LD     V0, #05".
///
func (i Instruction) String() string {
	if ops := i.Operands(); ops != "" {
		return fmt.Sprintf("%-6s %s", i.Op.Mnemonic(), ops)
	}

	return i.Op.Mnemonic()
}

/// Disassemble the CHIP-8 instruction at an address.
///
func (vm *VM) Disassemble(address int) string {
	word, err := vm.Memory.Word(address)
	if err != nil {
		return ""
	}

	// end of program memory?
	if word == 0 {
		return fmt.Sprintf("%04X -", address)
	}

	return fmt.Sprintf("%04X - %s", address, Decode(word))
}

/// DisassembleROM returns a listing of a raw ROM image, one line per word,
/// addressed from 0x200.
///
func DisassembleROM(program []byte) []string {
	lines := make([]string, 0, len(program)/2+1)

	for i := 0; i+1 < len(program); i += 2 {
		word := uint16(program[i])<<8 | uint16(program[i+1])
		inst := Decode(word)

		if inst.Valid() {
			lines = append(lines, fmt.Sprintf("%04X - %04X  %s", ProgramStart+i, word, inst))
		} else {
			lines = append(lines, fmt.Sprintf("%04X - %04X  WORD   #%04X", ProgramStart+i, word, word))
		}
	}

	// trailing odd byte
	if len(program)%2 == 1 {
		n := len(program) - 1
		lines = append(lines, fmt.Sprintf("%04X - %02X    BYTE   #%02X", ProgramStart+n, program[n], program[n]))
	}

	return lines
}
