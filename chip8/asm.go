/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package chip8

import (
	"bufio"
	"bytes"
	"fmt"
)

/// Assembly is a completely assembled source file.
///
type Assembly struct {
	/// ROM is the final, assembled bytes to load at 0x200.
	///
	ROM []byte

	/// Label mapping.
	///
	Labels map[string]token

	/// Addresses with unresolved labels.
	///
	Unresolved map[int]string
}

/// Assemble CHIP-8 source code. Labels start in the first column with a
/// '.', instructions are indented, and ';' starts a comment:
///
///   .loop
///       LD     V0, #05
///       JP     loop
///
func Assemble(program []byte) (out *Assembly, err error) {
	var line int

	out = &Assembly{
		ROM:        make([]byte, ProgramStart, MemorySize),
		Labels:     make(map[string]token),
		Unresolved: make(map[int]string),
	}

	// handle panics during assembly
	defer func() {
		if r := recover(); r != nil {
			if line > 0 {
				err = fmt.Errorf("line %d - %v", line, r)
			} else {
				err = fmt.Errorf("%v", r)
			}

			out = nil
		}
	}()

	// create simple line scanner over the file
	reader := bytes.NewReader(bytes.ToUpper(program))
	scanner := bufio.NewScanner(reader)

	// parse and assemble
	for line = 1; scanner.Scan(); line++ {
		out.assemble(&tokenScanner{bytes: scanner.Bytes()})
	}

	// clear the line number as we're done with the source
	line = 0

	if len(out.ROM) > MemorySize {
		panic("program too large")
	}

	// resolve all label addresses
	for address, label := range out.Unresolved {
		t, ok := out.Labels[label]
		if !ok {
			panic(fmt.Errorf("unresolved label: %s", label))
		}
		if t.typ != TOKEN_LIT {
			panic(fmt.Errorf("label does not resolve to address: %s", label))
		}

		// NOTE: every instruction taking a label keeps its address in the
		//       low 12 bits, so only the low nibble of the first byte is
		//       patched. A WORD defaulted to 0x0200, so overwriting it works
		//       just the same.
		//
		out.ROM[address] = byte(t.val.(int)>>8&0xF) | out.ROM[address]&0xF0
		out.ROM[address+1] = byte(t.val.(int) & 0xFF)

		delete(out.Unresolved, address)
	}

	// drop the first 512 bytes from the rom
	out.ROM = out.ROM[ProgramStart:]

	return
}

/// Compile a single line into the assembly.
///
func (a *Assembly) assemble(s *tokenScanner) {
	t := s.scanToken()

	// assign labels
	if t.typ == TOKEN_LABEL {
		t = a.assembleLabel(t.val.(string), s)
	}

	switch t.typ {
	case TOKEN_INSTRUCTION:
		a.assembleInstruction(t.val.(string), s)
	case TOKEN_END:
	default:
		panic("unexpected token")
	}
}

/// Add a label to the assembly.
///
func (a *Assembly) assembleLabel(label string, s *tokenScanner) token {
	if _, exists := a.Labels[label]; exists {
		panic(fmt.Errorf("duplicate label: %s", label))
	}

	// by default, the label is assigned the current address
	a.Labels[label] = token{typ: TOKEN_LIT, val: len(a.ROM)}

	t := s.scanToken()

	// EQU reassigns the label to a literal or v-register
	if t.typ == TOKEN_EQU {
		v := s.scanToken()

		if v.typ == TOKEN_LIT || v.typ == TOKEN_V {
			a.Labels[label] = v

			// should be the final token
			if t = s.scanToken(); t.typ == TOKEN_END {
				return t
			}
		}

		panic("illegal label assignment")
	}

	return t
}

/// Compile a single instruction into the assembly.
///
func (a *Assembly) assembleInstruction(i string, s *tokenScanner) {
	tokens := s.scanOperands()

	var b []byte

	switch i {
	case "CLS":
		b = a.assembleFixed(tokens, 0x00E0)
	case "RET":
		b = a.assembleFixed(tokens, 0x00EE)
	case "SYS":
		b = a.assembleAddress(tokens, 0x0000)
	case "JP":
		b = a.assembleJP(tokens)
	case "CALL":
		b = a.assembleAddress(tokens, 0x2000)
	case "SE":
		b = a.assembleCompare(tokens, 0x3000, 0x5000)
	case "SNE":
		b = a.assembleCompare(tokens, 0x4000, 0x9000)
	case "SKP":
		b = a.assembleRegister(tokens, 0xE09E)
	case "SKNP":
		b = a.assembleRegister(tokens, 0xE0A1)
	case "OR":
		b = a.assembleALU(tokens, 0x8001)
	case "AND":
		b = a.assembleALU(tokens, 0x8002)
	case "XOR":
		b = a.assembleALU(tokens, 0x8003)
	case "SUB":
		b = a.assembleALU(tokens, 0x8005)
	case "SUBN":
		b = a.assembleALU(tokens, 0x8007)
	case "SHR":
		b = a.assembleShift(tokens, 0x8006)
	case "SHL":
		b = a.assembleShift(tokens, 0x800E)
	case "ADD":
		b = a.assembleADD(tokens)
	case "RND":
		b = a.assembleRND(tokens)
	case "DRW":
		b = a.assembleDRW(tokens)
	case "LD":
		b = a.assembleLD(tokens)
	case "BYTE":
		b = a.assembleBYTE(tokens)
	case "WORD":
		b = a.assembleWORD(tokens)
	case "ALIGN":
		b = a.assembleALIGN(tokens)
	case "PAD":
		b = a.assemblePAD(tokens)
	default:
		panic("illegal instruction")
	}

	a.ROM = append(a.ROM, b...)
}

/// Assemble a single operand, expanding label references.
///
func (a *Assembly) assembleOperand(t token) token {
	if t.typ == TOKEN_REF {
		label := t.val.(string)

		if v, exists := a.Labels[label]; exists {
			return v
		}

		// add an unresolved address
		a.Unresolved[len(a.ROM)] = label

		return token{typ: TOKEN_LIT, val: ProgramStart}
	}

	return t
}

/// Match the desired tokens with a list of tokens. Expand labels.
///
func (a *Assembly) assembleOperands(tokens []token, m ...tokenType) ([]token, bool) {
	ops := make([]token, 0, 3)

	// the number of desired tokens should match
	if len(tokens) != len(m) {
		return nil, false
	}

	// peek at the types before expanding, so a failed match doesn't
	// register an unresolved label
	for i, typ := range m {
		if tokens[i].typ != typ && !(tokens[i].typ == TOKEN_REF && a.refMatches(tokens[i], typ)) {
			return nil, false
		}
	}

	for _, t := range tokens {
		ops = append(ops, a.assembleOperand(t))
	}

	return ops, true
}

/// True if a label reference can stand in for an operand type. Unknown
/// labels are forward references to addresses.
///
func (a *Assembly) refMatches(t token, typ tokenType) bool {
	if v, exists := a.Labels[t.val.(string)]; exists {
		return v.typ == typ
	}

	return typ == TOKEN_LIT
}

func word(w int) []byte {
	return []byte{byte(w >> 8), byte(w)}
}

/// Assemble an instruction without operands.
///
func (a *Assembly) assembleFixed(tokens []token, opcode int) []byte {
	if len(tokens) == 0 {
		return word(opcode)
	}

	panic("illegal instruction")
}

/// Assemble an instruction taking a single 12-bit address.
///
func (a *Assembly) assembleAddress(tokens []token, opcode int) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		if addr := ops[0].val.(int); addr >= 0 && addr < MemorySize {
			return word(opcode | addr)
		}
	}

	panic("illegal instruction")
}

/// Assemble a JP instruction.
///
func (a *Assembly) assembleJP(tokens []token) []byte {
	if len(tokens) == 1 {
		return a.assembleAddress(tokens, 0x1000)
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		v := ops[0].val.(int)
		addr := ops[1].val.(int)

		if v == 0 && addr >= 0 && addr < MemorySize {
			return word(0xB000 | addr)
		}
	}

	panic("illegal instruction")
}

/// Assemble SE/SNE against a byte or a register.
///
func (a *Assembly) assembleCompare(tokens []token, byteOp, regOp int) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)
		b := ops[1].val.(int)

		if b >= -0x80 && b < 0x100 {
			return word(byteOp | x<<8 | b&0xFF)
		}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		x := ops[0].val.(int)
		y := ops[1].val.(int)

		return word(regOp | x<<8 | y<<4)
	}

	panic("illegal instruction")
}

/// Assemble an instruction taking a single v-register.
///
func (a *Assembly) assembleRegister(tokens []token, opcode int) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V); ok {
		return word(opcode | ops[0].val.(int)<<8)
	}

	panic("illegal instruction")
}

/// Assemble a register-register ALU instruction.
///
func (a *Assembly) assembleALU(tokens []token, opcode int) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		x := ops[0].val.(int)
		y := ops[1].val.(int)

		return word(opcode | x<<8 | y<<4)
	}

	panic("illegal instruction")
}

/// Assemble SHR/SHL, with an optional (ignored) second register.
///
func (a *Assembly) assembleShift(tokens []token, opcode int) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V); ok {
		x := ops[0].val.(int)

		return word(opcode | x<<8 | x<<4)
	}

	return a.assembleALU(tokens, opcode)
}

/// Assemble a ADD instruction.
///
func (a *Assembly) assembleADD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)
		b := ops[1].val.(int)

		if b >= -0x80 && b < 0x100 {
			return word(0x7000 | x<<8 | b&0xFF)
		}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		x := ops[0].val.(int)
		y := ops[1].val.(int)

		return word(0x8004 | x<<8 | y<<4)
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_I, TOKEN_V); ok {
		return word(0xF01E | ops[1].val.(int)<<8)
	}

	panic("illegal instruction")
}

/// Assemble a RND instruction.
///
func (a *Assembly) assembleRND(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)
		b := ops[1].val.(int)

		if b >= 0 && b < 0x100 {
			return word(0xC000 | x<<8 | b)
		}
	}

	panic("illegal instruction")
}

/// Assemble a DRW instruction.
///
func (a *Assembly) assembleDRW(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)
		y := ops[1].val.(int)
		n := ops[2].val.(int)

		if n >= 0 && n < 0x10 {
			return word(0xD000 | x<<8 | y<<4 | n)
		}
	}

	panic("illegal instruction")
}

/// Assemble a LD instruction.
///
func (a *Assembly) assembleLD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		x := ops[0].val.(int)
		b := ops[1].val.(int)

		if b >= -0x80 && b < 0x100 {
			return word(0x6000 | x<<8 | b&0xFF)
		}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return word(0x8000 | ops[0].val.(int)<<8 | ops[1].val.(int)<<4)
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_I, TOKEN_LIT); ok {
		if addr := ops[1].val.(int); addr >= 0 && addr < MemorySize {
			return word(0xA000 | addr)
		}
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_DT); ok {
		return word(0xF007 | ops[0].val.(int)<<8)
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_K); ok {
		return word(0xF00A | ops[0].val.(int)<<8)
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_DT, TOKEN_V); ok {
		return word(0xF015 | ops[1].val.(int)<<8)
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_ST, TOKEN_V); ok {
		return word(0xF018 | ops[1].val.(int)<<8)
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_F, TOKEN_V); ok {
		return word(0xF029 | ops[1].val.(int)<<8)
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_B, TOKEN_V); ok {
		return word(0xF033 | ops[1].val.(int)<<8)
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_EFFECTIVE_ADDRESS, TOKEN_V); ok {
		return word(0xF055 | ops[1].val.(int)<<8)
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_EFFECTIVE_ADDRESS); ok {
		return word(0xF065 | ops[0].val.(int)<<8)
	}

	panic("illegal instruction")
}

/// Assemble a BYTE instruction.
///
func (a *Assembly) assembleBYTE(tokens []token) []byte {
	b := make([]byte, 0, len(tokens))

	for _, t := range tokens {
		if t.typ == TOKEN_REF {
			if _, exists := a.Labels[t.val.(string)]; !exists {
				panic(fmt.Errorf("forward reference in byte: %s", t.val))
			}
		}

		switch op := a.assembleOperand(t); op.typ {
		case TOKEN_LIT:
			if n := op.val.(int); n < -0x80 || n > 0xFF {
				panic("invalid byte")
			}

			b = append(b, byte(op.val.(int)))
		case TOKEN_TEXT:
			b = append(b, op.val.(string)...)
		default:
			panic("invalid byte")
		}
	}

	return b
}

/// Assemble a WORD instruction.
///
func (a *Assembly) assembleWORD(tokens []token) []byte {
	b := make([]byte, 0, len(tokens)*2)

	for _, t := range tokens {
		op := t

		if t.typ == TOKEN_REF {
			if v, exists := a.Labels[t.val.(string)]; exists {
				op = v
			} else {
				// patched once the label is known
				a.Unresolved[len(a.ROM)+len(b)] = t.val.(string)
				op = token{typ: TOKEN_LIT, val: ProgramStart}
			}
		}

		if op.typ != TOKEN_LIT || op.val.(int) < 0 || op.val.(int) > 0xFFFF {
			panic("invalid word")
		}

		// store msb first
		b = append(b, word(op.val.(int))...)
	}

	return b
}

/// Assemble an ALIGN instruction.
///
func (a *Assembly) assembleALIGN(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		n := ops[0].val.(int)

		if n > 0 && n&(n-1) == 0 {
			offset := len(a.ROM) & (n - 1)

			if offset == 0 {
				return nil
			}

			// reserve pad bytes to meet alignment
			return make([]byte, n-offset)
		}
	}

	panic("illegal alignment")
}

/// Assemble a PAD instruction.
///
func (a *Assembly) assemblePAD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		n := ops[0].val.(int)

		if n >= 0 && n < MemorySize-len(a.ROM) {
			return make([]byte, n)
		}
	}

	panic("illegal size")
}
