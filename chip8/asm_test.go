package chip8

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestAssemble(t *testing.T) {
	src := `
; count down from five
.count      EQU     5
.reg        EQU     V3

.start
            LD      reg, count
            LD      I, digits
.loop
            ADD     v3, -1
            SE      V3, 0
            JP      loop
            CALL    done
.done
            RET
.digits
            BYTE    $1..1, #F0
`

	asm, err := Assemble([]byte(src))
	assert.NoError(t, err)

	assert.Equal(t, []byte{
		0x63, 0x05, // 200: LD V3, #05
		0xA2, 0x0E, // 202: LD I, digits
		0x73, 0xFF, // 204: ADD V3, #FF
		0x33, 0x00, // 206: SE V3, #00
		0x12, 0x04, // 208: JP loop
		0x22, 0x0C, // 20A: CALL done
		0x00, 0xEE, // 20C: RET
		0x09, 0xF0, // 20E: digits
	}, asm.ROM)

	assert.Equal(t, 0, len(asm.Unresolved))
	assert.Equal(t, 0x204, asm.Labels["LOOP"].val.(int))
}

func TestAssembleForms(t *testing.T) {
	tests := []struct {
		src  string
		want uint16
	}{
		{"CLS", 0x00E0},
		{"SYS #123", 0x0123},
		{"JP V0, #300", 0xB300},
		{"SNE V1, V2", 0x9120},
		{"SNE V1, #10", 0x4110},
		{"SE V1, V2", 0x5120},
		{"SKP VA", 0xEA9E},
		{"SKNP VA", 0xEAA1},
		{"OR V1, V2", 0x8121},
		{"AND V1, V2", 0x8122},
		{"XOR V1, V2", 0x8123},
		{"ADD V1, V2", 0x8124},
		{"SUB V1, V2", 0x8125},
		{"SHR V1", 0x8116},
		{"SHR V1, V2", 0x8126},
		{"SUBN V1, V2", 0x8127},
		{"SHL V1", 0x811E},
		{"RND V4, $1111", 0xC40F},
		{"DRW V1, V2, 15", 0xD12F},
		{"LD V1, V2", 0x8120},
		{"LD V1, DT", 0xF107},
		{"LD V1, K", 0xF10A},
		{"LD DT, V1", 0xF115},
		{"LD ST, V1", 0xF118},
		{"ADD I, V1", 0xF11E},
		{"LD F, V1", 0xF129},
		{"LD B, V1", 0xF133},
		{"LD [I], V1", 0xF155},
		{"LD V1, [I]", 0xF165},
		{"WORD #ABCD", 0xABCD},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			asm, err := Assemble([]byte("    " + tt.src))
			assert.NoError(t, err)
			assert.Equal(t, 2, len(asm.ROM))
			assert.Equal(t, tt.want, uint16(asm.ROM[0])<<8|uint16(asm.ROM[1]))
		})
	}
}

func TestAssembleData(t *testing.T) {
	src := `
    BYTE    1, "ab"
    ALIGN   4
.table
    WORD    table, later
    PAD     2
.later
`

	asm, err := Assemble([]byte(src))
	assert.NoError(t, err)

	assert.Equal(t, []byte{
		0x01, 'A', 'B', 0x00,
		0x02, 0x04, 0x02, 0x0A,
		0x00, 0x00,
	}, asm.ROM)
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"unindented instruction", "CLS", "line 1"},
		{"unknown instruction", "    FOO", "unexpected token"},
		{"bad operands", "    DRW V1, V2", "illegal instruction"},
		{"unresolved label", "    JP nowhere", "unresolved label: NOWHERE"},
		{"duplicate label", ".a\n.a", "duplicate label: A"},
		{"forward byte", "    BYTE later\n.later", "forward reference"},
		{"jump past memory", "    JP #1000", "illegal instruction"},
		{"unterminated string", "    BYTE \"abc", "unterminated string"},
		{"bad indirection", "    LD [V0], V1", "only [I]"},
		{"error line", "    CLS\n    CLS\n    RET V0", "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asm, err := Assemble([]byte(tt.src))
			assert.True(t, err != nil)
			assert.True(t, asm == nil)
			assert.True(t, strings.Contains(err.Error(), tt.msg))
		})
	}
}

// Every valid instruction disassembles to source that assembles back to the
// same instruction.
func TestDisassembleAssembleRoundTrip(t *testing.T) {
	for w := 0; w <= 0xFFFF; w++ {
		inst := Decode(uint16(w))
		if !inst.Valid() {
			continue
		}

		asm, err := Assemble([]byte("    " + inst.String()))
		assert.NoError(t, err)
		assert.Equal(t, 2, len(asm.ROM))

		back := Decode(uint16(asm.ROM[0])<<8 | uint16(asm.ROM[1]))
		assert.Equal(t, inst.String(), back.String())
	}
}
