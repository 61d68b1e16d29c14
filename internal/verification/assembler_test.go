package verification

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestAssemble_Instructions(t *testing.T) {
	tests := []struct {
		source string
		opcode uint16
	}{
		{"cls", 0x00E0},
		{"ret", 0x00EE},
		{"jp $2A4", 0x12A4},
		{"jp V0, $300", 0xB300},
		{"call $456", 0x2456},
		{"se V3, $42", 0x3342},
		{"sne V3, $42", 0x4342},
		{"se V1, V2", 0x5120},
		{"sne V1, V2", 0x9120},
		{"ld V5, $FF", 0x65FF},
		{"add V5, $01", 0x7501},
		{"ld V1, V2", 0x8120},
		{"or V1, V2", 0x8121},
		{"and V1, V2", 0x8122},
		{"xor V1, V2", 0x8123},
		{"add V1, V2", 0x8124},
		{"sub V1, V2", 0x8125},
		{"shr V1", 0x8106},
		{"shr V1, V2", 0x8126},
		{"subn V1, V2", 0x8127},
		{"shl VA", 0x8A0E},
		{"shl VA, VB", 0x8ABE},
		{"ld I, $123", 0xA123},
		{"rnd V7, $0F", 0xC70F},
		{"drw V1, V2, $5", 0xD125},
		{"skp VE", 0xEE9E},
		{"sknp VE", 0xEEA1},
		{"ld V2, DT", 0xF207},
		{"ld V2, K", 0xF20A},
		{"ld DT, V2", 0xF215},
		{"ld ST, V2", 0xF218},
		{"add I, V2", 0xF21E},
		{"ld F, V2", 0xF229},
		{"ld B, V2", 0xF233},
		{"ld [I], V2", 0xF255},
		{"ld V2, [I]", 0xF265},
		{".word $0123", 0x0123},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			program, err := Assemble([]byte(tt.source))
			assert.NoError(t, err)
			assert.Equal(t, []byte{byte(tt.opcode >> 8), byte(tt.opcode)}, program)
		})
	}
}

func TestAssemble_Labels(t *testing.T) {
	source := `; comment line
.org $200

start:
    ld I, sprite        ; $0200
    call sub
loop:
    jp loop
sub:
    ret
sprite:
    .byte $F0, $90
`
	program, err := Assemble([]byte(source))
	assert.NoError(t, err)
	assert.Equal(t, []byte{
		0xA2, 0x08,
		0x22, 0x06,
		0x12, 0x04,
		0x00, 0xEE,
		0xF0, 0x90,
	}, program)
}

func TestAssemble_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		errMsg string
	}{
		{"unknown instruction", "nop", "unsupported instruction"},
		{"unknown label", "jp missing", "unknown label 'missing'"},
		{"duplicate label", "a:\na:\ncls", "duplicate label 'a'"},
		{"byte out of range", "ld V0, $100", "out of range"},
		{"address out of range", "jp $1000", "out of range"},
		{"nibble out of range", "drw V0, V1, $10", "out of range"},
		{"jump offset register", "jp V1, $200", "must be V0"},
		{"invalid value", ".byte $XY", "invalid value"},
		{"unsupported origin", ".org $600", "unsupported origin"},
		{"wrong operands", "skp $01", "unsupported instruction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble([]byte(tt.source))
			assert.ErrorContains(t, err, tt.errMsg)
			assert.True(t, errors.Is(err, ErrSyntax))
		})
	}
}
