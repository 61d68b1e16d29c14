// Package disasm decodes CHIP-8 opcodes into mnemonics and produces
// labelled assembly listings of CHIP-8 programs.
package disasm

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Instruction wraps a retrogolib CHIP-8 instruction definition together
// with the opcode word it was decoded from.
type Instruction struct {
	ins    *chip8.Instruction
	opcode uint16
}

// Decode looks up the instruction for an opcode word.
// The second return value is false if the opcode is not a defined
// CHIP-8 instruction.
func Decode(opcode uint16) (Instruction, bool) {
	class := int(opcode&0xF000) >> 12
	for _, op := range chip8.Opcodes[class] {
		if op.Info.Mask&opcode == op.Info.Value {
			return Instruction{ins: op.Instruction, opcode: opcode}, true
		}
	}
	return Instruction{opcode: opcode}, false
}

// IsNil returns true if the instruction is nil.
func (i Instruction) IsNil() bool {
	return i.ins == nil
}

// Name returns the instruction mnemonic.
func (i Instruction) Name() string {
	if i.ins == nil {
		return ""
	}
	return i.ins.Name
}

// Opcode returns the opcode word the instruction was decoded from.
func (i Instruction) Opcode() uint16 {
	return i.opcode
}

// IsCall returns true if the instruction is a subroutine call.
func (i Instruction) IsCall() bool {
	return i.ins == chip8.CallInst
}

// IsJump returns true if the instruction is a jump, absolute or offset.
func (i Instruction) IsJump() bool {
	return i.ins == chip8.JpInst
}

// IsReturn returns true if the instruction is a subroutine return.
func (i Instruction) IsReturn() bool {
	return i.ins == chip8.RetInst
}

// IsSkip returns true if the instruction conditionally skips the next one.
func (i Instruction) IsSkip() bool {
	if i.ins == nil {
		return false
	}
	return chip8.SkipInstructions.Contains(i.ins.Name)
}

// Target returns the absolute address encoded in the instruction for
// JP addr, CALL addr and LD I, addr.
func (i Instruction) Target() (uint16, bool) {
	switch i.opcode & 0xF000 {
	case 0x1000, 0x2000, 0xA000:
		if i.ins == nil {
			return 0, false
		}
		return i.opcode & 0x0FFF, true
	}
	return 0, false
}

// IsDataReference returns true for LD I, addr.
func (i Instruction) IsDataReference() bool {
	return i.ins == chip8.LdInst && i.opcode&0xF000 == 0xA000
}

// String returns the full assembly text of the instruction.
func (i Instruction) String() string {
	return format(i, nil)
}

// Format returns the assembly text for an opcode word, or a .word
// directive if the opcode is undefined.
func Format(opcode uint16) string {
	ins, ok := Decode(opcode)
	if !ok {
		return formatWord(opcode)
	}
	return ins.String()
}
