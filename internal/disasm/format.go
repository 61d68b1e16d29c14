package disasm

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// format returns the instruction name followed by its parameters.
// Addresses that have an entry in labels are printed as the label name.
func format(i Instruction, labels map[uint16]string) string {
	params := formatParams(i, labels)
	if params == "" {
		return i.Name()
	}
	return i.Name() + " " + params
}

func formatParams(i Instruction, labels map[uint16]string) string {
	opcode := i.opcode

	switch i.Name() {
	case chip8.ClsInst.Name, chip8.RetInst.Name:
		return ""
	case chip8.JpInst.Name:
		if opcode&0xF000 == 0xB000 {
			return "V0, " + formatAddress(opcode&0x0FFF, labels)
		}
		return formatAddress(opcode&0x0FFF, labels)
	case chip8.CallInst.Name:
		return formatAddress(opcode&0x0FFF, labels)
	case chip8.SeInst.Name, chip8.SneInst.Name:
		return formatCompare(opcode)
	case chip8.LdInst.Name:
		return formatLoad(opcode, labels)
	case chip8.AddInst.Name:
		return formatAdd(opcode)
	case chip8.OrInst.Name, chip8.AndInst.Name, chip8.XorInst.Name, chip8.SubInst.Name, chip8.SubnInst.Name:
		return fmt.Sprintf("V%X, V%X", registerX(opcode), registerY(opcode))
	case chip8.ShrInst.Name, chip8.ShlInst.Name:
		return formatShift(opcode)
	case chip8.SkpInst.Name, chip8.SknpInst.Name:
		return fmt.Sprintf("V%X", registerX(opcode))
	case chip8.RndInst.Name:
		return fmt.Sprintf("V%X, $%02X", registerX(opcode), opcode&0x00FF)
	case chip8.DrwInst.Name:
		return fmt.Sprintf("V%X, V%X, $%X", registerX(opcode), registerY(opcode), opcode&0x000F)
	}
	return ""
}

func formatAddress(address uint16, labels map[uint16]string) string {
	if name, ok := labels[address]; ok {
		return name
	}
	return fmt.Sprintf("$%03X", address)
}

// formatCompare formats SE and SNE with an immediate or register operand.
func formatCompare(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x3000, 0x4000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	}
	return ""
}

// formatLoad formats all LD forms including the timer, keypad, font,
// BCD and register block transfers of the F class.
func formatLoad(opcode uint16, labels map[uint16]string) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	case 0xA000:
		return "I, " + formatAddress(opcode&0x0FFF, labels)
	case 0xF000:
		return formatLoadMisc(opcode)
	}
	return ""
}

func formatLoadMisc(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0x00FF {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}

// formatAdd formats ADD Vx, byte, ADD Vx, Vy and ADD I, Vx.
func formatAdd(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x7000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	case 0xF000:
		return fmt.Sprintf("I, V%X", x)
	}
	return ""
}

// formatShift omits VY when it is V0, VY is only read with the shift quirk.
func formatShift(opcode uint16) string {
	y := registerY(opcode)
	if y == 0 {
		return fmt.Sprintf("V%X", registerX(opcode))
	}
	return fmt.Sprintf("V%X, V%X", registerX(opcode), y)
}

func formatWord(opcode uint16) string {
	return fmt.Sprintf(".word $%04X", opcode)
}

func registerX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

func registerY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
