package machine

// instruction is a fetched opcode split into its operand fields.
type instruction struct {
	opcode uint16
	class  uint8  // highest nibble
	x      uint8  // second nibble, register
	y      uint8  // third nibble, register
	n      uint8  // lowest nibble
	nn     uint8  // lowest byte
	nnn    uint16 // lowest 12 bits, address
}

func decode(opcode uint16) instruction {
	return instruction{
		opcode: opcode,
		class:  uint8(opcode >> 12),
		x:      uint8(opcode>>8) & 0xF,
		y:      uint8(opcode>>4) & 0xF,
		n:      uint8(opcode) & 0xF,
		nn:     uint8(opcode),
		nnn:    opcode & 0x0FFF,
	}
}

type handler func(m *Machine, in instruction) error

// handlers is indexed by the highest opcode nibble. Classes that encode
// several instructions dispatch further on the remaining nibbles.
var handlers = [16]handler{
	0x0: (*Machine).execSystem,
	0x1: (*Machine).jump,
	0x2: (*Machine).call,
	0x3: (*Machine).skipEqualImmediate,
	0x4: (*Machine).skipNotEqualImmediate,
	0x5: (*Machine).execSkipEqualRegister,
	0x6: (*Machine).setImmediate,
	0x7: (*Machine).addImmediate,
	0x8: (*Machine).execArithmetic,
	0x9: (*Machine).execSkipNotEqualRegister,
	0xA: (*Machine).setIndex,
	0xB: (*Machine).jumpOffset,
	0xC: (*Machine).random,
	0xD: (*Machine).draw,
	0xE: (*Machine).execKey,
	0xF: (*Machine).execMisc,
}

// Step fetches, decodes and executes exactly one instruction.
// It returns a *Fault if the instruction can not be executed, in which case
// no machine state was modified and the machine is halted.
func (m *Machine) Step() error {
	if m.fault != nil {
		return m.fault
	}
	if m.waiting {
		m.pollWaitKey()
		return nil
	}

	if int(m.pc)+opcodeSize > MemorySize {
		return m.halt(&Fault{
			Kind:    MemoryAccess,
			PC:      m.pc,
			Region:  RegionMemory,
			Address: int(m.pc) + opcodeSize - 1,
		})
	}
	m.opcode = uint16(m.memory[m.pc])<<8 | uint16(m.memory[m.pc+1])

	in := decode(m.opcode)
	return handlers[in.class](m, in)
}

func (m *Machine) execSystem(in instruction) error {
	switch in.opcode {
	case 0x00E0:
		return m.clearScreen(in)
	case 0x00EE:
		return m.ret(in)
	default:
		return m.undefined(in)
	}
}

func (m *Machine) execSkipEqualRegister(in instruction) error {
	if in.n != 0 {
		return m.undefined(in)
	}
	return m.skipEqualRegister(in)
}

func (m *Machine) execSkipNotEqualRegister(in instruction) error {
	if in.n != 0 {
		return m.undefined(in)
	}
	return m.skipNotEqualRegister(in)
}

func (m *Machine) execArithmetic(in instruction) error {
	switch in.n {
	case 0x0:
		return m.copyRegister(in)
	case 0x1:
		return m.or(in)
	case 0x2:
		return m.and(in)
	case 0x3:
		return m.xor(in)
	case 0x4:
		return m.addRegister(in)
	case 0x5:
		return m.subtract(in)
	case 0x6:
		return m.shiftRight(in)
	case 0x7:
		return m.subtractReverse(in)
	case 0xE:
		return m.shiftLeft(in)
	default:
		return m.undefined(in)
	}
}

func (m *Machine) execKey(in instruction) error {
	switch in.nn {
	case 0x9E:
		return m.skipKeyPressed(in)
	case 0xA1:
		return m.skipKeyNotPressed(in)
	default:
		return m.undefined(in)
	}
}

func (m *Machine) execMisc(in instruction) error {
	switch in.nn {
	case 0x07:
		return m.readDelay(in)
	case 0x0A:
		return m.waitKey(in)
	case 0x15:
		return m.setDelay(in)
	case 0x18:
		return m.setSound(in)
	case 0x1E:
		return m.addIndex(in)
	case 0x29:
		return m.fontIndex(in)
	case 0x33:
		return m.storeBCD(in)
	case 0x55:
		return m.storeRegisters(in)
	case 0x65:
		return m.loadRegisters(in)
	default:
		return m.undefined(in)
	}
}

func (m *Machine) undefined(in instruction) error {
	return m.halt(&Fault{
		Kind:   UndefinedOpcode,
		Opcode: in.opcode,
		PC:     m.pc,
	})
}

// checkMemory returns a fault naming the first out-of-range address if any
// of the n bytes starting at address lies outside of the memory.
func (m *Machine) checkMemory(in instruction, address, n int) error {
	if n == 0 || address+n <= MemorySize {
		return nil
	}
	return m.accessFault(in, RegionMemory, max(address, MemorySize))
}

func (m *Machine) accessFault(in instruction, region Region, address int) error {
	return m.halt(&Fault{
		Kind:    MemoryAccess,
		Opcode:  in.opcode,
		PC:      m.pc,
		Region:  region,
		Address: address,
	})
}

func (m *Machine) halt(fault *Fault) error {
	m.fault = fault
	return fault
}

// next advances the program counter past the current instruction.
func (m *Machine) next() {
	m.pc += opcodeSize
}

// skipIf advances the program counter past the next instruction if the
// condition is true, otherwise past the current one.
func (m *Machine) skipIf(condition bool) {
	if condition {
		m.pc += 2 * opcodeSize
		return
	}
	m.pc += opcodeSize
}
