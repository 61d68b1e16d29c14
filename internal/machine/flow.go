package machine

// 00E0 - CLS
func (m *Machine) clearScreen(instruction) error {
	m.display = Framebuffer{}
	m.redraw = true
	m.next()
	return nil
}

// 00EE - RET
// The stack holds the address of the call instruction, execution resumes
// after it.
func (m *Machine) ret(in instruction) error {
	if m.sp == 0 {
		return m.halt(&Fault{Kind: StackUnderflow, Opcode: in.opcode, PC: m.pc})
	}
	m.sp--
	m.pc = m.stack[m.sp]
	m.next()
	return nil
}

// 1NNN - JP addr
func (m *Machine) jump(in instruction) error {
	m.pc = in.nnn
	return nil
}

// 2NNN - CALL addr
func (m *Machine) call(in instruction) error {
	if int(m.sp) >= StackSize {
		return m.halt(&Fault{Kind: StackOverflow, Opcode: in.opcode, PC: m.pc})
	}
	m.stack[m.sp] = m.pc
	m.sp++
	m.pc = in.nnn
	return nil
}

// 3XNN - SE Vx, byte
func (m *Machine) skipEqualImmediate(in instruction) error {
	m.skipIf(m.v[in.x] == in.nn)
	return nil
}

// 4XNN - SNE Vx, byte
func (m *Machine) skipNotEqualImmediate(in instruction) error {
	m.skipIf(m.v[in.x] != in.nn)
	return nil
}

// 5XY0 - SE Vx, Vy
func (m *Machine) skipEqualRegister(in instruction) error {
	m.skipIf(m.v[in.x] == m.v[in.y])
	return nil
}

// 9XY0 - SNE Vx, Vy
func (m *Machine) skipNotEqualRegister(in instruction) error {
	m.skipIf(m.v[in.x] != m.v[in.y])
	return nil
}

// BNNN - JP V0, addr
// The target can exceed the address space, the following fetch faults then.
func (m *Machine) jumpOffset(in instruction) error {
	m.pc = in.nnn + uint16(m.v[0])
	return nil
}
