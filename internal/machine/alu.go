package machine

// 6XNN - LD Vx, byte
func (m *Machine) setImmediate(in instruction) error {
	m.v[in.x] = in.nn
	m.next()
	return nil
}

// 7XNN - ADD Vx, byte
// The carry is dropped, VF is not changed.
func (m *Machine) addImmediate(in instruction) error {
	m.v[in.x] += in.nn
	m.next()
	return nil
}

// 8XY0 - LD Vx, Vy
func (m *Machine) copyRegister(in instruction) error {
	m.v[in.x] = m.v[in.y]
	m.next()
	return nil
}

// 8XY1 - OR Vx, Vy
func (m *Machine) or(in instruction) error {
	m.v[in.x] |= m.v[in.y]
	m.next()
	return nil
}

// 8XY2 - AND Vx, Vy
func (m *Machine) and(in instruction) error {
	m.v[in.x] &= m.v[in.y]
	m.next()
	return nil
}

// 8XY3 - XOR Vx, Vy
func (m *Machine) xor(in instruction) error {
	m.v[in.x] ^= m.v[in.y]
	m.next()
	return nil
}

// 8XY4 - ADD Vx, Vy
// VF is set to 1 on carry.
func (m *Machine) addRegister(in instruction) error {
	sum := uint16(m.v[in.x]) + uint16(m.v[in.y])
	m.v[in.x] = uint8(sum)
	m.v[flagRegister] = flag(sum > 0xFF)
	m.next()
	return nil
}

// 8XY5 - SUB Vx, Vy
// VF is set to 1 if no borrow occurred.
func (m *Machine) subtract(in instruction) error {
	vx, vy := m.v[in.x], m.v[in.y]
	m.v[in.x] = vx - vy
	m.v[flagRegister] = flag(vx >= vy)
	m.next()
	return nil
}

// 8XY7 - SUBN Vx, Vy
// VF is set to 1 if no borrow occurred.
func (m *Machine) subtractReverse(in instruction) error {
	vx, vy := m.v[in.x], m.v[in.y]
	m.v[in.x] = vy - vx
	m.v[flagRegister] = flag(vy >= vx)
	m.next()
	return nil
}

// 8XY6 - SHR Vx {, Vy}
// VF receives the bit shifted out.
func (m *Machine) shiftRight(in instruction) error {
	value := m.shiftSource(in)
	m.v[in.x] = value >> 1
	m.v[flagRegister] = value & 0x01
	m.next()
	return nil
}

// 8XYE - SHL Vx {, Vy}
// VF receives the bit shifted out.
func (m *Machine) shiftLeft(in instruction) error {
	value := m.shiftSource(in)
	m.v[in.x] = value << 1
	m.v[flagRegister] = value >> 7
	m.next()
	return nil
}

func (m *Machine) shiftSource(in instruction) uint8 {
	if m.shiftQuirk {
		return m.v[in.y]
	}
	return m.v[in.x]
}

// CXNN - RND Vx, byte
func (m *Machine) random(in instruction) error {
	m.v[in.x] = uint8(m.rng.Uint32()) & in.nn
	m.next()
	return nil
}

func flag(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}
