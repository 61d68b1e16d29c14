package machine

// ANNN - LD I, addr
func (m *Machine) setIndex(in instruction) error {
	m.index = in.nnn
	m.next()
	return nil
}

// FX1E - ADD I, Vx
func (m *Machine) addIndex(in instruction) error {
	m.index += uint16(m.v[in.x])
	m.next()
	return nil
}

// FX29 - LD F, Vx
func (m *Machine) fontIndex(in instruction) error {
	m.index = fontStart + uint16(m.v[in.x])*glyphSize
	m.next()
	return nil
}

// FX33 - LD B, Vx
func (m *Machine) storeBCD(in instruction) error {
	address := int(m.index)
	if err := m.checkMemory(in, address, 3); err != nil {
		return err
	}

	value := m.v[in.x]
	m.memory[address] = value / 100
	m.memory[address+1] = value / 10 % 10
	m.memory[address+2] = value % 10
	m.next()
	return nil
}

// FX55 - LD [I], Vx
func (m *Machine) storeRegisters(in instruction) error {
	address := int(m.index)
	count := int(in.x) + 1
	if err := m.checkMemory(in, address, count); err != nil {
		return err
	}

	copy(m.memory[address:address+count], m.v[:count])
	m.next()
	return nil
}

// FX65 - LD Vx, [I]
func (m *Machine) loadRegisters(in instruction) error {
	address := int(m.index)
	count := int(in.x) + 1
	if err := m.checkMemory(in, address, count); err != nil {
		return err
	}

	copy(m.v[:count], m.memory[address:address+count])
	m.next()
	return nil
}
