package machine

// EX9E - SKP Vx
func (m *Machine) skipKeyPressed(in instruction) error {
	key := int(m.v[in.x])
	if key >= KeyCount {
		return m.accessFault(in, RegionKeypad, key)
	}
	m.skipIf(m.keys[key])
	return nil
}

// EXA1 - SKNP Vx
func (m *Machine) skipKeyNotPressed(in instruction) error {
	key := int(m.v[in.x])
	if key >= KeyCount {
		return m.accessFault(in, RegionKeypad, key)
	}
	m.skipIf(!m.keys[key])
	return nil
}

// FX07 - LD Vx, DT
func (m *Machine) readDelay(in instruction) error {
	m.v[in.x] = m.delay
	m.next()
	return nil
}

// FX15 - LD DT, Vx
func (m *Machine) setDelay(in instruction) error {
	m.delay = m.v[in.x]
	m.next()
	return nil
}

// FX18 - LD ST, Vx
func (m *Machine) setSound(in instruction) error {
	m.sound = m.v[in.x]
	m.next()
	return nil
}

// FX0A - LD Vx, K
// The machine enters the waiting state without advancing the program counter.
// The keys held at this point have to be released before they count.
func (m *Machine) waitKey(in instruction) error {
	m.waiting = true
	m.waitRegister = in.x
	m.heldKeys = m.keys
	return nil
}

// pollWaitKey completes a pending FX0A once a key changed from released to
// pressed since the previous poll.
func (m *Machine) pollWaitKey() {
	for key, pressed := range m.keys {
		if pressed && !m.heldKeys[key] {
			m.v[m.waitRegister] = uint8(key)
			m.waiting = false
			m.heldKeys = [KeyCount]bool{}
			m.next()
			return
		}
	}
	m.heldKeys = m.keys
}
