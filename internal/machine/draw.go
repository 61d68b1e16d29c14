package machine

// DXYN - DRW Vx, Vy, nibble
// Draws the N byte sprite at I with its top left corner at (Vx, Vy). Sprite
// pixels are XORed onto the framebuffer, VF is set to 1 if a lit pixel was
// turned off. Target cells are not wrapped around the display edges.
func (m *Machine) draw(in instruction) error {
	x, y := int(m.v[in.x]), int(m.v[in.y])
	rows := int(in.n)
	address := int(m.index)

	if err := m.checkMemory(in, address, rows); err != nil {
		return err
	}
	sprite := m.memory[address : address+rows]
	if !m.clip {
		if err := m.checkSprite(in, sprite, x, y); err != nil {
			return err
		}
	}

	m.v[flagRegister] = 0
	for row, line := range sprite {
		for col := range spriteWidth {
			if line&(0x80>>col) == 0 {
				continue
			}
			if m.clip && (x+col >= DisplayWidth || y+row >= DisplayHeight) {
				continue
			}

			cell := x + col + (y+row)*DisplayWidth
			if m.display[cell] == 1 {
				m.v[flagRegister] = 1
			}
			m.display[cell] ^= 1
		}
	}

	m.redraw = true
	m.next()
	return nil
}

// checkSprite returns a fault for the first set sprite pixel that targets a
// cell outside of the framebuffer.
func (m *Machine) checkSprite(in instruction, sprite []uint8, x, y int) error {
	for row, line := range sprite {
		for col := range spriteWidth {
			if line&(0x80>>col) == 0 {
				continue
			}
			if cell := x + col + (y+row)*DisplayWidth; cell >= DisplaySize {
				return m.accessFault(in, RegionDisplay, cell)
			}
		}
	}
	return nil
}
