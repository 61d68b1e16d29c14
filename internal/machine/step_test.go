package machine

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	in := decode(0xD4A7)

	assert.Equal(t, uint16(0xD4A7), in.opcode)
	assert.Equal(t, uint8(0xD), in.class)
	assert.Equal(t, uint8(0x4), in.x)
	assert.Equal(t, uint8(0xA), in.y)
	assert.Equal(t, uint8(0x7), in.n)
	assert.Equal(t, uint8(0xA7), in.nn)
	assert.Equal(t, uint16(0x4A7), in.nnn)
}

func TestStep_UndefinedOpcode(t *testing.T) {
	opcodes := []uint16{
		0x0FFF, 0x0000, 0x00E1, 0x5121, 0x9128,
		0x8008, 0x800F, 0xE000, 0xE19F, 0xF000, 0xF0FF,
	}

	for _, opcode := range opcodes {
		m := newTestMachine(t, 0x6A42, 0xA300, opcode)
		run(t, m, 2)

		registers := m.v
		memory := m.memory
		display := m.display
		index := m.Index()

		err := m.Step()
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrUndefinedOpcode))

		var fault *Fault
		assert.True(t, errors.As(err, &fault))
		assert.Equal(t, UndefinedOpcode, fault.Kind)
		assert.Equal(t, opcode, fault.Opcode)
		assert.Equal(t, uint16(ProgramStart+4), fault.PC)

		assert.Equal(t, registers, m.v)
		assert.Equal(t, memory, m.memory)
		assert.Equal(t, display, m.display)
		assert.Equal(t, index, m.Index())
		assert.Equal(t, uint16(ProgramStart+4), m.PC())
		assert.True(t, m.Halted())
	}
}

func TestStep_HaltedMachineRepeatsFault(t *testing.T) {
	m := newTestMachine(t, 0x0FFF, 0x6001)

	first := m.Step()
	assert.Error(t, first)

	second := m.Step()
	assert.True(t, first == second)
	assert.Equal(t, uint8(0), m.Register(0))
	assert.True(t, errors.Is(m.Err(), ErrUndefinedOpcode))
}

func TestStep_FetchOutOfMemory(t *testing.T) {
	m := newTestMachine(t, 0x1FFF)
	run(t, m, 1)
	assert.Equal(t, uint16(0xFFF), m.PC())

	err := m.Step()
	assert.True(t, errors.Is(err, ErrMemoryAccess))

	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, RegionMemory, fault.Region)
	assert.Equal(t, MemorySize, fault.Address)
}

func TestClearScreen(t *testing.T) {
	m := newTestMachine(t,
		0x00E0,
		0xA000, // font glyph 0
		0x6010,
		0xD005,
		0x6120,
		0xD105,
		0x00E0,
	)

	run(t, m, 4)
	assert.True(t, m.Framebuffer().Lit() > 0)

	run(t, m, 2)
	assert.True(t, m.Framebuffer().Lit() > 0)
	assert.True(t, m.TakeRedraw())
	assert.False(t, m.TakeRedraw())

	run(t, m, 1)
	assert.Equal(t, 0, m.Framebuffer().Lit())
	assert.True(t, m.TakeRedraw())
	assert.Equal(t, uint16(ProgramStart+14), m.PC())
}

func TestJump(t *testing.T) {
	m := newTestMachine(t, 0x1ABC)
	run(t, m, 1)
	assert.Equal(t, uint16(0xABC), m.PC())
}

func TestJumpOffset(t *testing.T) {
	m := newTestMachine(t, 0x6010, 0xB300)
	run(t, m, 2)
	assert.Equal(t, uint16(0x310), m.PC())
}

func TestCallReturn(t *testing.T) {
	m := newTestMachine(t,
		0x2206, // 0x200: call 0x206
		0x6A01, // 0x202
		0x0000, // 0x204
		0x6B02, // 0x206
		0x00EE, // 0x208
	)

	run(t, m, 1)
	assert.Equal(t, uint16(0x206), m.PC())
	assert.Equal(t, 1, m.StackDepth())
	assert.Equal(t, uint16(0x200), m.stack[0])

	run(t, m, 2)
	assert.Equal(t, uint16(0x202), m.PC())
	assert.Equal(t, 0, m.StackDepth())
	assert.Equal(t, uint8(2), m.Register(0xB))

	run(t, m, 1)
	assert.Equal(t, uint8(1), m.Register(0xA))
}

func TestCall_ImmediateReturn(t *testing.T) {
	m := newTestMachine(t, 0x2204, 0x0000, 0x00EE)

	run(t, m, 2)
	assert.Equal(t, uint16(ProgramStart+2), m.PC())
	assert.Equal(t, 0, m.StackDepth())
}

func TestCall_StackOverflow(t *testing.T) {
	m := newTestMachine(t, 0x2200) // calls itself

	run(t, m, StackSize)
	assert.Equal(t, StackSize, m.StackDepth())

	err := m.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, StackSize, m.StackDepth())
	assert.Equal(t, uint16(ProgramStart), m.PC())

	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, uint16(0x2200), fault.Opcode)
}

func TestReturn_StackUnderflow(t *testing.T) {
	m := newTestMachine(t, 0x00EE)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, 0, m.StackDepth())
	assert.Equal(t, uint16(ProgramStart), m.PC())
}

func TestSkip(t *testing.T) {
	tests := []struct {
		name    string
		opcode  uint16
		skipped bool
	}{
		{"SE Vx, byte equal", 0x3105, true},
		{"SE Vx, byte not equal", 0x3106, false},
		{"SNE Vx, byte equal", 0x4105, false},
		{"SNE Vx, byte not equal", 0x4106, true},
		{"SE Vx, Vy equal", 0x5120, true},
		{"SE Vx, Vy not equal", 0x5130, false},
		{"SNE Vx, Vy equal", 0x9120, false},
		{"SNE Vx, Vy not equal", 0x9130, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// V1 = 5, V2 = 5, V3 = 6
			m := newTestMachine(t, 0x6105, 0x6205, 0x6306, tt.opcode)
			run(t, m, 4)

			want := uint16(ProgramStart + 8)
			if tt.skipped {
				want += 2
			}
			assert.Equal(t, want, m.PC())
		})
	}
}

func TestSkipKey(t *testing.T) {
	tests := []struct {
		name    string
		opcode  uint16
		pressed bool
		skipped bool
	}{
		{"SKP pressed", 0xE59E, true, true},
		{"SKP released", 0xE59E, false, false},
		{"SKNP pressed", 0xE5A1, true, false},
		{"SKNP released", 0xE5A1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, 0x650C, tt.opcode)
			m.SetKey(0xC, tt.pressed)
			run(t, m, 2)

			want := uint16(ProgramStart + 4)
			if tt.skipped {
				want += 2
			}
			assert.Equal(t, want, m.PC())
		})
	}
}

func TestSkipKey_OutOfRange(t *testing.T) {
	m := newTestMachine(t, 0x6510, 0xE59E)
	run(t, m, 1)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrMemoryAccess))

	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, RegionKeypad, fault.Region)
	assert.Equal(t, 0x10, fault.Address)
	assert.Equal(t, uint16(ProgramStart+2), m.PC())
}
