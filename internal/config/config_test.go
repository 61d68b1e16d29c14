package config

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestCreateLogger(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		quiet bool
	}{
		{"default", false, false},
		{"debug", true, false},
		{"quiet", false, true},
		{"debug wins over quiet", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, CreateLogger(tt.debug, tt.quiet))
		})
	}
}

func TestMachineOptions(t *testing.T) {
	assert.Len(t, MachineOptions(options.Emulation{}), 2)
	assert.Len(t, MachineOptions(options.Emulation{Seed: 42}), 3)
}

func TestMachineOptions_Applied(t *testing.T) {
	// 8126 shifts V2 into V1 with the quirk enabled
	program := []byte{0x62, 0x04, 0x81, 0x26}
	m := machine.New(MachineOptions(options.Emulation{ShiftVY: true, Clip: true})...)
	assert.NoError(t, m.Load(program))
	assert.NoError(t, m.Step())
	assert.NoError(t, m.Step())
	assert.Equal(t, uint8(0x02), m.Register(1))
}

func TestMachineOptions_Seed(t *testing.T) {
	// CXFF twice with the same seed yields the same value
	program := []byte{0xC0, 0xFF}
	values := make([]uint8, 2)
	for i := range values {
		m := machine.New(MachineOptions(options.Emulation{Seed: 7})...)
		assert.NoError(t, m.Load(program))
		assert.NoError(t, m.Step())
		values[i] = m.Register(0)
	}
	assert.Equal(t, values[0], values[1])
}

func TestPrintBanner(t *testing.T) {
	logger := log.NewTestLogger(t)
	PrintBanner(logger, "retrochip8", false, "v1.0.0", "abc123", "2026-01-01")
	PrintBanner(logger, "retrochip8", true, "", "", "")
}
