package detector

import (
	"testing"

	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name       string
		inputFile  string
		data       []byte
		wantSystem arch.System
	}{
		{
			name:       "detect from .ch8 extension",
			inputFile:  "pong.ch8",
			data:       []byte{0x00, 0xE0},
			wantSystem: arch.CHIP8System,
		},
		{
			name:       "unknown extension",
			inputFile:  "pong.dat",
			data:       []byte{0x00, 0xE0},
			wantSystem: arch.CHIP8System,
		},
		{
			name:       "iNES header",
			inputFile:  "game.ch8",
			data:       []byte{'N', 'E', 'S', 0x1A, 0x01},
			wantSystem: arch.NES,
		},
		{
			name:       "nes extension without header",
			inputFile:  "game.nes",
			data:       []byte{0x12, 0x00},
			wantSystem: arch.CHIP8System,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSystem, d.Detect(tt.inputFile, tt.data))
		})
	}
}

func TestDetectFromFile(t *testing.T) {
	tests := []struct {
		filename string
		want     arch.System
	}{
		{"game.ch8", arch.CHIP8System},
		{"GAME.C8", arch.CHIP8System},
		{"game.rom", arch.CHIP8System},
		{"game.nes", arch.NES},
		{"game", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, detectFromFile(tt.filename))
		})
	}
}
