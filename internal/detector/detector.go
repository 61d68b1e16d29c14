// Package detector identifies the system a ROM file was built for.
package detector

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// iNES file header magic
var nesMagic = []byte{'N', 'E', 'S', 0x1A}

// Detector identifies ROM systems from file content and extension.
type Detector struct {
	logger *log.Logger
}

// New creates a new system detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the system of a ROM image. Raw CHIP-8 programs have
// no header, so anything that is not recognized as a different format is
// treated as CHIP-8. An unusual file extension is only logged.
func (d *Detector) Detect(filename string, data []byte) arch.System {
	if bytes.HasPrefix(data, nesMagic) {
		return arch.NES
	}

	system := detectFromFile(filename)
	if system != arch.CHIP8System {
		d.logger.Warn("Unexpected file extension for a CHIP-8 ROM",
			log.String("file", filename))
	}
	d.logger.Debug("Detected system",
		log.Stringer("system", arch.CHIP8System),
		log.String("file", filename))
	return arch.CHIP8System
}

// detectFromFile determines the system type based on file extension.
func detectFromFile(filename string) arch.System {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".ch8", ".c8", ".rom", ".bin":
		return arch.CHIP8System
	case ".nes":
		return arch.NES
	default:
		return ""
	}
}
