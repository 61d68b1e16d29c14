// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/machine"
)

// ErrEmptyProgram is returned for ROM files without content.
var ErrEmptyProgram = errors.New("empty program")

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads a raw CHIP-8 program image. Images that are empty or do
// not fit into the program area are rejected.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	return l.Read(file)
}

// Read reads a raw CHIP-8 program image from a reader.
func (l *Loader) Read(reader io.Reader) ([]byte, error) {
	// read one byte past the limit to detect oversized images
	data, err := io.ReadAll(io.LimitReader(reader, machine.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}

	switch {
	case len(data) == 0:
		return nil, ErrEmptyProgram
	case len(data) > machine.MaxProgramSize:
		return nil, fmt.Errorf("%w: more than %d bytes", machine.ErrProgramTooLarge, machine.MaxProgramSize)
	}
	return data, nil
}
