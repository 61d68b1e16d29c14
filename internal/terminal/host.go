// Package terminal implements a text mode front end for the runner:
// keyboard input from a raw mode terminal, a half block framebuffer
// renderer and a bell for the sound timer.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/retroenv/retrochip8/internal/machine"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when stdin is not connected to a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// KeyHoldPolls is the number of polls a key stays pressed after its byte
// was read. Terminals do not report key releases.
const KeyHoldPolls = 6

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1B
)

// keymap maps the conventional PC keyboard layout to the hex keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var keymap = map[byte]int{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Host reads key presses from the terminal and reports them as keypad state.
type Host struct {
	in     io.Reader
	fd     int
	cancel context.CancelFunc

	mu   sync.Mutex
	held [machine.KeyCount]int // remaining polls per key

	oldTermState *term.State
}

// NewHost returns a host reading stdin. Esc or Ctrl+C call cancel.
func NewHost(cancel context.CancelFunc) *Host {
	return &Host{
		in:     os.Stdin,
		fd:     int(os.Stdin.Fd()),
		cancel: cancel,
	}
}

// Start puts the terminal into raw mode and starts reading input in a
// goroutine. Call Stop to restore the terminal.
func (h *Host) Start() error {
	if !term.IsTerminal(h.fd) {
		return ErrNotTerminal
	}

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	h.oldTermState = oldState

	// the reader blocks in Read until the process exits
	go h.read()
	return nil
}

// Stop restores the terminal state.
func (h *Host) Stop() {
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}

// Poll reports the currently held keys and ages the held state.
func (h *Host) Poll(keys *[machine.KeyCount]bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, remaining := range h.held {
		keys[i] = remaining > 0
		if remaining > 0 {
			h.held[i]--
		}
	}
}

func (h *Host) read() {
	buf := make([]byte, 16)
	for {
		n, err := h.in.Read(buf)
		h.handleRead(buf[:n])
		if err != nil {
			return
		}
	}
}

// handleRead processes the bytes of one read. Esc only cancels when it
// arrives alone, arrow and function keys send sequences starting with it.
func (h *Host) handleRead(data []byte) {
	if len(data) == 1 && data[0] == keyEscape {
		h.cancel()
		return
	}

	for i := 0; i < len(data); i++ {
		if data[i] == keyEscape {
			i = escapeSequenceEnd(data, i)
			continue
		}
		h.handleInput(data[i])
	}
}

// escapeSequenceEnd returns the index of the last byte of the escape
// sequence starting at index start.
func escapeSequenceEnd(data []byte, start int) int {
	if start+1 >= len(data) {
		return start
	}

	switch data[start+1] {
	case '[', 'O':
		for i := start + 2; i < len(data); i++ {
			if data[i] >= 0x40 && data[i] <= 0x7E {
				return i
			}
		}
		return len(data) - 1
	default:
		// Alt+key
		return start + 1
	}
}

func (h *Host) handleInput(b byte) {
	if b == keyCtrlC {
		h.cancel()
		return
	}

	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	key, ok := keymap[b]
	if !ok {
		return
	}

	h.mu.Lock()
	h.held[key] = KeyHoldPolls
	h.mu.Unlock()
}
