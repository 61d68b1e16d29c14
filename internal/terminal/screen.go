package terminal

import (
	"bufio"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/machine"
)

const (
	ansiCursorHome = "\x1b[H"
	ansiClear      = "\x1b[2J"
	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
)

// half block characters indexed by top pixel | bottom pixel << 1
var blocks = [4]string{" ", "▀", "▄", "█"}

// Screen renders the framebuffer as text, two pixel rows per line.
type Screen struct {
	w           io.Writer
	interactive bool
}

// NewScreen returns a screen writing to w. An interactive screen
// redraws in place using ANSI escape sequences and terminates lines
// with CR LF as required by raw mode terminals.
func NewScreen(w io.Writer, interactive bool) *Screen {
	return &Screen{
		w:           w,
		interactive: interactive,
	}
}

// Open clears the terminal and hides the cursor.
func (s *Screen) Open() error {
	if !s.interactive {
		return nil
	}
	_, err := io.WriteString(s.w, ansiClear+ansiHideCursor)
	return err
}

// Close shows the cursor again.
func (s *Screen) Close() error {
	if !s.interactive {
		return nil
	}
	_, err := io.WriteString(s.w, ansiShowCursor+"\r\n")
	return err
}

// Render draws the framebuffer.
func (s *Screen) Render(fb *machine.Framebuffer) error {
	buf := bufio.NewWriter(s.w)
	newline := "\n"
	if s.interactive {
		newline = "\r\n"
		_, _ = buf.WriteString(ansiCursorHome)
	}

	writeFramebuffer(buf, fb, newline)

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("writing framebuffer: %w", err)
	}
	return nil
}

// Dump writes the framebuffer once as plain text.
func Dump(w io.Writer, fb *machine.Framebuffer) error {
	return NewScreen(w, false).Render(fb)
}

func writeFramebuffer(buf *bufio.Writer, fb *machine.Framebuffer, newline string) {
	for y := 0; y < machine.DisplayHeight; y += 2 {
		for x := range machine.DisplayWidth {
			index := 0
			if fb.Pixel(x, y) {
				index |= 1
			}
			if fb.Pixel(x, y+1) {
				index |= 2
			}
			_, _ = buf.WriteString(blocks[index])
		}
		_, _ = buf.WriteString(newline)
	}
}

// Bell rings the terminal bell when the tone starts.
type Bell struct {
	w io.Writer
}

// NewBell returns a bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// SetTone rings the bell when the tone is switched on.
func (b *Bell) SetTone(on bool) {
	if on {
		_, _ = io.WriteString(b.w, "\a")
	}
}
