package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/assert"
)

func newTestHost(in string) (*Host, *bool) {
	cancelled := false
	h := &Host{
		in:     strings.NewReader(in),
		cancel: func() { cancelled = true },
	}
	return h, &cancelled
}

func TestHost_Keymap(t *testing.T) {
	tests := []struct {
		input byte
		key   int
	}{
		{'1', 0x1}, {'2', 0x2}, {'3', 0x3}, {'4', 0xC},
		{'q', 0x4}, {'w', 0x5}, {'e', 0x6}, {'r', 0xD},
		{'a', 0x7}, {'s', 0x8}, {'d', 0x9}, {'f', 0xE},
		{'z', 0xA}, {'x', 0x0}, {'c', 0xB}, {'v', 0xF},
		{'V', 0xF},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			h, _ := newTestHost("")
			h.handleInput(tt.input)

			var keys [machine.KeyCount]bool
			h.Poll(&keys)
			for key, pressed := range keys {
				assert.Equal(t, key == tt.key, pressed)
			}
		})
	}
}

func TestHost_KeyHold(t *testing.T) {
	h, _ := newTestHost("")
	h.handleInput('w')

	var keys [machine.KeyCount]bool
	for range KeyHoldPolls {
		h.Poll(&keys)
		assert.True(t, keys[0x5])
	}

	h.Poll(&keys)
	assert.False(t, keys[0x5])
}

func TestHost_UnmappedInput(t *testing.T) {
	h, cancelled := newTestHost("")
	h.handleInput('p')
	h.handleInput(' ')

	var keys [machine.KeyCount]bool
	h.Poll(&keys)
	for _, pressed := range keys {
		assert.False(t, pressed)
	}
	assert.False(t, *cancelled)
}

func TestHost_Cancel(t *testing.T) {
	for _, input := range []string{"\x03", "\x1b", "w\x03"} {
		h, cancelled := newTestHost("")
		h.handleRead([]byte(input))
		assert.True(t, *cancelled)
	}
}

func TestHost_EscapeSequences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		key   int // -1 for no key
	}{
		{"arrow up", "\x1b[A", -1},
		{"arrow then key", "\x1b[Dw", 0x5},
		{"key then arrow", "w\x1b[C", 0x5},
		{"function key", "\x1bOP", -1},
		{"function key with parameters", "\x1b[15~", -1},
		{"alt key", "\x1bw", -1},
		{"trailing escape", "w\x1b", 0x5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, cancelled := newTestHost("")
			h.handleRead([]byte(tt.input))
			assert.False(t, *cancelled)

			var keys [machine.KeyCount]bool
			h.Poll(&keys)
			for key, pressed := range keys {
				assert.Equal(t, key == tt.key, pressed)
			}
		})
	}
}

func TestHost_Read(t *testing.T) {
	h, cancelled := newTestHost("1x")
	h.read()

	var keys [machine.KeyCount]bool
	h.Poll(&keys)
	assert.True(t, keys[0x1])
	assert.True(t, keys[0x0])
	assert.False(t, *cancelled)
}

func TestScreen_Render(t *testing.T) {
	var fb machine.Framebuffer
	fb[0] = 1                          // 0,0
	fb[machine.DisplayWidth+1] = 1     // 1,1
	fb[2] = 1                          // 2,0
	fb[machine.DisplayWidth+2] = 1     // 2,1
	fb[31*machine.DisplayWidth+63] = 1 // 63,31

	var buf bytes.Buffer
	assert.NoError(t, NewScreen(&buf, false).Render(&fb))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, machine.DisplayHeight/2)
	assert.True(t, strings.HasPrefix(lines[0], "▀▄█ "))
	assert.True(t, strings.HasSuffix(lines[15], " ▄"))
	assert.Equal(t, strings.Repeat(" ", machine.DisplayWidth), lines[1])
}

func TestScreen_Interactive(t *testing.T) {
	var fb machine.Framebuffer
	var buf bytes.Buffer
	screen := NewScreen(&buf, true)

	assert.NoError(t, screen.Open())
	assert.True(t, strings.HasPrefix(buf.String(), ansiClear))

	buf.Reset()
	assert.NoError(t, screen.Render(&fb))
	output := buf.String()
	assert.True(t, strings.HasPrefix(output, ansiCursorHome))
	assert.Equal(t, machine.DisplayHeight/2, strings.Count(output, "\r\n"))

	buf.Reset()
	assert.NoError(t, screen.Close())
	assert.Contains(t, buf.String(), ansiShowCursor)
}

func TestDump(t *testing.T) {
	var fb machine.Framebuffer
	var buf bytes.Buffer
	assert.NoError(t, Dump(&buf, &fb))

	assert.False(t, strings.Contains(buf.String(), "\x1b"))
	assert.Equal(t, machine.DisplayHeight/2, strings.Count(buf.String(), "\n"))
}

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	bell := NewBell(&buf)

	bell.SetTone(true)
	bell.SetTone(false)
	assert.Equal(t, "\a", buf.String())
}
