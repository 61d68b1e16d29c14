// Package machine implements the CHIP-8 virtual machine: memory, registers,
// call stack, timers, framebuffer and keypad state together with the
// instruction decoder and all instruction handlers.
//
// A Machine is a plain value without any internal synchronization. A single
// driver is expected to call Step at its chosen instruction rate, TickTimers at
// 60 Hz, update the keypad state before steps and read the framebuffer for
// rendering.
package machine

import (
	"fmt"
	"math/rand/v2"
)

// Machine is the state of a CHIP-8 virtual machine.
type Machine struct {
	memory  [MemorySize]uint8
	v       [RegisterCount]uint8
	index   uint16
	pc      uint16
	stack   [StackSize]uint16
	sp      uint8
	delay   uint8
	sound   uint8
	display Framebuffer
	keys    [KeyCount]bool
	opcode  uint16

	waiting      bool
	waitRegister uint8
	heldKeys     [KeyCount]bool

	redraw bool
	fault  *Fault

	rng        *rand.Rand
	clip       bool
	shiftQuirk bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithRandom sets the random source used by the CXNN instruction.
func WithRandom(rng *rand.Rand) Option {
	return func(m *Machine) {
		m.rng = rng
	}
}

// WithSeed makes the CXNN instruction deterministic for the given seed.
func WithSeed(seed uint64) Option {
	return WithRandom(rand.New(rand.NewPCG(seed, seed)))
}

// WithClipping sets whether sprite pixels outside of the display are skipped.
// Without clipping, drawing outside of the framebuffer is an out-of-range
// access fault.
func WithClipping(clip bool) Option {
	return func(m *Machine) {
		m.clip = clip
	}
}

// WithShiftQuirk makes the shift instructions 8XY6 and 8XYE shift VY into VX
// instead of shifting VX in place.
func WithShiftQuirk(enabled bool) Option {
	return func(m *Machine) {
		m.shiftQuirk = enabled
	}
}

// New returns a new machine with the font loaded and the program counter
// pointing at the program start.
func New(opts ...Option) *Machine {
	m := &Machine{}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	m.Reset()
	return m
}

// Reset returns the machine to its initial state. The loaded program is
// erased, options are kept.
func (m *Machine) Reset() {
	m.memory = [MemorySize]uint8{}
	copy(m.memory[fontStart:], font[:])

	m.v = [RegisterCount]uint8{}
	m.index = 0
	m.pc = ProgramStart
	m.stack = [StackSize]uint16{}
	m.sp = 0
	m.delay = 0
	m.sound = 0
	m.display = Framebuffer{}
	m.keys = [KeyCount]bool{}
	m.opcode = 0

	m.waiting = false
	m.waitRegister = 0
	m.heldKeys = [KeyCount]bool{}
	m.redraw = false
	m.fault = nil
}

// Load copies the program image into memory starting at ProgramStart.
func (m *Machine) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	clear(m.memory[ProgramStart:])
	copy(m.memory[ProgramStart:], program)
	return nil
}

// TickTimers decrements the delay and sound timers. It has to be called at
// 60 Hz independent of the instruction rate.
func (m *Machine) TickTimers() {
	if m.delay > 0 {
		m.delay--
	}
	if m.sound > 0 {
		m.sound--
	}
}

// SetKey sets the pressed state of a keypad key. Keys outside of 0x0-0xF
// are ignored.
func (m *Machine) SetKey(key int, pressed bool) {
	if key < 0 || key >= KeyCount {
		return
	}
	m.keys[key] = pressed
}

// SetKeys replaces the state of all keypad keys.
func (m *Machine) SetKeys(keys [KeyCount]bool) {
	m.keys = keys
}

// Framebuffer returns the display.
func (m *Machine) Framebuffer() *Framebuffer {
	return &m.display
}

// Pixel returns whether the display pixel at the given coordinates is lit.
func (m *Machine) Pixel(x, y int) bool {
	return m.display.Pixel(x, y)
}

// TakeRedraw returns whether the framebuffer was modified since the last
// call and resets the flag.
func (m *Machine) TakeRedraw() bool {
	redraw := m.redraw
	m.redraw = false
	return redraw
}

// SoundActive returns whether the tone should be playing.
func (m *Machine) SoundActive() bool {
	return m.sound != 0
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// Index returns the index register I.
func (m *Machine) Index() uint16 {
	return m.index
}

// Register returns the value of register V0..VF.
func (m *Machine) Register(i int) uint8 {
	return m.v[i&0xF]
}

// StackDepth returns the number of return addresses on the stack.
func (m *Machine) StackDepth() int {
	return int(m.sp)
}

// DelayTimer returns the delay timer.
func (m *Machine) DelayTimer() uint8 { return m.delay }

// SoundTimer returns the sound timer, a tone plays while it is nonzero.
func (m *Machine) SoundTimer() uint8 { return m.sound }

// Opcode returns the last fetched opcode.
func (m *Machine) Opcode() uint16 {
	return m.opcode
}

// Waiting returns whether the machine is blocked on a FX0A key wait.
func (m *Machine) Waiting() bool {
	return m.waiting
}

// Halted returns whether the machine stopped because of a fault.
func (m *Machine) Halted() bool {
	return m.fault != nil
}

// Err returns the fault that halted the machine, or nil.
func (m *Machine) Err() error {
	if m.fault == nil {
		return nil
	}
	return m.fault
}
