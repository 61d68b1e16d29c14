// Package runner drives a CHIP-8 machine in real time: it feeds key
// input, executes instructions at a configured rate, ticks the timers at
// 60 Hz and forwards framebuffer and tone changes to the front end.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// FrameRate is the timer and display refresh rate in Hz.
const FrameRate = 60

// KeySource reports the current keypad state.
type KeySource interface {
	Poll(keys *[machine.KeyCount]bool)
}

// Display presents the framebuffer.
type Display interface {
	Render(fb *machine.Framebuffer) error
}

// Sound plays the tone while the sound timer is active.
type Sound interface {
	SetTone(on bool)
}

// Stats contains counters of a run.
type Stats struct {
	Instructions uint64
	Frames       uint64
}

// Runner executes a loaded machine.
type Runner struct {
	logger  *log.Logger
	machine *machine.Machine
	opts    options.Emulation

	keys    KeySource
	display Display
	sound   Sound

	budget int // instruction rate carried over between frames
	tone   bool
	stats  Stats
}

// Option configures a runner.
type Option func(*Runner)

// WithKeySource sets the source of key input.
func WithKeySource(keys KeySource) Option {
	return func(r *Runner) {
		r.keys = keys
	}
}

// WithDisplay sets the display the framebuffer is rendered to.
func WithDisplay(display Display) Option {
	return func(r *Runner) {
		r.display = display
	}
}

// WithSound sets the tone output.
func WithSound(sound Sound) Option {
	return func(r *Runner) {
		r.sound = sound
	}
}

// New returns a runner for a machine that has a program loaded.
func New(logger *log.Logger, m *machine.Machine, opts options.Emulation, runnerOptions ...Option) *Runner {
	if opts.Rate <= 0 {
		opts.Rate = options.DefaultRate
	}

	r := &Runner{
		logger:  logger,
		machine: m,
		opts:    opts,
	}
	for _, option := range runnerOptions {
		option(r)
	}
	return r
}

// Run executes frames until the context is cancelled, the machine faults
// or a configured cycle or frame limit is reached. Reaching a limit is not
// an error. Headless runs are not throttled to real time.
func (r *Runner) Run(ctx context.Context) error {
	var ticker *time.Ticker
	if !r.opts.Headless {
		ticker = time.NewTicker(time.Second / FrameRate)
		defer ticker.Stop()
	}
	defer r.setTone(false)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := r.frame()
		if err != nil {
			return err
		}
		if done {
			r.logger.Debug("Run limit reached",
				log.Int("instructions", int(r.stats.Instructions)),
				log.Int("frames", int(r.stats.Frames)))
			return nil
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}
}

// Stats returns the counters of the run.
func (r *Runner) Stats() Stats {
	return r.stats
}

// frame executes the instructions of one 60 Hz frame and ticks the timers.
// It returns true when a run limit was reached.
func (r *Runner) frame() (bool, error) {
	if r.keys != nil {
		var keys [machine.KeyCount]bool
		r.keys.Poll(&keys)
		r.machine.SetKeys(keys)
	}

	r.budget += r.opts.Rate
	steps := r.budget / FrameRate
	r.budget %= FrameRate

	for range steps {
		if r.cycleLimitReached() {
			return true, nil
		}
		if err := r.step(); err != nil {
			return true, err
		}
	}

	r.machine.TickTimers()
	r.stats.Frames++

	if r.machine.TakeRedraw() && r.display != nil {
		if err := r.display.Render(r.machine.Framebuffer()); err != nil {
			return true, fmt.Errorf("rendering framebuffer: %w", err)
		}
	}
	r.setTone(r.machine.SoundActive())

	frameLimit := r.opts.Frames > 0 && r.stats.Frames >= r.opts.Frames
	return frameLimit || r.cycleLimitReached(), nil
}

func (r *Runner) step() error {
	pc := r.machine.PC()
	waiting := r.machine.Waiting()

	if err := r.machine.Step(); err != nil {
		return fmt.Errorf("executing instruction at $%03X: %w", pc, err)
	}
	if waiting {
		// polling a pending key wait executes nothing
		return nil
	}
	r.stats.Instructions++

	if r.opts.Trace {
		opcode := r.machine.Opcode()
		r.logger.Debug("Executed instruction",
			log.Hex("pc", pc),
			log.Hex("opcode", opcode),
			log.String("instruction", disasm.Format(opcode)))
	}
	return nil
}

func (r *Runner) cycleLimitReached() bool {
	return r.opts.Cycles > 0 && r.stats.Instructions >= r.opts.Cycles
}

func (r *Runner) setTone(on bool) {
	if on == r.tone {
		return
	}
	r.tone = on
	if r.sound != nil {
		r.sound.SetTone(on)
	}
}
