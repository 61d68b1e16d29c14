// Package pipeline orchestrates the emulation and disassembly workflows.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/terminal"
	"github.com/retroenv/retrochip8/internal/verification"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// ErrUnsupportedSystem is returned for ROM files of other systems.
var ErrUnsupportedSystem = errors.New("unsupported system")

// Pipeline orchestrates loading, running and disassembling of ROMs.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute loads the ROM and runs it until the run ends. Unless running
// headless, the terminal is used for key input, display and bell.
// The framebuffer is written to out after the run if requested.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, out io.Writer) (runner.Stats, error) {
	program, err := p.load(opts.Input)
	if err != nil {
		return runner.Stats{}, err
	}

	m := machine.New(config.MachineOptions(opts.Emulation)...)
	if err := m.Load(program); err != nil {
		return runner.Stats{}, fmt.Errorf("loading program: %w", err)
	}

	p.printInfo(opts, len(program))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runnerOptions, cleanup, err := p.frontEnd(opts, cancel, out)
	if err != nil {
		return runner.Stats{}, err
	}

	r := runner.New(p.logger, m, opts.Emulation, runnerOptions...)
	runErr := r.Run(ctx)
	cleanup()

	if opts.Dump {
		if err := terminal.Dump(out, m.Framebuffer()); err != nil {
			return r.Stats(), fmt.Errorf("dumping framebuffer: %w", err)
		}
	}

	stats := r.Stats()
	p.logger.Debug("Run finished",
		log.Int("instructions", int(stats.Instructions)),
		log.Int("frames", int(stats.Frames)))

	if runErr != nil {
		return stats, fmt.Errorf("running ROM: %w", runErr)
	}
	return stats, nil
}

// ExecuteDisasm loads the ROM and writes its disassembly listing. With
// verification enabled the listing is assembled and compared with the ROM.
func (p *Pipeline) ExecuteDisasm(ctx context.Context, opts options.Disasm, disasmOpts options.Disassembler, writer io.Writer) error {
	program, err := p.load(opts.Input)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if !opts.Quiet {
		p.logger.Info("Disassembling CHIP-8 ROM",
			log.String("file", opts.Input),
			log.Int("size", len(program)),
		)
	}

	lines := disasm.Listing(program)
	if !opts.Verify {
		if err := disasm.Write(writer, lines, disasmOpts); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
		return nil
	}

	var source bytes.Buffer
	if err := disasm.Write(io.MultiWriter(writer, &source), lines, disasmOpts); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	if err := verification.VerifyOutput(p.logger, program, source.Bytes()); err != nil {
		return fmt.Errorf("output file mismatch: %w", err)
	}
	if !opts.Quiet {
		p.logger.Info("Listing verified", log.Int("size", len(program)))
	}
	return nil
}

// load reads the ROM file and makes sure it is a CHIP-8 program.
func (p *Pipeline) load(path string) ([]byte, error) {
	program, err := p.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}

	if system := p.detector.Detect(path, program); system != arch.CHIP8System {
		return nil, fmt.Errorf("%w: %s is a %s ROM", ErrUnsupportedSystem, path, system)
	}
	return program, nil
}

// frontEnd returns the runner options connecting the terminal and a
// cleanup function restoring it.
func (p *Pipeline) frontEnd(opts options.Program, cancel context.CancelFunc, out io.Writer) ([]runner.Option, func(), error) {
	if opts.Headless {
		return nil, func() {}, nil
	}

	host := terminal.NewHost(cancel)
	if err := host.Start(); err != nil {
		if errors.Is(err, terminal.ErrNotTerminal) {
			return nil, nil, fmt.Errorf("%w, use -headless to run without a terminal", err)
		}
		return nil, nil, fmt.Errorf("starting terminal: %w", err)
	}

	screen := terminal.NewScreen(out, true)
	if err := screen.Open(); err != nil {
		host.Stop()
		return nil, nil, fmt.Errorf("opening screen: %w", err)
	}

	runnerOptions := []runner.Option{
		runner.WithKeySource(host),
		runner.WithDisplay(screen),
		runner.WithSound(terminal.NewBell(out)),
	}
	cleanup := func() {
		_ = screen.Close()
		host.Stop()
	}
	return runnerOptions, cleanup, nil
}

// printInfo prints information about the ROM being run.
func (p *Pipeline) printInfo(opts options.Program, size int) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Running CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", size),
		log.Int("rate", opts.Rate),
	)
	if opts.Headless && opts.Cycles == 0 && opts.Frames == 0 {
		p.logger.Warn("Headless run without cycle or frame limit, stop it with Ctrl+C")
	}
}
