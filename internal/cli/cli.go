// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/options"
)

// maxRate caps the instruction rate so that a frame budget stays sane.
const maxRate = 1_000_000

// ParseFlags parses the emulator command line flags and returns the program options.
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.Usage = func() {} // printed by UsageError.ShowUsage
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags, usage: "retrochip8 [options] <ROM file>"}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if len(args) > 0 {
		opts.Input = args[0]
	}
	return opts, nil
}

// ParseDisasmFlags parses the disassembler command line flags and returns
// the command and listing options.
func ParseDisasmFlags() (options.Disasm, options.Disassembler, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.Usage = func() {} // printed by UsageError.ShowUsage
	var opts options.Disasm
	disasmOptions := options.NewDisassembler()
	var noHexComments, noOffsets bool

	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the output .asm file, printed on console if no name given")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&noHexComments, "nohexcomments", false, "do not output opcode bytes as hex values in comments")
	flags.BoolVar(&noOffsets, "nooffsets", false, "do not output offsets in comments")
	flags.BoolVar(&disasmOptions.ZeroBytes, "z", false, "output the trailing zero bytes of the program")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the generated output by assembling it and comparing it with the input")

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, disasmOptions, &UsageError{flags: flags, usage: "chip8disasm [options] <file to disassemble>"}
	}

	if err := validateArgs(args); err != nil {
		return opts, disasmOptions, err
	}

	if len(args) > 0 {
		opts.Input = args[0]
	}
	disasmOptions.HexComments = !noHexComments
	disasmOptions.OffsetComments = !noOffsets
	return opts, disasmOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	usage string
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	if e.flags == nil {
		return
	}
	fmt.Printf("usage: %s\n\n", e.usage)
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after the ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	if opts.Rate <= 0 || opts.Rate > maxRate {
		return fmt.Errorf("invalid instruction rate %d, valid range is 1-%d", opts.Rate, maxRate)
	}

	// a trace without debug level logging would be silent
	if opts.Trace {
		opts.Debug = true
		opts.Quiet = false
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.IntVar(&opts.Rate, "rate", options.DefaultRate, "number of instructions executed per second")
	flags.Uint64Var(&opts.Cycles, "cycles", 0, "stop after executing this many instructions (0: unlimited)")
	flags.Uint64Var(&opts.Frames, "frames", 0, "stop after this many 60 Hz frames (0: unlimited)")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator (0: time based)")
	flags.BoolVar(&opts.Headless, "headless", false, "run without terminal input and output, unthrottled")
	flags.BoolVar(&opts.Dump, "dump", false, "print the framebuffer as text when the run ends")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Clip, "clip", false, "clip sprites at the display edge instead of faulting")
	flags.BoolVar(&opts.ShiftVY, "shift-vy", false, "shift instructions read VY instead of VX (COSMAC VIP behavior)")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
