// Package options contains the program options.
package options

// DefaultRate is the default number of instructions executed per second.
const DefaultRate = 700

// Parameters contains file path options.
type Parameters struct {
	Input string `flag:"i" usage:"input ROM file"`
}

// Flags contains behavior options.
type Flags struct {
	Debug bool `flag:"debug" usage:"enable debug logging"`
	Quiet bool `flag:"q" usage:"quiet mode"`
}

// Emulation contains options that control the machine and the run loop.
type Emulation struct {
	Rate     int    `flag:"rate" usage:"instructions executed per second" default:"700"`
	Cycles   uint64 `flag:"cycles" usage:"stop after executing this many instructions (0: unlimited)"`
	Frames   uint64 `flag:"frames" usage:"stop after this many 60 Hz frames (0: unlimited)"`
	Seed     uint64 `flag:"seed" usage:"random generator seed (0: time based)"`
	Headless bool   `flag:"headless" usage:"run without terminal input and output, unthrottled"`
	Dump     bool   `flag:"dump" usage:"print the framebuffer when the run ends"`
	Trace    bool   `flag:"trace" usage:"log every executed instruction at debug level"`
	Clip     bool   `flag:"clip" usage:"clip sprites at the display edge instead of faulting"`
	ShiftVY  bool   `flag:"shift-vy" usage:"shift instructions read VY instead of VX"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	Emulation
}

// Disasm options of the disassembler command.
type Disasm struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Output string `flag:"o" usage:"output .asm file (default: stdout)"`
	Verify bool   `flag:"verify" usage:"verify that the listing assembles back to the input ROM"`
	Flags
}

// Disassembler defines options to control the disassembly listing output.
type Disassembler struct {
	HexComments    bool
	OffsetComments bool
	ZeroBytes      bool
}

// NewDisassembler returns a new options instance with default options.
func NewDisassembler() Disassembler {
	return Disassembler{
		HexComments:    true,
		OffsetComments: true,
	}
}
