package machine

// CHIP-8 memory layout and device sizes.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x04F: built-in hex font, 16 glyphs of 5 bytes
//	0x050-0x1FF: reserved for the interpreter
//	0x200-0xFFF: program space (3584 bytes)
//
// The framebuffer, stack and keypad live outside the addressable memory.
const (
	// MemorySize is the number of addressable 8-bit memory cells.
	MemorySize = 4096

	// ProgramStart is the address the program image is loaded to and
	// where execution begins.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program image that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	// RegisterCount is the number of general purpose registers V0..VF.
	RegisterCount = 16

	// StackSize is the maximum number of nested subroutine calls.
	StackSize = 16

	// KeyCount is the number of keys of the hex keypad.
	KeyCount = 16

	// DisplayWidth and DisplayHeight are the framebuffer dimensions in pixels.
	DisplayWidth  = 64
	DisplayHeight = 32

	// DisplaySize is the number of framebuffer cells.
	DisplaySize = DisplayWidth * DisplayHeight
)

const (
	flagRegister = 0xF
	glyphSize    = 5
	opcodeSize   = 2
	spriteWidth  = 8
)
