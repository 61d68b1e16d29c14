package machine

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

var (
	// ErrUndefinedOpcode is matched by faults of opcodes outside the instruction set.
	ErrUndefinedOpcode = errors.New("undefined opcode")
	// ErrStackOverflow is matched by faults of a call with a full stack.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is matched by faults of a return with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrMemoryAccess is matched by faults of accesses outside memory, framebuffer or keypad.
	ErrMemoryAccess = errors.New("out-of-range memory access")
	// ErrProgramTooLarge is returned by Load for programs that do not fit into memory.
	ErrProgramTooLarge = errors.New("program too large")
)

// FaultKind classifies a fatal execution fault.
type FaultKind int

// Fault kinds.
const (
	UndefinedOpcode FaultKind = iota + 1 // opcode is not part of the instruction set
	StackOverflow                        // CALL with 16 return addresses on the stack
	StackUnderflow                       // RET with an empty stack
	MemoryAccess                         // access outside of memory, framebuffer or keypad
)

func (k FaultKind) String() string {
	return k.err().Error()
}

func (k FaultKind) err() error {
	switch k {
	case UndefinedOpcode:
		return ErrUndefinedOpcode
	case StackOverflow:
		return ErrStackOverflow
	case StackUnderflow:
		return ErrStackUnderflow
	case MemoryAccess:
		return ErrMemoryAccess
	default:
		return fmt.Errorf("fault kind %d", int(k))
	}
}

// cpuErr returns the matching sentinel of the retrogolib CHIP-8 CPU, or nil.
func (k FaultKind) cpuErr() error {
	switch k {
	case StackOverflow:
		return chip8.ErrStackOverflow
	case StackUnderflow:
		return chip8.ErrStackUnderflow
	case MemoryAccess:
		return chip8.ErrMemoryOutOfBounds
	default:
		return nil
	}
}

// Region names the storage an out-of-range access was aimed at.
type Region string

// Regions of a MemoryAccess fault.
const (
	RegionMemory  Region = "memory"
	RegionDisplay Region = "framebuffer"
	RegionKeypad  Region = "keypad"
)

// Fault is a fatal execution error. Once a step returns a fault the machine
// is halted and returns the same fault for every following step.
type Fault struct {
	Kind   FaultKind
	Opcode uint16 // opcode being executed, 0 if the fetch itself failed
	PC     uint16 // program counter at the time of the fault

	// Region and Address describe the offending access of a MemoryAccess fault.
	Region  Region
	Address int
}

func (f *Fault) Error() string {
	if f.Kind == MemoryAccess {
		return fmt.Sprintf("%s: %s address $%X by opcode $%04X at pc $%03X",
			f.Kind, f.Region, f.Address, f.Opcode, f.PC)
	}
	return fmt.Sprintf("%s: opcode $%04X at pc $%03X", f.Kind, f.Opcode, f.PC)
}

// Unwrap returns the sentinel errors of the fault kind, so callers can match
// faults with errors.Is against this package or the retrogolib CHIP-8 CPU.
func (f *Fault) Unwrap() []error {
	errs := []error{f.Kind.err()}
	if err := f.Kind.cpuErr(); err != nil {
		errs = append(errs, err)
	}
	return errs
}
