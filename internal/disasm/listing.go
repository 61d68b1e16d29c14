package disasm

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/set"
)

const (
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
	dataNaming  = "_data_%04x"

	dataBytesPerLine = 8
	opcodeSize       = 2
)

// Line is a single line of a program listing, either one decoded
// instruction or a run of data bytes.
type Line struct {
	Address uint16
	Label   string
	Code    string // empty for data lines
	Data    []byte
	Comment string
}

// IsCode returns whether the line holds an instruction.
func (l Line) IsCode() bool {
	return l.Code != ""
}

// tracer follows the execution flow of a program to separate code
// from data.
type tracer struct {
	program []byte
	end     int // first address after the program

	offsetsToParse      []uint16
	offsetsToParseAdded set.Set[uint16]

	code               set.Set[uint16] // addresses of instruction starts
	branchDestinations set.Set[uint16]
	callDestinations   set.Set[uint16]
	dataReferences     set.Set[uint16]
}

// Listing disassembles a program image that is loaded at the program
// start address. Execution is followed from the start address through
// jumps, calls and both outcomes of skips. Words that are never reached
// are listed as data.
func Listing(program []byte) []Line {
	t := &tracer{
		program:             program,
		end:                 machine.ProgramStart + len(program),
		offsetsToParseAdded: set.New[uint16](),
		code:                set.New[uint16](),
		branchDestinations:  set.New[uint16](),
		callDestinations:    set.New[uint16](),
		dataReferences:      set.New[uint16](),
	}

	t.addAddressToParse(machine.ProgramStart)
	t.followExecutionFlow()
	return t.lines(t.labels())
}

// addAddressToParse queues an address for flow tracing if it holds a
// complete instruction word inside the program and was not queued before.
func (t *tracer) addAddressToParse(address uint16) {
	if int(address) < machine.ProgramStart || int(address)+opcodeSize > t.end {
		return
	}
	if t.offsetsToParseAdded.Contains(address) {
		return
	}
	t.offsetsToParseAdded.Add(address)
	t.offsetsToParse = append(t.offsetsToParse, address)
}

func (t *tracer) followExecutionFlow() {
	for len(t.offsetsToParse) > 0 {
		address := t.offsetsToParse[0]
		t.offsetsToParse = t.offsetsToParse[1:]

		ins, ok := Decode(t.word(address))
		if !ok {
			// unknown instructions are treated as data
			continue
		}
		t.code.Add(address)
		next := address + opcodeSize

		switch {
		case ins.IsReturn():

		case ins.IsJump():
			// JP V0, addr has no statically known destination
			if target, ok := ins.Target(); ok {
				t.branchDestinations.Add(target)
				t.addAddressToParse(target)
			}

		case ins.IsCall():
			target, _ := ins.Target()
			t.callDestinations.Add(target)
			t.addAddressToParse(target)
			t.addAddressToParse(next)

		case ins.IsSkip():
			t.addAddressToParse(next)
			t.addAddressToParse(next + opcodeSize)

		default:
			if ins.IsDataReference() {
				target, _ := ins.Target()
				t.dataReferences.Add(target)
			}
			t.addAddressToParse(next)
		}
	}
}

func (t *tracer) word(address uint16) uint16 {
	i := int(address) - machine.ProgramStart
	return uint16(t.program[i])<<8 | uint16(t.program[i+1])
}

func (t *tracer) inProgram(address uint16) bool {
	return int(address) >= machine.ProgramStart && int(address) < t.end
}

// labels assigns names to all referenced addresses inside the program.
// Calls take precedence over branches, branches over data references.
func (t *tracer) labels() map[uint16]string {
	labels := make(map[uint16]string)

	for address := range t.dataReferences {
		// a data label inside an instruction would split it
		if t.code.Contains(address-1) && !t.code.Contains(address) {
			continue
		}
		if t.inProgram(address) {
			labels[address] = fmt.Sprintf(dataNaming, address)
		}
	}
	for address := range t.branchDestinations {
		if t.inProgram(address) {
			labels[address] = fmt.Sprintf(labelNaming, address)
		}
	}
	for address := range t.callDestinations {
		if t.inProgram(address) {
			labels[address] = fmt.Sprintf(funcNaming, address)
		}
	}
	return labels
}

func (t *tracer) lines(labels map[uint16]string) []Line {
	var lines []Line

	for address := machine.ProgramStart; address < t.end; {
		addr := uint16(address)
		line := Line{
			Address: addr,
			Label:   labels[addr],
		}

		if t.code.Contains(addr) {
			ins, _ := Decode(t.word(addr))
			line.Data = t.bytes(address, opcodeSize)

			if _, ok := labels[addr+1]; ok {
				// keep the branch target addressable by emitting the
				// instruction as data
				line.Comment = "branch into instruction detected: " + format(ins, labels)
				line.Data = line.Data[:1]
				lines = append(lines, line)
				address++
				continue
			}

			line.Code = format(ins, labels)
			lines = append(lines, line)
			address += opcodeSize
			continue
		}

		n := 1
		for n < dataBytesPerLine && address+n < t.end {
			next := uint16(address + n)
			if _, ok := labels[next]; ok || t.code.Contains(next) {
				break
			}
			n++
		}
		line.Data = t.bytes(address, n)
		lines = append(lines, line)
		address += n
	}

	return lines
}

func (t *tracer) bytes(address, n int) []byte {
	i := address - machine.ProgramStart
	return t.program[i : i+n]
}
