package verification

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/set"
)

// ErrSyntax is returned for source lines that can not be assembled.
var ErrSyntax = errors.New("syntax error")

// operands that are neither a register nor a value
var specialOperands = set.New[string]()

func init() {
	for _, name := range []string{"I", "DT", "ST", "K", "F", "B", "[I]"} {
		specialOperands.Add(name)
	}
}

type statement struct {
	line     int
	mnemonic string
	operands []string
}

// operands holds the parsed operands of an instruction. The signature
// lists the operand kinds, V for a register and n for a value.
type operands struct {
	signature string
	registers []uint16
	value     uint16
}

// Assemble assembles a listing in the format written by the disassembler
// into a program image loaded at the program start address.
func Assemble(source []byte) ([]byte, error) {
	statements, labels, err := parse(source)
	if err != nil {
		return nil, err
	}

	var program []byte
	for _, st := range statements {
		switch st.mnemonic {
		case ".org":

		case ".byte":
			for _, op := range st.operands {
				b, err := parseValue(op, labels, 0xFF)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", st.line, err)
				}
				program = append(program, byte(b))
			}

		case ".word":
			if len(st.operands) != 1 {
				return nil, fmt.Errorf("line %d: %w: .word expects one value", st.line, ErrSyntax)
			}
			w, err := parseValue(st.operands[0], labels, 0xFFFF)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", st.line, err)
			}
			program = append(program, byte(w>>8), byte(w))

		default:
			opcode, err := encode(st, labels)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", st.line, err)
			}
			program = append(program, byte(opcode>>8), byte(opcode))
		}
	}
	return program, nil
}

// parse splits the source into statements and assigns addresses to labels.
func parse(source []byte) ([]statement, map[string]uint16, error) {
	var statements []statement
	labels := make(map[string]uint16)
	address := machine.ProgramStart

	scanner := bufio.NewScanner(bytes.NewReader(source))
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if i := strings.IndexByte(text, ';'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if name, ok := strings.CutSuffix(text, ":"); ok {
			if _, exists := labels[name]; exists {
				return nil, nil, fmt.Errorf("line %d: %w: duplicate label '%s'", line, ErrSyntax, name)
			}
			labels[name] = uint16(address)
			continue
		}

		st := parseStatement(line, text)
		switch st.mnemonic {
		case ".org":
			if len(st.operands) != 1 || st.operands[0] != fmt.Sprintf("$%X", machine.ProgramStart) {
				return nil, nil, fmt.Errorf("line %d: %w: unsupported origin", line, ErrSyntax)
			}
		case ".byte":
			address += len(st.operands)
		default:
			address += 2
		}
		statements = append(statements, st)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading source: %w", err)
	}
	return statements, labels, nil
}

func parseStatement(line int, text string) statement {
	mnemonic, rest, _ := strings.Cut(text, " ")
	st := statement{
		line:     line,
		mnemonic: strings.ToLower(mnemonic),
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return st
	}
	for _, op := range strings.Split(rest, ",") {
		st.operands = append(st.operands, strings.TrimSpace(op))
	}
	return st
}

func parseOperands(ops []string, labels map[string]uint16) (operands, error) {
	var result operands
	kinds := make([]string, 0, len(ops))

	for _, op := range ops {
		if register, ok := parseRegister(op); ok {
			result.registers = append(result.registers, register)
			kinds = append(kinds, "V")
			continue
		}
		if specialOperands.Contains(op) {
			kinds = append(kinds, op)
			continue
		}

		value, err := parseValue(op, labels, 0xFFFF)
		if err != nil {
			return result, err
		}
		result.value = value
		kinds = append(kinds, "n")
	}

	result.signature = strings.Join(kinds, ",")
	return result, nil
}

func parseRegister(op string) (uint16, bool) {
	if len(op) != 2 || op[0] != 'V' {
		return 0, false
	}
	register, err := strconv.ParseUint(op[1:], 16, 4)
	if err != nil {
		return 0, false
	}
	return uint16(register), true
}

// parseValue parses a $ prefixed hex number or a label reference.
func parseValue(op string, labels map[string]uint16, maxValue uint16) (uint16, error) {
	if hex, ok := strings.CutPrefix(op, "$"); ok {
		value, err := strconv.ParseUint(hex, 16, 16)
		if err != nil || value > uint64(maxValue) {
			return 0, fmt.Errorf("%w: invalid value '%s'", ErrSyntax, op)
		}
		return uint16(value), nil
	}

	address, ok := labels[op]
	if !ok {
		return 0, fmt.Errorf("%w: unknown label '%s'", ErrSyntax, op)
	}
	if address > maxValue {
		return 0, fmt.Errorf("%w: label '%s' out of range", ErrSyntax, op)
	}
	return address, nil
}

// encode returns the opcode of an instruction statement.
func encode(st statement, labels map[string]uint16) (uint16, error) {
	ops, err := parseOperands(st.operands, labels)
	if err != nil {
		return 0, err
	}

	var x, y uint16
	if len(ops.registers) > 0 {
		x = ops.registers[0] << 8
	}
	if len(ops.registers) > 1 {
		y = ops.registers[1] << 4
	}
	value := ops.value

	limit := func(maxValue uint16) error {
		if value > maxValue {
			return fmt.Errorf("%w: value $%X out of range for %s", ErrSyntax, value, st.mnemonic)
		}
		return nil
	}

	switch st.mnemonic + " " + ops.signature {
	case "cls ":
		return 0x00E0, nil
	case "ret ":
		return 0x00EE, nil

	case "jp n":
		return 0x1000 | value, limit(0xFFF)
	case "jp V,n":
		if x != 0 {
			return 0, fmt.Errorf("%w: jp offset register must be V0", ErrSyntax)
		}
		return 0xB000 | value, limit(0xFFF)
	case "call n":
		return 0x2000 | value, limit(0xFFF)

	case "se V,n":
		return 0x3000 | x | value, limit(0xFF)
	case "sne V,n":
		return 0x4000 | x | value, limit(0xFF)
	case "se V,V":
		return 0x5000 | x | y, nil
	case "sne V,V":
		return 0x9000 | x | y, nil

	case "ld V,n":
		return 0x6000 | x | value, limit(0xFF)
	case "add V,n":
		return 0x7000 | x | value, limit(0xFF)
	case "rnd V,n":
		return 0xC000 | x | value, limit(0xFF)
	case "ld I,n":
		return 0xA000 | value, limit(0xFFF)
	case "drw V,V,n":
		return 0xD000 | x | y | value, limit(0xF)

	case "skp V":
		return 0xE09E | x, nil
	case "sknp V":
		return 0xE0A1 | x, nil
	}

	if opcode, ok := encodeRegisterOp(st.mnemonic, ops.signature, x, y); ok {
		return opcode, nil
	}
	return 0, fmt.Errorf("%w: unsupported instruction '%s %s'", ErrSyntax, st.mnemonic, strings.Join(st.operands, ", "))
}

// arithmetic instructions of the 8 class indexed by mnemonic
var arithmetic = map[string]uint16{
	"ld":   0x0,
	"or":   0x1,
	"and":  0x2,
	"xor":  0x3,
	"add":  0x4,
	"sub":  0x5,
	"shr":  0x6,
	"subn": 0x7,
	"shl":  0xE,
}

// misc instructions of the F class indexed by mnemonic and signature
var misc = map[string]uint16{
	"ld V,DT":  0x07,
	"ld V,K":   0x0A,
	"ld DT,V":  0x15,
	"ld ST,V":  0x18,
	"add I,V":  0x1E,
	"ld F,V":   0x29,
	"ld B,V":   0x33,
	"ld [I],V": 0x55,
	"ld V,[I]": 0x65,
}

// encodeRegisterOp encodes instructions that only take register operands.
func encodeRegisterOp(mnemonic, signature string, x, y uint16) (uint16, bool) {
	if low, ok := misc[mnemonic+" "+signature]; ok {
		return 0xF000 | x | low, true
	}

	low, ok := arithmetic[mnemonic]
	if !ok {
		return 0, false
	}
	switch {
	case signature == "V,V":
		return 0x8000 | x | y | low, true
	case signature == "V" && (mnemonic == "shr" || mnemonic == "shl"):
		return 0x8000 | x | low, true
	}
	return 0, false
}
