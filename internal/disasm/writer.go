package disasm

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
)

// Write writes a listing as assembly source.
func Write(w io.Writer, lines []Line, opts options.Disassembler) error {
	if _, err := fmt.Fprintf(w, "; CHIP-8 ROM Disassembly\n"); err != nil {
		return fmt.Errorf("writing header comment: %w", err)
	}
	if _, err := fmt.Fprintf(w, "; Program starts at $200 in CHIP-8 memory space\n\n"); err != nil {
		return fmt.Errorf("writing memory space comment: %w", err)
	}
	if _, err := fmt.Fprintf(w, ".org $200\n\n"); err != nil {
		return fmt.Errorf("writing org directive: %w", err)
	}

	for _, line := range lines[:endIndex(lines, opts.ZeroBytes)] {
		if line.Label != "" {
			if _, err := fmt.Fprintf(w, "%s:\n", line.Label); err != nil {
				return fmt.Errorf("writing label %s: %w", line.Label, err)
			}
		}

		if err := writeLine(w, line, opts); err != nil {
			return fmt.Errorf("writing line at $%04X: %w", line.Address, err)
		}
	}

	return nil
}

func writeLine(w io.Writer, line Line, opts options.Disassembler) error {
	text := "    " + line.Code
	if !line.IsCode() {
		text = "    " + formatData(line.Data)
	}

	comment := lineComment(line, opts)
	if comment == "" {
		_, err := fmt.Fprintf(w, "%s\n", text)
		return err
	}
	_, err := fmt.Fprintf(w, "%-32s ; %s\n", text, comment)
	return err
}

func formatData(data []byte) string {
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf(".byte $%02X", data[0]))
	for _, b := range data[1:] {
		buf.WriteString(fmt.Sprintf(", $%02X", b))
	}
	return buf.String()
}

// lineComment combines the address and opcode byte comments of code
// lines with an explicit line comment.
func lineComment(line Line, opts options.Disassembler) string {
	var parts []string

	if line.IsCode() {
		if opts.OffsetComments {
			parts = append(parts, fmt.Sprintf("$%04X", line.Address))
		}
		if opts.HexComments {
			parts = append(parts, fmt.Sprintf("%02X %02X", line.Data[0], line.Data[1]))
		}
	}
	if line.Comment != "" {
		parts = append(parts, line.Comment)
	}
	return strings.Join(parts, " ")
}

// endIndex returns the number of lines to output, dropping trailing
// unlabelled data lines that only contain zero bytes.
func endIndex(lines []Line, zeroBytes bool) int {
	if zeroBytes {
		return len(lines)
	}

	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if line.IsCode() || line.Label != "" || line.Comment != "" {
			return i + 1
		}
		for _, b := range line.Data {
			if b != 0 {
				return i + 1
			}
		}
	}
	return 0
}
