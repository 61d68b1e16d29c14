// Package verification verifies that a generated listing recreates the input ROM.
package verification

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// maxLoggedMismatches limits the number of logged offset mismatches.
const maxLoggedMismatches = 10

// VerifyOutput assembles the listing source and compares the result with
// the input ROM. Trailing zero bytes that the listing omitted are ignored.
func VerifyOutput(logger *log.Logger, input, source []byte) error {
	output, err := Assemble(source)
	if err != nil {
		return fmt.Errorf("assembling listing: %w", err)
	}

	if len(output) < len(input) && allZero(input[len(output):]) {
		output = append(output, make([]byte, len(input)-len(output))...)
	}

	if err := checkBufferEqual(logger, input, output); err != nil {
		return fmt.Errorf("program mismatch: %w", err)
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < maxLoggedMismatches {
			logger.Warn("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}

func allZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
