// Package ip provides file parsing for CIDR range lists
package ip

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jhaxce/originprobe/pkg/core"
)

// InvalidLineFunc is called for every line that is not valid CIDR
type InvalidLineFunc func(lineNum int, line string, err error)

// LoadRangeFile reads CIDR ranges from a file, one per line.
// Supports:
// - Comments (lines starting with # or //)
// - Blank lines (ignored)
// Invalid lines are reported through onInvalid and skipped. A file with no
// valid range at all is an error.
func LoadRangeFile(path string, onInvalid InvalidLineFunc) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open range file: %w", err)
	}
	defer file.Close()

	ranges, err := ReadRanges(file, onInvalid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ranges, nil
}

// ReadRanges parses a newline-delimited range list from r
func ReadRanges(r io.Reader, onInvalid InvalidLineFunc) ([]string, error) {
	var ranges []string
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if isSkippable(line) {
			continue
		}

		if _, err := ParseCIDRRange(line); err != nil {
			if onInvalid != nil {
				onInvalid(lineNum, line, err)
			}
			continue
		}
		ranges = append(ranges, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ranges: %w", err)
	}

	if len(ranges) == 0 {
		return nil, core.ErrEmptyRangeFile
	}

	return ranges, nil
}

func isSkippable(line string) bool {
	return line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//")
}
