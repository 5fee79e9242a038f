// Package output provides output writing functionality
package output

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sync"

	"github.com/jhaxce/originprobe/pkg/core"
	"github.com/jhaxce/originprobe/pkg/ip"
)

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

// Writer sends findings to the console and, optionally, a report file.
// Findings go to stdout even in quiet mode; quiet only drops the banner,
// range lines and summary.
type Writer struct {
	mu        sync.Mutex
	out       io.Writer
	file      *os.File
	formatter *Formatter
	quiet     bool
	beforeOut func() // clears the progress line
}

// NewWriter creates a new output writer
func NewWriter(out io.Writer, outputFile string, formatter *Formatter, quiet bool) (*Writer, error) {
	w := &Writer{
		out:       out,
		formatter: formatter,
		quiet:     quiet,
	}

	if outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		w.file = file
	}

	return w, nil
}

// SetBeforeOutput registers fn to run before each console line
func (w *Writer) SetBeforeOutput(fn func()) {
	w.beforeOut = fn
}

// WriteHeader writes the scan header
func (w *Writer) WriteHeader(h Header) {
	if w.quiet {
		return
	}
	w.print(w.formatter.FormatHeader(h))
}

// WriteRange announces the range about to be scanned
func (w *Writer) WriteRange(r ip.IPRange, index, count int) {
	if w.quiet {
		return
	}
	if line := w.formatter.FormatRange(r, index, count); line != "" {
		w.print(line + "\n")
	}
}

// WriteMatch writes a single finding as soon as it completes. JSON output
// reports findings only in the final document.
func (w *Writer) WriteMatch(o core.Outcome) {
	if w.formatter.Format() == core.FormatJSON {
		return
	}

	formatted := w.formatter.FormatMatch(o)
	w.print(formatted + "\n")

	if w.file != nil {
		w.mu.Lock()
		fmt.Fprintln(w.file, stripColors(formatted))
		w.mu.Unlock()
	}
}

// WriteResult writes the summary, or the full JSON document
func (w *Writer) WriteResult(result *core.ScanResult) error {
	formatted := w.formatter.FormatResult(result)

	if w.formatter.Format() == core.FormatJSON || !w.quiet {
		w.print(formatted)
	}

	if w.file != nil {
		w.mu.Lock()
		defer w.mu.Unlock()
		if _, err := io.WriteString(w.file, stripColors(formatted)); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

// Close closes the output file
func (w *Writer) Close() error {
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

func (w *Writer) print(s string) {
	if s == "" {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.beforeOut != nil {
		w.beforeOut()
	}
	io.WriteString(w.out, s)
}

// stripColors removes ANSI color codes from a string
func stripColors(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
