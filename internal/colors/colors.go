// Package colors provides the terminal color palette
package colors

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Palette. Each function honours color.NoColor at call time.
var (
	Red     = color.New(color.FgRed).SprintFunc()
	Green   = color.New(color.FgGreen).SprintFunc()
	Yellow  = color.New(color.FgYellow).SprintFunc()
	Blue    = color.New(color.FgBlue).SprintFunc()
	Cyan    = color.New(color.FgCyan).SprintFunc()
	Magenta = color.New(color.FgMagenta).SprintFunc()
	Bold    = color.New(color.Bold).SprintFunc()
)

// Init enables or disables colored output globally
func Init(enabled bool) {
	color.NoColor = !enabled
}

// Enabled reports whether colors are currently on
func Enabled() bool {
	return !color.NoColor
}

// ShouldUseColors determines if colored output should be enabled for f
func ShouldUseColors(noColor bool, f *os.File) bool {
	// Explicit disable via flag or environment
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
