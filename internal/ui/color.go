// Package ui renders sync outcomes and status reports for the terminal.
package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color functions for styled output.
var (
	Success = color.New(color.FgGreen).SprintFunc()
	Error   = color.New(color.FgRed).SprintFunc()
	Warning = color.New(color.FgYellow).SprintFunc()
	Bold    = color.New(color.Bold).SprintFunc()
	Dim     = color.New(color.Faint).SprintFunc()
)

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolMissing = "○"
)

// ConfigureColor turns colors off when disabled is set, NO_COLOR is set,
// or out is not a terminal.
func ConfigureColor(disabled bool, out *os.File) {
	switch {
	case disabled, os.Getenv("NO_COLOR") != "":
		color.NoColor = true
	case out == nil || !term.IsTerminal(int(out.Fd())):
		color.NoColor = true
	default:
		color.NoColor = false
	}
}
