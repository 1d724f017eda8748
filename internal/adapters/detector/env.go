// Package detector provides environment detection for color selection.
package detector

import (
	"os"

	"go.trai.ch/nixdiff/internal/core/domain"
	"golang.org/x/term"
)

// Environment holds the signals that decide whether ColorAuto colorizes.
type Environment struct {
	// ColorCapable is true when the report goes to a terminal that is not dumb.
	ColorCapable bool
	// NoColor is true when the user asked for plain output through NO_COLOR.
	NoColor bool
}

// Detect inspects f and the process environment.
func Detect(f *os.File) Environment {
	return Environment{
		ColorCapable: f != nil && term.IsTerminal(int(f.Fd())) && os.Getenv("TERM") != "dumb",
		NoColor:      os.Getenv(domain.NoColorEnvVar) != "",
	}
}

// UseColor resolves a color mode against the environment.
func (e Environment) UseColor(mode domain.ColorMode) bool {
	switch mode {
	case domain.ColorAlways:
		return true
	case domain.ColorNever:
		return false
	default:
		return e.ColorCapable && !e.NoColor
	}
}
