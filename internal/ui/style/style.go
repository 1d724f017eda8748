// Package style provides the colors and markers shared by the report and the
// log output.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Markers.
const (
	Cross    = "✗"
	Warning  = "!"
	Tilde    = "~"
	Plus     = "+"
	Minus    = "-"
	Ellipsis = "…"
	Return   = "↵"
)
