// Package report renders a diff tree as a leveled, optionally colored text
// report.
package report

import (
	"io"

	"github.com/muesli/termenv"
	"go.trai.ch/nixdiff/internal/adapters/detector"
	"go.trai.ch/nixdiff/internal/core/domain"
	"go.trai.ch/nixdiff/internal/ui/output"
)

// Renderer implements ports.ReportRenderer.
type Renderer struct {
	env detector.Environment
}

// New creates a Renderer that resolves ColorAuto against env.
func New(env detector.Environment) *Renderer {
	return &Renderer{env: env}
}

// Render writes the report for d to w. Nothing is written for a nil diff.
func (r *Renderer) Render(w io.Writer, d *domain.StepDiff, opts domain.Options) error {
	if d == nil {
		return nil
	}

	profile := ResolveProfile(opts.Color, r.env)
	out := output.NewWithProfile(w, func() termenv.Profile { return profile })

	p := newPrinter(out, opts.ContextLines)
	p.node(0, d)

	_, err := io.WriteString(w, p.String())
	return err
}

// ResolveProfile picks the color profile of the report. Colored output uses
// the 256 color palette so that reports look the same on every terminal.
func ResolveProfile(mode domain.ColorMode, env detector.Environment) termenv.Profile {
	if !env.UseColor(mode) {
		return termenv.Ascii
	}
	return termenv.ANSI256
}
