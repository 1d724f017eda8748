package ports

import (
	"io"

	"go.trai.ch/nixdiff/internal/core/domain"
)

// ReportRenderer writes a human readable report of a diff tree.
//
//go:generate mockgen -source=report_renderer.go -destination=mocks/mock_report_renderer.go -package=mocks
type ReportRenderer interface {
	// Render writes d to w. A nil diff writes nothing. Color and context
	// come from opts.
	Render(w io.Writer, d *domain.StepDiff, opts domain.Options) error
}
