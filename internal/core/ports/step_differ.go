package ports

import (
	"context"

	"go.trai.ch/nixdiff/internal/core/domain"
)

// StepDiffer compares two steps and their dependency graphs.
//
//go:generate mockgen -source=step_differ.go -destination=mocks/mock_step_differ.go -package=mocks
type StepDiffer interface {
	// Diff returns the diff tree of a and b, or nil when they are identical
	// for reporting purposes.
	Diff(ctx context.Context, a, b domain.StepID, opts domain.Options) (*domain.StepDiff, error)
}
