package ports

import "go.trai.ch/nixdiff/internal/core/domain"

// StepStore returns parsed steps, loading each one at most once.
//
//go:generate mockgen -source=step_store.go -destination=mocks/mock_step_store.go -package=mocks
type StepStore interface {
	// Load returns the parsed step for id. Failures are *domain.StepLoadError.
	Load(id domain.StepID) (*domain.Step, error)
}
