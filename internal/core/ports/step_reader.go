package ports

import "go.trai.ch/nixdiff/internal/core/domain"

// StepReader loads the raw bytes behind a StepID.
//
//go:generate mockgen -source=step_reader.go -destination=mocks/mock_step_reader.go -package=mocks
type StepReader interface {
	// ReadStep returns the bytes stored at the identifier's path.
	// Fails with domain.ErrStepNotFound or domain.ErrStepReadFailed.
	ReadStep(id domain.StepID) ([]byte, error)
}
