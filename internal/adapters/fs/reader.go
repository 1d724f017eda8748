package fs

import (
	"errors"
	"io/fs"

	"go.trai.ch/nixdiff/internal/core/domain"
	"go.trai.ch/nixdiff/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StepReader = (*StepReader)(nil)

// StepReader reads step descriptions and source files by their store path.
type StepReader struct {
	fsys FileSystem
}

// NewStepReader creates a StepReader on top of fsys.
func NewStepReader(fsys FileSystem) *StepReader {
	return &StepReader{fsys: fsys}
}

// ReadStep returns the contents of the file at id's path.
func (r *StepReader) ReadStep(id domain.StepID) ([]byte, error) {
	path := id.String()
	if path == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrStepNotFound, ""), "path", path)
	}

	data, err := r.fsys.ReadFile(path)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, zerr.With(zerr.Wrap(domain.ErrStepNotFound, ""), "path", path)
	default:
		return nil, zerr.With(errors.Join(domain.ErrStepReadFailed, err), "path", path)
	}
}
