package fs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/nixdiff/internal/core/domain"
	"go.trai.ch/nixdiff/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TreeHasher = (*TreeHasher)(nil)

// symlinkTag separates link digests from file digests with the same bytes.
const symlinkTag = "symlink\x00"

// TreeHasher computes XXHash digests for the files of a source directory.
type TreeHasher struct {
	walker *Walker
}

// NewTreeHasher creates a new TreeHasher.
func NewTreeHasher(walker *Walker) *TreeHasher {
	return &TreeHasher{walker: walker}
}

// HashTree digests every file below the directory at id. Symbolic links are
// digested by their target path.
func (h *TreeHasher) HashTree(id domain.StepID) (map[string]uint64, error) {
	root := id.String()

	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, zerr.With(zerr.Wrap(domain.ErrStepNotFound, ""), "path", root)
	case err != nil:
		return nil, zerr.With(errors.Join(domain.ErrStepReadFailed, err), "path", root)
	case !info.IsDir():
		return nil, zerr.With(zerr.Wrap(domain.ErrNotADirectory, ""), "path", root)
	}

	digests := make(map[string]uint64)
	for path, err := range h.walker.WalkFiles(root) {
		if err != nil {
			return nil, zerr.With(errors.Join(domain.ErrStepReadFailed, err), "path", root)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
		}

		sum, err := h.hashEntry(path)
		if err != nil {
			return nil, err
		}
		digests[filepath.ToSlash(rel)] = sum
	}

	return digests, nil
}

func (h *TreeHasher) hashEntry(path string) (uint64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, zerr.With(errors.Join(domain.ErrStepReadFailed, err), "path", path)
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			return 0, zerr.With(errors.Join(domain.ErrStepReadFailed, err), "path", path)
		}
		return xxhash.Sum64String(symlinkTag + target), nil
	}

	return h.ComputeFileHash(path)
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *TreeHasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(errors.Join(domain.ErrStepReadFailed, err), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}
