package ports

import "go.trai.ch/nixdiff/internal/core/domain"

// TreeHasher digests the files below a source directory.
//
//go:generate mockgen -source=tree_hasher.go -destination=mocks/mock_tree_hasher.go -package=mocks
type TreeHasher interface {
	// HashTree returns one digest per file, keyed by slash separated path
	// relative to the directory. Fails with domain.ErrNotADirectory when id
	// names anything else.
	HashTree(id domain.StepID) (map[string]uint64, error)
}
