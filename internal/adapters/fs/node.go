package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nixdiff/internal/core/ports"
)

const (
	// FileSystemNodeID is the unique identifier for the filesystem Graft node.
	FileSystemNodeID graft.ID = "adapter.fs.filesystem"
	// ReaderNodeID is the unique identifier for the step reader Graft node.
	ReaderNodeID graft.ID = "adapter.fs.reader"
	// TreeHasherNodeID is the unique identifier for the source tree hasher Graft node.
	TreeHasherNodeID graft.ID = "adapter.fs.tree_hasher"
)

func init() {
	graft.Register(graft.Node[FileSystem]{
		ID:        FileSystemNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (FileSystem, error) {
			return NewOSFS(), nil
		},
	})

	graft.Register(graft.Node[ports.StepReader]{
		ID:        ReaderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{FileSystemNodeID},
		Run: func(ctx context.Context) (ports.StepReader, error) {
			fsys, err := graft.Dep[FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewStepReader(fsys), nil
		},
	})

	graft.Register(graft.Node[ports.TreeHasher]{
		ID:        TreeHasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.TreeHasher, error) {
			return NewTreeHasher(NewWalker()), nil
		},
	})
}
