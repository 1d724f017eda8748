package store

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nixdiff/internal/adapters/fs"
	"go.trai.ch/nixdiff/internal/core/ports"
)

// NodeID is the unique identifier for the step store Graft node.
const NodeID graft.ID = "adapter.step_store"

func init() {
	graft.Register(graft.Node[ports.StepStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.ReaderNodeID},
		Run: func(ctx context.Context) (ports.StepStore, error) {
			reader, err := graft.Dep[ports.StepReader](ctx)
			if err != nil {
				return nil, err
			}
			return New(reader), nil
		},
	})
}
