package differ

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nixdiff/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/nixdiff/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/nixdiff/internal/adapters/store"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/nixdiff/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/nixdiff/internal/core/ports"
)

// NodeID is the unique identifier for the differ Graft node.
const NodeID graft.ID = "engine.differ"

func init() {
	graft.Register(graft.Node[ports.StepDiffer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			store.NodeID,
			fs.ReaderNodeID,
			fs.TreeHasherNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (ports.StepDiffer, error) {
			steps, err := graft.Dep[ports.StepStore](ctx)
			if err != nil {
				return nil, err
			}

			reader, err := graft.Dep[ports.StepReader](ctx)
			if err != nil {
				return nil, err
			}

			trees, err := graft.Dep[ports.TreeHasher](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return New(steps, log, tracer, WithSourceReader(reader), WithTreeHasher(trees)), nil
		},
	})
}
