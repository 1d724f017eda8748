package report

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nixdiff/internal/adapters/detector"
	"go.trai.ch/nixdiff/internal/core/ports"
)

// NodeID is the unique identifier for the report renderer Graft node.
const NodeID graft.ID = "adapter.report"

func init() {
	graft.Register(graft.Node[ports.ReportRenderer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{detector.NodeID},
		Run: func(ctx context.Context) (ports.ReportRenderer, error) {
			env, err := graft.Dep[detector.Environment](ctx)
			if err != nil {
				return nil, err
			}
			return New(env), nil
		},
	})
}
