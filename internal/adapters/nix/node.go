package nix

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/nixdiff/internal/adapters/fs"
	"go.trai.ch/nixdiff/internal/adapters/logger"
	"go.trai.ch/nixdiff/internal/adapters/telemetry"
	"go.trai.ch/nixdiff/internal/core/ports"
)

const (
	// RunnerNodeID is the unique identifier for the command runner Graft node.
	RunnerNodeID graft.ID = "adapter.nix.runner"
	// ResolverNodeID is the unique identifier for the resolver Graft node.
	ResolverNodeID graft.ID = "adapter.nix.resolver"
)

func init() {
	graft.Register(graft.Node[ports.CommandRunner]{
		ID:        RunnerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CommandRunner, error) {
			return NewExecRunner(), nil
		},
	})

	graft.Register(graft.Node[ports.Resolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{RunnerNodeID, fs.FileSystemNodeID, logger.NodeID, telemetry.TracerNodeID},
		Run: func(ctx context.Context) (ports.Resolver, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			fsys, err := graft.Dep[fs.FileSystem](ctx)
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
			return NewResolver(runner, fsys, log, tracer), nil
		},
	})
}
