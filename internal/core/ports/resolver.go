package ports

import (
	"context"

	"go.trai.ch/nixdiff/internal/core/domain"
)

// Resolver turns a user supplied input into the StepID of a diff root.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type Resolver interface {
	// Resolve accepts a step description path, a store output path, an
	// expression file or a flake reference.
	Resolve(ctx context.Context, input string) (domain.StepID, error)
}
