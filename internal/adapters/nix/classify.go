package nix

import (
	"strings"

	"go.trai.ch/nixdiff/internal/core/domain"
)

// InputKind is the kind of a user supplied input.
type InputKind int

const (
	// KindStepPath is a path to a step description file.
	KindStepPath InputKind = iota
	// KindExpressionFile is a file that has to be instantiated first.
	KindExpressionFile
	// KindFlakeRef is a flake reference with an attribute path.
	KindFlakeRef
	// KindStorePath is a build output whose deriver is looked up.
	KindStorePath
)

// String returns a short name for logs.
func (k InputKind) String() string {
	switch k {
	case KindStepPath:
		return "drv"
	case KindExpressionFile:
		return "nix-file"
	case KindFlakeRef:
		return "flake"
	case KindStorePath:
		return "store-path"
	default:
		return "unknown"
	}
}

// Classify decides how an input is resolved. A '#' always means a flake
// reference, so "./dir#pkg.drv" is a flake and not a step path.
func Classify(input string) InputKind {
	switch {
	case strings.Contains(input, domain.FlakeAttrSeparator):
		return KindFlakeRef
	case strings.HasSuffix(input, domain.StepFileExt):
		return KindStepPath
	case strings.HasSuffix(input, domain.ExpressionFileExt):
		return KindExpressionFile
	default:
		return KindStorePath
	}
}
