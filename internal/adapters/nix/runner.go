// Package nix resolves user inputs to step descriptions with the nix command
// line tools.
package nix

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"go.trai.ch/nixdiff/internal/core/domain"
	"go.trai.ch/zerr"
)

// ExecRunner implements ports.CommandRunner with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args and returns its standard output.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	//nolint:gosec // the command line is assembled from a fixed set of nix tools
	cmd := exec.CommandContext(ctx, name, args...)

	out, err := cmd.Output()
	if err != nil {
		cmdErr := zerr.With(errors.Join(domain.ErrCommandFailed, err), "command", name)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if stderr := strings.TrimSpace(string(exitErr.Stderr)); stderr != "" {
				cmdErr = zerr.With(cmdErr, "stderr", stderr)
			}
		}
		return nil, cmdErr
	}
	return out, nil
}
