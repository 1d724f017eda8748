package ports

import "context"

// CommandRunner runs external programs and returns their standard output.
//
//go:generate mockgen -source=command_runner.go -destination=mocks/mock_command_runner.go -package=mocks
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
