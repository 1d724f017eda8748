package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrMalformedStep is matched by every parse failure of a step description.
	ErrMalformedStep = zerr.New("malformed step description")

	// ErrStepNotFound is returned when a step description does not exist.
	ErrStepNotFound = zerr.New("step not found")

	// ErrStepReadFailed is returned when a step description exists but cannot be read.
	ErrStepReadFailed = zerr.New("failed to read step")

	// ErrStepLoadFailed is matched by every StepLoadError.
	ErrStepLoadFailed = zerr.New("failed to load step")

	// ErrResolutionFailed is returned when an input cannot be resolved to a step.
	ErrResolutionFailed = zerr.New("failed to resolve input")

	// ErrNoDeriver is returned when a store path has no known deriver.
	ErrNoDeriver = zerr.New("store path has no deriver")

	// ErrInvalidFlakeRef is returned when a flake reference has no attribute part.
	ErrInvalidFlakeRef = zerr.New("invalid flake reference, expected <flake>#<attribute>")

	// ErrFlakeMetadataInvalid is returned when flake metadata lacks a path or narHash.
	ErrFlakeMetadataInvalid = zerr.New("flake metadata is missing path or narHash")

	// ErrCommandFailed is returned when an external command exits unsuccessfully.
	ErrCommandFailed = zerr.New("external command failed")

	// ErrInvalidGranularity is returned for an unknown diff granularity.
	ErrInvalidGranularity = zerr.New("invalid granularity, expected 'line', 'word' or 'character'")

	// ErrInvalidColorMode is returned for an unknown color mode.
	ErrInvalidColorMode = zerr.New("invalid color mode, expected 'always', 'auto' or 'never'")

	// ErrInvalidContextLines is returned for a negative context line count.
	ErrInvalidContextLines = zerr.New("context lines must not be negative")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnsupportedConfigVersion is returned for a config file version other than "1".
	ErrUnsupportedConfigVersion = zerr.New("unsupported config version")

	// ErrNotADirectory is returned when a source tree is requested for a file.
	ErrNotADirectory = zerr.New("source is not a directory")

	// ErrDiffFailed wraps any failure of a top-level diff.
	ErrDiffFailed = zerr.New("failed to diff steps")
)

// StepLoadError reports a step that could not be read or parsed.
// It unwraps to the underlying cause and matches ErrStepLoadFailed.
type StepLoadError struct {
	Step StepID
	Err  error
}

// Error implements error.
func (e *StepLoadError) Error() string {
	return fmt.Sprintf("failed to load step %s: %v", e.Step, e.Err)
}

// Message returns the message without the cause, for chain formatting.
func (e *StepLoadError) Message() string {
	return "failed to load step " + e.Step.String()
}

// Unwrap returns the underlying cause.
func (e *StepLoadError) Unwrap() error {
	return e.Err
}

// Is matches ErrStepLoadFailed.
func (e *StepLoadError) Is(target error) bool {
	return target == ErrStepLoadFailed
}

// ResolutionError reports an input that could not be turned into a step.
// It unwraps to the underlying cause and matches ErrResolutionFailed.
type ResolutionError struct {
	Input string
	Err   error
}

// Error implements error.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve %q: %v", e.Input, e.Err)
}

// Message returns the message without the cause, for chain formatting.
func (e *ResolutionError) Message() string {
	return fmt.Sprintf("failed to resolve %q", e.Input)
}

// Unwrap returns the underlying cause.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is matches ErrResolutionFailed.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolutionFailed
}
