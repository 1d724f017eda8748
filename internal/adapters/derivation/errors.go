package derivation

import (
	"bytes"
	"fmt"

	"go.trai.ch/nixdiff/internal/core/domain"
)

// FormatError reports where a step description stopped being well formed.
// Line and Column are 1-based; Column counts bytes.
type FormatError struct {
	Offset int
	Line   int
	Column int
	Msg    string
}

func newFormatError(data []byte, offset int, format string, args ...any) *FormatError {
	if offset > len(data) {
		offset = len(data)
	}
	before := data[:offset]
	line := bytes.Count(before, []byte{'\n'}) + 1
	column := offset - bytes.LastIndexByte(before, '\n')
	return &FormatError{
		Offset: offset,
		Line:   line,
		Column: column,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// Error implements error.
func (e *FormatError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d (offset %d): %s",
		domain.ErrMalformedStep.Error(), e.Line, e.Column, e.Offset, e.Msg)
}

// Is matches domain.ErrMalformedStep.
func (e *FormatError) Is(target error) bool {
	return target == domain.ErrMalformedStep
}
