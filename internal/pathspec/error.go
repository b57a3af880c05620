package pathspec

import (
	"fmt"

	"github.com/aurora/reproto/internal/source"
)

// ErrorKind classifies a path-template parse failure.
type ErrorKind int

const (
	// ErrNoLeadingSlash is returned for empty input and for any input
	// whose first byte is not '/'.
	ErrNoLeadingSlash ErrorKind = iota
	// ErrSyntax wraps a participle grammar failure.
	ErrSyntax
)

// Error is returned by ParsePath. It mirrors the shape of lexer.Error and
// parser.Error: a span plus a descriptive kind, never logged inside this
// package.
type Error struct {
	Kind    ErrorKind
	Span    source.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Message)
}
