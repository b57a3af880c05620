package parser

import (
	"fmt"

	"github.com/aurora/reproto/internal/lexer"
	"github.com/aurora/reproto/internal/source"
)

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	ErrUnexpected ErrorKind = iota
	ErrUnrecognisedEOF
	ErrExtraToken
	ErrUser
)

// Error is returned by every parser entry point when input cannot be
// parsed. Exactly two productions recover locally instead of
// propagating an Error — a malformed `use` package and a malformed
// field/argument Type — everything else aborts the parse.
type Error struct {
	Kind    ErrorKind
	Span    source.Span
	Message string
	Lex     *lexer.Error // set when Kind originates from a lex failure
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Span, e.Message)
	}
	switch e.Kind {
	case ErrUnrecognisedEOF:
		return fmt.Sprintf("%s: unexpected end of input", e.Span)
	case ErrExtraToken:
		return fmt.Sprintf("%s: unexpected trailing input", e.Span)
	default:
		return fmt.Sprintf("%s: parse error", e.Span)
	}
}

func (e *Error) Unwrap() error {
	if e.Lex != nil {
		return e.Lex
	}
	return nil
}

func wrapLexError(err error) error {
	lexErr, ok := err.(*lexer.Error)
	if !ok {
		return err
	}
	return &Error{Kind: ErrUser, Span: lexErr.Span, Message: lexErr.Error(), Lex: lexErr}
}
