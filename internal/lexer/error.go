package lexer

import (
	"fmt"

	"github.com/aurora/reproto/internal/source"
)

// ErrorKind classifies a lexical failure.
type ErrorKind int

const (
	ErrUnexpected ErrorKind = iota
	ErrUnterminatedString
	ErrUnterminatedCode
	ErrInvalidEscape
	ErrInvalidNumber
)

// Error is returned by Next when the byte stream cannot be tokenized.
// Lexing stops at the first Error; the core never attempts recovery at
// this layer — that is the parser's job for the two productions the
// grammar designates for it.
type Error struct {
	Kind ErrorKind
	Span source.Span
	Byte byte // only meaningful for ErrUnexpected
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnexpected:
		return fmt.Sprintf("%s: unexpected byte %q", e.Span, e.Byte)
	case ErrUnterminatedString:
		return fmt.Sprintf("%s: unterminated string literal", e.Span)
	case ErrUnterminatedCode:
		return fmt.Sprintf("%s: unterminated code block", e.Span)
	case ErrInvalidEscape:
		return fmt.Sprintf("%s: invalid escape sequence", e.Span)
	case ErrInvalidNumber:
		return fmt.Sprintf("%s: invalid number literal", e.Span)
	default:
		return fmt.Sprintf("%s: lex error", e.Span)
	}
}
