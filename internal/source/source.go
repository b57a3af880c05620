// Package source provides the immutable value types every other package in
// reproto builds on: a named origin plus a byte buffer, and half-open byte
// spans within it.
package source

import "fmt"

// Origin identifies where a buffer came from — a file path, a REPL tag, a
// test name. It is opaque to the core; it is only ever echoed back inside
// error values for the caller to render.
type Origin string

// Source pairs a byte buffer with the Origin it was read from. It is never
// mutated after construction. The parser copies the buffer into a string
// once and AST strings slice that copy, so the AST does not hold Buffer.
type Source struct {
	Origin Origin
	Buffer []byte
}

// New wraps buf with the given origin tag.
func New(origin string, buf []byte) Source {
	return Source{Origin: Origin(origin), Buffer: buf}
}

// Text returns the buffer decoded as a string. Since Buffer is UTF-8 by
// contract this never needs validation here; callers that need to reject
// invalid UTF-8 do so before constructing a Source.
func (s Source) Text() string {
	return string(s.Buffer)
}

// Span is a half-open byte range [Start, End) within some Source's Buffer.
type Span struct {
	Start int
	End   int
}

// Zero is the span of an empty, unlocated range. Used by error-recovery
// sentinel nodes that have no real source extent.
var Zero = Span{}

// Valid reports whether the span is well-formed on its own terms:
// 0 <= Start <= End.
func (s Span) Valid() bool {
	return 0 <= s.Start && s.Start <= s.End
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether s fully encloses other: s.Start <= other.Start
// and other.End <= s.End. Used to check the "Item span encloses every
// child's span" invariant.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Join returns the smallest span covering both a and b. Both must be
// non-zero/valid; Join does not itself validate.
func Join(a, b Span) Span {
	start := a.Start
	if b.Start < start {
		start = b.Start
	}
	end := a.End
	if b.End > end {
		end = b.End
	}
	return Span{Start: start, End: end}
}

// Slice returns the bytes of buf covered by s as a string. It panics if s
// falls outside buf's bounds — callers are expected to only slice spans
// they obtained from lexing/parsing the same buffer.
func (s Span) Slice(buf []byte) string {
	return string(buf[s.Start:s.End])
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start, s.End)
}
