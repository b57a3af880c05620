package ast

import (
	"strings"

	"github.com/aurora/reproto/internal/source"
)

// Code is a `{{ ... }}` verbatim block embedded directly as a member
// of an enum or record body. Context names the target the block is
// written for (e.g. a language or backend tag); Content holds the
// normalized text — the lexer's raw CodeContent is never stored as-is.
type Code struct {
	Attributes []Attribute
	Context    Located[string]
	Content    string
	Span       source.Span
}

// NormalizeCode implements spec.md's code-block whitespace rules:
// strip leading/trailing blank lines, strip the common leading
// whitespace prefix shared by every non-blank line, and drop a final
// trailing newline. It is idempotent: normalizing already-normalized
// text returns it unchanged.
func NormalizeCode(raw string) string {
	lines := strings.Split(raw, "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}

	prefix := commonLeadingWhitespace(lines)
	if prefix > 0 {
		for i, ln := range lines {
			if len(ln) >= prefix {
				lines[i] = ln[prefix:]
			} else {
				lines[i] = strings.TrimLeft(ln, " \t")
			}
		}
	}

	return strings.Join(lines, "\n")
}

// commonLeadingWhitespace returns the shortest run of leading spaces/
// tabs shared by every non-blank line. Blank lines do not constrain
// the prefix.
func commonLeadingWhitespace(lines []string) int {
	min := -1
	for _, ln := range lines {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		n := 0
		for n < len(ln) && (ln[n] == ' ' || ln[n] == '\t') {
			n++
		}
		if min == -1 || n < min {
			min = n
		}
	}
	if min == -1 {
		return 0
	}
	return min
}
