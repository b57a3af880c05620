// Package pathspec parses `/toy/{request}`-shaped route templates used
// inside HTTP-routing attributes on service endpoints. It is the sibling
// micro-pipeline to internal/lexer+internal/parser: same lexer-then-grammar
// shape, much smaller surface.
package pathspec

import (
	"errors"

	"github.com/alecthomas/participle/v2"
	plex "github.com/alecthomas/participle/v2/lexer"

	"github.com/aurora/reproto/internal/source"
)

// PathPart is either a literal Segment or a braced Variable.
type PathPart struct {
	Segment  string
	Variable string
	IsVar    bool
}

// PathStep is everything between two slashes: one or more PathPart.
type PathStep struct {
	Parts []PathPart
}

// PathSpec is the parsed form of a route template. An empty path ("/")
// has a nil Steps slice.
type PathSpec struct {
	Steps []PathStep
}

// pathLexer tokenizes the template. Segment is the "anything but /{}"
// catch-all; VarOpen pushes the Var state so Ident is only recognised
// between braces, mirroring bargom-codeai's ExecOpen/ShellClose push/pop
// for its raw shell block.
var pathLexer = plex.MustStateful(plex.Rules{
	"Root": {
		{Name: "Slash", Pattern: `/`},
		{Name: "VarOpen", Pattern: `\{`, Action: plex.Push("Var")},
		{Name: "Segment", Pattern: `[^/{}]+`},
	},
	"Var": {
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "VarClose", Pattern: `\}`, Action: plex.Pop()},
	},
})

type pPath struct {
	Pos   plex.Position
	Steps []*pStep `parser:"@@*"`
}

type pStep struct {
	Pos   plex.Position
	Parts []*pPart `parser:"Slash @@+"`
}

type pPart struct {
	Pos      plex.Position
	Variable *string `parser:"(  VarOpen @Ident VarClose"`
	Segment  *string `parser:" | @Segment )"`
}

var pathParser = participle.MustBuild[pPath](
	participle.Lexer(pathLexer),
)

// ParsePath parses a route template. Two shapes are special-cased ahead of
// the grammar proper (spec.md §4.5): the bare root path "/" parses to
// PathSpec{Steps: nil} without ever reaching the token stream, and any
// input not starting with '/' is rejected outright — the grammar itself
// has no production for a path missing its leading slash.
func ParsePath(origin string, buf []byte) (*PathSpec, error) {
	s := string(buf)

	if len(s) == 0 || s[0] != '/' {
		end := 0
		if len(s) > 0 {
			end = 1
		}
		return nil, &Error{
			Kind:    ErrNoLeadingSlash,
			Span:    source.Span{Start: 0, End: end},
			Message: "path must start with '/'",
		}
	}

	if s == "/" {
		return &PathSpec{}, nil
	}

	parsed, err := pathParser.ParseString(origin, s)
	if err != nil {
		return nil, toError(err)
	}

	return convertPath(parsed), nil
}

func toError(err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		offset := perr.Position().Offset
		return &Error{
			Kind:    ErrSyntax,
			Span:    source.Span{Start: offset, End: offset},
			Message: perr.Message(),
		}
	}
	return &Error{Kind: ErrSyntax, Message: err.Error()}
}

func convertPath(p *pPath) *PathSpec {
	if len(p.Steps) == 0 {
		return &PathSpec{}
	}
	steps := make([]PathStep, len(p.Steps))
	for i, s := range p.Steps {
		steps[i] = convertStep(s)
	}
	return &PathSpec{Steps: steps}
}

func convertStep(s *pStep) PathStep {
	parts := make([]PathPart, len(s.Parts))
	for i, pt := range s.Parts {
		parts[i] = convertPart(pt)
	}
	return PathStep{Parts: parts}
}

func convertPart(pt *pPart) PathPart {
	if pt.Variable != nil {
		return PathPart{Variable: *pt.Variable, IsVar: true}
	}
	return PathPart{Segment: *pt.Segment}
}
