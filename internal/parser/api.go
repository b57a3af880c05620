package parser

import (
	"github.com/aurora/reproto/internal/ast"
	"github.com/aurora/reproto/internal/lexer"
	"github.com/aurora/reproto/internal/source"
)

// ParseFile parses a complete source file. origin is accepted but not
// recorded: a returned error carries a byte span and no origin, so a
// caller that renders it attaches the origin itself. The parser never
// touches the filesystem.
func ParseFile(origin string, buf []byte) (*ast.File, error) {
	p, err := newParser(lexer.New(string(buf)))
	if err != nil {
		return nil, err
	}
	return p.parseFile()
}

// ParseTypeMember parses a single field or nested declaration, as
// found inside a type/interface/tuple body. Useful for editor tooling
// that reparses one member at a time.
func ParseTypeMember(origin string, buf []byte) (*ast.Item[ast.TypeMember], error) {
	p, err := newParser(lexer.New(string(buf)))
	if err != nil {
		return nil, err
	}
	item, err := p.parseTypeMemberItem()
	if err != nil {
		return nil, err
	}
	if !p.curIs(lexer.EOF) {
		return nil, extraToken(p)
	}
	return item, nil
}

// ParseServiceMember parses a single endpoint or nested declaration,
// as found inside a service body.
func ParseServiceMember(origin string, buf []byte) (*ast.Item[ast.ServiceMember], error) {
	p, err := newParser(lexer.New(string(buf)))
	if err != nil {
		return nil, err
	}

	doc, attrs, _, start, err := p.consumeDocAndAttrs()
	if err != nil {
		return nil, err
	}

	var body ast.ServiceMember
	switch p.cur.Kind {
	case lexer.KwEnum, lexer.KwInterface, lexer.KwType, lexer.KwTuple, lexer.KwService:
		decl, err := p.parseInnerDecl()
		if err != nil {
			return nil, err
		}
		body = ast.InnerDeclServiceMember{Decl: decl}
	case lexer.Identifier:
		ep, err := p.parseEndpoint()
		if err != nil {
			return nil, err
		}
		body = ast.EndpointMember{Endpoint: ep}
	default:
		return nil, p.unexpected(lexer.Identifier)
	}

	if !p.curIs(lexer.EOF) {
		return nil, extraToken(p)
	}
	return &ast.Item[ast.ServiceMember]{Doc: doc, Attributes: attrs, Span: source.Span{Start: start, End: p.prevEnd}, Body: body}, nil
}

// ParseValue parses a single attribute-argument-shaped literal value.
func ParseValue(origin string, buf []byte) (*ast.Located[ast.Value], error) {
	p, err := newParser(lexer.New(string(buf)))
	if err != nil {
		return nil, err
	}
	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if !p.curIs(lexer.EOF) {
		return nil, extraToken(p)
	}
	return val, nil
}

// ParseType parses a single type expression.
func ParseType(origin string, buf []byte) (*ast.Type, error) {
	p, err := newParser(lexer.New(string(buf)))
	if err != nil {
		return nil, err
	}
	typ, err := p.tryParseType(0)
	if err != nil {
		return nil, err
	}
	if !p.curIs(lexer.EOF) {
		return nil, extraToken(p)
	}
	return &typ, nil
}

func extraToken(p *Parser) error {
	return &Error{
		Kind:    ErrExtraToken,
		Span:    source.Span{Start: p.cur.Start, End: p.cur.End},
		Message: "unexpected trailing input: " + p.cur.Kind.String(),
	}
}
