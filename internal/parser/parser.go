// Package parser turns a token stream from internal/lexer into an
// internal/ast tree using a hand-written recursive-descent parser with
// one token of lookahead.
package parser

import (
	"errors"

	"github.com/aurora/reproto/internal/ast"
	"github.com/aurora/reproto/internal/lexer"
	"github.com/aurora/reproto/internal/source"
)

// Parser holds a two-token window (cur/peek) over a Lexer.
type Parser struct {
	lex  *lexer.Lexer
	cur  lexer.Token
	peek lexer.Token

	// prevEnd is the End byte offset of the token most recently
	// consumed by advance. Productions use it right after finishing a
	// sub-parse to close out the span of whatever they just built.
	prevEnd int

	declDepth int
}

func newParser(l *lexer.Lexer) (*Parser, error) {
	p := &Parser{lex: l}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.prevEnd = p.cur.End
	p.cur = p.peek
	tok, err := p.lex.Next()
	if err != nil {
		return wrapLexError(err)
	}
	p.peek = tok
	return nil
}

func (p *Parser) curIs(k lexer.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k lexer.Kind) bool { return p.peek.Kind == k }

func (p *Parser) expect(k lexer.Kind) (lexer.Token, error) {
	if p.cur.Kind != k {
		return lexer.Token{}, p.unexpected(k)
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return lexer.Token{}, err
	}
	return tok, nil
}

func (p *Parser) unexpected(want lexer.Kind) error {
	span := source.Span{Start: p.cur.Start, End: p.cur.End}
	if p.cur.Kind == lexer.EOF {
		return &Error{Kind: ErrUnrecognisedEOF, Span: span, Message: "unexpected end of input, expected " + want.String()}
	}
	return &Error{Kind: ErrUnexpected, Span: span, Message: "unexpected " + p.cur.Kind.String() + ", expected " + want.String()}
}

// syncTo advances past tokens until one of kinds (or EOF) is current.
// Used by the two recovery productions to resume parsing at a sane
// boundary after swallowing a local error.
func (p *Parser) syncTo(kinds ...lexer.Kind) {
	for {
		if p.curIs(lexer.EOF) {
			return
		}
		for _, k := range kinds {
			if p.curIs(k) {
				return
			}
		}
		if err := p.advance(); err != nil {
			return
		}
	}
}

// consumeDocAndAttrs consumes an optional leading doc comment and any
// number of attributes, returning them plus the byte offset of the
// earliest token consumed (the item's eventual Span.Start). Bang
// (`#![...]`) attributes are split into fileAttrs rather than attrs;
// only parseFile's top-level loop has anywhere to put them.
func (p *Parser) consumeDocAndAttrs() (doc []string, attrs []ast.Attribute, fileAttrs []ast.Attribute, start int, err error) {
	start = p.cur.Start

	if p.curIs(lexer.DocComment) {
		doc = p.cur.Lines
		if err := p.advance(); err != nil {
			return nil, nil, nil, 0, err
		}
	}

	for p.curIs(lexer.Hash) {
		attr, bang, err := p.parseAttribute()
		if err != nil {
			return nil, nil, nil, 0, err
		}
		if bang {
			fileAttrs = append(fileAttrs, *attr)
		} else {
			attrs = append(attrs, *attr)
		}
	}

	return doc, attrs, fileAttrs, start, nil
}

// parseAttribute parses one `#[id(...)]` or `#![id(...)]` annotation,
// reporting which form it was: bang is true for the file-level `#!`
// spelling.
func (p *Parser) parseAttribute() (attr *ast.Attribute, bang bool, err error) {
	if _, err := p.expect(lexer.Hash); err != nil {
		return nil, false, err
	}
	if p.curIs(lexer.Bang) {
		bang = true
		if err := p.advance(); err != nil {
			return nil, false, err
		}
	}
	if _, err := p.expect(lexer.LBracket); err != nil {
		return nil, false, err
	}
	nameTok, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, false, err
	}
	name := ast.Loc(nameTok.Text, source.Span{Start: nameTok.Start, End: nameTok.End})

	var items []ast.AttributeItem
	if p.curIs(lexer.LParen) {
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		for !p.curIs(lexer.RParen) {
			item, err := p.parseAttributeItem()
			if err != nil {
				return nil, false, err
			}
			items = append(items, *item)
			if p.curIs(lexer.Comma) {
				if err := p.advance(); err != nil {
					return nil, false, err
				}
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, false, err
		}
	}
	if _, err := p.expect(lexer.RBracket); err != nil {
		return nil, false, err
	}
	return &ast.Attribute{Name: name, Items: items}, bang, nil
}

func (p *Parser) parseAttributeItem() (*ast.AttributeItem, error) {
	if p.curIs(lexer.Identifier) && p.peekIs(lexer.Equals) {
		keyTok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		key := ast.Loc(keyTok.Text, source.Span{Start: keyTok.Start, End: keyTok.End})
		return &ast.AttributeItem{Key: &key, Value: *val}, nil
	}
	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &ast.AttributeItem{Value: *val}, nil
}

func (p *Parser) parseValue() (*ast.Located[ast.Value], error) {
	start := p.cur.Start
	switch p.cur.Kind {
	case lexer.QuotedString:
		text, end := p.cur.Text, p.cur.End
		if err := p.advance(); err != nil {
			return nil, err
		}
		span := source.Span{Start: start, End: end}
		return &ast.Located[ast.Value]{Value: ast.Value{Kind: ast.ValueString, Span: span, Str: text}, Span: span}, nil

	case lexer.Number:
		text, end := p.cur.Text, p.cur.End
		if err := p.advance(); err != nil {
			return nil, err
		}
		span := source.Span{Start: start, End: end}
		return &ast.Located[ast.Value]{Value: ast.Value{Kind: ast.ValueNumber, Span: span, Num: ast.ParseRpNumber(text)}, Span: span}, nil

	case lexer.Identifier:
		if p.peekIs(lexer.DoubleColon) {
			name, err := p.parseName()
			if err != nil {
				return nil, err
			}
			return &ast.Located[ast.Value]{Value: ast.Value{Kind: ast.ValueName, Span: name.Span, Name: name.Value}, Span: name.Span}, nil
		}
		text, end := p.cur.Text, p.cur.End
		if err := p.advance(); err != nil {
			return nil, err
		}
		span := source.Span{Start: start, End: end}
		return &ast.Located[ast.Value]{Value: ast.Value{Kind: ast.ValueIdentifier, Span: span, Identifier: text}, Span: span}, nil

	case lexer.TypeIdentifier, lexer.DoubleColon:
		name, err := p.parseName()
		if err != nil {
			return nil, err
		}
		return &ast.Located[ast.Value]{Value: ast.Value{Kind: ast.ValueName, Span: name.Span, Name: name.Value}, Span: name.Span}, nil

	case lexer.LParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		var items []ast.Located[ast.Value]
		for !p.curIs(lexer.RParen) {
			item, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			items = append(items, *item)
			if p.curIs(lexer.Comma) {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
		closeTok, err := p.expect(lexer.RParen)
		if err != nil {
			return nil, err
		}
		span := source.Span{Start: start, End: closeTok.End}
		return &ast.Located[ast.Value]{Value: ast.Value{Kind: ast.ValueArray, Span: span, Array: items}, Span: span}, nil

	default:
		return nil, p.unexpected(lexer.QuotedString)
	}
}

// parseName parses a (possibly package-qualified) type reference.
// `foo::Bar` is Absolute{Prefix: Some("foo")}; a bare `Bar` is
// Absolute{Prefix: None}; a leading `::` with no prefix identifier,
// `::Bar`, is Relative.
func (p *Parser) parseName() (*ast.Located[ast.Name], error) {
	start := p.cur.Start

	var prefix *ast.Located[string]
	kind := ast.NameAbsolute
	if p.curIs(lexer.Identifier) {
		prefixTok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.DoubleColon); err != nil {
			return nil, err
		}
		pfx := ast.Loc(prefixTok.Text, source.Span{Start: prefixTok.Start, End: prefixTok.End})
		prefix = &pfx
	} else if p.curIs(lexer.DoubleColon) {
		kind = ast.NameRelative
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	firstTok, err := p.expect(lexer.TypeIdentifier)
	if err != nil {
		return nil, err
	}
	parts := []ast.Located[string]{ast.Loc(firstTok.Text, source.Span{Start: firstTok.Start, End: firstTok.End})}
	end := firstTok.End

	for p.curIs(lexer.DoubleColon) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		partTok, err := p.expect(lexer.TypeIdentifier)
		if err != nil {
			return nil, err
		}
		parts = append(parts, ast.Loc(partTok.Text, source.Span{Start: partTok.Start, End: partTok.End}))
		end = partTok.End
	}

	span := source.Span{Start: start, End: end}
	return &ast.Located[ast.Name]{Value: ast.Name{Kind: kind, Prefix: prefix, Parts: parts}, Span: span}, nil
}

var primitiveTypes = map[lexer.Kind]ast.TypeKind{
	lexer.KwAny:      ast.TypeAny,
	lexer.KwFloat:    ast.TypeFloat,
	lexer.KwDouble:   ast.TypeDouble,
	lexer.KwBoolean:  ast.TypeBoolean,
	lexer.KwString:   ast.TypeString,
	lexer.KwDatetime: ast.TypeDateTime,
	lexer.KwBytes:    ast.TypeBytes,
}

// parseTypeRecovering parses a Type, turning the designated local
// failure (an ill-formed type shape) into an ast.Type{Kind: TypeError}
// sentinel instead of aborting the whole parse. A lex-level error
// underneath is never recoverable here.
func (p *Parser) parseTypeRecovering() (ast.Type, error) {
	typ, err := p.tryParseType(0)
	if err == nil {
		return typ, nil
	}
	var perr *Error
	if !errors.As(err, &perr) || perr.Lex != nil {
		return ast.Type{}, err
	}
	span := perr.Span
	p.syncTo(lexer.Semicolon, lexer.RBrace, lexer.Comma, lexer.RParen)
	return ast.Type{Kind: ast.TypeError, Span: span}, nil
}

func (p *Parser) tryParseType(depth int) (ast.Type, error) {
	if depth > ast.MaxNestingDepth {
		span := source.Span{Start: p.cur.Start, End: p.cur.End}
		return ast.Type{}, &Error{Kind: ErrUser, Span: span, Message: "type nesting exceeds maximum depth"}
	}

	start := p.cur.Start

	if kind, ok := primitiveTypes[p.cur.Kind]; ok {
		end := p.cur.End
		if err := p.advance(); err != nil {
			return ast.Type{}, err
		}
		return ast.Type{Kind: kind, Span: source.Span{Start: start, End: end}}, nil
	}

	switch p.cur.Kind {
	case lexer.KwU32, lexer.KwU64, lexer.KwI32, lexer.KwI64:
		size := 32
		if p.cur.Kind == lexer.KwU64 || p.cur.Kind == lexer.KwI64 {
			size = 64
		}
		kind := ast.TypeUnsigned
		if p.cur.Kind == lexer.KwI32 || p.cur.Kind == lexer.KwI64 {
			kind = ast.TypeSigned
		}
		end := p.cur.End
		if err := p.advance(); err != nil {
			return ast.Type{}, err
		}
		return ast.Type{Kind: kind, Size: size, Span: source.Span{Start: start, End: end}}, nil

	case lexer.TypeIdentifier, lexer.DoubleColon:
		name, err := p.parseName()
		if err != nil {
			return ast.Type{}, err
		}
		return ast.Type{Kind: ast.TypeName, Span: name.Span, Name: &name.Value}, nil

	case lexer.Identifier:
		if !p.peekIs(lexer.DoubleColon) {
			return ast.Type{}, p.unexpected(lexer.TypeIdentifier)
		}
		name, err := p.parseName()
		if err != nil {
			return ast.Type{}, err
		}
		return ast.Type{Kind: ast.TypeName, Span: name.Span, Name: &name.Value}, nil

	case lexer.LBracket:
		if err := p.advance(); err != nil {
			return ast.Type{}, err
		}
		first, err := p.tryParseType(depth + 1)
		if err != nil {
			return ast.Type{}, err
		}
		if p.curIs(lexer.Colon) {
			if err := p.advance(); err != nil {
				return ast.Type{}, err
			}
			value, err := p.tryParseType(depth + 1)
			if err != nil {
				return ast.Type{}, err
			}
			closeTok, err := p.expect(lexer.RBracket)
			if err != nil {
				return ast.Type{}, err
			}
			return ast.Type{Kind: ast.TypeMap, Span: source.Span{Start: start, End: closeTok.End}, Key: &first, Value: &value}, nil
		}
		closeTok, err := p.expect(lexer.RBracket)
		if err != nil {
			return ast.Type{}, err
		}
		return ast.Type{Kind: ast.TypeArray, Span: source.Span{Start: start, End: closeTok.End}, Inner: &first}, nil

	default:
		return ast.Type{}, p.unexpected(lexer.TypeIdentifier)
	}
}

func (p *Parser) parseField() (ast.Field, error) {
	nameTok, err := p.expect(lexer.Identifier)
	if err != nil {
		return ast.Field{}, err
	}
	name := ast.Loc(nameTok.Text, source.Span{Start: nameTok.Start, End: nameTok.End})

	optional := false
	if p.curIs(lexer.Question) {
		optional = true
		if err := p.advance(); err != nil {
			return ast.Field{}, err
		}
	}
	if _, err := p.expect(lexer.Colon); err != nil {
		return ast.Field{}, err
	}

	typ, err := p.parseTypeRecovering()
	if err != nil {
		return ast.Field{}, err
	}

	var alias *string
	if p.curIs(lexer.KwAs) {
		if err := p.advance(); err != nil {
			return ast.Field{}, err
		}
		aliasTok, err := p.expect(lexer.Identifier)
		if err != nil {
			return ast.Field{}, err
		}
		alias = &aliasTok.Text
	}

	terminated := false
	if p.curIs(lexer.Semicolon) {
		terminated = true
		if err := p.advance(); err != nil {
			return ast.Field{}, err
		}
	}

	return ast.Field{Name: name, Optional: optional, Type: typ, Alias: alias, Terminated: terminated}, nil
}

// parseCode parses a `{{ ... }}` code block: a context identifier
// naming what the block is for, then the raw content between the
// CodeOpen/CodeClose sentinels, then an optional trailing ';'. attrs
// are the attributes already consumed ahead of it by the caller.
func (p *Parser) parseCode(attrs []ast.Attribute, start int) (ast.Code, error) {
	ctxTok, err := p.expect(lexer.Identifier)
	if err != nil {
		return ast.Code{}, err
	}
	context := ast.Loc(ctxTok.Text, source.Span{Start: ctxTok.Start, End: ctxTok.End})

	if _, err := p.expect(lexer.CodeOpen); err != nil {
		return ast.Code{}, err
	}
	var raw string
	if p.curIs(lexer.CodeContent) {
		raw = p.cur.Text
		if err := p.advance(); err != nil {
			return ast.Code{}, err
		}
	}
	if _, err := p.expect(lexer.CodeClose); err != nil {
		return ast.Code{}, err
	}
	if p.curIs(lexer.Semicolon) {
		if err := p.advance(); err != nil {
			return ast.Code{}, err
		}
	}

	return ast.Code{
		Attributes: attrs,
		Context:    context,
		Content:    ast.NormalizeCode(raw),
		Span:       source.Span{Start: start, End: p.prevEnd},
	}, nil
}

// parseTypeMemberBody parses the body of a TypeMember whose leading
// doc comment and attributes the caller already consumed. A Code
// block is an identifier immediately followed by CodeOpen; an
// ordinary field is an identifier followed by '?' or ':'.
func (p *Parser) parseTypeMemberBody(attrs []ast.Attribute, start int) (ast.TypeMember, error) {
	switch p.cur.Kind {
	case lexer.KwEnum, lexer.KwInterface, lexer.KwType, lexer.KwTuple, lexer.KwService:
		decl, err := p.parseInnerDecl()
		if err != nil {
			return nil, err
		}
		return ast.InnerDeclMember{Decl: decl}, nil
	case lexer.Identifier:
		if p.peekIs(lexer.CodeOpen) {
			code, err := p.parseCode(attrs, start)
			if err != nil {
				return nil, err
			}
			return ast.CodeMember{Code: ast.Loc(code, code.Span)}, nil
		}
		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		return ast.FieldMember{Field: field}, nil
	default:
		return nil, p.unexpected(lexer.Identifier)
	}
}

func (p *Parser) parseTypeMemberItem() (*ast.Item[ast.TypeMember], error) {
	doc, attrs, _, start, err := p.consumeDocAndAttrs()
	if err != nil {
		return nil, err
	}
	body, err := p.parseTypeMemberBody(attrs, start)
	if err != nil {
		return nil, err
	}
	return &ast.Item[ast.TypeMember]{Doc: doc, Attributes: attrs, Span: source.Span{Start: start, End: p.prevEnd}, Body: body}, nil
}

func (p *Parser) parseMemberList() ([]ast.Item[ast.TypeMember], error) {
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	var members []ast.Item[ast.TypeMember]
	for !p.curIs(lexer.RBrace) {
		if p.curIs(lexer.EOF) {
			return nil, p.unexpected(lexer.RBrace)
		}
		m, err := p.parseTypeMemberItem()
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return members, nil
}

func (p *Parser) parseTypeBody() (ast.TypeBody, error) {
	members, err := p.parseMemberList()
	if err != nil {
		return ast.TypeBody{}, err
	}
	return ast.TypeBody{Members: members}, nil
}

func (p *Parser) parseTupleBody() (ast.TupleBody, error) {
	members, err := p.parseMemberList()
	if err != nil {
		return ast.TupleBody{}, err
	}
	return ast.TupleBody{Members: members}, nil
}

func (p *Parser) parseInterfaceBody() (ast.InterfaceBody, error) {
	if _, err := p.expect(lexer.LBrace); err != nil {
		return ast.InterfaceBody{}, err
	}
	var body ast.InterfaceBody
	for !p.curIs(lexer.RBrace) {
		if p.curIs(lexer.EOF) {
			return ast.InterfaceBody{}, p.unexpected(lexer.RBrace)
		}
		doc, attrs, _, start, err := p.consumeDocAndAttrs()
		if err != nil {
			return ast.InterfaceBody{}, err
		}

		// A sub-type always starts with a TypeIdentifier; an ordinary
		// member starts with a lowercase field name or a nested
		// declaration keyword.
		if p.curIs(lexer.TypeIdentifier) {
			st, err := p.parseSubType()
			if err != nil {
				return ast.InterfaceBody{}, err
			}
			body.SubTypes = append(body.SubTypes, ast.Item[ast.SubType]{
				Doc: doc, Attributes: attrs, Span: source.Span{Start: start, End: p.prevEnd}, Body: st,
			})
			continue
		}

		memberBody, err := p.parseTypeMemberBody(attrs, start)
		if err != nil {
			return ast.InterfaceBody{}, err
		}
		body.Members = append(body.Members, ast.Item[ast.TypeMember]{
			Doc: doc, Attributes: attrs, Span: source.Span{Start: start, End: p.prevEnd}, Body: memberBody,
		})
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return ast.InterfaceBody{}, err
	}
	return body, nil
}

func (p *Parser) parseSubType() (ast.SubType, error) {
	nameTok, err := p.expect(lexer.TypeIdentifier)
	if err != nil {
		return ast.SubType{}, err
	}
	name := ast.Loc(nameTok.Text, source.Span{Start: nameTok.Start, End: nameTok.End})

	var alias *ast.Located[ast.Value]
	if p.curIs(lexer.Equals) {
		if err := p.advance(); err != nil {
			return ast.SubType{}, err
		}
		val, err := p.parseValue()
		if err != nil {
			return ast.SubType{}, err
		}
		alias = val
	}

	members := []ast.Item[ast.TypeMember]{}
	if p.curIs(lexer.LBrace) {
		if err := p.advance(); err != nil {
			return ast.SubType{}, err
		}
		for !p.curIs(lexer.RBrace) {
			if p.curIs(lexer.EOF) {
				return ast.SubType{}, p.unexpected(lexer.RBrace)
			}
			m, err := p.parseTypeMemberItem()
			if err != nil {
				return ast.SubType{}, err
			}
			members = append(members, *m)
		}
		if _, err := p.expect(lexer.RBrace); err != nil {
			return ast.SubType{}, err
		}
	} else if _, err := p.expect(lexer.Semicolon); err != nil {
		return ast.SubType{}, err
	}

	return ast.SubType{Name: name, Alias: alias, Members: members}, nil
}

// parseEnumBody parses an enum's `{ ... }` body, which interleaves
// Item<EnumVariant> entries (TypeIdentifier-led) with bare EnumMember
// code blocks (identifier-led) in declaration order.
func (p *Parser) parseEnumBody(ty ast.Located[ast.Type]) (ast.EnumBody, error) {
	if _, err := p.expect(lexer.LBrace); err != nil {
		return ast.EnumBody{}, err
	}
	body := ast.EnumBody{Ty: ty}
	for !p.curIs(lexer.RBrace) {
		if p.curIs(lexer.EOF) {
			return ast.EnumBody{}, p.unexpected(lexer.RBrace)
		}
		doc, attrs, _, start, err := p.consumeDocAndAttrs()
		if err != nil {
			return ast.EnumBody{}, err
		}
		if p.curIs(lexer.TypeIdentifier) {
			v, err := p.parseEnumVariant(doc, attrs, start)
			if err != nil {
				return ast.EnumBody{}, err
			}
			body.Variants = append(body.Variants, *v)
			continue
		}
		code, err := p.parseCode(attrs, start)
		if err != nil {
			return ast.EnumBody{}, err
		}
		body.Members = append(body.Members, ast.EnumMember{Code: ast.Loc(code, code.Span)})
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return ast.EnumBody{}, err
	}
	return body, nil
}

func (p *Parser) parseEnumVariant(doc []string, attrs []ast.Attribute, start int) (*ast.Item[ast.EnumVariant], error) {
	nameTok, err := p.expect(lexer.TypeIdentifier)
	if err != nil {
		return nil, err
	}
	name := ast.Loc(nameTok.Text, source.Span{Start: nameTok.Start, End: nameTok.End})

	var argument *ast.Located[ast.Value]
	if p.curIs(lexer.KwAs) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		argument = val
	}
	if p.curIs(lexer.Semicolon) {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	return &ast.Item[ast.EnumVariant]{Doc: doc, Attributes: attrs, Span: source.Span{Start: start, End: p.prevEnd}, Body: ast.EnumVariant{Name: name, Argument: argument}}, nil
}

func (p *Parser) parseServiceBody() (ast.ServiceBody, error) {
	if _, err := p.expect(lexer.LBrace); err != nil {
		return ast.ServiceBody{}, err
	}
	var body ast.ServiceBody
	for !p.curIs(lexer.RBrace) {
		if p.curIs(lexer.EOF) {
			return ast.ServiceBody{}, p.unexpected(lexer.RBrace)
		}
		doc, attrs, _, start, err := p.consumeDocAndAttrs()
		if err != nil {
			return ast.ServiceBody{}, err
		}

		var memberBody ast.ServiceMember
		switch p.cur.Kind {
		case lexer.KwEnum, lexer.KwInterface, lexer.KwType, lexer.KwTuple, lexer.KwService:
			decl, err := p.parseInnerDecl()
			if err != nil {
				return ast.ServiceBody{}, err
			}
			memberBody = ast.InnerDeclServiceMember{Decl: decl}
		case lexer.Identifier:
			ep, err := p.parseEndpoint()
			if err != nil {
				return ast.ServiceBody{}, err
			}
			memberBody = ast.EndpointMember{Endpoint: ep}
		default:
			return ast.ServiceBody{}, p.unexpected(lexer.Identifier)
		}
		body.Members = append(body.Members, ast.Item[ast.ServiceMember]{
			Doc: doc, Attributes: attrs, Span: source.Span{Start: start, End: p.prevEnd}, Body: memberBody,
		})
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return ast.ServiceBody{}, err
	}
	return body, nil
}

func (p *Parser) parseEndpoint() (ast.Endpoint, error) {
	nameTok, err := p.expect(lexer.Identifier)
	if err != nil {
		return ast.Endpoint{}, err
	}
	name := ast.Loc(nameTok.Text, source.Span{Start: nameTok.Start, End: nameTok.End})

	if _, err := p.expect(lexer.LParen); err != nil {
		return ast.Endpoint{}, err
	}
	var args []ast.EndpointArgument
	for !p.curIs(lexer.RParen) {
		argNameTok, err := p.expect(lexer.Identifier)
		if err != nil {
			return ast.Endpoint{}, err
		}
		if _, err := p.expect(lexer.Colon); err != nil {
			return ast.Endpoint{}, err
		}
		chStart := p.cur.Start
		ch, err := p.parseChannel()
		if err != nil {
			return ast.Endpoint{}, err
		}
		args = append(args, ast.EndpointArgument{
			Name:    ast.Loc(argNameTok.Text, source.Span{Start: argNameTok.Start, End: argNameTok.End}),
			Channel: ast.Loc(ch, source.Span{Start: chStart, End: p.prevEnd}),
		})
		if p.curIs(lexer.Comma) {
			if err := p.advance(); err != nil {
				return ast.Endpoint{}, err
			}
			if p.curIs(lexer.RParen) {
				return ast.Endpoint{}, p.unexpected(lexer.Identifier)
			}
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return ast.Endpoint{}, err
	}

	var response *ast.Located[ast.Channel]
	if p.curIs(lexer.Arrow) {
		if err := p.advance(); err != nil {
			return ast.Endpoint{}, err
		}
		respStart := p.cur.Start
		ch, err := p.parseChannel()
		if err != nil {
			return ast.Endpoint{}, err
		}
		loc := ast.Loc(ch, source.Span{Start: respStart, End: p.prevEnd})
		response = &loc
	}

	var alias *string
	if p.curIs(lexer.KwAs) {
		if err := p.advance(); err != nil {
			return ast.Endpoint{}, err
		}
		switch p.cur.Kind {
		case lexer.Identifier, lexer.QuotedString:
			a := p.cur.Text
			alias = &a
			if err := p.advance(); err != nil {
				return ast.Endpoint{}, err
			}
		default:
			return ast.Endpoint{}, p.unexpected(lexer.Identifier)
		}
	}

	if _, err := p.expect(lexer.Semicolon); err != nil {
		return ast.Endpoint{}, err
	}

	return ast.Endpoint{Name: name, Alias: alias, Arguments: args, Response: response}, nil
}

func (p *Parser) parseChannel() (ast.Channel, error) {
	streaming := false
	if p.curIs(lexer.KwStream) {
		streaming = true
		if err := p.advance(); err != nil {
			return ast.Channel{}, err
		}
	}
	typ, err := p.parseTypeRecovering()
	if err != nil {
		return ast.Channel{}, err
	}
	return ast.Channel{Streaming: streaming, Type: typ}, nil
}

// parseInnerDecl parses a declaration nested inside a type/interface/
// service body, enforcing ast.MaxNestingDepth against runaway/
// adversarial nesting.
func (p *Parser) parseInnerDecl() (ast.Decl, error) {
	p.declDepth++
	defer func() { p.declDepth-- }()
	if p.declDepth > ast.MaxNestingDepth {
		span := source.Span{Start: p.cur.Start, End: p.cur.End}
		return nil, &Error{Kind: ErrUser, Span: span, Message: "declaration nesting exceeds maximum depth"}
	}
	return p.parseDecl()
}

func (p *Parser) parseDecl() (ast.Decl, error) {
	switch p.cur.Kind {
	case lexer.KwEnum:
		if err := p.advance(); err != nil {
			return nil, err
		}
		nameTok, err := p.expect(lexer.TypeIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KwAs); err != nil {
			return nil, err
		}
		tyStart := p.cur.Start
		ty, err := p.parseTypeRecovering()
		if err != nil {
			return nil, err
		}
		body, err := p.parseEnumBody(ast.Loc(ty, source.Span{Start: tyStart, End: p.prevEnd}))
		if err != nil {
			return nil, err
		}
		return ast.EnumDecl{Name: ast.Loc(nameTok.Text, source.Span{Start: nameTok.Start, End: nameTok.End}), Body: body}, nil

	case lexer.KwInterface:
		if err := p.advance(); err != nil {
			return nil, err
		}
		nameTok, err := p.expect(lexer.TypeIdentifier)
		if err != nil {
			return nil, err
		}
		body, err := p.parseInterfaceBody()
		if err != nil {
			return nil, err
		}
		return ast.InterfaceDecl{Name: ast.Loc(nameTok.Text, source.Span{Start: nameTok.Start, End: nameTok.End}), Body: body}, nil

	case lexer.KwType:
		if err := p.advance(); err != nil {
			return nil, err
		}
		nameTok, err := p.expect(lexer.TypeIdentifier)
		if err != nil {
			return nil, err
		}
		body, err := p.parseTypeBody()
		if err != nil {
			return nil, err
		}
		return ast.TypeDecl{Name: ast.Loc(nameTok.Text, source.Span{Start: nameTok.Start, End: nameTok.End}), Body: body}, nil

	case lexer.KwTuple:
		if err := p.advance(); err != nil {
			return nil, err
		}
		nameTok, err := p.expect(lexer.TypeIdentifier)
		if err != nil {
			return nil, err
		}
		body, err := p.parseTupleBody()
		if err != nil {
			return nil, err
		}
		return ast.TupleDecl{Name: ast.Loc(nameTok.Text, source.Span{Start: nameTok.Start, End: nameTok.End}), Body: body}, nil

	case lexer.KwService:
		if err := p.advance(); err != nil {
			return nil, err
		}
		nameTok, err := p.expect(lexer.TypeIdentifier)
		if err != nil {
			return nil, err
		}
		body, err := p.parseServiceBody()
		if err != nil {
			return nil, err
		}
		return ast.ServiceDecl{Name: ast.Loc(nameTok.Text, source.Span{Start: nameTok.Start, End: nameTok.End}), Body: body}, nil

	default:
		return nil, p.unexpected(lexer.KwType)
	}
}

func (p *Parser) parseDeclItem(doc []string, attrs []ast.Attribute, start int) (*ast.Item[ast.Decl], error) {
	decl, err := p.parseDecl()
	if err != nil {
		return nil, err
	}
	return &ast.Item[ast.Decl]{Doc: doc, Attributes: attrs, Span: source.Span{Start: start, End: p.prevEnd}, Body: decl}, nil
}

func (p *Parser) parsePackageRecovering() (*ast.Located[ast.Package], error) {
	pkg, err := p.tryParsePackage()
	if err == nil {
		return pkg, nil
	}
	var perr *Error
	if !errors.As(err, &perr) || perr.Lex != nil {
		return nil, err
	}
	span := perr.Span
	p.syncTo(lexer.KwAs, lexer.Semicolon, lexer.KwUse, lexer.KwEnum, lexer.KwInterface, lexer.KwType, lexer.KwTuple, lexer.KwService)
	return &ast.Located[ast.Package]{Value: ast.Package{Error: true}, Span: span}, nil
}

func (p *Parser) tryParsePackage() (*ast.Located[ast.Package], error) {
	start := p.cur.Start
	firstTok, err := p.expect(lexer.Identifier)
	if err != nil {
		return nil, err
	}
	parts := []ast.Located[string]{ast.Loc(firstTok.Text, source.Span{Start: firstTok.Start, End: firstTok.End})}
	end := firstTok.End

	for p.curIs(lexer.DoubleColon) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		partTok, err := p.expect(lexer.Identifier)
		if err != nil {
			return nil, err
		}
		parts = append(parts, ast.Loc(partTok.Text, source.Span{Start: partTok.Start, End: partTok.End}))
		end = partTok.End
	}

	return &ast.Located[ast.Package]{Value: ast.Package{Parts: parts}, Span: source.Span{Start: start, End: end}}, nil
}

func (p *Parser) parseUse(doc []string, attrs []ast.Attribute, start int) (*ast.Item[ast.UseDecl], error) {
	if _, err := p.expect(lexer.KwUse); err != nil {
		return nil, err
	}

	pkg, err := p.parsePackageRecovering()
	if err != nil {
		return nil, err
	}

	var rng *ast.Located[string]
	if p.curIs(lexer.QuotedString) {
		r := ast.Loc(p.cur.Text, source.Span{Start: p.cur.Start, End: p.cur.End})
		rng = &r
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	var alias *ast.Located[string]
	if p.curIs(lexer.KwAs) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		aliasTok, err := p.expect(lexer.Identifier)
		if err != nil {
			return nil, err
		}
		a := ast.Loc(aliasTok.Text, source.Span{Start: aliasTok.Start, End: aliasTok.End})
		alias = &a
	}

	var endl *source.Span
	if p.curIs(lexer.Semicolon) {
		span := source.Span{Start: p.cur.Start, End: p.cur.End}
		endl = &span
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	return &ast.Item[ast.UseDecl]{Doc: doc, Attributes: attrs, Span: source.Span{Start: start, End: p.prevEnd}, Body: ast.UseDecl{Package: *pkg, Range: rng, Alias: alias, Endl: endl}}, nil
}

func (p *Parser) parseFile() (*ast.File, error) {
	file := &ast.File{}

	if p.curIs(lexer.PackageDocComment) {
		file.PackageDoc = p.cur.Lines
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	for !p.curIs(lexer.EOF) {
		doc, attrs, fileAttrs, start, err := p.consumeDocAndAttrs()
		if err != nil {
			return nil, err
		}
		file.Attributes = append(file.Attributes, fileAttrs...)
		if p.curIs(lexer.EOF) {
			// A trailing doc comment with nothing to attach to.
			if len(doc) > 0 {
				return nil, &Error{Kind: ErrUnrecognisedEOF, Span: source.Span{Start: start, End: p.cur.Start}, Message: "doc comment has no following item"}
			}
			break
		}
		if p.curIs(lexer.KwUse) {
			item, err := p.parseUse(doc, attrs, start)
			if err != nil {
				return nil, err
			}
			file.Uses = append(file.Uses, *item)
			continue
		}
		item, err := p.parseDeclItem(doc, attrs, start)
		if err != nil {
			return nil, err
		}
		file.Decls = append(file.Decls, *item)
	}

	return file, nil
}
