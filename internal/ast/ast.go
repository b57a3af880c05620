// Package ast defines the typed tree produced by internal/parser.
package ast

import "github.com/aurora/reproto/internal/source"

// MaxNestingDepth bounds how deep Array/Map/inner-Decl nesting the
// parser accepts before it reports a parser.Error instead of recursing
// further. Adversarial input (e.g. thousands of nested `[`) would
// otherwise exhaust the goroutine stack.
var MaxNestingDepth = 64

// Located pairs a value with the byte span it was parsed from.
type Located[T any] struct {
	Value T
	Span  source.Span
}

// Loc constructs a Located value.
func Loc[T any](value T, span source.Span) Located[T] {
	return Located[T]{Value: value, Span: span}
}

// Item wraps a declaration or member body with the doc comment and
// attributes attached directly above it in source, plus the span
// covering the whole item, starting at its doc comment (or first
// attribute) when it has one.
type Item[T any] struct {
	Doc        []string
	Attributes []Attribute
	Span       source.Span
	Body       T
}

// File is the root of one parsed source file. Attributes holds the
// file-level `#![...]` annotations collected at the top of the file,
// distinct from any item's own `#[...]` attributes.
type File struct {
	PackageDoc []string
	Attributes []Attribute
	Uses       []Item[UseDecl]
	Decls      []Item[Decl]
}

// UseDecl is a `use` import line. Range is the opaque semver-style
// constraint string following the package path, if present. Endl is
// the span of the closing `;`, or nil if the line was never
// terminated — a client, e.g. a language server, can use its absence
// to detect an incomplete declaration while the user is still typing.
type UseDecl struct {
	Package Located[Package]
	Range   *Located[string]
	Alias   *Located[string]
	Endl    *source.Span
}

// Package is a `::`-separated module path, or the Error sentinel
// produced when the path after `use` cannot be parsed. Recovery skips
// ahead to the next `as`, `;`, `use` or declaration keyword; an alias
// and closing `;` found there are still recorded on the UseDecl.
type Package struct {
	Parts []Located[string]
	Error bool
}

// Decl is the closed set of top-level declaration bodies.
type Decl interface {
	declNode()
}

// EnumDecl is an `enum Name as Type { ... }` declaration.
type EnumDecl struct {
	Name Located[string]
	Body EnumBody
}

func (EnumDecl) declNode() {}

// InterfaceDecl is an `interface Name { ... }` declaration.
type InterfaceDecl struct {
	Name Located[string]
	Body InterfaceBody
}

func (InterfaceDecl) declNode() {}

// TypeDecl is a `type Name { ... }` declaration.
type TypeDecl struct {
	Name Located[string]
	Body TypeBody
}

func (TypeDecl) declNode() {}

// TupleDecl is a `tuple Name { ... }` declaration.
type TupleDecl struct {
	Name Located[string]
	Body TupleBody
}

func (TupleDecl) declNode() {}

// ServiceDecl is a `service Name { ... }` declaration.
type ServiceDecl struct {
	Name Located[string]
	Body ServiceBody
}

func (ServiceDecl) declNode() {}

// EnumBody holds an enum's underlying discriminant type, its variants,
// and any code blocks declared directly in the body (alongside its
// variants, not inside one).
type EnumBody struct {
	Ty       Located[Type]
	Variants []Item[EnumVariant]
	Members  []EnumMember
}

// EnumVariant is one member of an enum: a name and an optional
// `as value` discriminant override.
type EnumVariant struct {
	Name     Located[string]
	Argument *Located[Value]
}

// EnumMember currently has one shape: a verbatim code block declared
// alongside an enum's variants.
type EnumMember struct {
	Code Located[Code]
}

// InterfaceBody holds an interface's own members plus its named
// sub-types (the tagged-union arms).
type InterfaceBody struct {
	Members  []Item[TypeMember]
	SubTypes []Item[SubType]
}

// SubType is one arm of a tagged-union interface. A bare `;` body
// produces an empty (never nil) Members slice; `{ ... }` produces the
// parsed members. Either form may carry an `= <value>` alias.
type SubType struct {
	Name    Located[string]
	Alias   *Located[Value]
	Members []Item[TypeMember]
}

// TypeBody holds a record type's members.
type TypeBody struct {
	Members []Item[TypeMember]
}

// TupleBody holds a tuple type's members (fields addressed by
// position as well as by name).
type TupleBody struct {
	Members []Item[TypeMember]
}

// TypeMember is a field, an embedded code block, or a nested
// declaration.
type TypeMember interface {
	typeMemberNode()
}

// FieldMember is a TypeMember that declares a field.
type FieldMember struct {
	Field Field
}

func (FieldMember) typeMemberNode() {}

// CodeMember is a TypeMember that embeds a verbatim code block.
type CodeMember struct {
	Code Located[Code]
}

func (CodeMember) typeMemberNode() {}

// InnerDeclMember is a TypeMember that nests another declaration
// (e.g. a `type` or `enum` declared inside a `type` body).
type InnerDeclMember struct {
	Decl Decl
}

func (InnerDeclMember) typeMemberNode() {}

// Field is one `name: type` or `name?: type` member. Alias holds the
// text after an optional `as` rename; Terminated records whether the
// field was closed with a `;`.
type Field struct {
	Name       Located[string]
	Optional   bool
	Type       Type
	Alias      *string
	Terminated bool
}

// ServiceBody holds a service's endpoints plus its nested declarations.
type ServiceBody struct {
	Members []Item[ServiceMember]
}

// ServiceMember is either an endpoint or a nested declaration.
type ServiceMember interface {
	serviceMemberNode()
}

// EndpointMember is a ServiceMember that declares an RPC endpoint.
type EndpointMember struct {
	Endpoint Endpoint
}

func (EndpointMember) serviceMemberNode() {}

// InnerDeclServiceMember is a ServiceMember that nests another
// declaration inside a service body.
type InnerDeclServiceMember struct {
	Decl Decl
}

func (InnerDeclServiceMember) serviceMemberNode() {}

// Endpoint is one RPC method: a name, an optional alias, zero or more
// channel-typed arguments, and an optional response channel.
type Endpoint struct {
	Name      Located[string]
	Alias     *string
	Arguments []EndpointArgument
	Response  *Located[Channel]
}

// EndpointArgument is one named argument in an endpoint's parameter
// list. Its Channel, not a bare Type, since an argument may itself be
// a stream.
type EndpointArgument struct {
	Name    Located[string]
	Channel Located[Channel]
}

// Channel is one side of an endpoint: a type, optionally marked as a
// stream rather than a single value.
type Channel struct {
	Streaming bool
	Type      Type
}

// TypeKind enumerates the closed set of Type shapes.
type TypeKind int

const (
	TypeAny TypeKind = iota
	TypeFloat
	TypeDouble
	TypeSigned
	TypeUnsigned
	TypeBoolean
	TypeString
	TypeDateTime
	TypeBytes
	TypeName
	TypeArray
	TypeMap
	TypeError
)

// Type is the closed union of type expressions. Only the fields
// relevant to Kind are populated; the rest are zero.
type Type struct {
	Kind  TypeKind
	Span  source.Span
	Size  int // bit width for TypeSigned/TypeUnsigned: 32 or 64
	Name  *Name
	Inner *Type // element type for TypeArray
	Key   *Type // key type for TypeMap
	Value *Type // value type for TypeMap
}

// NameKind distinguishes an absolute `foo::Bar` or bare `Bar` reference
// from a relative `::Bar` one (a leading `::` with no prefix).
type NameKind int

const (
	NameRelative NameKind = iota
	NameAbsolute
)

// Name is a (possibly package-qualified) reference to a declared type.
// Prefix is the lowercase package alias before the first `::`, when
// present (e.g. `fb` in `fb::SomeType`); it is always nil on a
// NameRelative value.
type Name struct {
	Kind   NameKind
	Prefix *Located[string]
	Parts  []Located[string]
}

// ValueKind enumerates the closed set of Value shapes.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueIdentifier
	ValueName
	ValueArray
)

// Value is the closed union of literal value expressions used in
// attribute arguments and enum member defaults.
type Value struct {
	Kind       ValueKind
	Span       source.Span
	Str        string
	Num        RpNumber
	Identifier string
	Name       Name
	Array      []Located[Value]
}

// Attribute is a `#[name(...)]` or `#![name(...)]` annotation.
type Attribute struct {
	Name  Located[string]
	Items []AttributeItem
}

// AttributeItem is one entry in an attribute's argument list: a bare
// positional value, or a `key = value` pair.
type AttributeItem struct {
	Key   *Located[string]
	Value Located[Value]
}
