package parser

import (
	"testing"

	"github.com/aurora/reproto/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileFullDocument(t *testing.T) {
	input := `
use foo::bar;
use foo::baz as fb;

/// A simple enum.
enum Status as u32 {
  Good;
  Bad as 1;
  rust {{
    // generated marker
  }}
}

type User {
  id: u64;
  name: string;
  tags?: [string];
  meta: [string: string];
}

interface Shape {
  area: double;

  Circle {
    radius: double;
  }

  Square = "square";
}

service Greeter {
  greet(name: string) -> string;
  updates() -> stream string;
}
`
	file, err := ParseFile("test.reproto", []byte(input))
	require.NoError(t, err)
	require.Len(t, file.Uses, 2)
	require.Len(t, file.Decls, 4)

	assert.Equal(t, "bar", lastPart(t, file.Uses[0].Body.Package.Value))
	require.NotNil(t, file.Uses[1].Body.Alias)
	assert.Equal(t, "fb", file.Uses[1].Body.Alias.Value)

	enumDecl, ok := file.Decls[0].Body.(ast.EnumDecl)
	require.True(t, ok)
	assert.Equal(t, "Status", enumDecl.Name.Value)
	assert.Equal(t, ast.TypeUnsigned, enumDecl.Body.Ty.Value.Kind)
	require.Len(t, enumDecl.Body.Variants, 2)
	require.Len(t, enumDecl.Body.Members, 1)
	assert.Equal(t, "rust", enumDecl.Body.Members[0].Code.Value.Context.Value)
	assert.Equal(t, []string{"A simple enum."}, file.Decls[0].Doc)

	typeDecl, ok := file.Decls[1].Body.(ast.TypeDecl)
	require.True(t, ok)
	require.Len(t, typeDecl.Body.Members, 4)

	ifaceDecl, ok := file.Decls[2].Body.(ast.InterfaceDecl)
	require.True(t, ok)
	require.Len(t, ifaceDecl.Body.Members, 1)
	require.Len(t, ifaceDecl.Body.SubTypes, 2)
	assert.NotNil(t, ifaceDecl.Body.SubTypes[1].Body.Alias)

	svcDecl, ok := file.Decls[3].Body.(ast.ServiceDecl)
	require.True(t, ok)
	require.Len(t, svcDecl.Body.Members, 2)
	ep1 := svcDecl.Body.Members[0].Body.(ast.EndpointMember).Endpoint
	assert.False(t, ep1.Response.Value.Streaming)
	ep2 := svcDecl.Body.Members[1].Body.(ast.EndpointMember).Endpoint
	assert.True(t, ep2.Response.Value.Streaming)
}

func lastPart(t *testing.T, pkg ast.Package) string {
	t.Helper()
	require.NotEmpty(t, pkg.Parts)
	return pkg.Parts[len(pkg.Parts)-1].Value
}

func TestParseFileSpanInvariants(t *testing.T) {
	input := `type Foo {
  bar: string;
}`
	file, err := ParseFile("test.reproto", []byte(input))
	require.NoError(t, err)
	require.Len(t, file.Decls, 1)

	item := file.Decls[0]
	typeDecl := item.Body.(ast.TypeDecl)
	for _, m := range typeDecl.Body.Members {
		if !item.Span.Contains(m.Span) {
			t.Errorf("decl span %v does not contain member span %v", item.Span, m.Span)
		}
	}
}

func TestParseUsePackageRecoveryContinuesParsing(t *testing.T) {
	input := `
use ;
type Foo {
  bar: string;
}
`
	file, err := ParseFile("test.reproto", []byte(input))
	require.NoError(t, err, "a malformed use package must recover, not abort")
	require.Len(t, file.Uses, 1)
	assert.True(t, file.Uses[0].Body.Package.Value.Error)

	require.Len(t, file.Decls, 1)
	typeDecl, ok := file.Decls[0].Body.(ast.TypeDecl)
	require.True(t, ok)
	assert.Equal(t, "Foo", typeDecl.Name.Value)
}

func TestParseFieldTypeRecoveryContinuesEnclosingRecord(t *testing.T) {
	input := `type Foo {
  bad: ???;
  good: string;
}`
	file, err := ParseFile("test.reproto", []byte(input))
	require.NoError(t, err, "a malformed field type must recover, not abort")
	typeDecl := file.Decls[0].Body.(ast.TypeDecl)
	require.Len(t, typeDecl.Body.Members, 2)

	bad := typeDecl.Body.Members[0].Body.(ast.FieldMember).Field
	assert.Equal(t, ast.TypeError, bad.Type.Kind)

	good := typeDecl.Body.Members[1].Body.(ast.FieldMember).Field
	assert.Equal(t, ast.TypeString, good.Type.Kind)
}

func TestParseFileUnexpectedTokenAborts(t *testing.T) {
	_, err := ParseFile("test.reproto", []byte("type 123 {}"))
	require.Error(t, err)
	_, ok := err.(*Error)
	require.True(t, ok)
}

func TestParseTypeArrayAndMap(t *testing.T) {
	arr, err := ParseType("t", []byte("[string]"))
	require.NoError(t, err)
	assert.Equal(t, ast.TypeArray, arr.Kind)
	assert.Equal(t, ast.TypeString, arr.Inner.Kind)

	m, err := ParseType("t", []byte("[string: u32]"))
	require.NoError(t, err)
	assert.Equal(t, ast.TypeMap, m.Kind)
	assert.Equal(t, ast.TypeString, m.Key.Kind)
	assert.Equal(t, ast.TypeUnsigned, m.Value.Kind)
	assert.Equal(t, 32, m.Value.Size)
}

func TestParseValueArrayWithTrailingComma(t *testing.T) {
	val, err := ParseValue("t", []byte(`(1, 2, 3,)`))
	require.NoError(t, err)
	require.Equal(t, ast.ValueArray, val.Value.Kind)
	require.Len(t, val.Value.Array, 3)
}

func TestParseValueString(t *testing.T) {
	val, err := ParseValue("t", []byte(`"hello"`))
	require.NoError(t, err)
	assert.Equal(t, ast.ValueString, val.Value.Kind)
	assert.Equal(t, "hello", val.Value.Str)
}

func TestParseTypeMemberEntryPoint(t *testing.T) {
	item, err := ParseTypeMember("t", []byte("name: string;"))
	require.NoError(t, err)
	field, ok := item.Body.(ast.FieldMember)
	require.True(t, ok)
	assert.Equal(t, "name", field.Field.Name.Value)
}

func TestParseTypeMemberEntryPointParsesCodeMember(t *testing.T) {
	item, err := ParseTypeMember("t", []byte("go {{\n  Validate() error\n}}"))
	require.NoError(t, err)
	code, ok := item.Body.(ast.CodeMember)
	require.True(t, ok)
	assert.Equal(t, "go", code.Code.Value.Context.Value)
	assert.Equal(t, "Validate() error", code.Code.Value.Content)
}

func TestParseTypeMemberEntryPointRejectsTrailingInput(t *testing.T) {
	_, err := ParseTypeMember("t", []byte("name: string; extra"))
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrExtraToken, perr.Kind)
}

func TestParseServiceMemberEntryPoint(t *testing.T) {
	item, err := ParseServiceMember("t", []byte("greet(name: string) -> string;"))
	require.NoError(t, err)
	ep, ok := item.Body.(ast.EndpointMember)
	require.True(t, ok)
	assert.Equal(t, "greet", ep.Endpoint.Name.Value)
	require.Len(t, ep.Endpoint.Arguments, 1)
	require.NotNil(t, ep.Endpoint.Response)
}

func TestParseAttributeAttachesToFollowingDecl(t *testing.T) {
	input := `#[deprecated]
type Foo {
  bar: string;
}`
	file, err := ParseFile("t", []byte(input))
	require.NoError(t, err)
	require.Len(t, file.Decls[0].Attributes, 1)
	assert.Equal(t, "deprecated", file.Decls[0].Attributes[0].Name.Value)
}

func TestParseFileRejectsTrailingDocCommentWithNoItem(t *testing.T) {
	_, err := ParseFile("t", []byte("/// dangling\n"))
	require.Error(t, err)
}

// TestParseEnumUsesAsKeywordForTyAndVariantArgument exercises spec.md
// §8 Scenario C's literal ground-truth input verbatim.
func TestParseEnumUsesAsKeywordForTyAndVariantArgument(t *testing.T) {
	file, err := ParseFile("t", []byte(`enum E as string { A as "a"; B; }`))
	require.NoError(t, err)
	require.Len(t, file.Decls, 1)

	enumDecl, ok := file.Decls[0].Body.(ast.EnumDecl)
	require.True(t, ok)
	assert.Equal(t, "E", enumDecl.Name.Value)
	assert.Equal(t, ast.TypeString, enumDecl.Body.Ty.Value.Kind)
	require.Len(t, enumDecl.Body.Variants, 2)

	a := enumDecl.Body.Variants[0].Body
	assert.Equal(t, "A", a.Name.Value)
	require.NotNil(t, a.Argument)
	assert.Equal(t, ast.ValueString, a.Argument.Value.Kind)
	assert.Equal(t, "a", a.Argument.Value.Str)

	b := enumDecl.Body.Variants[1].Body
	assert.Equal(t, "B", b.Name.Value)
	assert.Nil(t, b.Argument)
}

// TestParseServiceStreamingResponseWithBareNameIsAbsolute exercises
// spec.md §8 Scenario D: a bare, unprefixed response type name resolves
// to Name::Absolute{Prefix: nil}, not Name::Relative.
func TestParseServiceStreamingResponseWithBareNameIsAbsolute(t *testing.T) {
	file, err := ParseFile("t", []byte(`service S { ping() -> stream Foo as "Ping"; }`))
	require.NoError(t, err)

	svcDecl, ok := file.Decls[0].Body.(ast.ServiceDecl)
	require.True(t, ok)
	ep := svcDecl.Body.Members[0].Body.(ast.EndpointMember).Endpoint
	assert.Equal(t, "ping", ep.Name.Value)
	require.Empty(t, ep.Arguments)
	require.NotNil(t, ep.Alias)
	assert.Equal(t, "Ping", *ep.Alias)

	require.NotNil(t, ep.Response)
	assert.True(t, ep.Response.Value.Streaming)
	respType := ep.Response.Value.Type
	require.NotNil(t, respType.Name)
	assert.Equal(t, ast.NameAbsolute, respType.Name.Kind)
	assert.Nil(t, respType.Name.Prefix)
	require.Len(t, respType.Name.Parts, 1)
	assert.Equal(t, "Foo", respType.Name.Parts[0].Value)
}

// TestParseFieldTypeWithPackagePrefixedName covers `foo::Bar`-shaped
// type references reached through a `use ... as foo;` alias.
func TestParseFieldTypeWithPackagePrefixedName(t *testing.T) {
	typ, err := ParseType("t", []byte("fb::SomeType"))
	require.NoError(t, err)
	require.Equal(t, ast.TypeName, typ.Kind)
	require.NotNil(t, typ.Name)
	assert.Equal(t, ast.NameAbsolute, typ.Name.Kind)
	require.NotNil(t, typ.Name.Prefix)
	assert.Equal(t, "fb", typ.Name.Prefix.Value)
	require.Len(t, typ.Name.Parts, 1)
	assert.Equal(t, "SomeType", typ.Name.Parts[0].Value)
}

// TestParseTypeLeadingDoubleColonIsRelative covers the one shape
// Name::Absolute cannot express: a leading `::` with no prefix
// identifier before it.
func TestParseTypeLeadingDoubleColonIsRelative(t *testing.T) {
	typ, err := ParseType("t", []byte("::Bar::Baz"))
	require.NoError(t, err)
	require.NotNil(t, typ.Name)
	assert.Equal(t, ast.NameRelative, typ.Name.Kind)
	assert.Nil(t, typ.Name.Prefix)
	require.Len(t, typ.Name.Parts, 2)
	assert.Equal(t, "Bar", typ.Name.Parts[0].Value)
	assert.Equal(t, "Baz", typ.Name.Parts[1].Value)
}

func TestParseFileAttributeGoesToFileNotFirstItem(t *testing.T) {
	input := `#![generated]
#[deprecated]
type Foo {
  bar: string;
}`
	file, err := ParseFile("t", []byte(input))
	require.NoError(t, err)

	require.Len(t, file.Attributes, 1)
	assert.Equal(t, "generated", file.Attributes[0].Name.Value)

	require.Len(t, file.Decls[0].Attributes, 1)
	assert.Equal(t, "deprecated", file.Decls[0].Attributes[0].Name.Value)
}

func TestParseUseRecordsEndlSpanWhenTerminated(t *testing.T) {
	file, err := ParseFile("t", []byte("use foo::bar;\n"))
	require.NoError(t, err)
	require.Len(t, file.Uses, 1)
	require.NotNil(t, file.Uses[0].Body.Endl)
	assert.Equal(t, 12, file.Uses[0].Body.Endl.Start)
	assert.Equal(t, 13, file.Uses[0].Body.Endl.End)
}

func TestParseUseEndlNilWhenUnterminated(t *testing.T) {
	input := "use foo::bar\ntype Foo {\n  bar: string;\n}"
	file, err := ParseFile("t", []byte(input))
	require.NoError(t, err)
	require.Len(t, file.Uses, 1)
	assert.Nil(t, file.Uses[0].Body.Endl)
}
