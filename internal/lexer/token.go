// Package lexer tokenizes reproto IDL source files.
package lexer

// Kind identifies the lexical class of a Token.
type Kind int

const (
	// EOF marks the end of input. It is always the last token a Lexer
	// produces for a given input.
	EOF Kind = iota

	// Structural tokens.
	LParen      // (
	RParen      // )
	LBrace      // {
	RBrace      // }
	LBracket    // [
	RBracket    // ]
	Semicolon   // ;
	Colon       // :
	Question    // ?
	Hash        // #
	Bang        // !
	Arrow       // ->
	Comma       // ,
	Dot         // .
	DoubleColon // ::
	Equals      // =
	CodeOpen    // {{
	CodeClose   // }}

	// Keywords.
	KwUse
	KwAs
	KwEnum
	KwType
	KwInterface
	KwTuple
	KwService
	KwStream
	KwAny
	KwFloat
	KwDouble
	KwU32
	KwU64
	KwI32
	KwI64
	KwBoolean
	KwString
	KwDatetime
	KwBytes

	// Value tokens.
	TypeIdentifier     // [A-Z][A-Za-z0-9_]*
	Identifier         // [a-z_][A-Za-z0-9_]*
	Number             // exact decimal lexeme, see RpNumber
	QuotedString       // decoded string literal
	CodeContent        // verbatim text between {{ and }}
	PackageDocComment  // //! lines
	DocComment         // /// lines
)

var tokenNames = map[Kind]string{
	EOF:               "EOF",
	LParen:            "(",
	RParen:            ")",
	LBrace:            "{",
	RBrace:            "}",
	LBracket:          "[",
	RBracket:          "]",
	Semicolon:         ";",
	Colon:             ":",
	Question:          "?",
	Hash:              "#",
	Bang:              "!",
	Arrow:             "->",
	Comma:             ",",
	Dot:               ".",
	DoubleColon:       "::",
	Equals:            "=",
	CodeOpen:          "{{",
	CodeClose:         "}}",
	KwUse:             "use",
	KwAs:              "as",
	KwEnum:            "enum",
	KwType:            "type",
	KwInterface:       "interface",
	KwTuple:           "tuple",
	KwService:         "service",
	KwStream:          "stream",
	KwAny:             "any",
	KwFloat:           "float",
	KwDouble:          "double",
	KwU32:             "u32",
	KwU64:             "u64",
	KwI32:             "i32",
	KwI64:             "i64",
	KwBoolean:         "boolean",
	KwString:          "string",
	KwDatetime:        "datetime",
	KwBytes:           "bytes",
	TypeIdentifier:    "type identifier",
	Identifier:        "identifier",
	Number:            "number",
	QuotedString:      "string literal",
	CodeContent:       "code content",
	PackageDocComment: "package doc comment",
	DocComment:        "doc comment",
}

func (k Kind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown"
}

// keywords maps the reserved lowercase words to their Kind. Any lowercase
// identifier-shaped lexeme not in this table is an Identifier.
var keywords = map[string]Kind{
	"use":       KwUse,
	"as":        KwAs,
	"enum":      KwEnum,
	"type":      KwType,
	"interface": KwInterface,
	"tuple":     KwTuple,
	"service":   KwService,
	"stream":    KwStream,
	"any":       KwAny,
	"float":     KwFloat,
	"double":    KwDouble,
	"u32":       KwU32,
	"u64":       KwU64,
	"i32":       KwI32,
	"i64":       KwI64,
	"boolean":   KwBoolean,
	"string":    KwString,
	"datetime":  KwDatetime,
	"bytes":     KwBytes,
}

// Token is one lexeme: its Kind, byte span, and payload.
//
// Text holds the literal spelling for punctuation/keywords, the raw
// lexeme for TypeIdentifier/Identifier/Number, the decoded value for
// QuotedString, and the verbatim interior for CodeContent. Lines is
// populated only for DocComment/PackageDocComment, one entry per source
// line with the `///`/`//!` marker and at most one following space
// already stripped.
type Token struct {
	Kind  Kind
	Start int
	End   int
	Text  string
	Lines []string
}
