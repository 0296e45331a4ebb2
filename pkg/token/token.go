// Package token defines the token variants produced by the lexer.
package token

// ----------------------------------------------------------------------------
// General information

// This section declares the shared 'Token' marker interface for every token
// variant the lexer can produce (Identifier, Constant, Keyword, Symbol,
// Comment), the same way pkg/asm.Statement and pkg/hack.Instruction put
// together their own families in the teacher's codebase. Consumers type
// switch on the concrete variant rather than inspecting a 'kind' field.
//
// Tokens are immutable values: once produced by the lexer they are never
// mutated, only read by the parser.

// Token is implemented by every concrete token variant below.
type Token interface{ isToken() }

// ----------------------------------------------------------------------------
// Identifier & Constant

// Identifier is a maximal run matching [A-Za-z_][A-Za-z0-9_]* that is not
// one of the reserved keywords.
type Identifier struct{ Name string }

// Constant is a maximal run of decimal digits, guaranteed by the lexer to
// not be immediately followed by a letter (word-boundary rule).
type Constant struct{ Digits string }

func (Identifier) isToken() {}
func (Constant) isToken()   {}

// ----------------------------------------------------------------------------
// Keyword

// KeywordKind enumerates the reserved words of the supported C subset.
type KeywordKind int

const (
	Int KeywordKind = iota
	Void
	Return
)

func (k KeywordKind) String() string {
	switch k {
	case Int:
		return "int"
	case Void:
		return "void"
	case Return:
		return "return"
	default:
		return "<unknown keyword>"
	}
}

// Keywords maps the reserved spelling to its KeywordKind; used by the lexer
// to classify an identifier-shaped run at the identifier/keyword boundary.
var Keywords = map[string]KeywordKind{
	"int":    Int,
	"void":   Void,
	"return": Return,
}

// Keyword is one of the reserved words recognized only at an identifier
// boundary (i.e. "intx" lexes as a single Identifier, never as Int+x).
type Keyword struct{ Kind KeywordKind }

func (Keyword) isToken() {}

// ----------------------------------------------------------------------------
// Symbol

// SymbolKind enumerates punctuation and operator tokens. Two-character
// operators are distinct variants from their one-character prefixes so the
// lexer's maximal-munch recognizer order ("--" before "-", "<=" before "<",
// "==" before "=", "&&" before single-character tokens) is total: every
// SymbolKind below has exactly one spelling, never an overlapping one.
type SymbolKind int

const (
	LParen SymbolKind = iota
	RParen
	LBrace
	RBrace
	Semicolon
	Plus
	Minus
	Star
	Slash
	Percent
	Tilde
	Bang
	MinusMinus
	AmpAmp
	PipePipe
	EqEq
	BangEq
	Lt
	Gt
	LtEq
	GtEq
	Assign
)

// Symbols lists every recognized spelling, two-character operators first so
// a recognizer walking this slice in order performs maximal munch.
var Symbols = []struct {
	Text string
	Kind SymbolKind
}{
	{"--", MinusMinus},
	{"&&", AmpAmp},
	{"||", PipePipe},
	{"==", EqEq},
	{"!=", BangEq},
	{"<=", LtEq},
	{">=", GtEq},
	{"(", LParen},
	{")", RParen},
	{"{", LBrace},
	{"}", RBrace},
	{";", Semicolon},
	{"+", Plus},
	{"-", Minus},
	{"*", Star},
	{"/", Slash},
	{"%", Percent},
	{"~", Tilde},
	{"!", Bang},
	{"<", Lt},
	{">", Gt},
	{"=", Assign},
}

func (k SymbolKind) String() string {
	for _, s := range Symbols {
		if s.Kind == k {
			return s.Text
		}
	}
	return "<unknown symbol>"
}

// Symbol is one punctuation/operator token.
type Symbol struct{ Kind SymbolKind }

func (Symbol) isToken() {}

// ----------------------------------------------------------------------------
// Comment

// CommentKind distinguishes a "// ..." line comment from a "/* ... */"
// block comment. Comment tokens are recognized by the lexer's grammar but
// are always filtered out before the token stream reaches the parser.
type CommentKind int

const (
	LineComment CommentKind = iota
	BlockComment
)

// Comment is a recognized-but-discarded comment token.
type Comment struct{ Kind CommentKind }

func (Comment) isToken() {}
