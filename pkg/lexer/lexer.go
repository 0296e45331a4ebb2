// Package lexer turns preprocessed C source into an ordered token stream.
package lexer

import (
	"strings"

	pc "github.com/prataprc/goparsec"

	"its-hmny.dev/cc0/pkg/ccerr"
	"its-hmny.dev/cc0/pkg/token"
)

// ----------------------------------------------------------------------------
// Grammar

// This section defines the recognizer(s) for every token class using the
// same parser-combinator library and construction style the teacher uses
// for its own sub-languages (see the nand2tetris assembler/vm/jack
// grammars): a package level 'ast.AST', built from 'ast.And'/'ast.OrdChoice'
// combinators over 'pc.Atom'/'pc.Token' leaves.
//
// Maximal munch is achieved the same way the teacher's own 'pComp'/'pDest'
// tables document doing it: multi-character operators are listed before
// their single-character prefixes in the top-level OrdChoice, so goparsec's
// ordered-choice (first successful alternative wins) always prefers the
// longer spelling - "--" before "-", "<=" before "<", "==" before "=", "&&"
// before a standalone '&' (which this grammar doesn't even define, since
// the C subset has no single-'&' operator).

var ast = pc.NewAST("cc0_lexer", 0)

var (
	// A run of letters/underscore/digits starting with a letter or '_'.
	// Classified as Keyword vs Identifier only after the match completes -
	// this is what "keywords recognized only at an identifier boundary"
	// means: 'intx' greedily matches this single token, never 'int'+'x'.
	pIdentOrKeyword = pc.Token(`[A-Za-z_][A-Za-z0-9_]*`, "IDENT_OR_KEYWORD")

	// A maximal run of decimal digits. The trailing '\b' word-boundary
	// assertion is what makes '123abc' fail to lex as Constant+Identifier:
	// the regex simply won't match if a word character follows the digits.
	pConstant = pc.Token(`[0-9]+\b`, "CONSTANT")

	// Comments: recognized so they can be stripped by Tokenize, matching
	// the teacher's own jack/asm comment handling (recognized then skipped
	// during AST-to-domain conversion rather than excluded from the grammar).
	pComment = ast.OrdChoice("comment", nil,
		ast.And("line_comment", nil, pc.Atom("//", "//"), pc.Token(`[^\n]*`, "COMMENT_BODY")),
		pc.Token(`/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`, "BLOCK_COMMENT"),
	)

	// Two-character operators, tried before their one-character prefixes.
	pSymbol2 = ast.OrdChoice("symbol2", nil,
		pc.Atom("--", "--"), pc.Atom("&&", "&&"), pc.Atom("||", "||"),
		pc.Atom("==", "=="), pc.Atom("!=", "!="), pc.Atom("<=", "<="), pc.Atom(">=", ">="),
	)

	// One-character punctuation and operators.
	pSymbol1 = ast.OrdChoice("symbol1", nil,
		pc.Atom("(", "("), pc.Atom(")", ")"), pc.Atom("{", "{"), pc.Atom("}", "}"),
		pc.Atom(";", ";"), pc.Atom("+", "+"), pc.Atom("-", "-"), pc.Atom("*", "*"),
		pc.Atom("/", "/"), pc.Atom("%", "%"), pc.Atom("~", "~"), pc.Atom("!", "!"),
		pc.Atom("<", "<"), pc.Atom(">", ">"), pc.Atom("=", "="),
	)

	// A single raw token, tried in the order above: identifier-or-keyword
	// and constant first (so they never get swallowed by a symbol), then
	// comments (so '//' and '/*' never fall through to the Slash symbol),
	// then the two symbol tiers in munch-maximizing order.
	pRawToken = ast.OrdChoice("token", nil, pIdentOrKeyword, pConstant, pComment, pSymbol2, pSymbol1)

	// The whole token stream, terminated by end of input.
	pProgram = ast.ManyUntil("tokens", nil, pRawToken, pc.End())
)

// ----------------------------------------------------------------------------
// Lexer

// Lexer turns a string of preprocessed C source into a token.Token slice.
// It is stateless across tokens (maximal-munch, no lookback) and filters
// whitespace and comment tokens from its output, per spec.
type Lexer struct{ source []byte }

// New returns a Lexer over the given preprocessed source.
func New(source string) Lexer { return Lexer{source: []byte(source)} }

// Tokenize scans the whole source and returns the filtered token stream.
// It fails fast with a ccerr.Lexical error quoting the start of the source
// (see offendingPrefix), or a dedicated "unterminated block comment" error
// when a '/*' is never closed before end of input.
func (l Lexer) Tokenize() ([]token.Token, error) {
	if offset, ok := findUnterminatedBlockComment(l.source); ok {
		return nil, ccerr.New(ccerr.Lexical, "unterminated block comment starting at byte %d", offset)
	}

	root, _ := ast.Parsewith(pProgram, pc.NewScanner(l.source))
	if root == nil {
		return nil, ccerr.New(ccerr.Lexical, "unrecognized input near %q", offendingPrefix(l.source))
	}

	tokens := make([]token.Token, 0, len(root.GetChildren()))
	for _, child := range root.GetChildren() {
		tok, skip := fromNode(child)
		if skip {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// fromNode converts one matched grammar node into its token.Token
// counterpart. The second return is true for comment nodes, which callers
// filter out - comments are recognized but never surface to the parser.
func fromNode(node pc.Queryable) (token.Token, bool) {
	switch node.GetName() {
	case "IDENT_OR_KEYWORD":
		if kind, isKeyword := token.Keywords[node.GetValue()]; isKeyword {
			return token.Keyword{Kind: kind}, false
		}
		return token.Identifier{Name: node.GetValue()}, false
	case "CONSTANT":
		return token.Constant{Digits: node.GetValue()}, false
	case "line_comment":
		return token.Comment{Kind: token.LineComment}, true
	case "BLOCK_COMMENT":
		return token.Comment{Kind: token.BlockComment}, true
	default:
		for _, sym := range token.Symbols {
			if sym.Text == node.GetName() {
				return token.Symbol{Kind: sym.Kind}, false
			}
		}
		// Internal invariant: every grammar alternative above is named
		// after either a fixed terminal label or a literal symbol spelling.
		panic("lexer: unreachable grammar node " + node.GetName())
	}
}

// findUnterminatedBlockComment reports the byte offset of the first '/*'
// that has no matching '*/' before end of input. Line comments are skipped
// so a '/*' appearing after '//' on the same line is not considered.
func findUnterminatedBlockComment(source []byte) (int, bool) {
	text := string(source)
	for i := 0; i < len(text)-1; i++ {
		switch {
		case text[i] == '/' && i+1 < len(text) && text[i+1] == '/':
			if nl := strings.IndexByte(text[i:], '\n'); nl >= 0 {
				i += nl
			} else {
				return 0, false
			}
		case text[i] == '/' && text[i+1] == '*':
			rest := text[i+2:]
			if !strings.Contains(rest, "*/") {
				return i, true
			}
			i += 1 + strings.Index(rest, "*/") + 2
		}
	}
	return 0, false
}

// offendingPrefix returns a short, human-readable slice of source for an
// "unrecognized input" diagnostic: the first whitespace-delimited word of
// the source, cut to at most 24 bytes. It does not locate the position
// where recognition failed.
func offendingPrefix(source []byte) string {
	const maxLen = 24
	s := strings.TrimLeft(string(source), " \t\r\n")
	if i := strings.IndexAny(s, " \t\r\n"); i >= 0 && i < maxLen {
		return s[:i]
	}
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}
