package lexer_test

import (
	"testing"

	"its-hmny.dev/cc0/pkg/lexer"
	"its-hmny.dev/cc0/pkg/token"
)

func tokenize(t *testing.T, source string) []token.Token {
	t.Helper()
	tokens, err := lexer.New(source).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q) error = %v", source, err)
	}
	return tokens
}

func TestTokenizeMinimalFunction(t *testing.T) {
	tokens := tokenize(t, "int main(void) { return 2; }")

	want := []token.Token{
		token.Keyword{Kind: token.Int},
		token.Identifier{Name: "main"},
		token.Symbol{Kind: token.LParen},
		token.Keyword{Kind: token.Void},
		token.Symbol{Kind: token.RParen},
		token.Symbol{Kind: token.LBrace},
		token.Keyword{Kind: token.Return},
		token.Constant{Digits: "2"},
		token.Symbol{Kind: token.Semicolon},
		token.Symbol{Kind: token.RBrace},
	}
	assertTokensEqual(t, tokens, want)
}

func TestTokenizeMaximalMunchOnOperators(t *testing.T) {
	cases := []struct {
		source string
		want   token.SymbolKind
	}{
		{"--", token.MinusMinus},
		{"&&", token.AmpAmp},
		{"||", token.PipePipe},
		{"==", token.EqEq},
		{"!=", token.BangEq},
		{"<=", token.LtEq},
		{">=", token.GtEq},
	}
	for _, c := range cases {
		tokens := tokenize(t, c.source)
		if len(tokens) != 1 {
			t.Fatalf("tokenize(%q) = %d tokens, want 1: %#v", c.source, len(tokens), tokens)
		}
		sym, ok := tokens[0].(token.Symbol)
		if !ok || sym.Kind != c.want {
			t.Errorf("tokenize(%q) = %#v, want single symbol %v", c.source, tokens[0], c.want)
		}
	}
}

func TestTokenizeKeywordBoundary(t *testing.T) {
	tokens := tokenize(t, "intx")
	if len(tokens) != 1 {
		t.Fatalf("tokenize(\"intx\") = %#v, want a single identifier", tokens)
	}
	ident, ok := tokens[0].(token.Identifier)
	if !ok || ident.Name != "intx" {
		t.Errorf("tokenize(\"intx\") = %#v, want Identifier{intx}", tokens[0])
	}
}

func TestTokenizeConstantDigitBoundary(t *testing.T) {
	_, err := lexer.New("123abc").Tokenize()
	if err == nil {
		t.Fatal("expected a lexical error for a digit run immediately followed by a letter")
	}
}

func TestTokenizeStripsComments(t *testing.T) {
	tokens := tokenize(t, "return /* skip */ 1; // trailing\n")
	want := []token.Token{
		token.Keyword{Kind: token.Return},
		token.Constant{Digits: "1"},
		token.Symbol{Kind: token.Semicolon},
	}
	assertTokensEqual(t, tokens, want)
}

func TestTokenizeUnterminatedBlockCommentFails(t *testing.T) {
	_, err := lexer.New("int main(void) { /* never closed return 1; }").Tokenize()
	if err == nil {
		t.Fatal("expected a lexical error for an unterminated block comment")
	}
}

func TestTokenizeRejectsUnknownCharacter(t *testing.T) {
	_, err := lexer.New("int main(void) { return `; }").Tokenize()
	if err == nil {
		t.Fatal("expected a lexical error for an unrecognized character")
	}
}

func assertTokensEqual(t *testing.T, got, want []token.Token) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d\n got: %#v\nwant: %#v", len(got), len(want), got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("tokens[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
}
