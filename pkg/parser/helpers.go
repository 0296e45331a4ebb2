package parser

import (
	"strconv"

	"its-hmny.dev/cc0/pkg/ccerr"
	"its-hmny.dev/cc0/pkg/token"
)

// atEOF reports whether every token has been consumed.
func (p *Parser) atEOF() bool { return p.index >= len(p.tokens) }

// advance moves the read cursor forward by one token.
func (p *Parser) advance() { p.index++ }

// peek returns the current token without consuming it, failing fast when
// the stream is exhausted mid-production.
func (p *Parser) peek() (token.Token, error) {
	if p.atEOF() {
		return nil, ccerr.New(ccerr.Syntactic, "unexpected end of input")
	}
	return p.tokens[p.index], nil
}

// peekSymbol returns the SymbolKind of the current token, if it is a
// Symbol; the second return is false at EOF or for any other token kind.
func (p *Parser) peekSymbol() (token.SymbolKind, bool) {
	if p.atEOF() {
		return 0, false
	}
	sym, ok := p.tokens[p.index].(token.Symbol)
	if !ok {
		return 0, false
	}
	return sym.Kind, true
}

// checkSymbol reports whether the current token is the given symbol,
// without consuming it.
func (p *Parser) checkSymbol(kind token.SymbolKind) bool {
	sym, ok := p.peekSymbol()
	return ok && sym == kind
}

// checkKeyword reports whether the current token is the given keyword,
// without consuming it.
func (p *Parser) checkKeyword(kind token.KeywordKind) bool {
	if p.atEOF() {
		return false
	}
	kw, ok := p.tokens[p.index].(token.Keyword)
	return ok && kw.Kind == kind
}

// expectSymbol consumes the current token if it is the given symbol, else
// fails fast naming what was expected and what was found.
func (p *Parser) expectSymbol(kind token.SymbolKind) error {
	if !p.checkSymbol(kind) {
		return ccerr.New(ccerr.Syntactic, "expected symbol %q, found %s", kind, p.describeCurrent())
	}
	p.advance()
	return nil
}

// expectKeyword consumes the current token if it is the given keyword,
// else fails fast.
func (p *Parser) expectKeyword(kind token.KeywordKind) error {
	if !p.checkKeyword(kind) {
		return ccerr.New(ccerr.Syntactic, "expected keyword %q, found %s", kind, p.describeCurrent())
	}
	p.advance()
	return nil
}

// expectIdentifier consumes and returns the current token's name if it is
// an Identifier, else fails fast.
func (p *Parser) expectIdentifier() (string, error) {
	tok, err := p.peek()
	if err != nil {
		return "", err
	}
	ident, ok := tok.(token.Identifier)
	if !ok {
		return "", ccerr.New(ccerr.Syntactic, "expected an identifier, found %s", p.describeCurrent())
	}
	p.advance()
	return ident.Name, nil
}

// describeCurrent renders the current token for diagnostics.
func (p *Parser) describeCurrent() string {
	if p.atEOF() {
		return "end of input"
	}
	switch t := p.tokens[p.index].(type) {
	case token.Identifier:
		return "identifier " + strconv.Quote(t.Name)
	case token.Constant:
		return "constant " + t.Digits
	case token.Keyword:
		return "keyword " + strconv.Quote(t.Kind.String())
	case token.Symbol:
		return "symbol " + strconv.Quote(t.Kind.String())
	default:
		return "unknown token"
	}
}

// parseConstant converts a lexed digit run to an int64, failing fast if it
// is not a non-negative value representable in 32 bits (at most 2^32-1).
func parseConstant(digits string) (int64, error) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, ccerr.New(ccerr.Syntactic, "constant %q is not a parseable integer", digits)
	}
	if n < 0 || n > 1<<32-1 {
		return 0, ccerr.New(ccerr.Syntactic, "constant %d is not representable in 32 bits", n)
	}
	return n, nil
}
