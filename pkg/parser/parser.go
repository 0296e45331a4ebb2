// Package parser builds an AST from a token stream using recursive descent
// for statements/declarations and Pratt-style precedence climbing for
// expressions.
//
// goparsec's ordered-choice grammars (as used by pkg/lexer and by the
// teacher's own sub-languages) have no notion of an operator-precedence
// parameter, so they cannot express "parse_expression(min_prec)" directly.
// No other dependency in the pack offers precedence-climbing combinators
// either, so this parser is hand-written over the flat []token.Token slice,
// in the shape of skx-math-compiler's Compiler (tokens + index, peek/next
// helpers) and falcon's ast/parser.go.
package parser

import (
	"its-hmny.dev/cc0/pkg/ast"
	"its-hmny.dev/cc0/pkg/ccerr"
	"its-hmny.dev/cc0/pkg/token"
)

// Parser holds our object-state: the filtered token stream and a read
// cursor. Tokens are never mutated, only consumed left to right.
type Parser struct {
	tokens []token.Token
	index  int
}

// New returns a Parser over an already-lexed, comment/whitespace-free
// token stream.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse matches the single '<function>' production and ensures the token
// stream is exhausted afterward.
func (p *Parser) Parse() (*ast.Program, error) {
	fn, err := p.parseFunction()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, ccerr.New(ccerr.Syntactic, "trailing tokens after function %q", fn.Name)
	}
	return &ast.Program{Function: *fn}, nil
}

// ----------------------------------------------------------------------------
// Function & block items

// parseFunction matches 'int IDENT ( void ) { <block-item>* }'.
func (p *Parser) parseFunction() (*ast.Function, error) {
	if err := p.expectKeyword(token.Int); err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(token.LParen); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(token.Void); err != nil {
		return nil, err
	}
	if err := p.expectSymbol(token.RParen); err != nil {
		return nil, err
	}
	if err := p.expectSymbol(token.LBrace); err != nil {
		return nil, err
	}

	var body []ast.BlockItem
	for !p.checkSymbol(token.RBrace) {
		item, err := p.parseBlockItem()
		if err != nil {
			return nil, err
		}
		body = append(body, item)
	}

	if err := p.expectSymbol(token.RBrace); err != nil {
		return nil, err
	}
	return &ast.Function{Name: name, Body: body}, nil
}

// parseBlockItem disambiguates a declaration from a statement by one
// token of lookahead: a leading 'int' always begins a declaration.
func (p *Parser) parseBlockItem() (ast.BlockItem, error) {
	if p.checkKeyword(token.Int) {
		return p.parseDeclaration()
	}
	return p.parseStatement()
}

// parseDeclaration matches 'int IDENT [ = <expression> ] ;'.
func (p *Parser) parseDeclaration() (ast.BlockItem, error) {
	if err := p.expectKeyword(token.Int); err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	var init ast.Expression
	if p.checkSymbol(token.Assign) {
		p.advance()
		init, err = p.parseExpression(0)
		if err != nil {
			return nil, err
		}
	}

	if err := p.expectSymbol(token.Semicolon); err != nil {
		return nil, err
	}
	return ast.Declaration{Name: name, Init: init}, nil
}

// parseStatement matches 'return <expression> ;', the null statement ';',
// or an expression statement '<expression> ;'.
func (p *Parser) parseStatement() (ast.Statement, error) {
	if p.checkKeyword(token.Return) {
		p.advance()
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(token.Semicolon); err != nil {
			return nil, err
		}
		return ast.Return{Expr: expr}, nil
	}

	if p.checkSymbol(token.Semicolon) {
		p.advance()
		return ast.Null{}, nil
	}

	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(token.Semicolon); err != nil {
		return nil, err
	}
	return ast.ExpressionStmt{Expr: expr}, nil
}

// ----------------------------------------------------------------------------
// Expressions: Pratt precedence climbing

// precedence assigns a binding power to each infix operator; higher binds
// tighter. Assignment sits in this table at the lowest precedence, but
// parseExpression handles it separately since it is the one
// right-associative operator.
var precedence = map[token.SymbolKind]int{
	token.Star: 50, token.Slash: 50, token.Percent: 50,
	token.Plus: 45, token.Minus: 45,
	token.Lt: 35, token.LtEq: 35, token.Gt: 35, token.GtEq: 35,
	token.EqEq: 30, token.BangEq: 30,
	token.AmpAmp: 10,
	token.PipePipe: 5,
	token.Assign:   1,
}

var binaryOpOf = map[token.SymbolKind]ast.BinaryOp{
	token.Plus: ast.Add, token.Minus: ast.Sub, token.Star: ast.Mul,
	token.Slash: ast.Div, token.Percent: ast.Rem,
	token.AmpAmp: ast.And, token.PipePipe: ast.Or,
	token.EqEq: ast.Eq, token.BangEq: ast.Ne,
	token.Lt: ast.Lt, token.LtEq: ast.Le, token.Gt: ast.Gt, token.GtEq: ast.Ge,
}

// parseExpression implements 'parse_expression(min_prec)': it parses one
// factor, then repeatedly consumes infix operators whose precedence is at
// least min_prec. Left-associative operators recurse with prec+1;
// assignment recurses with the same precedence (right-associative).
func (p *Parser) parseExpression(minPrec int) (ast.Expression, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for {
		sym, ok := p.peekSymbol()
		if !ok {
			break
		}
		prec, isOperator := precedence[sym]
		if !isOperator || prec < minPrec {
			break
		}

		if sym == token.Assign {
			p.advance()
			rvalue, err := p.parseExpression(prec)
			if err != nil {
				return nil, err
			}
			if _, isVar := left.(ast.Var); !isVar {
				return nil, ccerr.New(ccerr.Syntactic, "invalid lvalue in assignment")
			}
			left = ast.Assignment{Lvalue: left, Rvalue: rvalue}
			continue
		}

		p.advance()
		right, err := p.parseExpression(prec + 1)
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: binaryOpOf[sym], Left: left, Right: right}
	}

	return left, nil
}

// parseFactor matches the atomic cases and prefix operators: integer
// constants, identifier references, parenthesized expressions, and the
// prefix '-', '~', '!' operators.
func (p *Parser) parseFactor() (ast.Expression, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case token.Constant:
		p.advance()
		n, err := parseConstant(t.Digits)
		if err != nil {
			return nil, err
		}
		return ast.Constant{Value: n}, nil

	case token.Identifier:
		p.advance()
		return ast.Var{Name: t.Name}, nil

	case token.Symbol:
		switch t.Kind {
		case token.LParen:
			p.advance()
			inner, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			if err := p.expectSymbol(token.RParen); err != nil {
				return nil, err
			}
			return inner, nil
		case token.Minus:
			p.advance()
			operand, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			return ast.Unary{Op: ast.Negate, Operand: operand}, nil
		case token.Tilde:
			p.advance()
			operand, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			return ast.Unary{Op: ast.Complement, Operand: operand}, nil
		case token.Bang:
			p.advance()
			operand, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			return ast.Unary{Op: ast.Not, Operand: operand}, nil
		}
	}

	return nil, ccerr.New(ccerr.Syntactic, "unexpected token %#v, expected an expression", tok)
}
