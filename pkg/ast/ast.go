// Package ast defines the abstract syntax tree produced by the parser.
package ast

// ----------------------------------------------------------------------------
// General information

// Every node family below (Expression, Statement, BlockItem) is a tagged
// sum type dispatched by a type switch, the same shape as the teacher's
// 'pkg/asm.Statement' and 'pkg/hack.Instruction': an unexported marker
// method implemented by each concrete variant, no dynamic dispatch or
// subtyping. Expression trees are owned sub-trees (a tree, never a DAG);
// there are no back-edges and no shared nodes.

// ----------------------------------------------------------------------------
// Program & Function

// Program is the single compilation unit: exactly one function.
type Program struct{ Function Function }

// Function is 'int NAME(void) { BODY }'.
type Function struct {
	Name string
	Body []BlockItem
}

// ----------------------------------------------------------------------------
// Block items

// BlockItem is implemented by Declaration and every Statement variant.
type BlockItem interface{ isBlockItem() }

// Declaration is 'int NAME [= Init] ;'. Init is nil when there is no
// initializer, in which case the declaration lowers to no TAC at all.
type Declaration struct {
	Name string
	Init Expression // nil when absent
}

func (Declaration) isBlockItem() {}

// ----------------------------------------------------------------------------
// Statements

// Statement is implemented by Return, ExpressionStmt and Null.
type Statement interface {
	BlockItem
	isStatement()
}

// Return is 'return EXPR ;'.
type Return struct{ Expr Expression }

// ExpressionStmt is 'EXPR ;', evaluated for side effect only.
type ExpressionStmt struct{ Expr Expression }

// Null is the bare ';' statement.
type Null struct{}

func (Return) isBlockItem()         {}
func (Return) isStatement()         {}
func (ExpressionStmt) isBlockItem() {}
func (ExpressionStmt) isStatement() {}
func (Null) isBlockItem()           {}
func (Null) isStatement()           {}

// ----------------------------------------------------------------------------
// Expressions

// Expression is implemented by every expression node. Operands are owned
// recursively: Unary/Binary/Assignment hold their sub-expressions by value
// inside the Expression interface, never by shared reference.
type Expression interface{ isExpression() }

// Constant is a non-negative integer literal, representable in 32 bits.
type Constant struct{ Value int64 }

// Var is a reference to a declared variable.
type Var struct{ Name string }

// Unary is a prefix operator applied to one operand.
type Unary struct {
	Op      UnaryOp
	Operand Expression
}

// Binary is an infix operator applied to two operands.
type Binary struct {
	Op          BinaryOp
	Left, Right Expression
}

// Assignment is 'lvalue = rvalue'. The parser rejects any Assignment whose
// Lvalue is not a Var with a syntactic error, and the tacker checks the
// same invariant again during lowering with a semantic error.
type Assignment struct{ Lvalue, Rvalue Expression }

func (Constant) isExpression()   {}
func (Var) isExpression()        {}
func (Unary) isExpression()      {}
func (Binary) isExpression()     {}
func (Assignment) isExpression() {}

// ----------------------------------------------------------------------------
// Operators

// UnaryOp enumerates the three prefix operators.
type UnaryOp int

const (
	Complement UnaryOp = iota // ~
	Negate                    // -
	Not                       // !
)

// BinaryOp enumerates the infix operators, arithmetic through logical.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Rem
	And // &&
	Or  // ||
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
)
