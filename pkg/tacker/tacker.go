// Package tacker lowers an AST to three-address code, allocating fresh
// temporaries and labels and synthesizing control flow for the
// short-circuiting '&&'/'||' operators.
package tacker

import (
	"fmt"

	"its-hmny.dev/cc0/pkg/ast"
	"its-hmny.dev/cc0/pkg/ccerr"
	"its-hmny.dev/cc0/pkg/tac"
)

// ----------------------------------------------------------------------------
// NameGen

// NameGen holds the two monotone counters (temporary names, label names)
// scoped to exactly one compilation. It is threaded through lowering by
// pointer rather than kept as package level state - this is what makes two
// concurrent compilations in the same process safe without a mutex,
// resolving the reentrancy note in the spec's design section.
type NameGen struct {
	tmp   int
	label int
}

// NewNameGen returns a NameGen with both counters starting at zero.
func NewNameGen() *NameGen { return &NameGen{} }

// FreshTemp returns a never-before-used 'tmp.N' variable.
func (g *NameGen) FreshTemp() tac.Var {
	name := fmt.Sprintf("tmp.%d", g.tmp)
	g.tmp++
	return tac.Var{Name: name}
}

// FreshLabel returns a never-before-used '<tag>_N' label name.
func (g *NameGen) FreshLabel(tag string) string {
	name := fmt.Sprintf("%s_%d", tag, g.label)
	g.label++
	return name
}

// ----------------------------------------------------------------------------
// Tacker

// Tacker walks an ast.Program bottom-up, appending TAC instructions into an
// append-only buffer and returning the Val that names each expression's
// result - the same Lower()-entry-point-plus-Handle*-helpers shape as the
// teacher's pkg/asm/lowering.go and pkg/vm/lowering.go Lowerer structs.
type Tacker struct {
	names *NameGen
	buf   []tac.Instruction
}

// New returns a Tacker with its own NameGen, ready to lower one program.
func New() *Tacker { return &Tacker{names: NewNameGen()} }

// Lower converts the given ast.Program to its tac.TProgram counterpart.
func (t *Tacker) Lower(program *ast.Program) (*tac.TProgram, error) {
	fn := program.Function

	for _, item := range fn.Body {
		if err := t.lowerBlockItem(item); err != nil {
			return nil, err
		}
	}

	// Safety-net trailing return: matches C's "main returns 0" convention.
	// For any other function name this is still emitted (spec leaves the
	// behavior for non-'main' functions undefined; we keep one rule for
	// every function since this subset supports exactly one).
	if !endsInReturn(t.buf) {
		t.emit(tac.Return{Val: tac.Constant{Value: 0}})
	}

	return &tac.TProgram{Function: tac.TFunction{Name: fn.Name, Instructions: t.buf}}, nil
}

func endsInReturn(instrs []tac.Instruction) bool {
	if len(instrs) == 0 {
		return false
	}
	_, ok := instrs[len(instrs)-1].(tac.Return)
	return ok
}

func (t *Tacker) emit(instr tac.Instruction) { t.buf = append(t.buf, instr) }

// ----------------------------------------------------------------------------
// Block items & statements

func (t *Tacker) lowerBlockItem(item ast.BlockItem) error {
	switch node := item.(type) {
	case ast.Declaration:
		return t.lowerDeclaration(node)
	case ast.Statement:
		return t.lowerStatement(node)
	default:
		return ccerr.New(ccerr.Internal, "unrecognized block item %T", item)
	}
}

// lowerDeclaration lowers declarations generate no code; an initializer
// is lowered to an assignment at its declaration site.
func (t *Tacker) lowerDeclaration(decl ast.Declaration) error {
	if decl.Init == nil {
		return nil
	}
	val, err := t.lowerExpr(decl.Init)
	if err != nil {
		return err
	}
	t.emit(tac.Copy{Src: val, Dst: tac.Var{Name: decl.Name}})
	return nil
}

func (t *Tacker) lowerStatement(stmt ast.Statement) error {
	switch node := stmt.(type) {
	case ast.Return:
		val, err := t.lowerExpr(node.Expr)
		if err != nil {
			return err
		}
		t.emit(tac.Return{Val: val})
		return nil

	case ast.ExpressionStmt:
		_, err := t.lowerExpr(node.Expr)
		return err

	case ast.Null:
		return nil

	default:
		return ccerr.New(ccerr.Internal, "unrecognized statement %T", stmt)
	}
}
