// Package tac defines the three-address code intermediate representation
// produced by the tacker from an AST.
package tac

import "its-hmny.dev/cc0/pkg/ast"

// ----------------------------------------------------------------------------
// Program & function

// TProgram is the single compiled translation unit.
type TProgram struct{ Function TFunction }

// TFunction is a flat, append-only list of instructions.
type TFunction struct {
	Name         string
	Instructions []Instruction
}

// ----------------------------------------------------------------------------
// Values

// Val is implemented by Constant and Var - the only two operand shapes
// anywhere in TAC.
type Val interface{ isVal() }

// Constant is an immediate integer value.
type Constant struct{ Value int64 }

// Var names a temporary or a user declared variable. Every TInstruction's
// Dst is a Var; every Label's name is unique within its function.
type Var struct{ Name string }

func (Constant) isVal() {}
func (Var) isVal()      {}

// ----------------------------------------------------------------------------
// Instructions

// Instruction is implemented by every TAC instruction variant.
type Instruction interface{ isInstruction() }

// Return ends the function, yielding Val as the exit status.
type Return struct{ Val Val }

// Unary computes Dst = op(Src).
type Unary struct {
	Op       ast.UnaryOp
	Src, Dst Val
}

// Binary computes Dst = Src1 op Src2.
type Binary struct {
	Op         ast.BinaryOp
	Src1, Src2 Val
	Dst        Val
}

// Copy computes Dst = Src.
type Copy struct{ Src, Dst Val }

// Jump unconditionally transfers control to Label.
type Jump struct{ Label string }

// JumpIfZero transfers control to Label when Val == 0.
type JumpIfZero struct {
	Val   Val
	Label string
}

// JumpIfNotZero transfers control to Label when Val != 0.
type JumpIfNotZero struct {
	Val   Val
	Label string
}

// Label marks a jump target.
type Label struct{ Name string }

func (Return) isInstruction()        {}
func (Unary) isInstruction()         {}
func (Binary) isInstruction()        {}
func (Copy) isInstruction()          {}
func (Jump) isInstruction()          {}
func (JumpIfZero) isInstruction()    {}
func (JumpIfNotZero) isInstruction() {}
func (Label) isInstruction()         {}
