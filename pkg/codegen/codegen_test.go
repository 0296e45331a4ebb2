package codegen_test

import (
	"testing"

	"its-hmny.dev/cc0/pkg/ast"
	"its-hmny.dev/cc0/pkg/asmir"
	"its-hmny.dev/cc0/pkg/codegen"
	"its-hmny.dev/cc0/pkg/tac"
)

func generate(t *testing.T, instrs []tac.Instruction) []asmir.Instruction {
	t.Helper()
	program := &tac.TProgram{Function: tac.TFunction{Name: "main", Instructions: instrs}}
	out, err := codegen.Generate(program)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return out.Function.Instructions
}

func TestGenerateReturnConstant(t *testing.T) {
	instrs := generate(t, []tac.Instruction{tac.Return{Val: tac.Constant{Value: 2}}})

	want := []asmir.Instruction{
		asmir.AllocateStack{Bytes: 0},
		asmir.Mov{Src: asmir.Imm{Value: 2}, Dst: asmir.Reg{Name: asmir.AX}},
		asmir.Ret{},
	}
	assertEqual(t, instrs, want)
}

func TestGenerateResolvesRepeatedPseudoToSameSlot(t *testing.T) {
	instrs := generate(t, []tac.Instruction{
		tac.Copy{Src: tac.Constant{Value: 1}, Dst: tac.Var{Name: "x"}},
		tac.Return{Val: tac.Var{Name: "x"}},
	})

	want := []asmir.Instruction{
		asmir.AllocateStack{Bytes: 16}, // one 4-byte slot, aligned up to 16
		asmir.Mov{Src: asmir.Imm{Value: 1}, Dst: asmir.Stack{Offset: -4}},
		asmir.Mov{Src: asmir.Stack{Offset: -4}, Dst: asmir.Reg{Name: asmir.AX}},
		asmir.Ret{},
	}
	assertEqual(t, instrs, want)
}

func TestGenerateLegalizesStackToStackMov(t *testing.T) {
	instrs := generate(t, []tac.Instruction{
		tac.Copy{Src: tac.Var{Name: "x"}, Dst: tac.Var{Name: "y"}},
		tac.Return{Val: tac.Var{Name: "y"}},
	})

	// x and y each get a slot; the Stack->Stack copy must legalize through R10.
	want := []asmir.Instruction{
		asmir.AllocateStack{Bytes: 16},
		asmir.Mov{Src: asmir.Stack{Offset: -4}, Dst: asmir.Reg{Name: asmir.R10}},
		asmir.Mov{Src: asmir.Reg{Name: asmir.R10}, Dst: asmir.Stack{Offset: -8}},
		asmir.Mov{Src: asmir.Stack{Offset: -8}, Dst: asmir.Reg{Name: asmir.AX}},
		asmir.Ret{},
	}
	assertEqual(t, instrs, want)
}

func TestGenerateDivLowersToCdqIdiv(t *testing.T) {
	instrs := generate(t, []tac.Instruction{
		tac.Binary{Op: ast.Div, Src1: tac.Constant{Value: 10}, Src2: tac.Constant{Value: 2}, Dst: tac.Var{Name: "q"}},
		tac.Return{Val: tac.Var{Name: "q"}},
	})

	// Idiv(Imm) must legalize through R10.
	want := []asmir.Instruction{
		asmir.AllocateStack{Bytes: 16},
		asmir.Mov{Src: asmir.Imm{Value: 10}, Dst: asmir.Reg{Name: asmir.AX}},
		asmir.Cdq{},
		asmir.Mov{Src: asmir.Imm{Value: 2}, Dst: asmir.Reg{Name: asmir.R10}},
		asmir.Idiv{Operand: asmir.Reg{Name: asmir.R10}},
		asmir.Mov{Src: asmir.Reg{Name: asmir.AX}, Dst: asmir.Stack{Offset: -4}},
		asmir.Mov{Src: asmir.Stack{Offset: -4}, Dst: asmir.Reg{Name: asmir.AX}},
		asmir.Ret{},
	}
	assertEqual(t, instrs, want)
}

func TestGenerateMulLegalizesStackDestination(t *testing.T) {
	instrs := generate(t, []tac.Instruction{
		tac.Copy{Src: tac.Constant{Value: 1}, Dst: tac.Var{Name: "a"}},
		tac.Binary{Op: ast.Mul, Src1: tac.Var{Name: "a"}, Src2: tac.Constant{Value: 3}, Dst: tac.Var{Name: "a"}},
		tac.Return{Val: tac.Var{Name: "a"}},
	})

	want := []asmir.Instruction{
		asmir.AllocateStack{Bytes: 16},
		asmir.Mov{Src: asmir.Imm{Value: 1}, Dst: asmir.Stack{Offset: -4}},
		asmir.Mov{Src: asmir.Stack{Offset: -4}, Dst: asmir.Reg{Name: asmir.R10}},
		asmir.Mov{Src: asmir.Reg{Name: asmir.R10}, Dst: asmir.Stack{Offset: -4}},
		asmir.Mov{Src: asmir.Stack{Offset: -4}, Dst: asmir.Reg{Name: asmir.R11}},
		asmir.Binary{Op: asmir.Mul, Src: asmir.Imm{Value: 3}, Dst: asmir.Reg{Name: asmir.R11}},
		asmir.Mov{Src: asmir.Reg{Name: asmir.R11}, Dst: asmir.Stack{Offset: -4}},
		asmir.Mov{Src: asmir.Stack{Offset: -4}, Dst: asmir.Reg{Name: asmir.AX}},
		asmir.Ret{},
	}
	assertEqual(t, instrs, want)
}

func TestGenerateComparisonLowersToCmpSetCC(t *testing.T) {
	instrs := generate(t, []tac.Instruction{
		tac.Binary{Op: ast.Lt, Src1: tac.Constant{Value: 1}, Src2: tac.Constant{Value: 2}, Dst: tac.Var{Name: "b"}},
		tac.Return{Val: tac.Var{Name: "b"}},
	})

	want := []asmir.Instruction{
		asmir.AllocateStack{Bytes: 16},
		asmir.Mov{Src: asmir.Imm{Value: 1}, Dst: asmir.Reg{Name: asmir.R11}},
		asmir.Cmp{A: asmir.Imm{Value: 2}, B: asmir.Reg{Name: asmir.R11}},
		asmir.Mov{Src: asmir.Imm{Value: 0}, Dst: asmir.Stack{Offset: -4}},
		asmir.SetCC{CC: asmir.L, Operand: asmir.Stack{Offset: -4}},
		asmir.Mov{Src: asmir.Stack{Offset: -4}, Dst: asmir.Reg{Name: asmir.AX}},
		asmir.Ret{},
	}
	assertEqual(t, instrs, want)
}

func TestGenerateCmpLegalizesImmediateSecondOperand(t *testing.T) {
	instrs := generate(t, []tac.Instruction{
		tac.JumpIfZero{Val: tac.Constant{Value: 0}, Label: "short_0"},
		tac.Label{Name: "short_0"},
		tac.Return{Val: tac.Constant{Value: 1}},
	})

	want := []asmir.Instruction{
		asmir.AllocateStack{Bytes: 0},
		asmir.Mov{Src: asmir.Imm{Value: 0}, Dst: asmir.Reg{Name: asmir.R11}},
		asmir.Cmp{A: asmir.Imm{Value: 0}, B: asmir.Reg{Name: asmir.R11}},
		asmir.JmpCC{CC: asmir.E, Label: "short_0"},
		asmir.Label{Name: "short_0"},
		asmir.Mov{Src: asmir.Imm{Value: 1}, Dst: asmir.Reg{Name: asmir.AX}},
		asmir.Ret{},
	}
	assertEqual(t, instrs, want)
}

func TestGenerateLogicalNotLowersToCmpSetCC(t *testing.T) {
	instrs := generate(t, []tac.Instruction{
		tac.Unary{Op: ast.Not, Src: tac.Constant{Value: 0}, Dst: tac.Var{Name: "n"}},
		tac.Return{Val: tac.Var{Name: "n"}},
	})

	want := []asmir.Instruction{
		asmir.AllocateStack{Bytes: 16},
		asmir.Mov{Src: asmir.Imm{Value: 0}, Dst: asmir.Reg{Name: asmir.R11}},
		asmir.Cmp{A: asmir.Imm{Value: 0}, B: asmir.Reg{Name: asmir.R11}},
		asmir.Mov{Src: asmir.Imm{Value: 0}, Dst: asmir.Stack{Offset: -4}},
		asmir.SetCC{CC: asmir.E, Operand: asmir.Stack{Offset: -4}},
		asmir.Mov{Src: asmir.Stack{Offset: -4}, Dst: asmir.Reg{Name: asmir.AX}},
		asmir.Ret{},
	}
	assertEqual(t, instrs, want)
}

func assertEqual(t *testing.T, got, want []asmir.Instruction) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d instructions, want %d\n got: %#v\nwant: %#v", len(got), len(want), got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("instrs[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
}
