package emitter_test

import (
	"strings"
	"testing"

	"its-hmny.dev/cc0/pkg/asmir"
	"its-hmny.dev/cc0/pkg/emitter"
)

func TestEmitReturnConstant(t *testing.T) {
	program := &asmir.AProgram{Function: asmir.AFunction{
		Name: "main",
		Instructions: []asmir.Instruction{
			asmir.AllocateStack{Bytes: 0},
			asmir.Mov{Src: asmir.Imm{Value: 2}, Dst: asmir.Reg{Name: asmir.AX}},
			asmir.Ret{},
		},
	}}

	out, err := emitter.Emit(program)
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	for _, want := range []string{
		"\t.globl main\n",
		"main:\n",
		"\tpushq %rbp\n",
		"\tmovq %rsp, %rbp\n",
		"\tsubq $0, %rsp\n",
		"\tmovl $2, %eax\n",
		"\tmovq %rbp, %rsp\n",
		"\tpopq %rbp\n",
		"\tret\n",
		"\t.section .note.GNU-stack,\"\",@progbits\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\nfull output:\n%s", want, out)
		}
	}
}

func TestEmitLabelsHaveNoLeadingTab(t *testing.T) {
	program := &asmir.AProgram{Function: asmir.AFunction{
		Name: "main",
		Instructions: []asmir.Instruction{
			asmir.Jmp{Label: "end_0"},
			asmir.Label{Name: "end_0"},
			asmir.Ret{},
		},
	}}

	out, err := emitter.Emit(program)
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if !strings.Contains(out, "\tjmp .Lend_0\n") {
		t.Errorf("expected jmp to reference .Lend_0, got:\n%s", out)
	}
	if !strings.Contains(out, ".Lend_0:\n") {
		t.Errorf("expected label definition without a leading tab, got:\n%s", out)
	}
}

func TestEmitSetCCUsesByteRegister(t *testing.T) {
	program := &asmir.AProgram{Function: asmir.AFunction{
		Name: "main",
		Instructions: []asmir.Instruction{
			asmir.Cmp{A: asmir.Imm{Value: 0}, B: asmir.Reg{Name: asmir.R11}},
			asmir.SetCC{CC: asmir.E, Operand: asmir.Reg{Name: asmir.AX}},
			asmir.Ret{},
		},
	}}

	out, err := emitter.Emit(program)
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if !strings.Contains(out, "\tsete %al\n") {
		t.Errorf("expected 'sete %%al', got:\n%s", out)
	}
}

func TestEmitConditionCodeMnemonics(t *testing.T) {
	cases := []struct {
		cc   asmir.CondCode
		jump string
		set  string
	}{
		{asmir.E, "je", "sete"},
		{asmir.NE, "jne", "setne"},
		{asmir.L, "jl", "setl"},
		{asmir.LE, "jle", "setle"},
		{asmir.G, "jg", "setg"},
		{asmir.GE, "jge", "setge"},
	}
	for _, c := range cases {
		program := &asmir.AProgram{Function: asmir.AFunction{
			Name: "main",
			Instructions: []asmir.Instruction{
				asmir.JmpCC{CC: c.cc, Label: "l"},
				asmir.SetCC{CC: c.cc, Operand: asmir.Reg{Name: asmir.AX}},
				asmir.Ret{},
			},
		}}
		out, err := emitter.Emit(program)
		if err != nil {
			t.Fatalf("Emit() error = %v", err)
		}
		if !strings.Contains(out, "\t"+c.jump+" .Ll\n") {
			t.Errorf("cc=%v: expected jump mnemonic %q, got:\n%s", c.cc, c.jump, out)
		}
		if !strings.Contains(out, "\t"+c.set+" %al\n") {
			t.Errorf("cc=%v: expected set mnemonic %q, got:\n%s", c.cc, c.set, out)
		}
	}
}

func TestEmitRejectsPseudoOperand(t *testing.T) {
	program := &asmir.AProgram{Function: asmir.AFunction{
		Name: "main",
		Instructions: []asmir.Instruction{
			asmir.Mov{Src: asmir.Imm{Value: 1}, Dst: asmir.Pseudo{Name: "x"}},
			asmir.Ret{},
		},
	}}
	if _, err := emitter.Emit(program); err == nil {
		t.Fatal("expected an error for a Pseudo operand reaching the emitter, got nil")
	}
}
