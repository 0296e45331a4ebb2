// Package emitter renders the legalized assembly IR as GNU-assembler
// (AT&T syntax) text, ready to hand to 'as'/'gcc'.
package emitter

import (
	"fmt"
	"strings"

	"its-hmny.dev/cc0/pkg/asmir"
	"its-hmny.dev/cc0/pkg/ccerr"
)

// Emit renders program as a complete assembly source file.
func Emit(program *asmir.AProgram) (string, error) {
	var out strings.Builder
	if err := emitFunction(&out, program.Function); err != nil {
		return "", err
	}
	out.WriteString("\t.section .note.GNU-stack,\"\",@progbits\n")
	return out.String(), nil
}

func emitFunction(out *strings.Builder, fn asmir.AFunction) error {
	fmt.Fprintf(out, "\t.globl %s\n", fn.Name)
	fmt.Fprintf(out, "%s:\n", fn.Name)
	out.WriteString("\tpushq %rbp\n")
	out.WriteString("\tmovq %rsp, %rbp\n")

	for _, instr := range fn.Instructions {
		if err := emitInstruction(out, instr); err != nil {
			return err
		}
	}
	return nil
}

func emitInstruction(out *strings.Builder, instr asmir.Instruction) error {
	switch node := instr.(type) {
	case asmir.Mov:
		src, err := operand4(node.Src)
		if err != nil {
			return err
		}
		dst, err := operand4(node.Dst)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\tmovl %s, %s\n", src, dst)

	case asmir.Unary:
		op, err := operand4(node.Operand)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\t%s %s\n", unaryMnemonic(node.Op), op)

	case asmir.Binary:
		src, err := operand4(node.Src)
		if err != nil {
			return err
		}
		dst, err := operand4(node.Dst)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\t%s %s, %s\n", binaryMnemonic(node.Op), src, dst)

	case asmir.Cmp:
		a, err := operand4(node.A)
		if err != nil {
			return err
		}
		b, err := operand4(node.B)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\tcmpl %s, %s\n", a, b)

	case asmir.Idiv:
		op, err := operand4(node.Operand)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\tidivl %s\n", op)

	case asmir.Cdq:
		out.WriteString("\tcdq\n")

	case asmir.Jmp:
		fmt.Fprintf(out, "\tjmp .L%s\n", node.Label)

	case asmir.JmpCC:
		fmt.Fprintf(out, "\tj%s .L%s\n", node.CC, node.Label)

	case asmir.SetCC:
		op, err := operand1(node.Operand)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\tset%s %s\n", node.CC, op)

	case asmir.Label:
		fmt.Fprintf(out, ".L%s:\n", node.Name)

	case asmir.AllocateStack:
		fmt.Fprintf(out, "\tsubq $%d, %%rsp\n", node.Bytes)

	case asmir.Ret:
		out.WriteString("\tmovq %rbp, %rsp\n")
		out.WriteString("\tpopq %rbp\n")
		out.WriteString("\tret\n")

	default:
		return ccerr.New(ccerr.Internal, "unreachable assembly instruction %T", instr)
	}
	return nil
}

// operand4 renders an operand in its 32-bit ('l' suffix) spelling.
func operand4(op asmir.Operand) (string, error) {
	switch node := op.(type) {
	case asmir.Imm:
		return fmt.Sprintf("$%d", node.Value), nil
	case asmir.Reg:
		return register4(node.Name), nil
	case asmir.Stack:
		return fmt.Sprintf("%d(%%rbp)", node.Offset), nil
	case asmir.Pseudo:
		return "", ccerr.New(ccerr.Internal, "pseudo-register %q reached the emitter", node.Name)
	default:
		return "", ccerr.New(ccerr.Internal, "unreachable operand %T", op)
	}
}

// operand1 renders an operand in the low-byte spelling SetCC requires.
func operand1(op asmir.Operand) (string, error) {
	if reg, ok := op.(asmir.Reg); ok {
		return register1(reg.Name), nil
	}
	return operand4(op)
}

func register4(r asmir.Register) string {
	switch r {
	case asmir.AX:
		return "%eax"
	case asmir.DX:
		return "%edx"
	case asmir.R10:
		return "%r10d"
	case asmir.R11:
		return "%r11d"
	default:
		return "%?"
	}
}

func register1(r asmir.Register) string {
	switch r {
	case asmir.AX:
		return "%al"
	case asmir.DX:
		return "%dl"
	case asmir.R10:
		return "%r10b"
	case asmir.R11:
		return "%r11b"
	default:
		return "%?"
	}
}

func unaryMnemonic(op asmir.UnaryOp) string {
	switch op {
	case asmir.Neg:
		return "negl"
	case asmir.Not:
		return "notl"
	default:
		return "?"
	}
}

func binaryMnemonic(op asmir.BinaryOp) string {
	switch op {
	case asmir.Add:
		return "addl"
	case asmir.Sub:
		return "subl"
	case asmir.Mul:
		return "imull"
	default:
		return "?"
	}
}
