// Package codegen lowers three-address code into the abstract x86-64
// assembly IR and legalizes it for encoding, grounded on the teacher's
// table-driven pkg/hack.CodeGenerator: one input list walked into one output
// list, with a separate, ordered function for each translation stage.
package codegen

import (
	"its-hmny.dev/cc0/pkg/ast"
	"its-hmny.dev/cc0/pkg/asmir"
	"its-hmny.dev/cc0/pkg/ccerr"
	"its-hmny.dev/cc0/pkg/tac"
)

// Generate lowers one TProgram to its AProgram counterpart and legalizes
// the result in place: pass 1 resolves Pseudo operands to Stack slots and
// prepends AllocateStack; pass 2 rewrites instructions whose operand shape
// the machine cannot encode.
func Generate(program *tac.TProgram) (*asmir.AProgram, error) {
	fn, err := lowerFunction(program.Function)
	if err != nil {
		return nil, err
	}

	frameBytes := resolvePseudos(fn)
	fn.Instructions = append([]asmir.Instruction{asmir.AllocateStack{Bytes: frameBytes}}, fn.Instructions...)
	fn.Instructions = legalize(fn.Instructions)

	return &asmir.AProgram{Function: *fn}, nil
}

// ----------------------------------------------------------------------------
// Pass 0: TAC -> asmir

func lowerFunction(fn tac.TFunction) (*asmir.AFunction, error) {
	out := &asmir.AFunction{Name: fn.Name}
	for _, instr := range fn.Instructions {
		lowered, err := lowerInstruction(instr)
		if err != nil {
			return nil, err
		}
		out.Instructions = append(out.Instructions, lowered...)
	}
	return out, nil
}

func lowerInstruction(instr tac.Instruction) ([]asmir.Instruction, error) {
	switch node := instr.(type) {
	case tac.Return:
		return []asmir.Instruction{
			asmir.Mov{Src: lowerVal(node.Val), Dst: asmir.Reg{Name: asmir.AX}},
			asmir.Ret{},
		}, nil

	case tac.Unary:
		return lowerUnary(node)

	case tac.Binary:
		return lowerBinary(node)

	case tac.Copy:
		return []asmir.Instruction{asmir.Mov{Src: lowerVal(node.Src), Dst: lowerVal(node.Dst)}}, nil

	case tac.Jump:
		return []asmir.Instruction{asmir.Jmp{Label: node.Label}}, nil

	case tac.JumpIfZero:
		return []asmir.Instruction{
			asmir.Cmp{A: asmir.Imm{Value: 0}, B: lowerVal(node.Val)},
			asmir.JmpCC{CC: asmir.E, Label: node.Label},
		}, nil

	case tac.JumpIfNotZero:
		return []asmir.Instruction{
			asmir.Cmp{A: asmir.Imm{Value: 0}, B: lowerVal(node.Val)},
			asmir.JmpCC{CC: asmir.NE, Label: node.Label},
		}, nil

	case tac.Label:
		return []asmir.Instruction{asmir.Label{Name: node.Name}}, nil

	default:
		return nil, ccerr.New(ccerr.Internal, "unrecognized TAC instruction %T", instr)
	}
}

func lowerUnary(node tac.Unary) ([]asmir.Instruction, error) {
	src, dst := lowerVal(node.Src), lowerVal(node.Dst)

	if node.Op == ast.Not {
		// Logical not lowers to a comparison against zero, not a machine
		// unary instruction: there is no single 'not' mnemonic for "is
		// this value zero".
		return []asmir.Instruction{
			asmir.Cmp{A: asmir.Imm{Value: 0}, B: src},
			asmir.Mov{Src: asmir.Imm{Value: 0}, Dst: dst},
			asmir.SetCC{CC: asmir.E, Operand: dst},
		}, nil
	}

	op, err := unaryOpOf(node.Op)
	if err != nil {
		return nil, err
	}
	return []asmir.Instruction{
		asmir.Mov{Src: src, Dst: dst},
		asmir.Unary{Op: op, Operand: dst},
	}, nil
}

func unaryOpOf(op ast.UnaryOp) (asmir.UnaryOp, error) {
	switch op {
	case ast.Complement:
		return asmir.Not, nil
	case ast.Negate:
		return asmir.Neg, nil
	default:
		return 0, ccerr.New(ccerr.Internal, "unary operator %v has no direct asmir mapping", op)
	}
}

func lowerBinary(node tac.Binary) ([]asmir.Instruction, error) {
	src1, src2, dst := lowerVal(node.Src1), lowerVal(node.Src2), lowerVal(node.Dst)

	switch node.Op {
	case ast.Add, ast.Sub, ast.Mul:
		op := map[ast.BinaryOp]asmir.BinaryOp{ast.Add: asmir.Add, ast.Sub: asmir.Sub, ast.Mul: asmir.Mul}[node.Op]
		return []asmir.Instruction{
			asmir.Mov{Src: src1, Dst: dst},
			asmir.Binary{Op: op, Src: src2, Dst: dst},
		}, nil

	case ast.Div:
		return []asmir.Instruction{
			asmir.Mov{Src: src1, Dst: asmir.Reg{Name: asmir.AX}},
			asmir.Cdq{},
			asmir.Idiv{Operand: src2},
			asmir.Mov{Src: asmir.Reg{Name: asmir.AX}, Dst: dst},
		}, nil

	case ast.Rem:
		return []asmir.Instruction{
			asmir.Mov{Src: src1, Dst: asmir.Reg{Name: asmir.AX}},
			asmir.Cdq{},
			asmir.Idiv{Operand: src2},
			asmir.Mov{Src: asmir.Reg{Name: asmir.DX}, Dst: dst},
		}, nil

	case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge:
		cc, err := condCodeOf(node.Op)
		if err != nil {
			return nil, err
		}
		return []asmir.Instruction{
			asmir.Cmp{A: src2, B: src1},
			asmir.Mov{Src: asmir.Imm{Value: 0}, Dst: dst},
			asmir.SetCC{CC: cc, Operand: dst},
		}, nil

	default:
		return nil, ccerr.New(ccerr.Internal, "binary operator %v has no direct asmir mapping", node.Op)
	}
}

func condCodeOf(op ast.BinaryOp) (asmir.CondCode, error) {
	switch op {
	case ast.Eq:
		return asmir.E, nil
	case ast.Ne:
		return asmir.NE, nil
	case ast.Lt:
		return asmir.L, nil
	case ast.Le:
		return asmir.LE, nil
	case ast.Gt:
		return asmir.G, nil
	case ast.Ge:
		return asmir.GE, nil
	default:
		return 0, ccerr.New(ccerr.Internal, "operator %v is not a comparison", op)
	}
}

func lowerVal(v tac.Val) asmir.Operand {
	switch node := v.(type) {
	case tac.Constant:
		return asmir.Imm{Value: node.Value}
	case tac.Var:
		return asmir.Pseudo{Name: node.Name}
	default:
		panic("unrecognized tac.Val")
	}
}
