package tacker

import (
	"its-hmny.dev/cc0/pkg/ast"
	"its-hmny.dev/cc0/pkg/ccerr"
	"its-hmny.dev/cc0/pkg/tac"
)

// lowerExpr lowers one AST expression and returns the Val naming its
// result, per the rules in spec.md ss4.3.
func (t *Tacker) lowerExpr(expr ast.Expression) (tac.Val, error) {
	switch node := expr.(type) {
	case ast.Constant:
		return tac.Constant{Value: node.Value}, nil

	case ast.Var:
		return tac.Var{Name: node.Name}, nil

	case ast.Unary:
		return t.lowerUnary(node)

	case ast.Binary:
		switch node.Op {
		case ast.And:
			return t.lowerShortCircuitAnd(node)
		case ast.Or:
			return t.lowerShortCircuitOr(node)
		default:
			return t.lowerBinary(node)
		}

	case ast.Assignment:
		return t.lowerAssignment(node)

	default:
		return nil, ccerr.New(ccerr.Internal, "unrecognized expression %T", expr)
	}
}

func (t *Tacker) lowerUnary(node ast.Unary) (tac.Val, error) {
	src, err := t.lowerExpr(node.Operand)
	if err != nil {
		return nil, err
	}
	dst := t.names.FreshTemp()
	t.emit(tac.Unary{Op: node.Op, Src: src, Dst: dst})
	return dst, nil
}

func (t *Tacker) lowerBinary(node ast.Binary) (tac.Val, error) {
	v1, err := t.lowerExpr(node.Left)
	if err != nil {
		return nil, err
	}
	v2, err := t.lowerExpr(node.Right)
	if err != nil {
		return nil, err
	}
	dst := t.names.FreshTemp()
	t.emit(tac.Binary{Op: node.Op, Src1: v1, Src2: v2, Dst: dst})
	return dst, nil
}

// lowerShortCircuitAnd synthesizes the branch sequence for '&&': the
// right-hand side is only evaluated when the left-hand side is non-zero,
// matching C's sequencing rules.
func (t *Tacker) lowerShortCircuitAnd(node ast.Binary) (tac.Val, error) {
	shortLabel := t.names.FreshLabel("false_label")
	endLabel := t.names.FreshLabel("end")

	v1, err := t.lowerExpr(node.Left)
	if err != nil {
		return nil, err
	}
	t.emit(tac.JumpIfZero{Val: v1, Label: shortLabel})

	v2, err := t.lowerExpr(node.Right)
	if err != nil {
		return nil, err
	}
	t.emit(tac.JumpIfZero{Val: v2, Label: shortLabel})

	dst := t.names.FreshTemp()
	t.emit(tac.Copy{Src: tac.Constant{Value: 1}, Dst: dst})
	t.emit(tac.Jump{Label: endLabel})
	t.emit(tac.Label{Name: shortLabel})
	t.emit(tac.Copy{Src: tac.Constant{Value: 0}, Dst: dst})
	t.emit(tac.Label{Name: endLabel})
	return dst, nil
}

// lowerShortCircuitOr is the symmetric counterpart of lowerShortCircuitAnd,
// using JumpIfNotZero and the flipped 0/1 constants.
func (t *Tacker) lowerShortCircuitOr(node ast.Binary) (tac.Val, error) {
	shortLabel := t.names.FreshLabel("true_label")
	endLabel := t.names.FreshLabel("end")

	v1, err := t.lowerExpr(node.Left)
	if err != nil {
		return nil, err
	}
	t.emit(tac.JumpIfNotZero{Val: v1, Label: shortLabel})

	v2, err := t.lowerExpr(node.Right)
	if err != nil {
		return nil, err
	}
	t.emit(tac.JumpIfNotZero{Val: v2, Label: shortLabel})

	dst := t.names.FreshTemp()
	t.emit(tac.Copy{Src: tac.Constant{Value: 0}, Dst: dst})
	t.emit(tac.Jump{Label: endLabel})
	t.emit(tac.Label{Name: shortLabel})
	t.emit(tac.Copy{Src: tac.Constant{Value: 1}, Dst: dst})
	t.emit(tac.Label{Name: endLabel})
	return dst, nil
}

// lowerAssignment lowers 'lvalue = rvalue'. The AST parser already rejects
// non-Var lvalues, but this is the semantic backstop the spec calls for:
// assignment lowering is where the invariant is actually enforced.
func (t *Tacker) lowerAssignment(node ast.Assignment) (tac.Val, error) {
	target, ok := node.Lvalue.(ast.Var)
	if !ok {
		return nil, ccerr.New(ccerr.Semantic, "assignment target is not a variable")
	}
	val, err := t.lowerExpr(node.Rvalue)
	if err != nil {
		return nil, err
	}
	dst := tac.Var{Name: target.Name}
	t.emit(tac.Copy{Src: val, Dst: dst})
	return dst, nil
}
