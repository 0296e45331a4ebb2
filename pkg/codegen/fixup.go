package codegen

import "its-hmny.dev/cc0/pkg/asmir"

const stackSlotBytes = 4
const stackAlignBytes = 16

// resolvePseudos walks fn's instructions in place, replacing every
// asmir.Pseudo operand with a stack slot. Allocation is keyed on the
// pseudo's name so that repeated references to the same temporary or
// variable always resolve to the same offset. It returns the 16-byte
// aligned frame size to reserve via AllocateStack.
func resolvePseudos(fn *asmir.AFunction) int {
	slots := map[string]int{}
	nextSlot := 0

	resolve := func(op asmir.Operand) asmir.Operand {
		pseudo, ok := op.(asmir.Pseudo)
		if !ok {
			return op
		}
		slot, seen := slots[pseudo.Name]
		if !seen {
			nextSlot++
			slot = nextSlot
			slots[pseudo.Name] = slot
		}
		return asmir.Stack{Offset: -slot * stackSlotBytes}
	}

	for i, instr := range fn.Instructions {
		fn.Instructions[i] = resolveOperands(instr, resolve)
	}

	frameBytes := nextSlot * stackSlotBytes
	return alignUp(frameBytes, stackAlignBytes)
}

func alignUp(n, align int) int {
	if n%align == 0 {
		return n
	}
	return n + (align - n%align)
}

// resolveOperands rewrites every operand slot of instr via resolve,
// returning a (possibly) new instruction value; Instruction values are
// immutable structs, so resolution always produces a fresh instruction.
func resolveOperands(instr asmir.Instruction, resolve func(asmir.Operand) asmir.Operand) asmir.Instruction {
	switch node := instr.(type) {
	case asmir.Mov:
		return asmir.Mov{Src: resolve(node.Src), Dst: resolve(node.Dst)}
	case asmir.Unary:
		return asmir.Unary{Op: node.Op, Operand: resolve(node.Operand)}
	case asmir.Binary:
		return asmir.Binary{Op: node.Op, Src: resolve(node.Src), Dst: resolve(node.Dst)}
	case asmir.Cmp:
		return asmir.Cmp{A: resolve(node.A), B: resolve(node.B)}
	case asmir.Idiv:
		return asmir.Idiv{Operand: resolve(node.Operand)}
	case asmir.SetCC:
		return asmir.SetCC{CC: node.CC, Operand: resolve(node.Operand)}
	default:
		// Cdq, Jmp, JmpCC, Label, AllocateStack, Ret carry no operands.
		return instr
	}
}

// legalize rewrites instructions whose operand shape the machine cannot
// encode into equivalent sequences through the R10/R11 scratch registers,
// per the rules in spec.md ss4.4.
func legalize(instrs []asmir.Instruction) []asmir.Instruction {
	out := make([]asmir.Instruction, 0, len(instrs))
	for _, instr := range instrs {
		out = append(out, legalizeOne(instr)...)
	}
	return out
}

func legalizeOne(instr asmir.Instruction) []asmir.Instruction {
	switch node := instr.(type) {
	case asmir.Mov:
		if isStack(node.Src) && isStack(node.Dst) {
			return []asmir.Instruction{
				asmir.Mov{Src: node.Src, Dst: asmir.Reg{Name: asmir.R10}},
				asmir.Mov{Src: asmir.Reg{Name: asmir.R10}, Dst: node.Dst},
			}
		}
		return []asmir.Instruction{node}

	case asmir.Idiv:
		if imm, ok := node.Operand.(asmir.Imm); ok {
			return []asmir.Instruction{
				asmir.Mov{Src: imm, Dst: asmir.Reg{Name: asmir.R10}},
				asmir.Idiv{Operand: asmir.Reg{Name: asmir.R10}},
			}
		}
		return []asmir.Instruction{node}

	case asmir.Binary:
		switch node.Op {
		case asmir.Add, asmir.Sub:
			if isStack(node.Src) && isStack(node.Dst) {
				return []asmir.Instruction{
					asmir.Mov{Src: node.Src, Dst: asmir.Reg{Name: asmir.R10}},
					asmir.Binary{Op: node.Op, Src: asmir.Reg{Name: asmir.R10}, Dst: node.Dst},
				}
			}
		case asmir.Mul:
			if isStack(node.Dst) {
				return []asmir.Instruction{
					asmir.Mov{Src: node.Dst, Dst: asmir.Reg{Name: asmir.R11}},
					asmir.Binary{Op: asmir.Mul, Src: node.Src, Dst: asmir.Reg{Name: asmir.R11}},
					asmir.Mov{Src: asmir.Reg{Name: asmir.R11}, Dst: node.Dst},
				}
			}
		}
		return []asmir.Instruction{node}

	case asmir.Cmp:
		// An immediate in the second position is illegal first; a
		// two-Stack comparison is illegal second. The two rewrites never
		// apply simultaneously since A is never Stack-and-Stack with an
		// Imm B at once.
		if _, ok := node.B.(asmir.Imm); ok {
			return []asmir.Instruction{
				asmir.Mov{Src: node.B, Dst: asmir.Reg{Name: asmir.R11}},
				asmir.Cmp{A: node.A, B: asmir.Reg{Name: asmir.R11}},
			}
		}
		if isStack(node.A) && isStack(node.B) {
			return []asmir.Instruction{
				asmir.Mov{Src: node.A, Dst: asmir.Reg{Name: asmir.R10}},
				asmir.Cmp{A: asmir.Reg{Name: asmir.R10}, B: node.B},
			}
		}
		return []asmir.Instruction{node}

	default:
		return []asmir.Instruction{node}
	}
}

func isStack(op asmir.Operand) bool {
	_, ok := op.(asmir.Stack)
	return ok
}
