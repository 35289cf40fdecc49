package vm

import (
	"github.com/t81/t81vm/internal/t81vm/ternary"
	"github.com/t81/t81vm/internal/t81vm/tisc"
)

// execFloatBinOp implements FAdd/FSub/FMul/FDiv over float-handle operands,
// interning the result into the runtime float pool.
func (it *Interpreter) execFloatBinOp(insn tisc.Insn) error {
	s := it.State
	if err := it.requireTag(insn.B, TagFloatHandle); err != nil {
		return err
	}
	if err := it.requireTag(insn.C, TagFloatHandle); err != nil {
		return err
	}
	fa, ok1 := s.resolveFloat(it.Program.Floats, int32(it.reg(insn.B)))
	fb, ok2 := s.resolveFloat(it.Program.Floats, int32(it.reg(insn.C)))
	if !ok1 || !ok2 {
		return it.trap(TrapIllegalInstruction)
	}
	a := ternary.NewFloat(fa)
	b := ternary.NewFloat(fb)
	var result ternary.Float
	switch insn.Opcode {
	case tisc.OpFAdd:
		result = a.Add(b)
	case tisc.OpFSub:
		result = a.Sub(b)
	case tisc.OpFMul:
		result = a.Mul(b)
	case tisc.OpFDiv:
		if fb == 0 {
			s.recordAxionEvent("FDiv", TagFloatHandle, 0, "Deny", "division by zero")
			return it.trap(TrapDivideByZero)
		}
		result = a.Div(b)
	}
	handle := s.internFloat(len(it.Program.Floats), result.Value)
	it.setReg(insn.A, handle, TagFloatHandle)
	s.PC++
	return nil
}

// execFracBinOp implements FracAdd/FracSub/FracMul/FracDiv over
// fraction-handle operands, interning the result into the runtime
// fraction pool.
func (it *Interpreter) execFracBinOp(insn tisc.Insn) error {
	s := it.State
	if err := it.requireTag(insn.B, TagFractionHandle); err != nil {
		return err
	}
	if err := it.requireTag(insn.C, TagFractionHandle); err != nil {
		return err
	}
	fa, ok1 := s.resolveFraction(it.Program.Fractions, int32(it.reg(insn.B)))
	fb, ok2 := s.resolveFraction(it.Program.Fractions, int32(it.reg(insn.C)))
	if !ok1 || !ok2 {
		return it.trap(TrapIllegalInstruction)
	}
	var result ternary.Fraction
	var err error
	switch insn.Opcode {
	case tisc.OpFracAdd:
		result, err = fa.Add(fb)
	case tisc.OpFracSub:
		result, err = fa.Sub(fb)
	case tisc.OpFracMul:
		result, err = fa.Mul(fb)
	case tisc.OpFracDiv:
		result, err = fa.Div(fb)
	}
	if err != nil {
		s.recordAxionEvent(insn.Opcode.String(), TagFractionHandle, 0, "Deny", "division by zero")
		return it.trap(TrapDivideByZero)
	}
	handle := s.internFraction(len(it.Program.Fractions), result)
	it.setReg(insn.A, handle, TagFractionHandle)
	s.PC++
	return nil
}
