package vm

import (
	"github.com/t81/t81vm/internal/t81vm/ternary"
	"github.com/t81/t81vm/internal/t81vm/tisc"
)

// execConvert implements I2F/F2I/I2Frac/Frac2I: integer <-> float/fraction
// handle conversions. Converted values are appended to a runtime pool kept
// alongside (not inside) the loaded program's immutable static pools.
func (it *Interpreter) execConvert(insn tisc.Insn) error {
	s := it.State
	switch insn.Opcode {
	case tisc.OpI2F:
		if err := it.requireTag(insn.B, TagInt); err != nil {
			return err
		}
		handle := s.internFloat(len(it.Program.Floats), float64(it.reg(insn.B)))
		it.setReg(insn.A, handle, TagFloatHandle)
	case tisc.OpF2I:
		if err := it.requireTag(insn.B, TagFloatHandle); err != nil {
			return err
		}
		f, ok := s.resolveFloat(it.Program.Floats, int32(it.reg(insn.B)))
		if !ok {
			return it.trap(TrapIllegalInstruction)
		}
		v := int64(f)
		it.setReg(insn.A, v, TagInt)
		s.Flags.SetFromInt64(v)
	case tisc.OpI2Frac:
		if err := it.requireTag(insn.B, TagInt); err != nil {
			return err
		}
		frac, ferr := ternary.NewFraction(it.reg(insn.B), 1)
		if ferr != nil {
			return it.trap(TrapIllegalInstruction)
		}
		handle := s.internFraction(len(it.Program.Fractions), frac)
		it.setReg(insn.A, handle, TagFractionHandle)
	case tisc.OpFrac2I:
		if err := it.requireTag(insn.B, TagFractionHandle); err != nil {
			return err
		}
		f, ok := s.resolveFraction(it.Program.Fractions, int32(it.reg(insn.B)))
		if !ok {
			return it.trap(TrapIllegalInstruction)
		}
		fv, ferr := f.ToFloat64()
		if ferr != nil {
			return it.trap(TrapIllegalInstruction)
		}
		v := int64(fv)
		it.setReg(insn.A, v, TagInt)
		s.Flags.SetFromInt64(v)
	}
	s.PC++
	return nil
}
