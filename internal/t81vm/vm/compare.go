package vm

import (
	"strings"

	"github.com/t81/t81vm/internal/t81vm/tisc"
)

// execCompare implements Less/LessEqual/Greater/GreaterEqual/Equal/
// NotEqual/Cmp. Both operands must carry identical tags; a mismatch traps
// IllegalInstruction. For plain integers the ordering is the usual signed
// comparison; handle-valued tags delegate to an ordering rule specific to
// the referenced entity. Enum comparisons are disallowed entirely.
func (it *Interpreter) execCompare(insn tisc.Insn) error {
	s := it.State
	tag := it.regTag(insn.B)
	if tag != it.regTag(insn.C) {
		return it.trap(TrapIllegalInstruction)
	}
	if tag == TagEnumHandle {
		return it.trap(TrapIllegalInstruction)
	}

	cmp, err := it.orderingFor(tag, it.reg(insn.B), it.reg(insn.C))
	if err != nil {
		return err
	}

	var result int64
	switch insn.Opcode {
	case tisc.OpLess:
		result = boolToInt(cmp < 0)
	case tisc.OpLessEqual:
		result = boolToInt(cmp <= 0)
	case tisc.OpGreater:
		result = boolToInt(cmp > 0)
	case tisc.OpGreaterEqual:
		result = boolToInt(cmp >= 0)
	case tisc.OpEqual:
		result = boolToInt(cmp == 0)
	case tisc.OpNotEqual:
		result = boolToInt(cmp != 0)
	case tisc.OpCmp:
		result = int64(cmp)
	}

	if insn.Opcode == tisc.OpCmp {
		it.setReg(insn.A, result, TagInt)
	} else {
		it.setReg(insn.A, result, TagInt)
	}
	s.Flags.SetFromInt64(result)
	s.PC++
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// orderingFor returns -1/0/1 comparing two tagged words of identical tag.
func (it *Interpreter) orderingFor(tag ValueTag, a, b int64) (int, error) {
	switch tag {
	case TagInt:
		return signOf(a - b), nil
	case TagFloatHandle:
		fa, ok1 := it.State.resolveFloat(it.Program.Floats, int32(a))
		fb, ok2 := it.State.resolveFloat(it.Program.Floats, int32(b))
		if !ok1 || !ok2 {
			return 0, it.trap(TrapIllegalInstruction)
		}
		switch {
		case fa < fb:
			return -1, nil
		case fa > fb:
			return 1, nil
		default:
			return 0, nil
		}
	case TagFractionHandle:
		fa, ok1 := it.State.resolveFraction(it.Program.Fractions, int32(a))
		fb, ok2 := it.State.resolveFraction(it.Program.Fractions, int32(b))
		if !ok1 || !ok2 {
			return 0, it.trap(TrapIllegalInstruction)
		}
		va, err1 := fa.ToFloat64()
		vb, err2 := fb.ToFloat64()
		if err1 != nil || err2 != nil {
			return 0, it.trap(TrapIllegalInstruction)
		}
		switch {
		case va < vb:
			return -1, nil
		case va > vb:
			return 1, nil
		default:
			return 0, nil
		}
	case TagSymbolHandle:
		sa, ok1 := it.Program.Symbol(int32(a))
		sb, ok2 := it.Program.Symbol(int32(b))
		if !ok1 || !ok2 {
			return 0, it.trap(TrapIllegalInstruction)
		}
		return strings.Compare(sa, sb), nil
	case TagOptionHandle:
		oa, ok1 := it.State.Option(int32(a))
		ob, ok2 := it.State.Option(int32(b))
		if !ok1 || !ok2 {
			return 0, it.trap(TrapIllegalInstruction)
		}
		if oa.HasValue != ob.HasValue || oa.PayloadTag != ob.PayloadTag {
			return 1, nil
		}
		return signOf(oa.Payload - ob.Payload), nil
	case TagResultHandle:
		ra, ok1 := it.State.Result(int32(a))
		rb, ok2 := it.State.Result(int32(b))
		if !ok1 || !ok2 {
			return 0, it.trap(TrapIllegalInstruction)
		}
		if ra.IsOk != rb.IsOk || ra.PayloadTag != rb.PayloadTag {
			return 1, nil
		}
		return signOf(ra.Payload - rb.Payload), nil
	default:
		return signOf(a - b), nil
	}
}

func signOf(v int64) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
