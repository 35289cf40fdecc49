package vm

import (
	"fmt"

	"github.com/t81/t81vm/internal/t81vm/axion"
	"github.com/t81/t81vm/internal/t81vm/tisc"
)

// execAxionOp implements AxRead/AxSet/AxVerify. Unlike the blanket
// per-step Axion gate in Step, these instructions perform their own,
// second Axion evaluation scoped to the specific memory action (or, for
// AxVerify, to no action at all) and decide for themselves whether to
// commit or trap.
func (it *Interpreter) execAxionOp(insn tisc.Insn) error {
	s := it.State
	switch insn.Opcode {
	case tisc.OpAxRead:
		addr := it.reg(insn.B)
		seg, err := it.segmentGate(addr, "AxRead")
		if err != nil {
			return err
		}
		reason := fmt.Sprintf("AxRead guard segment=%s addr=%d", seg, addr)
		verdict := it.Engine.Evaluate(axion.SyscallContext{PC: s.PC, NextOpcode: "AxRead", Reasons: s.reasons()})
		s.recordAxionEvent("AxRead", TagInt, addr, verdict.Kind.String(), reason)
		if verdict.Kind == axion.Deny {
			return it.trap(TrapSecurityFault)
		}
		it.setReg(insn.A, s.Memory[addr], s.MemoryTags[addr])
		s.PC++
		return nil

	case tisc.OpAxSet:
		addr := it.reg(insn.A)
		seg, err := it.segmentGate(addr, "AxSet")
		if err != nil {
			return err
		}
		reason := fmt.Sprintf("AxSet guard segment=%s addr=%d", seg, addr)
		verdict := it.Engine.Evaluate(axion.SyscallContext{PC: s.PC, NextOpcode: "AxSet", Reasons: s.reasons()})
		s.recordAxionEvent("AxSet", TagInt, addr, verdict.Kind.String(), reason)
		if verdict.Kind == axion.Deny {
			return it.trap(TrapSecurityFault)
		}
		s.Memory[addr] = it.reg(insn.B)
		s.MemoryTags[addr] = it.regTag(insn.B)
		s.PC++
		return nil

	case tisc.OpAxVerify:
		verdict := it.Engine.Evaluate(axion.SyscallContext{PC: s.PC, NextOpcode: "AxVerify", Reasons: s.reasons()})
		s.recordAxionEvent("AxVerify", TagInt, 0, verdict.Kind.String(), "AxVerify")
		v := boolToInt(verdict.Kind == axion.Defer)
		it.setReg(insn.A, v, TagInt)
		s.Flags.SetFromInt64(v)
		s.PC++
		return nil
	}
	return it.trap(TrapIllegalInstruction)
}
