// Package vm implements the TISC interpreter: state, segmented memory,
// typed value construction, and the Axion-gated step loop.
package vm

import (
	"encoding/hex"
	"fmt"

	"github.com/t81/t81vm/internal/t81vm/axion"
	"github.com/t81/t81vm/internal/t81vm/ternary"
	"github.com/t81/t81vm/internal/t81vm/tisc"
)

// Interpreter binds a loaded Program, its State, and an Axion Engine, and
// drives the step loop.
type Interpreter struct {
	State   *State
	Program *tisc.Program
	Engine  axion.Engine
}

// Config tunes the segmented memory's non-code segment sizes.
type Config struct {
	StackWords  int64
	HeapWords   int64
	TensorWords int64
	MetaWords   int64
}

// DefaultConfig returns the segment sizes used by the original
// implementation's compile-time constants.
func DefaultConfig() Config {
	return Config{
		StackWords:  DefaultStackWords,
		HeapWords:   DefaultHeapWords,
		TensorWords: DefaultTensorWords,
		MetaWords:   DefaultMetaWords,
	}
}

// NewInterpreter loads a program with the given Axion engine (nil selects
// NoPolicyEngine) and memory configuration, laying out the Code segment to
// exactly fit the program's instruction count.
func NewInterpreter(program *tisc.Program, engine axion.Engine, cfg Config) (*Interpreter, error) {
	if err := program.Validate(); err != nil {
		return nil, err
	}
	layout := NewMemoryLayout(int64(len(program.Insns)), cfg.StackWords, cfg.HeapWords, cfg.TensorWords, cfg.MetaWords)
	state := NewState(layout, int64(len(program.Insns)))
	if engine == nil {
		engine = axion.NewNoPolicyEngine()
	}
	it := &Interpreter{State: state, Program: program, Engine: engine}

	digest := ProgramDigest(program)
	state.recordAxionEvent("load", TagInt, 0, "Allow", "program attestation digest="+hex.EncodeToString(digest[:]))

	for _, hint := range program.Meta.LoopHints {
		state.recordAxionEvent("load", TagInt, 0, "Allow", hint)
	}

	if program.Meta.MatchMetadataText != "" {
		state.recordAxionEvent("load", TagInt, 0, "Allow", "match metadata: "+program.Meta.MatchMetadataText)
	}
	return it, nil
}

// Halted reports whether the VM reached a terminal Halted state.
func (it *Interpreter) Halted() bool { return it.State.Halted }

// TrapKind reports the trap the VM terminated with, or TrapNone if it has
// not trapped.
func (it *Interpreter) TrapKind() Trap { return it.State.TrapKind }

// trap transitions the VM to Trapped(kind) and records the trap's
// exit-code-bearing state; the caller has already emitted any relevant
// bounds/fault reason.
func (it *Interpreter) trap(kind Trap) error {
	it.State.Trapped = true
	it.State.TrapKind = kind
	return fmt.Errorf("vm: trapped: %s", kind)
}

// Step executes exactly one instruction, including its pre-instruction
// Axion gate and the implicit Halt check at end-of-code. It returns nil on
// a successful non-terminal step; once Halted or Trapped it is an error to
// call Step again.
func (it *Interpreter) Step() error {
	s := it.State
	if s.Halted || s.Trapped {
		return fmt.Errorf("vm: step called on terminal state")
	}

	if s.PC >= s.ProgramSize {
		verdict := it.Engine.Evaluate(axion.SyscallContext{
			PC: s.PC, NextOpcode: "Halt", Reasons: s.reasons(),
		})
		if verdict.Kind == axion.Deny {
			s.recordAxionEvent("Halt", TagInt, s.PC, "Deny", verdict.Reason)
			return it.trap(TrapSecurityFault)
		}
		s.recordAxionEvent("Halt", TagInt, s.PC, "Allow", verdict.Reason)
		s.Halted = true
		return nil
	}

	insn := it.Program.Insns[s.PC]
	nextOpcode := insn.Opcode.String()
	verdict := it.Engine.Evaluate(axion.SyscallContext{
		PC: s.PC, NextOpcode: nextOpcode, Reasons: s.reasons(),
	})
	if verdict.Kind == axion.Deny {
		s.recordAxionEvent(nextOpcode, TagInt, s.PC, "Deny", verdict.Reason)
		return it.trap(TrapSecurityFault)
	}

	if err := it.execute(insn); err != nil {
		return err
	}
	if s.Halted || s.Trapped {
		return nil
	}
	s.tickGCInterval()
	return nil
}

// RunToHalt steps up to maxSteps times or until a terminal state. Reaching
// the step budget without terminating is not a trap — it leaves the VM
// Ready so a caller can resume.
func (it *Interpreter) RunToHalt(maxSteps int64) error {
	for i := int64(0); i < maxSteps; i++ {
		if it.State.Halted || it.State.Trapped {
			return nil
		}
		if err := it.Step(); err != nil {
			if it.State.Trapped {
				return nil
			}
			return err
		}
	}
	return nil
}

func (it *Interpreter) reg(i int32) int64      { return it.State.Registers[i] }
func (it *Interpreter) regTag(i int32) ValueTag { return it.State.RegisterTags[i] }
func (it *Interpreter) setReg(i int32, v int64, tag ValueTag) {
	it.State.Registers[i] = v
	it.State.RegisterTags[i] = tag
}

// requireTag traps IllegalInstruction if register i does not carry tag t.
func (it *Interpreter) requireTag(i int32, t ValueTag) error {
	if it.regTag(i) != t {
		return it.trap(TrapIllegalInstruction)
	}
	return nil
}

func intToTrit(v int64) ternary.TritInt { return ternary.FromInt64(v, 2) }

func tritToInt(t ternary.TritInt) (int64, error) { return t.ToInt64() }

// execute dispatches one instruction by opcode. It returns a non-nil error
// only when the VM has trapped (the error itself is advisory; callers
// should inspect State.TrapKind).
func (it *Interpreter) execute(insn tisc.Insn) error {
	s := it.State
	switch insn.Opcode {
	case tisc.OpNop:
		s.PC++
	case tisc.OpHalt:
		s.recordAxionEvent("Halt", TagInt, s.PC, "Allow", "halt instruction")
		s.Halted = true
	case tisc.OpMov:
		it.setReg(insn.A, it.reg(insn.B), it.regTag(insn.B))
		s.PC++
	case tisc.OpLoadImm:
		if err := it.execLoadImm(insn); err != nil {
			return err
		}
	case tisc.OpLoad:
		if err := it.execLoad(insn); err != nil {
			return err
		}
	case tisc.OpStore:
		if err := it.execStore(insn); err != nil {
			return err
		}
	case tisc.OpAdd, tisc.OpSub, tisc.OpMul:
		if err := it.execIntBinOp(insn); err != nil {
			return err
		}
	case tisc.OpDiv, tisc.OpMod:
		if err := it.execIntDivMod(insn); err != nil {
			return err
		}
	case tisc.OpNeg:
		if err := it.requireTag(insn.B, TagInt); err != nil {
			return err
		}
		v := -it.reg(insn.B)
		it.setReg(insn.A, v, TagInt)
		s.Flags.SetFromInt64(v)
		s.PC++
	case tisc.OpInc, tisc.OpDec:
		if err := it.requireTag(insn.A, TagInt); err != nil {
			return err
		}
		delta := int64(1)
		if insn.Opcode == tisc.OpDec {
			delta = -1
		}
		v := it.reg(insn.A) + delta
		it.setReg(insn.A, v, TagInt)
		s.Flags.SetFromInt64(v)
		s.PC++
	case tisc.OpPush:
		if err := it.execPush(insn); err != nil {
			return err
		}
	case tisc.OpPop:
		if err := it.execPop(insn); err != nil {
			return err
		}
	case tisc.OpStackAlloc:
		if err := it.execStackAlloc(insn); err != nil {
			return err
		}
	case tisc.OpStackFree:
		if err := it.execStackFree(insn); err != nil {
			return err
		}
	case tisc.OpHeapAlloc:
		if err := it.execHeapAlloc(insn); err != nil {
			return err
		}
	case tisc.OpHeapFree:
		if err := it.execHeapFree(insn); err != nil {
			return err
		}
	case tisc.OpJump:
		s.PC = int64(insn.A)
	case tisc.OpJumpIfZero:
		if err := it.execCondJump(insn, s.Flags.Zero); err != nil {
			return err
		}
	case tisc.OpJumpIfNotZero:
		if err := it.execCondJump(insn, !s.Flags.Zero); err != nil {
			return err
		}
	case tisc.OpJumpIfNegative:
		if err := it.execCondJump(insn, s.Flags.Negative); err != nil {
			return err
		}
	case tisc.OpJumpIfPositive:
		if err := it.execCondJump(insn, s.Flags.Positive); err != nil {
			return err
		}
	case tisc.OpLess, tisc.OpLessEqual, tisc.OpGreater, tisc.OpGreaterEqual, tisc.OpEqual, tisc.OpNotEqual, tisc.OpCmp:
		if err := it.execCompare(insn); err != nil {
			return err
		}
	case tisc.OpSetF:
		s.Flags.SetFromInt64(it.reg(insn.A))
		s.PC++
	case tisc.OpCall:
		if err := it.execCall(insn); err != nil {
			return err
		}
	case tisc.OpRet:
		if err := it.execRet(); err != nil {
			return err
		}
	case tisc.OpTrap:
		s.recordAxionEvent("Trap", TagInt, s.PC, "Deny", "explicit trap instruction")
		return it.trap(TrapInstruction)
	case tisc.OpI2F, tisc.OpF2I, tisc.OpI2Frac, tisc.OpFrac2I:
		if err := it.execConvert(insn); err != nil {
			return err
		}
	case tisc.OpFAdd, tisc.OpFSub, tisc.OpFMul, tisc.OpFDiv:
		if err := it.execFloatBinOp(insn); err != nil {
			return err
		}
	case tisc.OpFracAdd, tisc.OpFracSub, tisc.OpFracMul, tisc.OpFracDiv:
		if err := it.execFracBinOp(insn); err != nil {
			return err
		}
	case tisc.OpTNot, tisc.OpTAnd, tisc.OpTOr, tisc.OpTXor:
		if err := it.execTritLogic(insn); err != nil {
			return err
		}
	case tisc.OpAxRead, tisc.OpAxSet, tisc.OpAxVerify:
		if err := it.execAxionOp(insn); err != nil {
			return err
		}
	case tisc.OpMakeOptionSome, tisc.OpMakeOptionNone:
		it.execMakeOption(insn)
		s.PC++
	case tisc.OpMakeResultOk, tisc.OpMakeResultErr:
		it.execMakeResult(insn)
		s.PC++
	case tisc.OpMakeEnumVariant, tisc.OpMakeEnumVariantPayload:
		it.execMakeEnum(insn)
		s.PC++
	case tisc.OpOptionIsSome:
		if err := it.requireTag(insn.B, TagOptionHandle); err != nil {
			return err
		}
		opt, _ := s.Option(int32(it.reg(insn.B)))
		v := int64(0)
		if opt.HasValue {
			v = 1
		}
		it.setReg(insn.A, v, TagInt)
		s.Flags.SetFromInt64(v)
		s.PC++
	case tisc.OpOptionUnwrap:
		if err := it.execOptionUnwrap(insn); err != nil {
			return err
		}
	case tisc.OpResultIsOk:
		if err := it.requireTag(insn.B, TagResultHandle); err != nil {
			return err
		}
		res, _ := s.Result(int32(it.reg(insn.B)))
		v := int64(0)
		if res.IsOk {
			v = 1
		}
		it.setReg(insn.A, v, TagInt)
		s.Flags.SetFromInt64(v)
		s.PC++
	case tisc.OpResultUnwrapOk, tisc.OpResultUnwrapErr:
		if err := it.execResultUnwrap(insn); err != nil {
			return err
		}
	case tisc.OpEnumIsVariant:
		if err := it.execEnumIsVariant(insn); err != nil {
			return err
		}
	case tisc.OpEnumUnwrapPayload:
		if err := it.execEnumUnwrapPayload(insn); err != nil {
			return err
		}
	case tisc.OpChkShape:
		if err := it.execChkShape(insn); err != nil {
			return err
		}
	case tisc.OpTVecAdd, tisc.OpTMatMul, tisc.OpTTenDot:
		if err := it.execTensorOp(insn); err != nil {
			return err
		}
	case tisc.OpWeightsLoad:
		if err := it.requireTag(insn.B, TagTensorHandle); err != nil {
			return err
		}
		it.setReg(insn.A, it.reg(insn.B), TagWeightsTensorHandle)
		s.PC++
	default:
		return it.trap(TrapIllegalInstruction)
	}
	return nil
}

func (it *Interpreter) execLoadImm(insn tisc.Insn) error {
	s := it.State
	switch insn.LiteralKind {
	case tisc.LitInt:
		it.setReg(insn.A, int64(insn.C), TagInt)
	case tisc.LitFloatHandle:
		if _, ok := it.Program.Float(insn.C); !ok {
			return it.trap(TrapIllegalInstruction)
		}
		it.setReg(insn.A, int64(insn.C), TagFloatHandle)
	case tisc.LitFractionHandle:
		if _, ok := it.Program.Fraction(insn.C); !ok {
			return it.trap(TrapIllegalInstruction)
		}
		it.setReg(insn.A, int64(insn.C), TagFractionHandle)
	case tisc.LitSymbolHandle:
		if _, ok := it.Program.Symbol(insn.C); !ok {
			return it.trap(TrapIllegalInstruction)
		}
		it.setReg(insn.A, int64(insn.C), TagSymbolHandle)
	case tisc.LitTensorHandle:
		if _, ok := it.Program.TensorAt(insn.C); !ok {
			return it.trap(TrapIllegalInstruction)
		}
		it.setReg(insn.A, int64(insn.C), TagTensorHandle)
	case tisc.LitShapeHandle:
		if _, ok := it.Program.ShapeAt(insn.C); !ok {
			return it.trap(TrapIllegalInstruction)
		}
		it.setReg(insn.A, int64(insn.C), TagShapeHandle)
	default:
		return it.trap(TrapIllegalInstruction)
	}
	if insn.LiteralKind == tisc.LitInt {
		s.Flags.SetFromInt64(int64(insn.C))
	}
	s.PC++
	return nil
}

func (it *Interpreter) execIntBinOp(insn tisc.Insn) error {
	if err := it.requireTag(insn.B, TagInt); err != nil {
		return err
	}
	if err := it.requireTag(insn.C, TagInt); err != nil {
		return err
	}
	a := intToTrit(it.reg(insn.B))
	b := intToTrit(it.reg(insn.C))
	var result ternary.TritInt
	var err error
	switch insn.Opcode {
	case tisc.OpAdd:
		result, err = a.Add(b)
	case tisc.OpSub:
		result, err = a.Sub(b)
	case tisc.OpMul:
		result, err = a.Mul(b)
	}
	if err != nil {
		return it.trap(TrapIllegalInstruction)
	}
	v, cerr := tritToInt(result)
	if cerr != nil {
		return it.trap(TrapIllegalInstruction)
	}
	it.setReg(insn.A, v, TagInt)
	it.State.Flags.SetFromInt64(v)
	it.State.PC++
	return nil
}

func (it *Interpreter) execIntDivMod(insn tisc.Insn) error {
	if err := it.requireTag(insn.B, TagInt); err != nil {
		return err
	}
	if err := it.requireTag(insn.C, TagInt); err != nil {
		return err
	}
	a := it.reg(insn.B)
	b := it.reg(insn.C)
	if b == 0 {
		it.State.recordAxionEvent(insn.Opcode.String(), TagInt, 0, "Deny", "division by zero")
		return it.trap(TrapDivideByZero)
	}
	var v int64
	if insn.Opcode == tisc.OpDiv {
		v = a / b
	} else {
		v = a % b
	}
	it.setReg(insn.A, v, TagInt)
	it.State.Flags.SetFromInt64(v)
	it.State.PC++
	return nil
}

func (it *Interpreter) execCondJump(insn tisc.Insn, take bool) error {
	if take {
		it.State.PC = int64(insn.A)
	} else {
		it.State.PC++
	}
	return nil
}

func (it *Interpreter) execCall(insn tisc.Insn) error {
	s := it.State
	s.SP--
	if s.SP < s.Layout.Stack.Start {
		return it.trap(TrapBoundsFault)
	}
	s.Memory[s.SP] = s.PC + 1
	s.PC = int64(insn.A)
	return nil
}

func (it *Interpreter) execRet() error {
	s := it.State
	if s.SP >= s.Layout.Stack.Limit {
		return it.trap(TrapBoundsFault)
	}
	s.PC = s.Memory[s.SP]
	s.SP++
	return nil
}

func (it *Interpreter) execTritLogic(insn tisc.Insn) error {
	if err := it.requireTag(insn.B, TagInt); err != nil {
		return err
	}
	a := clampTrit(it.reg(insn.B))
	var v int64
	if insn.Opcode == tisc.OpTNot {
		v = int64(-a)
	} else {
		if err := it.requireTag(insn.C, TagInt); err != nil {
			return err
		}
		b := clampTrit(it.reg(insn.C))
		switch insn.Opcode {
		case tisc.OpTAnd:
			v = int64(minTrit(a, b))
		case tisc.OpTOr:
			v = int64(maxTrit(a, b))
		case tisc.OpTXor:
			if a == b {
				v = 0
			} else {
				v = int64(a * b * -1)
			}
		}
	}
	it.setReg(insn.A, v, TagInt)
	it.State.Flags.SetFromInt64(v)
	it.State.PC++
	return nil
}

func clampTrit(v int64) int8 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

func minTrit(a, b int8) int8 {
	if a < b {
		return a
	}
	return b
}

func maxTrit(a, b int8) int8 {
	if a > b {
		return a
	}
	return b
}

func (it *Interpreter) execChkShape(insn tisc.Insn) error {
	if err := it.requireTag(insn.B, TagShapeHandle); err != nil {
		return err
	}
	if err := it.requireTag(insn.C, TagShapeHandle); err != nil {
		return err
	}
	sa, ok1 := it.Program.ShapeAt(int32(it.reg(insn.B)))
	sb, ok2 := it.Program.ShapeAt(int32(it.reg(insn.C)))
	if !ok1 || !ok2 {
		return it.trap(TrapIllegalInstruction)
	}
	equal := len(sa) == len(sb)
	if equal {
		for i := range sa {
			if sa[i] != sb[i] {
				equal = false
				break
			}
		}
	}
	v := int64(0)
	if equal {
		v = 1
	}
	it.setReg(insn.A, v, TagInt)
	it.State.Flags.SetFromInt64(v)
	it.State.PC++
	return nil
}
