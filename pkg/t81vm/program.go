package t81vm

import (
	"github.com/t81/t81vm/internal/t81vm/tisc"
)

// Program is a builder for a loadable TISC program. Handles returned by
// its Add* methods are 1-based pool indices suitable for LoadImm.
type Program struct {
	inner *tisc.Program
}

// NewProgram returns an empty program builder.
func NewProgram() *Program {
	return &Program{inner: tisc.NewProgram()}
}

// AddFloat appends a float-pool literal and returns its handle.
func (p *Program) AddFloat(v float64) int32 { return p.inner.AddFloat(v) }

// AddFraction appends a fraction-pool literal and returns its handle.
func (p *Program) AddFraction(f Fraction) int32 { return p.inner.AddFraction(f) }

// AddSymbol appends a symbol-pool literal and returns its handle.
func (p *Program) AddSymbol(s string) int32 { return p.inner.AddSymbol(s) }

// AddShape appends a shape-pool literal and returns its handle.
func (p *Program) AddShape(shape []int32) int32 { return p.inner.AddShape(shape) }

// AddTensor appends a tensor-pool literal (shape + row-major data) and
// returns its handle.
func (p *Program) AddTensor(shape []int32, data []float32) int32 {
	return p.inner.AddTensor(tisc.Tensor{Shape: shape, Data: data})
}

// SetPolicyText attaches the policy S-expression text a loader would parse
// and attach to this program (informational; New does not read it, and the
// caller still passes the policy text to New separately).
func (p *Program) SetPolicyText(text string) { p.inner.Meta.PolicyText = text }

// AddLoopHint attaches a pre-formatted "loop hint file=... line=... ..."
// trace line the loader recorded from a source-level loop annotation.
func (p *Program) AddLoopHint(reason string) { p.inner.Meta.LoopHints = append(p.inner.Meta.LoopHints, reason) }

// AddEnumType registers an enum type's metadata (name plus variants, with
// optional payload types), used to format guard/unwrap reason strings.
func (p *Program) AddEnumType(enumID int32, name string, variants []EnumVariant) {
	vs := make([]tisc.EnumVariantMetadata, len(variants))
	for i, v := range variants {
		vs[i] = tisc.EnumVariantMetadata{Index: v.Index, Name: v.Name, PayloadType: v.PayloadType, HasPayload: v.HasPayload}
	}
	p.inner.Meta.EnumMetadata = append(p.inner.Meta.EnumMetadata, tisc.EnumMetadata{EnumID: enumID, Name: name, Variants: vs})
}

// EnumVariant describes one variant of an enum type registered with
// AddEnumType.
type EnumVariant struct {
	Index       int32
	Name        string
	PayloadType string
	HasPayload  bool
}

func (p *Program) add(i tisc.Insn) int { return p.inner.AddInsn(i) }

// LoadImmInt loads a plain integer immediate into register dst.
func (p *Program) LoadImmInt(dst int32, v int32) { p.add(tisc.Insn{Opcode: tisc.OpLoadImm, A: dst, C: v, LiteralKind: tisc.LitInt}) }

// LoadImmFloat loads a float-pool handle into register dst.
func (p *Program) LoadImmFloat(dst int32, handle int32) {
	p.add(tisc.Insn{Opcode: tisc.OpLoadImm, A: dst, C: handle, LiteralKind: tisc.LitFloatHandle})
}

// LoadImmFraction loads a fraction-pool handle into register dst.
func (p *Program) LoadImmFraction(dst int32, handle int32) {
	p.add(tisc.Insn{Opcode: tisc.OpLoadImm, A: dst, C: handle, LiteralKind: tisc.LitFractionHandle})
}

// LoadImmTensor loads a tensor-pool handle into register dst.
func (p *Program) LoadImmTensor(dst int32, handle int32) {
	p.add(tisc.Insn{Opcode: tisc.OpLoadImm, A: dst, C: handle, LiteralKind: tisc.LitTensorHandle})
}

// LoadImmShape loads a shape-pool handle into register dst.
func (p *Program) LoadImmShape(dst int32, handle int32) {
	p.add(tisc.Insn{Opcode: tisc.OpLoadImm, A: dst, C: handle, LiteralKind: tisc.LitShapeHandle})
}

// Mov copies register src into dst, including its tag.
func (p *Program) Mov(dst, src int32) { p.add(tisc.Insn{Opcode: tisc.OpMov, A: dst, B: src}) }

// Add/Sub/Mul/Div/Mod write dst = lhs OP rhs for plain integer registers.
func (p *Program) Add(dst, lhs, rhs int32) { p.add(tisc.Insn{Opcode: tisc.OpAdd, A: dst, B: lhs, C: rhs}) }
func (p *Program) Sub(dst, lhs, rhs int32) { p.add(tisc.Insn{Opcode: tisc.OpSub, A: dst, B: lhs, C: rhs}) }
func (p *Program) Mul(dst, lhs, rhs int32) { p.add(tisc.Insn{Opcode: tisc.OpMul, A: dst, B: lhs, C: rhs}) }
func (p *Program) Div(dst, lhs, rhs int32) { p.add(tisc.Insn{Opcode: tisc.OpDiv, A: dst, B: lhs, C: rhs}) }
func (p *Program) Mod(dst, lhs, rhs int32) { p.add(tisc.Insn{Opcode: tisc.OpMod, A: dst, B: lhs, C: rhs}) }

// Neg/Inc/Dec mutate a single register in place (Neg writes dst from src).
func (p *Program) Neg(dst, src int32) { p.add(tisc.Insn{Opcode: tisc.OpNeg, A: dst, B: src}) }
func (p *Program) Inc(reg int32)      { p.add(tisc.Insn{Opcode: tisc.OpInc, A: reg}) }
func (p *Program) Dec(reg int32)      { p.add(tisc.Insn{Opcode: tisc.OpDec, A: reg}) }

// Push/Pop move a register to/from the top of the stack segment.
func (p *Program) Push(reg int32) { p.add(tisc.Insn{Opcode: tisc.OpPush, A: reg}) }
func (p *Program) Pop(reg int32)  { p.add(tisc.Insn{Opcode: tisc.OpPop, A: reg}) }

// StackAlloc grows the stack downward by the word count in sizeReg,
// storing the new frame pointer in dst. StackFree frees the matching
// frame, given the same pointer and size registers.
func (p *Program) StackAlloc(dst, sizeReg int32) {
	p.add(tisc.Insn{Opcode: tisc.OpStackAlloc, A: dst, B: sizeReg})
}
func (p *Program) StackFree(ptrReg, sizeReg int32) {
	p.add(tisc.Insn{Opcode: tisc.OpStackFree, A: ptrReg, B: sizeReg})
}

// HeapAlloc/HeapFree mirror StackAlloc/StackFree for the heap segment.
func (p *Program) HeapAlloc(dst, sizeReg int32) {
	p.add(tisc.Insn{Opcode: tisc.OpHeapAlloc, A: dst, B: sizeReg})
}
func (p *Program) HeapFree(ptrReg, sizeReg int32) {
	p.add(tisc.Insn{Opcode: tisc.OpHeapFree, A: ptrReg, B: sizeReg})
}

// Load/Store move a word between a register and the memory cell named by
// an address register.
func (p *Program) Load(dst, addrReg int32)  { p.add(tisc.Insn{Opcode: tisc.OpLoad, A: dst, B: addrReg}) }
func (p *Program) Store(addrReg, src int32) { p.add(tisc.Insn{Opcode: tisc.OpStore, A: addrReg, B: src}) }

// Jump/JumpIfZero/JumpIfNotZero/JumpIfNegative/JumpIfPositive set PC to
// target (an absolute instruction index) unconditionally or based on
// flags set by the previous arithmetic, load, or compare.
func (p *Program) Jump(target int32) { p.add(tisc.Insn{Opcode: tisc.OpJump, A: target}) }
func (p *Program) JumpIfZero(target int32) { p.add(tisc.Insn{Opcode: tisc.OpJumpIfZero, A: target}) }
func (p *Program) JumpIfNotZero(target int32) {
	p.add(tisc.Insn{Opcode: tisc.OpJumpIfNotZero, A: target})
}
func (p *Program) JumpIfNegative(target int32) {
	p.add(tisc.Insn{Opcode: tisc.OpJumpIfNegative, A: target})
}
func (p *Program) JumpIfPositive(target int32) {
	p.add(tisc.Insn{Opcode: tisc.OpJumpIfPositive, A: target})
}

// Less/LessEqual/Greater/GreaterEqual/Equal/NotEqual/Cmp compare two
// identically tagged registers and write a 0/1 (or -1/0/1 for Cmp) result.
func (p *Program) Less(dst, lhs, rhs int32) { p.add(tisc.Insn{Opcode: tisc.OpLess, A: dst, B: lhs, C: rhs}) }
func (p *Program) LessEqual(dst, lhs, rhs int32) {
	p.add(tisc.Insn{Opcode: tisc.OpLessEqual, A: dst, B: lhs, C: rhs})
}
func (p *Program) Greater(dst, lhs, rhs int32) {
	p.add(tisc.Insn{Opcode: tisc.OpGreater, A: dst, B: lhs, C: rhs})
}
func (p *Program) GreaterEqual(dst, lhs, rhs int32) {
	p.add(tisc.Insn{Opcode: tisc.OpGreaterEqual, A: dst, B: lhs, C: rhs})
}
func (p *Program) Equal(dst, lhs, rhs int32) {
	p.add(tisc.Insn{Opcode: tisc.OpEqual, A: dst, B: lhs, C: rhs})
}
func (p *Program) NotEqual(dst, lhs, rhs int32) {
	p.add(tisc.Insn{Opcode: tisc.OpNotEqual, A: dst, B: lhs, C: rhs})
}
func (p *Program) Cmp(dst, lhs, rhs int32) { p.add(tisc.Insn{Opcode: tisc.OpCmp, A: dst, B: lhs, C: rhs}) }

// Call/Ret implement a plain call stack (return address pushed to the
// stack segment). Trap raises the explicit Trap opcode. Halt stops the VM.
func (p *Program) Call(target int32) { p.add(tisc.Insn{Opcode: tisc.OpCall, A: target}) }
func (p *Program) Ret()              { p.add(tisc.Insn{Opcode: tisc.OpRet}) }
func (p *Program) Trap()             { p.add(tisc.Insn{Opcode: tisc.OpTrap}) }
func (p *Program) Halt()             { p.add(tisc.Insn{Opcode: tisc.OpHalt}) }
func (p *Program) Nop()              { p.add(tisc.Insn{Opcode: tisc.OpNop}) }

// I2F/F2I/I2Frac/Frac2I convert between plain integers and float/fraction
// handles.
func (p *Program) I2F(dst, src int32)    { p.add(tisc.Insn{Opcode: tisc.OpI2F, A: dst, B: src}) }
func (p *Program) F2I(dst, src int32)    { p.add(tisc.Insn{Opcode: tisc.OpF2I, A: dst, B: src}) }
func (p *Program) I2Frac(dst, src int32) { p.add(tisc.Insn{Opcode: tisc.OpI2Frac, A: dst, B: src}) }
func (p *Program) Frac2I(dst, src int32) { p.add(tisc.Insn{Opcode: tisc.OpFrac2I, A: dst, B: src}) }

// FAdd/FSub/FMul/FDiv and FracAdd/FracSub/FracMul/FracDiv operate over
// float/fraction handles respectively.
func (p *Program) FAdd(dst, lhs, rhs int32) { p.add(tisc.Insn{Opcode: tisc.OpFAdd, A: dst, B: lhs, C: rhs}) }
func (p *Program) FSub(dst, lhs, rhs int32) { p.add(tisc.Insn{Opcode: tisc.OpFSub, A: dst, B: lhs, C: rhs}) }
func (p *Program) FMul(dst, lhs, rhs int32) { p.add(tisc.Insn{Opcode: tisc.OpFMul, A: dst, B: lhs, C: rhs}) }
func (p *Program) FDiv(dst, lhs, rhs int32) { p.add(tisc.Insn{Opcode: tisc.OpFDiv, A: dst, B: lhs, C: rhs}) }
func (p *Program) FracAdd(dst, lhs, rhs int32) {
	p.add(tisc.Insn{Opcode: tisc.OpFracAdd, A: dst, B: lhs, C: rhs})
}
func (p *Program) FracSub(dst, lhs, rhs int32) {
	p.add(tisc.Insn{Opcode: tisc.OpFracSub, A: dst, B: lhs, C: rhs})
}
func (p *Program) FracMul(dst, lhs, rhs int32) {
	p.add(tisc.Insn{Opcode: tisc.OpFracMul, A: dst, B: lhs, C: rhs})
}
func (p *Program) FracDiv(dst, lhs, rhs int32) {
	p.add(tisc.Insn{Opcode: tisc.OpFracDiv, A: dst, B: lhs, C: rhs})
}

// TNot/TAnd/TOr/TXor are trit-valued (-1/0/1) logic operators.
func (p *Program) TNot(dst, src int32) { p.add(tisc.Insn{Opcode: tisc.OpTNot, A: dst, B: src}) }
func (p *Program) TAnd(dst, lhs, rhs int32) { p.add(tisc.Insn{Opcode: tisc.OpTAnd, A: dst, B: lhs, C: rhs}) }
func (p *Program) TOr(dst, lhs, rhs int32)  { p.add(tisc.Insn{Opcode: tisc.OpTOr, A: dst, B: lhs, C: rhs}) }
func (p *Program) TXor(dst, lhs, rhs int32) { p.add(tisc.Insn{Opcode: tisc.OpTXor, A: dst, B: lhs, C: rhs}) }

// AxRead/AxSet are Axion-gated memory accesses, each emitting its own
// guard reason in addition to the blanket per-step policy gate. AxVerify
// reports whether the policy engine currently Defers (1) or not (0).
func (p *Program) AxRead(dst, addrReg int32) { p.add(tisc.Insn{Opcode: tisc.OpAxRead, A: dst, B: addrReg}) }
func (p *Program) AxSet(addrReg, src int32)  { p.add(tisc.Insn{Opcode: tisc.OpAxSet, A: addrReg, B: src}) }
func (p *Program) AxVerify(dst int32)        { p.add(tisc.Insn{Opcode: tisc.OpAxVerify, A: dst}) }

// MakeOptionSome/MakeOptionNone/MakeResultOk/MakeResultErr intern a typed
// value and write its handle to dst.
func (p *Program) MakeOptionSome(dst, payload int32) {
	p.add(tisc.Insn{Opcode: tisc.OpMakeOptionSome, A: dst, B: payload})
}
func (p *Program) MakeOptionNone(dst int32) { p.add(tisc.Insn{Opcode: tisc.OpMakeOptionNone, A: dst}) }
func (p *Program) MakeResultOk(dst, payload int32) {
	p.add(tisc.Insn{Opcode: tisc.OpMakeResultOk, A: dst, B: payload})
}
func (p *Program) MakeResultErr(dst, payload int32) {
	p.add(tisc.Insn{Opcode: tisc.OpMakeResultErr, A: dst, B: payload})
}

// MakeEnumVariant/MakeEnumVariantPayload construct an enum instance from a
// global variant id, encoded as enumID<<16 | localVariant.
func (p *Program) MakeEnumVariant(dst int32, variantID int32) {
	p.add(tisc.Insn{Opcode: tisc.OpMakeEnumVariant, A: dst, B: variantID})
}
func (p *Program) MakeEnumVariantPayload(dst int32, variantID int32, payload int32) {
	p.add(tisc.Insn{Opcode: tisc.OpMakeEnumVariantPayload, A: dst, B: variantID, C: payload})
}

// OptionIsSome/OptionUnwrap/ResultIsOk/ResultUnwrapOk/ResultUnwrapErr
// inspect and extract typed values, trapping IllegalInstruction on
// mismatch.
func (p *Program) OptionIsSome(dst, opt int32) {
	p.add(tisc.Insn{Opcode: tisc.OpOptionIsSome, A: dst, B: opt})
}
func (p *Program) OptionUnwrap(dst, opt int32) {
	p.add(tisc.Insn{Opcode: tisc.OpOptionUnwrap, A: dst, B: opt})
}
func (p *Program) ResultIsOk(dst, res int32) { p.add(tisc.Insn{Opcode: tisc.OpResultIsOk, A: dst, B: res}) }
func (p *Program) ResultUnwrapOk(dst, res int32) {
	p.add(tisc.Insn{Opcode: tisc.OpResultUnwrapOk, A: dst, B: res})
}
func (p *Program) ResultUnwrapErr(dst, res int32) {
	p.add(tisc.Insn{Opcode: tisc.OpResultUnwrapErr, A: dst, B: res})
}

// EnumIsVariant/EnumUnwrapPayload guard and extract enum payloads,
// emitting the normative "enum guard"/"enum payload" reason strings.
func (p *Program) EnumIsVariant(dst, enumReg, variantID int32) {
	p.add(tisc.Insn{Opcode: tisc.OpEnumIsVariant, A: dst, B: enumReg, C: variantID})
}
func (p *Program) EnumUnwrapPayload(dst, enumReg int32) {
	p.add(tisc.Insn{Opcode: tisc.OpEnumUnwrapPayload, A: dst, B: enumReg})
}

// ChkShape compares two shape handles for equality.
func (p *Program) ChkShape(dst, a, b int32) { p.add(tisc.Insn{Opcode: tisc.OpChkShape, A: dst, B: a, C: b}) }

// TVecAdd/TMatMul/TTenDot compute tensor arithmetic over two tensor
// handles, writing a fresh tensor handle to dst.
func (p *Program) TVecAdd(dst, a, b int32) { p.add(tisc.Insn{Opcode: tisc.OpTVecAdd, A: dst, B: a, C: b}) }
func (p *Program) TMatMul(dst, a, b int32) { p.add(tisc.Insn{Opcode: tisc.OpTMatMul, A: dst, B: a, C: b}) }
func (p *Program) TTenDot(dst, a, b int32) { p.add(tisc.Insn{Opcode: tisc.OpTTenDot, A: dst, B: a, C: b}) }

// WeightsLoad reinterprets a tensor handle as a weights tensor handle.
func (p *Program) WeightsLoad(dst, src int32) {
	p.add(tisc.Insn{Opcode: tisc.OpWeightsLoad, A: dst, B: src})
}
