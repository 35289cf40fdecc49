// Package tisc defines the ternary instruction set's program
// representation: opcodes, instructions, and the side tables a loaded
// program carries (float/fraction/symbol/tensor/shape pools and metadata).
package tisc

// Opcode identifies one TISC instruction.
type Opcode uint8

const (
	OpNop Opcode = iota
	OpHalt
	OpMov
	OpLoadImm
	OpLoad
	OpStore
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpInc
	OpDec
	OpPush
	OpPop
	OpStackAlloc
	OpStackFree
	OpHeapAlloc
	OpHeapFree
	OpJump
	OpJumpIfZero
	OpJumpIfNotZero
	OpJumpIfNegative
	OpJumpIfPositive
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpEqual
	OpNotEqual
	OpCmp
	OpSetF
	OpCall
	OpRet
	OpTrap
	OpI2F
	OpF2I
	OpI2Frac
	OpFrac2I
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFracAdd
	OpFracSub
	OpFracMul
	OpFracDiv
	OpTNot
	OpTAnd
	OpTOr
	OpTXor
	OpAxRead
	OpAxSet
	OpAxVerify
	OpMakeOptionSome
	OpMakeOptionNone
	OpMakeResultOk
	OpMakeResultErr
	OpMakeEnumVariant
	OpMakeEnumVariantPayload
	OpOptionIsSome
	OpOptionUnwrap
	OpResultIsOk
	OpResultUnwrapOk
	OpResultUnwrapErr
	OpEnumIsVariant
	OpEnumUnwrapPayload
	OpChkShape
	OpTVecAdd
	OpTMatMul
	OpTTenDot
	OpWeightsLoad

	opcodeCount
)

// opcodeNames gives the canonical name used both for String() and for the
// "next_opcode == Halt" comparison the Axion evaluator performs (it matches
// on the literal name "Halt").
var opcodeNames = [opcodeCount]string{
	OpNop:                    "Nop",
	OpHalt:                   "Halt",
	OpMov:                    "Mov",
	OpLoadImm:                "LoadImm",
	OpLoad:                   "Load",
	OpStore:                  "Store",
	OpAdd:                    "Add",
	OpSub:                    "Sub",
	OpMul:                    "Mul",
	OpDiv:                    "Div",
	OpMod:                    "Mod",
	OpNeg:                    "Neg",
	OpInc:                    "Inc",
	OpDec:                    "Dec",
	OpPush:                   "Push",
	OpPop:                    "Pop",
	OpStackAlloc:             "StackAlloc",
	OpStackFree:              "StackFree",
	OpHeapAlloc:              "HeapAlloc",
	OpHeapFree:               "HeapFree",
	OpJump:                   "Jump",
	OpJumpIfZero:             "JumpIfZero",
	OpJumpIfNotZero:          "JumpIfNotZero",
	OpJumpIfNegative:         "JumpIfNegative",
	OpJumpIfPositive:         "JumpIfPositive",
	OpLess:                   "Less",
	OpLessEqual:              "LessEqual",
	OpGreater:                "Greater",
	OpGreaterEqual:           "GreaterEqual",
	OpEqual:                  "Equal",
	OpNotEqual:               "NotEqual",
	OpCmp:                    "Cmp",
	OpSetF:                   "SetF",
	OpCall:                   "Call",
	OpRet:                    "Ret",
	OpTrap:                   "Trap",
	OpI2F:                    "I2F",
	OpF2I:                    "F2I",
	OpI2Frac:                 "I2Frac",
	OpFrac2I:                 "Frac2I",
	OpFAdd:                   "FAdd",
	OpFSub:                   "FSub",
	OpFMul:                   "FMul",
	OpFDiv:                   "FDiv",
	OpFracAdd:                "FracAdd",
	OpFracSub:                "FracSub",
	OpFracMul:                "FracMul",
	OpFracDiv:                "FracDiv",
	OpTNot:                   "TNot",
	OpTAnd:                   "TAnd",
	OpTOr:                    "TOr",
	OpTXor:                   "TXor",
	OpAxRead:                 "AxRead",
	OpAxSet:                  "AxSet",
	OpAxVerify:               "AxVerify",
	OpMakeOptionSome:         "MakeOptionSome",
	OpMakeOptionNone:         "MakeOptionNone",
	OpMakeResultOk:           "MakeResultOk",
	OpMakeResultErr:          "MakeResultErr",
	OpMakeEnumVariant:        "MakeEnumVariant",
	OpMakeEnumVariantPayload: "MakeEnumVariantPayload",
	OpOptionIsSome:           "OptionIsSome",
	OpOptionUnwrap:           "OptionUnwrap",
	OpResultIsOk:             "ResultIsOk",
	OpResultUnwrapOk:         "ResultUnwrapOk",
	OpResultUnwrapErr:        "ResultUnwrapErr",
	OpEnumIsVariant:          "EnumIsVariant",
	OpEnumUnwrapPayload:      "EnumUnwrapPayload",
	OpChkShape:               "ChkShape",
	OpTVecAdd:                "TVecAdd",
	OpTMatMul:                "TMatMul",
	OpTTenDot:                "TTenDot",
	OpWeightsLoad:            "WeightsLoad",
}

// String returns the opcode's canonical name, or "Unknown" for an
// out-of-range value.
func (o Opcode) String() string {
	if int(o) < 0 || int(o) >= int(opcodeCount) {
		return "Unknown"
	}
	return opcodeNames[o]
}

// Valid reports whether o is a recognized opcode.
func (o Opcode) Valid() bool {
	return int(o) >= 0 && int(o) < int(opcodeCount)
}
