package t81vm

import (
	"github.com/t81/t81vm/internal/t81vm/ternary"
	"github.com/t81/t81vm/internal/t81vm/tisc"
	"github.com/t81/t81vm/internal/t81vm/vm"
)

// Fraction is the exact rational type programs can load as literals.
type Fraction = ternary.Fraction

// Opcode identifies one instruction; see the Op* constants in Program's
// builder methods for the supported instruction set.
type Opcode = tisc.Opcode

// Trap is a terminal VM failure kind.
type Trap = vm.Trap

// Re-exported trap values, for callers inspecting State().TrapKind.
const (
	TrapNone               = vm.TrapNone
	TrapInvalidMemory      = vm.TrapInvalidMemory
	TrapIllegalInstruction = vm.TrapIllegalInstruction
	TrapDivideByZero       = vm.TrapDivideByZero
	TrapBoundsFault        = vm.TrapBoundsFault
	TrapSecurityFault      = vm.TrapSecurityFault
	TrapInstruction        = vm.TrapInstruction
)

// Config tunes the non-code segment sizes of the VM's linear memory.
type Config struct {
	StackWords  int64
	HeapWords   int64
	TensorWords int64
	MetaWords   int64
}

// DefaultConfig returns the segment sizes the original implementation used
// at compile time.
func DefaultConfig() Config {
	d := vm.DefaultConfig()
	return Config{StackWords: d.StackWords, HeapWords: d.HeapWords, TensorWords: d.TensorWords, MetaWords: d.MetaWords}
}

func (c Config) toInternal() vm.Config {
	return vm.Config{StackWords: c.StackWords, HeapWords: c.HeapWords, TensorWords: c.TensorWords, MetaWords: c.MetaWords}
}

// State is a copied snapshot of the VM's execution state: registers, PC,
// termination status, and the program digest. Mutating the returned
// struct has no effect on the running machine.
type State struct {
	Registers        [vm.NumRegisters]int64
	PC               int64
	Halted           bool
	Trapped          bool
	TrapKind         Trap
	ProgramDigestHex string
}
