package vm

import (
	"github.com/t81/t81vm/internal/t81vm/ternary"
	"github.com/t81/t81vm/internal/t81vm/tisc"
)

// NumRegisters is the fixed count of general registers.
const NumRegisters = 27

// GCInterval is the number of instructions between periodic GC summary
// emissions.
const GCInterval = 64

// FrameEntry records one live allocation: its base address and exact size,
// used to enforce LIFO, exact-match frees.
type FrameEntry struct {
	Addr int64
	Size int64
}

// Flags holds the three status flags every arithmetic, load, or compare
// that produces an integer result updates.
type Flags struct {
	Zero     bool
	Negative bool
	Positive bool
}

// SetFromInt64 updates the three flags from a signed integer result.
func (f *Flags) SetFromInt64(v int64) {
	f.Zero = v == 0
	f.Negative = v < 0
	f.Positive = v > 0
}

// AxionEvent is one record in the append-only axion log.
type AxionEvent struct {
	Opcode string
	Tag    ValueTag
	Value  int64
	Kind   string
	Reason string
}

// State is the complete mutable state of one VM instance: registers,
// segmented memory, frame stacks, interned side tables, and the axion log.
type State struct {
	Registers    [NumRegisters]int64
	RegisterTags [NumRegisters]ValueTag

	Memory     []int64
	MemoryTags []ValueTag
	Layout     MemoryLayout

	SP      int64
	HeapPtr int64
	MetaPtr int64

	StackFrames []FrameEntry
	HeapFrames  []FrameEntry

	TensorSlotCount int64
	TensorSlots     []tisc.Tensor

	// Runtime pools hold values produced at run time by conversion
	// instructions (I2F/I2Frac) and float/fraction arithmetic; the loaded
	// Program's pools stay immutable.
	RuntimeFloats    []float64
	RuntimeFractions []ternary.Fraction

	Options    []OptionValue
	optionIdx  map[OptionValue]int32
	Results    []ResultValue
	resultIdx  map[ResultValue]int32
	Enums      []EnumValue
	enumIdx    map[EnumValue]int32

	AxionLog []AxionEvent

	Flags       Flags
	PC          int64
	Halted      bool
	Trapped     bool
	TrapKind    Trap
	GCCycles    int64
	sinceGC     int64
	ProgramSize int64
}

// NewState allocates a State with the given memory layout. The stack
// pointer starts at the top of the stack segment (stack grows down); the
// heap and meta pointers start at the bottom of their segments (both grow
// up).
func NewState(layout MemoryLayout, programSize int64) *State {
	s := &State{
		Layout:      layout,
		Memory:      make([]int64, layout.TotalSize()),
		MemoryTags:  make([]ValueTag, layout.TotalSize()),
		SP:          layout.Stack.Limit,
		HeapPtr:     layout.Heap.Start,
		MetaPtr:     layout.Meta.Start,
		optionIdx:   make(map[OptionValue]int32),
		resultIdx:   make(map[ResultValue]int32),
		enumIdx:     make(map[EnumValue]int32),
		ProgramSize: programSize,
	}
	return s
}

// InternOption returns the 1-based handle for v, reusing an existing entry
// with identical structural contents if one was already interned.
func (s *State) InternOption(v OptionValue) int32 {
	if idx, ok := s.optionIdx[v]; ok {
		return idx
	}
	s.Options = append(s.Options, v)
	idx := int32(len(s.Options))
	s.optionIdx[v] = idx
	return idx
}

// Option returns the interned Option for a 1-based handle.
func (s *State) Option(handle int32) (OptionValue, bool) {
	if handle < 1 || int(handle) > len(s.Options) {
		return OptionValue{}, false
	}
	return s.Options[handle-1], true
}

// InternResult returns the 1-based handle for v, reusing an existing entry
// with identical structural contents if one was already interned.
func (s *State) InternResult(v ResultValue) int32 {
	if idx, ok := s.resultIdx[v]; ok {
		return idx
	}
	s.Results = append(s.Results, v)
	idx := int32(len(s.Results))
	s.resultIdx[v] = idx
	return idx
}

// Result returns the interned Result for a 1-based handle.
func (s *State) Result(handle int32) (ResultValue, bool) {
	if handle < 1 || int(handle) > len(s.Results) {
		return ResultValue{}, false
	}
	return s.Results[handle-1], true
}

// InternEnum returns the 1-based handle for v, reusing an existing entry
// with identical structural contents if one was already interned.
func (s *State) InternEnum(v EnumValue) int32 {
	if idx, ok := s.enumIdx[v]; ok {
		return idx
	}
	s.Enums = append(s.Enums, v)
	idx := int32(len(s.Enums))
	s.enumIdx[v] = idx
	return idx
}

// Enum returns the interned EnumValue for a 1-based handle.
func (s *State) Enum(handle int32) (EnumValue, bool) {
	if handle < 1 || int(handle) > len(s.Enums) {
		return EnumValue{}, false
	}
	return s.Enums[handle-1], true
}

// internFloat appends v to the runtime float pool and returns a handle
// that continues the numbering after the loaded program's static pool.
func (s *State) internFloat(programPoolLen int, v float64) int64 {
	s.RuntimeFloats = append(s.RuntimeFloats, v)
	return int64(programPoolLen + len(s.RuntimeFloats))
}

// resolveFloat looks up a handle in the program's static pool, falling
// back to the runtime pool for handles beyond it.
func (s *State) resolveFloat(programFloats []float64, handle int32) (float64, bool) {
	if handle >= 1 && int(handle) <= len(programFloats) {
		return programFloats[handle-1], true
	}
	idx := int(handle) - len(programFloats) - 1
	if idx < 0 || idx >= len(s.RuntimeFloats) {
		return 0, false
	}
	return s.RuntimeFloats[idx], true
}

// internFraction appends f to the runtime fraction pool and returns a
// handle that continues the numbering after the loaded program's static
// pool.
func (s *State) internFraction(programPoolLen int, f ternary.Fraction) int64 {
	s.RuntimeFractions = append(s.RuntimeFractions, f)
	return int64(programPoolLen + len(s.RuntimeFractions))
}

// resolveFraction looks up a handle in the program's static pool, falling
// back to the runtime pool for handles beyond it.
func (s *State) resolveFraction(programFractions []ternary.Fraction, handle int32) (ternary.Fraction, bool) {
	if handle >= 1 && int(handle) <= len(programFractions) {
		return programFractions[handle-1], true
	}
	idx := int(handle) - len(programFractions) - 1
	if idx < 0 || idx >= len(s.RuntimeFractions) {
		return ternary.Fraction{}, false
	}
	return s.RuntimeFractions[idx], true
}

// allocTensorSlot appends a runtime-computed tensor to the tensor pool and
// emits its allocation reason, returning the tensor's global 1-based
// handle (continuing the numbering after the loaded program's static
// tensor pool).
func (s *State) allocTensorSlot(programPoolLen int, t tisc.Tensor) int64 {
	s.TensorSlots = append(s.TensorSlots, t)
	idx := s.TensorSlotCount
	s.TensorSlotCount++
	s.applySegmentReason(formatTensorSlotEvent(idx))
	return int64(programPoolLen) + idx + 1
}

// resolveTensor looks up a handle in the program's static tensor pool,
// falling back to the runtime pool (tensors produced by TVecAdd/TMatMul/
// TTenDot) for handles beyond it.
func (s *State) resolveTensor(programTensors []tisc.Tensor, handle int32) (tisc.Tensor, bool) {
	if handle >= 1 && int(handle) <= len(programTensors) {
		return programTensors[handle-1], true
	}
	idx := int64(handle) - int64(len(programTensors)) - 1
	if idx < 0 || idx >= int64(len(s.TensorSlots)) {
		return tisc.Tensor{}, false
	}
	return s.TensorSlots[idx], true
}
