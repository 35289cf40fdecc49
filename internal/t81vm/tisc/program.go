package tisc

import "github.com/t81/t81vm/internal/t81vm/ternary"

// LiteralKind tags what a LoadImm instruction's immediate operand means:
// either a plain integer or a 1-based handle into one of the program's
// side tables.
type LiteralKind uint8

const (
	// LitInt means the immediate is a plain integer value.
	LitInt LiteralKind = iota
	// LitFloatHandle means the immediate indexes the float pool.
	LitFloatHandle
	// LitFractionHandle means the immediate indexes the fraction pool.
	LitFractionHandle
	// LitSymbolHandle means the immediate indexes the symbol pool.
	LitSymbolHandle
	// LitTensorHandle means the immediate indexes the tensor pool.
	LitTensorHandle
	// LitShapeHandle means the immediate indexes the shape pool.
	LitShapeHandle
)

// Insn is one program instruction: an opcode plus three general operand
// slots (register indices, immediates, or jump targets depending on
// opcode) and a literal-kind tag consulted only by LoadImm.
type Insn struct {
	Opcode      Opcode
	A, B, C     int32
	LiteralKind LiteralKind
}

// Tensor is an ordered tensor value: a shape and row-major float32 data,
// stored in a program's tensor pool.
type Tensor struct {
	Shape []int32
	Data  []float32
}

// EnumVariantMetadata describes one variant of an enum type: its local
// index, name, and optional payload type name.
type EnumVariantMetadata struct {
	Index       int32
	Name        string
	PayloadType string
	HasPayload  bool
}

// EnumMetadata names an enum type and its variants, used to decode global
// variant ids into human-readable guard/unwrap reason strings.
type EnumMetadata struct {
	EnumID   int32
	Name     string
	Variants []EnumVariantMetadata
}

// ProgramMeta holds the program's non-executable side information: enum
// metadata, pre-formatted loop-hint trace lines the loader recorded from
// source-level loop annotations, and the two attached S-expression text
// blobs.
type ProgramMeta struct {
	EnumMetadata      []EnumMetadata
	LoopHints         []string
	PolicyText        string
	MatchMetadataText string
}

// Program is an immutable, loaded TISC program: the instruction stream plus
// every side table a LoadImm or typed instruction can reference. All pool
// handles are 1-based; 0 is null.
type Program struct {
	Insns     []Insn
	Floats    []float64
	Fractions []ternary.Fraction
	Symbols   []string
	Tensors   []Tensor
	Shapes    [][]int32
	Meta      ProgramMeta
}

// NewProgram returns an empty program ready for instructions and side
// table entries to be appended.
func NewProgram() *Program {
	return &Program{}
}

// AddInsn appends an instruction and returns its index.
func (p *Program) AddInsn(i Insn) int {
	p.Insns = append(p.Insns, i)
	return len(p.Insns) - 1
}

// AddFloat appends a float pool entry and returns its 1-based handle.
func (p *Program) AddFloat(v float64) int32 {
	p.Floats = append(p.Floats, v)
	return int32(len(p.Floats))
}

// AddFraction appends a fraction pool entry and returns its 1-based handle.
func (p *Program) AddFraction(f ternary.Fraction) int32 {
	p.Fractions = append(p.Fractions, f)
	return int32(len(p.Fractions))
}

// AddSymbol appends a symbol pool entry and returns its 1-based handle.
func (p *Program) AddSymbol(s string) int32 {
	p.Symbols = append(p.Symbols, s)
	return int32(len(p.Symbols))
}

// AddTensor appends a tensor pool entry and returns its 1-based handle.
func (p *Program) AddTensor(t Tensor) int32 {
	p.Tensors = append(p.Tensors, t)
	return int32(len(p.Tensors))
}

// AddShape appends a shape pool entry and returns its 1-based handle.
func (p *Program) AddShape(shape []int32) int32 {
	p.Shapes = append(p.Shapes, shape)
	return int32(len(p.Shapes))
}

// Float returns the float pool entry for a 1-based handle, reporting
// whether the handle was in range.
func (p *Program) Float(handle int32) (float64, bool) {
	if handle < 1 || int(handle) > len(p.Floats) {
		return 0, false
	}
	return p.Floats[handle-1], true
}

// Fraction returns the fraction pool entry for a 1-based handle.
func (p *Program) Fraction(handle int32) (ternary.Fraction, bool) {
	if handle < 1 || int(handle) > len(p.Fractions) {
		return ternary.Fraction{}, false
	}
	return p.Fractions[handle-1], true
}

// Symbol returns the symbol pool entry for a 1-based handle.
func (p *Program) Symbol(handle int32) (string, bool) {
	if handle < 1 || int(handle) > len(p.Symbols) {
		return "", false
	}
	return p.Symbols[handle-1], true
}

// TensorAt returns the tensor pool entry for a 1-based handle.
func (p *Program) TensorAt(handle int32) (Tensor, bool) {
	if handle < 1 || int(handle) > len(p.Tensors) {
		return Tensor{}, false
	}
	return p.Tensors[handle-1], true
}

// ShapeAt returns the shape pool entry for a 1-based handle.
func (p *Program) ShapeAt(handle int32) ([]int32, bool) {
	if handle < 1 || int(handle) > len(p.Shapes) {
		return nil, false
	}
	return p.Shapes[handle-1], true
}

// Validate checks every instruction's opcode is recognized and every
// LoadImm handle literal is in range for its pool, matching the load-time
// validation the program representation requires.
func (p *Program) Validate() error {
	for idx, insn := range p.Insns {
		if !insn.Opcode.Valid() {
			return &ProgramError{Index: idx, Message: "unrecognized opcode"}
		}
		if insn.Opcode != OpLoadImm {
			continue
		}
		switch insn.LiteralKind {
		case LitInt:
			// No pool to validate.
		case LitFloatHandle:
			if _, ok := p.Float(insn.C); !ok {
				return &ProgramError{Index: idx, Message: "LoadImm float handle out of range"}
			}
		case LitFractionHandle:
			if _, ok := p.Fraction(insn.C); !ok {
				return &ProgramError{Index: idx, Message: "LoadImm fraction handle out of range"}
			}
		case LitSymbolHandle:
			if _, ok := p.Symbol(insn.C); !ok {
				return &ProgramError{Index: idx, Message: "LoadImm symbol handle out of range"}
			}
		case LitTensorHandle:
			if _, ok := p.TensorAt(insn.C); !ok {
				return &ProgramError{Index: idx, Message: "LoadImm tensor handle out of range"}
			}
		case LitShapeHandle:
			if _, ok := p.ShapeAt(insn.C); !ok {
				return &ProgramError{Index: idx, Message: "LoadImm shape handle out of range"}
			}
		}
	}
	return nil
}

// ProgramError reports a static validation failure at a specific
// instruction index.
type ProgramError struct {
	Index   int
	Message string
}

func (e *ProgramError) Error() string {
	return "tisc: " + e.Message
}
