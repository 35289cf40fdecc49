package vm

import (
	"fmt"

	"github.com/t81/t81vm/internal/t81vm/tisc"
)

func formatTensorSlotEvent(idx int64) string {
	return fmt.Sprintf("tensor slot allocated tensor addr=%d size=1", idx)
}

// execTensorOp implements TVecAdd/TMatMul/TTenDot. Operands are tensor
// handles (insn.B, insn.C); the result is appended as a fresh runtime
// tensor slot and its handle written to insn.A.
func (it *Interpreter) execTensorOp(insn tisc.Insn) error {
	s := it.State
	if !isTensorTag(it.regTag(insn.B)) || !isTensorTag(it.regTag(insn.C)) {
		return it.trap(TrapIllegalInstruction)
	}
	a, ok1 := s.resolveTensor(it.Program.Tensors, int32(it.reg(insn.B)))
	b, ok2 := s.resolveTensor(it.Program.Tensors, int32(it.reg(insn.C)))
	if !ok1 || !ok2 {
		return it.trap(TrapIllegalInstruction)
	}

	var result tisc.Tensor
	var err error
	switch insn.Opcode {
	case tisc.OpTVecAdd:
		result, err = tensorVecAdd(a, b)
	case tisc.OpTMatMul:
		result, err = tensorMatMul(a, b)
	case tisc.OpTTenDot:
		result, err = tensorDot(a, b)
	}
	if err != nil {
		return it.trap(TrapIllegalInstruction)
	}

	handle := s.allocTensorSlot(len(it.Program.Tensors), result)
	it.setReg(insn.A, handle, TagTensorHandle)
	s.PC++
	return nil
}

func isTensorTag(t ValueTag) bool {
	return t == TagTensorHandle || t == TagWeightsTensorHandle
}

func shapeEqual(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func tensorVecAdd(a, b tisc.Tensor) (tisc.Tensor, error) {
	if !shapeEqual(a.Shape, b.Shape) || len(a.Data) != len(b.Data) {
		return tisc.Tensor{}, fmt.Errorf("vm: TVecAdd shape mismatch")
	}
	out := make([]float32, len(a.Data))
	for i := range a.Data {
		out[i] = a.Data[i] + b.Data[i]
	}
	return tisc.Tensor{Shape: append([]int32(nil), a.Shape...), Data: out}, nil
}

func tensorMatMul(a, b tisc.Tensor) (tisc.Tensor, error) {
	if len(a.Shape) != 2 || len(b.Shape) != 2 || a.Shape[1] != b.Shape[0] {
		return tisc.Tensor{}, fmt.Errorf("vm: TMatMul shape mismatch")
	}
	rows, mid, cols := int(a.Shape[0]), int(a.Shape[1]), int(b.Shape[1])
	out := make([]float32, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			var sum float32
			for k := 0; k < mid; k++ {
				sum += a.Data[i*mid+k] * b.Data[k*cols+j]
			}
			out[i*cols+j] = sum
		}
	}
	return tisc.Tensor{Shape: []int32{int32(rows), int32(cols)}, Data: out}, nil
}

func tensorDot(a, b tisc.Tensor) (tisc.Tensor, error) {
	if !shapeEqual(a.Shape, b.Shape) || len(a.Data) != len(b.Data) {
		return tisc.Tensor{}, fmt.Errorf("vm: TTenDot shape mismatch")
	}
	var sum float32
	for i := range a.Data {
		sum += a.Data[i] * b.Data[i]
	}
	return tisc.Tensor{Shape: []int32{1}, Data: []float32{sum}}, nil
}
