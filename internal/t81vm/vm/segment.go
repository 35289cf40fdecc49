package vm

// MemorySegmentKind names one of the five fixed, contiguously ordered
// segments of the VM's linear memory.
type MemorySegmentKind int

const (
	SegCode MemorySegmentKind = iota
	SegStack
	SegHeap
	SegTensor
	SegMeta
	segUnknown
)

func (k MemorySegmentKind) String() string {
	switch k {
	case SegCode:
		return "code"
	case SegStack:
		return "stack"
	case SegHeap:
		return "heap"
	case SegTensor:
		return "tensor"
	case SegMeta:
		return "meta"
	default:
		return "unknown"
	}
}

// MemorySegment is a contiguous half-open range [Start, Limit) of the
// linear memory array.
type MemorySegment struct {
	Start int64
	Limit int64
}

// Size returns the segment's word count.
func (s MemorySegment) Size() int64 { return s.Limit - s.Start }

// Contains reports whether addr lies within [Start, Limit).
func (s MemorySegment) Contains(addr int64) bool {
	return addr >= s.Start && addr < s.Limit
}

// Valid reports whether the segment's bounds are well formed.
func (s MemorySegment) Valid() bool { return s.Limit >= s.Start }

// MemoryLayout fixes the five segments in order: Code, Stack, Heap,
// Tensor, Meta.
type MemoryLayout struct {
	Code   MemorySegment
	Stack  MemorySegment
	Heap   MemorySegment
	Tensor MemorySegment
	Meta   MemorySegment
}

// TotalSize returns the overall word count of the linear memory array the
// layout describes.
func (l MemoryLayout) TotalSize() int64 {
	return l.Meta.Limit
}

// SegmentFor returns the segment kind containing addr, and whether any
// segment does.
func (l MemoryLayout) SegmentFor(addr int64) (MemorySegmentKind, bool) {
	switch {
	case l.Code.Contains(addr):
		return SegCode, true
	case l.Stack.Contains(addr):
		return SegStack, true
	case l.Heap.Contains(addr):
		return SegHeap, true
	case l.Tensor.Contains(addr):
		return SegTensor, true
	case l.Meta.Contains(addr):
		return SegMeta, true
	default:
		return segUnknown, false
	}
}

// Default segment sizes, in words, matching the original implementation's
// compile-time constants; the VM constructor accepts overrides but
// defaults to these for scenario compatibility.
const (
	DefaultStackWords  = 256
	DefaultHeapWords   = 768
	DefaultTensorWords = 256
	DefaultMetaWords   = 256
)

// NewMemoryLayout lays out the five segments back to back in fixed order,
// starting at address 0.
func NewMemoryLayout(codeWords, stackWords, heapWords, tensorWords, metaWords int64) MemoryLayout {
	var l MemoryLayout
	cursor := int64(0)
	l.Code = MemorySegment{Start: cursor, Limit: cursor + codeWords}
	cursor = l.Code.Limit
	l.Stack = MemorySegment{Start: cursor, Limit: cursor + stackWords}
	cursor = l.Stack.Limit
	l.Heap = MemorySegment{Start: cursor, Limit: cursor + heapWords}
	cursor = l.Heap.Limit
	l.Tensor = MemorySegment{Start: cursor, Limit: cursor + tensorWords}
	cursor = l.Tensor.Limit
	l.Meta = MemorySegment{Start: cursor, Limit: cursor + metaWords}
	return l
}
