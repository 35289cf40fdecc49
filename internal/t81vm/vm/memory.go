package vm

import "github.com/t81/t81vm/internal/t81vm/tisc"

// segmentGate validates addr lies in exactly one of {Stack, Heap, Tensor,
// Meta} (Code is never readable/writable by Load/Store) and within the
// overall memory length, emitting a bounds-fault reason and trapping
// otherwise.
func (it *Interpreter) segmentGate(addr int64, action string) (MemorySegmentKind, error) {
	s := it.State
	if addr < 0 || addr >= int64(len(s.Memory)) {
		s.logBoundsFault(segUnknown, addr, action)
		return segUnknown, it.trap(TrapInvalidMemory)
	}
	kind, ok := s.Layout.SegmentFor(addr)
	if !ok || kind == SegCode {
		s.logBoundsFault(kind, addr, action)
		return segUnknown, it.trap(TrapInvalidMemory)
	}
	return kind, nil
}

func (it *Interpreter) execLoad(insn tisc.Insn) error {
	s := it.State
	addr := it.reg(insn.B)
	seg, err := it.segmentGate(addr, "memory load")
	if err != nil {
		return err
	}
	v := s.Memory[addr]
	tag := s.MemoryTags[addr]
	it.setReg(insn.A, v, tag)
	s.logMemorySegmentAccess("load", seg, addr, 1)
	if tag == TagInt {
		s.Flags.SetFromInt64(v)
	}
	s.PC++
	return nil
}

func (it *Interpreter) execStore(insn tisc.Insn) error {
	s := it.State
	addr := it.reg(insn.A)
	seg, err := it.segmentGate(addr, "memory store")
	if err != nil {
		return err
	}
	s.Memory[addr] = it.reg(insn.B)
	s.MemoryTags[addr] = it.regTag(insn.B)
	s.logMemorySegmentAccess("store", seg, addr, 1)
	s.PC++
	return nil
}

func (it *Interpreter) execPush(insn tisc.Insn) error {
	s := it.State
	s.SP--
	if s.SP < s.Layout.Stack.Start {
		s.logBoundsFault(SegStack, s.SP, "push")
		return it.trap(TrapBoundsFault)
	}
	s.Memory[s.SP] = it.reg(insn.A)
	s.MemoryTags[s.SP] = it.regTag(insn.A)
	s.logMemorySegmentAccess("store", SegStack, s.SP, 1)
	s.PC++
	return nil
}

func (it *Interpreter) execPop(insn tisc.Insn) error {
	s := it.State
	if s.SP >= s.Layout.Stack.Limit {
		s.logBoundsFault(SegStack, s.SP, "pop")
		return it.trap(TrapBoundsFault)
	}
	v := s.Memory[s.SP]
	tag := s.MemoryTags[s.SP]
	s.logMemorySegmentAccess("load", SegStack, s.SP, 1)
	s.SP++
	it.setReg(insn.A, v, tag)
	s.PC++
	return nil
}

func (it *Interpreter) execStackAlloc(insn tisc.Insn) error {
	s := it.State
	size := it.reg(insn.B)
	newSP := s.SP - size
	if size < 0 || newSP < s.Layout.Stack.Start {
		s.logBoundsFault(SegStack, s.Layout.Stack.Start, "stack frame allocate")
		return it.trap(TrapBoundsFault)
	}
	s.SP = newSP
	s.StackFrames = append(s.StackFrames, FrameEntry{Addr: newSP, Size: size})
	it.setReg(insn.A, newSP, TagInt)
	s.applySegmentReason(formatSegmentEvent("stack frame allocated", SegStack, newSP))
	s.PC++
	return nil
}

func (it *Interpreter) execStackFree(insn tisc.Insn) error {
	s := it.State
	addr := it.reg(insn.A)
	size := it.reg(insn.B)
	if len(s.StackFrames) == 0 {
		s.logBoundsFault(SegStack, addr, "stack frame free")
		return it.trap(TrapIllegalInstruction)
	}
	top := s.StackFrames[len(s.StackFrames)-1]
	if top.Addr != addr || top.Size != size {
		s.logBoundsFault(SegStack, addr, "stack frame free")
		return it.trap(TrapIllegalInstruction)
	}
	s.StackFrames = s.StackFrames[:len(s.StackFrames)-1]
	s.SP += size
	s.applySegmentReason(formatSegmentEvent("stack frame freed", SegStack, addr))
	s.PC++
	return nil
}

func (it *Interpreter) execHeapAlloc(insn tisc.Insn) error {
	s := it.State
	size := it.reg(insn.B)
	newPtr := s.HeapPtr + size
	if size < 0 || newPtr > s.Layout.Heap.Limit {
		s.logBoundsFault(SegHeap, s.Layout.Heap.Limit, "heap block allocate")
		return it.trap(TrapBoundsFault)
	}
	addr := s.HeapPtr
	s.HeapPtr = newPtr
	s.HeapFrames = append(s.HeapFrames, FrameEntry{Addr: addr, Size: size})
	it.setReg(insn.A, addr, TagInt)
	s.applySegmentReason(formatSegmentEvent("heap block allocated", SegHeap, addr))
	s.PC++
	return nil
}

func (it *Interpreter) execHeapFree(insn tisc.Insn) error {
	s := it.State
	addr := it.reg(insn.A)
	size := it.reg(insn.B)
	if len(s.HeapFrames) == 0 {
		s.logBoundsFault(SegHeap, addr, "heap block free")
		return it.trap(TrapIllegalInstruction)
	}
	top := s.HeapFrames[len(s.HeapFrames)-1]
	if top.Addr != addr || top.Size != size {
		s.logBoundsFault(SegHeap, addr, "heap block free")
		return it.trap(TrapIllegalInstruction)
	}
	s.HeapFrames = s.HeapFrames[:len(s.HeapFrames)-1]
	s.HeapPtr -= size
	s.applySegmentReason(formatSegmentEvent("heap block freed", SegHeap, addr))
	s.PC++
	return nil
}

func formatSegmentEvent(action string, seg MemorySegmentKind, addr int64) string {
	return action + " segment=" + seg.String() + " addr=" + itoa(addr)
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
