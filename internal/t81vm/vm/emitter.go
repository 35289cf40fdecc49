package vm

import "fmt"

// recordAxionEvent is the only path into the axion log. Every call first
// consumes one Meta slot (emitting its own "meta slot axion event" reason)
// and only then appends the caller's own event — this two-step ordering is
// observable by policies that count Meta events and must be preserved
// exactly.
func (s *State) recordAxionEvent(opcode string, tag ValueTag, value int64, kind string, reason string) {
	s.logMetaSlot("axion event")
	s.AxionLog = append(s.AxionLog, AxionEvent{
		Opcode: opcode,
		Tag:    tag,
		Value:  value,
		Kind:   kind,
		Reason: reason,
	})
}

// logMetaSlot consumes one Meta slot and appends its own bookkeeping
// reason, independent of whatever event triggered it.
func (s *State) logMetaSlot(cause string) {
	slot := s.MetaPtr
	s.MetaPtr++
	s.AxionLog = append(s.AxionLog, AxionEvent{
		Opcode: cause,
		Kind:   "Allow",
		Reason: fmt.Sprintf("meta slot %s segment=meta addr=%d", cause, slot),
	})
}

// logMemorySegmentAccess records a successful Load/Store.
func (s *State) logMemorySegmentAccess(action string, seg MemorySegmentKind, addr int64, size int64) {
	s.recordAxionEvent("memory", TagInt, addr, "Allow",
		fmt.Sprintf("memory %s %s addr=%d size=%d", action, seg, addr, size))
}

// logBoundsFault records an out-of-range or non-LIFO memory operation.
func (s *State) logBoundsFault(seg MemorySegmentKind, addr int64, action string) {
	s.recordAxionEvent("bounds_fault", TagInt, addr, "Deny",
		fmt.Sprintf("bounds fault segment=%s addr=%d action=%s", seg, addr, action))
}

// applySegmentReason records a segment lifecycle event: stack/heap frame
// allocation or free, or tensor slot allocation.
func (s *State) applySegmentReason(reason string) {
	s.recordAxionEvent("segment", TagInt, 0, "Allow", reason)
}

// emitGCSummary records the periodic GC interval summary — a policy hook
// point, not real reclamation.
func (s *State) emitGCSummary() {
	s.GCCycles++
	s.recordAxionEvent("gc", TagInt, s.GCCycles, "Allow", fmt.Sprintf(
		"interval stack_frames=%d heap_frames=%d heap_ptr=%d tensor_slots=%d meta_space=%d",
		len(s.StackFrames), len(s.HeapFrames), s.HeapPtr, s.TensorSlotCount, s.MetaPtr-s.Layout.Meta.Start,
	))
}

// tickGCInterval advances the instruction counter and emits a GC summary
// every GCInterval instructions, resetting the counter on emission.
func (s *State) tickGCInterval() {
	s.sinceGC++
	if s.sinceGC >= GCInterval {
		s.sinceGC = 0
		s.emitGCSummary()
	}
}

// reasons returns the read-only prefix of reason strings the axion log
// holds so far, for Axion evaluation.
func (s *State) reasons() []string {
	out := make([]string, len(s.AxionLog))
	for i, e := range s.AxionLog {
		out[i] = e.Reason
	}
	return out
}
