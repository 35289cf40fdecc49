// Package axion implements the Axion policy model: a small declarative
// matcher over the VM's append-only event log. It parses the policy
// S-expression grammar and evaluates verdicts against prior trace reasons.
package axion

// LoopBoundKind distinguishes the three ways a LoopHint's iteration bound
// can be expressed.
type LoopBoundKind int

const (
	// LoopBoundUnknown means the loop's bound could not be determined.
	LoopBoundUnknown LoopBoundKind = iota
	// LoopBoundStatic means the loop runs a known, fixed number of times.
	LoopBoundStatic
	// LoopBoundInfinite means the loop has no statically known bound.
	LoopBoundInfinite
)

// LoopHint describes a single source-level loop the policy requires a
// matching trace event for.
type LoopHint struct {
	ID         int64
	File       string
	Line       int64
	Column     int64
	Depth      int64
	BoundKind  LoopBoundKind
	BoundValue int64
}

// MatchGuard requires a prior "enum guard" event for the named enum and
// variant, with the given payload type name (if any) and pass/fail result.
type MatchGuard struct {
	EnumName    string
	VariantName string
	Payload     string
	HasPayload  bool
	Result      string
}

// SegmentEventReq requires a prior reason naming the given action and
// segment, and optionally an address.
type SegmentEventReq struct {
	Segment string
	Action  string
	Addr    int64
	HasAddr bool
}

// AxionEventReq requires some prior reason to contain Reason as a
// substring.
type AxionEventReq struct {
	Reason string
}

// Policy is the parsed form of a `(policy (tier N) CLAUSE*)` S-expression.
type Policy struct {
	Tier          int64
	MaxStack      int64
	HasMaxStack   bool
	Loops         []LoopHint
	MatchGuards   []MatchGuard
	SegmentEvents []SegmentEventReq
	AxionEvents   []AxionEventReq
}
