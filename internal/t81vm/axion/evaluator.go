package axion

import (
	"fmt"
	"strconv"
	"strings"
)

// PolicyEngine evaluates a parsed Policy against the VM's trace reasons,
// via pure substring matching, exactly per the declarative matcher
// described in the policy model: loop hints are gated on every step; match
// guards, segment events, and raw axion-event requirements are gated only
// on the step whose upcoming opcode is Halt.
type PolicyEngine struct {
	policy *Policy
}

// NewPolicyEngine returns a PolicyEngine for the given policy. A nil policy
// behaves like NoPolicyEngine.
func NewPolicyEngine(policy *Policy) *PolicyEngine {
	return &PolicyEngine{policy: policy}
}

func loopHintExpectedReason(hint LoopHint) string {
	var bound string
	switch hint.BoundKind {
	case LoopBoundInfinite:
		bound = "infinite"
	case LoopBoundStatic:
		bound = strconv.FormatInt(hint.BoundValue, 10)
	default:
		bound = "unknown"
	}
	return fmt.Sprintf("loop hint file=%s line=%d column=%d bound=%s", hint.File, hint.Line, hint.Column, bound)
}

func containsAny(reasons []string, substr string) bool {
	for _, r := range reasons {
		if strings.Contains(r, substr) {
			return true
		}
	}
	return false
}

// Evaluate implements the three-step algorithm: loop hints first (every
// step), then (Halt only) match guards, segment events, and raw axion
// events, in that order; otherwise Allow.
func (e *PolicyEngine) Evaluate(ctx SyscallContext) Verdict {
	if e.policy == nil {
		return Verdict{Kind: Allow, Reason: "Axion policy engine (no policy)"}
	}
	for _, hint := range e.policy.Loops {
		expected := loopHintExpectedReason(hint)
		if !containsAny(ctx.Reasons, expected) {
			return Verdict{Kind: Deny, Reason: "Missing loop hint trace: " + expected}
		}
	}

	if ctx.NextOpcode == "Halt" {
		for _, mg := range e.policy.MatchGuards {
			if !e.matchGuardSatisfied(ctx, mg) {
				reason := fmt.Sprintf("Missing match guard event: enum=%s variant=%s", mg.EnumName, mg.VariantName)
				if mg.HasPayload {
					reason += " payload=" + mg.Payload
				}
				reason += " result=" + mg.Result
				return Verdict{Kind: Deny, Reason: reason}
			}
		}
		for _, se := range e.policy.SegmentEvents {
			if !e.segmentEventSatisfied(ctx, se) {
				reason := fmt.Sprintf("Missing segment event: action=%q segment=%s", se.Action, se.Segment)
				if se.HasAddr {
					reason += fmt.Sprintf(" addr=%d", se.Addr)
				}
				return Verdict{Kind: Deny, Reason: reason}
			}
		}
		for _, ae := range e.policy.AxionEvents {
			if !containsAny(ctx.Reasons, ae.Reason) {
				return Verdict{Kind: Deny, Reason: fmt.Sprintf("Missing Axion event reason containing %q", ae.Reason)}
			}
		}
	}

	return Verdict{Kind: Allow, Reason: "Axion policy engine (loop hints satisfied)"}
}

func (e *PolicyEngine) matchGuardSatisfied(ctx SyscallContext, req MatchGuard) bool {
	enumToken := "enum=" + req.EnumName
	variantToken := "variant=" + req.VariantName
	matchToken := "match=" + req.Result
	payloadToken := ""
	if req.HasPayload {
		payloadToken = "payload=" + req.Payload
	}
	for _, entry := range ctx.Reasons {
		if !strings.Contains(entry, "enum guard") {
			continue
		}
		if req.EnumName != "" && !strings.Contains(entry, enumToken) {
			continue
		}
		if req.VariantName != "" && !strings.Contains(entry, variantToken) {
			continue
		}
		if req.HasPayload && !strings.Contains(entry, payloadToken) {
			continue
		}
		if !strings.Contains(entry, matchToken) {
			continue
		}
		return true
	}
	return false
}

func (e *PolicyEngine) segmentEventSatisfied(ctx SyscallContext, req SegmentEventReq) bool {
	segmentEq := "segment=" + req.Segment
	segmentSpaced := " " + req.Segment + " "
	addrToken := ""
	if req.HasAddr {
		addrToken = fmt.Sprintf("addr=%d", req.Addr)
	}
	for _, entry := range ctx.Reasons {
		if !strings.Contains(entry, req.Action) {
			continue
		}
		segmentOK := req.Segment == ""
		if !segmentOK {
			segmentOK = strings.Contains(entry, segmentEq) || strings.Contains(entry, segmentSpaced)
		}
		if !segmentOK {
			continue
		}
		if addrToken != "" && !strings.Contains(entry, addrToken) {
			continue
		}
		return true
	}
	return false
}
