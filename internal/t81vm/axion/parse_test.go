package axion

import "testing"

func TestParsePolicyMinimal(t *testing.T) {
	pol, err := ParsePolicy("(policy (tier 1))")
	if err != nil {
		t.Fatal(err)
	}
	if pol.Tier != 1 {
		t.Errorf("Tier = %d, want 1", pol.Tier)
	}
	if pol.HasMaxStack {
		t.Error("HasMaxStack should be false")
	}
}

func TestParsePolicySegmentEvent(t *testing.T) {
	text := `(policy (tier 1) (require-segment-event (segment stack) (action "stack frame allocated")))`
	pol, err := ParsePolicy(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(pol.SegmentEvents) != 1 {
		t.Fatalf("got %d segment events, want 1", len(pol.SegmentEvents))
	}
	se := pol.SegmentEvents[0]
	if se.Segment != "stack" || se.Action != "stack frame allocated" || se.HasAddr {
		t.Errorf("unexpected segment event: %+v", se)
	}
}

func TestParsePolicySegmentEventWithAddr(t *testing.T) {
	text := `(policy (tier 1) (require-segment-event (segment stack) (action "stack frame allocated") (addr 9999)))`
	pol, err := ParsePolicy(text)
	if err != nil {
		t.Fatal(err)
	}
	se := pol.SegmentEvents[0]
	if !se.HasAddr || se.Addr != 9999 {
		t.Errorf("unexpected addr field: %+v", se)
	}
}

func TestParsePolicyLoopHint(t *testing.T) {
	text := `(policy (tier 1) (loop (id 0) (file main.t81) (line 10) (column 3) (annotated true) (depth 1) (bound infinite)))`
	pol, err := ParsePolicy(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(pol.Loops) != 1 {
		t.Fatalf("got %d loops, want 1", len(pol.Loops))
	}
	hint := pol.Loops[0]
	if hint.File != "main.t81" || hint.Line != 10 || hint.Column != 3 || hint.BoundKind != LoopBoundInfinite {
		t.Errorf("unexpected loop hint: %+v", hint)
	}
}

func TestParsePolicyMatchGuardWithPayload(t *testing.T) {
	text := `(policy (tier 1) (require-match-guard (enum Color) (variant Blue) (payload i32) (result pass)))`
	pol, err := ParsePolicy(text)
	if err != nil {
		t.Fatal(err)
	}
	mg := pol.MatchGuards[0]
	if mg.EnumName != "Color" || mg.VariantName != "Blue" || !mg.HasPayload || mg.Payload != "i32" || mg.Result != "pass" {
		t.Errorf("unexpected match guard: %+v", mg)
	}
}

func TestParsePolicyMatchGuardWithoutPayload(t *testing.T) {
	text := `(policy (tier 1) (require-match-guard (enum Color) (variant Blue) (result pass)))`
	pol, err := ParsePolicy(text)
	if err != nil {
		t.Fatal(err)
	}
	mg := pol.MatchGuards[0]
	if mg.EnumName != "Color" || mg.VariantName != "Blue" || mg.HasPayload || mg.Result != "pass" {
		t.Errorf("unexpected match guard: %+v", mg)
	}
}

func TestParsePolicySegmentEventWithoutAddr(t *testing.T) {
	text := `(policy (tier 1) (require-segment-event (segment stack) (action "stack frame allocated")) (max-stack 100))`
	pol, err := ParsePolicy(text)
	if err != nil {
		t.Fatal(err)
	}
	se := pol.SegmentEvents[0]
	if se.HasAddr {
		t.Errorf("unexpected addr field: %+v", se)
	}
	if !pol.HasMaxStack || pol.MaxStack != 100 {
		t.Errorf("clause after addr-less segment-event failed to parse: %+v", pol)
	}
}

func TestParsePolicySkipsUnknownClauses(t *testing.T) {
	text := `(policy (tier 1) (future-clause (nested (deep 1)) (other 2)) (max-stack 100))`
	pol, err := ParsePolicy(text)
	if err != nil {
		t.Fatal(err)
	}
	if !pol.HasMaxStack || pol.MaxStack != 100 {
		t.Errorf("unknown clause skip broke subsequent parsing: %+v", pol)
	}
}

func TestParsePolicyRejectsMissingTier(t *testing.T) {
	if _, err := ParsePolicy("(policy (max-stack 10))"); err == nil {
		t.Fatal("expected error for policy missing (tier N)")
	}
}

func TestParsePolicyRejectsUnbalancedUnknownClause(t *testing.T) {
	if _, err := ParsePolicy("(policy (tier 1) (weird (a 1)"); err == nil {
		t.Fatal("expected error for unbalanced parentheses")
	}
}
