package axion

import "testing"

func TestNoPolicyEngineAlwaysAllows(t *testing.T) {
	eng := NewNoPolicyEngine()
	for i := 0; i < 5; i++ {
		v := eng.Evaluate(SyscallContext{})
		if v.Kind != Allow {
			t.Fatalf("step %d: got %v, want Allow", i, v.Kind)
		}
	}
}

func TestInstructionCountEngineDeniesPastBudget(t *testing.T) {
	eng := NewInstructionCountEngine(2)
	if v := eng.Evaluate(SyscallContext{}); v.Kind != Allow {
		t.Fatalf("step 1: got %v, want Allow", v.Kind)
	}
	if v := eng.Evaluate(SyscallContext{}); v.Kind != Allow {
		t.Fatalf("step 2: got %v, want Allow", v.Kind)
	}
	if v := eng.Evaluate(SyscallContext{}); v.Kind != Deny {
		t.Fatalf("step 3: got %v, want Deny", v.Kind)
	}
}

func TestPolicyEngineLoopHintGatesEveryStep(t *testing.T) {
	pol, err := ParsePolicy(`(policy (tier 1) (loop (id 0) (file a.t81) (line 1) (column 1) (annotated true) (depth 1) (bound infinite)))`)
	if err != nil {
		t.Fatal(err)
	}
	eng := NewPolicyEngine(&pol)

	v := eng.Evaluate(SyscallContext{NextOpcode: "Add", Reasons: nil})
	if v.Kind != Deny {
		t.Fatalf("expected Deny with no loop hint trace, got %v: %s", v.Kind, v.Reason)
	}

	v = eng.Evaluate(SyscallContext{
		NextOpcode: "Add",
		Reasons:    []string{"loop hint file=a.t81 line=1 column=1 bound=infinite"},
	})
	if v.Kind != Allow {
		t.Fatalf("expected Allow once loop hint satisfied, got %v: %s", v.Kind, v.Reason)
	}
}

func TestPolicyEngineSegmentEventOnlyGatesAtHalt(t *testing.T) {
	text := `(policy (tier 1) (require-segment-event (segment stack) (action "stack frame allocated")))`
	pol, err := ParsePolicy(text)
	if err != nil {
		t.Fatal(err)
	}
	eng := NewPolicyEngine(&pol)

	v := eng.Evaluate(SyscallContext{NextOpcode: "StackAlloc", Reasons: nil})
	if v.Kind != Allow {
		t.Fatalf("non-Halt step should Allow regardless of missing segment event, got %v", v.Kind)
	}

	v = eng.Evaluate(SyscallContext{NextOpcode: "Halt", Reasons: nil})
	if v.Kind != Deny {
		t.Fatalf("Halt with missing segment event should Deny, got %v", v.Kind)
	}

	v = eng.Evaluate(SyscallContext{
		NextOpcode: "Halt",
		Reasons:    []string{"stack frame allocated segment=stack addr=0"},
	})
	if v.Kind != Allow {
		t.Fatalf("Halt with satisfied segment event should Allow, got %v: %s", v.Kind, v.Reason)
	}
}

func TestPolicyEngineSegmentEventAddrMustMatch(t *testing.T) {
	text := `(policy (tier 1) (require-segment-event (segment stack) (action "stack frame allocated") (addr 9999)))`
	pol, err := ParsePolicy(text)
	if err != nil {
		t.Fatal(err)
	}
	eng := NewPolicyEngine(&pol)
	v := eng.Evaluate(SyscallContext{
		NextOpcode: "Halt",
		Reasons:    []string{"stack frame allocated segment=stack addr=0"},
	})
	if v.Kind != Deny {
		t.Fatalf("mismatched addr should Deny, got %v", v.Kind)
	}
}

func TestPolicyEngineUnknownClausesDoNotAffectVerdict(t *testing.T) {
	text := `(policy (tier 1) (unknown-future-clause (x 1)))`
	pol, err := ParsePolicy(text)
	if err != nil {
		t.Fatal(err)
	}
	eng := NewPolicyEngine(&pol)
	v := eng.Evaluate(SyscallContext{NextOpcode: "Halt"})
	if v.Kind != Allow {
		t.Fatalf("unknown clause should not change verdict, got %v", v.Kind)
	}
}
