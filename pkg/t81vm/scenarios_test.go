package t81vm

import (
	"strings"
	"testing"
)

func TestScenarioSimpleArithmetic(t *testing.T) {
	p := NewProgram()
	p.LoadImmInt(1, 10)
	p.LoadImmInt(2, 3)
	p.Div(0, 1, 2)
	p.Halt()

	m, err := New(p, DefaultConfig(), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.RunToHalt(100); err != nil {
		t.Fatalf("RunToHalt: %v", err)
	}
	st := m.State()
	if !st.Halted || st.Trapped {
		t.Fatalf("expected clean halt, got %+v", st)
	}
	if st.Registers[0] != 3 {
		t.Fatalf("expected r0 == 3, got %d", st.Registers[0])
	}
	var sawMetaSlot, sawHalt bool
	for _, r := range m.AxionLog() {
		if strings.HasPrefix(r, "meta slot") {
			sawMetaSlot = true
		}
		if r == "halt instruction" {
			sawHalt = true
		}
	}
	if !sawMetaSlot || !sawHalt {
		t.Fatalf("expected a meta slot entry and the halt event, got %v", m.AxionLog())
	}
}

func TestScenarioIntegerMultiplyExactForLargeOperands(t *testing.T) {
	p := NewProgram()
	p.LoadImmInt(1, 1_234_567)
	p.LoadImmInt(2, 7_654_321)
	p.Mul(0, 1, 2)
	p.Halt()

	m, err := New(p, DefaultConfig(), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.RunToHalt(100); err != nil {
		t.Fatalf("RunToHalt: %v", err)
	}
	st := m.State()
	if !st.Halted || st.Trapped {
		t.Fatalf("expected clean halt, got %+v", st)
	}
	if want := int64(1_234_567) * int64(7_654_321); st.Registers[0] != want {
		t.Fatalf("expected r0 == %d, got %d", want, st.Registers[0])
	}
}

func TestScenarioDivideByZero(t *testing.T) {
	p := NewProgram()
	p.LoadImmInt(1, 10)
	p.LoadImmInt(2, 0)
	p.Div(0, 1, 2)
	p.Halt()

	m, err := New(p, DefaultConfig(), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = m.RunToHalt(100)
	st := m.State()
	if st.TrapKind != TrapDivideByZero {
		t.Fatalf("expected DivideByZero trap, got %v", st.TrapKind)
	}
}

func TestScenarioStackFrameBoundsFault(t *testing.T) {
	p := NewProgram()
	p.LoadImmInt(1, int32(DefaultConfig().StackWords)+1)
	p.StackAlloc(0, 1)
	p.Halt()

	m, err := New(p, DefaultConfig(), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = m.RunToHalt(100)
	st := m.State()
	if st.TrapKind != TrapBoundsFault {
		t.Fatalf("expected BoundsFault trap, got %v", st.TrapKind)
	}
	found := false
	for _, r := range m.AxionLog() {
		if strings.Contains(r, "bounds fault segment=stack") && strings.Contains(r, "action=stack frame allocate") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected bounds fault reason in log, got %v", m.AxionLog())
	}
}

func TestScenarioEnumGuardWithPayload(t *testing.T) {
	blueVariantID := int32(1<<16 | 2)
	p := NewProgram()
	p.AddEnumType(1, "Color", []EnumVariant{{Index: 2, Name: "Blue", PayloadType: "i32", HasPayload: true}})
	p.LoadImmInt(1, 9)
	p.MakeEnumVariantPayload(2, blueVariantID, 1)
	p.EnumIsVariant(3, 2, blueVariantID)
	p.EnumUnwrapPayload(0, 2)
	p.Halt()

	m, err := New(p, DefaultConfig(), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.RunToHalt(100); err != nil {
		t.Fatalf("RunToHalt: %v", err)
	}
	st := m.State()
	if !st.Halted || st.Trapped {
		t.Fatalf("expected clean halt, got %+v", st)
	}
	if st.Registers[0] != 9 {
		t.Fatalf("expected r0 == 9, got %d", st.Registers[0])
	}
	var sawGuard, sawPayload bool
	for _, r := range m.AxionLog() {
		if r == "enum guard enum=Color variant=Blue payload=i32 match=pass" {
			sawGuard = true
		}
		if r == "enum payload enum=Color variant=Blue payload=i32" {
			sawPayload = true
		}
	}
	if !sawGuard || !sawPayload {
		t.Fatalf("expected enum guard and payload reasons, got %v", m.AxionLog())
	}
}

func TestScenarioPolicyRequiresSegmentEvent(t *testing.T) {
	buildProg := func() *Program {
		p := NewProgram()
		p.LoadImmInt(1, 16)
		p.StackAlloc(0, 1)
		p.Halt()
		return p
	}

	m, err := New(buildProg(), DefaultConfig(), `(policy (tier 1) (require-segment-event (segment stack) (action "stack frame allocated")))`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.RunToHalt(100); err != nil {
		t.Fatalf("RunToHalt: %v", err)
	}
	if st := m.State(); !st.Halted || st.Trapped {
		t.Fatalf("expected clean halt, got %+v", st)
	}

	m2, err := New(buildProg(), DefaultConfig(), `(policy (tier 1) (require-segment-event (segment stack) (action "stack frame allocated") (addr 9999)))`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = m2.RunToHalt(100)
	if st := m2.State(); st.TrapKind != TrapSecurityFault {
		t.Fatalf("expected SecurityFault, got %v", st.TrapKind)
	}
}

func TestScenarioLoopHintPolicy(t *testing.T) {
	hintReason := "loop hint file=prog.t81 line=4 column=2 bound=unknown"
	buildProg := func() *Program {
		p := NewProgram()
		p.Nop()
		p.Halt()
		p.AddLoopHint(hintReason)
		return p
	}

	m, err := New(buildProg(), DefaultConfig(), `(policy (tier 1) (loop (id 1) (file prog.t81) (line 4) (column 2) (annotated true) (depth 1) (bound unknown)))`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.RunToHalt(100); err != nil {
		t.Fatalf("RunToHalt: %v", err)
	}
	if st := m.State(); !st.Halted || st.Trapped {
		t.Fatalf("expected clean halt with matching loop hint, got %+v", st)
	}

	m2, err := New(buildProg(), DefaultConfig(), `(policy (tier 1) (loop (id 1) (file other.t81) (line 1) (column 1) (annotated true) (depth 1) (bound unknown)))`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = m2.RunToHalt(100)
	if st := m2.State(); st.TrapKind != TrapSecurityFault {
		t.Fatalf("expected SecurityFault for unmatched loop hint, got %v", st.TrapKind)
	}
}
