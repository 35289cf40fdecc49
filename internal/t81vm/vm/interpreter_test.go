package vm

import (
	"strings"
	"testing"

	"github.com/t81/t81vm/internal/t81vm/axion"
	"github.com/t81/t81vm/internal/t81vm/tisc"
)

func buildProgram(insns ...tisc.Insn) *tisc.Program {
	p := tisc.NewProgram()
	for _, i := range insns {
		p.AddInsn(i)
	}
	return p
}

func mustInterpreter(t *testing.T, p *tisc.Program, engine axion.Engine) *Interpreter {
	t.Helper()
	it, err := NewInterpreter(p, engine, DefaultConfig())
	if err != nil {
		t.Fatalf("NewInterpreter: %v", err)
	}
	return it
}

func TestSimpleArithmeticScenario(t *testing.T) {
	p := buildProgram(
		tisc.Insn{Opcode: tisc.OpLoadImm, A: 1, C: 10, LiteralKind: tisc.LitInt},
		tisc.Insn{Opcode: tisc.OpLoadImm, A: 2, C: 3, LiteralKind: tisc.LitInt},
		tisc.Insn{Opcode: tisc.OpDiv, A: 0, B: 1, C: 2},
		tisc.Insn{Opcode: tisc.OpHalt},
	)
	it := mustInterpreter(t, p, nil)
	if err := it.RunToHalt(100); err != nil {
		t.Fatalf("RunToHalt: %v", err)
	}
	if !it.Halted() {
		t.Fatalf("expected halted")
	}
	if it.reg(0) != 3 {
		t.Fatalf("expected r0 == 3, got %d", it.reg(0))
	}
	if !it.State.Flags.Positive {
		t.Fatalf("expected positive flag set")
	}
}

func TestDivideByZeroTraps(t *testing.T) {
	p := buildProgram(
		tisc.Insn{Opcode: tisc.OpLoadImm, A: 1, C: 10, LiteralKind: tisc.LitInt},
		tisc.Insn{Opcode: tisc.OpLoadImm, A: 2, C: 0, LiteralKind: tisc.LitInt},
		tisc.Insn{Opcode: tisc.OpDiv, A: 0, B: 1, C: 2},
		tisc.Insn{Opcode: tisc.OpHalt},
	)
	it := mustInterpreter(t, p, nil)
	_ = it.RunToHalt(100)
	if it.TrapKind() != TrapDivideByZero {
		t.Fatalf("expected DivideByZero trap, got %v", it.TrapKind())
	}
}

func TestStackFrameBoundsFault(t *testing.T) {
	p := buildProgram(
		tisc.Insn{Opcode: tisc.OpLoadImm, A: 1, C: int32(DefaultStackWords + 1), LiteralKind: tisc.LitInt},
		tisc.Insn{Opcode: tisc.OpStackAlloc, A: 0, B: 1},
		tisc.Insn{Opcode: tisc.OpHalt},
	)
	it := mustInterpreter(t, p, nil)
	_ = it.RunToHalt(100)
	if it.TrapKind() != TrapBoundsFault {
		t.Fatalf("expected BoundsFault trap, got %v", it.TrapKind())
	}
	found := false
	for _, e := range it.State.AxionLog {
		if strings.Contains(e.Reason, "bounds fault segment=stack") && strings.Contains(e.Reason, "action=stack frame allocate") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected bounds fault reason in log, got %+v", it.State.AxionLog)
	}
}

func TestPolicyRequiresSegmentEvent(t *testing.T) {
	p := buildProgram(
		tisc.Insn{Opcode: tisc.OpLoadImm, A: 1, C: 16, LiteralKind: tisc.LitInt},
		tisc.Insn{Opcode: tisc.OpStackAlloc, A: 0, B: 1},
		tisc.Insn{Opcode: tisc.OpHalt},
	)
	policy, err := axion.ParsePolicy(`(policy (tier 1) (require-segment-event (segment stack) (action "stack frame allocated")))`)
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}
	it := mustInterpreter(t, p, axion.NewPolicyEngine(&policy))
	if err := it.RunToHalt(100); err != nil {
		t.Fatalf("RunToHalt: %v", err)
	}
	if !it.Halted() {
		t.Fatalf("expected halted, trap=%v", it.TrapKind())
	}

	policy2, err := axion.ParsePolicy(`(policy (tier 1) (require-segment-event (segment stack) (action "stack frame allocated") (addr 9999)))`)
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}
	it2 := mustInterpreter(t, p, axion.NewPolicyEngine(&policy2))
	_ = it2.RunToHalt(100)
	if it2.TrapKind() != TrapSecurityFault {
		t.Fatalf("expected SecurityFault, got %v", it2.TrapKind())
	}
}

func TestEnumGuardWithPayload(t *testing.T) {
	blueVariantID := int32(1<<16 | 2) // enumID=1, local variant=2 ("Blue")
	p := buildProgram(
		tisc.Insn{Opcode: tisc.OpLoadImm, A: 1, C: 9, LiteralKind: tisc.LitInt},
		tisc.Insn{Opcode: tisc.OpMakeEnumVariantPayload, A: 2, B: blueVariantID, C: 1},
		tisc.Insn{Opcode: tisc.OpEnumIsVariant, A: 3, B: 2, C: blueVariantID},
		tisc.Insn{Opcode: tisc.OpEnumUnwrapPayload, A: 0, B: 2},
		tisc.Insn{Opcode: tisc.OpHalt},
	)
	p.Meta.EnumMetadata = []tisc.EnumMetadata{{
		EnumID: 1,
		Name:   "Color",
		Variants: []tisc.EnumVariantMetadata{
			{Index: 2, Name: "Blue", PayloadType: "i32", HasPayload: true},
		},
	}}
	it := mustInterpreter(t, p, nil)
	if err := it.RunToHalt(100); err != nil {
		t.Fatalf("RunToHalt: %v", err)
	}
	if !it.Halted() {
		t.Fatalf("expected halted, trap=%v", it.TrapKind())
	}
	if it.reg(0) != 9 {
		t.Fatalf("expected r0 == 9, got %d", it.reg(0))
	}
	var sawGuard, sawPayload bool
	for _, e := range it.State.AxionLog {
		if e.Reason == "enum guard enum=Color variant=Blue payload=i32 match=pass" {
			sawGuard = true
		}
		if e.Reason == "enum payload enum=Color variant=Blue payload=i32" {
			sawPayload = true
		}
	}
	if !sawGuard || !sawPayload {
		t.Fatalf("expected enum guard and payload reasons, got %+v", it.State.AxionLog)
	}
}

func TestLoopHintPolicyGatesEveryStep(t *testing.T) {
	p := buildProgram(
		tisc.Insn{Opcode: tisc.OpNop},
		tisc.Insn{Opcode: tisc.OpHalt},
	)
	hintReason := "loop hint file=prog.t81 line=4 column=2 bound=unknown"
	p.Meta.LoopHints = []string{hintReason}

	policy, err := axion.ParsePolicy(`(policy (tier 1) (loop (id 1) (file prog.t81) (line 4) (column 2) (annotated true) (depth 1) (bound unknown)))`)
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}
	it := mustInterpreter(t, p, axion.NewPolicyEngine(&policy))
	if err := it.RunToHalt(100); err != nil {
		t.Fatalf("RunToHalt: %v", err)
	}
	if !it.Halted() {
		t.Fatalf("expected halted with matching loop hint present, trap=%v", it.TrapKind())
	}

	policy2, err := axion.ParsePolicy(`(policy (tier 1) (loop (id 1) (file other.t81) (line 1) (column 1) (annotated true) (depth 1) (bound unknown)))`)
	if err != nil {
		t.Fatalf("ParsePolicy: %v", err)
	}
	it2 := mustInterpreter(t, p, axion.NewPolicyEngine(&policy2))
	_ = it2.RunToHalt(100)
	if it2.TrapKind() != TrapSecurityFault {
		t.Fatalf("expected SecurityFault for unmatched loop hint, got %v", it2.TrapKind())
	}
}

func TestDeterministicAxionLog(t *testing.T) {
	p := buildProgram(
		tisc.Insn{Opcode: tisc.OpLoadImm, A: 1, C: 5, LiteralKind: tisc.LitInt},
		tisc.Insn{Opcode: tisc.OpLoadImm, A: 2, C: 7, LiteralKind: tisc.LitInt},
		tisc.Insn{Opcode: tisc.OpAdd, A: 0, B: 1, C: 2},
		tisc.Insn{Opcode: tisc.OpHalt},
	)
	it1 := mustInterpreter(t, p, nil)
	_ = it1.RunToHalt(100)
	it2 := mustInterpreter(t, p, nil)
	_ = it2.RunToHalt(100)

	if len(it1.State.AxionLog) != len(it2.State.AxionLog) {
		t.Fatalf("log length mismatch: %d vs %d", len(it1.State.AxionLog), len(it2.State.AxionLog))
	}
	for i := range it1.State.AxionLog {
		if it1.State.AxionLog[i].Reason != it2.State.AxionLog[i].Reason {
			t.Fatalf("log entry %d differs: %q vs %q", i, it1.State.AxionLog[i].Reason, it2.State.AxionLog[i].Reason)
		}
	}
	if it1.reg(0) != 12 {
		t.Fatalf("expected r0 == 12, got %d", it1.reg(0))
	}
}

func TestMetaSlotPrecedesEveryAxionEvent(t *testing.T) {
	p := buildProgram(
		tisc.Insn{Opcode: tisc.OpLoadImm, A: 1, C: 16, LiteralKind: tisc.LitInt},
		tisc.Insn{Opcode: tisc.OpStackAlloc, A: 0, B: 1},
		tisc.Insn{Opcode: tisc.OpHalt},
	)
	it := mustInterpreter(t, p, nil)
	if err := it.RunToHalt(100); err != nil {
		t.Fatalf("RunToHalt: %v", err)
	}
	log := it.State.AxionLog
	for i, e := range log {
		if strings.HasPrefix(e.Reason, "meta slot") {
			continue
		}
		if i == 0 || !strings.HasPrefix(log[i-1].Reason, "meta slot") {
			t.Fatalf("event %q at index %d not preceded by a meta slot entry", e.Reason, i)
		}
	}
}
