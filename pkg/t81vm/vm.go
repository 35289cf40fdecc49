package t81vm

import (
	"encoding/hex"

	"github.com/t81/t81vm/internal/t81vm/axion"
	"github.com/t81/t81vm/internal/t81vm/vm"
)

// VM runs a loaded Program under an optional Axion policy.
type VM interface {
	// Step executes a single instruction. It returns a *T81Error wrapping
	// ErrTrapped once the machine has halted or trapped.
	Step() error
	// RunToHalt steps until the machine halts, traps, or maxSteps is
	// exceeded. Exceeding maxSteps without halting is not itself an error;
	// callers should check State().Halted.
	RunToHalt(maxSteps int64) error
	// State returns a snapshot of the machine's current registers, PC, and
	// termination status.
	State() State
	// AxionLog returns the ordered reason strings the policy engine and
	// interpreter have recorded so far.
	AxionLog() []string
}

type machine struct {
	it     *vm.Interpreter
	digest string
}

// New constructs a VM for program under cfg. If policyText is non-empty it
// is parsed as an Axion policy S-expression and every step (and, at Halt,
// every match-guard/segment-event/axion-event clause) is evaluated against
// it; an empty policyText runs with no policy gate at all.
func New(program *Program, cfg Config, policyText string) (VM, error) {
	if cfg.StackWords < 0 || cfg.HeapWords < 0 || cfg.TensorWords < 0 || cfg.MetaWords < 0 {
		return nil, &T81Error{Code: ErrInvalidConfig, Message: "segment word counts must be non-negative"}
	}

	var engine axion.Engine
	if policyText != "" {
		policy, err := axion.ParsePolicy(policyText)
		if err != nil {
			return nil, &T81Error{Code: ErrInvalidPolicy, Message: "failed to parse policy text", Cause: err}
		}
		engine = axion.NewPolicyEngine(&policy)
	}

	it, err := vm.NewInterpreter(program.inner, engine, cfg.toInternal())
	if err != nil {
		return nil, &T81Error{Code: ErrInvalidProgram, Message: "failed to load program", Cause: err}
	}

	digest := vm.ProgramDigest(program.inner)
	return &machine{it: it, digest: hex.EncodeToString(digest[:])}, nil
}

func (m *machine) Step() error {
	if err := m.it.Step(); err != nil {
		return &T81Error{Code: ErrTrapped, Message: "step failed", Cause: err}
	}
	return nil
}

func (m *machine) RunToHalt(maxSteps int64) error {
	if err := m.it.RunToHalt(maxSteps); err != nil {
		return &T81Error{Code: ErrTrapped, Message: "run failed", Cause: err}
	}
	return nil
}

func (m *machine) State() State {
	s := m.it.State
	st := State{
		PC:               s.PC,
		Halted:           s.Halted,
		Trapped:          s.Trapped,
		TrapKind:         s.TrapKind,
		ProgramDigestHex: m.digest,
	}
	st.Registers = s.Registers
	return st
}

func (m *machine) AxionLog() []string {
	log := m.it.State.AxionLog
	out := make([]string, len(log))
	for i, e := range log {
		out[i] = e.Reason
	}
	return out
}
