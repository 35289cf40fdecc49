// Package t81vm provides the public API for the T81 ternary virtual
// machine: a balanced-ternary arithmetic core, a register-based
// instruction set, and an Axion policy engine that gates execution against
// a declarative, S-expression policy.
//
// # Architecture
//
// - pkg/t81vm/: public API (this package)
// - internal/t81vm/: private implementation (not importable)
//
// The public API is stable across internal refactors: ternary numerics
// (internal/t81vm/ternary), the instruction-set program representation
// (internal/t81vm/tisc), the policy engine (internal/t81vm/axion), and the
// interpreter (internal/t81vm/vm) can all change shape without breaking
// callers of this package.
//
// # Quick start
//
//	program := t81vm.NewProgram()
//	program.LoadImmInt(1, 10)
//	program.LoadImmInt(2, 3)
//	program.Div(0, 1, 2)
//	program.Halt()
//
//	machine, err := t81vm.New(program, t81vm.DefaultConfig(), "")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := machine.RunToHalt(1000); err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(machine.State().Registers[0]) // 3
package t81vm
