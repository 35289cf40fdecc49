// Command t81vm runs a small built-in demonstration program on the T81
// ternary virtual machine and reports its final register state, Axion log,
// and exit code. It is a thin harness over pkg/t81vm, not a program loader;
// loading TISC programs from a file format is out of scope here.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/t81/t81vm/pkg/t81vm"
)

func main() {
	maxSteps := flag.Int64("max-steps", 1000, "maximum instructions to execute before giving up")
	policyText := flag.String("policy", "", "optional Axion policy S-expression text")
	verbose := flag.Bool("v", false, "print the Axion log")
	flag.Parse()

	program := t81vm.NewProgram()
	program.LoadImmInt(1, 10)
	program.LoadImmInt(2, 3)
	program.Div(0, 1, 2)
	program.Halt()

	machine, err := t81vm.New(program, t81vm.DefaultConfig(), *policyText)
	if err != nil {
		fmt.Fprintln(os.Stderr, "t81vm:", err)
		os.Exit(1)
	}

	runErr := machine.RunToHalt(*maxSteps)
	st := machine.State()

	if *verbose {
		for _, reason := range machine.AxionLog() {
			fmt.Println(reason)
		}
	}

	fmt.Printf("r0=%d pc=%d halted=%t trapped=%t trap=%v digest=%s\n",
		st.Registers[0], st.PC, st.Halted, st.Trapped, st.TrapKind, st.ProgramDigestHex)

	if runErr != nil || st.Trapped {
		os.Exit(st.TrapKind.ExitCode())
	}
	if !st.Halted {
		fmt.Fprintln(os.Stderr, "t81vm: exceeded max-steps without halting")
		os.Exit(1)
	}
}
