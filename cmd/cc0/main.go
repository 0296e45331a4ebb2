package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/teris-io/cli"
)

var Description = strings.ReplaceAll(`
cc0 compiles a small subset of C (a single 'int main(void) { ... }' function,
no control flow beyond expression short-circuiting) down to x86-64 GNU
assembler text, delegating preprocessing and final assembly/linking to the
host gcc toolchain.
`, "\n", " ")

var Cc0 = cli.New(Description).
	WithArg(cli.NewArg("input", "The C source file to compile (must end in .c)").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("S", "Keep the generated .s assembly file").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("lex", "Stop after lexing").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("parse", "Stop after parsing").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("tacky", "Stop after TAC lowering").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("codegen", "Stop after assembly IR generation").
		WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "ERROR: missing input file, use --help\n")
		return exitFailure
	}

	if err := Run(args[0], options); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		return exitFailure
	}
	return exitSuccess
}

func main() { os.Exit(Cc0.Run(os.Args, os.Stdout)) }
