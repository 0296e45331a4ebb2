package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"its-hmny.dev/cc0/pkg/codegen"
	"its-hmny.dev/cc0/pkg/emitter"
	"its-hmny.dev/cc0/pkg/lexer"
	"its-hmny.dev/cc0/pkg/parser"
	"its-hmny.dev/cc0/pkg/tacker"
)

const (
	exitSuccess = 0
	exitFailure = 10
)

// gccPath is the host C toolchain cc0 shells out to for preprocessing and
// for final assembly/linking. Overridable so tests never depend on a real
// gcc being on PATH.
var gccPath = "gcc"

// Run drives one compilation end to end: preprocess, lex, parse, tack,
// generate, emit, then (unless a stage-stop flag was given) assemble and
// link the result into an executable next to the source file. The .s file
// is written next to the source and removed afterwards unless -S was given.
func Run(input string, options map[string]string) error {
	if !strings.HasSuffix(input, ".c") {
		return fmt.Errorf("input file %q must end in .c", input)
	}
	base := strings.TrimSuffix(input, ".c")

	scratch, err := os.MkdirTemp("", "cc0-*")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	preprocessed, err := preprocess(input, scratch)
	if err != nil {
		return err
	}

	assembly, stopped, err := compile(preprocessed, options)
	if err != nil || stopped {
		return err
	}

	assemblyPath := base + ".s"
	if err := os.WriteFile(assemblyPath, []byte(assembly), 0644); err != nil {
		return fmt.Errorf("writing assembly output: %w", err)
	}
	if _, keep := options["S"]; !keep {
		defer os.Remove(assemblyPath)
	}

	return assembleAndLink(assemblyPath, base)
}

// compile runs the core pipeline (lex, parse, tack, generate, emit) over
// already-preprocessed source, honoring any stage-stop flag. It touches no
// filesystem and shells out to nothing, which is what makes it directly
// testable without a real gcc on PATH.
func compile(preprocessed string, options map[string]string) (assembly string, stopped bool, err error) {
	tokens, err := lexer.New(preprocessed).Tokenize()
	if err != nil {
		return "", false, err
	}
	if _, stop := options["lex"]; stop {
		fmt.Fprintf(os.Stderr, "cc0: stopping after lexing, %d tokens\n", len(tokens))
		return "", true, nil
	}

	program, err := parser.New(tokens).Parse()
	if err != nil {
		return "", false, err
	}
	if _, stop := options["parse"]; stop {
		fmt.Fprintf(os.Stderr, "cc0: stopping after parsing\n")
		return "", true, nil
	}

	tprogram, err := tacker.New().Lower(program)
	if err != nil {
		return "", false, err
	}
	if _, stop := options["tacky"]; stop {
		fmt.Fprintf(os.Stderr, "cc0: stopping after TAC lowering, %d instructions\n", len(tprogram.Function.Instructions))
		return "", true, nil
	}

	aprogram, err := codegen.Generate(tprogram)
	if err != nil {
		return "", false, err
	}
	if _, stop := options["codegen"]; stop {
		fmt.Fprintf(os.Stderr, "cc0: stopping after codegen, %d instructions\n", len(aprogram.Function.Instructions))
		return "", true, nil
	}

	assembly, err = emitter.Emit(aprogram)
	if err != nil {
		return "", false, err
	}
	return assembly, false, nil
}

// preprocess runs the host preprocessor ('gcc -E -P') and returns the
// preprocessed source as a string. The intermediate .i file lives in the
// caller-owned scratch directory and never survives past one Run.
func preprocess(input, scratch string) (string, error) {
	output := filepath.Join(scratch, "preprocessed.i")
	cmd := exec.Command(gccPath, "-E", "-P", input, "-o", output)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("preprocessing %s: %w", input, err)
	}

	content, err := os.ReadFile(output)
	if err != nil {
		return "", fmt.Errorf("reading preprocessed source: %w", err)
	}
	return string(content), nil
}

// assembleAndLink hands the emitted assembly to the host toolchain, which
// assembles and links it into an executable at base (no extension).
func assembleAndLink(assemblyPath, base string) error {
	cmd := exec.Command(gccPath, assemblyPath, "-o", base)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("assembling/linking %s: %w", assemblyPath, err)
	}
	return nil
}
