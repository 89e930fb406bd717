// Command ripple compiles ripple source files and prints the lowered
// program. With -run it also executes a function from the compiled
// module; the repl subcommand starts an interactive session.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ripple-lang/ripple/internal/codegen"
	"github.com/ripple-lang/ripple/internal/diag"
	"github.com/ripple-lang/ripple/internal/interp"
	"github.com/ripple-lang/ripple/internal/mir"
	"github.com/ripple-lang/ripple/internal/parser"
	"github.com/ripple-lang/ripple/internal/sem"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "repl" {
		return repl(stdout, stderr)
	}

	fs := flag.NewFlagSet("ripple", flag.ContinueOnError)
	fs.SetOutput(stderr)
	runFn := fs.String("run", "", "evaluate the named function after lowering")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: ripple [-run function] <file.rpl>")
		fmt.Fprintln(stderr, "       ripple repl")
		return 1
	}

	path := fs.Arg(0)
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "ripple: %v\n", err)
		return 1
	}

	result := build(string(src), path)
	formatter := diag.NewFormatter(stderr)
	formatter.FormatAll(result.diags)
	if result.failed {
		return 1
	}

	// Semantic and generation diagnostics are reported above but do not
	// fail the build; the module is still usable.
	fmt.Fprint(stderr, result.module.PrettyPrint())

	if *runFn != "" {
		m := interp.New(result.module, interp.WithOutput(stdout))
		v, err := m.CallFunction(*runFn)
		if err != nil {
			fmt.Fprintf(stderr, "ripple: %v\n", err)
			return 1
		}
		if v != nil {
			fmt.Fprintln(stdout, formatValue(v))
		}
	}
	return 0
}

// buildResult carries one source unit through the whole front half.
type buildResult struct {
	module *mir.Module
	diags  []diag.Diagnostic
	failed bool // parse failure; later stages never fail a build
}

func build(src, filename string) buildResult {
	var result buildResult

	p := parser.New(src, parser.WithFilename(filename))
	prog := p.ParseProgram()
	result.diags = append(result.diags, p.LexerNotes()...)
	for _, e := range p.Errors() {
		result.diags = append(result.diags, e.ToDiagnostic())
	}
	if p.Failed() {
		result.failed = true
		return result
	}

	checker := sem.NewChecker()
	checker.Check(prog)
	result.diags = append(result.diags, checker.Diagnostics()...)

	gen := codegen.New(checker.Info())
	result.module = gen.Generate(prog)
	result.diags = append(result.diags, gen.Diagnostics()...)
	return result
}

func formatValue(v interp.Value) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v)
}
