package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/ripple-lang/ripple/internal/diag"
	"github.com/ripple-lang/ripple/internal/interp"
)

// repl runs an interactive session. Each input line is compiled on its
// own; declarations accumulate in the session source so later lines can
// call earlier functions. A bare expression is evaluated and its value
// printed.
func repl(stdout, stderr io.Writer) int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyPath = filepath.Join(home, ".ripple_history")
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Fprintln(stdout, "ripple repl; :quit exits, :dump prints the lowered module")

	var session []string
	formatter := diag.NewFormatter(stderr)

	for {
		input, err := line.Prompt("ripple> ")
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil { // io.EOF on ^D
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch input {
		case ":quit", ":q":
			writeHistory(line, historyPath)
			return 0
		case ":dump":
			result := build(strings.Join(session, "\n"), "<repl>")
			if result.module != nil {
				fmt.Fprint(stdout, result.module.PrettyPrint())
			}
			continue
		}

		evalLine(stdout, formatter, append(session, input))

		// Declarations join the session; expressions are one-shot.
		if strings.HasPrefix(input, "let ") || strings.HasPrefix(input, "import ") ||
			strings.HasPrefix(input, "type ") || strings.HasPrefix(input, "module ") {
			session = append(session, input)
		}
	}

	writeHistory(line, historyPath)
	return 0
}

// evalLine compiles the session plus the new line and, when the line
// was a bare expression, runs its synthesized function and prints the
// value.
func evalLine(stdout io.Writer, formatter *diag.Formatter, source []string) {
	result := build(strings.Join(source, "\n"), "<repl>")
	formatter.FormatAll(result.diags)
	if result.failed || result.module == nil {
		return
	}

	fn := result.module.FindFunction("top_0")
	if fn == nil {
		return
	}

	m := interp.New(result.module, interp.WithOutput(stdout))
	v, err := m.CallFunction(fn.Name)
	if err != nil {
		fmt.Fprintf(stdout, "error: %v\n", err)
		return
	}
	if v != nil {
		fmt.Fprintln(stdout, formatValue(v))
	}
}

func writeHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	line.WriteHistory(f)
	f.Close()
}
