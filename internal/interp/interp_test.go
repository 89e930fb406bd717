package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ripple-lang/ripple/internal/codegen"
	"github.com/ripple-lang/ripple/internal/interp"
	"github.com/ripple-lang/ripple/internal/mir"
	"github.com/ripple-lang/ripple/internal/parser"
	"github.com/ripple-lang/ripple/internal/sem"
)

// compile runs the full front half and returns the lowered module.
// Semantic errors are tolerated so sources referencing host-registered
// natives still lower.
func compile(t *testing.T, src string) *mir.Module {
	t.Helper()
	p := parser.New(src)
	prog := p.ParseProgram()
	if p.Failed() {
		t.Fatalf("parse failed: %v", p.Errors())
	}
	checker := sem.NewChecker()
	checker.Check(prog)
	gen := codegen.New(checker.Info())
	return gen.Generate(prog)
}

func TestMachine_PipelineEndToEnd(t *testing.T) {
	src := `
let square = (n) => n * n
let run = (xs) => xs |> filter(isEven) |> map(square)
`
	mod := compile(t, src)

	var out bytes.Buffer
	m := interp.New(mod, interp.WithOutput(&out))
	m.Register("isEven", func(args []interp.Value) (interp.Value, error) {
		return args[0].(int64)%2 == 0, nil
	})

	v, err := m.CallFunction("run", interp.NewVector([]int32{1, 2, 3, 4}))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	vec, ok := v.(*interp.Vector)
	if !ok {
		t.Fatalf("run returned %T, want vector", v)
	}
	if got := vec.String(); got != "[4, 16]" {
		t.Fatalf("run returned %s, want [4, 16]", got)
	}
}

func TestMachine_EffectBlockPrints(t *testing.T) {
	mod := compile(t, `let hello = () => do! { print("hi") }`)

	var out bytes.Buffer
	m := interp.New(mod, interp.WithOutput(&out))
	if _, err := m.CallFunction("hello"); err != nil {
		t.Fatalf("hello failed: %v", err)
	}
	if got := out.String(); got != "hi\n" {
		t.Fatalf("output = %q, want %q", got, "hi\n")
	}
}

func TestMachine_PipedStringPrints(t *testing.T) {
	mod := compile(t, `let greet = () => do! { "hi" |> print }`)

	var out bytes.Buffer
	m := interp.New(mod, interp.WithOutput(&out))
	if _, err := m.CallFunction("greet"); err != nil {
		t.Fatalf("greet failed: %v", err)
	}
	if got := out.String(); got != "hi\n" {
		t.Fatalf("output = %q, want %q", got, "hi\n")
	}
}

func TestMachine_PrintStatementOrderPreserved(t *testing.T) {
	src := `let greet = () => do! { print("one")
print("two") }`
	mod := compile(t, src)

	var out bytes.Buffer
	m := interp.New(mod, interp.WithOutput(&out))
	if _, err := m.CallFunction("greet"); err != nil {
		t.Fatalf("greet failed: %v", err)
	}
	if got := out.String(); got != "one\ntwo\n" {
		t.Fatalf("output = %q, want lines in source order", got)
	}
}

func TestMachine_AmbientValuesReachCallee(t *testing.T) {
	src := `
let scaled with factor = (x) => x * factor
let apply with factor = (y) => scaled(y)
`
	mod := compile(t, src)

	m := interp.New(mod)
	v, err := m.CallFunction("apply", int64(4), int64(10))
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if v != int64(40) {
		t.Fatalf("apply = %v, want 40", v)
	}
}

func TestMachine_SpawnJoinDeliversWorkerResult(t *testing.T) {
	// Hand-built function: the return value only exists after the join.
	result := mir.Local{ID: 0}
	entry := &mir.BasicBlock{
		Label: "entry",
		Statements: []mir.Statement{
			&mir.Spawn{Result: &result, Func: "answer", Args: nil},
			&mir.Join{},
		},
		Terminator: &mir.Return{Value: &mir.LocalRef{Local: result}},
	}
	fn := &mir.Function{Name: "main", Blocks: []*mir.BasicBlock{entry}, Entry: entry}
	mod := &mir.Module{Functions: []*mir.Function{fn}}

	m := interp.New(mod)
	m.Register("answer", func([]interp.Value) (interp.Value, error) {
		return int64(42), nil
	})

	v, err := m.CallFunction("main")
	if err != nil {
		t.Fatalf("main failed: %v", err)
	}
	if v != int64(42) {
		t.Fatalf("main = %v, want 42", v)
	}
}

func TestMachine_DivisionByZero(t *testing.T) {
	mod := compile(t, `let boom = (x) => x / 0`)

	m := interp.New(mod)
	_, err := m.CallFunction("boom", int64(1))
	if err == nil || !strings.Contains(err.Error(), "division by zero") {
		t.Fatalf("err = %v, want division by zero", err)
	}
}

func TestMachine_UndefinedFunction(t *testing.T) {
	m := interp.New(&mir.Module{})
	_, err := m.CallFunction("nowhere")
	if err == nil || !strings.Contains(err.Error(), "undefined function") {
		t.Fatalf("err = %v, want undefined function", err)
	}
}

func TestMachine_ArityMismatch(t *testing.T) {
	mod := compile(t, `let add = (a, b) => a + b`)
	m := interp.New(mod)
	_, err := m.CallFunction("add", int64(1))
	if err == nil || !strings.Contains(err.Error(), "expects 2 arguments") {
		t.Fatalf("err = %v, want arity error", err)
	}
}

func TestVector_String(t *testing.T) {
	if got := interp.NewVector([]int32{1, 2, 3}).String(); got != "[1, 2, 3]" {
		t.Fatalf("got %s", got)
	}
	if got := interp.NewVector(nil).String(); got != "[]" {
		t.Fatalf("empty vector prints %s, want []", got)
	}
}

func TestMachine_FilterKeepsSourceOrder(t *testing.T) {
	mod := compile(t, `let keep = (xs) => xs |> filter(odd)`)

	m := interp.New(mod)
	m.Register("odd", func(args []interp.Value) (interp.Value, error) {
		return args[0].(int64)%2 == 1, nil
	})

	v, err := m.CallFunction("keep", interp.NewVector([]int32{5, 2, 9, 4, 7}))
	if err != nil {
		t.Fatalf("keep failed: %v", err)
	}
	if got := v.(*interp.Vector).String(); got != "[5, 9, 7]" {
		t.Fatalf("keep = %s, want [5, 9, 7]", got)
	}
}
