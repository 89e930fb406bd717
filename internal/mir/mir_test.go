package mir

import (
	"strings"
	"testing"
)

func TestPrettyPrint_Function(t *testing.T) {
	result := Local{ID: 2}
	entry := &BasicBlock{
		Label: "entry",
		Statements: []Statement{
			&Spawn{Result: &result, Func: "ripple_filter", Args: []Operand{
				&LocalRef{Local: Local{ID: 0, Name: "xs"}},
				&FuncRef{Name: "isEven"},
			}},
			&Join{},
			&Call{Result: nil, Func: "ripple_print_vec", Args: []Operand{
				&LocalRef{Local: result},
			}},
		},
		Terminator: &Return{Value: &LocalRef{Local: result}},
	}
	fn := &Function{
		Name:        "run",
		Params:      []Local{{ID: 0, Name: "xs"}, {ID: 1, Name: "ctx"}},
		NumDeclared: 1,
		Blocks:      []*BasicBlock{entry},
		Entry:       entry,
	}
	mod := &Module{
		Functions: []*Function{fn},
		Globals:   []Global{{Name: "str_0", Data: "hi"}},
	}

	out := mod.PrettyPrint()

	for _, want := range []string{
		`global str_0 = "hi"`,
		"fn run(xs, [ctx]) {",
		"_2 = spawn ripple_filter(xs, &isEven)",
		"join",
		"call ripple_print_vec(_2)",
		"return _2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("pretty output missing %q:\n%s", want, out)
		}
	}
}

func TestFindFunctionAndGlobal(t *testing.T) {
	mod := &Module{
		Functions: []*Function{{Name: "a"}, {Name: "b"}},
		Globals:   []Global{{Name: "str_0", Data: "x"}},
	}

	if fn := mod.FindFunction("b"); fn == nil || fn.Name != "b" {
		t.Fatalf("expected to find function b")
	}
	if fn := mod.FindFunction("missing"); fn != nil {
		t.Fatalf("expected nil for missing function")
	}
	if g := mod.FindGlobal("str_0"); g == nil || g.Data != "x" {
		t.Fatalf("expected to find global str_0")
	}
}
