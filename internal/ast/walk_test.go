package ast_test

import (
	"testing"

	"github.com/ripple-lang/ripple/internal/ast"
	"github.com/ripple-lang/ripple/internal/lexer"
)

func span() lexer.Span {
	return lexer.Span{Line: 1, Column: 1}
}

// buildTree returns the tree for `let run = (xs) => xs |> map(square)`.
func buildTree() *ast.FuncDecl {
	stage := ast.NewCall(
		ast.NewIdent("map", span()),
		[]ast.Node{ast.NewIdent("square", span())},
		span(),
	)
	pipe := ast.NewPipeline([]ast.Node{ast.NewIdent("xs", span()), stage}, span())
	return ast.NewFuncDecl(
		ast.NewIdent("run", span()),
		[]*ast.Ident{ast.NewIdent("xs", span())},
		nil,
		pipe,
		span(),
	)
}

func TestWalk_VisitsDepthFirst(t *testing.T) {
	var names []string
	ast.Walk(buildTree(), func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})

	want := []string{"run", "xs", "xs", "map", "square"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("visited %v, want %v", names, want)
		}
	}
}

func TestWalk_FalseSkipsChildren(t *testing.T) {
	var names []string
	ast.Walk(buildTree(), func(n ast.Node) bool {
		if _, ok := n.(*ast.Pipeline); ok {
			return false
		}
		if id, ok := n.(*ast.Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})

	// Pruning the pipeline hides every name inside it.
	want := []string{"run", "xs"}
	if len(names) != len(want) || names[0] != "run" || names[1] != "xs" {
		t.Fatalf("visited %v, want %v", names, want)
	}
}

func TestWalk_NilRootIsNoOp(t *testing.T) {
	calls := 0
	ast.Walk(nil, func(ast.Node) bool {
		calls++
		return true
	})
	if calls != 0 {
		t.Fatalf("nil root visited %d nodes", calls)
	}
}
