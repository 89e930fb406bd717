package sem

import (
	"fmt"
	"maps"

	"github.com/ripple-lang/ripple/internal/ast"
	"github.com/ripple-lang/ripple/internal/diag"
)

// Builtin entry points are pre-seeded into the root environment so a
// builtin call resolves cleanly here and in codegen alike.
var builtins = []string{"print", "console.print", "map", "filter"}

// Env is the scope environment for one lexical region. Environments are
// copied by value into child scopes: a child's additions never leak
// back to the parent.
type Env struct {
	vars     map[string]Kind
	ambient  map[string]struct{}
	inEffect bool
}

func newRootEnv() Env {
	env := Env{
		vars:    make(map[string]Kind),
		ambient: make(map[string]struct{}),
	}
	for _, name := range builtins {
		env.vars[name] = KindUnknown
	}
	return env
}

// child returns an independent copy of the environment.
func (e Env) child() Env {
	return Env{
		vars:     maps.Clone(e.vars),
		ambient:  maps.Clone(e.ambient),
		inEffect: e.inEffect,
	}
}

// resolves reports whether name is bound in vars or ambient.
func (e Env) resolves(name string) bool {
	if _, ok := e.vars[name]; ok {
		return true
	}
	_, ok := e.ambient[name]
	return ok
}

// Checker performs scope resolution and purity/effect inference. The
// traversal never aborts: every fault is counted and analysis
// continues, so one run reports as many diagnostics as possible.
type Checker struct {
	info  *Info
	diags []diag.Diagnostic
}

// NewChecker creates a new semantic checker.
func NewChecker() *Checker {
	return &Checker{info: NewInfo()}
}

// Info returns the annotation side-table for the code generator.
func (c *Checker) Info() *Info {
	return c.info
}

// Diagnostics returns everything the checker recorded, warnings
// included.
func (c *Checker) Diagnostics() []diag.Diagnostic {
	return c.diags
}

// Check analyzes a whole program and returns the accumulated error
// count. Top-level declarations are visited in order, and every named
// declaration is bound in the root scope before bodies are analyzed so
// forward references resolve.
func (c *Checker) Check(prog *ast.Program) int {
	env := newRootEnv()

	for _, decl := range prog.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name != nil {
			env.vars[fn.Name.Name] = KindUnknown
		}
	}

	for _, decl := range prog.Decls {
		c.visit(decl, env)
	}

	return diag.CountErrors(c.diags)
}

// CheckNode analyzes a single node against a fresh root environment.
func (c *Checker) CheckNode(n ast.Node) int {
	c.visit(n, newRootEnv())
	return diag.CountErrors(c.diags)
}

func (c *Checker) errorf(code diag.Code, span diag.Span, format string, args ...any) {
	c.diags = append(c.diags, diag.Diagnostic{
		Stage:    diag.StageSem,
		Severity: diag.SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

func (c *Checker) warnf(code diag.Code, span diag.Span, format string, args ...any) {
	c.diags = append(c.diags, diag.Diagnostic{
		Stage:    diag.StageSem,
		Severity: diag.SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// visit analyzes one node bottom-up, recording purity and kind in the
// side-table. A nil node is its own counted fault class; the traversal
// substitutes the documented fail-open default (pure, kind unknown) and
// keeps going.
func (c *Checker) visit(n ast.Node, env Env) {
	if n == nil {
		c.errorf(diag.CodeSemMalformedNode, diag.Span{}, "malformed tree: missing node")
		return
	}

	switch node := n.(type) {
	case *ast.Program:
		for _, d := range node.Decls {
			c.visit(d, env)
		}

	case *ast.Literal:
		c.info.Purity[node] = true
		switch node.Kind {
		case ast.LitInt:
			c.info.Kinds[node] = KindInt
		case ast.LitString:
			c.info.Kinds[node] = KindString
		case ast.LitBool:
			c.info.Kinds[node] = KindBool
		}

	case *ast.Ident:
		c.info.Purity[node] = true
		if !env.resolves(node.Name) && !isOperator(node.Name) {
			c.errorf(diag.CodeSemUnresolvedIdent, diag.Span(node.Span()),
				"'%s' is not in scope", node.Name)
		}

	case *ast.FuncDecl:
		fnEnv := env.child()
		for _, p := range node.Params {
			if p == nil {
				c.errorf(diag.CodeSemMalformedNode, diag.Span(node.Span()),
					"function has a missing parameter")
				continue
			}
			fnEnv.vars[p.Name] = KindUnknown
		}
		for _, a := range node.Context {
			if a == nil {
				c.errorf(diag.CodeSemMalformedNode, diag.Span(node.Span()),
					"function has a missing ambient name")
				continue
			}
			fnEnv.ambient[a.Name] = struct{}{}
		}
		if node.Body == nil {
			c.errorf(diag.CodeSemMissingBody, diag.Span(node.Span()),
				"function body is missing")
			c.info.Purity[node] = true // fail-open default
			return
		}
		c.visit(node.Body, fnEnv)
		c.info.Purity[node] = c.info.PurityOf(node.Body)
		c.info.Kinds[node] = c.info.KindOf(node.Body)

	case *ast.Call:
		resolved := true
		switch callee := node.Callee.(type) {
		case nil:
			c.errorf(diag.CodeSemMalformedNode, diag.Span(node.Span()),
				"call has a missing callee")
			resolved = false
		case *ast.Ident:
			if !env.resolves(callee.Name) && !isOperator(callee.Name) {
				c.errorf(diag.CodeSemUnresolvedIdent, diag.Span(callee.Span()),
					"'%s' is not in scope", callee.Name)
				resolved = false
			}
			c.info.Purity[callee] = true
		default:
			c.visit(node.Callee, env)
		}

		argsPure := true
		for _, arg := range node.Args {
			if arg == nil {
				c.errorf(diag.CodeSemMalformedNode, diag.Span(node.Span()),
					"call has a missing argument")
				continue // fail open: the absent slot is treated pure
			}
			c.visit(arg, env)
			argsPure = argsPure && c.info.PurityOf(arg)
		}

		// Purity needs a resolved callee, pure arguments, and no
		// enclosing effect context; the last forces impurity
		// regardless of arguments.
		c.info.Purity[node] = resolved && argsPure && !env.inEffect
		c.info.Kinds[node] = c.callKind(node)

	case *ast.Pipeline:
		pure := true
		for _, stage := range node.Stages {
			if stage == nil {
				// Counted fault, fail-open default: the absent slot is
				// treated pure and skipped, like a missing argument.
				c.errorf(diag.CodeSemMalformedNode, diag.Span(node.Span()),
					"pipeline has a missing stage")
				continue
			}
			c.visit(stage, env)
			pure = pure && c.info.PurityOf(stage)
		}
		c.info.Purity[node] = pure
		if !pure {
			// Legal, but the pipeline forfeits concurrent scheduling.
			c.warnf(diag.CodeSemImpurePipeline, diag.Span(node.Span()),
				"pipeline contains effectful stages")
		}
		if n := len(node.Stages); n > 0 {
			c.info.Kinds[node] = c.info.KindOf(node.Stages[n-1])
		}

	case *ast.EffectBlock:
		blockEnv := env.child()
		if node.Effect {
			blockEnv.inEffect = true
		}
		pure := true
		for _, stmt := range node.Stmts {
			if stmt == nil {
				// Fail-open here too: the missing statement is counted
				// but does not taint the block's purity.
				c.errorf(diag.CodeSemMalformedNode, diag.Span(node.Span()),
					"effect block has a missing statement")
				continue
			}
			c.visit(stmt, blockEnv)
			pure = pure && c.info.PurityOf(stmt)
		}
		c.info.Purity[node] = !node.Effect && pure
		if !node.Effect && !pure {
			c.warnf(diag.CodeSemImpureInPure, diag.Span(node.Span()),
				"do block contains effectful statements; use do! to mark the effect")
		}
		if n := len(node.Stmts); n > 0 {
			c.info.Kinds[node] = c.info.KindOf(node.Stmts[n-1])
		}
	}
}

// callKind infers the result kind of a call: arithmetic over Int
// operands stays Int, everything else is unknown.
func (c *Checker) callKind(call *ast.Call) Kind {
	id, ok := call.Callee.(*ast.Ident)
	if !ok || !isOperator(id.Name) || len(call.Args) != 2 {
		return KindUnknown
	}
	if call.Args[0] == nil || call.Args[1] == nil {
		return KindUnknown
	}
	if c.info.KindOf(call.Args[0]) == KindInt && c.info.KindOf(call.Args[1]) == KindInt {
		return KindInt
	}
	return KindUnknown
}

func isOperator(name string) bool {
	switch name {
	case "+", "-", "*", "/":
		return true
	default:
		return false
	}
}
