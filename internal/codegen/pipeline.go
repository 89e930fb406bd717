package codegen

import (
	"fmt"

	"github.com/ripple-lang/ripple/internal/ast"
	"github.com/ripple-lang/ripple/internal/diag"
	"github.com/ripple-lang/ripple/internal/mir"
)

// genPipeline lowers a flattened pipeline. The first stage seeds the
// piped value; each later stage receives the previous stage's value
// prepended as its first actual argument. Stages the analyzer marked
// pure are dispatched to workers via Spawn; a Join barrier lands before
// every effectful stage and before any read of an outstanding worker's
// result, so observable effects keep their source order.
func (g *Generator) genPipeline(st *funcState, pipe *ast.Pipeline) mir.Operand {
	var piped mir.Operand
	var pipedNode ast.Node
	for i, stage := range pipe.Stages {
		if stage == nil {
			g.errorf(diag.CodeGenMalformedNode, diag.Span(pipe.Span()), "pipeline has a missing stage")
			continue
		}

		if !g.info.PurityOf(stage) {
			g.joinAll(st)
		}

		var value mir.Operand
		if i == 0 {
			// The first stage has no piped input to thread; it is the
			// pipeline's seed and is generated inline like any other
			// expression.
			value = g.genExpr(st, stage)
		} else {
			value = g.genStage(st, stage, piped, pipedNode)
		}

		if _, isNull := value.(*mir.Null); !isNull {
			piped = value
			pipedNode = stage
		}
	}
	if piped == nil {
		return &mir.Null{}
	}
	return piped
}

// genStage lowers one non-initial stage with the piped value threaded
// in. Call and bare-function stages become calls taking the piped value
// first; pure ones are spawned. Any other stage form is evaluated
// inline and its value simply replaces the piped one.
func (g *Generator) genStage(st *funcState, stage ast.Node, piped mir.Operand, pipedNode ast.Node) mir.Operand {
	switch node := stage.(type) {
	case *ast.Call:
		return g.genStageCall(st, node, piped, pipedNode)

	case *ast.Ident:
		// Bare function name: synthesize a unary application.
		call := ast.NewCall(node, nil, node.Span())
		return g.genStageCall(st, call, piped, pipedNode)

	case *ast.FuncDecl:
		// Anonymous literal as a stage: lift it, then apply it to the
		// piped value.
		name := fmt.Sprintf("lambda_%d", g.wrapCount)
		g.wrapCount++
		g.genFunction(name, node)
		ref := ast.NewIdent(name, node.Span())
		call := ast.NewCall(ref, nil, node.Span())
		return g.genStageCall(st, call, piped, pipedNode)

	default:
		return g.genExpr(st, stage)
	}
}

// genStageCall routes a stage call through Spawn when it is pure and
// its callee has worker-safe dispatch, otherwise through the ordinary
// call path.
func (g *Generator) genStageCall(st *funcState, call *ast.Call, piped mir.Operand, pipedNode ast.Node) mir.Operand {
	id, ok := call.Callee.(*ast.Ident)
	if !ok || !g.info.PurityOf(call) || !spawnable(g, id.Name) {
		return g.genCall(st, call, piped, pipedNode)
	}

	entry := id.Name
	switch id.Name {
	case "map":
		entry = RuntimeMap
	case "filter":
		entry = RuntimeFilter
	}

	args := g.genArgs(st, call, piped)
	if fn := g.module.FindFunction(id.Name); fn != nil {
		args = append(args, g.ambientArgs(st, fn, diag.Span(id.Span()))...)
	}

	result := g.newTemp(st)
	st.block.Statements = append(st.block.Statements, &mir.Spawn{
		Result: &result,
		Func:   entry,
		Args:   args,
	})
	st.pending[result.ID] = true
	return &mir.LocalRef{Local: result}
}

// spawnable reports whether a callee may run on a worker: module
// functions and the vector combinators qualify, arithmetic and print
// stay inline.
func spawnable(g *Generator, name string) bool {
	if name == "map" || name == "filter" {
		return true
	}
	if isArithmetic(name) || isPrint(name) {
		return false
	}
	return g.module.FindFunction(name) != nil
}
