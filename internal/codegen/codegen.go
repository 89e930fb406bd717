package codegen

import (
	"fmt"
	"strconv"

	"github.com/ripple-lang/ripple/internal/ast"
	"github.com/ripple-lang/ripple/internal/diag"
	"github.com/ripple-lang/ripple/internal/mir"
	"github.com/ripple-lang/ripple/internal/sem"
)

// Runtime ABI entry points. The print pair is selected by the static
// kind of the argument; map and filter take a vector descriptor plus a
// function pointer and return a fresh descriptor.
const (
	RuntimePrintStr = "ripple_print_str"
	RuntimePrintVec = "ripple_print_vec"
	RuntimeMap      = "ripple_map"
	RuntimeFilter   = "ripple_filter"
)

// Generator lowers an analyzed program to MIR. Generation never fails:
// undecidable cases degrade to a diagnostic plus a null value and the
// rest of the module is still produced.
type Generator struct {
	info   *sem.Info
	module *mir.Module
	diags  []diag.Diagnostic

	strIndex  map[string]string // string data -> global name
	strCount  int
	wrapCount int
}

// funcState is the per-function generation context. It is threaded
// explicitly through every generation call so ambient values and
// outstanding workers never leak between functions.
type funcState struct {
	fn        *mir.Function
	block     *mir.BasicBlock
	locals    map[string]mir.Local
	nextLocal int
	ambient   map[string]mir.Operand // ambient values by name, forwarded to callees
	pending   map[int]bool           // result locals of workers not yet joined
}

// New creates a generator over the checker's annotation side-table.
func New(info *sem.Info) *Generator {
	return &Generator{
		info:     info,
		module:   &mir.Module{},
		strIndex: make(map[string]string),
	}
}

// Diagnostics returns everything the generator recorded.
func (g *Generator) Diagnostics() []diag.Diagnostic {
	return g.diags
}

// Generate lowers a program to a module. Named declarations are
// declared up front so forward references resolve; placeholder idents
// for module/import/type declarations generate nothing. A bare
// top-level expression is lowered into its own synthetic function.
func (g *Generator) Generate(prog *ast.Program) *mir.Module {
	for _, decl := range prog.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name != nil {
			g.declareFunction(fn.Name.Name, fn)
		}
	}

	topCount := 0
	for _, decl := range prog.Decls {
		switch node := decl.(type) {
		case *ast.FuncDecl:
			name := ""
			if node.Name != nil {
				name = node.Name.Name
			} else {
				name = fmt.Sprintf("lambda_%d", g.wrapCount)
				g.wrapCount++
			}
			g.genFunction(name, node)
		case *ast.Ident:
			// module/import/type placeholder; nothing to generate
		default:
			wrapper := ast.NewFuncDecl(nil, nil, nil, decl, decl.Span())
			g.genFunction(fmt.Sprintf("top_%d", topCount), wrapper)
			topCount++
		}
	}

	return g.module
}

func (g *Generator) errorf(code diag.Code, span diag.Span, format string, args ...any) {
	g.diags = append(g.diags, diag.Diagnostic{
		Stage:    diag.StageCodegen,
		Severity: diag.SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

func (g *Generator) notef(code diag.Code, span diag.Span, format string, args ...any) {
	g.diags = append(g.diags, diag.Diagnostic{
		Stage:    diag.StageCodegen,
		Severity: diag.SeverityNote,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// declareFunction registers a function shape in the module table:
// declared parameters first, then one trailing hidden parameter per
// ambient name.
func (g *Generator) declareFunction(name string, decl *ast.FuncDecl) *mir.Function {
	if existing := g.module.FindFunction(name); existing != nil {
		return existing
	}

	fn := &mir.Function{
		Name:        name,
		NumDeclared: len(decl.Params),
	}
	id := 0
	for _, p := range decl.Params {
		if p == nil {
			continue
		}
		fn.Params = append(fn.Params, mir.Local{ID: id, Name: p.Name})
		id++
	}
	for _, c := range decl.Context {
		if c == nil {
			continue
		}
		fn.Params = append(fn.Params, mir.Local{ID: id, Name: c.Name})
		id++
	}

	g.module.Functions = append(g.module.Functions, fn)
	return fn
}

// genFunction lowers one declaration body into its MIR function. The
// ambient map is seeded from the trailing hidden parameters so calls in
// the body can forward them to callees that name them.
func (g *Generator) genFunction(name string, decl *ast.FuncDecl) {
	fn := g.declareFunction(name, decl)
	if fn.Entry != nil {
		return // already generated
	}

	entry := &mir.BasicBlock{Label: "entry"}
	fn.Blocks = append(fn.Blocks, entry)
	fn.Entry = entry

	st := &funcState{
		fn:        fn,
		block:     entry,
		locals:    make(map[string]mir.Local),
		nextLocal: len(fn.Params),
		ambient:   make(map[string]mir.Operand),
		pending:   make(map[int]bool),
	}
	for i, p := range fn.Params {
		st.locals[p.Name] = p
		if i >= fn.NumDeclared {
			st.ambient[p.Name] = &mir.LocalRef{Local: p}
		}
	}

	if decl.Body == nil {
		g.errorf(diag.CodeGenMalformedNode, diag.Span(decl.Span()),
			"function %s has no body", name)
		entry.Terminator = &mir.Return{}
		return
	}

	value := g.genExpr(st, decl.Body)
	value = g.ensureAvailable(st, value)
	g.joinAll(st) // no worker outlives its function
	entry.Terminator = &mir.Return{Value: value}
}

func (g *Generator) newTemp(st *funcState) mir.Local {
	l := mir.Local{ID: st.nextLocal}
	st.nextLocal++
	st.fn.Locals = append(st.fn.Locals, l)
	return l
}

// internString returns the global name holding the given string data.
func (g *Generator) internString(data string) string {
	if name, ok := g.strIndex[data]; ok {
		return name
	}
	name := fmt.Sprintf("str_%d", g.strCount)
	g.strCount++
	g.strIndex[data] = name
	g.module.Globals = append(g.module.Globals, mir.Global{Name: name, Data: data})
	return name
}

// joinAll emits a Join barrier when any workers are outstanding.
func (g *Generator) joinAll(st *funcState) {
	if len(st.pending) == 0 {
		return
	}
	st.block.Statements = append(st.block.Statements, &mir.Join{})
	st.pending = make(map[int]bool)
}

// ensureAvailable joins outstanding workers before op may be read.
func (g *Generator) ensureAvailable(st *funcState, op mir.Operand) mir.Operand {
	if ref, ok := op.(*mir.LocalRef); ok && st.pending[ref.Local.ID] {
		g.joinAll(st)
	}
	return op
}

// genExpr lowers one expression and returns the operand holding its
// value. Malformed nodes degrade to Null.
func (g *Generator) genExpr(st *funcState, n ast.Node) mir.Operand {
	switch node := n.(type) {
	case nil:
		g.errorf(diag.CodeGenMalformedNode, diag.Span{}, "malformed tree: missing expression")
		return &mir.Null{}

	case *ast.Literal:
		return g.genLiteral(node)

	case *ast.Ident:
		return g.genIdent(st, node)

	case *ast.Call:
		return g.genCall(st, node, nil, nil)

	case *ast.Pipeline:
		return g.genPipeline(st, node)

	case *ast.EffectBlock:
		return g.genEffectBlock(st, node)

	case *ast.FuncDecl:
		// Anonymous literal in expression position: lift to a module
		// function and hand back its reference.
		name := fmt.Sprintf("lambda_%d", g.wrapCount)
		g.wrapCount++
		g.genFunction(name, node)
		return &mir.FuncRef{Name: name}

	default:
		g.errorf(diag.CodeGenMalformedNode, diag.Span(n.Span()),
			"unsupported expression %T", n)
		return &mir.Null{}
	}
}

// genLiteral binds a literal to a constant or interned global per its
// kind.
func (g *Generator) genLiteral(lit *ast.Literal) mir.Operand {
	switch lit.Kind {
	case ast.LitInt:
		v, err := strconv.ParseInt(lit.Value, 10, 64)
		if err != nil {
			g.errorf(diag.CodeGenMalformedNode, diag.Span(lit.Span()),
				"invalid integer literal %q", lit.Value)
			return &mir.Null{}
		}
		return &mir.IntConst{Value: v}
	case ast.LitBool:
		return &mir.BoolConst{Value: lit.Value == "true"}
	case ast.LitString:
		return &mir.StringRef{Global: g.internString(lit.Value)}
	default:
		return &mir.Null{}
	}
}

// genIdent resolves a bare name: locals first, then the module function
// table. An unknown bare name lowers to an external function reference
// so late-bound symbols still link at run time; the note keeps the
// degradation visible.
func (g *Generator) genIdent(st *funcState, id *ast.Ident) mir.Operand {
	if local, ok := st.locals[id.Name]; ok {
		return g.ensureAvailable(st, &mir.LocalRef{Local: local})
	}
	if g.module.FindFunction(id.Name) != nil {
		return &mir.FuncRef{Name: id.Name}
	}
	g.notef(diag.CodeGenExternalSymbol, diag.Span(id.Span()),
		"'%s' resolves to no local or function; treating as external symbol", id.Name)
	return &mir.FuncRef{Name: id.Name}
}

// genCall lowers a call. piped, when non-nil, is a pipeline value
// prepended to the explicit arguments; pipedNode is the stage that
// produced it, kept so kind-directed dispatch still sees the argument.
// Ambient values are appended as trailing actuals to user-defined
// callees; runtime entry points and arithmetic keep their fixed shapes.
func (g *Generator) genCall(st *funcState, call *ast.Call, piped mir.Operand, pipedNode ast.Node) mir.Operand {
	id, ok := call.Callee.(*ast.Ident)
	if !ok {
		if call.Callee == nil {
			g.errorf(diag.CodeGenMalformedNode, diag.Span(call.Span()), "call has no callee")
		} else {
			g.errorf(diag.CodeGenUnsupportedCallee, diag.Span(call.Span()),
				"calling through a %T expression is not supported", call.Callee)
		}
		return &mir.Null{}
	}

	args := g.genArgs(st, call, piped)

	switch {
	case isArithmetic(id.Name) && len(args) == 2:
		result := g.newTemp(st)
		st.block.Statements = append(st.block.Statements, &mir.BinOp{
			Result: result,
			Op:     id.Name,
			Left:   args[0],
			Right:  args[1],
		})
		return &mir.LocalRef{Local: result}

	case isPrint(id.Name):
		st.block.Statements = append(st.block.Statements, &mir.Call{
			Func: g.printEntry(call, pipedNode),
			Args: args,
		})
		return &mir.Null{} // print produces no value

	case id.Name == "map" || id.Name == "filter":
		entry := RuntimeMap
		if id.Name == "filter" {
			entry = RuntimeFilter
		}
		result := g.newTemp(st)
		st.block.Statements = append(st.block.Statements, &mir.Call{
			Result: &result,
			Func:   entry,
			Args:   args,
		})
		return &mir.LocalRef{Local: result}

	default:
		fn := g.module.FindFunction(id.Name)
		if fn == nil {
			g.errorf(diag.CodeGenUnknownFunction, diag.Span(id.Span()),
				"unknown function '%s'", id.Name)
			return &mir.Null{}
		}
		result := g.newTemp(st)
		st.block.Statements = append(st.block.Statements, &mir.Call{
			Result: &result,
			Func:   id.Name,
			Args:   append(args, g.ambientArgs(st, fn, diag.Span(id.Span()))...),
		})
		return &mir.LocalRef{Local: result}
	}
}

// ambientArgs resolves the callee's hidden trailing parameters against
// the caller's ambient values, by name. A missing ambient name
// diagnoses and degrades to null so the call keeps the callee's shape.
func (g *Generator) ambientArgs(st *funcState, fn *mir.Function, span diag.Span) []mir.Operand {
	var out []mir.Operand
	for _, hidden := range fn.Params[fn.NumDeclared:] {
		op, ok := st.ambient[hidden.Name]
		if !ok {
			g.errorf(diag.CodeGenMissingAmbient, span,
				"call to '%s' requires ambient '%s', which is not in scope",
				fn.Name, hidden.Name)
			op = &mir.Null{}
		}
		out = append(out, op)
	}
	return out
}

// genArgs lowers the actual arguments of a call, joining outstanding
// workers whose results the arguments read.
func (g *Generator) genArgs(st *funcState, call *ast.Call, piped mir.Operand) []mir.Operand {
	var args []mir.Operand
	if piped != nil {
		args = append(args, g.ensureAvailable(st, piped))
	}
	for _, arg := range call.Args {
		if arg == nil {
			g.errorf(diag.CodeGenMalformedNode, diag.Span(call.Span()),
				"call has a missing argument; substituting null")
			args = append(args, &mir.Null{})
			continue
		}
		args = append(args, g.ensureAvailable(st, g.genExpr(st, arg)))
	}
	return args
}

// printEntry picks the print entry point from the static kind of the
// single argument: String selects the string entry, everything else the
// vector entry. The argument is either the call's explicit one or, for
// a pipeline stage, the piped stage's node.
func (g *Generator) printEntry(call *ast.Call, pipedNode ast.Node) string {
	var arg ast.Node
	switch {
	case pipedNode == nil && len(call.Args) == 1:
		arg = call.Args[0]
	case pipedNode != nil && len(call.Args) == 0:
		arg = pipedNode
	}
	if arg != nil && g.info.KindOf(arg) == sem.KindString {
		return RuntimePrintStr
	}
	return RuntimePrintVec
}

// genEffectBlock lowers statements strictly in order. The block's value
// is the last statement that produced one.
func (g *Generator) genEffectBlock(st *funcState, block *ast.EffectBlock) mir.Operand {
	var value mir.Operand = &mir.Null{}
	for _, stmt := range block.Stmts {
		if stmt == nil {
			g.errorf(diag.CodeGenMalformedNode, diag.Span(block.Span()),
				"effect block has a missing statement")
			continue
		}
		v := g.genExpr(st, stmt)
		if _, isNull := v.(*mir.Null); !isNull {
			value = v
		}
	}
	return value
}

func isArithmetic(name string) bool {
	switch name {
	case "+", "-", "*", "/":
		return true
	default:
		return false
	}
}

func isPrint(name string) bool {
	return name == "print" || name == "console.print"
}
