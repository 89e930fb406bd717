package ast

import "github.com/ripple-lang/ripple/internal/lexer"

// Node represents any AST node with an associated source span. The node
// set is closed: every variant lives in this package and is dispatched
// by type switch, so adding a variant is a compile-time-visible change
// in every consumer.
//
// Nodes are immutable after parsing. Analysis results (purity, inferred
// kind) and backend values live in side-tables owned by the sem and
// codegen packages, never on the nodes themselves.
type Node interface {
	Span() lexer.Span
	node()
}

// LitKind identifies the literal variants.
type LitKind int

const (
	LitInt LitKind = iota
	LitString
	LitBool
)

// String returns the kind name for diagnostics and dumps.
func (k LitKind) String() string {
	switch k {
	case LitInt:
		return "Int"
	case LitString:
		return "String"
	case LitBool:
		return "Bool"
	default:
		return "Unknown"
	}
}

// Program represents a parsed compilation unit: an ordered list of
// top-level declarations. Declarations are *FuncDecl nodes, placeholder
// *Ident nodes standing in for module/import/type declarations, or bare
// top-level expressions.
type Program struct {
	Decls []Node
	span  lexer.Span
}

// Span returns the span covering the entire program.
func (p *Program) Span() lexer.Span { return p.span }

func (*Program) node() {}

// NewProgram constructs a program node with the provided span.
func NewProgram(span lexer.Span) *Program {
	return &Program{span: span}
}

// SetSpan updates the program span.
func (p *Program) SetSpan(span lexer.Span) {
	p.span = span
}

// Literal represents an Int, String or Bool literal. Value holds the raw
// lexeme for ints and bools and the decoded body for strings.
type Literal struct {
	Kind  LitKind
	Value string
	span  lexer.Span
}

// Span returns the literal span.
func (l *Literal) Span() lexer.Span { return l.span }

func (*Literal) node() {}

// NewLiteral constructs a literal node.
func NewLiteral(kind LitKind, value string, span lexer.Span) *Literal {
	return &Literal{
		Kind:  kind,
		Value: value,
		span:  span,
	}
}

// Ident represents an identifier reference. Qualified names such as
// console.print are flattened into a single dotted Name.
type Ident struct {
	Name string
	span lexer.Span
}

// Span returns the identifier span.
func (i *Ident) Span() lexer.Span { return i.span }

func (*Ident) node() {}

// NewIdent constructs an identifier node.
func NewIdent(name string, span lexer.Span) *Ident {
	return &Ident{
		Name: name,
		span: span,
	}
}

// FuncDecl represents a function declaration. Name is nil for anonymous
// function literals. Context holds the ambient names declared via
// `with`; they are visible inside Body and forwarded as hidden trailing
// arguments to every call made from it.
type FuncDecl struct {
	Name    *Ident // nil for anonymous literals
	Params  []*Ident
	Context []*Ident
	Body    Node
	span    lexer.Span
}

// Span returns the declaration span.
func (d *FuncDecl) Span() lexer.Span { return d.span }

func (*FuncDecl) node() {}

// NewFuncDecl constructs a function declaration node.
func NewFuncDecl(name *Ident, params, context []*Ident, body Node, span lexer.Span) *FuncDecl {
	return &FuncDecl{
		Name:    name,
		Params:  params,
		Context: context,
		Body:    body,
		span:    span,
	}
}

// Anonymous reports whether the declaration is a function literal.
func (d *FuncDecl) Anonymous() bool { return d.Name == nil }

// Call represents a function call. Binary arithmetic is represented as a
// call whose callee is the operator identifier.
type Call struct {
	Callee Node
	Args   []Node
	span   lexer.Span
}

// Span returns the call span.
func (c *Call) Span() lexer.Span { return c.span }

func (*Call) node() {}

// NewCall constructs a call node.
func NewCall(callee Node, args []Node, span lexer.Span) *Call {
	return &Call{
		Callee: callee,
		Args:   args,
		span:   span,
	}
}

// Pipeline represents a |>-chained sequence of stages. Pipelines are
// always flat: extending a pipeline reuses its stage list, so nested
// Pipeline nodes never occur. A well-formed pipeline has at least one
// stage.
type Pipeline struct {
	Stages []Node
	span   lexer.Span
}

// Span returns the pipeline span.
func (p *Pipeline) Span() lexer.Span { return p.span }

func (*Pipeline) node() {}

// NewPipeline constructs a pipeline node.
func NewPipeline(stages []Node, span lexer.Span) *Pipeline {
	return &Pipeline{
		Stages: stages,
		span:   span,
	}
}

// SetSpan updates the pipeline span as stages are appended.
func (p *Pipeline) SetSpan(span lexer.Span) {
	p.span = span
}

// EffectBlock represents a do or do! bracketed statement sequence.
// Effect is true for do! blocks, whose contents may perform observable
// side effects.
type EffectBlock struct {
	Effect bool
	Stmts  []Node
	span   lexer.Span
}

// Span returns the block span.
func (b *EffectBlock) Span() lexer.Span { return b.span }

func (*EffectBlock) node() {}

// NewEffectBlock constructs an effect block node.
func NewEffectBlock(effect bool, stmts []Node, span lexer.Span) *EffectBlock {
	return &EffectBlock{
		Effect: effect,
		Stmts:  stmts,
		span:   span,
	}
}
