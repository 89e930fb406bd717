package sem

import "github.com/ripple-lang/ripple/internal/ast"

// Kind is the coarse inferred kind of an expression. The language has
// no full type system; three literal kinds are enough to pick runtime
// entry points during code generation.
type Kind int

const (
	KindUnknown Kind = iota
	KindInt
	KindString
	KindBool
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	default:
		return "Unknown"
	}
}

// Info is the analysis side-table produced by Check and consumed by the
// code generator. Keeping annotations out of the AST keeps the tree
// immutable after parsing.
type Info struct {
	Purity map[ast.Node]bool
	Kinds  map[ast.Node]Kind
}

// NewInfo creates an empty side-table.
func NewInfo() *Info {
	return &Info{
		Purity: make(map[ast.Node]bool),
		Kinds:  make(map[ast.Node]Kind),
	}
}

// PurityOf returns the recorded purity of n. Unannotated nodes default
// to pure: malformed inputs fail open so the rest of the tree still
// generates.
func (i *Info) PurityOf(n ast.Node) bool {
	if pure, ok := i.Purity[n]; ok {
		return pure
	}
	return true
}

// KindOf returns the recorded kind of n, KindUnknown when absent.
func (i *Info) KindOf(n ast.Node) Kind {
	return i.Kinds[n]
}
