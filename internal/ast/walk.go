package ast

// Walk traverses the tree rooted at n in depth-first order, calling fn
// for each node. If fn returns false the node's children are skipped.
// Nil children are not visited; callers that care about malformed trees
// inspect node fields directly.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch node := n.(type) {
	case *Program:
		for _, d := range node.Decls {
			Walk(d, fn)
		}
	case *FuncDecl:
		if node.Name != nil {
			Walk(node.Name, fn)
		}
		for _, p := range node.Params {
			Walk(p, fn)
		}
		for _, c := range node.Context {
			Walk(c, fn)
		}
		Walk(node.Body, fn)
	case *Call:
		Walk(node.Callee, fn)
		for _, a := range node.Args {
			Walk(a, fn)
		}
	case *Pipeline:
		for _, s := range node.Stages {
			Walk(s, fn)
		}
	case *EffectBlock:
		for _, s := range node.Stmts {
			Walk(s, fn)
		}
	case *Literal, *Ident:
		// leaves
	}
}
