package mir

import (
	"fmt"
	"strconv"
	"strings"
)

// PrettyPrint returns a human-readable string representation of a module.
func (m *Module) PrettyPrint() string {
	var b strings.Builder
	for _, g := range m.Globals {
		b.WriteString(fmt.Sprintf("global %s = %s\n", g.Name, strconv.Quote(g.Data)))
	}
	if len(m.Globals) > 0 && len(m.Functions) > 0 {
		b.WriteString("\n")
	}
	for i, fn := range m.Functions {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fn.PrettyPrint())
	}
	return b.String()
}

// PrettyPrint returns a human-readable string representation of a
// function. Hidden ambient parameters are rendered in brackets after
// the declared ones.
func (f *Function) PrettyPrint() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("fn %s(", f.Name))
	params := make([]string, 0, len(f.Params))
	for i, p := range f.Params {
		name := localString(p)
		if i >= f.NumDeclared {
			name = "[" + name + "]"
		}
		params = append(params, name)
	}
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(") {\n")

	for _, block := range f.Blocks {
		b.WriteString(block.PrettyPrint())
	}

	b.WriteString("}")
	return b.String()
}

// PrettyPrint returns a human-readable string representation of a block.
func (bb *BasicBlock) PrettyPrint() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %s:\n", bb.Label))

	for _, stmt := range bb.Statements {
		b.WriteString("    ")
		b.WriteString(prettyPrintStmt(stmt))
		b.WriteString("\n")
	}

	if bb.Terminator != nil {
		b.WriteString("    ")
		b.WriteString(prettyPrintTerminator(bb.Terminator))
		b.WriteString("\n")
	}

	return b.String()
}

func prettyPrintStmt(stmt Statement) string {
	switch s := stmt.(type) {
	case *Assign:
		return fmt.Sprintf("%s = %s", localString(s.Local), operandString(s.RHS))
	case *BinOp:
		return fmt.Sprintf("%s = %s %s %s",
			localString(s.Result), operandString(s.Left), s.Op, operandString(s.Right))
	case *Call:
		return callString("call", s.Result, s.Func, s.Args)
	case *Spawn:
		return callString("spawn", s.Result, s.Func, s.Args)
	case *Join:
		return "join"
	default:
		return fmt.Sprintf("<unknown stmt %T>", stmt)
	}
}

func prettyPrintTerminator(term Terminator) string {
	switch t := term.(type) {
	case *Return:
		if t.Value == nil {
			return "return"
		}
		return "return " + operandString(t.Value)
	default:
		return fmt.Sprintf("<unknown terminator %T>", term)
	}
}

func callString(verb string, result *Local, fn string, args []Operand) string {
	argStrs := make([]string, len(args))
	for i, a := range args {
		argStrs[i] = operandString(a)
	}
	call := fmt.Sprintf("%s %s(%s)", verb, fn, strings.Join(argStrs, ", "))
	if result == nil {
		return call
	}
	return fmt.Sprintf("%s = %s", localString(*result), call)
}

func localString(l Local) string {
	if l.Name == "" {
		return fmt.Sprintf("_%d", l.ID)
	}
	return l.Name
}

func operandString(op Operand) string {
	switch o := op.(type) {
	case nil:
		return "<nil>"
	case *LocalRef:
		return localString(o.Local)
	case *IntConst:
		return strconv.FormatInt(o.Value, 10)
	case *BoolConst:
		return strconv.FormatBool(o.Value)
	case *StringRef:
		return "@" + o.Global
	case *FuncRef:
		return "&" + o.Name
	case *Null:
		return "null"
	default:
		return fmt.Sprintf("<unknown operand %T>", op)
	}
}
