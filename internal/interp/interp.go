// Package interp executes lowered modules directly. It exists for the
// CLI's -run mode and for end-to-end tests; it is not an optimizing
// runtime, just a faithful walk of the generated statements.
package interp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ripple-lang/ripple/internal/codegen"
	"github.com/ripple-lang/ripple/internal/mir"
)

// Value is a runtime value: int64, bool, string, *Vector, FuncValue or
// nil for the null operand.
type Value any

// Vector is the runtime vector descriptor: element data plus logical
// length and capacity.
type Vector struct {
	Data []int32
	Len  int32
	Cap  int32
}

// NewVector builds a descriptor over the given elements.
func NewVector(elems []int32) *Vector {
	return &Vector{Data: elems, Len: int32(len(elems)), Cap: int32(cap(elems))}
}

func (v *Vector) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := int32(0); i < v.Len; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", v.Data[i])
	}
	b.WriteByte(']')
	return b.String()
}

// FuncValue is a first-class reference to a module function or a
// registered native.
type FuncValue struct {
	Name string
}

// NativeFunc is a host function callable from executed code.
type NativeFunc func(args []Value) (Value, error)

// Machine executes one module.
type Machine struct {
	module  *mir.Module
	out     io.Writer
	natives map[string]NativeFunc
}

// Option configures a machine.
type Option func(*Machine)

// WithOutput redirects the print entry points.
func WithOutput(w io.Writer) Option {
	return func(m *Machine) { m.out = w }
}

// New creates a machine over a module. Output defaults to stdout.
func New(module *mir.Module, opts ...Option) *Machine {
	m := &Machine{
		module:  module,
		out:     os.Stdout,
		natives: make(map[string]NativeFunc),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register installs a host function under the given name. Registered
// natives resolve after module functions, so a module definition wins.
func (m *Machine) Register(name string, fn NativeFunc) {
	m.natives[name] = fn
}

// CallFunction invokes a function by name with already-constructed
// runtime values.
func (m *Machine) CallFunction(name string, args ...Value) (Value, error) {
	return m.call(name, args)
}

type spawnResult struct {
	value Value
	err   error
}

type spawnHandle struct {
	localID int
	ch      chan spawnResult
}

// frame is the activation record of one executing function.
type frame struct {
	regs    map[int]Value
	pending []spawnHandle
}

func (m *Machine) call(name string, args []Value) (Value, error) {
	switch name {
	case codegen.RuntimeMap:
		return m.runtimeMap(args)
	case codegen.RuntimeFilter:
		return m.runtimeFilter(args)
	case codegen.RuntimePrintStr:
		return m.runtimePrintStr(args)
	case codegen.RuntimePrintVec:
		return m.runtimePrintVec(args)
	}

	if fn := m.module.FindFunction(name); fn != nil {
		return m.exec(fn, args)
	}
	if native, ok := m.natives[name]; ok {
		return native(args)
	}
	return nil, fmt.Errorf("call to undefined function %q", name)
}

func (m *Machine) exec(fn *mir.Function, args []Value) (Value, error) {
	if len(args) != len(fn.Params) {
		return nil, fmt.Errorf("%s expects %d arguments, got %d",
			fn.Name, len(fn.Params), len(args))
	}

	f := &frame{regs: make(map[int]Value)}
	for i, p := range fn.Params {
		f.regs[p.ID] = args[i]
	}

	if fn.Entry == nil {
		return nil, fmt.Errorf("%s has no entry block", fn.Name)
	}

	for _, stmt := range fn.Entry.Statements {
		if err := m.execStmt(f, stmt); err != nil {
			m.drain(f) // never leak workers on an error path
			return nil, fmt.Errorf("%s: %w", fn.Name, err)
		}
	}

	ret, ok := fn.Entry.Terminator.(*mir.Return)
	if !ok {
		m.drain(f)
		return nil, fmt.Errorf("%s: block %q has no return", fn.Name, fn.Entry.Label)
	}
	if ret.Value == nil {
		return nil, nil
	}
	return m.eval(f, ret.Value)
}

func (m *Machine) execStmt(f *frame, stmt mir.Statement) error {
	switch s := stmt.(type) {
	case *mir.Assign:
		v, err := m.eval(f, s.RHS)
		if err != nil {
			return err
		}
		f.regs[s.Local.ID] = v
		return nil

	case *mir.BinOp:
		return m.execBinOp(f, s)

	case *mir.Call:
		args, err := m.evalArgs(f, s.Args)
		if err != nil {
			return err
		}
		v, err := m.call(s.Func, args)
		if err != nil {
			return err
		}
		if s.Result != nil {
			f.regs[s.Result.ID] = v
		}
		return nil

	case *mir.Spawn:
		args, err := m.evalArgs(f, s.Args)
		if err != nil {
			return err
		}
		handle := spawnHandle{localID: s.Result.ID, ch: make(chan spawnResult, 1)}
		go func() {
			v, err := m.call(s.Func, args)
			handle.ch <- spawnResult{value: v, err: err}
		}()
		f.pending = append(f.pending, handle)
		return nil

	case *mir.Join:
		var first error
		for _, h := range f.pending {
			r := <-h.ch
			if r.err != nil && first == nil {
				first = r.err
			}
			f.regs[h.localID] = r.value
		}
		f.pending = nil
		return first

	default:
		return fmt.Errorf("unsupported statement %T", stmt)
	}
}

func (m *Machine) execBinOp(f *frame, s *mir.BinOp) error {
	left, err := m.evalInt(f, s.Left)
	if err != nil {
		return err
	}
	right, err := m.evalInt(f, s.Right)
	if err != nil {
		return err
	}

	var v int64
	switch s.Op {
	case "+":
		v = left + right
	case "-":
		v = left - right
	case "*":
		v = left * right
	case "/":
		if right == 0 {
			return errors.New("division by zero")
		}
		v = left / right
	default:
		return fmt.Errorf("unsupported operator %q", s.Op)
	}
	f.regs[s.Result.ID] = v
	return nil
}

// drain collects leftover workers so a failing frame does not strand
// goroutines.
func (m *Machine) drain(f *frame) {
	for _, h := range f.pending {
		<-h.ch
	}
	f.pending = nil
}

func (m *Machine) evalArgs(f *frame, ops []mir.Operand) ([]Value, error) {
	args := make([]Value, 0, len(ops))
	for _, op := range ops {
		v, err := m.eval(f, op)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (m *Machine) eval(f *frame, op mir.Operand) (Value, error) {
	switch o := op.(type) {
	case *mir.LocalRef:
		v, ok := f.regs[o.Local.ID]
		if !ok {
			return nil, fmt.Errorf("read of unset local _%d", o.Local.ID)
		}
		return v, nil
	case *mir.IntConst:
		return o.Value, nil
	case *mir.BoolConst:
		return o.Value, nil
	case *mir.StringRef:
		g := m.module.FindGlobal(o.Global)
		if g == nil {
			return nil, fmt.Errorf("reference to undefined global %q", o.Global)
		}
		return g.Data, nil
	case *mir.FuncRef:
		return FuncValue{Name: o.Name}, nil
	case *mir.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported operand %T", op)
	}
}

func (m *Machine) evalInt(f *frame, op mir.Operand) (int64, error) {
	v, err := m.eval(f, op)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("operand is %T, want integer", v)
	}
	return n, nil
}
