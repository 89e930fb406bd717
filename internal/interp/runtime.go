package interp

import (
	"fmt"
)

// runtimeMap applies a function value to every element of a vector and
// returns a fresh descriptor of the same length. Element order is
// preserved.
func (m *Machine) runtimeMap(args []Value) (Value, error) {
	vec, fn, err := vectorAndFunc("ripple_map", args)
	if err != nil {
		return nil, err
	}

	out := make([]int32, 0, vec.Len)
	for i := int32(0); i < vec.Len; i++ {
		v, err := m.call(fn.Name, []Value{int64(vec.Data[i])})
		if err != nil {
			return nil, err
		}
		n, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("map callback returned %T, want integer", v)
		}
		out = append(out, int32(n))
	}
	return NewVector(out), nil
}

// runtimeFilter keeps the elements for which the predicate holds, in
// their source order, in a fresh descriptor.
func (m *Machine) runtimeFilter(args []Value) (Value, error) {
	vec, fn, err := vectorAndFunc("ripple_filter", args)
	if err != nil {
		return nil, err
	}

	var out []int32
	for i := int32(0); i < vec.Len; i++ {
		v, err := m.call(fn.Name, []Value{int64(vec.Data[i])})
		if err != nil {
			return nil, err
		}
		keep, err := truthy(v)
		if err != nil {
			return nil, fmt.Errorf("filter predicate: %w", err)
		}
		if keep {
			out = append(out, vec.Data[i])
		}
	}
	return NewVector(out), nil
}

func (m *Machine) runtimePrintStr(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("ripple_print_str expects 1 argument, got %d", len(args))
	}
	s, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("ripple_print_str got %T, want string", args[0])
	}
	fmt.Fprintln(m.out, s)
	return nil, nil
}

func (m *Machine) runtimePrintVec(args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("ripple_print_vec expects 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case *Vector:
		fmt.Fprintln(m.out, v.String())
	case int64:
		fmt.Fprintln(m.out, v)
	case bool:
		fmt.Fprintln(m.out, v)
	case nil:
		fmt.Fprintln(m.out, "null")
	default:
		return nil, fmt.Errorf("ripple_print_vec got %T", args[0])
	}
	return nil, nil
}

func vectorAndFunc(entry string, args []Value) (*Vector, FuncValue, error) {
	if len(args) != 2 {
		return nil, FuncValue{}, fmt.Errorf("%s expects 2 arguments, got %d", entry, len(args))
	}
	vec, ok := args[0].(*Vector)
	if !ok {
		return nil, FuncValue{}, fmt.Errorf("%s got %T, want vector", entry, args[0])
	}
	fn, ok := args[1].(FuncValue)
	if !ok {
		return nil, FuncValue{}, fmt.Errorf("%s got %T, want function", entry, args[1])
	}
	return vec, fn, nil
}

func truthy(v Value) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case int64:
		return b != 0, nil
	default:
		return false, fmt.Errorf("value is %T, want boolean", v)
	}
}
