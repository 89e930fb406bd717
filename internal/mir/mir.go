package mir

// Module represents a generated module: functions plus interned string
// globals.
type Module struct {
	Functions []*Function
	Globals   []Global
}

// Global represents interned constant string data.
type Global struct {
	Name string
	Data string
}

// FindFunction returns the function with the given name, nil if absent.
func (m *Module) FindFunction(name string) *Function {
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// FindGlobal returns the global with the given name, nil if absent.
func (m *Module) FindGlobal(name string) *Global {
	for i := range m.Globals {
		if m.Globals[i].Name == name {
			return &m.Globals[i]
		}
	}
	return nil
}

// Function represents one generated function. Params lists the declared
// positional parameters followed by one trailing hidden parameter per
// ambient name; NumDeclared counts only the former.
type Function struct {
	Name        string
	Params      []Local
	NumDeclared int
	Locals      []Local
	Blocks      []*BasicBlock
	Entry       *BasicBlock
}

// Local represents a local variable or parameter.
type Local struct {
	ID   int
	Name string
}

// BasicBlock represents a straight-line statement sequence ended by a
// terminator.
type BasicBlock struct {
	Label      string
	Statements []Statement
	Terminator Terminator
}

// Statement represents a non-terminating operation.
type Statement interface {
	stmtNode()
}

// Terminator represents control flow out of a block.
type Terminator interface {
	terminatorNode()
}

// Operand represents a value used in an operation.
type Operand interface {
	operandNode()
}

// LocalRef represents a reference to a local variable.
type LocalRef struct {
	Local Local
}

func (*LocalRef) operandNode() {}

// IntConst represents an integer constant.
type IntConst struct {
	Value int64
}

func (*IntConst) operandNode() {}

// BoolConst represents a boolean constant.
type BoolConst struct {
	Value bool
}

func (*BoolConst) operandNode() {}

// StringRef references an interned string global.
type StringRef struct {
	Global string
}

func (*StringRef) operandNode() {}

// FuncRef references a function by name, used for function-pointer
// arguments to map and filter. The name may be an external symbol
// resolved at run time.
type FuncRef struct {
	Name string
}

func (*FuncRef) operandNode() {}

// Null is the no-op value that undecidable codegen cases degrade to.
type Null struct{}

func (*Null) operandNode() {}

// Assign statement: local = operand.
type Assign struct {
	Local Local
	RHS   Operand
}

func (*Assign) stmtNode() {}

// BinOp statement: result = left op right, with op one of + - * /.
type BinOp struct {
	Result Local
	Op     string
	Left   Operand
	Right  Operand
}

func (*BinOp) stmtNode() {}

// Call statement: result = call func(args...). Result is nil for calls
// whose value is discarded, such as the print entry points.
type Call struct {
	Result *Local
	Func   string
	Args   []Operand
}

func (*Call) stmtNode() {}

// Spawn dispatches a call to an independent worker. The result local is
// defined only after a subsequent Join; reading it earlier is invalid.
type Spawn struct {
	Result *Local
	Func   string
	Args   []Operand
}

func (*Spawn) stmtNode() {}

// Join is a synchronization barrier: every worker spawned since the
// previous Join must complete before execution continues.
type Join struct{}

func (*Join) stmtNode() {}

// Return terminator.
type Return struct {
	Value Operand // nil for no value
}

func (*Return) terminatorNode() {}
