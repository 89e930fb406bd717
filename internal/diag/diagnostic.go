package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer   Stage = "lexer"
	StageParser  Stage = "parser"
	StageSem     Stage = "sem"
	StageCodegen Stage = "codegen"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer notes. The lexer never rejects input; these record tolerated
	// conditions so later stages can surface them.
	CodeLexerUnterminatedString Code = "LEXER_UNTERMINATED_STRING"
	CodeLexerUnknownRune        Code = "LEXER_UNKNOWN_RUNE"

	// Parser errors
	CodeParseExpectedToken Code = "PARSE_EXPECTED_TOKEN"
	CodeParseExpectedExpr  Code = "PARSE_EXPECTED_EXPR"

	// Semantic analysis
	CodeSemUnresolvedIdent Code = "SEM_UNRESOLVED_IDENT"
	CodeSemMalformedNode   Code = "SEM_MALFORMED_NODE"
	CodeSemMissingBody     Code = "SEM_MISSING_BODY"
	CodeSemImpurePipeline  Code = "SEM_IMPURE_PIPELINE"
	CodeSemImpureInPure    Code = "SEM_IMPURE_IN_PURE_BLOCK"

	// Codegen errors
	CodeGenUnknownFunction   Code = "CODEGEN_UNKNOWN_FUNCTION"
	CodeGenUnsupportedCallee Code = "CODEGEN_UNSUPPORTED_CALLEE"
	CodeGenMalformedNode     Code = "CODEGEN_MALFORMED_NODE"
	CodeGenExternalSymbol    Code = "CODEGEN_EXTERNAL_SYMBOL"
	CodeGenMissingAmbient    Code = "CODEGEN_MISSING_AMBIENT"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span
	Notes    []string
	Help     string
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

// CountErrors returns the number of error-severity diagnostics in diags.
func CountErrors(diags []Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}
