package lexer

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // index in []rune of the source
	End      int    // exclusive end index
}

// Token represents a lexical token
type Token struct {
	Type   TokenType
	Lexeme string // exact runes from source (decoded value for strings)
	Span   Span
}

// Token type constants
const (
	// Special tokens
	UNKNOWN TokenType = "UNKNOWN"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT      TokenType = "IDENT"      // foo, bar
	TYPE_IDENT TokenType = "TYPE_IDENT" // Int, String, Result
	INT        TokenType = "INT"        // 42
	STRING     TokenType = "STRING"     // "hello"

	// Operators and delimiters
	ASSIGN   TokenType = "="
	FATARROW TokenType = "=>"
	PIPE     TokenType = "|>"
	BAR      TokenType = "|"
	COLON    TokenType = ":"
	COMMA    TokenType = ","
	DOT      TokenType = "."
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	LET      TokenType = "LET"
	MODULE   TokenType = "MODULE"
	IMPORT   TokenType = "IMPORT"
	TYPE     TokenType = "TYPE"
	MATCH    TokenType = "MATCH"
	WITH     TokenType = "WITH"
	DO       TokenType = "DO"
	DO_BANG  TokenType = "DO_BANG"
	SEQ      TokenType = "SEQ"
	PARALLEL TokenType = "PARALLEL"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"
	OK       TokenType = "OK"
	ERROR    TokenType = "ERROR"
	IF       TokenType = "IF"
	THEN     TokenType = "THEN"
	ELSE     TokenType = "ELSE"
)

var keywords = map[string]TokenType{
	"let":      LET,
	"module":   MODULE,
	"import":   IMPORT,
	"type":     TYPE,
	"match":    MATCH,
	"with":     WITH,
	"do":       DO,
	"do!":      DO_BANG,
	"seq":      SEQ,
	"parallel": PARALLEL,
	"true":     TRUE,
	"false":    FALSE,
	"Ok":       OK,
	"Error":    ERROR,
	"if":       IF,
	"then":     THEN,
	"else":     ELSE,
}

// LookupIdent classifies an identifier: keywords win, then capitalized
// names become TYPE_IDENT, everything else is IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if ident != "" {
		first := []rune(ident)[0]
		if first >= 'A' && first <= 'Z' {
			return TYPE_IDENT
		}
	}
	return IDENT
}
