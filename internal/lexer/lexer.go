package lexer

import (
	"unicode"

	"github.com/ripple-lang/ripple/internal/diag"
)

// Lexer represents the lexer state. The lexer never fails: unrecognized
// runes become UNKNOWN tokens and unterminated strings close silently at
// end of input, so all rejection happens in the parser. Tolerated
// conditions are recorded in Notes.
type Lexer struct {
	input    []rune
	pos      int  // index of the current rune
	ch       rune // current rune (0 = EOF)
	line     int  // current line number (1-based)
	column   int  // current column number (1-based)
	filename string

	Notes []diag.Diagnostic
}

// New creates a new lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input:  []rune(input),
		pos:    -1, // start before first rune
		line:   1,
		column: 0, // becomes 1 after the first read()
	}
	l.read()
	return l
}

// SetFilename attributes all emitted spans to the provided filename.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// Tokenize consumes the whole input and returns the token stream,
// always terminated by exactly one EOF token.
func Tokenize(input string) []Token {
	return New(input).Tokenize()
}

// Tokenize drains the lexer into a token slice ending with EOF.
func (l *Lexer) Tokenize() []Token {
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

// read advances the lexer to the next character. Line and column advance
// on every rune, including inside comments and string bodies, so
// positions stay accurate across multi-line constructs.
func (l *Lexer) read() {
	prev := l.pos
	l.pos++
	if prev >= 0 && prev < len(l.input) && l.input[prev] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	if l.pos >= len(l.input) {
		l.ch = 0
		return
	}
	l.ch = l.input[l.pos]
}

// peek returns the next character without advancing.
func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) spanFrom(startLine, startColumn, startPos int) Span {
	return Span{
		Filename: l.filename,
		Line:     startLine,
		Column:   startColumn,
		Start:    startPos,
		End:      l.pos,
	}
}

func (l *Lexer) makeToken(tokType TokenType, startLine, startColumn, startPos int, lexeme string) Token {
	return Token{
		Type:   tokType,
		Lexeme: lexeme,
		Span:   l.spanFrom(startLine, startColumn, startPos),
	}
}

// skipTrivia discards whitespace and comments. Line comments run from
// "--" to the end of line; block comments from "{-" to the first "-}"
// (no nesting) or end of input.
func (l *Lexer) skipTrivia() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.read()
		case l.ch == '-' && l.peek() == '-':
			for l.ch != '\n' && l.ch != 0 {
				l.read()
			}
		case l.ch == '{' && l.peek() == '-':
			l.read() // consume '{'
			l.read() // consume '-'
			for l.ch != 0 {
				if l.ch == '-' && l.peek() == '}' {
					l.read()
					l.read()
					break
				}
				l.read()
			}
		default:
			return
		}
	}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.read()
	}
	return string(l.input[start:l.pos])
}

// readNumber reads a decimal integer literal.
func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.read()
	}
	return string(l.input[start:l.pos])
}

// readString reads a string literal body, decoding escape sequences.
// The string ends at an unescaped quote or at end of input; the latter
// is tolerated, not rejected.
func (l *Lexer) readString(startLine, startColumn, startPos int) string {
	l.read() // skip opening quote
	var decoded []rune
	for {
		if l.ch == 0 {
			l.Notes = append(l.Notes, diag.Diagnostic{
				Stage:    diag.StageLexer,
				Severity: diag.SeverityNote,
				Code:     diag.CodeLexerUnterminatedString,
				Message:  "string literal closed by end of input",
				Span:     diag.Span(l.spanFrom(startLine, startColumn, startPos)),
			})
			return string(decoded)
		}
		if l.ch == '"' {
			l.read() // consume closing quote
			return string(decoded)
		}
		if l.ch == '\\' {
			l.read() // skip '\'
			switch l.ch {
			case 'n':
				decoded = append(decoded, '\n')
			case 't':
				decoded = append(decoded, '\t')
			case 'r':
				decoded = append(decoded, '\r')
			case '\\':
				decoded = append(decoded, '\\')
			case '"':
				decoded = append(decoded, '"')
			case 0:
				continue
			default:
				decoded = append(decoded, '\\', l.ch)
			}
			l.read()
			continue
		}
		decoded = append(decoded, l.ch)
		l.read()
	}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipTrivia()

	startLine, startColumn, startPos := l.line, l.column, l.pos
	if startColumn == 0 {
		startColumn = 1
	}

	switch l.ch {
	case 0:
		return l.makeToken(EOF, startLine, startColumn, startPos, "")

	case '=':
		if l.peek() == '>' {
			l.read()
			l.read()
			return l.makeToken(FATARROW, startLine, startColumn, startPos, "=>")
		}
		l.read()
		return l.makeToken(ASSIGN, startLine, startColumn, startPos, "=")

	case '|':
		if l.peek() == '>' {
			l.read()
			l.read()
			return l.makeToken(PIPE, startLine, startColumn, startPos, "|>")
		}
		l.read()
		return l.makeToken(BAR, startLine, startColumn, startPos, "|")

	case '+':
		l.read()
		return l.makeToken(PLUS, startLine, startColumn, startPos, "+")

	case '-':
		// "--" was consumed as a line comment by skipTrivia.
		l.read()
		return l.makeToken(MINUS, startLine, startColumn, startPos, "-")

	case '*':
		l.read()
		return l.makeToken(ASTERISK, startLine, startColumn, startPos, "*")

	case '/':
		l.read()
		return l.makeToken(SLASH, startLine, startColumn, startPos, "/")

	case ':':
		l.read()
		return l.makeToken(COLON, startLine, startColumn, startPos, ":")

	case ',':
		l.read()
		return l.makeToken(COMMA, startLine, startColumn, startPos, ",")

	case '.':
		l.read()
		return l.makeToken(DOT, startLine, startColumn, startPos, ".")

	case '"':
		value := l.readString(startLine, startColumn, startPos)
		return l.makeToken(STRING, startLine, startColumn, startPos, value)

	case '(':
		l.read()
		return l.makeToken(LPAREN, startLine, startColumn, startPos, "(")

	case ')':
		l.read()
		return l.makeToken(RPAREN, startLine, startColumn, startPos, ")")

	case '{':
		// "{-" was consumed as a block comment by skipTrivia.
		l.read()
		return l.makeToken(LBRACE, startLine, startColumn, startPos, "{")

	case '}':
		l.read()
		return l.makeToken(RBRACE, startLine, startColumn, startPos, "}")

	case '[':
		l.read()
		return l.makeToken(LBRACKET, startLine, startColumn, startPos, "[")

	case ']':
		l.read()
		return l.makeToken(RBRACKET, startLine, startColumn, startPos, "]")

	default:
		if isLetter(l.ch) {
			lexeme := l.readIdentifier()
			if lexeme == "do" && l.ch == '!' {
				l.read() // consume '!'
				return l.makeToken(DO_BANG, startLine, startColumn, startPos, "do!")
			}
			return l.makeToken(LookupIdent(lexeme), startLine, startColumn, startPos, lexeme)
		}
		if isDigit(l.ch) {
			lexeme := l.readNumber()
			return l.makeToken(INT, startLine, startColumn, startPos, lexeme)
		}
		lexeme := string(l.ch)
		l.read()
		tok := l.makeToken(UNKNOWN, startLine, startColumn, startPos, lexeme)
		l.Notes = append(l.Notes, diag.Diagnostic{
			Stage:    diag.StageLexer,
			Severity: diag.SeverityNote,
			Code:     diag.CodeLexerUnknownRune,
			Message:  "unrecognized character " + lexeme,
			Span:     diag.Span(tok.Span),
		})
		return tok
	}
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	// Numeric literals are restricted to ASCII digits.
	return ch >= '0' && ch <= '9'
}
