package lexer

import (
	"testing"
)

func TestNextToken_Basic(t *testing.T) {
	input := `let double = (x) => x * 2`

	tests := []struct {
		expectedType   TokenType
		expectedLexeme string
	}{
		{LET, "let"},
		{IDENT, "double"},
		{ASSIGN, "="},
		{LPAREN, "("},
		{IDENT, "x"},
		{RPAREN, ")"},
		{FATARROW, "=>"},
		{IDENT, "x"},
		{ASTERISK, "*"},
		{INT, "2"},
		{EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q",
				i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestNextToken_Operators(t *testing.T) {
	input := `= => |> | : , . + - * / ( ) { } [ ]`

	expected := []TokenType{
		ASSIGN, FATARROW, PIPE, BAR, COLON, COMMA, DOT,
		PLUS, MINUS, ASTERISK, SLASH,
		LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET,
		EOF,
	}

	l := New(input)
	for i, typ := range expected {
		tok := l.NextToken()
		if tok.Type != typ {
			t.Fatalf("step %d - expected token %q, got %q", i, typ, tok.Type)
		}
	}
}

func TestNextToken_Keywords(t *testing.T) {
	input := `let module import type match with do do! seq parallel true false Ok Error if then else`

	expected := []TokenType{
		LET, MODULE, IMPORT, TYPE, MATCH, WITH, DO, DO_BANG,
		SEQ, PARALLEL, TRUE, FALSE, OK, ERROR, IF, THEN, ELSE,
		EOF,
	}

	l := New(input)
	for i, typ := range expected {
		tok := l.NextToken()
		if tok.Type != typ {
			t.Fatalf("step %d - expected token %q, got %q (lexeme %q)", i, typ, tok.Type, tok.Lexeme)
		}
	}
}

func TestNextToken_TypeIdentClassification(t *testing.T) {
	input := `Result foo Int _bar`

	tests := []struct {
		expectedType   TokenType
		expectedLexeme string
	}{
		{TYPE_IDENT, "Result"},
		{IDENT, "foo"},
		{TYPE_IDENT, "Int"},
		{IDENT, "_bar"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType || tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - expected (%q, %q), got (%q, %q)",
				i, tt.expectedType, tt.expectedLexeme, tok.Type, tok.Lexeme)
		}
	}
}

func TestNextToken_DoBangRequiresAdjacentBang(t *testing.T) {
	// "do !" with a space is not the effect keyword.
	l := New(`do ! do!`)

	if tok := l.NextToken(); tok.Type != DO {
		t.Fatalf("expected DO, got %q", tok.Type)
	}
	if tok := l.NextToken(); tok.Type != UNKNOWN {
		t.Fatalf("expected UNKNOWN for bare '!', got %q", tok.Type)
	}
	if tok := l.NextToken(); tok.Type != DO_BANG {
		t.Fatalf("expected DO_BANG, got %q", tok.Type)
	}
}

func TestComments_Skipped(t *testing.T) {
	input := `-- leading comment
let x {- inline
spanning lines -} = 1`

	expected := []TokenType{LET, IDENT, ASSIGN, INT, EOF}

	l := New(input)
	for i, typ := range expected {
		tok := l.NextToken()
		if tok.Type != typ {
			t.Fatalf("step %d - expected token %q, got %q", i, typ, tok.Type)
		}
	}
}

func TestComments_FirstCloserEndsBlock(t *testing.T) {
	// Block comments do not nest: the first "-}" closes.
	l := New(`{- outer {- inner -} rest`)

	tok := l.NextToken()
	if tok.Type != IDENT || tok.Lexeme != "rest" {
		t.Fatalf("expected trailing IDENT \"rest\", got %q %q", tok.Type, tok.Lexeme)
	}
}

func TestLineColumnTracking_AcrossComments(t *testing.T) {
	input := "{- one\ntwo -}\nlet x = 1"

	l := New(input)
	tok := l.NextToken()
	if tok.Type != LET {
		t.Fatalf("expected LET, got %q", tok.Type)
	}
	if tok.Span.Line != 3 || tok.Span.Column != 1 {
		t.Fatalf("expected let at 3:1, got %d:%d", tok.Span.Line, tok.Span.Column)
	}
}

func TestString_EscapesAndMultiline(t *testing.T) {
	l := New(`"a\nb" x`)

	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %q", tok.Type)
	}
	if tok.Lexeme != "a\nb" {
		t.Fatalf("expected decoded %q, got %q", "a\nb", tok.Lexeme)
	}
	if tok := l.NextToken(); tok.Type != IDENT {
		t.Fatalf("expected IDENT after string, got %q", tok.Type)
	}
}

func TestString_UnterminatedClosesAtEOF(t *testing.T) {
	l := New(`"never closed`)

	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %q", tok.Type)
	}
	if tok.Lexeme != "never closed" {
		t.Fatalf("expected body %q, got %q", "never closed", tok.Lexeme)
	}
	if len(l.Notes) != 1 {
		t.Fatalf("expected 1 lexer note, got %d", len(l.Notes))
	}
	if tok := l.NextToken(); tok.Type != EOF {
		t.Fatalf("expected EOF after unterminated string, got %q", tok.Type)
	}
}

func TestUnknownRunesAreTokens(t *testing.T) {
	l := New(`x # y`)

	expected := []TokenType{IDENT, UNKNOWN, IDENT, EOF}
	for i, typ := range expected {
		tok := l.NextToken()
		if tok.Type != typ {
			t.Fatalf("step %d - expected token %q, got %q", i, typ, tok.Type)
		}
	}
}

func TestTokenize_SingleEOF(t *testing.T) {
	toks := Tokenize("a |> b")

	if len(toks) == 0 {
		t.Fatalf("expected tokens")
	}
	eofs := 0
	for _, tok := range toks {
		if tok.Type == EOF {
			eofs++
		}
	}
	if eofs != 1 {
		t.Fatalf("expected exactly one EOF, got %d", eofs)
	}
	if toks[len(toks)-1].Type != EOF {
		t.Fatalf("expected stream to end with EOF, got %q", toks[len(toks)-1].Type)
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	toks := Tokenize("")
	if len(toks) != 1 || toks[0].Type != EOF {
		t.Fatalf("expected a lone EOF token, got %v", toks)
	}
}
