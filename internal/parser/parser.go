package parser

import (
	"github.com/ripple-lang/ripple/internal/ast"
	"github.com/ripple-lang/ripple/internal/diag"
	"github.com/ripple-lang/ripple/internal/lexer"
)

// Option configures a Parser.
type Option func(*options)

type options struct {
	filename string
}

// WithFilename configures the parser to attribute all emitted spans to
// the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// ParseError captures a parsing error with location context.
type ParseError struct {
	Message string
	Span    lexer.Span
}

// ToDiagnostic converts a parse error into the shared diagnostic shape.
func (e ParseError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     diag.CodeParseExpectedToken,
		Message:  e.Message,
		Span:     diag.Span(e.Span),
	}
}

// Parser implements recursive descent with precedence climbing over the
// full token stream. The parser owns the token slice rather than a
// streaming window because disambiguating `(params) => body` from a
// grouped expression needs a non-consuming scan to the matching ')'.
//
// Error policy: a structural mismatch inside a declaration is fatal for
// that declaration. The failure is recorded with its exact line/column
// and the declaration's remaining tokens are discarded up to the next
// declaration keyword. There is no expression-level recovery. A parse
// with any recorded error is a failed parse, even when later
// declarations parsed cleanly.
type Parser struct {
	toks []lexer.Token
	pos  int

	errors   []ParseError
	lexNotes []diag.Diagnostic

	filename string
}

// New returns a parser initialised with the provided source input.
func New(input string, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	lx := lexer.New(input)
	if cfg.filename != "" {
		lx.SetFilename(cfg.filename)
	}

	return &Parser{
		toks:     lx.Tokenize(),
		lexNotes: lx.Notes,
		filename: cfg.filename,
	}
}

// LexerNotes returns the non-fatal diagnostics the lexer recorded while
// tokenizing, such as unterminated strings or unknown runes.
func (p *Parser) LexerNotes() []diag.Diagnostic {
	return p.lexNotes
}

// Errors returns all parse errors that were encountered.
func (p *Parser) Errors() []ParseError {
	return p.errors
}

// Failed reports whether any declaration failed to parse.
func (p *Parser) Failed() bool {
	return len(p.errors) > 0
}

// ParseProgram parses the full token stream into a program. Failed
// declarations are skipped via panic-mode resynchronization so several
// declaration-level errors can be collected in a single run; consult
// Failed before trusting the result.
func (p *Parser) ParseProgram() *ast.Program {
	prog := ast.NewProgram(p.cur().Span)

	for !p.atEnd() {
		decl := p.parseDecl()
		if decl != nil {
			prog.Decls = append(prog.Decls, decl)
			prog.SetSpan(mergeSpan(prog.Span(), decl.Span()))
			continue
		}
		p.synchronize()
	}

	prog.SetSpan(mergeSpan(prog.Span(), p.cur().Span))
	return prog
}

// cur returns the token under examination.
func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

// at returns the token at an absolute index, clamped to EOF. Used by the
// function-literal lookahead, which must not consume tokens.
func (p *Parser) at(i int) lexer.Token {
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) atEnd() bool {
	return p.cur().Type == lexer.EOF
}

// advance consumes the current token and returns it.
func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) check(tt lexer.TokenType) bool {
	return p.cur().Type == tt
}

// match consumes the current token when it has one of the given types.
func (p *Parser) match(tts ...lexer.TokenType) bool {
	for _, tt := range tts {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes a token of the required type or records a fatal
// declaration error pinned to the offending token.
func (p *Parser) expect(tt lexer.TokenType, msg string) (lexer.Token, bool) {
	if p.check(tt) {
		return p.advance(), true
	}
	p.errorAt(p.cur(), msg)
	return p.cur(), false
}

func (p *Parser) errorAt(tok lexer.Token, msg string) {
	p.errors = append(p.errors, ParseError{
		Message: msg,
		Span:    tok.Span,
	})
}

// synchronize implements panic-mode recovery at the declaration loop:
// tokens are discarded until one that can start a new declaration.
func (p *Parser) synchronize() {
	if !p.atEnd() {
		p.advance() // guarantee progress past the offending token
	}
	for !p.atEnd() {
		switch p.cur().Type {
		case lexer.LET, lexer.MODULE, lexer.IMPORT, lexer.TYPE, lexer.MATCH:
			return
		}
		p.advance()
	}
}

// parseDecl parses one top-level declaration. Expressions are accepted
// as declarations so scripts without a let still parse.
func (p *Parser) parseDecl() ast.Node {
	switch {
	case p.match(lexer.LET):
		return p.parseLetDecl()
	case p.match(lexer.MODULE):
		return p.parseModuleDecl()
	case p.match(lexer.IMPORT):
		return p.parseImportDecl()
	case p.match(lexer.TYPE):
		return p.parseTypeDecl()
	default:
		return p.parseExpr(precedenceLowest)
	}
}

// parseLetDecl parses `let name (with a, b)? (: Type)? = expr`. When the
// right-hand side is an anonymous function literal its parameters and
// body are absorbed into the named declaration, so `let f = (x) => x`
// and a parameterless `let v = expr` produce the same node shape.
func (p *Parser) parseLetDecl() ast.Node {
	start := p.at(p.pos - 1).Span

	nameTok, ok := p.expect(lexer.IDENT, "expected identifier after 'let'")
	if !ok {
		return nil
	}
	name := ast.NewIdent(nameTok.Lexeme, nameTok.Span)

	var context []*ast.Ident
	if p.match(lexer.WITH) {
		context = p.parseContextList()
		if context == nil {
			return nil
		}
	}

	// Optional type annotation; parsed and discarded.
	if p.match(lexer.COLON) {
		if p.check(lexer.TYPE_IDENT) || p.check(lexer.IDENT) {
			p.advance()
		}
	}

	if _, ok := p.expect(lexer.ASSIGN, "expected '=' after let declaration"); !ok {
		return nil
	}

	body := p.parseExpr(precedenceLowest)
	if body == nil {
		return nil
	}

	span := mergeSpan(start, body.Span())

	if lit, isLit := body.(*ast.FuncDecl); isLit && lit.Anonymous() {
		return ast.NewFuncDecl(name, lit.Params, context, lit.Body, span)
	}

	return ast.NewFuncDecl(name, nil, context, body, span)
}

// parseModuleDecl skims `module name { ... }` and reduces it to a
// placeholder identifier; module contents are not semantically modeled.
func (p *Parser) parseModuleDecl() ast.Node {
	nameTok, ok := p.expect(lexer.IDENT, "expected module name")
	if !ok {
		return nil
	}
	if p.match(lexer.LBRACE) {
		depth := 1
		for depth > 0 && !p.atEnd() {
			switch {
			case p.match(lexer.LBRACE):
				depth++
			case p.match(lexer.RBRACE):
				depth--
			default:
				p.advance()
			}
		}
	}
	return ast.NewIdent(nameTok.Lexeme, nameTok.Span)
}

// parseImportDecl reduces `import name` to a placeholder identifier.
func (p *Parser) parseImportDecl() ast.Node {
	nameTok, ok := p.expect(lexer.IDENT, "expected import target")
	if !ok {
		return nil
	}
	return ast.NewIdent(nameTok.Lexeme, nameTok.Span)
}

// parseTypeDecl skims `type Name = ...` up to the next declaration and
// reduces it to a placeholder identifier.
func (p *Parser) parseTypeDecl() ast.Node {
	nameTok, ok := p.expect(lexer.TYPE_IDENT, "expected type name")
	if !ok {
		return nil
	}
	if p.match(lexer.ASSIGN) {
		for !p.atEnd() {
			switch p.cur().Type {
			case lexer.LET, lexer.MODULE, lexer.IMPORT, lexer.TYPE:
				return ast.NewIdent(nameTok.Lexeme, nameTok.Span)
			}
			p.advance()
		}
	}
	return ast.NewIdent(nameTok.Lexeme, nameTok.Span)
}

// parseContextList parses the comma-separated ambient names after `with`.
func (p *Parser) parseContextList() []*ast.Ident {
	var ctx []*ast.Ident
	for {
		tok, ok := p.expect(lexer.IDENT, "expected context identifier")
		if !ok {
			return nil
		}
		ctx = append(ctx, ast.NewIdent(tok.Lexeme, tok.Span))
		if !p.match(lexer.COMMA) {
			return ctx
		}
	}
}

// mergeSpan returns a span covering both inputs. Callers pass the
// earliest span first; End only grows.
func mergeSpan(start, end lexer.Span) lexer.Span {
	span := start

	if span.Filename == "" {
		span.Filename = end.Filename
	}

	if span.Line == 0 && end.Line != 0 {
		span.Line = end.Line
		span.Column = end.Column
		span.Start = end.Start
	}

	if end.End > span.End {
		span.End = end.End
	}

	return span
}
