package parser

import (
	"github.com/ripple-lang/ripple/internal/ast"
	"github.com/ripple-lang/ripple/internal/lexer"
)

// Binary operator precedence levels. Pipelines are the atomic unit of
// precedence climbing, so `a |> b + c |> d` combines two pipelines with
// '+' rather than splicing the sum into a stage.
const (
	precedenceLowest  = 0
	precedenceSum     = 1 // + -
	precedenceProduct = 2 // * /
)

func precedenceOf(tt lexer.TokenType) int {
	switch tt {
	case lexer.PLUS, lexer.MINUS:
		return precedenceSum
	case lexer.ASTERISK, lexer.SLASH:
		return precedenceProduct
	default:
		return precedenceLowest
	}
}

// parseExpr climbs binary operator precedence over pipelines. The node
// set has no dedicated binary variant: an operator application becomes a
// Call whose callee is the operator identifier, keeping the variant set
// closed.
func (p *Parser) parseExpr(precedence int) ast.Node {
	left := p.parsePipeline()
	if left == nil {
		return nil
	}

	for {
		opPrec := precedenceOf(p.cur().Type)
		if opPrec == precedenceLowest || opPrec < precedence {
			return left
		}

		opTok := p.advance()
		right := p.parseExpr(opPrec + 1)
		if right == nil {
			return nil
		}

		span := mergeSpan(left.Span(), right.Span())
		callee := ast.NewIdent(opTok.Lexeme, opTok.Span)
		left = ast.NewCall(callee, []ast.Node{left, right}, span)
	}
}

// parsePipeline parses a |>-chain, flattening as it goes: when the left
// operand is already a pipeline its stage list is extended in place, so
// `a |> b |> c` yields one 3-stage pipeline and never nests.
func (p *Parser) parsePipeline() ast.Node {
	node := p.parseCallOrPrimary()
	if node == nil {
		return nil
	}

	for p.match(lexer.PIPE) {
		stage := p.parseCallOrPrimary()
		if stage == nil {
			return nil
		}

		if pipe, ok := node.(*ast.Pipeline); ok {
			pipe.Stages = append(pipe.Stages, stage)
			pipe.SetSpan(mergeSpan(pipe.Span(), stage.Span()))
			continue
		}
		span := mergeSpan(node.Span(), stage.Span())
		node = ast.NewPipeline([]ast.Node{node, stage}, span)
	}

	return node
}

// parseCallOrPrimary parses a primary expression followed by any number
// of call argument lists: f(a)(b) parses as Call(Call(f, a), b).
func (p *Parser) parseCallOrPrimary() ast.Node {
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}

	for p.check(lexer.LPAREN) {
		p.advance() // consume '('

		var args []ast.Node
		if !p.check(lexer.RPAREN) {
			for {
				arg := p.parseExpr(precedenceLowest)
				if arg == nil {
					return nil
				}
				args = append(args, arg)
				if !p.match(lexer.COMMA) {
					break
				}
			}
		}

		closeTok, ok := p.expect(lexer.RPAREN, "expected ')' after arguments")
		if !ok {
			return nil
		}

		expr = ast.NewCall(expr, args, mergeSpan(expr.Span(), closeTok.Span))
	}

	return expr
}

// parsePrimary parses literals, identifiers, parenthesized constructs
// and effect blocks.
func (p *Parser) parsePrimary() ast.Node {
	switch p.cur().Type {
	case lexer.INT:
		tok := p.advance()
		return ast.NewLiteral(ast.LitInt, tok.Lexeme, tok.Span)

	case lexer.STRING:
		tok := p.advance()
		return ast.NewLiteral(ast.LitString, tok.Lexeme, tok.Span)

	case lexer.TRUE, lexer.FALSE:
		tok := p.advance()
		return ast.NewLiteral(ast.LitBool, tok.Lexeme, tok.Span)

	case lexer.IDENT, lexer.TYPE_IDENT:
		return p.parseQualifiedIdent()

	case lexer.LPAREN:
		if p.aheadIsFunctionLiteral() {
			return p.parseFunctionLiteral()
		}
		return p.parseGroupedExpr()

	case lexer.DO:
		p.advance()
		return p.parseEffectBlock(false)

	case lexer.DO_BANG:
		p.advance()
		if p.check(lexer.LBRACE) {
			return p.parseEffectBlock(true)
		}
		// Single-statement form: do! expr
		start := p.at(p.pos - 1).Span
		stmt := p.parseExpr(precedenceLowest)
		if stmt == nil {
			return nil
		}
		return ast.NewEffectBlock(true, []ast.Node{stmt}, mergeSpan(start, stmt.Span()))

	default:
		p.errorAt(p.cur(), "expected expression")
		return nil
	}
}

// parseQualifiedIdent parses an identifier, flattening dotted access
// such as console.print into one Ident whose name carries the dot. The
// data model has no field-access variant; the dotted form only names
// builtin entry points.
func (p *Parser) parseQualifiedIdent() ast.Node {
	tok := p.advance()
	name := tok.Lexeme
	span := tok.Span

	for p.check(lexer.DOT) {
		p.advance()
		fieldTok, ok := p.expect(lexer.IDENT, "expected identifier after '.'")
		if !ok {
			return nil
		}
		name += "." + fieldTok.Lexeme
		span = mergeSpan(span, fieldTok.Span)
	}

	return ast.NewIdent(name, span)
}

// aheadIsFunctionLiteral reports whether the '(' at the current position
// opens a function literal. It scans forward tracking paren depth to the
// matching ')' and checks the token immediately after for '=>'. The scan
// never consumes tokens; it only decides which sub-parser runs. This is
// the sole signal distinguishing `(x, y) => x` from `(x + y)`.
func (p *Parser) aheadIsFunctionLiteral() bool {
	look := p.pos + 1
	depth := 1
	for depth > 0 {
		tok := p.at(look)
		switch tok.Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
		case lexer.EOF:
			return false
		}
		look++
	}
	return p.at(look).Type == lexer.FATARROW
}

// parseFunctionLiteral parses `(a, b) => expr` into an anonymous
// function declaration.
func (p *Parser) parseFunctionLiteral() ast.Node {
	openTok, ok := p.expect(lexer.LPAREN, "expected '(' in function literal")
	if !ok {
		return nil
	}

	var params []*ast.Ident
	if !p.check(lexer.RPAREN) {
		for {
			tok, ok := p.expect(lexer.IDENT, "expected parameter name")
			if !ok {
				return nil
			}
			params = append(params, ast.NewIdent(tok.Lexeme, tok.Span))
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}

	if _, ok := p.expect(lexer.RPAREN, "expected ')' after parameter list"); !ok {
		return nil
	}
	if _, ok := p.expect(lexer.FATARROW, "expected '=>' in function literal"); !ok {
		return nil
	}

	body := p.parseExpr(precedenceLowest)
	if body == nil {
		return nil
	}

	span := mergeSpan(openTok.Span, body.Span())
	return ast.NewFuncDecl(nil, params, nil, body, span)
}

// parseGroupedExpr parses "(expr)" without a dedicated paren node; the
// grouping only affects precedence.
func (p *Parser) parseGroupedExpr() ast.Node {
	p.advance() // consume '('

	expr := p.parseExpr(precedenceLowest)
	if expr == nil {
		return nil
	}

	if _, ok := p.expect(lexer.RPAREN, "expected ')' after expression"); !ok {
		return nil
	}

	return expr
}

// parseEffectBlock parses `{ expr* }` after a do or do! keyword.
func (p *Parser) parseEffectBlock(effect bool) ast.Node {
	openTok, ok := p.expect(lexer.LBRACE, "expected '{' to start effect block")
	if !ok {
		return nil
	}

	var stmts []ast.Node
	for !p.check(lexer.RBRACE) && !p.atEnd() {
		stmt := p.parseExpr(precedenceLowest)
		if stmt == nil {
			return nil
		}
		stmts = append(stmts, stmt)
	}

	closeTok, ok := p.expect(lexer.RBRACE, "expected '}' to close effect block")
	if !ok {
		return nil
	}

	return ast.NewEffectBlock(effect, stmts, mergeSpan(openTok.Span, closeTok.Span))
}
