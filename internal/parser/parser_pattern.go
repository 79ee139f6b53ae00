package parser

import (
	"github.com/tml-lang/tmlc/internal/ast"
	tmlerrors "github.com/tml-lang/tmlc/internal/errors"
	"github.com/tml-lang/tmlc/internal/token"
)

// parsePattern parses a single pattern. p.cur is the pattern's first
// token on entry; on return p.cur is its last token. Or-pattern alternation (`p1 | p2`)
// is represented in the AST (ast.OrPattern) but has no surface syntax
// yet — the lexer has no standalone `|` token — so callers never
// receive one today; the type checker's exhaustiveness pass still
// handles OrPattern so it is ready once the grammar grows one.
func (p *Parser) parsePattern() ast.Pattern {
	return p.parsePrimaryPattern()
}

func (p *Parser) parsePrimaryPattern() ast.Pattern {
	switch p.cur.Kind {
	case token.IDENT:
		if p.cur.Lexeme == "_" {
			wp := &ast.WildcardPattern{Sp: p.cur.Span}
			return wp
		}
		return p.parseIdentPattern()
	case token.INT:
		return p.parseRangeOrLiteralPattern()
	case token.STRING:
		return &ast.StringLit{Value: p.cur.StrVal, Sp: p.cur.Span}
	case token.CHAR:
		return &ast.CharLit{Value: p.cur.ChrVal, Sp: p.cur.Span}
	case token.TRUE, token.FALSE:
		return &ast.BoolLit{Value: p.cur.BoolVal, Sp: p.cur.Span}
	case token.LPAREN:
		return p.parseTuplePattern()
	default:
		p.errorf(tmlerrors.P004, p.cur.Span, "expected a pattern, found %s", errorToken(p.cur))
		return &ast.WildcardPattern{Sp: p.cur.Span}
	}
}

func (p *Parser) parseIdentPattern() ast.Pattern {
	start := p.cur.Span
	name := p.cur.Lexeme

	if p.peekIs(token.LPAREN) {
		p.next() // '('
		p.next()
		var elems []ast.Pattern
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			elems = append(elems, p.parsePattern())
			if p.peekIs(token.COMMA) {
				p.next()
				p.next()
				continue
			}
			p.expect(token.RPAREN)
			break
		}
		return &ast.VariantPattern{Name: name, Elements: elems, Sp: start}
	}

	if p.peekIs(token.LBRACE) {
		p.next() // '{'
		p.next()
		var fields []*ast.FieldPattern
		rest := false
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			if p.curIs(token.DOTDOT) {
				rest = true
				p.next()
				break
			}
			fname := p.cur.Lexeme
			var sub ast.Pattern
			if p.peekIs(token.COLON) {
				p.next()
				p.next()
				sub = p.parsePattern()
			} else {
				sub = &ast.BindPattern{Name: fname, Sp: p.cur.Span}
			}
			fields = append(fields, &ast.FieldPattern{Name: fname, Pattern: sub})
			if p.peekIs(token.COMMA) {
				p.next()
				p.next()
				continue
			}
			p.next()
			break
		}
		return &ast.StructPattern{TypeName: name, Fields: fields, HasRest: rest, Sp: start}
	}

	if p.peekIs(token.AT) {
		p.next() // '@'
		p.next()
		sub := p.parsePattern()
		return &ast.BindPattern{Name: name, Sub: sub, Sp: start}
	}

	return &ast.BindPattern{Name: name, Sp: start}
}

func (p *Parser) parseRangeOrLiteralPattern() ast.Pattern {
	start := p.cur.Span
	low := &ast.IntLit{Value: p.cur.IntVal, Sp: start}
	if p.peekIs(token.DOTDOT) || p.peekIs(token.DOTDOTEQ) {
		inclusive := p.peekIs(token.DOTDOTEQ)
		p.next()
		p.next()
		high := p.parseExpr(RANGE)
		return &ast.RangePattern{Low: low, High: high, Inclusive: inclusive, Sp: start}
	}
	return &ast.IntLit{Value: low.Value, Sp: start}
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	start := p.cur.Span
	p.next() // '('
	var elems []ast.Pattern
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		elems = append(elems, p.parsePattern())
		if p.peekIs(token.COMMA) {
			p.next()
			p.next()
			continue
		}
		p.expect(token.RPAREN)
		break
	}
	return &ast.TuplePattern{Elements: elems, Sp: start}
}
