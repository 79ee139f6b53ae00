package parser

import (
	"github.com/tml-lang/tmlc/internal/ast"
	tmlerrors "github.com/tml-lang/tmlc/internal/errors"
	"github.com/tml-lang/tmlc/internal/token"
)

// parseStmt parses one statement inside a block. p.cur is the
// statement's leading keyword on entry; on return p.cur is the
// statement's last token (its terminating SEMI, or a block's RBRACE).
func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.Kind {
	case token.LET:
		return p.parseLetStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.BREAK:
		s := &ast.BreakStmt{Sp: p.cur.Span}
		if p.peekIs(token.SEMI) {
			p.next()
		}
		return s
	case token.CONTINUE:
		s := &ast.ContinueStmt{Sp: p.cur.Span}
		if p.peekIs(token.SEMI) {
			p.next()
		}
		return s
	case token.WHILE:
		return p.parseWhileStmt()
	case token.LOOP:
		return p.parseLoopStmt()
	case token.FOR:
		return p.parseForStmt()
	default:
		expr := p.parseExpr(LOWEST)
		if p.peekIs(token.SEMI) {
			p.next()
		}
		return &ast.ExprStmt{X: expr, Sp: expr.Span()}
	}
}

func (p *Parser) parseLetStmt() *ast.LetStmt {
	start := p.cur.Span
	p.next() // consume 'let'
	mutable := false
	if p.curIs(token.MUT) {
		mutable = true
		p.next()
	}
	name := p.cur.Lexeme
	var typ ast.Type
	if p.peekIs(token.COLON) {
		p.next()
		p.next()
		typ = p.parseType()
	}
	p.expect(token.ASSIGN)
	p.next()
	value := p.parseExpr(LOWEST)
	if p.peekIs(token.SEMI) {
		p.next()
	}
	return &ast.LetStmt{Name: name, Mutable: mutable, Type: typ, Value: value, Sp: start}
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.cur.Span
	if p.peekIs(token.SEMI) {
		p.next()
		return &ast.ReturnStmt{Sp: start}
	}
	p.next()
	val := p.parseExpr(LOWEST)
	if p.peekIs(token.SEMI) {
		p.next()
	}
	return &ast.ReturnStmt{Value: val, Sp: start}
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.cur.Span
	p.next() // consume 'while'
	noStruct := p.structLitAllowed
	p.structLitAllowed = false
	cond := p.parseExpr(LOWEST)
	p.structLitAllowed = noStruct
	p.expect(token.LBRACE)
	body := p.parseBlock()
	return &ast.WhileStmt{Cond: cond, Body: body, Sp: start}
}

func (p *Parser) parseLoopStmt() *ast.LoopStmt {
	start := p.cur.Span
	p.next() // consume 'loop'
	p.expectCur(token.LBRACE)
	body := p.parseBlock()
	return &ast.LoopStmt{Body: body, Sp: start}
}

func (p *Parser) parseForStmt() *ast.ForStmt {
	start := p.cur.Span
	p.next() // consume 'for'
	binding := p.parsePattern()
	p.expect(token.IN)
	p.next()
	noStruct := p.structLitAllowed
	p.structLitAllowed = false
	iterable := p.parseExpr(LOWEST)
	p.structLitAllowed = noStruct
	p.expect(token.LBRACE)
	body := p.parseBlock()
	return &ast.ForStmt{Binding: binding, Iterable: iterable, Body: body, Sp: start}
}

// expectCur is like expect but checks p.cur directly rather than
// p.peek, for the rare case (bare `loop {`) where no token needs
// skipping before the brace.
func (p *Parser) expectCur(k token.Kind) bool {
	if p.curIs(k) {
		return true
	}
	p.errorf(tmlerrors.P002, p.cur.Span, "expected %s, found %s", k, p.cur.Kind)
	return false
}
