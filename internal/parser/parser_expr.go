package parser

import (
	"github.com/tml-lang/tmlc/internal/ast"
	tmlerrors "github.com/tml-lang/tmlc/internal/errors"
	"github.com/tml-lang/tmlc/internal/source"
	"github.com/tml-lang/tmlc/internal/token"
)

func (p *Parser) registerPrefixFns() {
	p.registerPrefix(token.IDENT, p.parseIdentOrStructLit)
	p.registerPrefix(token.INT, p.parseIntLit)
	p.registerPrefix(token.FLOAT, p.parseFloatLit)
	p.registerPrefix(token.STRING, p.parseStringLit)
	p.registerPrefix(token.STRING_INTERP_PART, p.parseInterpString)
	p.registerPrefix(token.CHAR, p.parseCharLit)
	p.registerPrefix(token.TRUE, p.parseBoolLit)
	p.registerPrefix(token.FALSE, p.parseBoolLit)
	p.registerPrefix(token.LPAREN, p.parseParenOrTuple)
	p.registerPrefix(token.LBRACKET, p.parseArrayLit)
	p.registerPrefix(token.MINUS, p.parseUnary)
	p.registerPrefix(token.BANG, p.parseUnary)
	p.registerPrefix(token.AMP, p.parseRef)
	p.registerPrefix(token.AMPMUT, p.parseRef)
	p.registerPrefix(token.IF, p.parseIf)
	p.registerPrefix(token.WHEN, p.parseWhen)
	p.registerPrefix(token.LBRACE, p.parseBlockExpr)
	p.registerPrefix(token.SELF, p.parseSelf)
	p.registerPrefix(token.AWAIT, p.parseAwait)
	p.registerPrefix(token.TRY, p.parseTry)
}

func (p *Parser) registerInfixFns() {
	for _, k := range []token.Kind{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQ, token.NEQ, token.LT, token.GT, token.LTE, token.GTE,
		token.ANDAND, token.OROR,
	} {
		p.registerInfix(k, p.parseBinary)
	}
	p.registerInfix(token.ASSIGN, p.parseAssign)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.DOT, p.parseFieldOrMethod)
	p.registerInfix(token.AS, p.parseCast)
}

// parseExpr is the Pratt entry point.
func (p *Parser) parseExpr(precedence int) ast.Expr {
	prefix, ok := p.prefixFns[p.cur.Kind]
	if !ok {
		p.errorf(tmlerrors.P001, p.cur.Span, "unexpected token %s in expression", errorToken(p.cur))
		return &ast.BadExpr{Msg: "no prefix parser", Sp: p.cur.Span}
	}
	left := prefix()

	for !p.peekIs(token.SEMI) && precedence < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peek.Kind]
		if !ok {
			return left
		}
		p.next()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentOrStructLit() ast.Expr {
	start := p.cur.Span
	name := p.cur.Lexeme
	if p.peekIs(token.LBRACE) && p.structLitAllowed {
		p.next() // '{'
		return p.parseStructLitBody(name, start)
	}
	return &ast.Ident{Name: name, Sp: start}
}

func (p *Parser) parseStructLitBody(typeName string, start source.Span) ast.Expr {
	p.next() // first field or '}'
	var fields []*ast.FieldInit
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		fname := p.cur.Lexeme
		p.expect(token.COLON)
		p.next()
		val := p.parseExpr(LOWEST)
		fields = append(fields, &ast.FieldInit{Name: fname, Value: val})
		if p.peekIs(token.COMMA) {
			p.next()
			p.next()
			continue
		}
		p.next()
		break
	}
	return &ast.StructLit{TypeName: typeName, Fields: fields, Sp: start}
}

func (p *Parser) parseIntLit() ast.Expr {
	t := p.cur
	return &ast.IntLit{Value: t.IntVal, Suffix: string(t.Suffix), Sp: t.Span}
}

func (p *Parser) parseFloatLit() ast.Expr {
	t := p.cur
	return &ast.FloatLit{Value: t.FltVal, Suffix: string(t.Suffix), Sp: t.Span}
}

func (p *Parser) parseStringLit() ast.Expr {
	t := p.cur
	return &ast.StringLit{Value: t.StrVal, Sp: t.Span}
}

// parseInterpString consumes a run of STRING_INTERP_PART chunks and the
// expressions between them. The lexer marks the final chunk of an
// interpolated string as an ordinary STRING token (no trailing `${`).
func (p *Parser) parseInterpString() ast.Expr {
	start := p.cur.Span
	var parts []string
	var exprs []ast.Expr
	parts = append(parts, p.cur.StrVal)
	for {
		p.next() // move into the interpolated expression
		exprs = append(exprs, p.parseExpr(LOWEST))
		if !p.peekIs(token.STRING_INTERP_PART) && !p.peekIs(token.STRING) {
			break
		}
		p.next()
		parts = append(parts, p.cur.StrVal)
		if p.curIs(token.STRING) {
			break
		}
	}
	return &ast.InterpString{Parts: parts, Exprs: exprs, Sp: start}
}

func (p *Parser) parseCharLit() ast.Expr {
	t := p.cur
	return &ast.CharLit{Value: t.ChrVal, Sp: t.Span}
}

func (p *Parser) parseBoolLit() ast.Expr {
	t := p.cur
	return &ast.BoolLit{Value: t.BoolVal, Sp: t.Span}
}

func (p *Parser) parseParenOrTuple() ast.Expr {
	start := p.cur.Span
	p.next() // consume '('
	if p.curIs(token.RPAREN) {
		return &ast.TupleLit{Sp: start}
	}
	first := p.parseExpr(LOWEST)
	if p.peekIs(token.COMMA) {
		elems := []ast.Expr{first}
		for p.peekIs(token.COMMA) {
			p.next()
			p.next()
			if p.curIs(token.RPAREN) {
				break
			}
			elems = append(elems, p.parseExpr(LOWEST))
		}
		p.expect(token.RPAREN)
		return &ast.TupleLit{Elements: elems, Sp: start}
	}
	p.expect(token.RPAREN)
	return first
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.cur.Span
	p.next() // consume '['
	var elems []ast.Expr
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		elems = append(elems, p.parseExpr(LOWEST))
		if p.peekIs(token.COMMA) {
			p.next()
			p.next()
			continue
		}
		p.next()
		break
	}
	return &ast.ArrayLit{Elements: elems, Sp: start}
}

func (p *Parser) parseUnary() ast.Expr {
	start := p.cur.Span
	op := p.cur.Lexeme
	p.next()
	x := p.parseExpr(UNARY)
	return &ast.UnaryExpr{Op: op, X: x, Sp: start}
}

func (p *Parser) parseRef() ast.Expr {
	start := p.cur.Span
	mutable := p.curIs(token.AMPMUT)
	p.next()
	x := p.parseExpr(UNARY)
	return &ast.RefExpr{Mutable: mutable, X: x, Sp: start}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	start := p.cur.Span
	op := p.cur.Lexeme
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpr(prec)
	return &ast.BinaryExpr{Left: left, Op: op, Right: right, Sp: start}
}

func (p *Parser) parseAssign(target ast.Expr) ast.Expr {
	start := p.cur.Span
	p.next()
	value := p.parseExpr(LOWEST)
	return &ast.AssignExpr{Target: target, Op: "=", Value: value, Sp: start}
}

func (p *Parser) parseCall(fn ast.Expr) ast.Expr {
	start := p.cur.Span
	p.next() // consume '('
	var args []ast.Expr
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpr(LOWEST))
		if p.peekIs(token.COMMA) {
			p.next()
			p.next()
			continue
		}
		p.expect(token.RPAREN)
		break
	}
	return &ast.CallExpr{Func: fn, Args: args, Sp: start}
}

func (p *Parser) parseIndex(recv ast.Expr) ast.Expr {
	start := p.cur.Span
	p.next() // consume '['
	idx := p.parseExpr(LOWEST)
	p.expect(token.RBRACKET)
	return &ast.IndexExpr{Recv: recv, Index: idx, Sp: start}
}

func (p *Parser) parseFieldOrMethod(recv ast.Expr) ast.Expr {
	start := p.cur.Span
	p.next() // consume '.', now at field/method name
	name := p.cur.Lexeme
	if p.peekIs(token.LPAREN) {
		p.next() // '('
		p.next()
		var args []ast.Expr
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			args = append(args, p.parseExpr(LOWEST))
			if p.peekIs(token.COMMA) {
				p.next()
				p.next()
				continue
			}
			p.expect(token.RPAREN)
			break
		}
		return &ast.MethodCallExpr{Recv: recv, Name: name, Args: args, Sp: start}
	}
	return &ast.FieldExpr{Recv: recv, Name: name, Sp: start}
}

func (p *Parser) parseCast(x ast.Expr) ast.Expr {
	start := p.cur.Span
	p.next() // move onto the type
	to := p.parseType()
	return &ast.CastExpr{X: x, To: to, Sp: start}
}

func (p *Parser) parseIf() ast.Expr {
	start := p.cur.Span
	p.next() // consume 'if'
	noStruct := p.structLitAllowed
	p.structLitAllowed = false
	cond := p.parseExpr(LOWEST)
	p.structLitAllowed = noStruct
	p.expect(token.LBRACE)
	then := p.parseBlock()
	var elseExpr ast.Expr
	if p.peekIs(token.ELSE) {
		p.next() // 'else'
		if p.peekIs(token.IF) {
			p.next()
			elseExpr = p.parseIf()
		} else {
			p.expect(token.LBRACE)
			elseExpr = p.parseBlock()
		}
	}
	return &ast.IfExpr{Cond: cond, Then: then, Else: elseExpr, Sp: start}
}

func (p *Parser) parseWhen() ast.Expr {
	start := p.cur.Span
	p.next() // consume 'when'
	noStruct := p.structLitAllowed
	p.structLitAllowed = false
	subject := p.parseExpr(LOWEST)
	p.structLitAllowed = noStruct
	p.expect(token.LBRACE)
	p.next() // first pattern or '}'
	var arms []*ast.WhenArm
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		armStart := p.cur.Span
		pat := p.parsePattern()
		var guard ast.Expr
		if p.peekIs(token.IF) {
			p.next()
			p.next()
			guard = p.parseExpr(LOWEST)
		}
		p.expect(token.FARROW)
		p.next()
		body := p.parseExpr(LOWEST)
		arms = append(arms, &ast.WhenArm{Pattern: pat, Guard: guard, Body: body, Sp: armStart})
		if p.peekIs(token.COMMA) {
			p.next()
			p.next()
			continue
		}
		p.next()
	}
	return &ast.WhenExpr{Subject: subject, Arms: arms, Sp: start}
}

func (p *Parser) parseBlockExpr() ast.Expr {
	return p.parseBlock()
}

func (p *Parser) parseSelf() ast.Expr { return &ast.SelfExpr{Sp: p.cur.Span} }

func (p *Parser) parseAwait() ast.Expr {
	start := p.cur.Span
	p.next()
	x := p.parseExpr(UNARY)
	return &ast.AwaitExpr{X: x, Sp: start}
}

func (p *Parser) parseTry() ast.Expr {
	start := p.cur.Span
	p.next()
	x := p.parseExpr(UNARY)
	return &ast.TryExpr{X: x, Sp: start}
}

// parseBlock parses `{ stmt* expr? }`. p.cur must be LBRACE on entry;
// p.cur is RBRACE on return.
func (p *Parser) parseBlock() *ast.Block {
	start := p.cur.Span
	p.next() // consume '{'
	b := &ast.Block{Sp: start}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if isStmtStart(p.cur.Kind) {
			b.Stmts = append(b.Stmts, p.parseStmt())
			p.next()
			continue
		}
		expr := p.parseExpr(LOWEST)
		if p.peekIs(token.SEMI) {
			p.next()
			b.Stmts = append(b.Stmts, &ast.ExprStmt{X: expr, Sp: expr.Span()})
			p.next()
			continue
		}
		b.Tail = expr
		p.next()
		break
	}
	return b
}

func isStmtStart(k token.Kind) bool {
	switch k {
	case token.LET, token.RETURN, token.BREAK, token.CONTINUE, token.WHILE, token.LOOP, token.FOR:
		return true
	}
	return false
}
