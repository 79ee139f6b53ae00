package parser

import (
	"github.com/tml-lang/tmlc/internal/ast"
	tmlerrors "github.com/tml-lang/tmlc/internal/errors"
	"github.com/tml-lang/tmlc/internal/token"
)

// parseType parses a type expression. The leading token must already
// be current (p.cur), and on return p.cur is the type's last token.
func (p *Parser) parseType() ast.Type {
	switch p.cur.Kind {
	case token.AMP, token.AMPMUT:
		return p.parseRefType()
	case token.LBRACKET:
		return p.parseArrayType()
	case token.LPAREN:
		return p.parseTupleOrFuncType()
	case token.DYN:
		start := p.cur.Span
		p.next()
		name := p.cur.Lexeme
		return &ast.DynType{Behavior: name, Sp: start}
	case token.SELF_TYPE:
		t := &ast.SelfType{Sp: p.cur.Span}
		return t
	case token.IDENT:
		return p.parseNamedType()
	default:
		p.errorf(tmlerrors.P005, p.cur.Span, "expected a type, found %s", errorToken(p.cur))
		return &ast.NamedType{Name: "<error>", Sp: p.cur.Span}
	}
}

func (p *Parser) parseRefType() ast.Type {
	start := p.cur.Span
	mutable := p.curIs(token.AMPMUT)
	p.next()
	elem := p.parseType()
	return &ast.RefType{Mutable: mutable, Elem: elem, Sp: start}
}

func (p *Parser) parseArrayType() ast.Type {
	start := p.cur.Span
	p.next() // consume '['
	elem := p.parseType()
	if !p.expect(token.RBRACKET) {
		return &ast.ArrayType{Elem: elem, Sp: start}
	}
	return &ast.ArrayType{Elem: elem, Sp: start}
}

func (p *Parser) parseTupleOrFuncType() ast.Type {
	start := p.cur.Span
	p.next() // consume '('
	var elements []ast.Type
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		elements = append(elements, p.parseType())
		if p.peekIs(token.COMMA) {
			p.next()
			p.next()
			continue
		}
		p.expect(token.RPAREN)
		break
	}
	if p.peekIs(token.ARROW) {
		p.next() // now at ARROW
		p.next() // move to return type
		ret := p.parseType()
		return &ast.FuncType{Params: elements, Return: ret, Sp: start}
	}
	return &ast.TupleType{Elements: elements, Sp: start}
}

func (p *Parser) parseNamedType() ast.Type {
	start := p.cur.Span
	name := p.cur.Lexeme
	var args []ast.Type
	if p.peekIs(token.LBRACKET) {
		p.next() // at '['
		p.next() // first type token
		for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
			args = append(args, p.parseType())
			if p.peekIs(token.COMMA) {
				p.next()
				p.next()
				continue
			}
			p.expect(token.RBRACKET)
			break
		}
	}
	return &ast.NamedType{Name: name, Args: args, Sp: start}
}

// parseTypeParams parses a `[T, U: Bound + Bound2]` generic parameter
// list. p.cur must be LBRACKET on entry; on return p.cur is RBRACKET.
func (p *Parser) parseTypeParams() []*ast.TypeParam {
	var params []*ast.TypeParam
	p.next() // first type-param name
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		start := p.cur.Span
		name := p.cur.Lexeme
		var bounds []string
		if p.peekIs(token.COLON) {
			p.next() // ':'
			p.next() // first bound
			bounds = append(bounds, p.cur.Lexeme)
			for p.peekIs(token.PLUS) {
				p.next()
				p.next()
				bounds = append(bounds, p.cur.Lexeme)
			}
		}
		params = append(params, &ast.TypeParam{Name: name, Bounds: bounds, Sp: start})
		if p.peekIs(token.COMMA) {
			p.next()
			p.next()
			continue
		}
		p.next()
		break
	}
	return params
}
