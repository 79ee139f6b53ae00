package parser

import (
	"github.com/tml-lang/tmlc/internal/ast"
	tmlerrors "github.com/tml-lang/tmlc/internal/errors"
	"github.com/tml-lang/tmlc/internal/token"
)

func (p *Parser) parseVisibility() ast.Visibility {
	if p.curIs(token.PUB) {
		p.next()
		return ast.Public
	}
	return ast.Private
}

func (p *Parser) parseUseDecl(vis ast.Visibility) *ast.UseDecl {
	start := p.cur.Span
	p.next() // consume 'use'
	var path []string
	path = append(path, p.cur.Lexeme)
	for p.peekIs(token.COLONCOLON) {
		p.next() // '::'
		p.next()
		if p.curIs(token.STAR) {
			p.next()
			p.expectSemi()
			return &ast.UseDecl{Vis: vis, Path: path, Glob: true, Sp: start}
		}
		if p.curIs(token.LBRACE) {
			items := p.parseUseItems()
			p.next() // consume '}'
			p.expectSemi()
			return &ast.UseDecl{Vis: vis, Path: path, Items: items, Sp: start}
		}
		path = append(path, p.cur.Lexeme)
	}
	p.next()
	p.expectSemi()
	return &ast.UseDecl{Vis: vis, Path: path, Sp: start}
}

func (p *Parser) parseUseItems() []ast.UseItem {
	p.next() // first item
	var items []ast.UseItem
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		name := p.cur.Lexeme
		alias := ""
		if p.peekIs(token.AS) {
			p.next()
			p.next()
			alias = p.cur.Lexeme
		}
		items = append(items, ast.UseItem{Name: name, Alias: alias})
		if p.peekIs(token.COMMA) {
			p.next()
			p.next()
			continue
		}
		p.next()
		break
	}
	// p.cur is now RBRACE.
	return items
}

// parseDecl parses one top-level (or class-body, behavior-body) item.
// Returns nil if the current token does not start a recognized
// declaration, in which case the caller should advance and retry
// (error recovery).
func (p *Parser) parseDecl() ast.Decl {
	vis := p.parseVisibility()
	switch p.cur.Kind {
	case token.FUNC:
		return p.parseFuncDecl(vis)
	case token.STRUCT:
		return p.parseStructDecl(vis)
	case token.ENUM:
		return p.parseEnumDecl(vis)
	case token.BEHAVIOR:
		return p.parseBehaviorDecl(vis)
	case token.IMPL:
		return p.parseImplDecl()
	case token.CLASS, token.ABSTRACT, token.SEALED:
		return p.parseClassDecl(vis)
	case token.INTERFACE:
		return p.parseInterfaceDecl(vis)
	case token.TYPE:
		return p.parseTypeAliasDecl(vis)
	case token.CONST:
		return p.parseConstDecl(vis)
	case token.EXTERN:
		return p.parseFuncDecl(vis)
	default:
		p.errorf(tmlerrors.P003, p.cur.Span, "expected a declaration, found %s", errorToken(p.cur))
		return nil
	}
}

func (p *Parser) parseFuncDecl(vis ast.Visibility) *ast.FuncDecl {
	start := p.cur.Span
	isExtern := p.cur.Kind == token.EXTERN
	if isExtern {
		p.next() // consume 'extern'
	}
	p.next() // consume 'func'
	name := p.cur.Lexeme

	var typeParams []*ast.TypeParam
	if p.peekIs(token.LBRACKET) {
		p.next()
		typeParams = p.parseTypeParams()
	}

	p.expect(token.LPAREN)
	params := p.parseParamList()

	var ret ast.Type
	if p.peekIs(token.ARROW) {
		p.next()
		p.next()
		ret = p.parseType()
	}

	f := &ast.FuncDecl{Vis: vis, Name: name, TypeParams: typeParams, Params: params, ReturnType: ret, IsExtern: isExtern, Sp: start}

	if isExtern || p.peekIs(token.SEMI) {
		if p.peekIs(token.SEMI) {
			p.next()
		}
		return f
	}

	p.expect(token.LBRACE)
	f.Body = p.parseBlock()
	return f
}

// parseParamList parses `(name: Type, mut name: Type, ...)`. p.cur must
// be LPAREN on entry; p.cur is RPAREN on return.
func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	p.next() // first param or ')'
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		start := p.cur.Span
		mutable := false
		if p.curIs(token.MUT) {
			mutable = true
			p.next()
		}
		if p.curIs(token.SELF) {
			params = append(params, &ast.Param{Name: "self", Mutable: mutable, Sp: start})
			p.next()
		} else {
			name := p.cur.Lexeme
			p.expect(token.COLON)
			p.next()
			typ := p.parseType()
			params = append(params, &ast.Param{Name: name, Type: typ, Mutable: mutable, Sp: start})
			p.next()
		}
		if p.curIs(token.COMMA) {
			p.next()
			continue
		}
		break
	}
	return params
}

func (p *Parser) parseStructDecl(vis ast.Visibility) *ast.StructDecl {
	start := p.cur.Span
	p.next() // consume 'struct'
	name := p.cur.Lexeme
	var typeParams []*ast.TypeParam
	if p.peekIs(token.LBRACKET) {
		p.next()
		typeParams = p.parseTypeParams()
	}
	p.expect(token.LBRACE)
	p.next() // first field or '}'
	var fields []*ast.StructField
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		fvis := p.parseVisibility()
		fstart := p.cur.Span
		fname := p.cur.Lexeme
		p.expect(token.COLON)
		p.next()
		ftype := p.parseType()
		fields = append(fields, &ast.StructField{Vis: fvis, Name: fname, Type: ftype, Sp: fstart})
		if p.peekIs(token.COMMA) {
			p.next()
			p.next()
			continue
		}
		p.next()
		break
	}
	return &ast.StructDecl{Vis: vis, Name: name, TypeParams: typeParams, Fields: fields, Sp: start}
}

func (p *Parser) parseEnumDecl(vis ast.Visibility) *ast.EnumDecl {
	start := p.cur.Span
	p.next() // consume 'enum'
	name := p.cur.Lexeme
	var typeParams []*ast.TypeParam
	if p.peekIs(token.LBRACKET) {
		p.next()
		typeParams = p.parseTypeParams()
	}
	p.expect(token.LBRACE)
	p.next() // first variant or '}'
	var variants []*ast.EnumVariant
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		vstart := p.cur.Span
		vname := p.cur.Lexeme
		var vfields []ast.Type
		if p.peekIs(token.LPAREN) {
			p.next()
			p.next()
			for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
				vfields = append(vfields, p.parseType())
				if p.peekIs(token.COMMA) {
					p.next()
					p.next()
					continue
				}
				p.expect(token.RPAREN)
				break
			}
		}
		variants = append(variants, &ast.EnumVariant{Name: vname, Fields: vfields, Sp: vstart})
		if p.peekIs(token.COMMA) {
			p.next()
			p.next()
			continue
		}
		p.next()
		break
	}
	return &ast.EnumDecl{Vis: vis, Name: name, TypeParams: typeParams, Variants: variants, Sp: start}
}

func (p *Parser) parseBehaviorDecl(vis ast.Visibility) *ast.BehaviorDecl {
	start := p.cur.Span
	p.next() // consume 'behavior'
	name := p.cur.Lexeme
	var extends []string
	if p.peekIs(token.EXTENDS) {
		p.next()
		p.next()
		extends = append(extends, p.cur.Lexeme)
		for p.peekIs(token.PLUS) {
			p.next()
			p.next()
			extends = append(extends, p.cur.Lexeme)
		}
	}
	p.expect(token.LBRACE)
	methods := p.parseMethodSigList()
	return &ast.BehaviorDecl{Vis: vis, Name: name, Extends: extends, Methods: methods, Sp: start}
}

// parseMethodSigList parses a `{ func ... ; func ... { ... } }` body
// shared by behavior and interface declarations, where each method may
// or may not have a default body. p.cur must be LBRACE on entry.
func (p *Parser) parseMethodSigList() []*ast.FuncDecl {
	p.next() // first 'func' or '}'
	var methods []*ast.FuncDecl
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if !p.curIs(token.FUNC) {
			p.errorf(tmlerrors.P003, p.cur.Span, "expected func, found %s", errorToken(p.cur))
			p.next()
			continue
		}
		methods = append(methods, p.parseFuncDecl(ast.Public))
		p.next()
	}
	return methods
}

func (p *Parser) parseImplDecl() *ast.ImplDecl {
	start := p.cur.Span
	p.next() // consume 'impl'
	var typeParams []*ast.TypeParam
	if p.curIs(token.LBRACKET) {
		typeParams = p.parseTypeParams()
		p.next()
	}
	firstName := p.cur.Lexeme
	firstType := p.parseType()
	behavior := ""
	var forType ast.Type = firstType
	if p.peekIs(token.FOR) {
		behavior = firstName
		p.next() // 'for'
		p.next()
		forType = p.parseType()
	}
	p.expect(token.LBRACE)
	methods := p.parseMethodSigList()
	return &ast.ImplDecl{TypeParams: typeParams, Behavior: behavior, ForType: forType, Methods: methods, Sp: start}
}

func (p *Parser) parseClassDecl(vis ast.Visibility) *ast.ClassDecl {
	start := p.cur.Span
	abstract, sealed := false, false
	for {
		switch p.cur.Kind {
		case token.ABSTRACT:
			abstract = true
			p.next()
			continue
		case token.SEALED:
			sealed = true
			p.next()
			continue
		}
		break
	}
	p.next() // consume 'class' (p.cur is CLASS here)
	name := p.cur.Lexeme
	var typeParams []*ast.TypeParam
	if p.peekIs(token.LBRACKET) {
		p.next()
		typeParams = p.parseTypeParams()
	}
	extends := ""
	var implements []string
	if p.peekIs(token.EXTENDS) {
		p.next()
		p.next()
		extends = p.cur.Lexeme
	}
	if p.peekIs(token.IMPLEMENTS) {
		p.next()
		p.next()
		implements = append(implements, p.cur.Lexeme)
		for p.peekIs(token.COMMA) {
			p.next()
			p.next()
			implements = append(implements, p.cur.Lexeme)
		}
	}
	p.expect(token.LBRACE)
	p.next() // first member or '}'
	var fields []*ast.StructField
	var methods []*ast.MethodDecl
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		fvis := p.parseVisibility()
		if p.curIs(token.FUNC) || p.curIs(token.VIRTUAL) || p.curIs(token.OVERRIDE) || p.curIs(token.FINAL) || p.curIs(token.ABSTRACT) {
			methods = append(methods, p.parseMethodDecl(fvis))
			p.next()
			continue
		}
		fstart := p.cur.Span
		fname := p.cur.Lexeme
		p.expect(token.COLON)
		p.next()
		ftype := p.parseType()
		fields = append(fields, &ast.StructField{Vis: fvis, Name: fname, Type: ftype, Sp: fstart})
		if p.peekIs(token.SEMI) {
			p.next()
		}
		p.next()
	}
	return &ast.ClassDecl{Vis: vis, Name: name, TypeParams: typeParams, Abstract: abstract, Sealed: sealed, Extends: extends, Implements: implements, Fields: fields, Methods: methods, Sp: start}
}

func (p *Parser) parseMethodDecl(vis ast.Visibility) *ast.MethodDecl {
	start := p.cur.Span
	var abstract, virtual, override, final bool
	for {
		switch p.cur.Kind {
		case token.ABSTRACT:
			abstract = true
			p.next()
			continue
		case token.VIRTUAL:
			virtual = true
			p.next()
			continue
		case token.OVERRIDE:
			override = true
			p.next()
			continue
		case token.FINAL:
			final = true
			p.next()
			continue
		}
		break
	}
	// p.cur is FUNC
	p.next()
	name := p.cur.Lexeme
	var typeParams []*ast.TypeParam
	if p.peekIs(token.LBRACKET) {
		p.next()
		typeParams = p.parseTypeParams()
	}
	p.expect(token.LPAREN)
	params := p.parseParamList()
	var ret ast.Type
	if p.peekIs(token.ARROW) {
		p.next()
		p.next()
		ret = p.parseType()
	}
	m := &ast.MethodDecl{Vis: vis, Name: name, TypeParams: typeParams, Params: params, ReturnType: ret,
		Abstract: abstract, Virtual: virtual, Override: override, Final: final, Sp: start}
	if abstract || p.peekIs(token.SEMI) {
		if p.peekIs(token.SEMI) {
			p.next()
		}
		return m
	}
	p.expect(token.LBRACE)
	m.Body = p.parseBlock()
	return m
}

func (p *Parser) parseInterfaceDecl(vis ast.Visibility) *ast.InterfaceDecl {
	start := p.cur.Span
	p.next() // consume 'interface'
	name := p.cur.Lexeme
	var extends []string
	if p.peekIs(token.EXTENDS) {
		p.next()
		p.next()
		extends = append(extends, p.cur.Lexeme)
		for p.peekIs(token.COMMA) {
			p.next()
			p.next()
			extends = append(extends, p.cur.Lexeme)
		}
	}
	p.expect(token.LBRACE)
	p.next() // first method or '}'
	var methods []*ast.MethodDecl
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		methods = append(methods, p.parseMethodDecl(ast.Public))
		p.next()
	}
	return &ast.InterfaceDecl{Vis: vis, Name: name, Extends: extends, Methods: methods, Sp: start}
}

func (p *Parser) parseTypeAliasDecl(vis ast.Visibility) *ast.TypeAliasDecl {
	start := p.cur.Span
	p.next() // consume 'type'
	name := p.cur.Lexeme
	var typeParams []*ast.TypeParam
	if p.peekIs(token.LBRACKET) {
		p.next()
		typeParams = p.parseTypeParams()
	}
	p.expect(token.ASSIGN)
	p.next()
	target := p.parseType()
	if p.peekIs(token.SEMI) {
		p.next()
	}
	return &ast.TypeAliasDecl{Vis: vis, Name: name, TypeParams: typeParams, Target: target, Sp: start}
}

func (p *Parser) parseConstDecl(vis ast.Visibility) *ast.ConstDecl {
	start := p.cur.Span
	p.next() // consume 'const'
	name := p.cur.Lexeme
	var typ ast.Type
	if p.peekIs(token.COLON) {
		p.next()
		p.next()
		typ = p.parseType()
	}
	p.expect(token.ASSIGN)
	p.next()
	val := p.parseExpr(LOWEST)
	if p.peekIs(token.SEMI) {
		p.next()
	}
	return &ast.ConstDecl{Vis: vis, Name: name, Type: typ, Value: val, Sp: start}
}
