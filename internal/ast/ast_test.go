package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tml-lang/tmlc/internal/source"
)

func TestVisibilityString(t *testing.T) {
	assert.Equal(t, "pub ", Public.String())
	assert.Equal(t, "", Private.String())
}

func TestNodesImplementExprStmtInterfaces(t *testing.T) {
	sp := source.Span{}

	var exprs = []Expr{
		&Ident{Sp: sp},
		&IntLit{Sp: sp},
		&FloatLit{Sp: sp},
		&StringLit{Sp: sp},
		&InterpString{Sp: sp},
		&CharLit{Sp: sp},
		&BoolLit{Sp: sp},
		&BinaryExpr{Sp: sp},
		&UnaryExpr{Sp: sp},
		&AssignExpr{Sp: sp},
		&CallExpr{Sp: sp},
		&MethodCallExpr{Sp: sp},
		&FieldExpr{Sp: sp},
		&IndexExpr{Sp: sp},
		&CastExpr{Sp: sp},
		&RefExpr{Sp: sp},
		&StructLit{Sp: sp},
		&ArrayLit{Sp: sp},
		&TupleLit{Sp: sp},
		&IfExpr{Sp: sp},
		&WhenExpr{Sp: sp},
		&AwaitExpr{Sp: sp},
		&TryExpr{Sp: sp},
		&SelfExpr{Sp: sp},
		&BadExpr{Sp: sp},
		&Block{Sp: sp},
	}
	for _, e := range exprs {
		assert.Equal(t, sp, e.Span())
	}

	var stmts = []Stmt{
		&LetStmt{Sp: sp},
		&ExprStmt{Sp: sp},
		&ReturnStmt{Sp: sp},
		&BreakStmt{Sp: sp},
		&ContinueStmt{Sp: sp},
		&WhileStmt{Sp: sp},
		&LoopStmt{Sp: sp},
		&ForStmt{Sp: sp},
		&Block{Sp: sp},
		&FuncDecl{Sp: sp},
	}
	for _, s := range stmts {
		assert.Equal(t, sp, s.Span())
	}

	var decls = []Decl{
		&FuncDecl{Sp: sp},
		&StructDecl{Sp: sp},
		&EnumDecl{Sp: sp},
		&BehaviorDecl{Sp: sp},
		&ImplDecl{Sp: sp},
		&ClassDecl{Sp: sp},
		&InterfaceDecl{Sp: sp},
		&TypeAliasDecl{Sp: sp},
		&ConstDecl{Sp: sp},
	}
	for _, d := range decls {
		assert.Equal(t, sp, d.Span())
	}

	var types = []Type{
		&NamedType{Sp: sp},
		&RefType{Sp: sp},
		&ArrayType{Sp: sp},
		&TupleType{Sp: sp},
		&FuncType{Sp: sp},
		&DynType{Sp: sp},
		&SelfType{Sp: sp},
	}
	for _, ty := range types {
		assert.Equal(t, sp, ty.Span())
	}

	var pats = []Pattern{
		&WildcardPattern{Sp: sp},
		&BindPattern{Sp: sp},
		&VariantPattern{Sp: sp},
		&StructPattern{Sp: sp},
		&TuplePattern{Sp: sp},
		&RangePattern{Sp: sp},
		&OrPattern{Sp: sp},
		&IntLit{Sp: sp},
		&StringLit{Sp: sp},
		&CharLit{Sp: sp},
		&BoolLit{Sp: sp},
		&Ident{Sp: sp},
	}
	for _, p := range pats {
		assert.Equal(t, sp, p.Span())
	}
}

func TestFuncDeclStringIncludesName(t *testing.T) {
	fd := &FuncDecl{Name: "compute", Vis: Public}
	assert.Contains(t, fd.String(), "compute")
}
