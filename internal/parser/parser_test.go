package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/lexer"
	"github.com/tml-lang/tmlc/internal/source"
)

// parse lexes and parses src as a standalone file, failing the test if
// the lexer reports errors (parser-level diagnostics are returned for
// the caller to inspect).
func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	id := source.Files().Add("test.tml", []byte(src))
	toks, lexErrs := lexer.Lex(id, []byte(src))
	require.Empty(t, lexErrs, "unexpected lexer errors")
	p := New(toks)
	f := p.ParseFile("test.tml")
	return f
}

func TestParseFuncDecl(t *testing.T) {
	f := parse(t, `
pub func add(a: I32, b: I32) -> I32 {
    a + b
}
`)
	require.Len(t, f.Decls, 1)
	fn, ok := f.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, ast.Public, fn.Vis)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	require.NotNil(t, fn.ReturnType)
	require.NotNil(t, fn.Body)
	require.NotNil(t, fn.Body.Tail)
	bin, ok := fn.Body.Tail.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParseStructAndEnum(t *testing.T) {
	f := parse(t, `
struct Point {
    x: I32,
    y: I32,
}

enum Shape {
    Circle(I32),
    Square(I32, I32),
    Empty,
}
`)
	require.Len(t, f.Decls, 2)
	st, ok := f.Decls[0].(*ast.StructDecl)
	require.True(t, ok)
	assert.Equal(t, "Point", st.Name)
	require.Len(t, st.Fields, 2)
	assert.Equal(t, "x", st.Fields[0].Name)

	en, ok := f.Decls[1].(*ast.EnumDecl)
	require.True(t, ok)
	require.Len(t, en.Variants, 3)
	assert.Equal(t, "Circle", en.Variants[0].Name)
	require.Len(t, en.Variants[0].Fields, 1)
	assert.Empty(t, en.Variants[2].Fields)
}

func TestParseClassWithMethods(t *testing.T) {
	f := parse(t, `
abstract class Animal {
    name: String;

    abstract func speak() -> String;
}

class Dog extends Animal {
    override func speak() -> String {
        "woof"
    }
}
`)
	require.Len(t, f.Decls, 2)
	base, ok := f.Decls[0].(*ast.ClassDecl)
	require.True(t, ok)
	assert.True(t, base.Abstract)
	require.Len(t, base.Methods, 1)
	assert.True(t, base.Methods[0].Abstract)

	dog, ok := f.Decls[1].(*ast.ClassDecl)
	require.True(t, ok)
	assert.Equal(t, "Animal", dog.Extends)
	require.Len(t, dog.Methods, 1)
	assert.True(t, dog.Methods[0].Override)
	require.NotNil(t, dog.Methods[0].Body)
}

func TestParseBehaviorAndImpl(t *testing.T) {
	f := parse(t, `
behavior Greet {
    func hello(self) -> String;
}

impl Greet for Point {
    func hello(self) -> String {
        "hi"
    }
}
`)
	require.Len(t, f.Decls, 2)
	beh, ok := f.Decls[0].(*ast.BehaviorDecl)
	require.True(t, ok)
	assert.Equal(t, "Greet", beh.Name)

	impl, ok := f.Decls[1].(*ast.ImplDecl)
	require.True(t, ok)
	assert.Equal(t, "Greet", impl.Behavior)
	named, ok := impl.ForType.(*ast.NamedType)
	require.True(t, ok)
	assert.Equal(t, "Point", named.Name)
}

func TestParseIfWhenWhileFor(t *testing.T) {
	f := parse(t, `
func classify(n: I32) -> I32 {
    if n > 0 {
        1
    } else if n < 0 {
        -1
    } else {
        0
    }
}

func sumTo(n: I32) -> I32 {
    let mut total = 0;
    let mut i = 0;
    while i < n {
        total = total + i;
        i = i + 1;
    }
    total
}

func walk(xs: [I32]) {
    for x in xs {
        x
    }
}
`)
	require.Len(t, f.Decls, 3)
	classify := f.Decls[0].(*ast.FuncDecl)
	ifExpr, ok := classify.Body.Tail.(*ast.IfExpr)
	require.True(t, ok)
	assert.NotNil(t, ifExpr.Else)

	sumTo := f.Decls[1].(*ast.FuncDecl)
	require.Len(t, sumTo.Body.Stmts, 3)
	_, ok = sumTo.Body.Stmts[2].(*ast.WhileStmt)
	require.True(t, ok)

	walk := f.Decls[2].(*ast.FuncDecl)
	_, ok = walk.Body.Stmts[0].(*ast.ForStmt)
	require.True(t, ok)
}

func TestParseWhenExpr(t *testing.T) {
	f := parse(t, `
func describe(s: Shape) -> String {
    when s {
        Circle(r) => "circle",
        Square(w, h) if w == h => "square",
        Empty => "empty",
    }
}
`)
	fn := f.Decls[0].(*ast.FuncDecl)
	when, ok := fn.Body.Tail.(*ast.WhenExpr)
	require.True(t, ok)
	require.Len(t, when.Arms, 3)
	vp, ok := when.Arms[0].Pattern.(*ast.VariantPattern)
	require.True(t, ok)
	assert.Equal(t, "Circle", vp.Name)
	assert.NotNil(t, when.Arms[1].Guard)
}

func TestParseStructLiteralVsBlockAmbiguity(t *testing.T) {
	f := parse(t, `
func make() -> Point {
    Point { x: 1, y: 2 }
}

func test(p: Point) -> I32 {
    if p.x > 0 {
        1
    } else {
        0
    }
}
`)
	make_ := f.Decls[0].(*ast.FuncDecl)
	lit, ok := make_.Body.Tail.(*ast.StructLit)
	require.True(t, ok)
	assert.Equal(t, "Point", lit.TypeName)
	require.Len(t, lit.Fields, 2)

	test := f.Decls[1].(*ast.FuncDecl)
	_, ok = test.Body.Tail.(*ast.IfExpr)
	require.True(t, ok, "condition brace must not be parsed as a struct literal")
}

func TestParseUseDecls(t *testing.T) {
	f := parse(t, `
use std::io;
use std::collections::*;
use std::fmt::{Display, Debug as Dbg};

func main() {}
`)
	require.Len(t, f.Uses, 3)
	assert.Equal(t, []string{"std", "io"}, f.Uses[0].Path)
	assert.True(t, f.Uses[1].Glob)
	require.Len(t, f.Uses[2].Items, 2)
	assert.Equal(t, "Debug", f.Uses[2].Items[1].Name)
	assert.Equal(t, "Dbg", f.Uses[2].Items[1].Alias)
}

func TestParseGenericsAndRefTypes(t *testing.T) {
	f := parse(t, `
struct Box[T] {
    value: T,
}

func identity[T](x: &T) -> &T {
    x
}
`)
	box := f.Decls[0].(*ast.StructDecl)
	require.Len(t, box.TypeParams, 1)
	assert.Equal(t, "T", box.TypeParams[0].Name)

	id := f.Decls[1].(*ast.FuncDecl)
	require.Len(t, id.TypeParams, 1)
	refType, ok := id.Params[0].Type.(*ast.RefType)
	require.True(t, ok)
	assert.False(t, refType.Mutable)
	_, ok = id.ReturnType.(*ast.RefType)
	require.True(t, ok)
}

func TestParseErrorRecoveryKeepsLaterDecls(t *testing.T) {
	f := parse(t, `
func good() -> I32 { 1 }

123 456;

func alsoGood() -> I32 { 2 }
`)
	require.Len(t, f.Decls, 2)
	assert.True(t, f.Decls[0].(*ast.FuncDecl).Name == "good")
	assert.True(t, f.Decls[1].(*ast.FuncDecl).Name == "alsoGood")
}
