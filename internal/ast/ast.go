// Package ast defines the syntax tree produced by internal/parser and
// consumed by internal/module, internal/types, and internal/codegen,
// using a Node/Pos/Span scaffolding and exprNode/stmtNode/typeNode/
// patternNode marker-method idiom, covering the statement-oriented,
// OOP-and-generics surface of
// spec.md §3 (struct/enum/behavior/impl/class/interface declarations,
// ownership-qualified types, while/for/loop statements).
package ast

import (
	"fmt"
	"strings"

	"github.com/tml-lang/tmlc/internal/source"
)

// Node is the base interface every AST node implements.
type Node interface {
	String() string
	Span() source.Span
}

// Expr, Stmt, Type, and Pattern are marker interfaces distinguishing
// the four syntactic categories; a concrete node may implement more
// than one (e.g. StructLit is only an Expr, but Ident used as a
// pattern implements both).
type Expr interface {
	Node
	exprNode()
}

type Stmt interface {
	Node
	stmtNode()
}

type Type interface {
	Node
	typeNode()
}

type Pattern interface {
	Node
	patternNode()
}

// Decl is any top-level or module-level declaration.
type Decl interface {
	Node
	declNode()
}

// File is a single parsed source file.
type File struct {
	Path    string
	ModName string // optional `mod name;` declaration
	Uses    []*UseDecl
	Decls   []Decl
	Sp      source.Span
}

func (f *File) String() string {
	var sb strings.Builder
	if f.ModName != "" {
		fmt.Fprintf(&sb, "mod %s;\n", f.ModName)
	}
	for _, u := range f.Uses {
		sb.WriteString(u.String())
		sb.WriteString("\n")
	}
	for _, d := range f.Decls {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
func (f *File) Span() source.Span { return f.Sp }

// Visibility controls whether a declaration is exported from its module.
type Visibility int

const (
	Private Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "pub "
	}
	return ""
}

// UseDecl imports symbols from another module (spec.md §4.4): a plain
// path import, a glob `use mod::*`, a selective `use mod::{a, b}`, or
// an aliased `use mod::a as b`.
type UseDecl struct {
	Vis     Visibility // Public marks a `pub use` re-export
	Path    []string
	Glob    bool
	Items   []UseItem // selective names; empty + !Glob means import the path itself
	Sp      source.Span
}

// UseItem is one name inside a selective use-list, with an optional alias.
type UseItem struct {
	Name  string
	Alias string // empty if not aliased
}

func (u *UseDecl) String() string {
	pub := ""
	if u.Vis == Public {
		pub = "pub "
	}
	path := strings.Join(u.Path, "::")
	switch {
	case u.Glob:
		return fmt.Sprintf("%suse %s::*;", pub, path)
	case len(u.Items) > 0:
		items := make([]string, len(u.Items))
		for i, it := range u.Items {
			if it.Alias != "" {
				items[i] = fmt.Sprintf("%s as %s", it.Name, it.Alias)
			} else {
				items[i] = it.Name
			}
		}
		return fmt.Sprintf("%suse %s::{%s};", pub, path, strings.Join(items, ", "))
	default:
		return fmt.Sprintf("%suse %s;", pub, path)
	}
}
func (u *UseDecl) Span() source.Span { return u.Sp }

// Param is a function/method parameter.
type Param struct {
	Name    string
	Type    Type
	Mutable bool
	Sp      source.Span
}

func (p *Param) String() string {
	prefix := ""
	if p.Mutable {
		prefix = "mut "
	}
	if p.Type != nil {
		return fmt.Sprintf("%s%s: %s", prefix, p.Name, p.Type)
	}
	return prefix + p.Name
}

// TypeParam is a generic parameter with optional behavior/where bounds
// (spec.md §3 generics: `T: Comparable + Clone`).
type TypeParam struct {
	Name   string
	Bounds []string
	Sp     source.Span
}

func (t *TypeParam) String() string {
	if len(t.Bounds) == 0 {
		return t.Name
	}
	return fmt.Sprintf("%s: %s", t.Name, strings.Join(t.Bounds, " + "))
}

// FuncDecl is a free or associated function declaration.
type FuncDecl struct {
	Vis        Visibility
	Name       string
	TypeParams []*TypeParam
	Params     []*Param
	ReturnType Type // nil means unit
	IsAsync    bool
	IsExtern   bool // declared `extern func`, no body
	Body       *Block
	Sp         source.Span
}

func (f *FuncDecl) String() string {
	tp := ""
	if len(f.TypeParams) > 0 {
		names := make([]string, len(f.TypeParams))
		for i, t := range f.TypeParams {
			names[i] = t.String()
		}
		tp = fmt.Sprintf("[%s]", strings.Join(names, ", "))
	}
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	ret := ""
	if f.ReturnType != nil {
		ret = fmt.Sprintf(" -> %s", f.ReturnType)
	}
	head := fmt.Sprintf("%sfunc %s%s(%s)%s", f.Vis, f.Name, tp, strings.Join(params, ", "), ret)
	if f.Body == nil {
		return head + ";"
	}
	return head + " " + f.Body.String()
}
func (f *FuncDecl) Span() source.Span { return f.Sp }
func (f *FuncDecl) declNode()         {}
func (f *FuncDecl) stmtNode()         {}

// StructField is a field in a struct declaration.
type StructField struct {
	Vis  Visibility
	Name string
	Type Type
	Sp   source.Span
}

// StructDecl declares a struct type (spec.md §3 types).
type StructDecl struct {
	Vis        Visibility
	Name       string
	TypeParams []*TypeParam
	Fields     []*StructField
	Sp         source.Span
}

func (s *StructDecl) String() string {
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = fmt.Sprintf("%s%s: %s", f.Vis, f.Name, f.Type)
	}
	return fmt.Sprintf("%sstruct %s { %s }", s.Vis, s.Name, strings.Join(fields, ", "))
}
func (s *StructDecl) Span() source.Span { return s.Sp }
func (s *StructDecl) declNode()         {}
func (s *StructDecl) stmtNode()         {}

// EnumVariant is one variant of an enum, optionally carrying a tuple of
// payload types (tagged-union layout, spec.md §4.7).
type EnumVariant struct {
	Name   string
	Fields []Type
	Sp     source.Span
}

// EnumDecl declares a tagged-union enum type.
type EnumDecl struct {
	Vis        Visibility
	Name       string
	TypeParams []*TypeParam
	Variants   []*EnumVariant
	Sp         source.Span
}

func (e *EnumDecl) String() string {
	variants := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		if len(v.Fields) == 0 {
			variants[i] = v.Name
			continue
		}
		fields := make([]string, len(v.Fields))
		for j, f := range v.Fields {
			fields[j] = f.String()
		}
		variants[i] = fmt.Sprintf("%s(%s)", v.Name, strings.Join(fields, ", "))
	}
	return fmt.Sprintf("%senum %s { %s }", e.Vis, e.Name, strings.Join(variants, ", "))
}
func (e *EnumDecl) Span() source.Span { return e.Sp }
func (e *EnumDecl) declNode()         {}
func (e *EnumDecl) stmtNode()         {}

// BehaviorDecl declares a behavior (a trait-like
// interface bound usable in generic constraints): a set of method
// signatures, optionally with default bodies.
type BehaviorDecl struct {
	Vis     Visibility
	Name    string
	Extends []string // supertype behaviors
	Methods []*FuncDecl
	Sp      source.Span
}

func (b *BehaviorDecl) String() string {
	return fmt.Sprintf("%sbehavior %s { ... }", b.Vis, b.Name)
}
func (b *BehaviorDecl) Span() source.Span { return b.Sp }
func (b *BehaviorDecl) declNode()         {}
func (b *BehaviorDecl) stmtNode()         {}

// ImplDecl implements a behavior for a type, or adds an inherent impl
// block when Behavior is empty.
type ImplDecl struct {
	TypeParams []*TypeParam
	Behavior   string // empty for an inherent impl
	ForType    Type
	Methods    []*FuncDecl
	Sp         source.Span
}

func (i *ImplDecl) String() string {
	if i.Behavior != "" {
		return fmt.Sprintf("impl %s for %s { ... }", i.Behavior, i.ForType)
	}
	return fmt.Sprintf("impl %s { ... }", i.ForType)
}
func (i *ImplDecl) Span() source.Span { return i.Sp }
func (i *ImplDecl) declNode()         {}
func (i *ImplDecl) stmtNode()         {}

// ClassDecl declares a class in the OOP subsystem (spec.md §3 OOP
// rules): sealed/abstract modifiers, single inheritance via Extends,
// interface conformance via Implements.
type ClassDecl struct {
	Vis        Visibility
	Name       string
	TypeParams []*TypeParam
	Abstract   bool
	Sealed     bool
	Extends    string // empty if none
	Implements []string
	Fields     []*StructField
	Methods    []*MethodDecl
	Sp         source.Span
}

func (c *ClassDecl) String() string {
	mods := ""
	if c.Abstract {
		mods += "abstract "
	}
	if c.Sealed {
		mods += "sealed "
	}
	return fmt.Sprintf("%s%sclass %s { ... }", c.Vis, mods, c.Name)
}
func (c *ClassDecl) Span() source.Span { return c.Sp }
func (c *ClassDecl) declNode()         {}
func (c *ClassDecl) stmtNode()         {}

// MethodDecl is a class method, carrying the OOP dispatch modifiers
// virtual/override/final in addition to a FuncDecl's shape.
type MethodDecl struct {
	Vis        Visibility
	Name       string
	TypeParams []*TypeParam
	Params     []*Param
	ReturnType Type
	Abstract   bool // no body; must be in an abstract class
	Virtual    bool
	Override   bool
	Final      bool
	Body       *Block
	Sp         source.Span
}

func (m *MethodDecl) String() string {
	mods := ""
	for _, pair := range []struct {
		on   bool
		name string
	}{{m.Abstract, "abstract "}, {m.Virtual, "virtual "}, {m.Override, "override "}, {m.Final, "final "}} {
		if pair.on {
			mods += pair.name
		}
	}
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.String()
	}
	ret := ""
	if m.ReturnType != nil {
		ret = fmt.Sprintf(" -> %s", m.ReturnType)
	}
	head := fmt.Sprintf("%s%sfunc %s(%s)%s", m.Vis, mods, m.Name, strings.Join(params, ", "), ret)
	if m.Body == nil {
		return head + ";"
	}
	return head + " " + m.Body.String()
}
func (m *MethodDecl) Span() source.Span { return m.Sp }

// InterfaceDecl declares an OOP interface (method signatures only, no
// fields), distinct from a generic-constraint Behavior.
type InterfaceDecl struct {
	Vis     Visibility
	Name    string
	Extends []string
	Methods []*MethodDecl
	Sp      source.Span
}

func (i *InterfaceDecl) String() string {
	return fmt.Sprintf("%sinterface %s { ... }", i.Vis, i.Name)
}
func (i *InterfaceDecl) Span() source.Span { return i.Sp }
func (i *InterfaceDecl) declNode()         {}
func (i *InterfaceDecl) stmtNode()         {}

// TypeAliasDecl declares `type Name = Type;`.
type TypeAliasDecl struct {
	Vis        Visibility
	Name       string
	TypeParams []*TypeParam
	Target     Type
	Sp         source.Span
}

func (t *TypeAliasDecl) String() string {
	return fmt.Sprintf("%stype %s = %s;", t.Vis, t.Name, t.Target)
}
func (t *TypeAliasDecl) Span() source.Span { return t.Sp }
func (t *TypeAliasDecl) declNode()         {}
func (t *TypeAliasDecl) stmtNode()         {}

// ConstDecl declares a module-level compile-time constant.
type ConstDecl struct {
	Vis   Visibility
	Name  string
	Type  Type // optional
	Value Expr
	Sp    source.Span
}

func (c *ConstDecl) String() string {
	return fmt.Sprintf("%sconst %s = %s;", c.Vis, c.Name, c.Value)
}
func (c *ConstDecl) Span() source.Span { return c.Sp }
func (c *ConstDecl) declNode()         {}
func (c *ConstDecl) stmtNode()         {}

// --- Statements ---

// LetStmt binds a (possibly mutable) local variable.
type LetStmt struct {
	Name    string
	Mutable bool
	Type    Type // optional
	Value   Expr
	Sp      source.Span
}

func (l *LetStmt) String() string {
	mut := ""
	if l.Mutable {
		mut = "mut "
	}
	return fmt.Sprintf("let %s%s = %s;", mut, l.Name, l.Value)
}
func (l *LetStmt) Span() source.Span { return l.Sp }
func (l *LetStmt) stmtNode()         {}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	X  Expr
	Sp source.Span
}

func (e *ExprStmt) String() string   { return e.X.String() + ";" }
func (e *ExprStmt) Span() source.Span { return e.Sp }
func (e *ExprStmt) stmtNode()        {}

// ReturnStmt returns a value (or nothing) from a function.
type ReturnStmt struct {
	Value Expr // nil for bare `return;`
	Sp    source.Span
}

func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", r.Value)
}
func (r *ReturnStmt) Span() source.Span { return r.Sp }
func (r *ReturnStmt) stmtNode()         {}

// BreakStmt / ContinueStmt exit or restart the nearest enclosing loop.
type BreakStmt struct{ Sp source.Span }

func (b *BreakStmt) String() string   { return "break;" }
func (b *BreakStmt) Span() source.Span { return b.Sp }
func (b *BreakStmt) stmtNode()        {}

type ContinueStmt struct{ Sp source.Span }

func (c *ContinueStmt) String() string   { return "continue;" }
func (c *ContinueStmt) Span() source.Span { return c.Sp }
func (c *ContinueStmt) stmtNode()        {}

// WhileStmt is a condition-first loop.
type WhileStmt struct {
	Cond Expr
	Body *Block
	Sp   source.Span
}

func (w *WhileStmt) String() string   { return fmt.Sprintf("while %s %s", w.Cond, w.Body) }
func (w *WhileStmt) Span() source.Span { return w.Sp }
func (w *WhileStmt) stmtNode()        {}

// LoopStmt is an unconditional loop, exited only via break.
type LoopStmt struct {
	Body *Block
	Sp   source.Span
}

func (l *LoopStmt) String() string   { return "loop " + l.Body.String() }
func (l *LoopStmt) Span() source.Span { return l.Sp }
func (l *LoopStmt) stmtNode()        {}

// ForStmt iterates Pattern over Iterable.
type ForStmt struct {
	Binding  Pattern
	Iterable Expr
	Body     *Block
	Sp       source.Span
}

func (f *ForStmt) String() string {
	return fmt.Sprintf("for %s in %s %s", f.Binding, f.Iterable, f.Body)
}
func (f *ForStmt) Span() source.Span { return f.Sp }
func (f *ForStmt) stmtNode()        {}

// Block is a brace-delimited statement sequence; its optional trailing
// expression (no semicolon) is the block's value.
type Block struct {
	Stmts []Stmt
	Tail  Expr // nil if the block has no tail expression
	Sp    source.Span
}

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, s := range b.Stmts {
		sb.WriteString(s.String())
		sb.WriteString(" ")
	}
	if b.Tail != nil {
		sb.WriteString(b.Tail.String())
		sb.WriteString(" ")
	}
	sb.WriteString("}")
	return sb.String()
}
func (b *Block) Span() source.Span { return b.Sp }
func (b *Block) exprNode()         {}
func (b *Block) stmtNode()         {}

// --- Expressions ---

// Ident is a name reference.
type Ident struct {
	Name string
	Sp   source.Span
}

func (i *Ident) String() string   { return i.Name }
func (i *Ident) Span() source.Span { return i.Sp }
func (i *Ident) exprNode()        {}
func (i *Ident) patternNode()     {}

// IntLit, FloatLit, StringLit, CharLit, BoolLit are literal expressions.
type IntLit struct {
	Value  int64
	Suffix string
	Sp     source.Span
}

func (l *IntLit) String() string   { return fmt.Sprintf("%d%s", l.Value, l.Suffix) }
func (l *IntLit) Span() source.Span { return l.Sp }
func (l *IntLit) exprNode()        {}
func (l *IntLit) patternNode()     {}

type FloatLit struct {
	Value  float64
	Suffix string
	Sp     source.Span
}

func (l *FloatLit) String() string   { return fmt.Sprintf("%g%s", l.Value, l.Suffix) }
func (l *FloatLit) Span() source.Span { return l.Sp }
func (l *FloatLit) exprNode()        {}

type StringLit struct {
	Value string
	Sp    source.Span
}

func (l *StringLit) String() string   { return fmt.Sprintf("%q", l.Value) }
func (l *StringLit) Span() source.Span { return l.Sp }
func (l *StringLit) exprNode()        {}
func (l *StringLit) patternNode()     {}

// InterpString is a string with embedded `${expr}` interpolations.
type InterpString struct {
	Parts []string // literal segments, len(Parts) == len(Exprs)+1
	Exprs []Expr
	Sp    source.Span
}

func (l *InterpString) String() string { return "<interp-string>" }
func (l *InterpString) Span() source.Span { return l.Sp }
func (l *InterpString) exprNode()      {}

type CharLit struct {
	Value rune
	Sp    source.Span
}

func (l *CharLit) String() string   { return fmt.Sprintf("%q", l.Value) }
func (l *CharLit) Span() source.Span { return l.Sp }
func (l *CharLit) exprNode()        {}
func (l *CharLit) patternNode()     {}

type BoolLit struct {
	Value bool
	Sp    source.Span
}

func (l *BoolLit) String() string   { return fmt.Sprintf("%t", l.Value) }
func (l *BoolLit) Span() source.Span { return l.Sp }
func (l *BoolLit) exprNode()        {}
func (l *BoolLit) patternNode()     {}

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	Left, Right Expr
	Op          string
	Sp          source.Span
}

func (b *BinaryExpr) String() string   { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }
func (b *BinaryExpr) Span() source.Span { return b.Sp }
func (b *BinaryExpr) exprNode()        {}

// UnaryExpr is a prefix unary operator application.
type UnaryExpr struct {
	Op string
	X  Expr
	Sp source.Span
}

func (u *UnaryExpr) String() string   { return fmt.Sprintf("(%s%s)", u.Op, u.X) }
func (u *UnaryExpr) Span() source.Span { return u.Sp }
func (u *UnaryExpr) exprNode()        {}

// AssignExpr is `lhs = rhs` or a compound assignment `lhs += rhs`.
type AssignExpr struct {
	Target Expr
	Op     string // "=", "+=", "-=", ...
	Value  Expr
	Sp     source.Span
}

func (a *AssignExpr) String() string   { return fmt.Sprintf("%s %s %s", a.Target, a.Op, a.Value) }
func (a *AssignExpr) Span() source.Span { return a.Sp }
func (a *AssignExpr) exprNode()        {}

// CallExpr applies Func to Args.
type CallExpr struct {
	Func Expr
	Args []Expr
	Sp   source.Span
}

func (c *CallExpr) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Func, strings.Join(args, ", "))
}
func (c *CallExpr) Span() source.Span { return c.Sp }
func (c *CallExpr) exprNode()        {}

// MethodCallExpr is `recv.Name(args)`, distinguished from plain field
// access plus a call so the type checker can resolve virtual dispatch.
type MethodCallExpr struct {
	Recv Expr
	Name string
	Args []Expr
	Sp   source.Span
}

func (m *MethodCallExpr) String() string {
	args := make([]string, len(m.Args))
	for i, a := range m.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s.%s(%s)", m.Recv, m.Name, strings.Join(args, ", "))
}
func (m *MethodCallExpr) Span() source.Span { return m.Sp }
func (m *MethodCallExpr) exprNode()        {}

// FieldExpr is `recv.name`.
type FieldExpr struct {
	Recv Expr
	Name string
	Sp   source.Span
}

func (f *FieldExpr) String() string   { return fmt.Sprintf("%s.%s", f.Recv, f.Name) }
func (f *FieldExpr) Span() source.Span { return f.Sp }
func (f *FieldExpr) exprNode()        {}

// IndexExpr is `recv[index]`.
type IndexExpr struct {
	Recv  Expr
	Index Expr
	Sp    source.Span
}

func (i *IndexExpr) String() string   { return fmt.Sprintf("%s[%s]", i.Recv, i.Index) }
func (i *IndexExpr) Span() source.Span { return i.Sp }
func (i *IndexExpr) exprNode()        {}

// CastExpr is `expr as Type`.
type CastExpr struct {
	X    Expr
	To   Type
	Sp   source.Span
}

func (c *CastExpr) String() string   { return fmt.Sprintf("(%s as %s)", c.X, c.To) }
func (c *CastExpr) Span() source.Span { return c.Sp }
func (c *CastExpr) exprNode()        {}

// RefExpr is `&expr` or `&mut expr`, producing a borrow.
type RefExpr struct {
	Mutable bool
	X       Expr
	Sp      source.Span
}

func (r *RefExpr) String() string {
	if r.Mutable {
		return fmt.Sprintf("&mut %s", r.X)
	}
	return fmt.Sprintf("&%s", r.X)
}
func (r *RefExpr) Span() source.Span { return r.Sp }
func (r *RefExpr) exprNode()        {}

// StructLit constructs a struct/class value: `Name { field: expr, ... }`.
type StructLit struct {
	TypeName string
	Fields   []*FieldInit
	Sp       source.Span
}

type FieldInit struct {
	Name  string
	Value Expr
}

func (s *StructLit) String() string {
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = fmt.Sprintf("%s: %s", f.Name, f.Value)
	}
	return fmt.Sprintf("%s { %s }", s.TypeName, strings.Join(fields, ", "))
}
func (s *StructLit) Span() source.Span { return s.Sp }
func (s *StructLit) exprNode()        {}

// ArrayLit is a `[e1, e2, ...]` literal.
type ArrayLit struct {
	Elements []Expr
	Sp       source.Span
}

func (a *ArrayLit) String() string {
	elems := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
}
func (a *ArrayLit) Span() source.Span { return a.Sp }
func (a *ArrayLit) exprNode()        {}

// TupleLit is a `(e1, e2, ...)` literal.
type TupleLit struct {
	Elements []Expr
	Sp       source.Span
}

func (t *TupleLit) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}
func (t *TupleLit) Span() source.Span { return t.Sp }
func (t *TupleLit) exprNode()        {}

// IfExpr is a branching expression; Else may be nil, another IfExpr
// (for `else if`), or a Block.
type IfExpr struct {
	Cond Expr
	Then *Block
	Else Expr // *Block, *IfExpr, or nil
	Sp   source.Span
}

func (i *IfExpr) String() string {
	if i.Else == nil {
		return fmt.Sprintf("if %s %s", i.Cond, i.Then)
	}
	return fmt.Sprintf("if %s %s else %s", i.Cond, i.Then, i.Else)
}
func (i *IfExpr) Span() source.Span { return i.Sp }
func (i *IfExpr) exprNode()        {}

// WhenExpr is a `when subject { pattern => body, ... }` pattern match.
type WhenExpr struct {
	Subject Expr
	Arms    []*WhenArm
	Sp      source.Span
}

type WhenArm struct {
	Pattern Pattern
	Guard   Expr // optional
	Body    Expr
	Sp      source.Span
}

func (w *WhenExpr) String() string {
	arms := make([]string, len(w.Arms))
	for i, a := range w.Arms {
		arms[i] = fmt.Sprintf("%s => %s", a.Pattern, a.Body)
	}
	return fmt.Sprintf("when %s { %s }", w.Subject, strings.Join(arms, ", "))
}
func (w *WhenExpr) Span() source.Span { return w.Sp }
func (w *WhenExpr) exprNode()        {}

// AwaitExpr awaits an async call.
type AwaitExpr struct {
	X  Expr
	Sp source.Span
}

func (a *AwaitExpr) String() string   { return fmt.Sprintf("await %s", a.X) }
func (a *AwaitExpr) Span() source.Span { return a.Sp }
func (a *AwaitExpr) exprNode()        {}

// TryExpr is the `try expr` early-return-on-error form.
type TryExpr struct {
	X  Expr
	Sp source.Span
}

func (t *TryExpr) String() string   { return fmt.Sprintf("try %s", t.X) }
func (t *TryExpr) Span() source.Span { return t.Sp }
func (t *TryExpr) exprNode()        {}

// SelfExpr is the receiver reference inside a method body.
type SelfExpr struct{ Sp source.Span }

func (s *SelfExpr) String() string   { return "self" }
func (s *SelfExpr) Span() source.Span { return s.Sp }
func (s *SelfExpr) exprNode()        {}

// BadExpr is an error-recovery placeholder produced when the parser
// cannot make sense of a token sequence; it lets parsing continue past
// a malformed expression instead of aborting the whole file.
type BadExpr struct {
	Msg string
	Sp  source.Span
}

func (b *BadExpr) String() string   { return fmt.Sprintf("<bad: %s>", b.Msg) }
func (b *BadExpr) Span() source.Span { return b.Sp }
func (b *BadExpr) exprNode()        {}

// --- Types ---

// NamedType is a simple or generic-instantiated type reference.
type NamedType struct {
	Name string
	Args []Type // generic instantiation arguments, e.g. List[I32]
	Sp   source.Span
}

func (n *NamedType) String() string {
	if len(n.Args) == 0 {
		return n.Name
	}
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s[%s]", n.Name, strings.Join(args, ", "))
}
func (n *NamedType) Span() source.Span { return n.Sp }
func (n *NamedType) typeNode()        {}

// RefType is `&T` or `&mut T`.
type RefType struct {
	Mutable bool
	Elem    Type
	Sp      source.Span
}

func (r *RefType) String() string {
	if r.Mutable {
		return fmt.Sprintf("&mut %s", r.Elem)
	}
	return fmt.Sprintf("&%s", r.Elem)
}
func (r *RefType) Span() source.Span { return r.Sp }
func (r *RefType) typeNode()        {}

// ArrayType is `[T]`.
type ArrayType struct {
	Elem Type
	Sp   source.Span
}

func (a *ArrayType) String() string   { return fmt.Sprintf("[%s]", a.Elem) }
func (a *ArrayType) Span() source.Span { return a.Sp }
func (a *ArrayType) typeNode()        {}

// TupleType is `(T1, T2, ...)`.
type TupleType struct {
	Elements []Type
	Sp       source.Span
}

func (t *TupleType) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}
func (t *TupleType) Span() source.Span { return t.Sp }
func (t *TupleType) typeNode()        {}

// FuncType is a first-class function type `(T1, T2) -> R`.
type FuncType struct {
	Params []Type
	Return Type
	Sp     source.Span
}

func (f *FuncType) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), f.Return)
}
func (f *FuncType) Span() source.Span { return f.Sp }
func (f *FuncType) typeNode()        {}

// DynType is `dyn Behavior`, a dynamically-dispatched existential.
type DynType struct {
	Behavior string
	Sp       source.Span
}

func (d *DynType) String() string   { return fmt.Sprintf("dyn %s", d.Behavior) }
func (d *DynType) Span() source.Span { return d.Sp }
func (d *DynType) typeNode()        {}

// SelfType is the `Self` type inside a behavior/interface/impl body.
type SelfType struct{ Sp source.Span }

func (s *SelfType) String() string   { return "Self" }
func (s *SelfType) Span() source.Span { return s.Sp }
func (s *SelfType) typeNode()        {}

// --- Patterns ---

// WildcardPattern matches anything and binds nothing: `_`.
type WildcardPattern struct{ Sp source.Span }

func (w *WildcardPattern) String() string   { return "_" }
func (w *WildcardPattern) Span() source.Span { return w.Sp }
func (w *WildcardPattern) patternNode()     {}

// BindPattern binds the scrutinee to Name, optionally matched against
// a sub-pattern (`name @ pattern`).
type BindPattern struct {
	Name string
	Sub  Pattern // nil for a plain binding
	Sp   source.Span
}

func (b *BindPattern) String() string {
	if b.Sub == nil {
		return b.Name
	}
	return fmt.Sprintf("%s @ %s", b.Name, b.Sub)
}
func (b *BindPattern) Span() source.Span { return b.Sp }
func (b *BindPattern) patternNode()     {}

// VariantPattern destructures an enum variant: `Name(p1, p2)`.
type VariantPattern struct {
	Name     string
	Elements []Pattern
	Sp       source.Span
}

func (v *VariantPattern) String() string {
	if len(v.Elements) == 0 {
		return v.Name
	}
	elems := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("%s(%s)", v.Name, strings.Join(elems, ", "))
}
func (v *VariantPattern) Span() source.Span { return v.Sp }
func (v *VariantPattern) patternNode()     {}

// StructPattern destructures a struct's named fields.
type StructPattern struct {
	TypeName string
	Fields   []*FieldPattern
	HasRest  bool // trailing `..`
	Sp       source.Span
}

type FieldPattern struct {
	Name    string
	Pattern Pattern
}

func (s *StructPattern) String() string {
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = fmt.Sprintf("%s: %s", f.Name, f.Pattern)
	}
	if s.HasRest {
		fields = append(fields, "..")
	}
	return fmt.Sprintf("%s { %s }", s.TypeName, strings.Join(fields, ", "))
}
func (s *StructPattern) Span() source.Span { return s.Sp }
func (s *StructPattern) patternNode()     {}

// TuplePattern destructures a tuple.
type TuplePattern struct {
	Elements []Pattern
	Sp       source.Span
}

func (t *TuplePattern) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}
func (t *TuplePattern) Span() source.Span { return t.Sp }
func (t *TuplePattern) patternNode()     {}

// RangePattern matches an inclusive or exclusive numeric range.
type RangePattern struct {
	Low, High Expr
	Inclusive bool
	Sp        source.Span
}

func (r *RangePattern) String() string {
	op := ".."
	if r.Inclusive {
		op = "..="
	}
	return fmt.Sprintf("%s%s%s", r.Low, op, r.High)
}
func (r *RangePattern) Span() source.Span { return r.Sp }
func (r *RangePattern) patternNode()     {}

// OrPattern matches if any alternative matches: `p1 | p2`.
type OrPattern struct {
	Alternatives []Pattern
	Sp           source.Span
}

func (o *OrPattern) String() string {
	alts := make([]string, len(o.Alternatives))
	for i, a := range o.Alternatives {
		alts[i] = a.String()
	}
	return strings.Join(alts, " | ")
}
func (o *OrPattern) Span() source.Span { return o.Sp }
func (o *OrPattern) patternNode()     {}
