package types

import (
	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/errors"
	"github.com/tml-lang/tmlc/internal/module"
	"github.com/tml-lang/tmlc/internal/source"
)

// Diagnostic code aliases, kept local so the rest of this package reads
// as taxonomy-by-meaning rather than taxonomy-by-prefix.
const (
	codeTypeMismatch     = errors.T001
	codeUnboundSymbol    = errors.T002
	codeMissingBehavior  = errors.T003
	codeNonExhaustive    = errors.T004
	codeReservedName     = errors.T005
	codeSealedExtended   = errors.T006
	codeAbstractMisplace = errors.T007
	codeOverrideMismatch = errors.T008
	codeFinalOverridden  = errors.T009
	codeVisibility       = errors.T010
	codeAmbiguousInfer   = errors.T011

	codeUseAfterMove    = errors.B001
	codeConflictingMut  = errors.B002

	codeImportConflict  = errors.R003
	codeSymbolNotExport = errors.R004
)

// Checker processes one module's AST through the four phases spec.md
// §4.6 describes: imports, declaration registration, signatures, then
// bodies.
type Checker struct {
	Report   *errors.Report
	Registry *module.Registry
	Env      *Env

	mod *module.Module
}

// NewChecker creates a checker seeded with a fresh builtins snapshot.
func NewChecker(reg *module.Registry) *Checker {
	return &Checker{Report: &errors.Report{}, Registry: reg, Env: Snapshot()}
}

// Check runs all four phases over mod and returns the accumulated
// report. It is safe to call once per Checker; construct a new Checker
// (and a new Env snapshot) per module.
func (c *Checker) Check(mod *module.Module) *errors.Report {
	c.mod = mod
	c.checkImports()
	c.registerDeclarations()
	c.buildSignatures()
	c.checkBodies()
	c.Report.Sort()
	return c.Report
}

// noSpan anchors diagnostics raised from registry/env-level checks
// (rather than from walking a specific AST node) until finer per-import
// span plumbing is threaded through module.Import.
var noSpan source.Span

// phase 1: imports.
func (c *Checker) checkImports() {
	for local, imp := range c.mod.Imports {
		target := c.Registry.Get(imp.ModulePath)
		if target == nil {
			c.Report.Errorf(errors.R001, noSpan, "import %q: module %q not found", local, imp.ModulePath)
			continue
		}
		if imp.OriginalName == "*" {
			continue // glob imports were already expanded into individual bindings by the loader
		}
		if _, ok := target.Exports()[imp.OriginalName]; !ok {
			c.Report.Errorf(codeSymbolNotExport, noSpan, "%q is not exported by module %q", imp.OriginalName, imp.ModulePath)
		}
	}
	for name, conflicts := range c.mod.ImportConflicts {
		if len(conflicts) > 1 {
			origins := make([]string, len(conflicts))
			for i, imp := range conflicts {
				origins[i] = imp.ModulePath + "::" + imp.OriginalName
			}
			c.Report.Errorf(codeImportConflict, noSpan, "%q is ambiguous: bound by %v", name, origins)
		}
	}
}

// phase 2: declaration registration, plus OOP constraint validation.
func (c *Checker) registerDeclarations() {
	for _, s := range c.mod.Structs {
		c.registerStruct(s)
	}
	for _, en := range c.mod.Enums {
		c.registerEnum(en)
	}
	for _, b := range c.mod.Behaviors {
		c.registerBehavior(b)
	}
	for name, a := range c.mod.TypeAliases {
		sc := newScope(a.TypeParams)
		target, err := c.resolveType(sc, a.Target)
		if err != nil {
			c.Report.Errorf(codeUnboundSymbol, a.Sp, "type alias %s: %v", name, err)
		}
		c.Env.Aliases[name] = target
	}
	for name, k := range c.mod.Constants {
		sc := scope{}
		t, err := c.resolveType(sc, k.Type)
		if err != nil {
			c.Report.Errorf(codeUnboundSymbol, k.Sp, "constant %s: %v", name, err)
		}
		c.Env.Constants[name] = t
	}
	for _, cl := range c.mod.Classes {
		c.registerClass(cl)
	}
	for _, iface := range c.mod.Interfaces {
		c.registerInterface(iface)
	}
	c.checkOOPConstraints()
}

func (c *Checker) registerStruct(s *ast.StructDecl) {
	sc := newScope(s.TypeParams)
	info := &StructInfo{
		Name:       s.Name,
		TypeParams: c.typeParamInfos(s.TypeParams),
		Fields:     map[string]*Type{},
		FieldVis:   map[string]bool{},
	}
	for _, f := range s.Fields {
		t, err := c.resolveType(sc, f.Type)
		if err != nil {
			c.Report.Errorf(codeUnboundSymbol, f.Sp, "field %s.%s: %v", s.Name, f.Name, err)
		}
		info.FieldOrder = append(info.FieldOrder, f.Name)
		info.Fields[f.Name] = t
		info.FieldVis[f.Name] = f.Vis == ast.Public
	}
	if err := c.Env.RegisterStruct(info); err != nil {
		c.Report.Errorf(codeReservedName, s.Sp, "%v", err)
	}
}

func (c *Checker) registerEnum(e *ast.EnumDecl) {
	sc := newScope(e.TypeParams)
	info := &EnumInfo{
		Name:       e.Name,
		TypeParams: c.typeParamInfos(e.TypeParams),
		Variants:   map[string][]*Type{},
	}
	for _, v := range e.Variants {
		payload := make([]*Type, len(v.Fields))
		for i, f := range v.Fields {
			t, err := c.resolveType(sc, f)
			if err != nil {
				c.Report.Errorf(codeUnboundSymbol, v.Sp, "variant %s::%s: %v", e.Name, v.Name, err)
			}
			payload[i] = t
		}
		info.VariantOrder = append(info.VariantOrder, v.Name)
		info.Variants[v.Name] = payload
	}
	if err := c.Env.RegisterEnum(info); err != nil {
		c.Report.Errorf(codeReservedName, e.Sp, "%v", err)
	}
}

func (c *Checker) registerBehavior(b *ast.BehaviorDecl) {
	info := &BehaviorInfo{
		Name:       b.Name,
		Extends:    b.Extends,
		Methods:    map[string]*FuncSig{},
		HasDefault: map[string]bool{},
	}
	for _, m := range b.Methods {
		sig := c.buildFuncSig(m)
		info.Methods[m.Name] = sig
		info.HasDefault[m.Name] = m.Body != nil
	}
	if err := c.Env.RegisterBehavior(info); err != nil {
		c.Report.Errorf(codeReservedName, b.Sp, "%v", err)
	}
}

func (c *Checker) registerClass(cl *ast.ClassDecl) {
	sc := newScope(cl.TypeParams)
	info := &ClassInfo{
		Name:       cl.Name,
		Abstract:   cl.Abstract,
		Sealed:     cl.Sealed,
		Extends:    cl.Extends,
		Implements: cl.Implements,
		Fields:     map[string]*Type{},
		FieldVis:   map[string]bool{},
		Methods:    map[string]*MethodInfo{},
	}
	for _, f := range cl.Fields {
		t, err := c.resolveType(sc, f.Type)
		if err != nil {
			c.Report.Errorf(codeUnboundSymbol, f.Sp, "field %s.%s: %v", cl.Name, f.Name, err)
		}
		info.Fields[f.Name] = t
		info.FieldVis[f.Name] = f.Vis == ast.Public
	}
	for _, m := range cl.Methods {
		info.Methods[m.Name] = &MethodInfo{
			Sig:      c.buildMethodSig(m),
			Abstract: m.Abstract,
			Virtual:  m.Virtual,
			Override: m.Override,
			Final:    m.Final,
		}
	}
	if err := c.Env.RegisterClass(info); err != nil {
		c.Report.Errorf(codeReservedName, cl.Sp, "%v", err)
	}
}

func (c *Checker) registerInterface(i *ast.InterfaceDecl) {
	info := &InterfaceInfo{Name: i.Name, Extends: i.Extends, Methods: map[string]*FuncSig{}}
	for _, m := range i.Methods {
		info.Methods[m.Name] = c.buildMethodSig(m)
	}
	if err := c.Env.RegisterInterface(info); err != nil {
		c.Report.Errorf(codeReservedName, i.Sp, "%v", err)
	}
}

func (c *Checker) buildFuncSig(f *ast.FuncDecl) *FuncSig {
	sc := newScope(f.TypeParams)
	sig := &FuncSig{Name: f.Name, TypeParams: c.typeParamInfos(f.TypeParams), IsExtern: f.IsExtern}
	for _, p := range f.Params {
		t, err := c.resolveType(sc, p.Type)
		if err != nil {
			c.Report.Errorf(codeUnboundSymbol, p.Sp, "parameter %s of %s: %v", p.Name, f.Name, err)
		}
		sig.Params = append(sig.Params, t)
		sig.ParamNames = append(sig.ParamNames, p.Name)
	}
	ret, err := c.resolveType(sc, f.ReturnType)
	if err != nil {
		c.Report.Errorf(codeUnboundSymbol, f.Sp, "return type of %s: %v", f.Name, err)
	}
	sig.Return = ret
	return sig
}

func (c *Checker) buildMethodSig(m *ast.MethodDecl) *FuncSig {
	sc := newScope(m.TypeParams)
	sig := &FuncSig{Name: m.Name, TypeParams: c.typeParamInfos(m.TypeParams)}
	for _, p := range m.Params {
		t, err := c.resolveType(sc, p.Type)
		if err != nil {
			c.Report.Errorf(codeUnboundSymbol, p.Sp, "parameter %s of %s: %v", p.Name, m.Name, err)
		}
		sig.Params = append(sig.Params, t)
		sig.ParamNames = append(sig.ParamNames, p.Name)
	}
	ret, err := c.resolveType(sc, m.ReturnType)
	if err != nil {
		c.Report.Errorf(codeUnboundSymbol, m.Sp, "return type of %s: %v", m.Name, err)
	}
	sig.Return = ret
	return sig
}

// phase 3: function signatures (free functions and impl methods).
func (c *Checker) buildSignatures() {
	for name, f := range c.mod.Functions {
		sig := c.buildFuncSig(f)
		if err := c.Env.RegisterFunction(sig); err != nil {
			c.Report.Errorf(codeReservedName, f.Sp, "%v", err)
		}
		_ = name
	}
	for key, m := range c.mod.ImplMethods {
		sig := c.buildFuncSig(m)
		sig.Name = key
		c.Env.Functions[key] = sig
	}
}

// phase 4: bodies.
func (c *Checker) checkBodies() {
	for name, f := range c.mod.Functions {
		if f.Body == nil {
			continue // extern declaration
		}
		sig := c.Env.Functions[name]
		c.checkFuncBody(f, sig)
	}
	for key, m := range c.mod.ImplMethods {
		if m.Body == nil {
			continue
		}
		sig := c.Env.Functions[key]
		c.checkFuncBody(m, sig)
	}
}

func (c *Checker) checkFuncBody(f *ast.FuncDecl, sig *FuncSig) {
	fc := &funcChecker{
		Checker: c,
		sig:     sig,
		locals:  map[string]*Type{},
		moved:   map[string]bool{},
	}
	for i, name := range sig.ParamNames {
		fc.locals[name] = sig.Params[i]
	}
	got := fc.checkBlock(f.Body)
	if sig.Return != nil && got != nil && got != Unit && !got.Equal(sig.Return) && got.Kind != KindUnknown {
		c.Report.Errorf(codeTypeMismatch, f.Sp, "function %s: body type %s does not match declared return type %s", f.Name, got, sig.Return)
	}
}
