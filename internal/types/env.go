package types

import (
	"fmt"
	"sync"

	"github.com/tml-lang/tmlc/internal/module"
)

// TypeParamInfo mirrors ast.TypeParam once its bound names have been
// validated against known behaviors.
type TypeParamInfo struct {
	Name   string
	Bounds []string
}

// FuncSig is a checked, fully-resolved function signature.
type FuncSig struct {
	Name       string
	TypeParams []TypeParamInfo
	Params     []*Type
	ParamNames []string
	Return     *Type
	IsExtern   bool
}

// StructInfo is a checked struct shape: field name -> resolved type,
// plus the declaration order exhaustiveness/IR ordering need.
type StructInfo struct {
	Name       string
	TypeParams []TypeParamInfo
	FieldOrder []string
	Fields     map[string]*Type
	FieldVis   map[string]bool // true = public
}

// EnumInfo is a checked enum shape: ordered variants (tag = index) with
// their payload types.
type EnumInfo struct {
	Name         string
	TypeParams   []TypeParamInfo
	VariantOrder []string
	Variants     map[string][]*Type
}

// BehaviorInfo is a checked behavior: its method signatures and which
// ones carry a default body.
type BehaviorInfo struct {
	Name        string
	Extends     []string
	Methods     map[string]*FuncSig
	HasDefault  map[string]bool
}

// ClassInfo is a checked OOP class: modifiers, inheritance edges, and
// method modifiers needed for override/final/abstract validation.
type ClassInfo struct {
	Name       string
	Abstract   bool
	Sealed     bool
	Extends    string
	Implements []string
	Fields     map[string]*Type
	FieldVis   map[string]bool
	Methods    map[string]*MethodInfo
}

// MethodInfo carries a class method's OOP dispatch modifiers alongside
// its signature, for override/final/abstract validation.
type MethodInfo struct {
	Sig      *FuncSig
	Abstract bool
	Virtual  bool
	Override bool
	Final    bool
}

// InterfaceInfo is a checked OOP interface: method signatures only.
type InterfaceInfo struct {
	Name    string
	Extends []string
	Methods map[string]*FuncSig
}

// Env holds, per compilation unit, every registered type/function/
// behavior/class/constant plus the flattened imports table and its
// conflict set (spec.md §4.5). A fresh Env is produced per module via
// Snapshot, seeded from the process-wide builtins base.
type Env struct {
	Structs    map[string]*StructInfo
	Enums      map[string]*EnumInfo
	Behaviors  map[string]*BehaviorInfo
	Classes    map[string]*ClassInfo
	Interfaces map[string]*InterfaceInfo
	Functions  map[string]*FuncSig
	Constants  map[string]*Type
	Aliases    map[string]*Type

	Imports         map[string]module.Import
	ImportConflicts map[string][]module.Import

	reserved map[string]bool
}

func newEnv() *Env {
	return &Env{
		Structs:         map[string]*StructInfo{},
		Enums:           map[string]*EnumInfo{},
		Behaviors:       map[string]*BehaviorInfo{},
		Classes:         map[string]*ClassInfo{},
		Interfaces:      map[string]*InterfaceInfo{},
		Functions:       map[string]*FuncSig{},
		Constants:       map[string]*Type{},
		Aliases:         map[string]*Type{},
		Imports:         map[string]module.Import{},
		ImportConflicts: map[string][]module.Import{},
		reserved:        map[string]bool{},
	}
}

// BuiltinBehaviors are the built-in generic-constraint behaviors every
// nominal type may conform to implicitly or explicitly; redefining one
// as a user behavior is a hard error (spec.md §4.5).
var BuiltinBehaviors = []string{"Clone", "Comparable", "Hash", "Show", "Default", "Drop"}

var (
	builtinsOnce sync.Once
	builtinsBase *Env
	builtinsMu   sync.Mutex
)

func buildBuiltins() {
	env := newEnv()
	for _, p := range PrimitiveNames {
		env.reserved[p] = true
	}
	for _, b := range BuiltinBehaviors {
		env.reserved[b] = true
		env.Behaviors[b] = &BehaviorInfo{Name: b, Methods: map[string]*FuncSig{}, HasDefault: map[string]bool{}}
	}
	builtinsBase = env
}

// baseEnv returns the process-wide builtins environment, built at most
// once per process.
func baseEnv() *Env {
	builtinsOnce.Do(buildBuiltins)
	return builtinsBase
}

// Snapshot returns a fresh Env whose tables are pre-populated with the
// base builtins, cloned under a mutex so concurrent per-module checks
// never observe a partially-built or mutated shared base (spec.md §4.5).
func Snapshot() *Env {
	builtinsMu.Lock()
	defer builtinsMu.Unlock()

	base := baseEnv()
	env := newEnv()
	for name := range base.reserved {
		env.reserved[name] = true
	}
	for name, b := range base.Behaviors {
		clone := *b
		clone.Methods = map[string]*FuncSig{}
		clone.HasDefault = map[string]bool{}
		for mn, ms := range b.Methods {
			clone.Methods[mn] = ms
		}
		for mn, hd := range b.HasDefault {
			clone.HasDefault[mn] = hd
		}
		env.Behaviors[name] = &clone
	}
	return env
}

// checkReserved returns a non-nil error if name collides with a
// primitive or built-in behavior (spec.md §4.5: "redefining a
// primitive or a built-in behavior is a hard error").
func (e *Env) checkReserved(name string) error {
	if e.reserved[name] {
		return fmt.Errorf("%q redefines a reserved primitive or built-in behavior name", name)
	}
	return nil
}

// RegisterStruct records s, rejecting redefinition of a reserved name
// or of an already-declared type in this unit.
func (e *Env) RegisterStruct(s *StructInfo) error {
	if err := e.checkReserved(s.Name); err != nil {
		return err
	}
	if e.declared(s.Name) {
		return fmt.Errorf("%q is already declared in this module", s.Name)
	}
	e.Structs[s.Name] = s
	return nil
}

// RegisterEnum records en, subject to the same reserved/duplicate checks.
func (e *Env) RegisterEnum(en *EnumInfo) error {
	if err := e.checkReserved(en.Name); err != nil {
		return err
	}
	if e.declared(en.Name) {
		return fmt.Errorf("%q is already declared in this module", en.Name)
	}
	e.Enums[en.Name] = en
	return nil
}

// RegisterBehavior records b, subject to the same reserved/duplicate checks.
func (e *Env) RegisterBehavior(b *BehaviorInfo) error {
	if err := e.checkReserved(b.Name); err != nil {
		return err
	}
	if _, ok := e.Behaviors[b.Name]; ok {
		return fmt.Errorf("%q is already declared in this module", b.Name)
	}
	e.Behaviors[b.Name] = b
	return nil
}

// RegisterClass records c, subject to the same reserved/duplicate checks.
func (e *Env) RegisterClass(c *ClassInfo) error {
	if err := e.checkReserved(c.Name); err != nil {
		return err
	}
	if e.declared(c.Name) {
		return fmt.Errorf("%q is already declared in this module", c.Name)
	}
	e.Classes[c.Name] = c
	return nil
}

// RegisterInterface records i, subject to the same reserved/duplicate checks.
func (e *Env) RegisterInterface(i *InterfaceInfo) error {
	if err := e.checkReserved(i.Name); err != nil {
		return err
	}
	if e.declared(i.Name) {
		return fmt.Errorf("%q is already declared in this module", i.Name)
	}
	e.Interfaces[i.Name] = i
	return nil
}

// RegisterFunction records fn, subject to the same reserved/duplicate
// checks (functions share the value namespace, not the type namespace,
// but still may not shadow a primitive constructor-like name).
func (e *Env) RegisterFunction(fn *FuncSig) error {
	if err := e.checkReserved(fn.Name); err != nil {
		return err
	}
	if _, ok := e.Functions[fn.Name]; ok {
		return fmt.Errorf("%q is already declared in this module", fn.Name)
	}
	e.Functions[fn.Name] = fn
	return nil
}

// declared reports whether name already names a struct/enum/class/
// interface/alias in this env (the shared type namespace).
func (e *Env) declared(name string) bool {
	_, ok := e.Structs[name]
	if ok {
		return true
	}
	_, ok = e.Enums[name]
	if ok {
		return true
	}
	_, ok = e.Classes[name]
	if ok {
		return true
	}
	_, ok = e.Interfaces[name]
	if ok {
		return true
	}
	_, ok = e.Aliases[name]
	return ok
}

// LookupType resolves a bare name against the struct, enum, class and
// interface tables and the primitive names, returning its TypeParamInfo
// list when generic (used when resolving an ast.NamedType's Args). Type
// aliases are not looked up.
func (e *Env) LookupType(name string) (typeParams []TypeParamInfo, ok bool) {
	if s, found := e.Structs[name]; found {
		return s.TypeParams, true
	}
	if en, found := e.Enums[name]; found {
		return en.TypeParams, true
	}
	if _, found := e.Classes[name]; found {
		return nil, true
	}
	if _, found := e.Interfaces[name]; found {
		return nil, true
	}
	if isPrimitiveName(name) {
		return nil, true
	}
	return nil, false
}
