// Package types implements the type environment and checker that
// process a loaded module's AST into semantically validated signatures
// and bodies (spec.md §4.5, §4.6).
package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the shape of a Type value.
type Kind int

const (
	KindUnit Kind = iota
	KindPrimitive
	KindNamed    // struct/enum/class/interface/type-alias, possibly generic
	KindTypeParam
	KindTuple
	KindArray
	KindFunc
	KindRef
	KindDyn
	KindSelfType
	KindUnknown // error-recovery placeholder; never reported as a mismatch twice
)

// Type is the checker's resolved representation of a TML type. It is
// compared structurally (Equal), not by identity, since the same named
// type may be resolved independently from different call sites.
type Type struct {
	Kind Kind

	Name string // primitive name, named-type name, or type-param name

	Args []*Type // generic instantiation args (Named), tuple elements (Tuple),
	// element type in Args[0] (Array), or param types (Func)

	ReturnType *Type // Func only
	Mutable    bool  // Ref only: &mut vs &
	Behavior   string // Dyn only: the dyn behavior name
}

var (
	Unit    = &Type{Kind: KindUnit, Name: "unit"}
	Unknown = &Type{Kind: KindUnknown, Name: "?"}
	Bool    = &Type{Kind: KindPrimitive, Name: "Bool"}
	Str     = &Type{Kind: KindPrimitive, Name: "Str"}
	Char    = &Type{Kind: KindPrimitive, Name: "Char"}
)

// PrimitiveNames are the built-in scalar types, reserved against
// redefinition (spec.md §4.5).
var PrimitiveNames = []string{
	"I8", "I16", "I32", "I64", "ISize",
	"U8", "U16", "U32", "U64", "USize",
	"F32", "F64", "Bool", "Char", "Str", "unit",
}

func isPrimitiveName(name string) bool {
	for _, p := range PrimitiveNames {
		if p == name {
			return true
		}
	}
	return false
}

// Primitive returns the canonical Type for a primitive name, or nil if
// name does not name a primitive.
func Primitive(name string) *Type {
	if !isPrimitiveName(name) {
		return nil
	}
	if name == "unit" {
		return Unit
	}
	return &Type{Kind: KindPrimitive, Name: name}
}

// Named constructs a nominal type reference, optionally generic.
func Named(name string, args ...*Type) *Type {
	return &Type{Kind: KindNamed, Name: name, Args: args}
}

// TypeParamRef constructs a reference to an in-scope generic parameter.
func TypeParamRef(name string) *Type {
	return &Type{Kind: KindTypeParam, Name: name}
}

// Ref constructs a reference type, `&T` or `&mut T`.
func Ref(elem *Type, mutable bool) *Type {
	return &Type{Kind: KindRef, Args: []*Type{elem}, Mutable: mutable}
}

// Array constructs `[T]`.
func Array(elem *Type) *Type {
	return &Type{Kind: KindArray, Args: []*Type{elem}}
}

// Tuple constructs a tuple type from its element types.
func Tuple(elems ...*Type) *Type {
	return &Type{Kind: KindTuple, Args: elems}
}

// Func constructs a function type.
func Func(params []*Type, ret *Type) *Type {
	return &Type{Kind: KindFunc, Args: params, ReturnType: ret}
}

// Dyn constructs `dyn Behavior`.
func Dyn(behavior string) *Type {
	return &Type{Kind: KindDyn, Behavior: behavior}
}

func (t *Type) String() string {
	if t == nil {
		return "?"
	}
	switch t.Kind {
	case KindUnit:
		return "unit"
	case KindPrimitive, KindTypeParam:
		return t.Name
	case KindUnknown:
		return "?"
	case KindSelfType:
		return "Self"
	case KindNamed:
		if len(t.Args) == 0 {
			return t.Name
		}
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s[%s]", t.Name, strings.Join(parts, ", "))
	case KindTuple:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
	case KindArray:
		return fmt.Sprintf("[%s]", t.Args[0])
	case KindFunc:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		ret := "unit"
		if t.ReturnType != nil {
			ret = t.ReturnType.String()
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), ret)
	case KindRef:
		if t.Mutable {
			return "&mut " + t.Args[0].String()
		}
		return "&" + t.Args[0].String()
	case KindDyn:
		return "dyn " + t.Behavior
	}
	return "?"
}

// Equal reports structural equality. KindUnknown is equal to nothing
// (including itself) so a prior error never masks a second, unrelated
// mismatch at the same position.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return false
	}
	if t.Kind == KindUnknown || other.Kind == KindUnknown {
		return false
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindUnit, KindSelfType:
		return true
	case KindPrimitive, KindTypeParam:
		return t.Name == other.Name
	case KindNamed:
		if t.Name != other.Name || len(t.Args) != len(other.Args) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Equal(other.Args[i]) {
				return false
			}
		}
		return true
	case KindTuple:
		if len(t.Args) != len(other.Args) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Equal(other.Args[i]) {
				return false
			}
		}
		return true
	case KindArray:
		return t.Args[0].Equal(other.Args[0])
	case KindFunc:
		if len(t.Args) != len(other.Args) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Equal(other.Args[i]) {
				return false
			}
		}
		if (t.ReturnType == nil) != (other.ReturnType == nil) {
			return false
		}
		return t.ReturnType == nil || t.ReturnType.Equal(other.ReturnType)
	case KindRef:
		return t.Mutable == other.Mutable && t.Args[0].Equal(other.Args[0])
	case KindDyn:
		return t.Behavior == other.Behavior
	}
	return false
}

// IsTriviallyDuplicable reports whether values of t may be used after a
// by-value move without an ownership error (spec.md §4.6): primitives
// and references never consume their binding.
func (t *Type) IsTriviallyDuplicable() bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case KindPrimitive, KindUnit, KindRef, KindFunc:
		return true
	}
	return false
}
