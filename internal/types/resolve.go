package types

import (
	"fmt"

	"github.com/tml-lang/tmlc/internal/ast"
)

// scope tracks the generic type-parameter names visible while resolving
// a signature or body, so a bare `T` resolves to KindTypeParam instead
// of an unbound named-type lookup.
type scope map[string]bool

func newScope(params []*ast.TypeParam) scope {
	s := make(scope, len(params))
	for _, p := range params {
		s[p.Name] = true
	}
	return s
}

// resolveType converts a parsed ast.Type into a checked *Type, given the
// in-scope generic parameters. It never returns a nil *Type: unresolved
// names produce Unknown plus an error so the caller can keep checking
// the rest of the signature/body instead of aborting.
func (c *Checker) resolveType(sc scope, t ast.Type) (*Type, error) {
	if t == nil {
		return Unit, nil
	}
	switch n := t.(type) {
	case *ast.NamedType:
		if sc[n.Name] {
			return TypeParamRef(n.Name), nil
		}
		if p := Primitive(n.Name); p != nil {
			return p, nil
		}
		if _, ok := c.Env.LookupType(n.Name); !ok {
			return Unknown, fmt.Errorf("unbound type %q", n.Name)
		}
		args := make([]*Type, len(n.Args))
		for i, a := range n.Args {
			resolved, err := c.resolveType(sc, a)
			if err != nil {
				return Unknown, err
			}
			args[i] = resolved
		}
		return Named(n.Name, args...), nil
	case *ast.RefType:
		elem, err := c.resolveType(sc, n.Elem)
		if err != nil {
			return Unknown, err
		}
		return Ref(elem, n.Mutable), nil
	case *ast.ArrayType:
		elem, err := c.resolveType(sc, n.Elem)
		if err != nil {
			return Unknown, err
		}
		return Array(elem), nil
	case *ast.TupleType:
		elems := make([]*Type, len(n.Elements))
		for i, e := range n.Elements {
			resolved, err := c.resolveType(sc, e)
			if err != nil {
				return Unknown, err
			}
			elems[i] = resolved
		}
		return Tuple(elems...), nil
	case *ast.FuncType:
		params := make([]*Type, len(n.Params))
		for i, p := range n.Params {
			resolved, err := c.resolveType(sc, p)
			if err != nil {
				return Unknown, err
			}
			params[i] = resolved
		}
		ret, err := c.resolveType(sc, n.Return)
		if err != nil {
			return Unknown, err
		}
		return Func(params, ret), nil
	case *ast.DynType:
		if _, ok := c.Env.Behaviors[n.Behavior]; !ok {
			return Unknown, fmt.Errorf("unbound behavior %q in dyn type", n.Behavior)
		}
		return Dyn(n.Behavior), nil
	case *ast.SelfType:
		return &Type{Kind: KindSelfType}, nil
	default:
		return Unknown, fmt.Errorf("unsupported type syntax %T", t)
	}
}

// typeParamInfos checks a declaration's generic parameter bounds
// against the known behavior set and returns the checked list.
func (c *Checker) typeParamInfos(params []*ast.TypeParam) []TypeParamInfo {
	out := make([]TypeParamInfo, 0, len(params))
	for _, p := range params {
		for _, b := range p.Bounds {
			if _, ok := c.Env.Behaviors[b]; !ok {
				c.Report.Errorf(codeUnboundSymbol, p.Sp, "type parameter %s bounded by unknown behavior %q", p.Name, b)
			}
		}
		out = append(out, TypeParamInfo{Name: p.Name, Bounds: p.Bounds})
	}
	return out
}
