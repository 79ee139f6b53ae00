package types

import (
	"github.com/tml-lang/tmlc/internal/ast"
)

// checkExhaustive validates a `when` expression against its scrutinee
// type per spec.md §4.6: every enum variant must be covered, either by
// name or by a wildcard/binding catch-all, with no duplicate coverage.
func (c *Checker) checkExhaustive(w *ast.WhenExpr, subject *Type) {
	if subject == nil || subject.Kind != KindNamed {
		return // non-enum scrutinees (tuples, primitives) are not exhaustiveness-checked
	}
	enum, ok := c.Env.Enums[subject.Name]
	if !ok {
		return // struct/class scrutinee: `when` there is a single-arm destructure, nothing to exhaust
	}

	covered := map[string]bool{}
	hasWildcard := false
	for _, arm := range w.Arms {
		name, isWildcard := variantCoverage(arm.Pattern)
		if isWildcard && arm.Guard == nil {
			hasWildcard = true
			continue
		}
		if isWildcard {
			continue // a guarded catch-all does not unconditionally cover the remaining variants
		}
		if name == "" {
			continue
		}
		if covered[name] {
			c.Report.Warnf(codeNonExhaustive, arm.Sp, "arm for variant %s is unreachable: already covered", name)
			continue
		}
		covered[name] = true
	}

	if hasWildcard {
		return
	}
	var missing []string
	for _, v := range enum.VariantOrder {
		if !covered[v] {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		c.Report.Errorf(codeNonExhaustive, w.Sp, "non-exhaustive match on %s: missing variant(s) %v", subject.Name, missing)
	}
}

// variantCoverage reports which enum variant name (if any) a pattern
// covers, and whether the pattern is an unconditional catch-all (a bare
// wildcard `_` or an unguarded bind pattern with no sub-pattern).
func variantCoverage(p ast.Pattern) (variant string, wildcard bool) {
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		return "", true
	case *ast.BindPattern:
		if pat.Sub == nil {
			return "", true
		}
		return variantCoverage(pat.Sub)
	case *ast.VariantPattern:
		return pat.Name, false
	case *ast.StructPattern:
		return pat.TypeName, false
	}
	return "", false
}
