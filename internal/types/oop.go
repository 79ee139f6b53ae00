package types

// checkOOPConstraints validates the class/interface rules spec.md §4.6
// phase 2 names: sealed classes cannot be extended, abstract methods
// only belong to abstract classes/interfaces, override must match a
// virtual/abstract base method exactly, and final methods cannot be
// overridden. Cross-module field-visibility enforcement piggybacks on
// the import-time export check (checkImports); only within-module
// instance-field access is validated here.
func (c *Checker) checkOOPConstraints() {
	for name, cl := range c.mod.Classes {
		info := c.Env.Classes[name]
		if info == nil {
			continue // registration already failed and reported
		}
		if info.Extends != "" {
			base, ok := c.Env.Classes[info.Extends]
			if !ok {
				c.Report.Errorf(codeUnboundSymbol, cl.Sp, "class %s extends unknown class %q", name, info.Extends)
			} else {
				if base.Sealed {
					c.Report.Errorf(codeSealedExtended, cl.Sp, "class %s extends sealed class %s", name, info.Extends)
				}
				c.checkOverrides(name, info, base)
			}
		}
		for _, iface := range info.Implements {
			if _, ok := c.Env.Interfaces[iface]; !ok {
				c.Report.Errorf(codeUnboundSymbol, cl.Sp, "class %s implements unknown interface %q", name, iface)
			}
		}
		for mname, m := range info.Methods {
			if m.Abstract && !info.Abstract {
				c.Report.Errorf(codeAbstractMisplace, cl.Sp, "method %s.%s is abstract but %s is not an abstract class", name, mname, name)
			}
		}
	}
}

// checkOverrides walks one level of the Extends chain (the parser only
// allows single inheritance, so one step per class suffices) comparing
// override-marked methods against their base definition.
func (c *Checker) checkOverrides(name string, info, base *ClassInfo) {
	for mname, m := range info.Methods {
		baseMethod, inherited := base.Methods[mname]
		if !m.Override {
			continue
		}
		if !inherited {
			c.Report.Errorf(codeOverrideMismatch, noSpan, "%s.%s marked override but %s declares no such method", name, mname, base.Name)
			continue
		}
		if baseMethod.Final {
			c.Report.Errorf(codeFinalOverridden, noSpan, "%s.%s overrides final method %s.%s", name, mname, base.Name, mname)
		}
		if !(baseMethod.Virtual || baseMethod.Abstract) {
			c.Report.Errorf(codeOverrideMismatch, noSpan, "%s.%s overrides non-virtual method %s.%s", name, mname, base.Name, mname)
			continue
		}
		if !signaturesMatchModuloSelf(m.Sig, baseMethod.Sig) {
			c.Report.Errorf(codeOverrideMismatch, noSpan, "%s.%s signature does not match %s.%s", name, mname, base.Name, mname)
		}
	}
}

// signaturesMatchModuloSelf compares two method signatures ignoring
// Self-typed differences (spec.md §4.6: "same signature modulo Self").
func signaturesMatchModuloSelf(a, b *FuncSig) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !typeEqualModuloSelf(a.Params[i], b.Params[i]) {
			return false
		}
	}
	return typeEqualModuloSelf(a.Return, b.Return)
}

func typeEqualModuloSelf(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind == KindSelfType && b.Kind == KindSelfType {
		return true
	}
	return a.Equal(b)
}
