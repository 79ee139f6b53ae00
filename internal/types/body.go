package types

import (
	"strings"

	"github.com/tml-lang/tmlc/internal/ast"
)

// funcChecker checks one function/method body: expression typing,
// move/borrow tracking, and exhaustiveness of any `when` it contains
// (spec.md §4.6 phase 4, plus the high-level ownership rules).
type funcChecker struct {
	*Checker
	sig    *FuncSig
	locals map[string]*Type
	moved  map[string]bool
}

func (fc *funcChecker) checkBlock(b *ast.Block) *Type {
	for _, s := range b.Stmts {
		fc.checkStmt(s)
	}
	if b.Tail != nil {
		return fc.checkExpr(b.Tail)
	}
	return Unit
}

func (fc *funcChecker) checkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.LetStmt:
		valType := fc.checkExpr(st.Value)
		declared := valType
		if st.Type != nil {
			t, err := fc.resolveType(scope{}, st.Type)
			if err != nil {
				fc.Report.Errorf(codeUnboundSymbol, st.Sp, "let %s: %v", st.Name, err)
			} else {
				declared = t
				// Literal coercion: `let x: F64 = 5` forces the bare
				// literal to the declared type without a mismatch
				// diagnostic (spec.md §4.7 note); only a non-literal
				// value of a genuinely different type is an error.
				if !isBareLiteral(st.Value) && valType.Kind != KindUnknown && !valType.Equal(t) {
					fc.Report.Errorf(codeTypeMismatch, st.Sp, "let %s: declared type %s does not match value type %s", st.Name, t, valType)
				}
			}
		}
		fc.locals[st.Name] = declared
		delete(fc.moved, st.Name)
	case *ast.ExprStmt:
		fc.checkExpr(st.X)
	case *ast.ReturnStmt:
		if st.Value == nil {
			return
		}
		got := fc.checkExpr(st.Value)
		if fc.sig != nil && fc.sig.Return != nil && got.Kind != KindUnknown && !got.Equal(fc.sig.Return) {
			fc.Report.Errorf(codeTypeMismatch, st.Sp, "return type %s does not match declared return type %s", got, fc.sig.Return)
		}
	case *ast.BreakStmt, *ast.ContinueStmt:
	case *ast.WhileStmt:
		cond := fc.checkExpr(st.Cond)
		if cond.Kind != KindUnknown && !cond.Equal(Bool) {
			fc.Report.Errorf(codeTypeMismatch, st.Sp, "while condition must be Bool, got %s", cond)
		}
		fc.checkBlock(st.Body)
	case *ast.LoopStmt:
		fc.checkBlock(st.Body)
	case *ast.ForStmt:
		fc.checkExpr(st.Iterable)
		fc.bindPattern(st.Binding, Unknown)
		fc.checkBlock(st.Body)
	case *ast.FuncDecl:
		// a nested function declaration: build and check it in isolation.
		sig := fc.buildFuncSig(st)
		if st.Body != nil {
			nested := &funcChecker{Checker: fc.Checker, sig: sig, locals: map[string]*Type{}, moved: map[string]bool{}}
			for i, n := range sig.ParamNames {
				nested.locals[n] = sig.Params[i]
			}
			nested.checkBlock(st.Body)
		}
	}
}

func isBareLiteral(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IntLit, *ast.FloatLit:
		return true
	}
	return false
}

// bindPattern introduces every name a pattern binds into scope with the
// given type (a simplification: a bind pattern takes the scrutinee's
// type, and names bound inside variant, struct or tuple destructuring
// take Unknown rather than a per-field resolved type, since
// full pattern-type propagation is a checker-generalization exercise
// beyond what the ownership/exhaustiveness rules in scope require).
func (fc *funcChecker) bindPattern(p ast.Pattern, t *Type) {
	switch pat := p.(type) {
	case *ast.Ident:
		fc.locals[pat.Name] = t
	case *ast.BindPattern:
		fc.locals[pat.Name] = t
		if pat.Sub != nil {
			fc.bindPattern(pat.Sub, t)
		}
	case *ast.VariantPattern:
		for _, el := range pat.Elements {
			fc.bindPattern(el, Unknown)
		}
	case *ast.StructPattern:
		for _, f := range pat.Fields {
			fc.bindPattern(f.Pattern, Unknown)
		}
	case *ast.TuplePattern:
		for _, el := range pat.Elements {
			fc.bindPattern(el, Unknown)
		}
	}
}

func (fc *funcChecker) checkExpr(e ast.Expr) *Type {
	switch x := e.(type) {
	case *ast.IntLit:
		if x.Suffix != "" {
			if p := Primitive(x.Suffix); p != nil {
				return p
			}
		}
		return Primitive("I32")
	case *ast.FloatLit:
		if x.Suffix != "" {
			if p := Primitive(x.Suffix); p != nil {
				return p
			}
		}
		return Primitive("F64")
	case *ast.StringLit:
		return Str
	case *ast.InterpString:
		for _, sub := range x.Exprs {
			fc.checkExpr(sub)
		}
		return Str
	case *ast.CharLit:
		return Char
	case *ast.BoolLit:
		return Bool
	case *ast.SelfExpr:
		if t, ok := fc.locals["self"]; ok {
			return t
		}
		return Unknown
	case *ast.Ident:
		return fc.useIdent(x)
	case *ast.BinaryExpr:
		left := fc.checkExpr(x.Left)
		right := fc.checkExpr(x.Right)
		switch x.Op {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
			return Bool
		}
		if left.Kind != KindUnknown && right.Kind != KindUnknown && !left.Equal(right) {
			fc.Report.Errorf(codeTypeMismatch, x.Sp, "operator %s: mismatched operand types %s and %s", x.Op, left, right)
		}
		return left
	case *ast.UnaryExpr:
		return fc.checkExpr(x.X)
	case *ast.AssignExpr:
		fc.checkExpr(x.Value)
		if id, ok := x.Target.(*ast.Ident); ok {
			delete(fc.moved, id.Name) // reassignment revives a moved-from binding
		}
		return Unit
	case *ast.CallExpr:
		return fc.checkCall(x)
	case *ast.MethodCallExpr:
		return fc.checkMethodCall(x)
	case *ast.FieldExpr:
		return fc.checkField(x)
	case *ast.IndexExpr:
		recv := fc.checkExpr(x.Recv)
		fc.checkExpr(x.Index)
		if recv.Kind == KindArray {
			return recv.Args[0]
		}
		return Unknown
	case *ast.CastExpr:
		fc.checkExpr(x.X)
		t, err := fc.resolveType(scope{}, x.To)
		if err != nil {
			fc.Report.Errorf(codeUnboundSymbol, x.Sp, "cast target: %v", err)
			return Unknown
		}
		return t
	case *ast.RefExpr:
		inner := fc.checkExprNoMove(x.X)
		return Ref(inner, x.Mutable)
	case *ast.StructLit:
		return fc.checkStructLit(x)
	case *ast.ArrayLit:
		var elem *Type = Unknown
		for i, el := range x.Elements {
			t := fc.checkExpr(el)
			if i == 0 {
				elem = t
			}
		}
		return Array(elem)
	case *ast.TupleLit:
		elems := make([]*Type, len(x.Elements))
		for i, el := range x.Elements {
			elems[i] = fc.checkExpr(el)
		}
		return Tuple(elems...)
	case *ast.IfExpr:
		cond := fc.checkExpr(x.Cond)
		if cond.Kind != KindUnknown && !cond.Equal(Bool) {
			fc.Report.Errorf(codeTypeMismatch, x.Sp, "if condition must be Bool, got %s", cond)
		}
		thenType := fc.checkBlock(x.Then)
		if x.Else == nil {
			return Unit
		}
		elseType := fc.checkExpr(x.Else)
		if thenType.Kind != KindUnknown && elseType.Kind != KindUnknown && !thenType.Equal(elseType) {
			fc.Report.Errorf(codeTypeMismatch, x.Sp, "if/else arms have different types: %s vs %s", thenType, elseType)
		}
		return thenType
	case *ast.Block:
		return fc.checkBlock(x)
	case *ast.WhenExpr:
		subject := fc.checkExpr(x.Subject)
		fc.checkExhaustive(x, subject)
		var result *Type = Unit
		for i, arm := range x.Arms {
			fc.bindPattern(arm.Pattern, subject)
			if arm.Guard != nil {
				fc.checkExpr(arm.Guard)
			}
			t := fc.checkExpr(arm.Body)
			if i == 0 {
				result = t
			}
		}
		return result
	case *ast.AwaitExpr:
		return fc.checkExpr(x.X)
	case *ast.TryExpr:
		return fc.checkExpr(x.X)
	case *ast.BadExpr:
		return Unknown
	}
	return Unknown
}

// checkExprNoMove checks e without recording a move: a reference never
// consumes its operand (spec.md §4.6: "A reference &T does not consume").
func (fc *funcChecker) checkExprNoMove(e ast.Expr) *Type {
	if id, ok := e.(*ast.Ident); ok {
		if t, known := fc.locals[id.Name]; known {
			return t
		}
		return Unknown
	}
	return fc.checkExpr(e)
}

func (fc *funcChecker) useIdent(id *ast.Ident) *Type {
	if fc.moved[id.Name] {
		fc.Report.Errorf(codeUseAfterMove, id.Sp, "use of %q after it was moved", id.Name)
	}
	if t, ok := fc.locals[id.Name]; ok {
		return t
	}
	if k, ok := fc.Env.Constants[id.Name]; ok {
		return k
	}
	if _, ok := fc.Env.Functions[id.Name]; ok {
		return Unknown // bare function reference; full fn-type synthesis is a codegen-time concern
	}
	fc.Report.Errorf(codeUnboundSymbol, id.Sp, "unbound symbol %q", id.Name)
	return Unknown
}

func (fc *funcChecker) checkCall(x *ast.CallExpr) *Type {
	callee, ok := x.Func.(*ast.Ident)
	if !ok {
		// indirect call through a function-pointer expression (spec.md
		// §4.9 dispatch step 5); only check the callee/arg expressions.
		recv := fc.checkExpr(x.Func)
		for _, a := range x.Args {
			fc.checkExpr(a)
		}
		if recv.Kind == KindFunc {
			return recv.ReturnType
		}
		return Unknown
	}
	sig, ok := fc.Env.Functions[callee.Name]
	if !ok {
		// enum-constructor call (`Variant(x)`) and primitive static
		// methods are resolved later by codegen's dispatch ladder
		// (spec.md §4.9); the checker only validates free functions.
		for _, a := range x.Args {
			fc.checkExpr(a)
		}
		return Unknown
	}
	fc.checkArgs(callee.Name, sig, x.Args)
	if sig.Return == nil {
		return Unit
	}
	return sig.Return
}

func (fc *funcChecker) checkArgs(name string, sig *FuncSig, args []ast.Expr) {
	if len(sig.TypeParams) == 0 && len(args) != len(sig.Params) {
		fc.Report.Errorf(codeTypeMismatch, noSpan, "call to %s: expected %d argument(s), got %d", name, len(sig.Params), len(args))
	}
	for i, a := range args {
		argType := fc.checkExpr(a)
		if i >= len(sig.Params) {
			continue
		}
		param := sig.Params[i]
		if param.Kind != KindRef && !param.IsTriviallyDuplicable() {
			if id, isIdent := a.(*ast.Ident); isIdent {
				fc.moved[id.Name] = true
			}
		}
		if param.Kind == KindTypeParam {
			continue // generic inference, not a fixed-type check
		}
		if argType.Kind != KindUnknown && param.Kind != KindUnknown && !argType.Equal(param) {
			fc.Report.Errorf(codeTypeMismatch, noSpan, "call to %s: argument %d has type %s, expected %s", name, i+1, argType, param)
		}
	}
}

func (fc *funcChecker) checkMethodCall(x *ast.MethodCallExpr) *Type {
	recv := fc.checkExpr(x.Recv)
	for _, a := range x.Args {
		fc.checkExpr(a)
	}
	if recv.Kind != KindNamed {
		return Unknown // primitive intrinsic / closure-call-trait methods: codegen's dispatch ladder, not the checker's concern
	}
	key := recv.Name + "::" + x.Name
	if sig, ok := fc.Env.Functions[key]; ok {
		if sig.Return == nil {
			return Unit
		}
		return sig.Return
	}
	// bounded-generic / behavior-method dispatch: resolved structurally
	// at codegen time once the concrete receiver substitution is known
	// (spec.md §4.9 step 4); absence here is not yet an error.
	return Unknown
}

func (fc *funcChecker) checkField(x *ast.FieldExpr) *Type {
	recv := fc.checkExpr(x.Recv)
	if recv.Kind != KindNamed {
		return Unknown
	}
	if s, ok := fc.Env.Structs[recv.Name]; ok {
		if t, ok := s.Fields[x.Name]; ok {
			return t
		}
		fc.Report.Errorf(codeUnboundSymbol, x.Sp, "%s has no field %q", recv.Name, x.Name)
		return Unknown
	}
	if cl, ok := fc.Env.Classes[recv.Name]; ok {
		if t, ok := cl.Fields[x.Name]; ok {
			if !cl.FieldVis[x.Name] {
				fc.Report.Errorf(codeVisibility, x.Sp, "%s.%s is private", recv.Name, x.Name)
			}
			return t
		}
		fc.Report.Errorf(codeUnboundSymbol, x.Sp, "%s has no field %q", recv.Name, x.Name)
	}
	return Unknown
}

func (fc *funcChecker) checkStructLit(x *ast.StructLit) *Type {
	s, ok := fc.Env.Structs[x.TypeName]
	if !ok {
		for _, f := range x.Fields {
			fc.checkExpr(f.Value)
		}
		fc.Report.Errorf(codeUnboundSymbol, x.Sp, "unbound struct type %q", x.TypeName)
		return Unknown
	}
	seen := map[string]bool{}
	for _, f := range x.Fields {
		valType := fc.checkExpr(f.Value)
		seen[f.Name] = true
		fieldType, ok := s.Fields[f.Name]
		if !ok {
			fc.Report.Errorf(codeUnboundSymbol, x.Sp, "%s has no field %q", x.TypeName, f.Name)
			continue
		}
		if valType.Kind != KindUnknown && fieldType.Kind != KindUnknown && !valType.Equal(fieldType) && !isBareLiteral(f.Value) {
			fc.Report.Errorf(codeTypeMismatch, x.Sp, "%s.%s: expected %s, got %s", x.TypeName, f.Name, fieldType, valType)
		}
	}
	var missing []string
	for _, name := range s.FieldOrder {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		fc.Report.Errorf(codeTypeMismatch, x.Sp, "%s literal missing field(s): %s", x.TypeName, strings.Join(missing, ", "))
	}
	return Named(x.TypeName)
}
