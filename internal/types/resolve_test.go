package types

import (
	"testing"

	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/errors"
	"github.com/tml-lang/tmlc/internal/module"
)

func newResolveChecker() *Checker {
	return &Checker{Report: &errors.Report{}, Env: Snapshot(), Registry: module.NewRegistry()}
}

func TestResolveTypePrimitive(t *testing.T) {
	c := newResolveChecker()
	got, err := c.resolveType(scope{}, &ast.NamedType{Name: "I64"})
	if err != nil {
		t.Fatalf("resolveType failed: %v", err)
	}
	if !got.Equal(Primitive("I64")) {
		t.Errorf("resolved %s, want I64", got)
	}
}

func TestResolveTypeTypeParam(t *testing.T) {
	c := newResolveChecker()
	sc := newScope([]*ast.TypeParam{{Name: "T"}})
	got, err := c.resolveType(sc, &ast.NamedType{Name: "T"})
	if err != nil {
		t.Fatalf("resolveType failed: %v", err)
	}
	if got.Kind != KindTypeParam || got.Name != "T" {
		t.Errorf("resolved %s, want type param T", got)
	}
}

func TestResolveTypeUnboundNameErrors(t *testing.T) {
	c := newResolveChecker()
	got, err := c.resolveType(scope{}, &ast.NamedType{Name: "Nope"})
	if err == nil {
		t.Fatal("expected an error resolving an unbound type name")
	}
	if got.Kind != KindUnknown {
		t.Errorf("expected Unknown on error, got %s", got)
	}
}

func TestResolveTypeGenericNamedType(t *testing.T) {
	c := newResolveChecker()
	if err := c.Env.RegisterStruct(&StructInfo{
		Name:       "Box",
		TypeParams: []TypeParamInfo{{Name: "T"}},
		Fields:     map[string]*Type{},
		FieldVis:   map[string]bool{},
	}); err != nil {
		t.Fatalf("RegisterStruct failed: %v", err)
	}
	got, err := c.resolveType(scope{}, &ast.NamedType{Name: "Box", Args: []ast.Type{&ast.NamedType{Name: "I32"}}})
	if err != nil {
		t.Fatalf("resolveType failed: %v", err)
	}
	want := Named("Box", Primitive("I32"))
	if !got.Equal(want) {
		t.Errorf("resolved %s, want %s", got, want)
	}
}

func TestResolveTypeRefAndArray(t *testing.T) {
	c := newResolveChecker()
	got, err := c.resolveType(scope{}, &ast.RefType{Mutable: true, Elem: &ast.ArrayType{Elem: &ast.NamedType{Name: "U8"}}})
	if err != nil {
		t.Fatalf("resolveType failed: %v", err)
	}
	want := Ref(Array(Primitive("U8")), true)
	if !got.Equal(want) {
		t.Errorf("resolved %s, want %s", got, want)
	}
}

func TestResolveTypeDynRequiresKnownBehavior(t *testing.T) {
	c := newResolveChecker()
	_, err := c.resolveType(scope{}, &ast.DynType{Behavior: "NotReal"})
	if err == nil {
		t.Fatal("expected an error resolving dyn on an unknown behavior")
	}

	got, err := c.resolveType(scope{}, &ast.DynType{Behavior: "Clone"})
	if err != nil {
		t.Fatalf("resolveType failed: %v", err)
	}
	if got.Kind != KindDyn || got.Behavior != "Clone" {
		t.Errorf("resolved %s, want dyn Clone", got)
	}
}

func TestTypeParamInfosReportsUnknownBound(t *testing.T) {
	c := newResolveChecker()
	c.typeParamInfos([]*ast.TypeParam{{Name: "T", Bounds: []string{"NotABehavior"}}})
	if !c.Report.HasErrors() {
		t.Fatal("expected an error for a type parameter bounded by an unknown behavior")
	}
}
