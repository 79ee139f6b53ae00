package types

import "testing"

func TestEqualStructural(t *testing.T) {
	a := Named("Box", Primitive("I32"))
	b := Named("Box", Primitive("I32"))
	if !a.Equal(b) {
		t.Errorf("%s and %s should be structurally equal", a, b)
	}

	c := Named("Box", Primitive("I64"))
	if a.Equal(c) {
		t.Errorf("%s and %s should not be equal", a, c)
	}
}

func TestEqualUnknownNeverEqual(t *testing.T) {
	if Unknown.Equal(Unknown) {
		t.Fatal("Unknown must never equal Unknown, to avoid masking a second unrelated mismatch")
	}
	if Unknown.Equal(Primitive("I32")) {
		t.Fatal("Unknown must never equal a resolved type")
	}
}

func TestEqualRefRespectsMutability(t *testing.T) {
	shared := Ref(Primitive("I32"), false)
	mutable := Ref(Primitive("I32"), true)
	if shared.Equal(mutable) {
		t.Fatal("&T and &mut T must not be equal")
	}
}

func TestIsTriviallyDuplicable(t *testing.T) {
	cases := []struct {
		t    *Type
		want bool
	}{
		{Primitive("I32"), true},
		{Unit, true},
		{Ref(Primitive("I32"), false), true},
		{Func(nil, Unit), true},
		{Named("Widget"), false},
		{Array(Primitive("I32")), false},
		{Tuple(Primitive("I32"), Str), false},
	}
	for _, c := range cases {
		if got := c.t.IsTriviallyDuplicable(); got != c.want {
			t.Errorf("%s.IsTriviallyDuplicable() = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestPrimitiveRejectsUnknownName(t *testing.T) {
	if Primitive("NotAType") != nil {
		t.Fatal("Primitive should return nil for a non-primitive name")
	}
}

func TestStringRendersNestedTypes(t *testing.T) {
	ft := Func([]*Type{Primitive("I32"), Ref(Str, true)}, Primitive("Bool"))
	got := ft.String()
	want := "fn(I32, &mut Str) -> Bool"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
