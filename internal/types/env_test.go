package types

import "testing"

func TestSnapshotSeedsBuiltinBehaviors(t *testing.T) {
	env := Snapshot()
	for _, b := range BuiltinBehaviors {
		if _, ok := env.Behaviors[b]; !ok {
			t.Errorf("Snapshot env missing builtin behavior %q", b)
		}
	}
}

func TestSnapshotIsIndependentPerCall(t *testing.T) {
	a := Snapshot()
	b := Snapshot()

	a.Behaviors["Clone"].Methods["extra"] = &FuncSig{Name: "extra"}
	if _, ok := b.Behaviors["Clone"].Methods["extra"]; ok {
		t.Fatal("mutating one snapshot's behavior methods leaked into another snapshot")
	}
}

func TestRegisterStructRejectsReservedName(t *testing.T) {
	env := Snapshot()
	err := env.RegisterStruct(&StructInfo{Name: "I32", Fields: map[string]*Type{}, FieldVis: map[string]bool{}})
	if err == nil {
		t.Fatal("expected an error registering a struct named after a primitive")
	}
}

func TestRegisterStructRejectsReservedBehaviorName(t *testing.T) {
	env := Snapshot()
	err := env.RegisterStruct(&StructInfo{Name: "Clone", Fields: map[string]*Type{}, FieldVis: map[string]bool{}})
	if err == nil {
		t.Fatal("expected an error registering a struct named after a builtin behavior")
	}
}

func TestRegisterStructRejectsDuplicateDeclaration(t *testing.T) {
	env := Snapshot()
	info := &StructInfo{Name: "Point", Fields: map[string]*Type{}, FieldVis: map[string]bool{}}
	if err := env.RegisterStruct(info); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := env.RegisterStruct(info); err == nil {
		t.Fatal("expected an error re-registering the same struct name")
	}
}

func TestRegisterEnumThenStructSameNameConflicts(t *testing.T) {
	env := Snapshot()
	if err := env.RegisterEnum(&EnumInfo{Name: "Shape", Variants: map[string][]*Type{}}); err != nil {
		t.Fatalf("RegisterEnum failed: %v", err)
	}
	err := env.RegisterStruct(&StructInfo{Name: "Shape", Fields: map[string]*Type{}, FieldVis: map[string]bool{}})
	if err == nil {
		t.Fatal("expected struct/enum name collision to be rejected across the shared type namespace")
	}
}

func TestRegisterFunctionRejectsDuplicate(t *testing.T) {
	env := Snapshot()
	sig := &FuncSig{Name: "main"}
	if err := env.RegisterFunction(sig); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := env.RegisterFunction(sig); err == nil {
		t.Fatal("expected an error re-registering the same function name")
	}
}

func TestLookupTypeFindsGenericStruct(t *testing.T) {
	env := Snapshot()
	info := &StructInfo{
		Name:       "Box",
		TypeParams: []TypeParamInfo{{Name: "T"}},
		Fields:     map[string]*Type{"value": TypeParamRef("T")},
		FieldVis:   map[string]bool{"value": true},
		FieldOrder: []string{"value"},
	}
	if err := env.RegisterStruct(info); err != nil {
		t.Fatalf("RegisterStruct failed: %v", err)
	}
	params, ok := env.LookupType("Box")
	if !ok {
		t.Fatal("expected LookupType to find Box")
	}
	if len(params) != 1 || params[0].Name != "T" {
		t.Errorf("LookupType(Box) type params = %+v, want [T]", params)
	}
}
