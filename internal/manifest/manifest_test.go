package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "tml.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidLibraryManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "collections"
version = "0.3.0"

[lib]
name = "collections"

[dependencies]
core = { path = "../core" }
json = { version = "1.2.0" }
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Package.Name != "collections" {
		t.Errorf("Package.Name = %q, want collections", m.Package.Name)
	}
	if m.Lib == nil {
		t.Fatal("expected [lib] to be parsed")
	}
	if m.Lib.LibPath() != "src/lib.tml" {
		t.Errorf("LibPath() = %q, want default src/lib.tml", m.Lib.LibPath())
	}

	core, ok := m.Dependencies["core"]
	if !ok {
		t.Fatal("expected 'core' dependency")
	}
	if core.Kind() != SourcePath {
		t.Errorf("core.Kind() = %v, want SourcePath", core.Kind())
	}

	jsonDep, ok := m.Dependencies["json"]
	if !ok {
		t.Fatal("expected 'json' dependency")
	}
	if jsonDep.Kind() != SourceVersion {
		t.Errorf("json.Kind() = %v, want SourceVersion", jsonDep.Kind())
	}
}

func TestLoadBinManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "tool"
version = "1.0.0"

[[bin]]
name = "tool"

[[bin]]
name = "tool-helper"
path = "src/helper.tml"
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(m.Bins) != 2 {
		t.Fatalf("expected 2 [[bin]] entries, got %d", len(m.Bins))
	}
	if m.Bins[0].BinPath() != "src/bin/tool.tml" {
		t.Errorf("default BinPath() = %q, want src/bin/tool.tml", m.Bins[0].BinPath())
	}
	if m.Bins[1].BinPath() != "src/helper.tml" {
		t.Errorf("explicit BinPath() = %q, want src/helper.tml", m.Bins[1].BinPath())
	}
}

func TestValidateRejectsMissingTargets(t *testing.T) {
	m := &Manifest{Package: Package{Name: "x", Version: "0.1.0"}}
	if err := m.Validate(); err == nil {
		t.Error("expected an error when neither [lib] nor [[bin]] is declared")
	} else if !strings.Contains(err.Error(), "neither [lib] nor any [[bin]]") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRejectsAmbiguousDependencySource(t *testing.T) {
	m := &Manifest{
		Package: Package{Name: "x", Version: "0.1.0"},
		Lib:     &Lib{},
		Dependencies: map[string]Dependency{
			"ambiguous": {Path: "../x", Version: "1.0.0"},
		},
	}
	if err := m.Validate(); err == nil {
		t.Error("expected an error when a dependency declares more than one source")
	} else if !strings.Contains(err.Error(), "more than one source") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRejectsDuplicateBinNames(t *testing.T) {
	m := &Manifest{
		Package: Package{Name: "x", Version: "0.1.0"},
		Bins:    []Bin{{Name: "a"}, {Name: "a"}},
	}
	if err := m.Validate(); err == nil {
		t.Error("expected an error for duplicate [[bin]] names")
	} else if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProfileOrDefault(t *testing.T) {
	m := &Manifest{
		Package: Package{Name: "x", Version: "0.1.0"},
		Lib:     &Lib{},
		Build: map[string]BuildProfile{
			"release": {OptLevel: 2, PanicStrategy: "abort"},
		},
	}

	if p := m.ProfileOrDefault("release"); p.OptLevel != 2 {
		t.Errorf("declared release profile not honored: %+v", p)
	}
	if p := m.ProfileOrDefault("dev"); p.PanicStrategy != "unwind" {
		t.Errorf("undeclared dev profile should default to unwind panics, got %+v", p)
	}
}

func TestSaveRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tml.toml")

	m := &Manifest{
		Package: Package{Name: "roundtrip", Version: "0.1.0"},
		Lib:     &Lib{},
		Dependencies: map[string]Dependency{
			"core": {Path: "../core"},
		},
	}
	if err := m.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}
	if reloaded.Package.Name != "roundtrip" {
		t.Errorf("Package.Name = %q after round-trip, want roundtrip", reloaded.Package.Name)
	}
	if reloaded.Dependencies["core"].Path != "../core" {
		t.Errorf("dependency path lost across round-trip: %+v", reloaded.Dependencies["core"])
	}
}
