package lockfile

import (
	"path/filepath"
	"testing"

	"github.com/tml-lang/tmlc/internal/manifest"
)

func TestLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tml.lock")

	lf := New()
	lf.Put(Package{
		Name:         "core",
		Version:      "0.1.0",
		Source:       "path",
		SourceDetail: "../core",
		Hash:         "deadbeef",
	})
	lf.Put(Package{
		Name:         "json",
		Version:      "1.2.0",
		Source:       "registry",
		SourceDetail: "crates.tml/json",
		Hash:         "cafef00d",
		Dependencies: []string{"core"},
	})

	if err := lf.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reloaded.Version != schemaVersion {
		t.Errorf("Version = %d, want %d", reloaded.Version, schemaVersion)
	}
	if len(reloaded.Packages) != 2 {
		t.Fatalf("expected 2 packages, got %d", len(reloaded.Packages))
	}
	got, ok := reloaded.Get("json")
	if !ok {
		t.Fatal("expected 'json' entry to survive round-trip")
	}
	if got.Hash != "cafef00d" || len(got.Dependencies) != 1 || got.Dependencies[0] != "core" {
		t.Errorf("json entry corrupted across round-trip: %+v", got)
	}
}

func TestPutReplacesExistingEntry(t *testing.T) {
	lf := New()
	lf.Put(Package{Name: "core", Version: "0.1.0"})
	lf.Put(Package{Name: "core", Version: "0.2.0"})

	if len(lf.Packages) != 1 {
		t.Fatalf("expected Put to replace rather than append, got %d entries", len(lf.Packages))
	}
	got, _ := lf.Get("core")
	if got.Version != "0.2.0" {
		t.Errorf("Version = %q, want 0.2.0", got.Version)
	}
}

func TestCompatibleWithDetectsMissingEntry(t *testing.T) {
	lf := New()
	m := &manifest.Manifest{
		Dependencies: map[string]manifest.Dependency{
			"core": {Path: "../core"},
		},
	}
	if err := lf.CompatibleWith(m); err == nil {
		t.Error("expected an error when the manifest names a dependency absent from the lockfile")
	}
}

func TestCompatibleWithDetectsPathMismatch(t *testing.T) {
	lf := New()
	lf.Put(Package{Name: "core", Source: "path", SourceDetail: "../other-core"})
	m := &manifest.Manifest{
		Dependencies: map[string]manifest.Dependency{
			"core": {Path: "../core"},
		},
	}
	if err := lf.CompatibleWith(m); err == nil {
		t.Error("expected an error when the locked path does not match the manifest's path")
	}
}

func TestCompatibleWithAcceptsMatchingVersion(t *testing.T) {
	lf := New()
	lf.Put(Package{Name: "json", Source: "registry", Version: "1.2.0"})
	m := &manifest.Manifest{
		Dependencies: map[string]manifest.Dependency{
			"json": {Version: "1.2.0"},
		},
	}
	if err := lf.CompatibleWith(m); err != nil {
		t.Errorf("expected matching registry version to be compatible, got: %v", err)
	}
}

func TestCompatibleWithDetectsVersionMismatch(t *testing.T) {
	lf := New()
	lf.Put(Package{Name: "json", Source: "registry", Version: "1.2.0"})
	m := &manifest.Manifest{
		Dependencies: map[string]manifest.Dependency{
			"json": {Version: "1.3.0"},
		},
	}
	if err := lf.CompatibleWith(m); err == nil {
		t.Error("expected an error when the locked version does not satisfy the manifest's requirement")
	}
}
