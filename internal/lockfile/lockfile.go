// Package lockfile parses and writes tml.lock: the exact-version,
// content-hashed dependency snapshot that pins a manifest's resolution
// (spec.md §4.13, §6). It uses the same TOML codec as internal/manifest.
package lockfile

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/tml-lang/tmlc/internal/manifest"
)

const schemaVersion = 1

// Package is one locked dependency: its resolved version, where it came
// from, a content hash over its sources, and its own direct dependencies
// (by name) so a lockfile can be walked without re-resolving.
type Package struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source"`        // "path" | "registry" | "git"
	SourceDetail string   `toml:"source_detail"` // path, registry URL, or git remote+rev
	Hash         string   `toml:"hash"`          // hex-encoded content hash, see internal/hash
	Dependencies []string `toml:"dependencies,omitempty"`
}

// Lockfile is the parsed contents of a tml.lock file.
type Lockfile struct {
	Version  int       `toml:"version"`
	Packages []Package `toml:"packages"`

	path string
}

// New returns an empty lockfile at the current schema version.
func New() *Lockfile {
	return &Lockfile{Version: schemaVersion}
}

// Load reads a lockfile from path.
func Load(path string) (*Lockfile, error) {
	var lf Lockfile
	if _, err := toml.DecodeFile(path, &lf); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", path, err)
	}
	lf.path = path
	return &lf, nil
}

// Save writes lf back to its source path, or to path if given.
func (lf *Lockfile) Save(path string) error {
	if path == "" {
		path = lf.path
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("lockfile: create %s: %w", path, err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(lf)
}

// Path returns the filesystem path this lockfile was loaded from.
func (lf *Lockfile) Path() string { return lf.path }

// Get returns the locked entry for a package name, if present.
func (lf *Lockfile) Get(name string) (Package, bool) {
	for _, p := range lf.Packages {
		if p.Name == name {
			return p, true
		}
	}
	return Package{}, false
}

// Put inserts or replaces the locked entry for p.Name.
func (lf *Lockfile) Put(p Package) {
	for i, existing := range lf.Packages {
		if existing.Name == p.Name {
			lf.Packages[i] = p
			return
		}
	}
	lf.Packages = append(lf.Packages, p)
}

// CompatibleWith reports whether every direct dependency declared in m
// appears in the lockfile with a source matching its manifest entry.
// Per spec.md §4.13: compatibility is "every direct dep appears with a
// satisfying version" — path and git dependencies are pinned by source
// identity rather than a semver range, so satisfaction there means the
// locked source_detail still matches the manifest's declared source.
func (lf *Lockfile) CompatibleWith(m *manifest.Manifest) error {
	for name, dep := range m.Dependencies {
		locked, ok := lf.Get(name)
		if !ok {
			return fmt.Errorf("lockfile: missing entry for dependency %q", name)
		}
		switch dep.Kind() {
		case manifest.SourcePath:
			if locked.Source != "path" || locked.SourceDetail != dep.Path {
				return fmt.Errorf("lockfile: dependency %q path mismatch: locked %q, manifest %q", name, locked.SourceDetail, dep.Path)
			}
		case manifest.SourceGit:
			if locked.Source != "git" || locked.SourceDetail != dep.Git {
				return fmt.Errorf("lockfile: dependency %q git source mismatch: locked %q, manifest %q", name, locked.SourceDetail, dep.Git)
			}
		case manifest.SourceVersion:
			if locked.Source != "registry" {
				return fmt.Errorf("lockfile: dependency %q expected a registry entry, locked source is %q", name, locked.Source)
			}
			if locked.Version != dep.Version {
				return fmt.Errorf("lockfile: dependency %q version mismatch: locked %s, manifest requires %s", name, locked.Version, dep.Version)
			}
		}
	}
	return nil
}
