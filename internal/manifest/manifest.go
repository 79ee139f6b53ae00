// Package manifest parses and validates the package manifest (tml.toml):
// name/version, library and binary targets, dependencies, and build
// profile overrides (spec.md §1.3, §6).
package manifest

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// SourceKind distinguishes how a dependency's source is located.
type SourceKind string

const (
	SourcePath    SourceKind = "path"
	SourceVersion SourceKind = "version"
	SourceGit     SourceKind = "git"
)

// Package carries the manifest's package-identity table.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Edition string `toml:"edition,omitempty"`
}

// Lib is the `[lib]` table: the package's library target, if any.
type Lib struct {
	Name string `toml:"name,omitempty"`
	Path string `toml:"path,omitempty"` // defaults to src/lib.tml
}

// Bin is one `[[bin]]` table entry: a named executable target.
type Bin struct {
	Name string `toml:"name"`
	Path string `toml:"path,omitempty"` // defaults to src/bin/<name>.tml
}

// Dependency is one entry under `[dependencies]`. Exactly one of Path,
// Version, or Git should be set; which one determines SourceKind.
type Dependency struct {
	Path    string `toml:"path,omitempty"`
	Version string `toml:"version,omitempty"`
	Git     string `toml:"git,omitempty"`
	Branch  string `toml:"branch,omitempty"`
	Rev     string `toml:"rev,omitempty"`
}

// Kind reports which source form this dependency declares.
func (d Dependency) Kind() SourceKind {
	switch {
	case d.Path != "":
		return SourcePath
	case d.Git != "":
		return SourceGit
	default:
		return SourceVersion
	}
}

// BuildProfile carries per-profile compiler overrides under `[build]`.
type BuildProfile struct {
	OptLevel      int    `toml:"opt_level,omitempty"`
	Debug         bool   `toml:"debug,omitempty"`
	LTO           bool   `toml:"lto,omitempty"`
	PanicStrategy string `toml:"panic_strategy,omitempty"` // "unwind" | "abort"
}

// Manifest is the parsed contents of a tml.toml file.
type Manifest struct {
	Package      Package               `toml:"package"`
	Lib          *Lib                  `toml:"lib,omitempty"`
	Bins         []Bin                 `toml:"bin,omitempty"`
	Dependencies map[string]Dependency `toml:"dependencies,omitempty"`
	Build        map[string]BuildProfile `toml:"build,omitempty"`

	// path is the filesystem location the manifest was loaded from,
	// used to resolve `path`-kind dependencies relative to it.
	path string
}

// Load reads and validates a manifest from path.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	m.path = path
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", path, err)
	}
	return &m, nil
}

// Save writes the manifest back to its source path (or to path, if
// given) in TOML form.
func (m *Manifest) Save(path string) error {
	if path == "" {
		path = m.path
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("manifest: create %s: %w", path, err)
	}
	defer f.Close()
	enc := toml.NewEncoder(f)
	return enc.Encode(m)
}

// Path returns the filesystem path this manifest was loaded from.
func (m *Manifest) Path() string { return m.path }

// Validate checks the manifest for the invariants spec.md §6 relies on:
// a package identity, at least one buildable target, and dependencies
// each declaring exactly one source.
func (m *Manifest) Validate() error {
	if m.Package.Name == "" {
		return fmt.Errorf("missing [package].name")
	}
	if m.Package.Version == "" {
		return fmt.Errorf("missing [package].version")
	}
	if m.Lib == nil && len(m.Bins) == 0 {
		return fmt.Errorf("manifest declares neither [lib] nor any [[bin]] target")
	}
	seen := make(map[string]bool, len(m.Bins))
	for _, b := range m.Bins {
		if b.Name == "" {
			return fmt.Errorf("[[bin]] entry missing name")
		}
		if seen[b.Name] {
			return fmt.Errorf("duplicate [[bin]] name: %s", b.Name)
		}
		seen[b.Name] = true
	}
	for name, dep := range m.Dependencies {
		sources := 0
		if dep.Path != "" {
			sources++
		}
		if dep.Version != "" {
			sources++
		}
		if dep.Git != "" {
			sources++
		}
		if sources == 0 {
			return fmt.Errorf("dependency %q declares no source (path/version/git)", name)
		}
		if sources > 1 {
			return fmt.Errorf("dependency %q declares more than one source", name)
		}
	}
	return nil
}

// LibPath returns the resolved library source entry point, defaulting
// to src/lib.tml when [lib].path is unset.
func (l *Lib) LibPath() string {
	if l.Path != "" {
		return l.Path
	}
	return "src/lib.tml"
}

// BinPath returns the resolved entry point for a [[bin]] target,
// defaulting to src/bin/<name>.tml when unset.
func (b *Bin) BinPath() string {
	if b.Path != "" {
		return b.Path
	}
	return "src/bin/" + b.Name + ".tml"
}

// ProfileOrDefault returns the named build profile, or a default if the
// manifest does not declare one: "release" defaults to opt_level 3,
// debug assertions off and abort panics; any other name defaults to
// opt_level 0, debug assertions on and unwind panics.
func (m *Manifest) ProfileOrDefault(name string) BuildProfile {
	if p, ok := m.Build[name]; ok {
		return p
	}
	if name == "release" {
		return BuildProfile{OptLevel: 3, Debug: false, PanicStrategy: "abort"}
	}
	return BuildProfile{OptLevel: 0, Debug: true, PanicStrategy: "unwind"}
}
