// Package module implements path resolution, recursive loading, and the
// process-local registry of TML modules: a loader/resolver split with
// cycle-break-to-success semantics for modules re-entered mid-load.
package module

import (
	"strings"
	"sync"

	"github.com/tml-lang/tmlc/internal/ast"
)

// Import records one resolved `local_name → (module_path, original_name)`
// binding, produced by either a `use X::Y::Z [as A]` or a glob `use X::*`.
type Import struct {
	LocalName    string
	ModulePath   string
	OriginalName string
}

// ReExport is a `pub use` declaration, recorded verbatim so a dependent
// module can recursively enumerate re-exported symbols without
// re-parsing the exporting module's source.
type ReExport struct {
	Path  []string
	Glob  bool
	Items []ast.UseItem
}

// Module is the unit of declaration and namespace the loader operates
// on, backed by one or more source files in a directory (spec.md §4.2).
type Module struct {
	Path string // dotted/"::"-joined module path, e.g. "std::collections"

	Files []string // absolute source file paths contributing to this module

	// parsedFiles holds the freshly-parsed ASTs for a module loaded this
	// run (nil when the module was restored from the binary metadata
	// cache, since step 4/5/6 of the load procedure are then skipped).
	parsedFiles []*ast.File

	Functions     map[string]*ast.FuncDecl
	Structs       map[string]*ast.StructDecl
	Enums         map[string]*ast.EnumDecl
	Behaviors     map[string]*ast.BehaviorDecl
	Classes       map[string]*ast.ClassDecl
	Interfaces    map[string]*ast.InterfaceDecl
	TypeAliases   map[string]*ast.TypeAliasDecl
	Constants     map[string]*ast.ConstDecl
	InternalTypes map[string]ast.Decl // private structs/enums, kept for internal impl compilation

	// ImplMethods maps "Type::method" to its synthesized FuncDecl,
	// including behavior-default methods an impl did not override.
	ImplMethods map[string]*ast.FuncDecl

	ReExports      []ReExport
	PrivateImports []string // module paths pulled in by non-pub use, for cache invalidation

	HasPureSourceFunctions bool
	SourceSnapshot         string // preprocessed source, set when HasPureSourceFunctions

	// Imports is the flattened, conflict-checked local-name → origin table
	// built once every `use` decl (direct and glob) has been resolved.
	Imports         map[string]Import
	ImportConflicts map[string][]Import
}

func newModule(path string) *Module {
	return &Module{
		Path:            path,
		Functions:       map[string]*ast.FuncDecl{},
		Structs:         map[string]*ast.StructDecl{},
		Enums:           map[string]*ast.EnumDecl{},
		Behaviors:       map[string]*ast.BehaviorDecl{},
		Classes:         map[string]*ast.ClassDecl{},
		Interfaces:      map[string]*ast.InterfaceDecl{},
		TypeAliases:     map[string]*ast.TypeAliasDecl{},
		Constants:       map[string]*ast.ConstDecl{},
		InternalTypes:   map[string]ast.Decl{},
		ImplMethods:     map[string]*ast.FuncDecl{},
		Imports:         map[string]Import{},
		ImportConflicts: map[string][]Import{},
	}
}

// Exports enumerates every symbol this module makes available to a
// `use` of it (plain or glob), independent of whether it is subsequently
// re-exported: public or extern functions, public structs/enums/classes/
// type aliases/constants, and every behavior and interface.
func (m *Module) Exports() map[string]ast.Decl {
	out := make(map[string]ast.Decl, len(m.Functions)+len(m.Structs)+len(m.Enums))
	for n, d := range m.Functions {
		if d.Vis == ast.Public || d.IsExtern {
			out[n] = d
		}
	}
	for n, d := range m.Structs {
		if d.Vis == ast.Public {
			out[n] = d
		}
	}
	for n, d := range m.Enums {
		if d.Vis == ast.Public {
			out[n] = d
		}
	}
	for n, d := range m.Behaviors {
		out[n] = d
	}
	for n, d := range m.Classes {
		if d.Vis == ast.Public {
			out[n] = d
		}
	}
	for n, d := range m.Interfaces {
		out[n] = d
	}
	for n, d := range m.TypeAliases {
		if d.Vis == ast.Public {
			out[n] = d
		}
	}
	for n, d := range m.Constants {
		if d.Vis == ast.Public {
			out[n] = d
		}
	}
	return out
}

// Registry is the process-local module_path → Module map (spec.md §4.2),
// plus the process-wide library-module cache, both mutex-guarded
// single-writer/many-reader per the concurrency notes in spec.md §8.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module

	libMu    sync.RWMutex
	libCache map[string]*Module
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{
		modules:  map[string]*Module{},
		libCache: map[string]*Module{},
	}
}

// Get returns a registered module by path, or nil if not yet loaded.
func (r *Registry) Get(path string) *Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.modules[path]
}

func (r *Registry) register(mod *Module) {
	r.mu.Lock()
	r.modules[mod.Path] = mod
	r.mu.Unlock()
}

// Register makes mod resolvable by Get under its own Path, without
// going through the Loader. Callers that already hold a fully-built
// Module (type-checker fixtures, a driver restoring a dependency's
// module from its rlib metadata) use this instead of re-parsing source.
func (r *Registry) Register(mod *Module) {
	r.register(mod)
	r.cacheLibrary(mod)
}

// IsLibraryPath reports whether a module path should be memoized in the
// process-global library cache, per the "library" predicate in
// spec.md §4.4 step 7: anything under a configured library root.
func IsLibraryPath(path string) bool {
	return strings.HasPrefix(path, "std::") || strings.HasPrefix(path, "lib::")
}

func (r *Registry) cacheLibrary(mod *Module) {
	if !IsLibraryPath(mod.Path) {
		return
	}
	r.libMu.Lock()
	r.libCache[mod.Path] = mod
	r.libMu.Unlock()
}

func (r *Registry) libraryCached(path string) *Module {
	r.libMu.RLock()
	defer r.libMu.RUnlock()
	return r.libCache[path]
}

// All returns every registered module, for dependency-graph consumers
// (dependency resolver, suite discovery).
func (r *Registry) All() map[string]*Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*Module, len(r.modules))
	for k, v := range r.modules {
		out[k] = v
	}
	return out
}
