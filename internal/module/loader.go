package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tml-lang/tmlc/internal/ast"
	tmlerrors "github.com/tml-lang/tmlc/internal/errors"
	"github.com/tml-lang/tmlc/internal/hash"
	"github.com/tml-lang/tmlc/internal/lexer"
	"github.com/tml-lang/tmlc/internal/parser"
	"github.com/tml-lang/tmlc/internal/source"
)

// Loader resolves `use` paths, parses referenced modules, and populates
// a shared Registry, implementing the guarded load procedure of
// spec.md §4.4.
type Loader struct {
	Registry *Registry
	Resolver *Resolver
	Cache    *MetaCache // optional; nil disables the binary metadata cache

	mu           sync.Mutex
	loadingStack []string
	loadingSet   map[string]bool
}

// NewLoader creates a Loader with a fresh registry and resolver and the
// binary metadata cache rooted at cacheDir (empty disables caching).
func NewLoader(cacheDir string) *Loader {
	var mc *MetaCache
	if cacheDir != "" {
		mc = NewMetaCache(cacheDir)
	}
	return &Loader{
		Registry:   NewRegistry(),
		Resolver:   NewResolver(),
		Cache:      mc,
		loadingSet: map[string]bool{},
	}
}

// Load resolves importPath relative to currentFile (empty for a
// top-level compilation unit) and loads it, recursively loading its
// dependencies. Per spec.md §4.4 step 1, re-entering a module already
// on the load stack returns success immediately — loading is
// idempotent and reentrancy-safe, the cycle breaks without failing
// compilation.
func (l *Loader) Load(importPath, currentFile string) (*Module, error) {
	filePath, err := l.Resolver.ResolveImport(importPath, currentFile)
	if err != nil {
		return nil, &LoadError{Code: tmlerrors.R001, Path: importPath, Message: fmt.Sprintf("module not found: %s", importPath), Cause: err}
	}
	identity, err := l.Resolver.GetModuleIdentity(filePath)
	if err != nil {
		identity = importPath
	}
	return l.loadIdentity(identity, filePath)
}

// LoadFile loads a module given its resolved source file directly (the
// entry point for a compilation unit's root file).
func (l *Loader) LoadFile(filePath string) (*Module, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	identity, err := l.Resolver.GetModuleIdentity(abs)
	if err != nil {
		identity = filepath.Base(abs)
	}
	return l.loadIdentity(identity, abs)
}

func (l *Loader) loadIdentity(identity, filePath string) (*Module, error) {
	if mod := l.Registry.Get(identity); mod != nil {
		return mod, nil
	}
	if mod := l.Registry.libraryCached(identity); mod != nil {
		l.Registry.register(mod)
		return mod, nil
	}

	l.mu.Lock()
	if l.loadingSet[identity] {
		// Step 1: already loading — break the cycle, return success.
		// The outer-most load of this identity finishes populating it.
		l.mu.Unlock()
		return newModule(identity), nil
	}
	l.loadingSet[identity] = true
	l.loadingStack = append(l.loadingStack, identity)
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.loadingSet, identity)
		if n := len(l.loadingStack); n > 0 {
			l.loadingStack = l.loadingStack[:n-1]
		}
		l.mu.Unlock()
	}()

	mod, fromCache, err := l.parseOrLoadFromCache(identity, filePath)
	if err != nil {
		return nil, err
	}

	if !fromCache {
		l.registerDeclarations(mod, mod.parsedFiles)
		l.synthesizeDefaultImpls(mod)
		if err := l.resolveImports(mod); err != nil {
			return nil, err
		}
	}

	l.Registry.register(mod)
	l.Registry.cacheLibrary(mod)
	if l.Cache != nil && !fromCache {
		_ = l.Cache.Store(mod) // best-effort; a write failure is not fatal to compilation
	}

	// Step 8: recursively load re-export targets; preload failures are
	// tolerated (silent mode).
	for _, re := range mod.ReExports {
		_, _ = l.Load(strings.Join(re.Path, "::"), filePath)
	}

	return mod, nil
}

// parseOrLoadFromCache implements step 3 and the binary-cache fast path
// of spec.md §4.4: the metadata cache is only trusted when its stored
// CRC32C source hash matches the current file's contents.
func (l *Loader) parseOrLoadFromCache(identity, filePath string) (*Module, bool, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false, &LoadError{Code: tmlerrors.R001, Path: filePath, Message: fmt.Sprintf("failed to read module file: %v", err)}
	}
	srcHash := hash.CRC32CConcat(content)

	if l.Cache != nil {
		if mod, ok := l.Cache.Load(identity, srcHash); ok {
			mod.Files = []string{filePath}
			return mod, true, nil
		}
	}

	mod := newModule(identity)
	mod.Files = []string{filePath}

	fileID := source.Files().Add(filePath, content)
	toks, lexErrs := lexer.Lex(fileID, content)
	if len(lexErrs) > 0 {
		msgs := make([]string, len(lexErrs))
		for i, e := range lexErrs {
			msgs[i] = e.Error()
		}
		return nil, false, &LoadError{Code: tmlerrors.L001, Path: filePath, Message: strings.Join(msgs, "; ")}
	}

	p := parser.New(toks)
	file := p.ParseFile(filePath)
	if p.Report().HasErrors() {
		return nil, false, &LoadError{Code: tmlerrors.P001, Path: filePath, Message: p.Report().Render(false)}
	}

	mod.parsedFiles = []*ast.File{file}
	mod.HasPureSourceFunctions = hasFunctionDecl(file)
	if mod.HasPureSourceFunctions {
		mod.SourceSnapshot = string(content)
	}
	return mod, false, nil
}

func hasFunctionDecl(f *ast.File) bool {
	for _, d := range f.Decls {
		if _, ok := d.(*ast.FuncDecl); ok {
			return true
		}
	}
	return false
}

// registerDeclarations implements step 4 of the load procedure:
// classify every top-level declaration into the Module's buckets.
func (l *Loader) registerDeclarations(mod *Module, files []*ast.File) {
	for _, f := range files {
		for _, d := range f.Decls {
			switch decl := d.(type) {
			case *ast.FuncDecl:
				mod.Functions[decl.Name] = decl // every function; Exports keeps only public + extern
			case *ast.StructDecl:
				if decl.Vis == ast.Public {
					mod.Structs[decl.Name] = decl
				} else {
					mod.InternalTypes[decl.Name] = decl
				}
			case *ast.EnumDecl:
				if decl.Vis == ast.Public {
					mod.Enums[decl.Name] = decl
				} else {
					mod.InternalTypes[decl.Name] = decl
				}
			case *ast.BehaviorDecl:
				mod.Behaviors[decl.Name] = decl
			case *ast.ClassDecl:
				mod.Classes[decl.Name] = decl
			case *ast.InterfaceDecl:
				mod.Interfaces[decl.Name] = decl
			case *ast.TypeAliasDecl:
				if decl.Vis == ast.Public {
					mod.TypeAliases[decl.Name] = decl
				}
			case *ast.ConstDecl:
				mod.Constants[decl.Name] = decl
			case *ast.ImplDecl:
				l.registerImpl(mod, decl)
			}
		}
		for _, u := range f.Uses {
			path := strings.Join(u.Path, "::")
			if u.Vis == ast.Public {
				mod.ReExports = append(mod.ReExports, ReExport{Path: u.Path, Glob: u.Glob, Items: u.Items})
				continue // re-exports are resolved and recursively loaded in step 8
			}
			if u.Glob {
				continue // private globs are expanded by resolveImports, not listed in PrivateImports
			}
			mod.PrivateImports = append(mod.PrivateImports, path)
		}
	}
}

// registerImpl registers `Type::method` entries for every method an
// impl block defines, combining the impl block's own type parameters
// with each method's, per spec.md §4.4 step 4.
func (l *Loader) registerImpl(mod *Module, impl *ast.ImplDecl) {
	typeName := typeNameOf(impl.ForType)
	for _, m := range impl.Methods {
		combined := append(append([]*ast.TypeParam{}, impl.TypeParams...), m.TypeParams...)
		synthesized := &ast.FuncDecl{
			Vis:        m.Vis,
			Name:       m.Name,
			TypeParams: combined,
			Params:     m.Params,
			ReturnType: m.ReturnType,
			Body:       m.Body,
			Sp:         m.Sp,
		}
		mod.ImplMethods[typeName+"::"+m.Name] = synthesized
	}
}

func typeNameOf(t ast.Type) string {
	if n, ok := t.(*ast.NamedType); ok {
		return n.Name
	}
	return t.String()
}

// synthesizeDefaultImpls implements step 5: for every impl implementing
// a behavior, synthesize Type::method for any behavior method carrying
// a default body that the impl did not itself override.
func (l *Loader) synthesizeDefaultImpls(mod *Module) {
	for _, f := range mod.parsedFiles {
		for _, d := range f.Decls {
			impl, ok := d.(*ast.ImplDecl)
			if !ok || impl.Behavior == "" {
				continue
			}
			beh, ok := mod.Behaviors[impl.Behavior]
			if !ok {
				continue
			}
			typeName := typeNameOf(impl.ForType)
			for _, bm := range beh.Methods {
				if bm.Body == nil {
					continue
				}
				key := typeName + "::" + bm.Name
				if _, overridden := mod.ImplMethods[key]; overridden {
					continue
				}
				mod.ImplMethods[key] = bm
			}
		}
	}
}

// resolveImports implements the `use` import semantics of spec.md §4.4:
// a plain `use X::Y::Z [as A]` adds one binding; `use X::*` enumerates
// every exported symbol of X plus every glob re-export X itself
// carries. A second distinct (module, original) binding to the same
// local name is recorded as a conflict rather than silently
// overwriting the first; a `pub use` is additionally recorded on the
// module as a ReExport.
func (l *Loader) resolveImports(mod *Module) error {
	for _, f := range mod.parsedFiles {
		for _, u := range f.Uses {
			depPath := strings.Join(u.Path, "::")
			if !u.Glob && len(u.Items) == 0 && len(u.Path) > 1 {
				// `use X::Y::Z` binds Z from module X::Y: load the parent path.
				depPath = strings.Join(u.Path[:len(u.Path)-1], "::")
			}
			dep, err := l.Load(depPath, mod.Files[0])
			if err != nil {
				continue // non-fatal during preload, per step 4's "use" bullet
			}
			if u.Glob {
				l.addGlobImports(mod, dep, map[string]bool{})
				continue
			}
			if len(u.Items) > 0 {
				for _, item := range u.Items {
					local := item.Alias
					if local == "" {
						local = item.Name
					}
					l.addImport(mod, local, depPath, item.Name)
				}
				continue
			}
			name := u.Path[len(u.Path)-1]
			l.addImport(mod, name, strings.Join(u.Path[:len(u.Path)-1], "::"), name)
		}
	}
	return nil
}

// addGlobImports recursively enumerates a module's exports and its own
// glob re-exports, guarding against re-export cycles with seen.
func (l *Loader) addGlobImports(mod, dep *Module, seen map[string]bool) {
	if seen[dep.Path] {
		return
	}
	seen[dep.Path] = true
	for name := range dep.Exports() {
		l.addImport(mod, name, dep.Path, name)
	}
	for _, re := range dep.ReExports {
		if re.Glob {
			if target := l.Registry.Get(strings.Join(re.Path, "::")); target != nil {
				l.addGlobImports(mod, target, seen)
			}
		}
	}
}

func (l *Loader) addImport(mod *Module, local, modulePath, original string) {
	imp := Import{LocalName: local, ModulePath: modulePath, OriginalName: original}
	if existing, ok := mod.Imports[local]; ok {
		if existing.ModulePath == modulePath && existing.OriginalName == original {
			return
		}
		conflicts := mod.ImportConflicts[local]
		for _, c := range conflicts {
			if c.ModulePath == modulePath && c.OriginalName == original {
				return
			}
		}
		if len(conflicts) == 0 {
			conflicts = append(conflicts, existing)
		}
		mod.ImportConflicts[local] = append(conflicts, imp)
		return
	}
	mod.Imports[local] = imp
}

// LoadError is a structured module-loading failure carrying an error
// taxonomy code from internal/errors.
type LoadError struct {
	Code    tmlerrors.Code
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string { return e.Message }
func (e *LoadError) Unwrap() error { return e.Cause }
