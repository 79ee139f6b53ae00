package module

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tml-lang/tmlc/internal/ast"
	"github.com/tml-lang/tmlc/internal/hash"
)

// Binary metadata cache format (spec.md §4.4): a 24-byte header followed
// by a body of length-prefixed strings and count-prefixed collections.
const (
	metaMagic        uint32 = 0x544D4D54 // "TMMT" little-endian
	metaVersionMajor uint16 = 1
	metaVersionMinor uint16 = 0
	metaHeaderSize          = 24
)

// MetaCache persists a Module's declaration surface to a ".tml.meta"
// file in the cache directory, keyed by the source's CRC32C hash so a
// stale cache entry is detected and ignored rather than trusted.
type MetaCache struct {
	dir string
}

// NewMetaCache roots a binary metadata cache at dir (created on first
// Store if it does not already exist).
func NewMetaCache(dir string) *MetaCache {
	return &MetaCache{dir: dir}
}

func (c *MetaCache) pathFor(identity string) string {
	name := strings.NewReplacer("::", "_", "/", "_").Replace(identity) + ".tml.meta"
	return filepath.Join(c.dir, name)
}

// Load reads the cached metadata for identity and returns it as a
// Module, or ok=false if no entry exists or its stored source_hash does
// not match srcHash (the file changed since it was cached).
func (c *MetaCache) Load(identity string, srcHash uint64) (*Module, bool) {
	raw, err := os.ReadFile(c.pathFor(identity))
	if err != nil {
		return nil, false
	}
	mod, storedHash, err := decodeMeta(raw)
	if err != nil {
		return nil, false
	}
	if storedHash != srcHash {
		return nil, false
	}
	mod.Path = identity
	return mod, true
}

// Store writes mod's declaration surface to the binary cache, keyed by
// the CRC32C of the concatenated contents of mod.Files in order (the
// same hash the loader computes before calling Load), so any content
// change invalidates the entry on a subsequent Load.
func (c *MetaCache) Store(mod *Module) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("metacache: create cache dir: %w", err)
	}
	chunks := make([][]byte, 0, len(mod.Files))
	for _, f := range mod.Files {
		b, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("metacache: read %s: %w", f, err)
		}
		chunks = append(chunks, b)
	}
	srcHash := hash.CRC32CConcat(chunks...)
	raw := encodeMeta(mod, srcHash)
	tmp := c.pathFor(mod.Path) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("metacache: write %s: %w", tmp, err)
	}
	return os.Rename(tmp, c.pathFor(mod.Path))
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type metaWriter struct {
	buf bytes.Buffer
}

func (w *metaWriter) writeU32(v uint32) { binary.Write(&w.buf, binary.LittleEndian, v) }

func (w *metaWriter) writeString(s string) {
	w.writeU32(uint32(len(s)))
	w.buf.WriteString(s)
}

func (w *metaWriter) writeStrings(ss []string) {
	w.writeU32(uint32(len(ss)))
	for _, s := range ss {
		w.writeString(s)
	}
}

// encodeMeta serializes mod's declaration surface (names only — the
// cache records what a dependent needs to know to skip re-parsing, not
// a full AST) into the TMMT binary format.
func encodeMeta(mod *Module, srcHash uint64) []byte {
	header := make([]byte, metaHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], metaMagic)
	binary.LittleEndian.PutUint16(header[4:6], metaVersionMajor)
	binary.LittleEndian.PutUint16(header[6:8], metaVersionMinor)
	binary.LittleEndian.PutUint64(header[8:16], srcHash)
	binary.LittleEndian.PutUint64(header[16:24], uint64(time.Now().UnixNano()))

	var w metaWriter
	w.writeStrings(mod.Files)
	w.writeStrings(sortedKeys(mod.Functions))
	w.writeStrings(sortedKeys(mod.Structs))
	w.writeStrings(sortedKeys(mod.Enums))
	w.writeStrings(sortedKeys(mod.Behaviors))
	w.writeStrings(sortedKeys(mod.Classes))
	w.writeStrings(sortedKeys(mod.Interfaces))
	w.writeStrings(sortedKeys(mod.TypeAliases))
	w.writeStrings(sortedKeys(mod.Constants))
	w.writeStrings(sortedKeys(mod.ImplMethods))
	w.writeStrings(mod.PrivateImports)

	w.writeU32(uint32(len(mod.ReExports)))
	for _, re := range mod.ReExports {
		w.writeStrings(re.Path)
		if re.Glob {
			w.writeU32(1)
		} else {
			w.writeU32(0)
		}
		w.writeU32(uint32(len(re.Items)))
		for _, it := range re.Items {
			w.writeString(it.Name)
			w.writeString(it.Alias)
		}
	}

	if mod.HasPureSourceFunctions {
		w.writeU32(1)
		w.writeString(mod.SourceSnapshot)
	} else {
		w.writeU32(0)
	}

	return append(header, w.buf.Bytes()...)
}

// decodeMeta is the inverse of encodeMeta. It only restores the
// declaration-name surface (function/struct/enum/... name sets), not
// full FuncDecl bodies — a cache hit tells the loader which names a
// module exports without forcing a re-parse. parsedFiles is left nil on
// a hit, so nothing that needs a full declaration AST (e.g. default-impl
// synthesis) runs for a module restored from the cache.
func decodeMeta(raw []byte) (*Module, uint64, error) {
	if len(raw) < metaHeaderSize {
		return nil, 0, fmt.Errorf("metacache: truncated header")
	}
	if binary.LittleEndian.Uint32(raw[0:4]) != metaMagic {
		return nil, 0, fmt.Errorf("metacache: bad magic")
	}
	if binary.LittleEndian.Uint16(raw[4:6]) != metaVersionMajor {
		return nil, 0, fmt.Errorf("metacache: unsupported version")
	}
	srcHash := binary.LittleEndian.Uint64(raw[8:16])

	r := bytes.NewReader(raw[metaHeaderSize:])
	readU32 := func() (uint32, error) {
		var v uint32
		err := binary.Read(r, binary.LittleEndian, &v)
		return v, err
	}
	readString := func() (string, error) {
		n, err := readU32()
		if err != nil {
			return "", err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		return string(buf), nil
	}
	readStrings := func() ([]string, error) {
		n, err := readU32()
		if err != nil {
			return nil, err
		}
		out := make([]string, n)
		for i := range out {
			s, err := readString()
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return out, nil
	}

	mod := newModule("")
	var err error
	fields := []*[]string{
		&mod.Files,
	}
	for _, f := range fields {
		if *f, err = readStrings(); err != nil {
			return nil, 0, err
		}
	}

	funcNames, err := readStrings()
	if err != nil {
		return nil, 0, err
	}
	structNames, err := readStrings()
	if err != nil {
		return nil, 0, err
	}
	enumNames, err := readStrings()
	if err != nil {
		return nil, 0, err
	}
	behaviorNames, err := readStrings()
	if err != nil {
		return nil, 0, err
	}
	classNames, err := readStrings()
	if err != nil {
		return nil, 0, err
	}
	interfaceNames, err := readStrings()
	if err != nil {
		return nil, 0, err
	}
	aliasNames, err := readStrings()
	if err != nil {
		return nil, 0, err
	}
	constNames, err := readStrings()
	if err != nil {
		return nil, 0, err
	}
	implNames, err := readStrings()
	if err != nil {
		return nil, 0, err
	}
	if mod.PrivateImports, err = readStrings(); err != nil {
		return nil, 0, err
	}

	for _, n := range funcNames {
		mod.Functions[n] = &ast.FuncDecl{Vis: ast.Public, Name: n}
	}
	for _, n := range structNames {
		mod.Structs[n] = &ast.StructDecl{Vis: ast.Public, Name: n}
	}
	for _, n := range enumNames {
		mod.Enums[n] = &ast.EnumDecl{Vis: ast.Public, Name: n}
	}
	for _, n := range behaviorNames {
		mod.Behaviors[n] = &ast.BehaviorDecl{Name: n}
	}
	for _, n := range classNames {
		mod.Classes[n] = &ast.ClassDecl{Vis: ast.Public, Name: n}
	}
	for _, n := range interfaceNames {
		mod.Interfaces[n] = &ast.InterfaceDecl{Name: n}
	}
	for _, n := range aliasNames {
		mod.TypeAliases[n] = &ast.TypeAliasDecl{Vis: ast.Public, Name: n}
	}
	for _, n := range constNames {
		mod.Constants[n] = &ast.ConstDecl{Vis: ast.Public, Name: n}
	}
	for _, n := range implNames {
		mod.ImplMethods[n] = &ast.FuncDecl{Vis: ast.Public, Name: n}
	}

	reCount, err := readU32()
	if err != nil {
		return nil, 0, err
	}
	for i := uint32(0); i < reCount; i++ {
		path, err := readStrings()
		if err != nil {
			return nil, 0, err
		}
		globFlag, err := readU32()
		if err != nil {
			return nil, 0, err
		}
		itemCount, err := readU32()
		if err != nil {
			return nil, 0, err
		}
		items := make([]ast.UseItem, itemCount)
		for j := range items {
			name, err := readString()
			if err != nil {
				return nil, 0, err
			}
			alias, err := readString()
			if err != nil {
				return nil, 0, err
			}
			items[j] = ast.UseItem{Name: name, Alias: alias}
		}
		mod.ReExports = append(mod.ReExports, ReExport{Path: path, Glob: globFlag == 1, Items: items})
	}

	hasSnapshot, err := readU32()
	if err != nil {
		return nil, 0, err
	}
	if hasSnapshot == 1 {
		mod.HasPureSourceFunctions = true
		if mod.SourceSnapshot, err = readString(); err != nil {
			return nil, 0, err
		}
	}

	return mod, srcHash, nil
}
