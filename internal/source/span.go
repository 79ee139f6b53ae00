// Package source tracks file identities and byte spans used by every
// downstream diagnostic and most AST nodes.
package source

import (
	"fmt"
	"os"
	"sync"
)

// FileID identifies a source file within a single compiler invocation.
type FileID int32

// Span is an immutable range within one source file.
type Span struct {
	FileID     FileID
	ByteOffset int
	Line       int
	Column     int
	Length     int
}

// String renders "path:line:column".
func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", Files().Path(s.FileID), s.Line, s.Column)
}

// End returns the span immediately following this one.
func (s Span) End() Span {
	return Span{FileID: s.FileID, ByteOffset: s.ByteOffset + s.Length, Line: s.Line, Column: s.Column + s.Length, Length: 0}
}

// Registry maps FileIDs to paths and cached contents, shared process-wide
// so every Span can render a path without carrying it inline.
type Registry struct {
	mu    sync.RWMutex
	paths []string
	bytes [][]byte
}

var global = &Registry{}

// Files returns the process-global file registry.
func Files() *Registry { return global }

// Add registers a file and returns its FileID. Re-adding the same path
// returns the existing id.
func (r *Registry) Add(path string, content []byte) FileID {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.paths {
		if p == path {
			return FileID(i)
		}
	}
	r.paths = append(r.paths, path)
	r.bytes = append(r.bytes, content)
	return FileID(len(r.paths) - 1)
}

// Load reads a file from disk and registers it.
func (r *Registry) Load(path string) (FileID, []byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return -1, nil, err
	}
	return r.Add(path, content), content, nil
}

// Path returns the path for a FileID, or "<unknown>" if out of range.
func (r *Registry) Path(id FileID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) < 0 || int(id) >= len(r.paths) {
		return "<unknown>"
	}
	return r.paths[id]
}

// Content returns the bytes for a FileID.
func (r *Registry) Content(id FileID) []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) < 0 || int(id) >= len(r.bytes) {
		return nil
	}
	return r.bytes[id]
}

// Reset clears the registry. Used between independent test cases.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = nil
	r.bytes = nil
}
