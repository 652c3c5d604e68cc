package interp

import (
	"sort"
	"sync"

	"github.com/jward/qmlhover/internal/ast"
)

// ImportKind classifies an import statement.
type ImportKind int

const (
	LibraryImport ImportKind = iota
	FileImport
)

func (k ImportKind) String() string {
	if k == FileImport {
		return "file"
	}
	return "library"
}

// ImportInfo is what the document declared.
type ImportInfo struct {
	Kind    ImportKind
	Path    string // dotted library name or file path as written
	As      string
	Version string
	AST     *ast.UiImport
}

// Import pairs a declaration with what it resolved to. LibraryPath is empty
// when no library directory was found; Object holds the exported types or
// script members and is nil when nothing was loaded.
type Import struct {
	Info        ImportInfo
	LibraryPath string
	Object      *ObjectValue
}

// PluginTypeInfoStatus records how a library's types were obtained.
type PluginTypeInfoStatus int

const (
	// Pending means no type information has been read yet.
	Pending PluginTypeInfoStatus = iota
	// TypeInfoFileDone means types came from a type-info file.
	TypeInfoFileDone
	// DumpDone means types came from running the library's plugin dump.
	DumpDone
)

func (s PluginTypeInfoStatus) String() string {
	switch s {
	case TypeInfoFileDone:
		return "typeinfo"
	case DumpDone:
		return "dumped"
	}
	return "pending"
}

// LibraryInfo describes a library directory found on an import path.
type LibraryInfo struct {
	Path       string
	Status     PluginTypeInfoStatus
	Components *ObjectValue
}

// Snapshot is the set of libraries known to the engine. It is safe for
// concurrent reads while being filled.
type Snapshot struct {
	mu        sync.RWMutex
	libraries map[string]LibraryInfo
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{libraries: map[string]LibraryInfo{}}
}

// AddLibrary records or replaces a library keyed by its path.
func (s *Snapshot) AddLibrary(info LibraryInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.libraries[info.Path] = info
}

// LibraryInfo returns the library at path. Unknown paths yield a zero
// LibraryInfo with Pending status.
func (s *Snapshot) LibraryInfo(path string) LibraryInfo {
	if s == nil {
		return LibraryInfo{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.libraries[path]
}

// Libraries lists every known library path in sorted order.
func (s *Snapshot) Libraries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.libraries))
	for p := range s.libraries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
