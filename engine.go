package qmlhover

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/jward/qmlhover/internal/document"
	"github.com/jward/qmlhover/internal/hover"
	"github.com/jward/qmlhover/internal/library"
	"github.com/jward/qmlhover/internal/semantic"
	"github.com/jward/qmlhover/internal/store"
	"github.com/jward/qmlhover/libraries"
)

// Engine owns the open documents, the library loader and the help index,
// and serialises hover requests.
type Engine struct {
	mu sync.Mutex

	help    *store.Store // nil without a help database
	loader  *library.Loader
	builder *semantic.Builder
	session *hover.Session
	logger  commonlog.Logger

	root        string
	files       fs.FS
	importPaths []string
	extraRoots  []library.Root
	builtins    bool
	helpPrefix  string

	docs map[string]*openDocument
}

type openDocument struct {
	doc  *document.Document
	info *semantic.Info
}

// Option configures an Engine.
type Option func(*Engine)

// WithImportPaths adds directories searched for libraries, in order,
// before the builtin libraries.
func WithImportPaths(paths ...string) Option {
	return func(e *Engine) {
		e.importPaths = append(e.importPaths, paths...)
	}
}

// WithLibraryFS adds a library root backed by fsys. name labels library
// paths in hover text.
func WithLibraryFS(name string, fsys fs.FS) Option {
	return func(e *Engine) {
		e.extraRoots = append(e.extraRoots, library.Root{Name: name, FS: fsys})
	}
}

// WithFiles sets the filesystem documents are read from and in which file
// and directory imports are resolved. Document paths are slash-separated
// paths inside fsys.
func WithFiles(fsys fs.FS) Option {
	return func(e *Engine) {
		e.files = fsys
	}
}

// WithRoot is WithFiles over a project directory on disk. It also lets
// CheckDirectory list files with git.
func WithRoot(dir string) Option {
	return func(e *Engine) {
		e.root = dir
		e.files = os.DirFS(dir)
	}
}

// WithHelpPrefix sets the qualifier of component help identifiers. An
// empty prefix keeps the default.
func WithHelpPrefix(prefix string) Option {
	return func(e *Engine) {
		if prefix != "" {
			e.helpPrefix = prefix
		}
	}
}

// WithoutBuiltins drops the embedded QtQuick libraries from the import
// paths.
func WithoutBuiltins() Option {
	return func(e *Engine) {
		e.builtins = false
	}
}

// New creates an Engine. helpDB is the SQLite help index, created if it does
// not exist; an empty helpDB disables help links.
func New(helpDB string, opts ...Option) (*Engine, error) {
	e := &Engine{
		builtins:   true,
		helpPrefix: hover.DefaultHelpPrefix,
		logger:     commonlog.GetLogger("qmlhover"),
		docs:       map[string]*openDocument{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if helpDB != "" {
		if dir := filepath.Dir(helpDB); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("qmlhover: create help directory: %w", err)
			}
		}
		s, err := store.NewStore(helpDB)
		if err != nil {
			return nil, fmt.Errorf("qmlhover: open help index: %w", err)
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, fmt.Errorf("qmlhover: migrate: %w", err)
		}
		e.help = s
	}

	var roots []library.Root
	for _, p := range e.importPaths {
		roots = append(roots, library.DirRoot(p))
	}
	roots = append(roots, e.extraRoots...)
	if e.builtins {
		roots = append(roots, library.Root{Name: libraries.RootName, FS: libraries.FS})
	}
	e.loader = library.NewLoader(nil, roots...)
	e.builder = semantic.NewBuilder(e.loader, e.files)

	var index hover.HelpIndex
	if e.help != nil {
		index = e.help
	}
	e.session = hover.NewSession(index, hover.WithHelpPrefix(e.helpPrefix))
	return e, nil
}

// Close releases the help index.
func (e *Engine) Close() error {
	if e.help == nil {
		return nil
	}
	return e.help.Close()
}

// Store returns the help index, or nil when the Engine has none.
func (e *Engine) Store() *Store {
	return e.help
}

// Query returns a new QueryBuilder over the Engine.
func (e *Engine) Query() *QueryBuilder {
	return &QueryBuilder{engine: e}
}

// Open parses and analyses src as the current content of path. Any earlier
// revision of the document is marked outdated, so hovers still running
// against it come back empty.
func (e *Engine) Open(ctx context.Context, path string, src []byte) *semantic.Info {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.openLocked(ctx, path, src)
}

func (e *Engine) openLocked(ctx context.Context, path string, src []byte) *semantic.Info {
	rev := 1
	if prev, ok := e.docs[path]; ok {
		rev = prev.doc.Revision + 1
		prev.info.MarkOutdated()
	}
	doc := document.New(path, rev, src)
	info := e.builder.Build(ctx, doc)
	e.docs[path] = &openDocument{doc: doc, info: info}
	e.logger.Debugf("opened %s rev %d", path, rev)
	return info
}

// OpenFile reads path from the Engine's files and opens it.
func (e *Engine) OpenFile(ctx context.Context, path string) (*semantic.Info, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.openFileLocked(ctx, path)
}

func (e *Engine) openFileLocked(ctx context.Context, path string) (*semantic.Info, error) {
	if e.files == nil {
		return nil, fmt.Errorf("qmlhover: open %s: no files configured", path)
	}
	src, err := fs.ReadFile(e.files, path)
	if err != nil {
		return nil, fmt.Errorf("qmlhover: open %s: %w", path, err)
	}
	return e.openLocked(ctx, path, src), nil
}

// CloseDocument forgets path. Its semantic info is marked outdated.
func (e *Engine) CloseDocument(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if prev, ok := e.docs[path]; ok {
		prev.info.MarkOutdated()
		delete(e.docs, path)
	}
}

// Info returns the current analysis of path, or nil when it is not open.
func (e *Engine) Info(path string) *semantic.Info {
	e.mu.Lock()
	defer e.mu.Unlock()
	if od, ok := e.docs[path]; ok {
		return od.info
	}
	return nil
}

// infoLocked returns the open document, reading it from files first when
// it is not open yet. A document that is neither open nor readable yields
// nil, nil.
func (e *Engine) infoLocked(ctx context.Context, path string) (*semantic.Info, error) {
	if od, ok := e.docs[path]; ok {
		return od.info, nil
	}
	if e.files == nil {
		return nil, nil
	}
	if _, err := fs.Stat(e.files, path); err != nil {
		return nil, nil
	}
	return e.openFileLocked(ctx, path)
}

// Libraries returns every library loaded so far.
func (e *Engine) Libraries() []LibraryInfo {
	snap := e.loader.Snapshot()
	paths := snap.Libraries()
	out := make([]LibraryInfo, 0, len(paths))
	for _, p := range paths {
		out = append(out, snap.LibraryInfo(p))
	}
	return out
}

// AvailableLibraries lists the dotted names of the libraries found on the
// import paths.
func (e *Engine) AvailableLibraries() []string {
	return e.loader.Discover()
}

// ImportHelpFile imports the YAML help file at path into the help index.
func (e *Engine) ImportHelpFile(path string) (ImportStats, error) {
	if e.help == nil {
		return ImportStats{}, fmt.Errorf("qmlhover: import help: no help index")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportStats{}, fmt.Errorf("qmlhover: import help: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	stats, err := e.help.ImportHelpFile(abs, data)
	if err != nil {
		return ImportStats{}, fmt.Errorf("qmlhover: import help %s: %w", path, err)
	}
	e.logger.Infof("imported %s: %d identifiers, %d links (skipped=%v)", path, stats.Identifiers, stats.Links, stats.Skipped)
	return stats, nil
}

// skipDirs are directories never searched for documents.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"build":        true,
}

// isDocument reports whether p names a QML document.
func isDocument(p string) bool {
	return strings.HasSuffix(p, ".qml")
}

// ListDocuments returns the QML documents under the Engine's files. With a
// root directory inside a git repository it uses git ls-files to respect
// .gitignore; otherwise it walks the files, skipping hidden directories,
// node_modules, vendor and build.
func (e *Engine) ListDocuments() ([]string, error) {
	if e.root != "" {
		if paths, err := gitListFiles(e.root); err == nil {
			return paths, nil
		}
	}
	if e.files == nil {
		return nil, nil
	}
	return walkListFiles(e.files)
}

// gitListFiles uses git ls-files to discover tracked and untracked (but not
// ignored) documents under root. Paths are slash-separated and relative to
// root.
func gitListFiles(root string) ([]string, error) {
	// --cached: tracked files, --others: untracked files,
	// --exclude-standard: respect .gitignore, .git/info/exclude, global excludes.
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && isDocument(line) {
			paths = append(paths, path.Clean(line))
		}
	}
	return paths, nil
}

// walkListFiles discovers documents by walking fsys.
func walkListFiles(fsys fs.FS) ([]string, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if p != "." && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return fs.SkipDir
			}
			return nil
		}
		if isDocument(p) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return paths, nil
}
