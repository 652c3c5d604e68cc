// Package library finds QML library directories on a list of import roots
// and loads the component types they provide. A library directory carries a
// qmldir file and either a qmltypes.yaml type-info file or a plugin.risor
// dump script.
package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/jward/qmlhover/internal/interp"
	"github.com/jward/qmlhover/internal/runtime"
	"github.com/jward/qmlhover/internal/typeinfo"
)

// QmldirName is the module definition file of a library directory.
const QmldirName = "qmldir"

// maxDependencyDepth bounds `depends` chains.
const maxDependencyDepth = 8

// Root is one import path. Name labels library paths reported to users;
// for a directory on disk it is the directory itself.
type Root struct {
	Name string
	FS   fs.FS
}

// DirRoot returns a Root for a directory on disk.
func DirRoot(dir string) Root {
	return Root{Name: dir, FS: os.DirFS(dir)}
}

// Loader resolves library imports against its roots, in order, and records
// every library it loads in a Snapshot. Results are cached per name and
// version. A Loader is safe for concurrent use.
type Loader struct {
	roots    []Root
	snapshot *interp.Snapshot
	logger   commonlog.Logger

	mu     sync.Mutex
	loaded map[string]*entry // name@version
	byPath map[string]*entry
	order  []*entry
}

type entry struct {
	info  interp.LibraryInfo
	found bool
	err   error
	lib   *typeinfo.Library
}

// NewLoader returns a Loader over roots that records into snapshot.
func NewLoader(snapshot *interp.Snapshot, roots ...Root) *Loader {
	if snapshot == nil {
		snapshot = interp.NewSnapshot()
	}
	return &Loader{
		roots:    roots,
		snapshot: snapshot,
		logger:   commonlog.GetLogger("qmlhover.library"),
		loaded:   map[string]*entry{},
		byPath:   map[string]*entry{},
	}
}

// Snapshot returns the snapshot libraries are recorded in.
func (l *Loader) Snapshot() *interp.Snapshot { return l.snapshot }

// Resolve finds and loads the library for a dotted import name. found is
// false when no root has a matching directory. A library that was found but
// whose type information failed to load is still returned, with Pending
// status, together with the load error.
func (l *Loader) Resolve(ctx context.Context, name, version string) (info interp.LibraryInfo, found bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.resolveLocked(ctx, name, version, 0)
	return e.info, e.found, e.err
}

func (l *Loader) resolveLocked(ctx context.Context, name, version string, depth int) *entry {
	key := name + "@" + version
	if e, ok := l.loaded[key]; ok {
		return e
	}
	// Placeholder so dependency cycles terminate.
	e := &entry{}
	l.loaded[key] = e

	root, dir, ok := l.find(name, version)
	if !ok {
		l.logger.Debugf("library %s %s not found", name, version)
		return e
	}
	libPath := libraryPath(root, dir)
	if same, ok := l.byPath[libPath]; ok {
		// Another version resolved to the same directory.
		l.loaded[key] = same
		return same
	}
	l.byPath[libPath] = e
	e.found = true
	e.info.Path = libPath

	var qmldir Qmldir
	if data, err := fs.ReadFile(root.FS, path.Join(dir, QmldirName)); err == nil {
		qmldir = ParseQmldir(data)
	}
	if depth < maxDependencyDepth {
		for _, dep := range qmldir.Depends {
			if d := l.resolveLocked(ctx, dep.Module, dep.Version, depth+1); d.err != nil {
				l.logger.Warningf("library %s: dependency %s: %s", name, dep.Module, d.err)
			}
		}
	}

	components, status, err := l.typeInfo(ctx, root, dir, name)
	if err != nil {
		l.logger.Errorf("library %s: %s", name, err)
		e.err = err
	}
	fileComponents, err := FileComponents(root.FS, dir, qmldir.Components)
	if err != nil && e.err == nil {
		e.err = err
	}
	components = append(components, fileComponents...)

	e.lib = typeinfo.Build(components, l.lookupLoaded)
	e.info.Status = status
	e.info.Components = e.lib.Exports
	l.order = append(l.order, e)
	l.snapshot.AddLibrary(e.info)
	l.logger.Infof("loaded library %s from %s (%s, %d components)", name, e.info.Path, status, len(e.lib.Components))
	return e
}

// typeInfo loads the type-info file or, failing that, runs the dump script.
func (l *Loader) typeInfo(ctx context.Context, root Root, dir, name string) ([]typeinfo.Component, interp.PluginTypeInfoStatus, error) {
	f, err := root.FS.Open(path.Join(dir, typeinfo.FileName))
	if err == nil {
		defer f.Close()
		m, err := typeinfo.Decode(f)
		if err != nil {
			return nil, interp.Pending, fmt.Errorf("library: %s: %w", typeinfo.FileName, err)
		}
		return m.Components, interp.TypeInfoFileDone, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, interp.Pending, fmt.Errorf("library: open %s: %w", typeinfo.FileName, err)
	}

	script := runtime.DumpScriptPath(dir)
	if _, err := fs.Stat(root.FS, script); err != nil {
		return nil, interp.Pending, nil
	}
	rt := runtime.NewRuntime("", runtime.WithRuntimeFS(root.FS), runtime.WithLogger(l.logger))
	components, err := rt.Dump(ctx, script, name)
	if err != nil {
		return nil, interp.Pending, fmt.Errorf("library: dump: %w", err)
	}
	return components, interp.DumpDone, nil
}

// lookupLoaded finds a component in the libraries loaded so far.
func (l *Loader) lookupLoaded(name string) *interp.ObjectValue {
	for _, e := range l.order {
		if obj := e.lib.Lookup(name); obj != nil {
			return obj
		}
	}
	return nil
}

// find returns the first root holding a directory for name. Versioned
// directories (QtQuick.2.15, QtQuick.2) are preferred over the plain one.
func (l *Loader) find(name, version string) (Root, string, bool) {
	base := strings.ReplaceAll(name, ".", "/")
	candidates := []string{base}
	if version != "" {
		candidates = []string{base + "." + version}
		if major, _, ok := strings.Cut(version, "."); ok {
			candidates = append(candidates, base+"."+major)
		}
		candidates = append(candidates, base)
	}
	for _, root := range l.roots {
		for _, dir := range candidates {
			if isLibraryDir(root.FS, dir) {
				return root, dir, true
			}
		}
	}
	return Root{}, "", false
}

func isLibraryDir(fsys fs.FS, dir string) bool {
	for _, name := range []string{QmldirName, typeinfo.FileName, runtime.DumpScriptName} {
		if _, err := fs.Stat(fsys, path.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func libraryPath(root Root, dir string) string {
	if root.Name == "" {
		return dir
	}
	return filepath.Join(root.Name, filepath.FromSlash(dir))
}

// Discover lists the dotted names of every library directory under the
// roots, sorted and without duplicates.
func (l *Loader) Discover() []string {
	seen := map[string]bool{}
	for _, root := range l.roots {
		fs.WalkDir(root.FS, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() || p == "." {
				return nil
			}
			if isLibraryDir(root.FS, p) {
				seen[strings.ReplaceAll(p, "/", ".")] = true
			}
			return nil
		})
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
