// Package semantic resolves a document's imports, binds its objects and
// checks them, producing the Info a hover request runs against.
package semantic

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync/atomic"

	"github.com/tliron/commonlog"

	"github.com/jward/qmlhover/internal/ast"
	"github.com/jward/qmlhover/internal/document"
	"github.com/jward/qmlhover/internal/interp"
	"github.com/jward/qmlhover/internal/jsimport"
	"github.com/jward/qmlhover/internal/library"
	"github.com/jward/qmlhover/internal/typeinfo"
)

// DiagnosticSource tags diagnostics produced by Build.
const DiagnosticSource = "semantic"

// Info is the semantic analysis of one document version. It stays valid
// until the document it was built for is replaced, at which point the owner
// marks it outdated.
type Info struct {
	Document    *document.Document
	Context     *interp.Context
	Diagnostics []document.Diagnostic

	outdated atomic.Bool
}

// Valid reports whether the info carries a document and an evaluation
// context.
func (i *Info) Valid() bool {
	return i != nil && i.Document != nil && i.Document.Program != nil && i.Context != nil
}

// Outdated reports whether the document changed after the info was built.
func (i *Info) Outdated() bool {
	return i != nil && i.outdated.Load()
}

// MarkOutdated flags the info as superseded by a newer document version.
func (i *Info) MarkOutdated() {
	i.outdated.Store(true)
}

// ScopeChain returns the scopes visible at rangePath.
func (i *Info) ScopeChain(rangePath []ast.Node) *interp.ScopeChain {
	if !i.Valid() {
		return nil
	}
	return i.Context.ScopeChain(rangePath)
}

// Imports returns the document's resolved imports in declaration order.
func (i *Info) Imports() []interp.Import {
	if !i.Valid() {
		return nil
	}
	return i.Context.Imports(i.Document)
}

// Builder builds Info for documents. Library imports resolve through the
// loader; file imports read from files, in which document paths are
// interpreted.
type Builder struct {
	owner  *interp.Owner
	loader *library.Loader
	files  fs.FS
	logger commonlog.Logger
}

// NewBuilder returns a Builder. files may be nil, in which case file and
// directory imports stay unresolved without diagnostics.
func NewBuilder(loader *library.Loader, files fs.FS) *Builder {
	return &Builder{
		owner:  interp.NewOwner(),
		loader: loader,
		files:  files,
		logger: commonlog.GetLogger("qmlhover.semantic"),
	}
}

// Build resolves doc's imports and checks its objects. It never fails:
// problems surface as diagnostics.
func (b *Builder) Build(ctx context.Context, doc *document.Document) *Info {
	info := &Info{Document: doc}
	if doc == nil || doc.Program == nil {
		return info
	}
	r := &run{b: b, ctx: ctx, doc: doc}
	imports := r.resolveImports()
	bind := interp.NewBind(doc)
	info.Context = interp.NewContext(b.owner, b.snapshot(), doc, imports, bind)

	if r.complete {
		r.check(info.Context, bind)
	}
	info.Diagnostics = append(append([]document.Diagnostic(nil), doc.Diagnostics...), r.diags...)
	b.logger.Debugf("built %s rev %d: %d imports, %d diagnostics", doc.Path, doc.Revision, len(imports), len(info.Diagnostics))
	return info
}

func (b *Builder) snapshot() *interp.Snapshot {
	if b.loader == nil {
		return interp.NewSnapshot()
	}
	return b.loader.Snapshot()
}

// run holds the state of one Build call.
type run struct {
	b     *Builder
	ctx   context.Context
	doc   *document.Document
	diags []document.Diagnostic
	// complete is false when some import could not be resolved, in which
	// case unknown types and properties are not reported.
	complete bool
}

func (r *run) report(span ast.Span, sev document.Severity, format string, args ...any) {
	r.diags = append(r.diags, document.Diagnostic{
		Begin:    span.Begin,
		End:      span.End,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Source:   DiagnosticSource,
	})
}

func (r *run) resolveImports() []interp.Import {
	r.complete = true
	var imports []interp.Import
	for _, imp := range r.doc.Program.Imports {
		info := interp.ImportInfo{
			Path:    imp.Path(),
			As:      imp.ImportID,
			Version: imp.Version,
			AST:     imp,
		}
		if imp.Kind == ast.ImportFile {
			info.Kind = interp.FileImport
			imports = append(imports, r.fileImport(info, imp, imports))
			continue
		}
		info.Kind = interp.LibraryImport
		imports = append(imports, r.libraryImport(info, imp))
	}
	if implicit, ok := r.implicitDirectory(imports); ok {
		imports = append(imports, implicit)
	}
	return imports
}

func (r *run) libraryImport(info interp.ImportInfo, imp *ast.UiImport) interp.Import {
	out := interp.Import{Info: info}
	span := imp.Loc
	if imp.URI != nil {
		span = imp.URI.Loc
	}
	if r.b.loader == nil || info.Path == "" {
		r.complete = false
		return out
	}
	lib, found, err := r.b.loader.Resolve(r.ctx, info.Path, info.Version)
	if !found {
		r.complete = false
		r.report(span, document.SeverityError, "module %q not found", info.Path)
		return out
	}
	if err != nil {
		r.complete = false
		r.report(span, document.SeverityWarning, "could not load type information for %s: %s", info.Path, err)
	}
	out.LibraryPath = lib.Path
	out.Object = lib.Components
	return out
}

func (r *run) fileImport(info interp.ImportInfo, imp *ast.UiImport, earlier []interp.Import) interp.Import {
	out := interp.Import{Info: info}
	if r.b.files == nil || info.Path == "" || strings.Contains(info.Path, "://") {
		if !strings.HasSuffix(info.Path, ".js") {
			r.complete = false
		}
		return out
	}
	target := path.Join(path.Dir(r.doc.Path), info.Path)
	if strings.HasSuffix(info.Path, ".js") {
		obj, err := jsimport.Load(r.ctx, r.b.owner, r.b.files, target)
		if err != nil {
			r.report(imp.FileSpan, document.SeverityError, "could not read file %q", info.Path)
			return out
		}
		out.LibraryPath = target
		out.Object = obj
		return out
	}
	components, err := library.DirectoryComponents(r.b.files, target, "")
	if err != nil {
		r.complete = false
		r.report(imp.FileSpan, document.SeverityError, "directory %q not found", info.Path)
		return out
	}
	out.LibraryPath = target
	out.Object = typeinfo.Build(components, resolverOver(earlier)).Exports
	return out
}

// implicitDirectory makes the components next to the document visible
// without an import, as QML does.
func (r *run) implicitDirectory(imports []interp.Import) (interp.Import, bool) {
	if r.b.files == nil {
		return interp.Import{}, false
	}
	dir := path.Dir(r.doc.Path)
	components, err := library.DirectoryComponents(r.b.files, dir, path.Base(r.doc.Path))
	if err != nil || len(components) == 0 {
		return interp.Import{}, false
	}
	lib := typeinfo.Build(components, resolverOver(imports))
	return interp.Import{
		Info:        interp.ImportInfo{Kind: interp.FileImport, Path: dir},
		LibraryPath: dir,
		Object:      lib.Exports,
	}, true
}

// resolverOver resolves component names against unqualified imports.
func resolverOver(imports []interp.Import) typeinfo.Resolver {
	return func(name string) *interp.ObjectValue {
		for _, imp := range imports {
			if imp.Object == nil || imp.Info.As != "" {
				continue
			}
			if v, ok := imp.Object.Member(name); ok {
				if obj, ok := v.(*interp.ObjectValue); ok {
					return obj
				}
			}
		}
		return nil
	}
}
