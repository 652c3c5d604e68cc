package qmlhover

import (
	"context"
	"fmt"

	"github.com/jward/qmlhover/internal/interp"
)

// QueryBuilder provides the editor-facing query API over an Engine.
// Documents that are not open are read from the Engine's files on first
// use.
type QueryBuilder struct {
	engine *Engine
}

// ImportSummary describes one import of a document and what it resolved to.
type ImportSummary struct {
	Kind        string // "library" or "file"
	Path        string
	As          string
	Version     string
	Line        int
	Col         int
	LibraryPath string // empty when unresolved
	Status      string // type info status for libraries
}

// HoverAt returns the hover result at a zero-based line and UTF-16 column.
// An unknown file yields an empty result.
func (q *QueryBuilder) HoverAt(file string, line, col int) (Result, error) {
	e := q.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	info, err := e.infoLocked(context.Background(), file)
	if err != nil {
		return Result{}, fmt.Errorf("hover at: %w", err)
	}
	if info == nil {
		return Result{}, nil
	}
	return e.session.IdentifyMatch(info, info.Diagnostics, info.Document.OffsetAt(line, col)), nil
}

// Hover returns the hover result at a byte offset.
func (q *QueryBuilder) Hover(file string, offset int) (Result, error) {
	e := q.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	info, err := e.infoLocked(context.Background(), file)
	if err != nil {
		return Result{}, fmt.Errorf("hover: %w", err)
	}
	if info == nil {
		return Result{}, nil
	}
	return e.session.IdentifyMatch(info, info.Diagnostics, offset), nil
}

// Diagnostics returns the syntax and semantic diagnostics of file, or nil
// for an unknown file.
func (q *QueryBuilder) Diagnostics(file string) ([]Diagnostic, error) {
	e := q.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	info, err := e.infoLocked(context.Background(), file)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: %w", err)
	}
	if info == nil {
		return nil, nil
	}
	return info.Diagnostics, nil
}

// Imports lists the imports of file in declaration order. Imports the
// document did not write, such as its own directory, are left out.
func (q *QueryBuilder) Imports(file string) ([]ImportSummary, error) {
	e := q.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	info, err := e.infoLocked(context.Background(), file)
	if err != nil {
		return nil, fmt.Errorf("imports: %w", err)
	}
	if info == nil {
		return nil, nil
	}

	snap := info.Context.Snapshot()
	var out []ImportSummary
	for _, imp := range info.Imports() {
		if imp.Info.AST == nil {
			continue
		}
		s := ImportSummary{
			Kind:        imp.Info.Kind.String(),
			Path:        imp.Info.Path,
			As:          imp.Info.As,
			Version:     imp.Info.Version,
			LibraryPath: imp.LibraryPath,
		}
		s.Line, s.Col = info.Document.PositionAt(imp.Info.AST.Span().Begin)
		if imp.Info.Kind == interp.LibraryImport && imp.LibraryPath != "" {
			s.Status = snap.LibraryInfo(imp.LibraryPath).Status.String()
		}
		out = append(out, s)
	}
	return out, nil
}

// HelpLinks returns the documentation links for a help identifier such as
// `QML.Rectangle` or `Item::width`. Without a help index it returns nil.
func (q *QueryBuilder) HelpLinks(identifier string) (map[string]string, error) {
	if q.engine.help == nil {
		return nil, nil
	}
	links, err := q.engine.help.LinksForIdentifier(identifier)
	if err != nil {
		return nil, fmt.Errorf("help links: %w", err)
	}
	return links, nil
}
