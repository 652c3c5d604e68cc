// Package document holds immutable parsed versions of QML files.
package document

import (
	"sort"
	"unicode/utf8"

	"github.com/jward/qmlhover/internal/ast"
	"github.com/jward/qmlhover/internal/parser"
)

// Severity of a diagnostic, numbered like LSP DiagnosticSeverity.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "info"
	case SeverityHint:
		return "hint"
	}
	return "unknown"
}

// Diagnostic is a message attached to a source range. The range is treated
// as inclusive on both ends when matching a cursor offset.
type Diagnostic struct {
	Begin    int
	End      int
	Severity Severity
	Message  string
	Source   string
}

// Covers reports whether offset falls within [Begin, End].
func (d Diagnostic) Covers(offset int) bool {
	return offset >= d.Begin && offset <= d.End
}

// Document is one parsed version of a file. It is never mutated after New
// returns; edits produce a new Document with a higher revision.
type Document struct {
	Path        string
	Revision    int
	Program     *ast.Program
	Diagnostics []Diagnostic

	source []byte
	lines  []int // byte offset of each line start
}

// New parses src and returns the resulting document. Syntax errors are
// reported through Diagnostics, never as an error return.
func New(path string, revision int, src []byte) *Document {
	prog, errs := parser.Parse(src)
	d := &Document{
		Path:     path,
		Revision: revision,
		Program:  prog,
		source:   src,
		lines:    lineStarts(src),
	}
	for _, e := range errs {
		d.Diagnostics = append(d.Diagnostics, Diagnostic{
			Begin:    e.Span.Begin,
			End:      e.Span.End,
			Severity: SeverityError,
			Message:  e.Message,
			Source:   "syntax",
		})
	}
	return d
}

// Source returns the full document text.
func (d *Document) Source() string {
	return string(d.source)
}

// Text returns the source covered by span, clamped to the document.
func (d *Document) Text(span ast.Span) string {
	if !span.Valid() {
		return ""
	}
	begin, end := span.Begin, span.End
	if end > len(d.source) {
		end = len(d.source)
	}
	if begin > end {
		return ""
	}
	return string(d.source[begin:end])
}

// Len is the source length in bytes.
func (d *Document) Len() int {
	return len(d.source)
}

// AstPath returns every node enclosing offset, outermost first.
func (d *Document) AstPath(offset int) []ast.Node {
	if d.Program == nil {
		return nil
	}
	return ast.PathAt(d.Program, offset)
}

// RangePath returns the object definitions and bindings whose brace interior
// contains offset, outermost first. The braces themselves are excluded, so an
// empty initializer `{}` never contributes.
func (d *Document) RangePath(offset int) []ast.Node {
	var out []ast.Node
	for _, n := range d.AstPath(offset) {
		init := ast.Initializer(n)
		if init == nil {
			continue
		}
		if init.Interior().Contains(offset) {
			out = append(out, n)
		}
	}
	return out
}

func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// OffsetAt converts a zero-based line and UTF-16 character index into a byte
// offset. Positions past the end of a line clamp to the line end.
func (d *Document) OffsetAt(line, character int) int {
	if line < 0 {
		return 0
	}
	if line >= len(d.lines) {
		return len(d.source)
	}
	offset := d.lines[line]
	end := len(d.source)
	if line+1 < len(d.lines) {
		end = d.lines[line+1] - 1
	}
	for units := 0; offset < end && units < character; {
		r, size := utf8.DecodeRune(d.source[offset:end])
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		offset += size
	}
	return offset
}

// PositionAt converts a byte offset into a zero-based line and UTF-16
// character index.
func (d *Document) PositionAt(offset int) (line, character int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.source) {
		offset = len(d.source)
	}
	line = sort.Search(len(d.lines), func(i int) bool { return d.lines[i] > offset }) - 1
	for pos := d.lines[line]; pos < offset; {
		r, size := utf8.DecodeRune(d.source[pos:offset])
		if r >= 0x10000 {
			character += 2
		} else {
			character++
		}
		pos += size
	}
	return line, character
}
