// Package hover resolves what the cursor points at in a QML document: a
// diagnostic, an import, a color literal, or an expression whose value gets
// a type label and, when documented, a help link.
//
// The matchers run in a fixed priority order, driven by Session:
//
//	diagnostic > import (outside object bodies) > color > label + help
//
// The first one that matches decides the result. The only combination is a
// plain label together with a help link for the same node.
package hover

import (
	"github.com/tliron/commonlog"

	"github.com/jward/qmlhover/internal/ast"
	"github.com/jward/qmlhover/internal/colors"
	"github.com/jward/qmlhover/internal/document"
)

// Kind discriminates Result.
type Kind int

const (
	Empty Kind = iota
	Text
	Color
	Help
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Color:
		return "color"
	case Help:
		return "help"
	}
	return "empty"
}

// Result is the outcome of one hover request. For Color results Text holds
// the cleaned literal. Help may accompany a Text result.
type Result struct {
	Kind  Kind
	Text  string
	Color colors.Color
	Help  *HelpItem
}

// IsEmpty reports whether nothing was resolved.
func (r Result) IsEmpty() bool {
	return r.Kind == Empty
}

// Category tells what a help identifier documents.
type Category int

const (
	Component Category = iota
	Property
)

func (c Category) String() string {
	if c == Property {
		return "property"
	}
	return "component"
}

// HelpItem is a documented identifier, `QML.Rectangle` or `Item::width`.
// Name is the bare name that was hovered. Links maps link titles to URLs as
// returned by the help index.
type HelpItem struct {
	ID       string
	Name     string
	Category Category
	Links    map[string]string
}

// HelpIndex looks up documentation links. An empty result means the
// identifier is not documented.
type HelpIndex interface {
	LinksForIdentifier(id string) (map[string]string, error)
}

// DefaultHelpPrefix qualifies component names in help identifiers.
const DefaultHelpPrefix = "QML"

// NodePath holds the nodes around an offset, outermost first. Ast is every
// enclosing node; Range keeps only the object definitions and bindings
// whose brace interior contains the offset.
type NodePath struct {
	Ast   []ast.Node
	Range []ast.Node
}

// Tail returns the innermost node of the AST path, or nil.
func (p NodePath) Tail() ast.Node {
	if len(p.Ast) == 0 {
		return nil
	}
	return p.Ast[len(p.Ast)-1]
}

// Locate computes the node paths for offset. Range is empty when offset is
// outside every object body, on a brace, or inside an empty `{}`.
func Locate(doc *document.Document, offset int) NodePath {
	if doc == nil {
		return NodePath{}
	}
	return NodePath{
		Ast:   doc.AstPath(offset),
		Range: doc.RangePath(offset),
	}
}

func logger() commonlog.Logger {
	return commonlog.GetLogger("qmlhover.hover")
}
