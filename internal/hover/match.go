package hover

import (
	"strings"

	"github.com/jward/qmlhover/internal/ast"
	"github.com/jward/qmlhover/internal/colors"
	"github.com/jward/qmlhover/internal/document"
	"github.com/jward/qmlhover/internal/interp"
)

// MatchDiagnostic returns the message of the first diagnostic whose range
// contains offset, both ends inclusive.
func MatchDiagnostic(diags []document.Diagnostic, offset int) (Result, bool) {
	for _, d := range diags {
		if d.Covers(offset) {
			return Result{Kind: Text, Text: d.Message}, true
		}
	}
	return Result{}, false
}

// MatchImport describes the import clause at the end of astPath. The import
// node is looked for in the last and the second to last position.
func MatchImport(sc *interp.ScopeChain, doc *document.Document, astPath []ast.Node) (Result, bool) {
	var imp *ast.UiImport
	if n := len(astPath); n >= 1 {
		imp, _ = astPath[n-1].(*ast.UiImport)
		if imp == nil && n >= 2 {
			imp, _ = astPath[n-2].(*ast.UiImport)
		}
	}
	if imp == nil || sc == nil {
		return Result{}, false
	}
	ctx := sc.Context()
	for _, i := range ctx.Imports(doc) {
		if i.Info.AST != imp {
			continue
		}
		if i.Info.Kind == interp.LibraryImport && i.LibraryPath != "" {
			msg := "Library at " + i.LibraryPath
			switch ctx.Snapshot().LibraryInfo(i.LibraryPath).Status {
			case interp.DumpDone:
				msg += "\nDumped plugins successfully."
			case interp.TypeInfoFileDone:
				msg += "\nRead typeinfo files successfully."
			}
			return Result{Kind: Text, Text: msg}, true
		}
		return Result{Kind: Text, Text: i.Info.Path}, true
	}
	return Result{}, false
}

var literalCleaner = strings.NewReplacer("'", "", `"`, "", ";", "")

// MatchColor recognises a color binding under the cursor: a script binding
// or property declaration in the innermost object of rangePath whose value
// is a color and whose text parses as one.
func MatchColor(sc *interp.ScopeChain, doc *document.Document, rangePath []ast.Node, offset int) (Result, bool) {
	if sc == nil || doc == nil || len(rangePath) == 0 {
		return Result{}, false
	}
	init := ast.Initializer(rangePath[len(rangePath)-1])
	if init == nil {
		return Result{}, false
	}
	var member ast.Member
	for _, m := range init.Members {
		if m.Span().Contains(offset) {
			member = m
			break
		}
	}

	var literal string
	switch m := member.(type) {
	case *ast.UiScriptBinding:
		if m.QualifiedID == nil || len(m.QualifiedID.Segments) == 0 || !inStatement(m.Statement, offset) {
			break
		}
		if sc.Evaluate(m.QualifiedID) == interp.Color {
			literal = doc.Text(m.Statement.Span())
		}
	case *ast.UiPublicMember:
		if m.Name == "" || !inStatement(m.Statement, offset) {
			break
		}
		v, _ := sc.Lookup(m.Name)
		if ref, ok := v.(*interp.Reference); ok {
			v = sc.Context().LookupReference(ref)
		}
		if v == interp.Color {
			literal = doc.Text(m.Statement.Span())
		}
	}
	if literal == "" {
		return Result{}, false
	}

	literal = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(literal), ";"))
	literal = literalCleaner.Replace(literal)
	c, ok := colors.Parse(literal)
	if !ok {
		return Result{}, false
	}
	return Result{Kind: Color, Text: literal, Color: c}, true
}

func inStatement(st ast.Statement, offset int) bool {
	return st != nil && st.Span().Contains(offset)
}
