package semantic

import (
	"strings"
	"unicode"

	"github.com/jward/qmlhover/internal/ast"
	"github.com/jward/qmlhover/internal/document"
	"github.com/jward/qmlhover/internal/interp"
)

// check reports component types that do not resolve and bindings to names
// the bound object does not have.
func (r *run) check(ctx *interp.Context, bind *interp.Bind) {
	root := r.doc.Program.Root
	if root == nil {
		return
	}
	r.checkObject(ctx, bind, root, root.TypeName, root.Initializer)
}

func (r *run) checkObject(ctx *interp.Context, bind *interp.Bind, n ast.Node, typeName *ast.UiQualifiedId, init *ast.UiObjectInitializer) {
	obj := bind.ObjectFor(n)
	resolved := obj != nil && len(obj.Prototypes(ctx)) > 1
	if !resolved && typeName != nil && !isGroup(typeName) {
		r.report(typeName.Loc, document.SeverityError, "unknown component %q", typeName.String())
	}
	if init == nil {
		return
	}
	for _, m := range init.Members {
		switch m := m.(type) {
		case *ast.UiScriptBinding:
			if resolved {
				r.checkBinding(ctx, obj, m.QualifiedID)
			}
		case *ast.UiObjectBinding:
			if resolved {
				r.checkBinding(ctx, obj, m.QualifiedID)
			}
			r.checkObject(ctx, bind, m, m.TypeName, m.Initializer)
		case *ast.UiObjectDefinition:
			r.checkObject(ctx, bind, m, m.TypeName, m.Initializer)
		case *ast.UiPublicMember:
			if m.Object != nil {
				r.checkObject(ctx, bind, m.Object, m.Object.TypeName, m.Object.Initializer)
			}
		}
	}
}

func (r *run) checkBinding(ctx *interp.Context, obj *interp.ObjectValue, id *ast.UiQualifiedId) {
	name := id.Name()
	if name == "" || name == "id" || unicode.IsUpper(rune(name[0])) {
		// Attached properties (Component.onCompleted, Keys.onPressed) are
		// resolved by their attaching type.
		return
	}
	if v, _ := obj.LookupMember(name, ctx); v != nil {
		return
	}
	span := id.Segments[0].Loc
	if handler, ok := handlerTarget(name); ok {
		if prop, found := strings.CutSuffix(handler, "Changed"); found {
			if v, _ := obj.LookupMember(prop, ctx); v != nil {
				return
			}
		}
		r.report(span, document.SeverityError, "invalid signal handler %q", name)
		return
	}
	r.report(span, document.SeverityError, "invalid property name %q", name)
}

// handlerTarget turns `onClicked` into `clicked`.
func handlerTarget(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, "on")
	if !ok || rest == "" || !unicode.IsUpper(rune(rest[0])) {
		return "", false
	}
	return strings.ToLower(rest[:1]) + rest[1:], true
}

// isGroup reports whether an object's type name is a grouped property such
// as `anchors` or `font` rather than a component.
func isGroup(typeName *ast.UiQualifiedId) bool {
	last := typeName.Last()
	return last != "" && unicode.IsLower(rune(last[0]))
}
