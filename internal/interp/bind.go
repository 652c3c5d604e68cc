package interp

import (
	"strings"
	"unicode"

	"github.com/jward/qmlhover/internal/ast"
	"github.com/jward/qmlhover/internal/document"
)

// Bind maps the object definitions of one document to instance values.
// Instances carry no class name of their own; their prototype is a
// reference to the component type they instantiate.
type Bind struct {
	root    *ObjectValue
	ids     *ObjectValue
	objects map[ast.Node]*ObjectValue
	idNodes map[string]ast.Node
}

// NewBind walks doc and creates an instance for every object definition and
// object binding.
func NewBind(doc *document.Document) *Bind {
	b := &Bind{
		ids:     NewObject("", nil),
		objects: map[ast.Node]*ObjectValue{},
		idNodes: map[string]ast.Node{},
	}
	if doc == nil || doc.Program == nil || doc.Program.Root == nil {
		return b
	}
	root := doc.Program.Root
	b.root = b.bindObject(root, root.TypeName, root.Initializer, nil)
	return b
}

// Root is the instance for the document's root object, or nil.
func (b *Bind) Root() *ObjectValue { return b.root }

// IDs is the scope object holding every `id:` in the document.
func (b *Bind) IDs() *ObjectValue { return b.ids }

// ObjectFor returns the instance bound to an object definition or binding.
func (b *Bind) ObjectFor(n ast.Node) *ObjectValue {
	return b.objects[n]
}

// IDNode returns the object node that declared id, if any.
func (b *Bind) IDNode(id string) ast.Node {
	return b.idNodes[id]
}

func (b *Bind) bindObject(n ast.Node, typeName *ast.UiQualifiedId, init *ast.UiObjectInitializer, parent *ObjectValue) *ObjectValue {
	var proto Value
	if name := typeName.String(); isGroupName(name) && parent != nil {
		proto = &Reference{Ref: RefGroup, Name: name, Owner: parent}
	} else {
		proto = &Reference{Ref: RefType, TypeName: name}
	}
	obj := NewObject("", proto)
	b.objects[n] = obj
	if init == nil {
		return obj
	}
	for _, m := range init.Members {
		switch m := m.(type) {
		case *ast.UiPublicMember:
			b.bindPublicMember(obj, m)
		case *ast.UiScriptBinding:
			b.bindScript(n, obj, m)
		case *ast.UiObjectDefinition:
			b.bindObject(m, m.TypeName, m.Initializer, obj)
		case *ast.UiObjectBinding:
			b.bindObject(m, m.TypeName, m.Initializer, obj)
		case *ast.UiSourceElement:
			if m.Function != nil && m.Function.Name != "" {
				obj.SetMember(m.Function.Name, &FunctionValue{Name: m.Function.Name})
			}
		}
	}
	return obj
}

func (b *Bind) bindPublicMember(obj *ObjectValue, m *ast.UiPublicMember) {
	if m.Name == "" {
		return
	}
	if m.Kind == ast.MemberSignal {
		obj.SetMember(m.Name, &FunctionValue{Name: m.Name, Returns: Undefined})
		handler := "on" + capitalize(m.Name)
		obj.SetMember(handler, &FunctionValue{Name: handler, Returns: Undefined})
		return
	}
	obj.SetMember(m.Name, &Reference{Ref: RefProperty, Name: m.Name, TypeName: m.MemberType, Node: m, Owner: obj})
	if m.Object != nil {
		b.bindObject(m.Object, m.Object.TypeName, m.Object.Initializer, obj)
	}
}

func (b *Bind) bindScript(n ast.Node, obj *ObjectValue, m *ast.UiScriptBinding) {
	if m.QualifiedID.String() != "id" {
		return
	}
	st, ok := m.Statement.(*ast.ExpressionStatement)
	if !ok {
		return
	}
	if ident, ok := st.Expression.(*ast.IdentifierExpression); ok {
		b.ids.SetMember(ident.Name, obj)
		b.idNodes[ident.Name] = n
	}
}

// isGroupName reports whether an object definition type is a grouped
// property (`anchors { }`, `font { }`) rather than a component.
func isGroupName(name string) bool {
	if name == "" {
		return false
	}
	last := name[strings.LastIndex(name, ".")+1:]
	return last != "" && unicode.IsLower(rune(last[0]))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
