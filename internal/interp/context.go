package interp

import (
	"strings"

	"github.com/jward/qmlhover/internal/ast"
	"github.com/jward/qmlhover/internal/document"
)

// RefKind tells Context.LookupReference how to resolve a Reference.
type RefKind int

const (
	// RefType names a component type, resolved through the document imports.
	RefType RefKind = iota
	// RefProperty is a declared property; its value follows from the
	// declared type, or from the bound expression for alias and var.
	RefProperty
	// RefGroup is a grouped property such as `anchors { }`: the value of
	// member Name on Owner.
	RefGroup
)

// Reference is a value that must be resolved through a Context before it
// can be inspected.
type Reference struct {
	Ref      RefKind
	Name     string
	TypeName string
	Node     *ast.UiPublicMember
	Owner    *ObjectValue
}

func (r *Reference) Kind() Kind { return KindReference }
func (r *Reference) value()     {}

const maxDerefDepth = 16

// Context is the evaluation environment for one document: global builtins,
// resolved imports, the library snapshot and the document's bound objects.
type Context struct {
	owner    *Owner
	snapshot *Snapshot
	doc      *document.Document
	imports  []Import
	bind     *Bind

	types     *ObjectValue
	jsImports *ObjectValue
	resolving map[*Reference]bool
}

// NewContext assembles the evaluation environment for doc. The imports are
// expected in declaration order.
func NewContext(owner *Owner, snapshot *Snapshot, doc *document.Document, imports []Import, bind *Bind) *Context {
	c := &Context{
		owner:     owner,
		snapshot:  snapshot,
		doc:       doc,
		imports:   imports,
		bind:      bind,
		types:     NewObject("", nil),
		jsImports: NewObject("", nil),
		resolving: map[*Reference]bool{},
	}
	for _, imp := range imports {
		if imp.Object == nil {
			continue
		}
		switch {
		case imp.Info.Kind == FileImport && imp.Info.As != "":
			c.jsImports.SetMember(imp.Info.As, imp.Object)
		case imp.Info.As != "":
			c.types.SetMember(imp.Info.As, imp.Object)
		default:
			for _, name := range imp.Object.MemberNames() {
				if _, taken := c.types.Member(name); taken {
					continue
				}
				v, _ := imp.Object.Member(name)
				c.types.SetMember(name, v)
			}
		}
	}
	return c
}

// Owner returns the value owner that supplies builtins and type ids.
func (c *Context) Owner() *Owner { return c.owner }

// Snapshot returns the library snapshot the imports were resolved against.
func (c *Context) Snapshot() *Snapshot { return c.snapshot }

// Document returns the document this context was built for.
func (c *Context) Document() *document.Document { return c.doc }

// Bind returns the document's bound objects.
func (c *Context) Bind() *Bind { return c.bind }

// Imports returns the imports recorded for doc, or nil for any other
// document.
func (c *Context) Imports(doc *document.Document) []Import {
	if doc != c.doc {
		return nil
	}
	return c.imports
}

// LookupType resolves a possibly qualified type name such as `Rectangle` or
// `QQ.Rectangle` against the document imports.
func (c *Context) LookupType(name string) *ObjectValue {
	if name == "" {
		return nil
	}
	segments := strings.Split(name, ".")
	var cur Value = c.types
	for _, seg := range segments {
		obj, ok := cur.(*ObjectValue)
		if !ok {
			return nil
		}
		v, found := obj.Member(seg)
		if !found {
			return nil
		}
		cur = v
	}
	obj, _ := cur.(*ObjectValue)
	return obj
}

// LookupReference resolves one level of indirection. The result may itself
// be a Reference; use Deref to resolve fully. Unresolvable references yield
// Undefined.
func (c *Context) LookupReference(ref *Reference) Value {
	if ref == nil {
		return Undefined
	}
	if c.resolving[ref] {
		return Undefined
	}
	c.resolving[ref] = true
	defer delete(c.resolving, ref)

	switch ref.Ref {
	case RefType:
		if obj := c.LookupType(ref.TypeName); obj != nil {
			return obj
		}
	case RefGroup:
		if ref.Owner != nil {
			if v, _ := ref.Owner.LookupMember(ref.Name, c); v != nil {
				return c.Deref(v)
			}
		}
	case RefProperty:
		return c.propertyValue(ref)
	}
	return Undefined
}

func (c *Context) propertyValue(ref *Reference) Value {
	typ := ref.TypeName
	if ref.Node != nil && ref.Node.Statement != nil {
		switch typ {
		case "", "alias", "var", "variant":
			sc := c.scopeChainFor(ref.Owner)
			if v := sc.Evaluate(ref.Node.Statement); v != nil {
				return v
			}
			return Unknown
		}
	}
	if typ == "alias" {
		return Unknown
	}
	if v := ValueForTypeName(typ); v != nil {
		return v
	}
	if strings.Contains(typ, "<") {
		return Undefined
	}
	if obj := c.LookupType(typ); obj != nil {
		return obj
	}
	return Undefined
}

// Deref follows references until a concrete value is reached.
func (c *Context) Deref(v Value) Value {
	for i := 0; i < maxDerefDepth; i++ {
		ref, ok := v.(*Reference)
		if !ok {
			return v
		}
		v = c.LookupReference(ref)
	}
	if _, ok := v.(*Reference); ok {
		return Unknown
	}
	return v
}

// ScopeChain returns the scopes visible at rangePath, the list of object
// definitions and bindings enclosing the cursor.
func (c *Context) ScopeChain(rangePath []ast.Node) *ScopeChain {
	var innermost *ObjectValue
	if c.bind != nil {
		for i := len(rangePath) - 1; i >= 0 && innermost == nil; i-- {
			innermost = c.bind.ObjectFor(rangePath[i])
		}
	}
	return c.scopeChainFor(innermost)
}

func (c *Context) scopeChainFor(innermost *ObjectValue) *ScopeChain {
	scopes := []*ObjectValue{c.owner.Global(), c.types, c.jsImports}
	if c.bind != nil {
		scopes = append(scopes, c.bind.IDs())
		if root := c.bind.Root(); root != nil {
			scopes = append(scopes, root)
		}
	}
	if innermost != nil && innermost != scopes[len(scopes)-1] {
		scopes = append(scopes, innermost)
	}
	return &ScopeChain{ctx: c, doc: c.doc, scopes: scopes}
}
