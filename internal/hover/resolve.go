package hover

import (
	"unicode"
	"unicode/utf8"

	"github.com/jward/qmlhover/internal/ast"
	"github.com/jward/qmlhover/internal/interp"
)

// ResolveOrdinary labels the value of node: the first class name on an
// object's prototype chain, an enum's name, or the generic type id of any
// other known value. String and numeric literals get no label.
func ResolveOrdinary(sc *interp.ScopeChain, node ast.Node) string {
	if sc == nil || node == nil {
		return ""
	}
	switch node.(type) {
	case *ast.StringLiteral, *ast.NumericLiteral:
		return ""
	}
	v := sc.Evaluate(node)
	if v == nil {
		return ""
	}
	ctx := sc.Context()

	var label string
	switch v := v.(type) {
	case *interp.ObjectValue:
		for _, proto := range v.Prototypes(ctx) {
			if name := proto.ClassName(); name != "" {
				label = name
				break
			}
		}
	case *interp.EnumValue:
		label = v.Name
	}
	if label == "" && v != interp.Undefined && v != interp.Unknown {
		label = ctx.Owner().TypeID(v)
	}
	return label
}

// ResolveHelp finds documentation for the member node refers to. Names
// starting with an uppercase letter are first tried as components,
// `<prefix>.<Name>`; otherwise, or when that is not documented, the owning
// object's prototype chain is searched for `<Class>::<name>` up to the
// object declaring the member.
func ResolveHelp(sc *interp.ScopeChain, node ast.Node, index HelpIndex, prefix string) (*HelpItem, bool) {
	if sc == nil || index == nil {
		return nil, false
	}
	if prefix == "" {
		prefix = DefaultHelpPrefix
	}
	scope, name := memberOf(sc, node)
	if scope == nil {
		return nil, false
	}
	ctx := sc.Context()

	if r, _ := utf8.DecodeRuneInString(name); unicode.IsUpper(r) {
		id := prefix + "." + name
		if links := lookupLinks(index, id); len(links) > 0 {
			return &HelpItem{ID: id, Name: name, Category: Component, Links: links}, true
		}
	}

	_, declaring := scope.LookupMember(name, ctx)
	for _, proto := range scope.Prototypes(ctx) {
		if class := proto.ClassName(); class != "" {
			id := class + "::" + name
			if links := lookupLinks(index, id); len(links) > 0 {
				return &HelpItem{ID: id, Name: name, Category: Property, Links: links}, true
			}
		}
		if proto == declaring {
			break
		}
	}
	return nil, false
}

// memberOf returns the object a member reference was found on and the
// member's name. The scope is nil when node is not a member reference.
func memberOf(sc *interp.ScopeChain, node ast.Node) (*interp.ObjectValue, string) {
	ctx := sc.Context()
	switch n := node.(type) {
	case *ast.IdentifierExpression:
		if n.Name == "" {
			return nil, ""
		}
		_, scope := sc.Lookup(n.Name)
		return scope, n.Name
	case *ast.FieldMemberExpression:
		if n.Base == nil || n.Name == "" {
			return nil, ""
		}
		base, ok := sc.Evaluate(n.Base).(*interp.ObjectValue)
		if !ok {
			return nil, ""
		}
		_, declaring := base.LookupMember(n.Name, ctx)
		return declaring, n.Name
	case *ast.UiQualifiedId:
		if len(n.Segments) == 0 || n.Segments[0].Name == "" {
			return nil, ""
		}
		name := n.Segments[0].Name
		v, scope := sc.Lookup(name)
		for _, seg := range n.Segments[1:] {
			next, ok := ctx.Deref(v).(*interp.ObjectValue)
			if !ok || seg.Name == "" {
				return nil, ""
			}
			name = seg.Name
			v, scope = next.LookupMember(name, ctx)
			if v == nil {
				return nil, ""
			}
		}
		return scope, name
	}
	return nil, ""
}

func lookupLinks(index HelpIndex, id string) map[string]string {
	links, err := index.LinksForIdentifier(id)
	if err != nil {
		logger().Warningf("help index lookup %s: %s", id, err)
		return nil
	}
	return links
}
