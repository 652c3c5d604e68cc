package ast

// Inspect traverses the tree rooted at n in depth-first order. If f returns
// false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range n.Children() {
		Inspect(c, f)
	}
}

// PathAt returns the chain of nodes enclosing offset, outermost first. The
// end of a span is treated as inclusive so that a cursor placed right after
// an identifier still resolves to it. When two siblings touch at offset the
// one starting there wins.
func PathAt(root Node, offset int) []Node {
	var path []Node
	for n := root; n != nil; n = childAt(n, offset) {
		if !n.Span().Covers(offset) {
			break
		}
		path = append(path, n)
	}
	return path
}

func childAt(n Node, offset int) Node {
	var edge Node
	for _, c := range n.Children() {
		s := c.Span()
		if s.Contains(offset) {
			return c
		}
		if s.Valid() && s.End == offset {
			edge = c
		}
	}
	return edge
}

// KindName returns a short name for the node kind, used in logs and CLI
// output.
func KindName(n Node) string {
	switch n.(type) {
	case *Program:
		return "Program"
	case *UiImport:
		return "UiImport"
	case *UiObjectDefinition:
		return "UiObjectDefinition"
	case *UiObjectBinding:
		return "UiObjectBinding"
	case *UiObjectInitializer:
		return "UiObjectInitializer"
	case *UiScriptBinding:
		return "UiScriptBinding"
	case *UiPublicMember:
		return "UiPublicMember"
	case *UiQualifiedId:
		return "UiQualifiedId"
	case *ExpressionStatement:
		return "ExpressionStatement"
	case *Block:
		return "Block"
	case *IdentifierExpression:
		return "IdentifierExpression"
	case *FieldMemberExpression:
		return "FieldMemberExpression"
	case *CallExpression:
		return "CallExpression"
	case *BinaryExpression:
		return "BinaryExpression"
	case *UnaryExpression:
		return "UnaryExpression"
	case *ConditionalExpression:
		return "ConditionalExpression"
	case *ArrayLiteral:
		return "ArrayLiteral"
	case *StringLiteral:
		return "StringLiteral"
	case *NumericLiteral:
		return "NumericLiteral"
	case *BooleanLiteral:
		return "BooleanLiteral"
	case *NullLiteral:
		return "NullLiteral"
	case *UiSourceElement:
		return "UiSourceElement"
	case *ArrayMemberExpression:
		return "ArrayMemberExpression"
	case *ObjectLiteral:
		return "ObjectLiteral"
	case *FunctionExpression:
		return "FunctionExpression"
	case nil:
		return ""
	default:
		return "Unknown"
	}
}

// Initializer returns the object initializer of an object definition or
// binding, or nil for any other node.
func Initializer(n Node) *UiObjectInitializer {
	switch n := n.(type) {
	case *UiObjectDefinition:
		return n.Initializer
	case *UiObjectBinding:
		return n.Initializer
	}
	return nil
}
