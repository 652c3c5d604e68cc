package interp

import (
	"github.com/jward/qmlhover/internal/ast"
	"github.com/jward/qmlhover/internal/document"
)

// ScopeChain is the ordered list of scope objects visible at a position,
// outermost first: global, imported types, script imports, ids, the
// component root and the innermost enclosing object.
type ScopeChain struct {
	ctx    *Context
	doc    *document.Document
	scopes []*ObjectValue
}

// Context returns the evaluation context.
func (sc *ScopeChain) Context() *Context { return sc.ctx }

// Document returns the document the chain was built for.
func (sc *ScopeChain) Document() *document.Document { return sc.doc }

// Scopes returns the scope objects, outermost first.
func (sc *ScopeChain) Scopes() []*ObjectValue {
	return append([]*ObjectValue(nil), sc.scopes...)
}

// Lookup resolves name starting at the innermost scope. It returns the raw
// value, which may be a Reference, together with the scope object it was
// found in. Unknown names yield Undefined and a nil scope.
func (sc *ScopeChain) Lookup(name string) (Value, *ObjectValue) {
	for i := len(sc.scopes) - 1; i >= 0; i-- {
		scope := sc.scopes[i]
		if v, _ := scope.LookupMember(name, sc.ctx); v != nil {
			return v, scope
		}
	}
	return Undefined, nil
}

// Evaluate computes the value of an expression-like node with references
// resolved. It returns nil for nodes that have no value, such as object
// definitions.
func (sc *ScopeChain) Evaluate(n ast.Node) Value {
	v := sc.eval(n)
	if v == nil {
		return nil
	}
	return sc.ctx.Deref(v)
}

func (sc *ScopeChain) eval(n ast.Node) Value {
	switch n := n.(type) {
	case *ast.IdentifierExpression:
		v, _ := sc.Lookup(n.Name)
		return v
	case *ast.UiQualifiedId:
		if len(n.Segments) == 0 || n.Segments[0].Name == "" {
			return nil
		}
		v, _ := sc.Lookup(n.Segments[0].Name)
		for _, seg := range n.Segments[1:] {
			v = sc.member(v, seg.Name)
		}
		return v
	case *ast.FieldMemberExpression:
		return sc.member(sc.Evaluate(n.Base), n.Name)
	case *ast.ExpressionStatement:
		return sc.eval(n.Expression)
	case *ast.StringLiteral:
		return String
	case *ast.NumericLiteral:
		return Number
	case *ast.BooleanLiteral:
		return Boolean
	case *ast.NullLiteral:
		return Null
	case *ast.ArrayLiteral:
		return sc.ctx.owner.NewArray()
	case *ast.ArrayMemberExpression:
		return Unknown
	case *ast.ObjectLiteral:
		obj := sc.ctx.owner.NewPlainObject()
		for i, key := range n.Keys {
			v := sc.Evaluate(n.Values[i])
			if v == nil {
				v = Unknown
			}
			obj.SetMember(key, v)
		}
		return obj
	case *ast.FunctionExpression:
		return &FunctionValue{Name: n.Name}
	case *ast.CallExpression:
		if fn, ok := sc.Evaluate(n.Callee).(*FunctionValue); ok && fn.Returns != nil {
			return fn.Returns
		}
		return Unknown
	case *ast.UnaryExpression:
		return sc.unary(n)
	case *ast.BinaryExpression:
		return sc.binary(n)
	case *ast.ConditionalExpression:
		cons, alt := sc.Evaluate(n.Consequent), sc.Evaluate(n.Alternate)
		if cons == alt {
			return cons
		}
		if cons != nil && alt != nil && cons.Kind() == alt.Kind() && cons.Kind() != KindObject {
			return cons
		}
		return Unknown
	}
	return nil
}

func (sc *ScopeChain) member(base Value, name string) Value {
	obj, ok := sc.ctx.Deref(base).(*ObjectValue)
	if !ok || name == "" {
		return Unknown
	}
	if v, _ := obj.LookupMember(name, sc.ctx); v != nil {
		return v
	}
	return Unknown
}

func (sc *ScopeChain) unary(n *ast.UnaryExpression) Value {
	switch n.Operator {
	case "!", "delete":
		return Boolean
	case "typeof":
		return String
	case "void":
		return Undefined
	case "new":
		target := n.Operand
		if call, ok := target.(*ast.CallExpression); ok {
			target = call.Callee
		}
		if fn, ok := sc.Evaluate(target).(*FunctionValue); ok {
			if obj, ok := fn.Returns.(*ObjectValue); ok {
				return obj
			}
		}
		return Unknown
	}
	return Number
}

func (sc *ScopeChain) binary(n *ast.BinaryExpression) Value {
	switch n.Operator {
	case "=":
		return sc.Evaluate(n.Right)
	case "&&", "||":
		return sc.Evaluate(n.Right)
	case "+", "+=":
		lhs, rhs := sc.Evaluate(n.Left), sc.Evaluate(n.Right)
		switch {
		case lhs == Number && rhs == Number:
			return Number
		case lhs == String || rhs == String:
			return String
		}
		return Unknown
	case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "in", "instanceof":
		return Boolean
	}
	return Number
}
