package ast

func (n *Program) Span() Span               { return n.Loc }
func (n *UiImport) Span() Span              { return n.Loc }
func (n *UiObjectDefinition) Span() Span    { return n.Loc }
func (n *UiObjectBinding) Span() Span       { return n.Loc }
func (n *UiObjectInitializer) Span() Span   { return n.Loc }
func (n *UiScriptBinding) Span() Span       { return n.Loc }
func (n *UiPublicMember) Span() Span        { return n.Loc }
func (n *UiQualifiedId) Span() Span         { return n.Loc }
func (n *ExpressionStatement) Span() Span   { return n.Loc }
func (n *Block) Span() Span                 { return n.Loc }
func (n *IdentifierExpression) Span() Span  { return n.Loc }
func (n *FieldMemberExpression) Span() Span { return n.Loc }
func (n *CallExpression) Span() Span        { return n.Loc }
func (n *BinaryExpression) Span() Span      { return n.Loc }
func (n *UnaryExpression) Span() Span       { return n.Loc }
func (n *ConditionalExpression) Span() Span { return n.Loc }
func (n *ArrayLiteral) Span() Span          { return n.Loc }
func (n *StringLiteral) Span() Span         { return n.Loc }
func (n *NumericLiteral) Span() Span        { return n.Loc }
func (n *BooleanLiteral) Span() Span        { return n.Loc }
func (n *NullLiteral) Span() Span           { return n.Loc }
func (n *UiSourceElement) Span() Span       { return n.Loc }
func (n *ArrayMemberExpression) Span() Span { return n.Loc }
func (n *ObjectLiteral) Span() Span         { return n.Loc }
func (n *FunctionExpression) Span() Span    { return n.Loc }

func (*Program) node()               {}
func (*UiImport) node()              {}
func (*UiObjectDefinition) node()    {}
func (*UiObjectBinding) node()       {}
func (*UiObjectInitializer) node()   {}
func (*UiScriptBinding) node()       {}
func (*UiPublicMember) node()        {}
func (*UiQualifiedId) node()         {}
func (*ExpressionStatement) node()   {}
func (*Block) node()                 {}
func (*IdentifierExpression) node()  {}
func (*FieldMemberExpression) node() {}
func (*CallExpression) node()        {}
func (*BinaryExpression) node()      {}
func (*UnaryExpression) node()       {}
func (*ConditionalExpression) node() {}
func (*ArrayLiteral) node()          {}
func (*StringLiteral) node()         {}
func (*NumericLiteral) node()        {}
func (*BooleanLiteral) node()        {}
func (*NullLiteral) node()           {}
func (*UiSourceElement) node()       {}
func (*ArrayMemberExpression) node() {}
func (*ObjectLiteral) node()         {}
func (*FunctionExpression) node()    {}

func (*UiObjectDefinition) member() {}
func (*UiObjectBinding) member()    {}
func (*UiScriptBinding) member()    {}
func (*UiPublicMember) member()     {}
func (*UiSourceElement) member()    {}

func (*ExpressionStatement) statement() {}
func (*Block) statement()               {}

func (*IdentifierExpression) expression()  {}
func (*FieldMemberExpression) expression() {}
func (*CallExpression) expression()        {}
func (*BinaryExpression) expression()      {}
func (*UnaryExpression) expression()       {}
func (*ConditionalExpression) expression() {}
func (*ArrayLiteral) expression()          {}
func (*StringLiteral) expression()         {}
func (*NumericLiteral) expression()        {}
func (*BooleanLiteral) expression()        {}
func (*NullLiteral) expression()           {}
func (*ArrayMemberExpression) expression() {}
func (*ObjectLiteral) expression()         {}
func (*FunctionExpression) expression()    {}

// Children return only non-nil nodes, in source order. Typed nil pointers are
// filtered here so callers never see a non-nil interface wrapping nil.

func (n *Program) Children() []Node {
	out := make([]Node, 0, len(n.Imports)+1)
	for _, imp := range n.Imports {
		out = append(out, imp)
	}
	if n.Root != nil {
		out = append(out, n.Root)
	}
	return out
}

func (n *UiImport) Children() []Node {
	if n.URI != nil {
		return []Node{n.URI}
	}
	return nil
}

func (n *UiObjectDefinition) Children() []Node {
	var out []Node
	if n.TypeName != nil {
		out = append(out, n.TypeName)
	}
	if n.Initializer != nil {
		out = append(out, n.Initializer)
	}
	return out
}

func (n *UiObjectBinding) Children() []Node {
	var out []Node
	if n.QualifiedID != nil {
		out = append(out, n.QualifiedID)
	}
	if n.TypeName != nil {
		out = append(out, n.TypeName)
	}
	if n.Initializer != nil {
		out = append(out, n.Initializer)
	}
	return out
}

func (n *UiObjectInitializer) Children() []Node {
	out := make([]Node, 0, len(n.Members))
	for _, m := range n.Members {
		out = append(out, m)
	}
	return out
}

func (n *UiScriptBinding) Children() []Node {
	var out []Node
	if n.QualifiedID != nil {
		out = append(out, n.QualifiedID)
	}
	if n.Statement != nil {
		out = append(out, n.Statement)
	}
	return out
}

func (n *UiPublicMember) Children() []Node {
	switch {
	case n.Statement != nil:
		return []Node{n.Statement}
	case n.Object != nil:
		return []Node{n.Object}
	}
	return nil
}

func (n *UiSourceElement) Children() []Node {
	if n.Function != nil {
		return []Node{n.Function}
	}
	return nil
}

func (n *UiQualifiedId) Children() []Node { return nil }

func (n *ExpressionStatement) Children() []Node {
	if n.Expression != nil {
		return []Node{n.Expression}
	}
	return nil
}

func (n *Block) Children() []Node {
	out := make([]Node, 0, len(n.Statements))
	for _, s := range n.Statements {
		out = append(out, s)
	}
	return out
}

func (n *IdentifierExpression) Children() []Node { return nil }

func (n *FieldMemberExpression) Children() []Node {
	if n.Base != nil {
		return []Node{n.Base}
	}
	return nil
}

func (n *ArrayMemberExpression) Children() []Node {
	return expressions(n.Base, n.Index)
}

func (n *ObjectLiteral) Children() []Node {
	return expressions(n.Values...)
}

func (n *FunctionExpression) Children() []Node {
	if n.Body != nil {
		return []Node{n.Body}
	}
	return nil
}

func (n *CallExpression) Children() []Node {
	out := make([]Node, 0, len(n.Arguments)+1)
	if n.Callee != nil {
		out = append(out, n.Callee)
	}
	for _, a := range n.Arguments {
		out = append(out, a)
	}
	return out
}

func (n *BinaryExpression) Children() []Node {
	return expressions(n.Left, n.Right)
}

func (n *UnaryExpression) Children() []Node {
	return expressions(n.Operand)
}

func (n *ConditionalExpression) Children() []Node {
	return expressions(n.Test, n.Consequent, n.Alternate)
}

func (n *ArrayLiteral) Children() []Node {
	return expressions(n.Elements...)
}

func (n *StringLiteral) Children() []Node  { return nil }
func (n *NumericLiteral) Children() []Node { return nil }
func (n *BooleanLiteral) Children() []Node { return nil }
func (n *NullLiteral) Children() []Node    { return nil }

func expressions(list ...Expression) []Node {
	out := make([]Node, 0, len(list))
	for _, e := range list {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}
