// Package ast defines the syntax tree for the QML subset understood by
// qmlhover. Node kinds form a closed set: every concrete node implements the
// unexported node method, so matchers can switch over them exhaustively.
package ast

import "strings"

// Span is a half-open byte range [Begin, End) in the document source.
type Span struct {
	Begin int
	End   int
}

// NoSpan marks an optional token that is absent.
var NoSpan = Span{Begin: -1, End: -1}

// Valid reports whether the span refers to real source text.
func (s Span) Valid() bool {
	return s.Begin >= 0 && s.End >= s.Begin
}

// Contains reports whether offset lies inside the span, end exclusive.
func (s Span) Contains(offset int) bool {
	return s.Valid() && offset >= s.Begin && offset < s.End
}

// Covers reports whether offset lies inside the span, end inclusive. A cursor
// sitting right after the last character of a token still covers it.
func (s Span) Covers(offset int) bool {
	return s.Valid() && offset >= s.Begin && offset <= s.End
}

// Join returns the smallest span enclosing both a and b.
func Join(a, b Span) Span {
	switch {
	case !a.Valid():
		return b
	case !b.Valid():
		return a
	}
	out := a
	if b.Begin < out.Begin {
		out.Begin = b.Begin
	}
	if b.End > out.End {
		out.End = b.End
	}
	return out
}

// Node is any syntax tree node.
type Node interface {
	Span() Span
	Children() []Node
	node()
}

// Member is a node that may appear in an object initializer.
type Member interface {
	Node
	member()
}

// Statement is the right-hand side of a script binding or property
// declaration, or an entry of a block.
type Statement interface {
	Node
	statement()
}

// Expression is a JavaScript expression.
type Expression interface {
	Node
	expression()
}

// Program is the root of a parsed document.
type Program struct {
	Loc     Span
	Imports []*UiImport
	Root    *UiObjectDefinition
}

// ImportKind distinguishes library imports from quoted path imports.
type ImportKind int

const (
	ImportLibrary ImportKind = iota
	ImportFile
)

// UiImport is `import QtQuick 2.0 as QQ` or `import "logic.js" as Logic`.
type UiImport struct {
	Loc       Span
	Kind      ImportKind
	URI       *UiQualifiedId // library imports
	FileName  string         // file imports, unquoted
	FileSpan  Span
	Version   string
	ImportID  string
	IDSpan    Span
	Semicolon Span
}

// Path returns the dotted library name or the quoted file name.
func (n *UiImport) Path() string {
	if n.Kind == ImportLibrary {
		if n.URI == nil {
			return ""
		}
		return n.URI.String()
	}
	return n.FileName
}

// UiObjectDefinition is `Type { ... }`.
type UiObjectDefinition struct {
	Loc         Span
	TypeName    *UiQualifiedId
	Initializer *UiObjectInitializer
}

// UiObjectBinding is `property: Type { ... }`.
type UiObjectBinding struct {
	Loc         Span
	QualifiedID *UiQualifiedId
	Colon       Span
	TypeName    *UiQualifiedId
	Initializer *UiObjectInitializer
}

// UiObjectInitializer is the braced member list of an object.
type UiObjectInitializer struct {
	Loc     Span
	LBrace  Span
	RBrace  Span
	Members []Member
}

// Interior is the span strictly between the braces.
func (n *UiObjectInitializer) Interior() Span {
	if n == nil || !n.LBrace.Valid() || !n.RBrace.Valid() {
		return NoSpan
	}
	return Span{Begin: n.LBrace.End, End: n.RBrace.Begin}
}

// UiScriptBinding is `qualified.id: statement`.
type UiScriptBinding struct {
	Loc         Span
	QualifiedID *UiQualifiedId
	Colon       Span
	Statement   Statement
}

// PublicMemberKind separates property from signal declarations.
type PublicMemberKind int

const (
	MemberProperty PublicMemberKind = iota
	MemberSignal
)

// UiPublicMember is `[default] [readonly] property type name[: statement]`
// or `signal name[(params)]`.
type UiPublicMember struct {
	Loc        Span
	Kind       PublicMemberKind
	Default    bool
	Readonly   bool
	MemberType string
	TypeSpan   Span
	Name       string
	NameSpan   Span
	Parameters []string
	Statement  Statement
	Object     *UiObjectDefinition // property Item foo: Item { }
}

// UiSourceElement is a function declared among object members.
type UiSourceElement struct {
	Loc      Span
	Function *FunctionExpression
}

// Identifier is one segment of a qualified id.
type Identifier struct {
	Name string
	Loc  Span
}

// UiQualifiedId is a dotted name such as `anchors.fill` or `QQ.Rectangle`.
type UiQualifiedId struct {
	Loc      Span
	Segments []Identifier
}

// Name returns the first segment.
func (n *UiQualifiedId) Name() string {
	if n == nil || len(n.Segments) == 0 {
		return ""
	}
	return n.Segments[0].Name
}

// Last returns the final segment.
func (n *UiQualifiedId) Last() string {
	if n == nil || len(n.Segments) == 0 {
		return ""
	}
	return n.Segments[len(n.Segments)-1].Name
}

func (n *UiQualifiedId) String() string {
	if n == nil {
		return ""
	}
	names := make([]string, len(n.Segments))
	for i, s := range n.Segments {
		names[i] = s.Name
	}
	return strings.Join(names, ".")
}

// ExpressionStatement wraps an expression; Semicolon is NoSpan when absent.
type ExpressionStatement struct {
	Loc        Span
	Expression Expression
	Semicolon  Span
}

// Block is a braced statement list.
type Block struct {
	Loc        Span
	Statements []Statement
}

// IdentifierExpression is a bare name.
type IdentifierExpression struct {
	Loc  Span
	Name string
}

// FieldMemberExpression is `base.name`.
type FieldMemberExpression struct {
	Loc      Span
	Base     Expression
	Name     string
	NameSpan Span
}

// ArrayMemberExpression is `base[index]`.
type ArrayMemberExpression struct {
	Loc   Span
	Base  Expression
	Index Expression
}

// CallExpression is `callee(args...)`.
type CallExpression struct {
	Loc       Span
	Callee    Expression
	Arguments []Expression
}

// BinaryExpression covers arithmetic, comparison, logical and assignment
// operators.
type BinaryExpression struct {
	Loc      Span
	Left     Expression
	Operator string
	Right    Expression
}

// UnaryExpression is a prefix operator application.
type UnaryExpression struct {
	Loc      Span
	Operator string
	Operand  Expression
}

// ConditionalExpression is `test ? consequent : alternate`.
type ConditionalExpression struct {
	Loc        Span
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

// ArrayLiteral is `[a, b, c]`.
type ArrayLiteral struct {
	Loc      Span
	Elements []Expression
}

// ObjectLiteral is `{ key: value, ... }` in expression position.
type ObjectLiteral struct {
	Loc    Span
	Keys   []string
	Values []Expression
}

// FunctionExpression is `function [name](params) { body }`.
type FunctionExpression struct {
	Loc        Span
	Name       string
	NameSpan   Span
	Parameters []string
	Body       *Block
}

// StringLiteral holds the unquoted value; Raw keeps the quotes.
type StringLiteral struct {
	Loc   Span
	Value string
	Raw   string
}

// NumericLiteral is a decimal or hex number.
type NumericLiteral struct {
	Loc   Span
	Value float64
	Raw   string
}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Loc   Span
	Value bool
}

// NullLiteral is `null`.
type NullLiteral struct {
	Loc Span
}
