// Package parser turns QML source into an ast.Program. It covers the
// declarative layer (imports, object definitions and bindings, property and
// signal declarations, functions) and the JavaScript expression subset used
// in bindings. Statement bodies are parsed leniently: constructs outside the
// subset are skipped without diagnostics.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jward/qmlhover/internal/ast"
)

// SyntaxError is a parse error anchored to a source span.
type SyntaxError struct {
	Span    ast.Span
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Span.Begin, e.Span.End, e.Message)
}

// Parse parses src and returns the program along with any syntax errors.
// A program is always returned, even when errors were found.
func Parse(src []byte) (*ast.Program, []SyntaxError) {
	p := &parser{src: src, toks: tokenize(src)}
	prog := p.parseProgram()
	return prog, p.errs
}

type parser struct {
	src     []byte
	toks    []token
	pos     int
	prevEnd int
	quiet   int
	errs    []SyntaxError
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
		p.prevEnd = t.span.End
	}
	return t
}

func (p *parser) punct(text string) bool {
	return p.peek().is(tokPunct, text)
}

func (p *parser) keyword(text string) bool {
	return p.peek().is(tokIdent, text)
}

func (p *parser) expect(text string) (token, bool) {
	if p.punct(text) {
		return p.next(), true
	}
	p.errorAt(p.peek().span, fmt.Sprintf("expected '%s'", text))
	return token{}, false
}

func (p *parser) errorAt(span ast.Span, msg string) {
	if p.quiet > 0 {
		return
	}
	for _, e := range p.errs {
		if e.Span.Begin == span.Begin {
			return
		}
	}
	if span.End == span.Begin && span.Begin < len(p.src) {
		span.End++
	}
	p.errs = append(p.errs, SyntaxError{Span: span, Message: msg})
}

func (p *parser) unexpected(t token) {
	if t.kind == tokEOF {
		p.errorAt(t.span, "unexpected end of input")
		return
	}
	p.errorAt(t.span, fmt.Sprintf("unexpected token `%s'", t.text))
}

// recover skips to the start of the next line, past a semicolon, or up to a
// closing brace of the enclosing block.
func (p *parser) recover() {
	depth := 0
	for first := true; ; first = false {
		t := p.peek()
		if t.kind == tokEOF {
			return
		}
		if depth == 0 && !first && t.nl {
			return
		}
		if t.kind == tokPunct {
			switch t.text {
			case "{", "(", "[":
				depth++
			case "}", ")", "]":
				if depth == 0 {
					return
				}
				depth--
			case ";":
				if depth == 0 {
					p.next()
					return
				}
			}
		}
		p.next()
	}
}

// =============================================================================
// Declarative layer
// =============================================================================

func (p *parser) parseProgram() *ast.Program {
	prog := &ast.Program{Loc: ast.Span{Begin: 0, End: len(p.src)}}
header:
	for {
		switch {
		case p.keyword("import"):
			prog.Imports = append(prog.Imports, p.parseImport())
		case p.keyword("pragma"):
			p.next()
			if p.peek().kind == tokIdent && !p.peek().nl {
				p.next()
			}
		case p.punct(";"):
			p.next()
		default:
			break header
		}
	}
	if p.peek().kind == tokIdent {
		prog.Root = p.parseObjectDefinition()
	}
	if t := p.peek(); t.kind != tokEOF {
		if prog.Root == nil {
			p.errorAt(t.span, "expected object definition")
		} else {
			p.errorAt(t.span, "expected end of input")
		}
	}
	return prog
}

func (p *parser) parseImport() *ast.UiImport {
	kw := p.next()
	imp := &ast.UiImport{Loc: kw.span, FileSpan: ast.NoSpan, IDSpan: ast.NoSpan, Semicolon: ast.NoSpan}
	end := kw.span
	switch t := p.peek(); {
	case t.kind == tokString && !t.nl:
		p.next()
		imp.Kind = ast.ImportFile
		imp.FileName = unquote(t.text)
		imp.FileSpan = t.span
		end = t.span
	case t.kind == tokIdent && !t.nl:
		imp.Kind = ast.ImportLibrary
		imp.URI = p.parseQualifiedID()
		end = imp.URI.Loc
	default:
		p.errorAt(t.span, "expected import path")
		return imp
	}
	if t := p.peek(); t.kind == tokNumber && !t.nl {
		p.next()
		imp.Version = t.text
		end = t.span
	}
	if p.keyword("as") && !p.peek().nl {
		p.next()
		t := p.peek()
		if t.kind != tokIdent || t.nl {
			p.errorAt(t.span, "expected import qualifier")
		} else {
			p.next()
			imp.ImportID = t.text
			imp.IDSpan = t.span
			end = t.span
		}
	}
	if p.punct(";") {
		t := p.next()
		imp.Semicolon = t.span
		end = t.span
	}
	imp.Loc = ast.Join(kw.span, end)
	return imp
}

func (p *parser) parseQualifiedID() *ast.UiQualifiedId {
	first := p.next()
	q := &ast.UiQualifiedId{Loc: first.span, Segments: []ast.Identifier{{Name: first.text, Loc: first.span}}}
	for p.punct(".") && p.peekAt(1).kind == tokIdent {
		p.next()
		seg := p.next()
		q.Segments = append(q.Segments, ast.Identifier{Name: seg.text, Loc: seg.span})
		q.Loc = ast.Join(q.Loc, seg.span)
	}
	return q
}

// looksLikeObject reports whether the tokens ahead form `Type.Name {`.
func (p *parser) looksLikeObject() bool {
	i := 0
	if p.peekAt(i).kind != tokIdent {
		return false
	}
	last := p.peekAt(i).text
	for p.peekAt(i+1).is(tokPunct, ".") && p.peekAt(i+2).kind == tokIdent {
		i += 2
		last = p.peekAt(i).text
	}
	if !p.peekAt(i+1).is(tokPunct, "{") {
		return false
	}
	return last != "" && last[0] >= 'A' && last[0] <= 'Z'
}

func (p *parser) parseObjectDefinition() *ast.UiObjectDefinition {
	def := &ast.UiObjectDefinition{TypeName: p.parseQualifiedID()}
	def.Loc = def.TypeName.Loc
	if def.Initializer = p.parseInitializer(); def.Initializer != nil {
		def.Loc = ast.Join(def.Loc, def.Initializer.Loc)
	}
	return def
}

func (p *parser) parseInitializer() *ast.UiObjectInitializer {
	lb, ok := p.expect("{")
	if !ok {
		return nil
	}
	init := &ast.UiObjectInitializer{LBrace: lb.span, RBrace: ast.NoSpan}
	for {
		t := p.peek()
		if t.is(tokPunct, "}") {
			p.next()
			init.RBrace = t.span
			break
		}
		if t.kind == tokEOF {
			p.errorAt(t.span, "expected '}'")
			break
		}
		if t.is(tokPunct, ";") {
			p.next()
			continue
		}
		start := p.pos
		if m := p.parseMember(); m != nil {
			init.Members = append(init.Members, m)
		}
		if p.pos == start {
			p.next()
		}
	}
	init.Loc = ast.Span{Begin: lb.span.Begin, End: p.prevEnd}
	return init
}

func (p *parser) parseMember() ast.Member {
	t := p.peek()
	if t.kind != tokIdent {
		p.unexpected(t)
		p.recover()
		return nil
	}
	switch t.text {
	case "property":
		if p.peekAt(1).kind == tokIdent {
			return p.parsePublicMember()
		}
	case "default", "readonly", "required":
		if p.peekAt(1).is(tokIdent, "property") || p.peekAt(2).is(tokIdent, "property") {
			return p.parsePublicMember()
		}
	case "signal":
		if p.peekAt(1).kind == tokIdent {
			return p.parseSignal()
		}
	case "function":
		if p.peekAt(1).kind == tokIdent {
			fn := p.parseFunctionExpression()
			return &ast.UiSourceElement{Loc: fn.Loc, Function: fn}
		}
	}

	qid := p.parseQualifiedID()
	switch {
	case p.punct(":"):
		colon := p.next()
		if p.looksLikeObject() {
			typeName := p.parseQualifiedID()
			b := &ast.UiObjectBinding{QualifiedID: qid, Colon: colon.span, TypeName: typeName}
			b.Initializer = p.parseInitializer()
			b.Loc = ast.Span{Begin: qid.Loc.Begin, End: p.prevEnd}
			return b
		}
		stmt := p.parseStatement()
		if stmt == nil {
			p.recover()
			return nil
		}
		return &ast.UiScriptBinding{
			Loc:         ast.Join(qid.Loc, stmt.Span()),
			QualifiedID: qid,
			Colon:       colon.span,
			Statement:   stmt,
		}
	case p.punct("{"):
		def := &ast.UiObjectDefinition{TypeName: qid, Initializer: p.parseInitializer()}
		def.Loc = ast.Span{Begin: qid.Loc.Begin, End: p.prevEnd}
		return def
	case p.keyword("on") && p.peekAt(1).kind == tokIdent:
		// `Behavior on x { }` binds an object to the target property.
		p.next()
		target := p.parseQualifiedID()
		b := &ast.UiObjectBinding{QualifiedID: target, Colon: ast.NoSpan, TypeName: qid}
		b.Initializer = p.parseInitializer()
		b.Loc = ast.Span{Begin: qid.Loc.Begin, End: p.prevEnd}
		return b
	}
	p.errorAt(p.peek().span, "expected ':' or '{'")
	p.recover()
	return nil
}

func (p *parser) parsePublicMember() ast.Member {
	start := p.peek().span
	m := &ast.UiPublicMember{Kind: ast.MemberProperty, TypeSpan: ast.NoSpan, NameSpan: ast.NoSpan}
modifiers:
	for {
		switch {
		case p.keyword("default"):
			m.Default = true
		case p.keyword("readonly"):
			m.Readonly = true
		case p.keyword("required"):
		default:
			break modifiers
		}
		p.next()
	}
	if _, ok := p.expectKeyword("property"); !ok {
		p.recover()
		return nil
	}
	if p.peek().kind != tokIdent {
		p.errorAt(p.peek().span, "expected property type")
		p.recover()
		return nil
	}
	typ := p.parseQualifiedID()
	m.MemberType, m.TypeSpan = typ.String(), typ.Loc
	if p.punct("<") {
		p.next()
		if p.peek().kind == tokIdent {
			elem := p.parseQualifiedID()
			m.MemberType += "<" + elem.String() + ">"
		}
		if gt, ok := p.expect(">"); ok {
			m.TypeSpan = ast.Join(m.TypeSpan, gt.span)
		}
	}
	name := p.peek()
	if name.kind != tokIdent {
		p.errorAt(name.span, "expected property name")
		p.recover()
		return nil
	}
	p.next()
	m.Name, m.NameSpan = name.text, name.span
	end := name.span
	switch {
	case p.punct(":"):
		p.next()
		if p.looksLikeObject() {
			m.Object = p.parseObjectDefinition()
			end = m.Object.Loc
			break
		}
		if m.Statement = p.parseStatement(); m.Statement == nil {
			p.recover()
		} else {
			end = m.Statement.Span()
		}
	case p.punct(";"):
		end = p.next().span
	}
	m.Loc = ast.Join(start, end)
	return m
}

func (p *parser) expectKeyword(text string) (token, bool) {
	if p.keyword(text) {
		return p.next(), true
	}
	p.errorAt(p.peek().span, fmt.Sprintf("expected '%s'", text))
	return token{}, false
}

func (p *parser) parseSignal() ast.Member {
	kw := p.next()
	name := p.next()
	m := &ast.UiPublicMember{
		Kind:       ast.MemberSignal,
		TypeSpan:   ast.NoSpan,
		Name:       name.text,
		NameSpan:   name.span,
		MemberType: "signal",
	}
	end := name.span
	if p.punct("(") && !p.peek().nl {
		p.next()
		for !p.punct(")") && p.peek().kind != tokEOF {
			t := p.next()
			if t.kind != tokIdent {
				continue
			}
			// `type name` pairs keep the name; a lone identifier is the name.
			if p.peek().kind == tokIdent {
				t = p.next()
			}
			m.Parameters = append(m.Parameters, t.text)
		}
		if rp, ok := p.expect(")"); ok {
			end = rp.span
		}
	}
	if p.punct(";") {
		end = p.next().span
	}
	m.Loc = ast.Join(kw.span, end)
	return m
}

// =============================================================================
// Statements
// =============================================================================

func (p *parser) parseStatement() ast.Statement {
	if p.punct("{") {
		return p.parseBlock()
	}
	return p.parseExpressionStatement()
}

func (p *parser) parseExpressionStatement() ast.Statement {
	e := p.parseExpression()
	if e == nil {
		return nil
	}
	st := &ast.ExpressionStatement{Loc: e.Span(), Expression: e, Semicolon: ast.NoSpan}
	t := p.peek()
	switch {
	case t.is(tokPunct, ";"):
		p.next()
		st.Semicolon = t.span
		st.Loc = ast.Join(st.Loc, t.span)
	case t.nl, t.kind == tokEOF, t.is(tokPunct, "}"), t.is(tokPunct, ")"):
	default:
		p.errorAt(t.span, "expected ';' or newline")
		p.recover()
	}
	return st
}

func (p *parser) parseBlock() *ast.Block {
	lb := p.next()
	b := &ast.Block{}
	p.quiet++
	defer func() { p.quiet-- }()
	for {
		t := p.peek()
		if t.is(tokPunct, "}") {
			p.next()
			break
		}
		if t.kind == tokEOF {
			p.quiet--
			p.errorAt(t.span, "expected '}'")
			p.quiet++
			break
		}
		if t.is(tokPunct, ";") {
			p.next()
			continue
		}
		start := p.pos
		if st := p.parseBlockStatement(); st != nil {
			b.Statements = append(b.Statements, st)
		}
		if p.pos == start {
			p.next()
		}
	}
	b.Loc = ast.Span{Begin: lb.span.Begin, End: p.prevEnd}
	return b
}

func (p *parser) parseBlockStatement() ast.Statement {
	t := p.peek()
	if t.kind == tokIdent {
		switch t.text {
		case "var", "let", "const", "return", "throw", "else", "do", "try", "finally":
			p.next()
			if p.punct("{") {
				return p.parseBlock()
			}
			if n := p.peek(); n.nl || n.is(tokPunct, ";") || n.is(tokPunct, "}") {
				return nil
			}
		case "if", "while", "for", "switch", "with", "catch":
			p.next()
			if !p.punct("(") {
				return nil
			}
			return p.parseCondition()
		case "break", "continue":
			p.next()
			return nil
		case "case", "default":
			for !p.punct(":") && p.peek().kind != tokEOF {
				p.next()
			}
			p.next()
			return nil
		case "function":
			fn := p.parseFunctionExpression()
			return &ast.ExpressionStatement{Loc: fn.Loc, Expression: fn, Semicolon: ast.NoSpan}
		}
	}
	if p.punct("{") {
		return p.parseBlock()
	}
	return p.parseExpressionStatement()
}

// parseCondition parses the parenthesised head of a control statement and
// skips whatever part of it falls outside the expression subset.
func (p *parser) parseCondition() ast.Statement {
	lp := p.next()
	var e ast.Expression
	if !p.punct(")") {
		e = p.parseExpression()
	}
	for depth := 0; p.peek().kind != tokEOF; {
		t := p.next()
		if t.kind != tokPunct {
			continue
		}
		if t.text == "(" {
			depth++
		} else if t.text == ")" {
			if depth == 0 {
				break
			}
			depth--
		}
	}
	if e == nil {
		return nil
	}
	return &ast.ExpressionStatement{
		Loc:        ast.Span{Begin: lp.span.Begin, End: p.prevEnd},
		Expression: e,
		Semicolon:  ast.NoSpan,
	}
}

// =============================================================================
// Expressions
// =============================================================================

var assignmentOperators = map[string]bool{"=": true, "+=": true, "-=": true, "*=": true, "/=": true}

var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6, "===": 6, "!==": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7, "instanceof": 7, "in": 7,
	"<<": 8, ">>": 8, ">>>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

var prefixOperators = map[string]bool{
	"!": true, "-": true, "+": true, "~": true, "++": true, "--": true,
	"typeof": true, "void": true, "delete": true, "new": true,
}

func (p *parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

func (p *parser) parseAssignment() ast.Expression {
	left := p.parseConditional()
	if left == nil {
		return nil
	}
	t := p.peek()
	if t.kind != tokPunct || !assignmentOperators[t.text] {
		return left
	}
	p.next()
	right := p.parseAssignment()
	if right == nil {
		return left
	}
	return &ast.BinaryExpression{Loc: ast.Join(left.Span(), right.Span()), Left: left, Operator: t.text, Right: right}
}

func (p *parser) parseConditional() ast.Expression {
	test := p.parseBinary(0)
	if test == nil || !p.punct("?") {
		return test
	}
	p.next()
	cons := p.parseAssignment()
	if cons == nil {
		return test
	}
	if _, ok := p.expect(":"); !ok {
		return test
	}
	alt := p.parseAssignment()
	if alt == nil {
		return test
	}
	return &ast.ConditionalExpression{
		Loc:        ast.Join(test.Span(), alt.Span()),
		Test:       test,
		Consequent: cons,
		Alternate:  alt,
	}
}

func (p *parser) binaryOperator() (string, int) {
	t := p.peek()
	if t.kind != tokPunct && !(t.kind == tokIdent && (t.text == "in" || t.text == "instanceof")) {
		return "", 0
	}
	return t.text, binaryPrecedence[t.text]
}

func (p *parser) parseBinary(minPrec int) ast.Expression {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for {
		op, prec := p.binaryOperator()
		if prec == 0 || prec <= minPrec {
			return left
		}
		p.next()
		right := p.parseBinary(prec)
		if right == nil {
			return left
		}
		left = &ast.BinaryExpression{Loc: ast.Join(left.Span(), right.Span()), Left: left, Operator: op, Right: right}
	}
}

func (p *parser) parseUnary() ast.Expression {
	t := p.peek()
	if (t.kind == tokPunct || t.kind == tokIdent) && prefixOperators[t.text] {
		p.next()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpression{Loc: ast.Join(t.span, operand.Span()), Operator: t.text, Operand: operand}
	}
	e := p.parseLeftHandSide()
	if e == nil {
		return nil
	}
	if t := p.peek(); !t.nl && (t.is(tokPunct, "++") || t.is(tokPunct, "--")) {
		p.next()
		return &ast.UnaryExpression{Loc: ast.Join(e.Span(), t.span), Operator: t.text, Operand: e}
	}
	return e
}

func (p *parser) parseLeftHandSide() ast.Expression {
	e := p.parsePrimary()
	if e == nil {
		return nil
	}
	for {
		t := p.peek()
		switch {
		case t.is(tokPunct, "."):
			p.next()
			name := p.peek()
			if name.kind != tokIdent {
				p.errorAt(name.span, "expected member name")
				return e
			}
			p.next()
			e = &ast.FieldMemberExpression{Loc: ast.Join(e.Span(), name.span), Base: e, Name: name.text, NameSpan: name.span}
		case t.is(tokPunct, "(") && !t.nl:
			p.next()
			args := p.parseList(")")
			e = &ast.CallExpression{Loc: ast.Span{Begin: e.Span().Begin, End: p.prevEnd}, Callee: e, Arguments: args}
		case t.is(tokPunct, "[") && !t.nl:
			p.next()
			idx := p.parseExpression()
			p.expect("]")
			if idx == nil {
				return e
			}
			e = &ast.ArrayMemberExpression{Loc: ast.Span{Begin: e.Span().Begin, End: p.prevEnd}, Base: e, Index: idx}
		default:
			return e
		}
	}
}

// parseList parses comma separated expressions up to and including close.
func (p *parser) parseList(close string) []ast.Expression {
	var out []ast.Expression
	for !p.punct(close) && p.peek().kind != tokEOF {
		e := p.parseAssignment()
		if e == nil {
			break
		}
		out = append(out, e)
		if !p.punct(",") {
			break
		}
		p.next()
	}
	p.expect(close)
	return out
}

func (p *parser) parsePrimary() ast.Expression {
	t := p.peek()
	switch t.kind {
	case tokIdent:
		switch t.text {
		case "true", "false":
			p.next()
			return &ast.BooleanLiteral{Loc: t.span, Value: t.text == "true"}
		case "null":
			p.next()
			return &ast.NullLiteral{Loc: t.span}
		case "function":
			return p.parseFunctionExpression()
		}
		if p.peekAt(1).is(tokPunct, "=>") {
			return p.parseArrowFunction()
		}
		p.next()
		return &ast.IdentifierExpression{Loc: t.span, Name: t.text}
	case tokNumber:
		p.next()
		return &ast.NumericLiteral{Loc: t.span, Value: parseNumber(t.text), Raw: t.text}
	case tokString:
		p.next()
		return &ast.StringLiteral{Loc: t.span, Value: unquote(t.text), Raw: t.text}
	case tokPunct:
		switch t.text {
		case "(":
			if p.isArrowAhead() {
				return p.parseArrowFunction()
			}
			p.next()
			e := p.parseExpression()
			p.expect(")")
			return e
		case "[":
			p.next()
			elems := p.parseList("]")
			return &ast.ArrayLiteral{Loc: ast.Span{Begin: t.span.Begin, End: p.prevEnd}, Elements: elems}
		case "{":
			return p.parseObjectLiteral()
		}
	}
	p.unexpected(t)
	return nil
}

func (p *parser) parseObjectLiteral() ast.Expression {
	lb := p.next()
	obj := &ast.ObjectLiteral{}
	for !p.punct("}") && p.peek().kind != tokEOF {
		key := p.next()
		if key.kind == tokPunct {
			p.unexpected(key)
			break
		}
		if _, ok := p.expect(":"); !ok {
			break
		}
		v := p.parseAssignment()
		if v == nil {
			break
		}
		name := key.text
		if key.kind == tokString {
			name = unquote(name)
		}
		obj.Keys = append(obj.Keys, name)
		obj.Values = append(obj.Values, v)
		if !p.punct(",") {
			break
		}
		p.next()
	}
	p.expect("}")
	obj.Loc = ast.Span{Begin: lb.span.Begin, End: p.prevEnd}
	return obj
}

func (p *parser) parseFunctionExpression() *ast.FunctionExpression {
	kw := p.next()
	fn := &ast.FunctionExpression{NameSpan: ast.NoSpan}
	if t := p.peek(); t.kind == tokIdent {
		p.next()
		fn.Name, fn.NameSpan = t.text, t.span
	}
	if _, ok := p.expect("("); ok {
		fn.Parameters = p.parseParameters()
	}
	if p.punct("{") {
		fn.Body = p.parseBlock()
	} else {
		p.errorAt(p.peek().span, "expected '{'")
	}
	fn.Loc = ast.Span{Begin: kw.span.Begin, End: p.prevEnd}
	return fn
}

// parseParameters reads identifiers up to and including the closing paren.
func (p *parser) parseParameters() []string {
	var params []string
	for !p.punct(")") && p.peek().kind != tokEOF {
		t := p.next()
		if t.kind == tokIdent {
			params = append(params, t.text)
		}
	}
	p.expect(")")
	return params
}

func (p *parser) isArrowAhead() bool {
	depth := 0
	for i := 0; ; i++ {
		t := p.peekAt(i)
		if t.kind == tokEOF {
			return false
		}
		if t.kind != tokPunct {
			continue
		}
		switch t.text {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return p.peekAt(i+1).is(tokPunct, "=>")
			}
		}
	}
}

func (p *parser) parseArrowFunction() ast.Expression {
	start := p.peek()
	fn := &ast.FunctionExpression{NameSpan: ast.NoSpan}
	if start.kind == tokIdent {
		p.next()
		fn.Parameters = []string{start.text}
	} else {
		p.next()
		fn.Parameters = p.parseParameters()
	}
	p.expect("=>")
	if p.punct("{") {
		fn.Body = p.parseBlock()
	} else if e := p.parseAssignment(); e != nil {
		st := &ast.ExpressionStatement{Loc: e.Span(), Expression: e, Semicolon: ast.NoSpan}
		fn.Body = &ast.Block{Loc: e.Span(), Statements: []ast.Statement{st}}
	}
	fn.Loc = ast.Span{Begin: start.span.Begin, End: p.prevEnd}
	return fn
}

func parseNumber(text string) float64 {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		v, _ := strconv.ParseInt(text[2:], 16, 64)
		return float64(v)
	}
	v, _ := strconv.ParseFloat(text, 64)
	return v
}

// unquote strips the surrounding quotes and resolves common escapes.
func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String()
}
