// Package jsimport turns a JavaScript file imported by a QML document
// (`import "logic.js" as Logic`) into an object whose members are the file's
// top-level functions and variables.
package jsimport

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/jward/qmlhover/internal/interp"
)

// topLevel captures every declaration made directly in the program body.
const topLevel = `
(program (function_declaration name: (identifier) @name) @decl)
(program (lexical_declaration (variable_declarator name: (identifier) @name) @decl))
(program (variable_declaration (variable_declarator name: (identifier) @name) @decl))
`

// Load reads path from fsys and parses it.
func Load(ctx context.Context, owner *interp.Owner, fsys fs.FS, path string) (*interp.ObjectValue, error) {
	src, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("jsimport: read %s: %w", path, err)
	}
	obj, err := Parse(ctx, owner, src)
	if err != nil {
		return nil, fmt.Errorf("jsimport: %s: %w", path, err)
	}
	return obj, nil
}

// Parse returns an object holding one member per top-level declaration of
// src. Values are typed from their initializers: literals give primitive
// types, functions give Function values whose return type comes from the
// first return statement, object literals give objects.
func Parse(ctx context.Context, owner *interp.Owner, src []byte) (*interp.ObjectValue, error) {
	lang := javascript.GetLanguage()

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	// Qt script files may start with `.pragma library` or `.import`
	// directives, which are not JavaScript.
	src = blankDirectives(src)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	q, err := sitter.NewQuery([]byte(topLevel), lang)
	if err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	defer q.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q, tree.RootNode())

	t := typer{owner: owner, src: src}
	obj := owner.NewPlainObject()
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		var name string
		var decl *sitter.Node
		for _, capture := range match.Captures {
			switch q.CaptureNameForId(capture.Index) {
			case "name":
				name = capture.Node.Content(src)
			case "decl":
				decl = capture.Node
			}
		}
		if name == "" || decl == nil {
			continue
		}
		obj.SetMember(name, t.declaration(name, decl))
	}
	return obj, nil
}

type typer struct {
	owner *interp.Owner
	src   []byte
}

func (t typer) declaration(name string, decl *sitter.Node) interp.Value {
	if decl.Type() == "function_declaration" {
		return &interp.FunctionValue{Name: name, Returns: t.returns(decl.ChildByFieldName("body"))}
	}
	v := t.value(decl.ChildByFieldName("value"))
	if fn, ok := v.(*interp.FunctionValue); ok && fn.Name == "" {
		fn.Name = name
	}
	return v
}

func (t typer) value(n *sitter.Node) interp.Value {
	if n == nil {
		return interp.Undefined
	}
	switch n.Type() {
	case "number":
		return interp.Number
	case "string", "template_string":
		return interp.String
	case "true", "false":
		return interp.Boolean
	case "null":
		return interp.Null
	case "undefined":
		return interp.Undefined
	case "parenthesized_expression":
		if n.NamedChildCount() > 0 {
			return t.value(n.NamedChild(0))
		}
	case "function", "function_expression", "generator_function":
		return &interp.FunctionValue{Returns: t.returns(n.ChildByFieldName("body"))}
	case "arrow_function":
		body := n.ChildByFieldName("body")
		if body != nil && body.Type() != "statement_block" {
			return &interp.FunctionValue{Returns: t.value(body)}
		}
		return &interp.FunctionValue{Returns: t.returns(body)}
	case "object":
		return t.object(n)
	case "array":
		return t.owner.NewArray()
	case "unary_expression":
		switch t.operator(n) {
		case "!":
			return interp.Boolean
		case "typeof":
			return interp.String
		case "void":
			return interp.Undefined
		}
		return interp.Number
	case "binary_expression":
		return t.binary(n)
	}
	return interp.Unknown
}

func (t typer) operator(n *sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Type()
	}
	return ""
}

func (t typer) binary(n *sitter.Node) interp.Value {
	switch t.operator(n) {
	case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "in", "instanceof":
		return interp.Boolean
	case "&&", "||", "??":
		return t.value(n.ChildByFieldName("right"))
	case "+":
		lhs, rhs := t.value(n.ChildByFieldName("left")), t.value(n.ChildByFieldName("right"))
		switch {
		case lhs == interp.Number && rhs == interp.Number:
			return interp.Number
		case lhs == interp.String || rhs == interp.String:
			return interp.String
		}
		return interp.Unknown
	}
	return interp.Number
}

func (t typer) object(n *sitter.Node) interp.Value {
	obj := t.owner.NewPlainObject()
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "pair":
			key := child.ChildByFieldName("key")
			if key == nil {
				continue
			}
			obj.SetMember(strings.Trim(key.Content(t.src), `"'`), t.value(child.ChildByFieldName("value")))
		case "method_definition":
			if name := child.ChildByFieldName("name"); name != nil {
				method := name.Content(t.src)
				obj.SetMember(method, &interp.FunctionValue{Name: method, Returns: t.returns(child.ChildByFieldName("body"))})
			}
		}
	}
	return obj
}

// returns types the first return statement of body, skipping nested
// functions. A body without one returns undefined; an unrecognised
// expression leaves the result unknown (nil).
func (t typer) returns(body *sitter.Node) interp.Value {
	if body == nil {
		return nil
	}
	ret := findReturn(body)
	if ret == nil {
		return interp.Undefined
	}
	if ret.NamedChildCount() == 0 {
		return interp.Undefined
	}
	v := t.value(ret.NamedChild(0))
	if v == interp.Unknown {
		return nil
	}
	return v
}

func findReturn(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "return_statement":
			return child
		case "function_declaration", "function", "function_expression", "arrow_function", "generator_function", "class_declaration":
			continue
		}
		if r := findReturn(child); r != nil {
			return r
		}
	}
	return nil
}

// blankDirectives replaces leading `.pragma` and `.import` lines with spaces
// so byte offsets are preserved.
func blankDirectives(src []byte) []byte {
	out := src
	copied := false
	start := 0
	for start < len(out) {
		end := start
		for end < len(out) && out[end] != '\n' {
			end++
		}
		line := strings.TrimSpace(string(out[start:end]))
		if !strings.HasPrefix(line, ".pragma") && !strings.HasPrefix(line, ".import") {
			if line != "" && !strings.HasPrefix(line, "//") {
				break
			}
		} else {
			if !copied {
				out = append([]byte(nil), src...)
				copied = true
			}
			for i := start; i < end; i++ {
				out[i] = ' '
			}
		}
		start = end + 1
	}
	return out
}
