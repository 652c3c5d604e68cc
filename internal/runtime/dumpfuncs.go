package runtime

import (
	"context"
	"fmt"
	"sort"

	"github.com/risor-io/risor/object"

	"github.com/jward/qmlhover/internal/typeinfo"
)

// makeRegisterComponentFn creates the "register_component" host function.
// Risor scripts cannot construct Go structs, so the component is passed as a
// map and converted here:
//
//	register_component({
//	    "name": "Button",
//	    "prototype": "Item",
//	    "properties": {"text": "string", "checked": "bool"},
//	    "enums": {"Display": ["IconOnly", "TextOnly"]},
//	    "methods": {"toggle": "void"},
//	    "signals": ["clicked"]
//	})
func makeRegisterComponentFn(out *[]typeinfo.Component) *object.Builtin {
	return object.NewBuiltin("register_component", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("register_component", 1, len(args))
		}
		m, err := extractMap(args[0])
		if err != nil {
			return object.Errorf("register_component: %v", err)
		}
		c, err := componentFromMap(m)
		if err != nil {
			return object.Errorf("register_component: %v", err)
		}
		*out = append(*out, c)
		return object.Nil
	})
}

func componentFromMap(m map[string]object.Object) (typeinfo.Component, error) {
	c := typeinfo.Component{
		Name:      getString(m, "name"),
		Prototype: getString(m, "prototype"),
		Internal:  getBool(m, "internal"),
	}
	if c.Name == "" {
		return c, fmt.Errorf("component name is required")
	}

	props, err := getStringMap(m, "properties")
	if err != nil {
		return c, fmt.Errorf("%s: properties: %w", c.Name, err)
	}
	for _, name := range sortedKeys(props) {
		c.Properties = append(c.Properties, typeinfo.Property{Name: name, Type: props[name]})
	}

	methods, err := getStringMap(m, "methods")
	if err != nil {
		return c, fmt.Errorf("%s: methods: %w", c.Name, err)
	}
	for _, name := range sortedKeys(methods) {
		c.Methods = append(c.Methods, typeinfo.Method{Name: name, Returns: methods[name]})
	}

	if c.Signals, err = getStringList(m, "signals"); err != nil {
		return c, fmt.Errorf("%s: signals: %w", c.Name, err)
	}

	if raw, ok := m["enums"]; ok {
		enums, err := extractMap(raw)
		if err != nil {
			return c, fmt.Errorf("%s: enums: %w", c.Name, err)
		}
		names := make([]string, 0, len(enums))
		for name := range enums {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			keys, err := toStringList(enums[name])
			if err != nil {
				return c, fmt.Errorf("%s: enum %s: %w", c.Name, name, err)
			}
			c.Enums = append(c.Enums, typeinfo.Enum{Name: name, Keys: keys})
		}
	}
	return c, nil
}

// --- map argument helpers ---

func extractMap(obj object.Object) (map[string]object.Object, error) {
	m, ok := obj.(*object.Map)
	if !ok {
		return nil, fmt.Errorf("expected map, got %s", obj.Type())
	}
	return m.Value(), nil
}

func getString(m map[string]object.Object, key string) string {
	if s, ok := m[key].(*object.String); ok {
		return s.Value()
	}
	return ""
}

func getBool(m map[string]object.Object, key string) bool {
	if b, ok := m[key].(*object.Bool); ok {
		return b.Value()
	}
	return false
}

// getStringMap reads an optional map of string values.
func getStringMap(m map[string]object.Object, key string) (map[string]string, error) {
	raw, ok := m[key]
	if !ok {
		return nil, nil
	}
	inner, err := extractMap(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(inner))
	for k, v := range inner {
		s, err := toString(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = s
	}
	return out, nil
}

// getStringList reads an optional list of strings.
func getStringList(m map[string]object.Object, key string) ([]string, error) {
	raw, ok := m[key]
	if !ok {
		return nil, nil
	}
	return toStringList(raw)
}

func toStringList(obj object.Object) ([]string, error) {
	list, ok := obj.(*object.List)
	if !ok {
		return nil, fmt.Errorf("expected list, got %s", obj.Type())
	}
	out := make([]string, 0, len(list.Value()))
	for _, item := range list.Value() {
		s, err := toString(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func toString(obj object.Object) (string, error) {
	if s, ok := obj.(*object.String); ok {
		return s.Value(), nil
	}
	return "", fmt.Errorf("expected string, got %s", obj.Type())
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
