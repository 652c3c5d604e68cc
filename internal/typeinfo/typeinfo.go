// Package typeinfo describes the component types a QML library exports and
// turns those descriptions into interp objects. Descriptions come from
// qmltypes.yaml files or from a library's plugin dump script.
package typeinfo

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jward/qmlhover/internal/interp"
)

// FileName is the type-info file looked for in a library directory.
const FileName = "qmltypes.yaml"

// Module is the content of one type-info file.
type Module struct {
	Name       string      `yaml:"module"`
	Version    string      `yaml:"version,omitempty"`
	Components []Component `yaml:"components"`
}

// Component describes one C++-backed or QML-defined type.
type Component struct {
	Name       string     `yaml:"name"`
	Prototype  string     `yaml:"prototype,omitempty"`
	Internal   bool       `yaml:"internal,omitempty"` // linkable, but not visible to documents
	Properties []Property `yaml:"properties,omitempty"`
	Enums      []Enum     `yaml:"enums,omitempty"`
	Methods    []Method   `yaml:"methods,omitempty"`
	Signals    []string   `yaml:"signals,omitempty"`
}

type Property struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type Enum struct {
	Name string   `yaml:"name"`
	Keys []string `yaml:"keys"`
}

type Method struct {
	Name    string `yaml:"name"`
	Returns string `yaml:"returns,omitempty"`
}

// Decode reads a type-info file.
func Decode(r io.Reader) (*Module, error) {
	var m Module
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return &m, nil
		}
		return nil, fmt.Errorf("typeinfo: decode: %w", err)
	}
	for i, c := range m.Components {
		if c.Name == "" {
			return nil, fmt.Errorf("typeinfo: component %d has no name", i)
		}
	}
	return &m, nil
}

// Encode writes m in the type-info file format.
func Encode(w io.Writer, m *Module) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("typeinfo: encode: %w", err)
	}
	return enc.Close()
}

// Resolver finds a component defined outside the set being built, typically
// in a library loaded earlier. It returns nil when name is unknown.
type Resolver func(name string) *interp.ObjectValue

// Library is the result of Build.
type Library struct {
	// Exports holds the components visible to importing documents.
	Exports *interp.ObjectValue
	// Components holds every component by name, internal ones included.
	Components map[string]*interp.ObjectValue
}

// Lookup returns the component called name, exported or not.
func (l *Library) Lookup(name string) *interp.ObjectValue {
	if l == nil {
		return nil
	}
	return l.Components[name]
}

// Build creates one object per component, links prototypes and typed
// properties, and collects the exported components into Library.Exports.
// Type names that resolve neither locally nor through external are left
// as Unknown.
func Build(components []Component, external Resolver) *Library {
	b := &builder{
		external: external,
		objects:  make(map[string]*interp.ObjectValue, len(components)),
		enums:    map[string]map[string]*interp.EnumValue{},
	}
	for _, c := range components {
		b.objects[c.Name] = interp.NewObject(c.Name, nil)
	}
	// Enums first so properties can refer to enums declared on a prototype.
	for _, c := range components {
		b.defineEnums(c)
	}
	for _, c := range components {
		b.linkPrototype(c)
	}
	for _, c := range components {
		b.defineMembers(c)
	}

	lib := &Library{Exports: interp.NewObject("", nil), Components: b.objects}
	for _, c := range components {
		if !c.Internal {
			lib.Exports.SetMember(c.Name, b.objects[c.Name])
		}
	}
	return lib
}

type builder struct {
	external Resolver
	objects  map[string]*interp.ObjectValue
	enums    map[string]map[string]*interp.EnumValue // component -> enum name -> value
}

func (b *builder) lookup(name string) *interp.ObjectValue {
	if obj, ok := b.objects[name]; ok {
		return obj
	}
	if b.external != nil {
		return b.external(name)
	}
	return nil
}

func (b *builder) defineEnums(c Component) {
	if len(c.Enums) == 0 {
		return
	}
	obj := b.objects[c.Name]
	byName := make(map[string]*interp.EnumValue, len(c.Enums))
	for _, e := range c.Enums {
		ev := &interp.EnumValue{Name: e.Name, Keys: append([]string(nil), e.Keys...)}
		byName[e.Name] = ev
		for _, key := range e.Keys {
			obj.SetMember(key, interp.Number)
		}
	}
	b.enums[c.Name] = byName
}

func (b *builder) linkPrototype(c Component) {
	if c.Prototype == "" {
		return
	}
	obj := b.objects[c.Name]
	if proto := b.lookup(c.Prototype); proto != nil && proto != obj {
		obj.SetPrototype(proto)
	}
}

func (b *builder) defineMembers(c Component) {
	obj := b.objects[c.Name]
	for _, p := range c.Properties {
		obj.SetMember(p.Name, b.typeValue(obj, p.Type))
	}
	for _, m := range c.Methods {
		obj.SetMember(m.Name, &interp.FunctionValue{Name: m.Name, Returns: b.returnValue(obj, m.Returns)})
	}
	for _, s := range c.Signals {
		if s == "" {
			continue
		}
		obj.SetMember(s, &interp.FunctionValue{Name: s, Returns: interp.Undefined})
		handler := "on" + strings.ToUpper(s[:1]) + s[1:]
		obj.SetMember(handler, &interp.FunctionValue{Name: handler, Returns: interp.Undefined})
	}
}

func (b *builder) returnValue(owner *interp.ObjectValue, typ string) interp.Value {
	switch typ {
	case "":
		return nil
	case "void":
		return interp.Undefined
	}
	return b.typeValue(owner, typ)
}

func (b *builder) typeValue(owner *interp.ObjectValue, typ string) interp.Value {
	if v := interp.ValueForTypeName(typ); v != nil {
		return v
	}
	if strings.HasPrefix(typ, "list<") {
		return interp.Undefined
	}
	if ev := b.enumFor(owner, typ); ev != nil {
		return ev
	}
	if obj := b.lookup(typ); obj != nil {
		return obj
	}
	return interp.Unknown
}

// enumFor finds an enum named typ (or Scope.typ) on owner or its prototypes.
func (b *builder) enumFor(owner *interp.ObjectValue, typ string) *interp.EnumValue {
	if i := strings.LastIndex(typ, "."); i >= 0 {
		if byName := b.enums[typ[:i]]; byName != nil {
			return byName[typ[i+1:]]
		}
		return nil
	}
	for _, proto := range owner.Prototypes(nil) {
		if ev := b.enums[proto.ClassName()][typ]; ev != nil {
			return ev
		}
	}
	return nil
}

// Names lists the exported component names of lib in sorted order.
func Names(lib *interp.ObjectValue) []string {
	if lib == nil {
		return nil
	}
	names := lib.MemberNames()
	sort.Strings(names)
	return names
}
