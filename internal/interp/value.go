// Package interp models the values a QML document evaluates to: component
// prototypes and instances linked through prototype chains, functions,
// enums, lazily resolved references, and the primitive JavaScript types.
// It also provides the scope chain used to look names up and evaluate
// expressions at a cursor position.
package interp

// Kind identifies the dynamic type of a Value.
type Kind int

const (
	KindUndefined Kind = iota
	KindUnknown
	KindNull
	KindNumber
	KindString
	KindBoolean
	KindColor
	KindObject
	KindFunction
	KindEnum
	KindReference
)

// Value is the closed set of evaluation results.
type Value interface {
	Kind() Kind
	value()
}

type primitive struct {
	kind Kind
	name string
}

func (p *primitive) Kind() Kind     { return p.kind }
func (p *primitive) value()         {}
func (p *primitive) String() string { return p.name }

// Primitive singletons. Compare with ==.
var (
	Undefined Value = &primitive{KindUndefined, "undefined"}
	Unknown   Value = &primitive{KindUnknown, "unknown"}
	Null      Value = &primitive{KindNull, "null"}
	Number    Value = &primitive{KindNumber, "number"}
	String    Value = &primitive{KindString, "string"}
	Boolean   Value = &primitive{KindBoolean, "boolean"}
	Color     Value = &primitive{KindColor, "color"}
)

// ObjectValue is a named bag of members with an optional prototype. The
// prototype may be another object or a Reference resolved on demand.
type ObjectValue struct {
	className string
	prototype Value
	members   map[string]Value
	order     []string
}

// NewObject returns an empty object. className may be empty for instances.
func NewObject(className string, prototype Value) *ObjectValue {
	return &ObjectValue{className: className, prototype: prototype, members: map[string]Value{}}
}

func (o *ObjectValue) Kind() Kind { return KindObject }
func (o *ObjectValue) value()     {}

// ClassName is the type name declared for this object, if any.
func (o *ObjectValue) ClassName() string { return o.className }

// Prototype returns the raw prototype link, which may be a Reference.
func (o *ObjectValue) Prototype() Value { return o.prototype }

// SetPrototype replaces the prototype link.
func (o *ObjectValue) SetPrototype(v Value) { o.prototype = v }

// SetMember defines or replaces an own member.
func (o *ObjectValue) SetMember(name string, v Value) {
	if _, ok := o.members[name]; !ok {
		o.order = append(o.order, name)
	}
	o.members[name] = v
}

// Member returns an own member without consulting prototypes.
func (o *ObjectValue) Member(name string) (Value, bool) {
	v, ok := o.members[name]
	return v, ok
}

// MemberNames lists own members in definition order.
func (o *ObjectValue) MemberNames() []string {
	return append([]string(nil), o.order...)
}

// Prototypes returns the object followed by its prototypes, outward. The
// walk stops at the first link that does not resolve to an object and never
// visits an object twice, so cyclic prototype links terminate.
func (o *ObjectValue) Prototypes(ctx *Context) []*ObjectValue {
	var chain []*ObjectValue
	seen := map[*ObjectValue]bool{}
	for cur := o; cur != nil && !seen[cur]; {
		seen[cur] = true
		chain = append(chain, cur)
		cur = resolveObject(cur.prototype, ctx)
	}
	return chain
}

// LookupMember searches the object and its prototypes. It returns nil and a
// nil owner when the member is not defined anywhere on the chain.
func (o *ObjectValue) LookupMember(name string, ctx *Context) (Value, *ObjectValue) {
	for _, proto := range o.Prototypes(ctx) {
		if v, ok := proto.members[name]; ok {
			return v, proto
		}
	}
	return nil, nil
}

func resolveObject(v Value, ctx *Context) *ObjectValue {
	switch v := v.(type) {
	case *ObjectValue:
		return v
	case *Reference:
		if ctx == nil {
			return nil
		}
		obj, _ := ctx.Deref(v).(*ObjectValue)
		return obj
	}
	return nil
}

// FunctionValue is a callable. Returns is the value produced by a call; nil
// means the result is unknown.
type FunctionValue struct {
	Name    string
	Returns Value
}

func (f *FunctionValue) Kind() Kind { return KindFunction }
func (f *FunctionValue) value()     {}

// EnumValue is a value of a named enumeration such as Text.HAlignment.
type EnumValue struct {
	Name string
	Keys []string
}

func (e *EnumValue) Kind() Kind { return KindEnum }
func (e *EnumValue) value()     {}
