package typeinfo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/qmlhover/internal/interp"
)

const sample = `
module: Shapes
version: "1.0"
components:
  - name: Base
    properties:
      - {name: label, type: string}
  - name: Shape
    prototype: Base
    enums:
      - name: Fill
        keys: [Solid, Hatched]
    properties:
      - {name: fill, type: Fill}
      - {name: stroke, type: color}
      - {name: points, type: list<Point>}
      - {name: origin, type: Point}
      - {name: extra, type: Mystery}
    methods:
      - {name: area, returns: real}
      - {name: reset, returns: void}
      - {name: clone, returns: Shape}
      - {name: opaque}
    signals: [changed]
  - name: Circle
    prototype: Shape
    properties:
      - {name: mode, type: Fill}
      - {name: other, type: Shape.Fill}
  - name: Point
    internal: true
    properties:
      - {name: x, type: real}
`

func decodeSample(t *testing.T) *Module {
	t.Helper()
	m, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	return m
}

func member(t *testing.T, obj *interp.ObjectValue, name string) interp.Value {
	t.Helper()
	v, owner := obj.LookupMember(name, nil)
	require.NotNil(t, owner, "member %q", name)
	return v
}

func TestDecode(t *testing.T) {
	t.Parallel()
	m := decodeSample(t)
	assert.Equal(t, "Shapes", m.Name)
	assert.Equal(t, "1.0", m.Version)
	require.Len(t, m.Components, 4)
	assert.Equal(t, "Shape", m.Components[1].Name)
	assert.Equal(t, []Enum{{Name: "Fill", Keys: []string{"Solid", "Hatched"}}}, m.Components[1].Enums)
	assert.True(t, m.Components[3].Internal)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()
	_, err := Decode(strings.NewReader("components:\n  - prototype: Item\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no name")

	_, err = Decode(strings.NewReader("components:\n  - name: A\n    colour: red\n"))
	require.Error(t, err)

	m, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, m.Components)
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()
	m := decodeSample(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m))
	again, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, m, again)
}

func TestBuild_LinksPrototypesAndTypes(t *testing.T) {
	t.Parallel()
	lib := Build(decodeSample(t).Components, nil)

	assert.Equal(t, []string{"Base", "Circle", "Shape"}, Names(lib.Exports))
	require.NotNil(t, lib.Lookup("Point"))

	circle := lib.Lookup("Circle")
	var chain []string
	for _, p := range circle.Prototypes(nil) {
		chain = append(chain, p.ClassName())
	}
	assert.Equal(t, []string{"Circle", "Shape", "Base"}, chain)

	assert.Equal(t, interp.String, member(t, circle, "label"))
	assert.Equal(t, interp.Color, member(t, circle, "stroke"))
	assert.Equal(t, interp.Undefined, member(t, circle, "points"))
	assert.Equal(t, interp.Unknown, member(t, circle, "extra"))
	assert.Same(t, lib.Lookup("Point"), member(t, circle, "origin"))
	assert.Equal(t, interp.Number, member(t, circle, "Solid"))

	fill, ok := member(t, circle, "fill").(*interp.EnumValue)
	require.True(t, ok)
	assert.Equal(t, "Fill", fill.Name)
	assert.Same(t, fill, member(t, circle, "mode"), "enum declared on a prototype")
	assert.Same(t, fill, member(t, circle, "other"), "qualified enum name")
}

func TestBuild_Methods(t *testing.T) {
	t.Parallel()
	lib := Build(decodeSample(t).Components, nil)
	shape := lib.Lookup("Shape")

	returns := func(name string) interp.Value {
		fn, ok := member(t, shape, name).(*interp.FunctionValue)
		require.True(t, ok, name)
		assert.Equal(t, name, fn.Name)
		return fn.Returns
	}
	assert.Equal(t, interp.Number, returns("area"))
	assert.Equal(t, interp.Undefined, returns("reset"))
	assert.Same(t, shape, returns("clone"))
	assert.Nil(t, returns("opaque"))
	assert.Equal(t, interp.Undefined, returns("changed"))
	assert.Equal(t, interp.Undefined, returns("onChanged"))
}

func TestBuild_ExternalResolver(t *testing.T) {
	t.Parallel()
	item := interp.NewObject("Item", nil)
	external := func(name string) *interp.ObjectValue {
		if name == "Item" {
			return item
		}
		return nil
	}
	lib := Build([]Component{
		{Name: "Button", Prototype: "Item", Properties: []Property{{Name: "target", Type: "Item"}}},
		{Name: "Loop", Prototype: "Loop"},
		{Name: "Orphan", Prototype: "Missing"},
	}, external)

	button := lib.Lookup("Button")
	assert.Same(t, item, button.Prototype())
	assert.Same(t, item, member(t, button, "target"))
	assert.Nil(t, lib.Lookup("Loop").Prototype(), "self prototype is ignored")
	assert.Nil(t, lib.Lookup("Orphan").Prototype())
	assert.Nil(t, (*Library)(nil).Lookup("Item"))
}
