package jsimport

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/qmlhover/internal/interp"
)

const logicJS = `.pragma library

var count = 0
let label = "total"
const enabled = true
var nothing = null

function area(w, h) {
    return w * h
}

function greet(name) {
    var inner = function () { return 1 }
    return "hello " + name
}

function reset() {
    count = 0
}

const double = (x) => x * 2
const settings = { width: 10, title: "main", visible: false }
var items = [1, 2, 3]
`

func member(t *testing.T, obj *interp.ObjectValue, name string) interp.Value {
	t.Helper()
	v, ok := obj.Member(name)
	require.True(t, ok, "member %q", name)
	return v
}

func TestParse_TopLevelDeclarations(t *testing.T) {
	t.Parallel()
	owner := interp.NewOwner()
	obj, err := Parse(context.Background(), owner, []byte(logicJS))
	require.NoError(t, err)

	assert.Equal(t, interp.Number, member(t, obj, "count"))
	assert.Equal(t, interp.String, member(t, obj, "label"))
	assert.Equal(t, interp.Boolean, member(t, obj, "enabled"))
	assert.Equal(t, interp.Null, member(t, obj, "nothing"))

	area, ok := member(t, obj, "area").(*interp.FunctionValue)
	require.True(t, ok)
	assert.Equal(t, "area", area.Name)
	assert.Equal(t, interp.Number, area.Returns)

	greet := member(t, obj, "greet").(*interp.FunctionValue)
	assert.Equal(t, interp.String, greet.Returns)

	reset := member(t, obj, "reset").(*interp.FunctionValue)
	assert.Equal(t, interp.Undefined, reset.Returns)

	double := member(t, obj, "double").(*interp.FunctionValue)
	assert.Equal(t, "double", double.Name)
	assert.Equal(t, interp.Number, double.Returns)

	settings, ok := member(t, obj, "settings").(*interp.ObjectValue)
	require.True(t, ok)
	assert.Equal(t, interp.Number, member(t, settings, "width"))
	assert.Equal(t, interp.String, member(t, settings, "title"))
	assert.Equal(t, interp.Boolean, member(t, settings, "visible"))

	items, ok := member(t, obj, "items").(*interp.ObjectValue)
	require.True(t, ok)
	v, _ := items.LookupMember("length", nil)
	assert.Equal(t, interp.Number, v)
}

func TestParse_NestedDeclarationsAreNotExported(t *testing.T) {
	t.Parallel()
	obj, err := Parse(context.Background(), interp.NewOwner(), []byte(logicJS))
	require.NoError(t, err)
	_, ok := obj.Member("inner")
	assert.False(t, ok)
	_, ok = obj.Member("w")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	t.Parallel()
	fsys := fstest.MapFS{
		"js/util.js": &fstest.MapFile{Data: []byte("function ratio() { return 0.5 }\n")},
	}
	obj, err := Load(context.Background(), interp.NewOwner(), fsys, "js/util.js")
	require.NoError(t, err)
	fn := member(t, obj, "ratio").(*interp.FunctionValue)
	assert.Equal(t, interp.Number, fn.Returns)

	_, err = Load(context.Background(), interp.NewOwner(), fsys, "js/missing.js")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jsimport: read js/missing.js")
}

func TestBlankDirectives(t *testing.T) {
	t.Parallel()
	src := []byte(".pragma library\n.import \"other.js\" as Other\nvar x = 1\n")
	out := blankDirectives(src)
	assert.Len(t, out, len(src))
	assert.Equal(t, "var x = 1\n", string(out[len(out)-len("var x = 1\n"):]))
	assert.NotContains(t, string(out), "pragma")
	assert.Contains(t, string(src), ".pragma", "input must not be modified")

	plain := []byte("var y = 2\n.pragma library\n")
	assert.Equal(t, plain, blankDirectives(plain))
}
