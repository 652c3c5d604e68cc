package library

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/qmlhover/internal/interp"
	"github.com/jward/qmlhover/libraries"
)

func builtinLoader() *Loader {
	return NewLoader(interp.NewSnapshot(), Root{Name: libraries.RootName, FS: libraries.FS})
}

func component(t *testing.T, info interp.LibraryInfo, name string) *interp.ObjectValue {
	t.Helper()
	require.NotNil(t, info.Components)
	v, ok := info.Components.Member(name)
	require.True(t, ok, "component %q", name)
	obj, ok := v.(*interp.ObjectValue)
	require.True(t, ok)
	return obj
}

func classNames(obj *interp.ObjectValue) []string {
	var names []string
	for _, p := range obj.Prototypes(nil) {
		names = append(names, p.ClassName())
	}
	return names
}

// =============================================================================
// Builtin libraries
// =============================================================================

func TestResolve_BuiltinQtQuick(t *testing.T) {
	t.Parallel()
	l := builtinLoader()

	info, found, err := l.Resolve(context.Background(), "QtQuick", "2.15")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, interp.TypeInfoFileDone, info.Status)
	assert.Equal(t, "builtin:/QtQuick", info.Path)

	rect := component(t, info, "Rectangle")
	assert.Equal(t, []string{"Rectangle", "Item", "QtObject"}, classNames(rect))

	color, owner := rect.LookupMember("color", nil)
	assert.Equal(t, interp.Color, color)
	assert.Same(t, rect, owner)

	anchors, _ := rect.LookupMember("anchors", nil)
	anchorsObj, ok := anchors.(*interp.ObjectValue)
	require.True(t, ok)
	assert.Equal(t, "Anchors", anchorsObj.ClassName())
	_, exported := info.Components.Member("Anchors")
	assert.False(t, exported)

	text := component(t, info, "Text")
	halign, _ := text.LookupMember("horizontalAlignment", nil)
	enum, ok := halign.(*interp.EnumValue)
	require.True(t, ok)
	assert.Equal(t, "HAlignment", enum.Name)
	key, _ := text.Member("AlignHCenter")
	assert.Equal(t, interp.Number, key)

	children, _ := text.LookupMember("children", nil)
	assert.Equal(t, interp.Undefined, children)

	assert.Equal(t, interp.TypeInfoFileDone, l.Snapshot().LibraryInfo("builtin:/QtQuick").Status)
}

func TestResolve_BuiltinControlsDump(t *testing.T) {
	t.Parallel()
	l := builtinLoader()

	info, found, err := l.Resolve(context.Background(), "QtQuick.Controls", "2.15")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, interp.DumpDone, info.Status)
	assert.Equal(t, "builtin:/QtQuick/Controls", info.Path)

	button := component(t, info, "Button")
	assert.Equal(t, []string{"Button", "AbstractButton", "Control", "Item", "QtObject"}, classNames(button))

	font, _ := button.LookupMember("font", nil)
	fontObj, ok := font.(*interp.ObjectValue)
	require.True(t, ok)
	assert.Equal(t, "Font", fontObj.ClassName())

	display, _ := button.LookupMember("display", nil)
	assert.IsType(t, &interp.EnumValue{}, display)

	label := component(t, info, "Label")
	assert.Equal(t, []string{"Label", "Text", "Item", "QtObject"}, classNames(label))

	// The dependency was loaded and recorded too.
	assert.Equal(t, []string{"builtin:/QtQuick", "builtin:/QtQuick/Controls"}, l.Snapshot().Libraries())
}

func TestResolve_Cached(t *testing.T) {
	t.Parallel()
	l := builtinLoader()
	first, _, err := l.Resolve(context.Background(), "QtQuick", "2.0")
	require.NoError(t, err)
	second, _, err := l.Resolve(context.Background(), "QtQuick", "2.0")
	require.NoError(t, err)
	assert.Same(t, first.Components, second.Components)

	other, _, err := l.Resolve(context.Background(), "QtQuick", "2.15")
	require.NoError(t, err)
	assert.Same(t, first.Components, other.Components, "same directory, different version")
}

func TestResolve_NotFound(t *testing.T) {
	t.Parallel()
	info, found, err := builtinLoader().Resolve(context.Background(), "QtMultimedia", "5.0")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, info.Path)
	assert.Nil(t, info.Components)
}

// =============================================================================
// Import roots
// =============================================================================

const themeCardQML = `import QtQuick 2.0
Rectangle {
    property color accent: "red"
    property alias title: label.text
    signal opened
    function open() { opened() }
    Text { id: label }
}`

func TestResolve_QmldirOnlyIsPending(t *testing.T) {
	t.Parallel()
	fsys := fstest.MapFS{
		"Theme/qmldir":     &fstest.MapFile{Data: []byte("module Theme\nCard 1.0 Card.qml\ninternal Shadow Shadow.qml\n")},
		"Theme/Card.qml":   &fstest.MapFile{Data: []byte(themeCardQML)},
		"Theme/Shadow.qml": &fstest.MapFile{Data: []byte("import QtQuick 2.0\nItem { }\n")},
	}
	l := NewLoader(nil, Root{Name: "/app/qml", FS: fsys}, Root{Name: libraries.RootName, FS: libraries.FS})

	// Prototypes resolve against libraries loaded earlier.
	_, _, err := l.Resolve(context.Background(), "QtQuick", "2.0")
	require.NoError(t, err)

	info, found, err := l.Resolve(context.Background(), "Theme", "1.0")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, interp.Pending, info.Status)
	assert.Equal(t, "/app/qml/Theme", info.Path)

	card := component(t, info, "Card")
	assert.Equal(t, []string{"Card", "Rectangle", "Item", "QtObject"}, classNames(card))
	accent, _ := card.Member("accent")
	assert.Equal(t, interp.Color, accent)
	title, _ := card.Member("title")
	assert.Equal(t, interp.Unknown, title)
	assert.IsType(t, &interp.FunctionValue{}, mustMember(t, card, "open"))
	assert.IsType(t, &interp.FunctionValue{}, mustMember(t, card, "onOpened"))

	_, exported := info.Components.Member("Shadow")
	assert.False(t, exported)
}

func mustMember(t *testing.T, obj *interp.ObjectValue, name string) interp.Value {
	t.Helper()
	v, ok := obj.Member(name)
	require.True(t, ok, name)
	return v
}

func TestResolve_VersionedDirectoryPreferred(t *testing.T) {
	t.Parallel()
	fsys := fstest.MapFS{
		"Charts/qmldir":          &fstest.MapFile{Data: []byte("module Charts\n")},
		"Charts.2/qmltypes.yaml": &fstest.MapFile{Data: []byte("module: Charts\ncomponents:\n  - name: PieChart\n")},
		"Charts.2/qmldir":        &fstest.MapFile{Data: []byte("module Charts\n")},
	}
	l := NewLoader(nil, Root{FS: fsys})

	info, found, err := l.Resolve(context.Background(), "Charts", "2.1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Charts.2", info.Path)
	assert.Equal(t, interp.TypeInfoFileDone, info.Status)
	component(t, info, "PieChart")

	info, _, err = l.Resolve(context.Background(), "Charts", "")
	require.NoError(t, err)
	assert.Equal(t, "Charts", info.Path)
	assert.Equal(t, interp.Pending, info.Status)
}

func TestResolve_BrokenTypeInfoStaysPending(t *testing.T) {
	t.Parallel()
	fsys := fstest.MapFS{
		"Bad/qmltypes.yaml": &fstest.MapFile{Data: []byte("components: [\n")},
	}
	info, found, err := NewLoader(nil, Root{FS: fsys}).Resolve(context.Background(), "Bad", "1.0")
	require.Error(t, err)
	assert.True(t, found)
	assert.Equal(t, interp.Pending, info.Status)
	assert.NotNil(t, info.Components)
}

func TestResolve_DependencyCycleTerminates(t *testing.T) {
	t.Parallel()
	fsys := fstest.MapFS{
		"A/qmldir": &fstest.MapFile{Data: []byte("module A\ndepends B 1.0\n")},
		"B/qmldir": &fstest.MapFile{Data: []byte("module B\ndepends A 1.0\n")},
	}
	l := NewLoader(nil, Root{FS: fsys})
	_, found, err := l.Resolve(context.Background(), "A", "1.0")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, l.Snapshot().Libraries(), 2)
}

func TestDiscover(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"QtQuick", "QtQuick.Controls"}, builtinLoader().Discover())
}

// =============================================================================
// qmldir
// =============================================================================

func TestParseQmldir(t *testing.T) {
	t.Parallel()
	q := ParseQmldir([]byte(`# comment
module QtQuick.Controls
plugin qtquickcontrols2plugin
typeinfo plugins.qmltypes
depends QtQuick 2.0
singleton Style 1.0 Style.qml
Button 2.0 Button.qml   # trailing comment
internal Helper Helper.qml
`))
	assert.Equal(t, "QtQuick.Controls", q.Module)
	assert.Equal(t, []string{"qtquickcontrols2plugin"}, q.Plugins)
	assert.Equal(t, []string{"plugins.qmltypes"}, q.TypeInfo)
	assert.Equal(t, []Dependency{{Module: "QtQuick", Version: "2.0"}}, q.Depends)
	assert.Equal(t, []FileComponent{
		{Name: "Button", Version: "2.0", File: "Button.qml"},
		{Name: "Helper", File: "Helper.qml", Internal: true},
	}, q.Components)
}

func TestDirectoryComponents(t *testing.T) {
	t.Parallel()
	fsys := fstest.MapFS{
		"ui/main.qml":     &fstest.MapFile{Data: []byte("Item { }\n")},
		"ui/Badge.qml":    &fstest.MapFile{Data: []byte("Rectangle { property string label }\n")},
		"ui/Avatar.qml":   &fstest.MapFile{Data: []byte("Image { signal tapped }\n")},
		"ui/helpers.js":   &fstest.MapFile{Data: []byte("var x = 1\n")},
		"ui/Nested/A.qml": &fstest.MapFile{Data: []byte("Item { }\n")},
		"ui/Skipped.qml":  &fstest.MapFile{Data: []byte("Item { }\n")},
	}
	components, err := DirectoryComponents(fsys, "ui", "Skipped.qml")
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.Equal(t, "Avatar", components[0].Name)
	assert.Equal(t, "Image", components[0].Prototype)
	assert.Equal(t, []string{"tapped"}, components[0].Signals)
	assert.Equal(t, "Badge", components[1].Name)
	assert.Equal(t, "label", components[1].Properties[0].Name)

	_, err = DirectoryComponents(fsys, "missing", "")
	require.Error(t, err)
}
