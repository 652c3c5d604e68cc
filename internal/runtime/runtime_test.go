package runtime

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/qmlhover/internal/typeinfo"
)

const controlsDump = `
log.Info("dumping " + library)

register_component({
    "name": "Control",
    "prototype": "Item",
    "properties": {"padding": "real", "font": "font"}
})

register_component({
    "name": "Button",
    "prototype": "Control",
    "properties": {"text": "string", "checked": "bool", "display": "Display"},
    "enums": {"Display": ["IconOnly", "TextOnly", "TextBesideIcon"]},
    "methods": {"toggle": "void"},
    "signals": ["clicked", "pressAndHold"]
})
`

// =============================================================================
// Dump scripts
// =============================================================================

func TestDump_RegistersComponents(t *testing.T) {
	t.Parallel()
	mapFS := fstest.MapFS{
		"QtQuick/Controls/plugin.risor": &fstest.MapFile{Data: []byte(controlsDump)},
	}
	rt := NewRuntime("", WithRuntimeFS(mapFS))

	components, err := rt.Dump(context.Background(), DumpScriptPath("QtQuick/Controls"), "QtQuick.Controls")
	require.NoError(t, err)
	require.Len(t, components, 2)

	control := components[0]
	assert.Equal(t, "Control", control.Name)
	assert.Equal(t, "Item", control.Prototype)
	assert.Equal(t, []typeinfo.Property{{Name: "font", Type: "font"}, {Name: "padding", Type: "real"}}, control.Properties)

	button := components[1]
	assert.Equal(t, "Control", button.Prototype)
	assert.Equal(t, []typeinfo.Enum{{Name: "Display", Keys: []string{"IconOnly", "TextOnly", "TextBesideIcon"}}}, button.Enums)
	assert.Equal(t, []typeinfo.Method{{Name: "toggle", Returns: "void"}}, button.Methods)
	assert.Equal(t, []string{"clicked", "pressAndHold"}, button.Signals)
	assert.False(t, button.Internal)
}

func TestDump_MissingNameFails(t *testing.T) {
	t.Parallel()
	mapFS := fstest.MapFS{
		"Broken/plugin.risor": &fstest.MapFile{Data: []byte(`register_component({"prototype": "Item"})`)},
	}
	rt := NewRuntime("", WithRuntimeFS(mapFS))

	_, err := rt.Dump(context.Background(), DumpScriptPath("Broken"), "Broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "component name is required")
}

func TestDump_BadPropertyType(t *testing.T) {
	t.Parallel()
	rt := NewRuntime("", WithRuntimeFS(fstest.MapFS{
		"plugin.risor": &fstest.MapFile{Data: []byte(`register_component({"name": "X", "properties": {"a": 1}})`)},
	}))

	_, err := rt.Dump(context.Background(), "plugin.risor", "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected string")
}

func TestDump_ScriptImportsHelpers(t *testing.T) {
	t.Parallel()
	mapFS := fstest.MapFS{
		"helpers.risor": &fstest.MapFile{Data: []byte(`
func item(name) {
    return {"name": name, "prototype": "Item"}
}
`)},
		"Shapes/plugin.risor": &fstest.MapFile{Data: []byte(`
import helpers
register_component(helpers.item("Shape"))
`)},
	}
	rt := NewRuntime("", WithRuntimeFS(mapFS))

	components, err := rt.Dump(context.Background(), DumpScriptPath("Shapes"), "Shapes")
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.Equal(t, "Shape", components[0].Name)
}

func TestDump_FromDisk(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Extra"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Extra", DumpScriptName),
		[]byte(`register_component({"name": "Gauge", "internal": true})`), 0o644))

	rt := NewRuntime(dir)
	components, err := rt.Dump(context.Background(), filepath.Join("Extra", DumpScriptName), "Extra")
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.True(t, components[0].Internal)
}

// =============================================================================
// Script loading
// =============================================================================

func TestRunScript_MissingFile(t *testing.T) {
	t.Parallel()
	rt := NewRuntime(t.TempDir())
	err := rt.RunScript(context.Background(), "nonexistent.risor", nil)
	require.Error(t, err)
}

func TestLoadScript_FromFS_StripsLeadingSeparator(t *testing.T) {
	t.Parallel()
	content := `x := 42`
	rt := NewRuntime("", WithRuntimeFS(fstest.MapFS{
		"lib/plugin.risor": &fstest.MapFile{Data: []byte(content)},
	}))

	got, err := rt.LoadScript("/lib/plugin.risor")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	_, err = rt.LoadScript("missing.risor")
	require.Error(t, err)
}

func TestRunSource_ExtraGlobals(t *testing.T) {
	t.Parallel()
	rt := NewRuntime("")
	err := rt.RunSource(context.Background(), `
assert(answer == 42, 'expected 42')
log.Warn("checked")
`, map[string]any{"answer": 42})
	require.NoError(t, err)
}

func TestDumpScriptPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "QtQuick/Controls/plugin.risor", DumpScriptPath("QtQuick/Controls"))
	assert.Equal(t, "plugin.risor", DumpScriptPath("."))
}
