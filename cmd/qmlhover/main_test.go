package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/qmlhover"
	"github.com/jward/qmlhover/internal/colors"
	"github.com/jward/qmlhover/internal/config"
	"github.com/jward/qmlhover/internal/hover"
	"github.com/jward/qmlhover/internal/interp"
)

// =============================================================================
// Arguments & project
// =============================================================================

func TestValidateFormat(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validateFormat("json"))
	assert.NoError(t, validateFormat("text"))
	err := validateFormat("yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"yaml"`)
}

func TestParseIntArg(t *testing.T) {
	t.Parallel()
	n, err := parseIntArg("12", "line")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = parseIntArg("x", "line")
	assert.ErrorContains(t, err, "invalid line")
	_, err = parseIntArg("-1", "col")
	assert.ErrorContains(t, err, "must be non-negative")
}

func TestDocumentPath(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	p := &project{cfg: config.Default(root)}

	got, err := p.documentPath(filepath.Join(root, "views", "Main.qml"))
	require.NoError(t, err)
	assert.Equal(t, "views/Main.qml", got)

	_, err = p.documentPath(filepath.Join(filepath.Dir(root), "Other.qml"))
	assert.ErrorContains(t, err, "outside the project root")
}

func TestLoadProjectFrom_ConfigFile(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	sub := filepath.Join(root, "app", "views")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName), []byte("import_paths = [\"qml\"]\nhelp_prefix = \"Qt\"\n"), 0o644))

	p, err := loadProjectFrom(sub)
	require.NoError(t, err)
	assert.Equal(t, root, p.cfg.Root)
	assert.Equal(t, []string{filepath.Join(root, "qml")}, p.cfg.ImportPaths)
	assert.Equal(t, "Qt", p.cfg.HelpPrefix)
	assert.Equal(t, filepath.Join(root, ".qmlhover", "help.db"), p.cfg.HelpDB)
}

func TestWorkspaceEngine(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.qml"), []byte("import QtQuick 2.15\nItem {\n}\n"), 0o644))

	e, err := workspaceEngine(root)
	require.NoError(t, err)
	defer e.Close()

	assert.NotNil(t, e.Store(), "a workspace gets a help index")
	res, err := e.Query().HoverAt("main.qml", 0, 8)
	require.NoError(t, err)
	assert.Equal(t, qmlhover.KindText, res.Kind)
}

// =============================================================================
// Conversion
// =============================================================================

func TestHoverToCLI_Color(t *testing.T) {
	t.Parallel()
	res := hover.Result{Kind: hover.Color, Text: "#80ff0000", Color: colors.Color{R: 255, A: 0x80}}
	h := hoverToCLI("main.qml", 2, 13, res)

	assert.Equal(t, "color", h.Kind)
	require.NotNil(t, h.Color)
	assert.Equal(t, CLIRGBA{Hex: "#80ff0000", R: 255, A: 0x80}, *h.Color)
	assert.Nil(t, h.Help)
}

func TestHoverToCLI_HelpLinksSorted(t *testing.T) {
	t.Parallel()
	res := hover.Result{Kind: hover.Text, Text: "number", Help: &hover.HelpItem{
		ID: "Item::width", Name: "width", Category: hover.Property,
		Links: map[string]string{"width": "https://w", "Positioning": "https://p"},
	}}
	h := hoverToCLI("main.qml", 0, 0, res)

	assert.Nil(t, h.Color)
	require.NotNil(t, h.Help)
	assert.Equal(t, "property", h.Help.Category)
	assert.Equal(t, []CLILink{{Title: "Positioning", URL: "https://p"}, {Title: "width", URL: "https://w"}}, h.Help.Links)
}

func TestDiagnosticsToCLI(t *testing.T) {
	t.Parallel()
	files := fstest.MapFS{
		"broken.qml": {Data: []byte("import QtFoo 1.0\nItem {\n}\n")},
		"ok.qml":     {Data: []byte("import QtQuick 2.15\nItem {\n}\n")},
	}
	e, err := qmlhover.New("", qmlhover.WithFiles(files))
	require.NoError(t, err)
	defer e.Close()

	results, err := e.CheckFiles(context.Background(), []string{"ok.qml", "broken.qml"})
	require.NoError(t, err)

	diags := diagnosticsToCLI(e, results)
	require.Len(t, diags, 1)
	assert.Equal(t, CLIDiagnostic{
		File: "broken.qml", StartLine: 0, StartCol: 7, EndLine: 0, EndCol: 12,
		Severity: "error", Source: "semantic", Message: `module "QtFoo" not found`,
	}, diags[0])
	assert.Equal(t, 1, countErrors(diags))
}

func TestLibrariesToCLI(t *testing.T) {
	t.Parallel()
	loaded := []qmlhover.LibraryInfo{
		{Path: "builtin:/QtQuick/Controls", Status: interp.TypeInfoFileDone},
		{Path: "/proj/widgets", Status: interp.TypeInfoFileDone},
	}
	got := librariesToCLI([]string{"QtQuick", "QtQuick.Controls"}, loaded)

	assert.Equal(t, []CLILibrary{
		{Name: "QtQuick"},
		{Name: "QtQuick.Controls", Path: "builtin:/QtQuick/Controls", Status: "typeinfo", Loaded: true},
		{Path: "/proj/widgets", Status: "typeinfo", Loaded: true},
	}, got)
}

// =============================================================================
// Text output
// =============================================================================

func TestOutputResultText_Imports(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := outputResultText(&buf, CLIResult{Command: "imports", Results: []CLIImport{
		{Kind: "library", Path: "QtQuick", Version: "2.15", LibraryPath: "builtin:/QtQuick", Status: "typeinfo"},
		{Kind: "file", Path: "widgets", As: "W"},
	}})
	require.NoError(t, err)
	assert.Equal(t,
		"KIND     PATH     VERSION  AS  RESOLVED          STATUS\n"+
			"library  QtQuick  2.15     -   builtin:/QtQuick  typeinfo\n"+
			"file     widgets  -        W   -                 -\n",
		buf.String())
}

func TestOutputResultText_Diagnostics(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := outputResultText(&buf, CLIResult{Command: "check", Results: []CLIDiagnostic{
		{File: "broken.qml", StartLine: 0, StartCol: 7, Severity: "error", Message: `module "QtFoo" not found`},
	}})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "broken.qml:1:8: ")
	assert.Contains(t, out, `module "QtFoo" not found`)
	assert.Contains(t, out, "1 diagnostic(s)")
}

func TestOutputResultText_Hover(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := outputResultText(&buf, CLIResult{Command: "hover", Results: CLIHover{
		File: "main.qml", Line: 2, Col: 13, Kind: "color", Text: "#ff0000",
		Color: &CLIRGBA{Hex: "#ff0000", R: 255, A: 255},
	}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "#ff0000  rgba(255, 0, 0, 1.00)")
}

func TestOutputResultText_Nil(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, outputResultText(&buf, CLIResult{Command: "hover"}))
	assert.Empty(t, buf.String())
}

func TestOutputResultText_Unsupported(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	assert.Error(t, outputResultText(&buf, CLIResult{Command: "x", Results: 42}))
}
