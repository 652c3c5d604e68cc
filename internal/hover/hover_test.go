package hover

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/qmlhover/internal/ast"
	"github.com/jward/qmlhover/internal/colors"
	"github.com/jward/qmlhover/internal/document"
	"github.com/jward/qmlhover/internal/interp"
	"github.com/jward/qmlhover/internal/library"
	"github.com/jward/qmlhover/internal/semantic"
	"github.com/jward/qmlhover/libraries"
)

const mainQML = `import QtQuick 2.15
import QtQuick.Controls 2.15
import QtFoo 1.0
import "logic.js" as Logic
Rectangle {
    id: root
    width: 200
    color: "#ff0000"
    property color accent: 'red'
    property string greeting: "hello"
    property color computed: Qt.rgba(1, 0, 0, 1)
    Text {
        text: root.greeting
        horizontalAlignment: Text.AlignHCenter
        anchors.margins: 4
        width: parent.width
    }
    Item {}
}
`

// fakeIndex is a HelpIndex over a fixed set of identifiers.
type fakeIndex struct {
	ids     map[string]bool
	err     error
	queried []string
}

func newIndex(ids ...string) *fakeIndex {
	idx := &fakeIndex{ids: map[string]bool{}}
	for _, id := range ids {
		idx.ids[id] = true
	}
	return idx
}

func (f *fakeIndex) LinksForIdentifier(id string) (map[string]string, error) {
	f.queried = append(f.queried, id)
	if f.err != nil {
		return nil, f.err
	}
	if !f.ids[id] {
		return nil, nil
	}
	return map[string]string{id: "https://doc.qt.io/" + id}, nil
}

func buildInfo(t *testing.T, src string, roots ...library.Root) *semantic.Info {
	t.Helper()
	roots = append(roots, library.Root{Name: libraries.RootName, FS: libraries.FS})
	b := semantic.NewBuilder(library.NewLoader(nil, roots...), nil)
	info := b.Build(context.Background(), document.New("app/main.qml", 1, []byte(src)))
	require.True(t, info.Valid())
	return info
}

// offset returns the position of the first occurrence of marker plus delta.
func offset(t *testing.T, src, marker string, delta int) int {
	t.Helper()
	idx := strings.Index(src, marker)
	require.GreaterOrEqual(t, idx, 0, "marker %q", marker)
	return idx + delta
}

// scopeAt returns the scope chain and AST tail at offset.
func scopeAt(info *semantic.Info, off int) (*interp.ScopeChain, ast.Node) {
	path := Locate(info.Document, off)
	return info.ScopeChain(path.Range), path.Tail()
}

// =============================================================================
// Locate
// =============================================================================

func TestLocate(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)
	doc := info.Document

	path := Locate(doc, offset(t, mainQML, "200", 1))
	require.NotEmpty(t, path.Ast)
	require.Len(t, path.Range, 1)
	assert.IsType(t, &ast.Program{}, path.Ast[0])
	assert.IsType(t, &ast.NumericLiteral{}, path.Tail())

	inText := Locate(doc, offset(t, mainQML, "AlignHCenter", 0))
	assert.Len(t, inText.Range, 2)

	onImport := Locate(doc, offset(t, mainQML, "QtFoo", 1))
	assert.Empty(t, onImport.Range)
	assert.NotEmpty(t, onImport.Ast)

	onBrace := Locate(doc, offset(t, mainQML, "Rectangle {", len("Rectangle ")))
	assert.Empty(t, onBrace.Range)

	assert.Equal(t, NodePath{}, Locate(nil, 3))
	assert.Nil(t, NodePath{}.Tail())
}

func TestLocate_EmptyInitializer(t *testing.T) {
	t.Parallel()
	src := "import QtQuick 2.0\nItem {}\n"
	info := buildInfo(t, src)
	path := Locate(info.Document, offset(t, src, "{}", 1))
	assert.Empty(t, path.Range)
}

// =============================================================================
// Diagnostics
// =============================================================================

func TestMatchDiagnostic_InclusiveBoundaries(t *testing.T) {
	t.Parallel()
	diags := []document.Diagnostic{{Begin: 10, End: 20, Message: "unknown component \"Foo\""}}

	for _, off := range []int{10, 15, 20} {
		r, ok := MatchDiagnostic(diags, off)
		require.True(t, ok, "offset %d", off)
		assert.Equal(t, Result{Kind: Text, Text: `unknown component "Foo"`}, r)
	}
	for _, off := range []int{9, 21} {
		_, ok := MatchDiagnostic(diags, off)
		assert.False(t, ok, "offset %d", off)
	}
	_, ok := MatchDiagnostic(nil, 0)
	assert.False(t, ok)
}

func TestMatchDiagnostic_FirstWins(t *testing.T) {
	t.Parallel()
	diags := []document.Diagnostic{
		{Begin: 0, End: 5, Message: "first"},
		{Begin: 3, End: 8, Message: "second"},
	}
	r, ok := MatchDiagnostic(diags, 4)
	require.True(t, ok)
	assert.Equal(t, "first", r.Text)
}

// =============================================================================
// Imports
// =============================================================================

func TestMatchImport_PathPositions(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)
	sc := info.ScopeChain(nil)
	prog := info.Document.Program
	imp := prog.Imports[0]
	want := "Library at builtin:/QtQuick\nRead typeinfo files successfully."

	r, ok := MatchImport(sc, info.Document, []ast.Node{prog, imp})
	require.True(t, ok)
	assert.Equal(t, want, r.Text)

	r, ok = MatchImport(sc, info.Document, []ast.Node{prog, imp, imp.URI})
	require.True(t, ok)
	assert.Equal(t, want, r.Text)

	_, ok = MatchImport(sc, info.Document, []ast.Node{imp, prog.Root, prog.Root.TypeName})
	assert.False(t, ok, "only the last two positions are inspected")

	_, ok = MatchImport(sc, info.Document, nil)
	assert.False(t, ok)
}

func TestMatchImport_ForeignImportNode(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)
	other := buildInfo(t, mainQML)
	_, ok := MatchImport(info.ScopeChain(nil), info.Document, []ast.Node{other.Document.Program.Imports[0]})
	assert.False(t, ok, "imports match by node identity")
}

func TestIdentifyMatch_Imports(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)
	s := NewSession(nil)

	tests := []struct {
		name   string
		marker string
		delta  int
		want   string
	}{
		{"library name", "QtQuick 2.15", 2, "Library at builtin:/QtQuick\nRead typeinfo files successfully."},
		{"library version", "QtQuick 2.15", len("QtQuick 2"), "Library at builtin:/QtQuick\nRead typeinfo files successfully."},
		{"dumped library", "Controls", 2, "Library at builtin:/QtQuick/Controls\nDumped plugins successfully."},
		{"unresolved library", "QtFoo", 2, "QtFoo"},
		{"file import", "logic.js", 2, "logic.js"},
	}
	for _, tt := range tests {
		r := s.IdentifyMatch(info, nil, offset(t, mainQML, tt.marker, tt.delta))
		assert.Equal(t, Text, r.Kind, tt.name)
		assert.Equal(t, tt.want, r.Text, tt.name)
	}
}

func TestIdentifyMatch_PendingLibrary(t *testing.T) {
	t.Parallel()
	theme := fstest.MapFS{"Theme/qmldir": &fstest.MapFile{Data: []byte("module Theme\n")}}
	src := "import QtQuick 2.0\nimport Theme 1.0\nItem { }\n"
	info := buildInfo(t, src, library.Root{Name: "/qml", FS: theme})

	r := NewSession(nil).IdentifyMatch(info, nil, offset(t, src, "Theme", 1))
	assert.Equal(t, "Library at /qml/Theme", r.Text)
}

func TestIdentifyMatch_OutsideImportsIsEmpty(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)
	s := NewSession(nil)
	r := s.IdentifyMatch(info, nil, offset(t, mainQML, "Rectangle {", len("Rectangle ")))
	assert.True(t, r.IsEmpty())
	assert.Equal(t, Unresolved, s.State())
}

// =============================================================================
// Colors
// =============================================================================

func TestIdentifyMatch_ColorLiterals(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)
	s := NewSession(nil)

	r := s.IdentifyMatch(info, nil, offset(t, mainQML, `"#ff0000"`, 2))
	assert.Equal(t, Color, r.Kind)
	assert.Equal(t, "#ff0000", r.Text)
	assert.Equal(t, colors.Color{R: 0xff, A: 0xff}, r.Color)

	r = s.IdentifyMatch(info, nil, offset(t, mainQML, `'red'`, 2))
	assert.Equal(t, Color, r.Kind)
	assert.Equal(t, "red", r.Text)
	assert.Equal(t, colors.Color{R: 0xff, A: 0xff}, r.Color)
}

func TestMatchColor_Rejections(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)

	try := func(marker string, delta int) bool {
		off := offset(t, mainQML, marker, delta)
		path := Locate(info.Document, off)
		_, ok := MatchColor(info.ScopeChain(path.Range), info.Document, path.Range, off)
		return ok
	}
	assert.False(t, try("Qt.rgba", 3), "computed color does not parse")
	assert.False(t, try(`"hello"`, 2), "string property")
	assert.False(t, try("color:", 2), "cursor on the binding name")
	assert.False(t, try("width: 200", 8), "number binding")

	_, ok := MatchColor(nil, info.Document, nil, 0)
	assert.False(t, ok)
}

func TestMatchColor_StripsSemicolons(t *testing.T) {
	t.Parallel()
	src := "import QtQuick 2.0\nRectangle { color: \"blue\"; width: 2 }\n"
	info := buildInfo(t, src)
	off := offset(t, src, "blue", 1)
	path := Locate(info.Document, off)
	r, ok := MatchColor(info.ScopeChain(path.Range), info.Document, path.Range, off)
	require.True(t, ok)
	assert.Equal(t, "blue", r.Text)
	assert.Equal(t, colors.Color{B: 0xff, A: 0xff}, r.Color)
}

func TestMatchColor_WideHexAndSpacing(t *testing.T) {
	t.Parallel()
	src := "import QtQuick 2.0\nRectangle { color: \"#ffff00008000\" ; width: 2 }\n"
	info := buildInfo(t, src)
	off := offset(t, src, "ffff", 1)
	path := Locate(info.Document, off)
	r, ok := MatchColor(info.ScopeChain(path.Range), info.Document, path.Range, off)
	require.True(t, ok)
	assert.Equal(t, "#ffff00008000", r.Text)
	assert.Equal(t, colors.Color{R: 0xff, B: 0x80, A: 0xff}, r.Color)
}

// =============================================================================
// Ordinary labels
// =============================================================================

func TestResolveOrdinary(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)

	tests := []struct {
		name   string
		marker string
		delta  int
		want   string
	}{
		{"component type", "Text {", 1, "Text"},
		{"object valued property", "parent.width", 2, "Item"},
		{"enum property", "horizontalAlignment", 3, "HAlignment"},
		{"number property", "width: 200", 2, "number"},
		{"declared string property", "root.greeting", len("root.gr"), "string"},
		{"grouped property", "anchors.margins", len("anchors.ma"), "number"},
		{"id", "root.greeting", 1, "Rectangle"},
		{"numeric literal", "200", 1, ""},
		{"string literal", `"hello"`, 2, ""},
	}
	for _, tt := range tests {
		sc, node := scopeAt(info, offset(t, mainQML, tt.marker, tt.delta))
		assert.Equal(t, tt.want, ResolveOrdinary(sc, node), tt.name)
	}
	assert.Empty(t, ResolveOrdinary(nil, nil))
}

func TestResolveOrdinary_UnknownIsBlank(t *testing.T) {
	t.Parallel()
	src := "import QtQuick 2.0\nItem { width: missing }\n"
	info := buildInfo(t, src)
	sc, node := scopeAt(info, offset(t, src, "missing", 2))
	require.IsType(t, &ast.IdentifierExpression{}, node)
	assert.Empty(t, ResolveOrdinary(sc, node))
}

// =============================================================================
// Help
// =============================================================================

func TestResolveHelp_PrototypeWalkStopsAtDeclaringObject(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)
	sc, node := scopeAt(info, offset(t, mainQML, "width: 200", 2))

	idx := newIndex("Item::width", "QtObject::width")
	item, ok := ResolveHelp(sc, node, idx, "")
	require.True(t, ok)
	assert.Equal(t, "Item::width", item.ID)
	assert.Equal(t, "width", item.Name)
	assert.Equal(t, Property, item.Category)
	assert.Equal(t, []string{"Rectangle::width", "Item::width"}, idx.queried)

	idx = newIndex("QtObject::width")
	_, ok = ResolveHelp(sc, node, idx, "")
	assert.False(t, ok)
	assert.Equal(t, []string{"Rectangle::width", "Item::width"}, idx.queried, "walk never passes the declaring object")

	item, ok = ResolveHelp(sc, node, newIndex("Rectangle::width", "Item::width"), "")
	require.True(t, ok)
	assert.Equal(t, "Rectangle::width", item.ID)
}

func TestResolveHelp_Components(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)
	sc, node := scopeAt(info, offset(t, mainQML, "Text {", 1))

	item, ok := ResolveHelp(sc, node, newIndex("QML.Text"), "")
	require.True(t, ok)
	assert.Equal(t, &HelpItem{ID: "QML.Text", Name: "Text", Category: Component, Links: map[string]string{"QML.Text": "https://doc.qt.io/QML.Text"}}, item)

	item, ok = ResolveHelp(sc, node, newIndex("QtQuick.Text"), "QtQuick")
	require.True(t, ok)
	assert.Equal(t, "QtQuick.Text", item.ID)

	_, ok = ResolveHelp(sc, node, newIndex(), "")
	assert.False(t, ok)
}

func TestResolveHelp_MemberForms(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)
	idx := newIndex("Item::parent", "Item::width", "Anchors::margins", "Text::AlignHCenter", "Text::horizontalAlignment")

	tests := []struct {
		name   string
		marker string
		delta  int
		want   string
	}{
		{"identifier", "parent.width", 2, "Item::parent"},
		{"field member", "parent.width", len("parent.wi"), "Item::width"},
		{"field member on a type", "AlignHCenter", 2, "Text::AlignHCenter"},
		{"qualified id", "anchors.margins", len("anchors.ma"), "Anchors::margins"},
		{"binding name", "horizontalAlignment", 2, "Text::horizontalAlignment"},
	}
	for _, tt := range tests {
		sc, node := scopeAt(info, offset(t, mainQML, tt.marker, tt.delta))
		item, ok := ResolveHelp(sc, node, idx, "")
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.want, item.ID, tt.name)
		assert.Equal(t, Property, item.Category, tt.name)
	}
}

func TestResolveHelp_NotAMember(t *testing.T) {
	t.Parallel()
	src := "import QtQuick 2.0\nItem { width: 2; anchors.bogus: 1; height: missing }\n"
	info := buildInfo(t, src)
	idx := newIndex("Item::width")

	for _, marker := range []string{"2;", "bogus", "missing"} {
		sc, node := scopeAt(info, offset(t, src, marker, 0))
		_, ok := ResolveHelp(sc, node, idx, "")
		assert.False(t, ok, marker)
	}
	_, ok := ResolveHelp(nil, nil, idx, "")
	assert.False(t, ok)
}

func TestResolveHelp_QualifiedIdFailsClosed(t *testing.T) {
	t.Parallel()
	src := "import QtQuick 2.0\nItem { width.foo: 1 }\n"
	info := buildInfo(t, src)
	sc, node := scopeAt(info, offset(t, src, "foo", 1))
	_, ok := ResolveHelp(sc, node, newIndex("Item::foo", "Item::width"), "")
	assert.False(t, ok)
}

func TestResolveHelp_IndexErrorMeansNoLinks(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)
	sc, node := scopeAt(info, offset(t, mainQML, "width: 200", 2))
	idx := newIndex("Item::width")
	idx.err = errors.New("database is locked")
	_, ok := ResolveHelp(sc, node, idx, "")
	assert.False(t, ok)
}

// =============================================================================
// Session
// =============================================================================

func TestSession_DiagnosticBeatsColor(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)
	begin := offset(t, mainQML, `"#ff0000"`, 0)
	diags := []document.Diagnostic{{Begin: begin, End: begin + 9, Message: "boom"}}

	r := NewSession(nil).IdentifyMatch(info, diags, begin+2)
	assert.Equal(t, Result{Kind: Text, Text: "boom"}, r)
}

func TestSession_SemanticDiagnostic(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)
	r := NewSession(nil).IdentifyMatch(info, info.Diagnostics, offset(t, mainQML, "QtFoo", 1))
	assert.Equal(t, `module "QtFoo" not found`, r.Text)
}

func TestSession_LabelAndHelp(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)
	s := NewSession(newIndex("QML.Text", "Item::width"))

	r := s.IdentifyMatch(info, nil, offset(t, mainQML, "Text {", 1))
	assert.Equal(t, Text, r.Kind)
	assert.Equal(t, "Text", r.Text)
	require.NotNil(t, r.Help)
	assert.Equal(t, "QML.Text", r.Help.ID)
	assert.Equal(t, Resolved, s.State())
	assert.Equal(t, r, s.Result())
}

func TestSession_HelpWithoutLabel(t *testing.T) {
	t.Parallel()
	src := "import QtQuick 2.0\nItem {\n    children: []\n    onWidthChanged: console.log(1)\n}\n"
	info := buildInfo(t, src)
	s := NewSession(newIndex("Item::children", "Item::onWidthChanged"))

	r := s.IdentifyMatch(info, nil, offset(t, src, "children", 2))
	assert.Equal(t, Help, r.Kind, "list properties have no label")
	assert.Empty(t, r.Text)
	require.NotNil(t, r.Help)
	assert.Equal(t, "Item::children", r.Help.ID)

	r = s.IdentifyMatch(info, nil, offset(t, src, "onWidthChanged", 2))
	assert.Equal(t, Text, r.Kind)
	assert.Equal(t, "Function", r.Text)
	require.NotNil(t, r.Help)
	assert.Equal(t, "Item::onWidthChanged", r.Help.ID)

	r = s.IdentifyMatch(info, nil, offset(t, src, "console", 2))
	assert.Equal(t, "console", r.Text)
	assert.Nil(t, r.Help)
}

func TestSession_HelpPrefixOption(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)
	r := NewSession(newIndex("QtQuick.Text"), WithHelpPrefix("QtQuick")).IdentifyMatch(info, nil, offset(t, mainQML, "Text {", 1))
	require.NotNil(t, r.Help)
	assert.Equal(t, "QtQuick.Text", r.Help.ID)
}

func TestSession_ResetIsIdempotent(t *testing.T) {
	t.Parallel()
	info := buildInfo(t, mainQML)
	s := NewSession(nil)
	s.IdentifyMatch(info, nil, offset(t, mainQML, `"#ff0000"`, 2))
	require.Equal(t, Resolved, s.State())

	s.Reset()
	once, onceState := s.Result(), s.State()
	s.Reset()
	assert.Equal(t, once, s.Result())
	assert.Equal(t, onceState, s.State())
	assert.Equal(t, Idle, s.State())
	assert.True(t, s.Result().IsEmpty())
}

func TestSession_InvalidOrOutdatedInfo(t *testing.T) {
	t.Parallel()
	s := NewSession(nil)
	diags := []document.Diagnostic{{Begin: 0, End: 100, Message: "boom"}}

	assert.True(t, s.IdentifyMatch(nil, diags, 1).IsEmpty())
	assert.Equal(t, Unresolved, s.State())

	info := buildInfo(t, mainQML)
	info.MarkOutdated()
	assert.True(t, s.IdentifyMatch(info, diags, 1).IsEmpty())
}

func TestKindAndStateStrings(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "empty", Empty.String())
	assert.Equal(t, "color", Color.String())
	assert.Equal(t, "help", Help.String())
	assert.Equal(t, "property", Property.String())
	assert.Equal(t, "component", Component.String())
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "empty", Unresolved.String())
}
