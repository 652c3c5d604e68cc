package library

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"unicode"

	"github.com/jward/qmlhover/internal/ast"
	"github.com/jward/qmlhover/internal/document"
	"github.com/jward/qmlhover/internal/typeinfo"
)

// FileComponents describes QML-file components. Each takes its prototype
// from the file's root object and its properties, signals and functions
// from the root's members. Unreadable files are skipped; the first error
// is returned alongside the components that could be read.
func FileComponents(fsys fs.FS, dir string, entries []FileComponent) ([]typeinfo.Component, error) {
	var out []typeinfo.Component
	var firstErr error
	for _, fc := range entries {
		src, err := fs.ReadFile(fsys, path.Join(dir, fc.File))
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("library: component %s: %w", fc.Name, err)
			}
			continue
		}
		out = append(out, describeFile(fc, src))
	}
	return out, firstErr
}

// DirectoryComponents lists the components a directory import provides:
// every .qml file whose name starts with an uppercase letter, except skip.
func DirectoryComponents(fsys fs.FS, dir, skip string) ([]typeinfo.Component, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("library: read directory %s: %w", dir, err)
	}
	var files []FileComponent
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".qml") || name == skip {
			continue
		}
		typeName := strings.TrimSuffix(name, ".qml")
		if typeName == "" || !unicode.IsUpper(rune(typeName[0])) {
			continue
		}
		files = append(files, FileComponent{Name: typeName, File: name})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return FileComponents(fsys, dir, files)
}

func describeFile(fc FileComponent, src []byte) typeinfo.Component {
	doc := document.New(fc.File, 0, src)
	c := typeinfo.Component{Name: fc.Name, Internal: fc.Internal}
	if root := doc.Program.Root; root != nil {
		c.Prototype = root.TypeName.String()
		if root.Initializer != nil {
			describeMembers(&c, root.Initializer.Members)
		}
	}
	return c
}

func describeMembers(c *typeinfo.Component, members []ast.Member) {
	for _, m := range members {
		switch m := m.(type) {
		case *ast.UiPublicMember:
			if m.Name == "" {
				continue
			}
			if m.Kind == ast.MemberSignal {
				c.Signals = append(c.Signals, m.Name)
				continue
			}
			typ := m.MemberType
			if typ == "alias" {
				typ = "var"
			}
			c.Properties = append(c.Properties, typeinfo.Property{Name: m.Name, Type: typ})
		case *ast.UiSourceElement:
			if m.Function != nil && m.Function.Name != "" {
				c.Methods = append(c.Methods, typeinfo.Method{Name: m.Function.Name})
			}
		}
	}
}
