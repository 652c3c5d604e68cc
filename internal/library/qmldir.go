package library

import (
	"bufio"
	"bytes"
	"strings"
)

// Qmldir is the parsed module definition file of a library directory.
type Qmldir struct {
	Module     string
	Plugins    []string
	TypeInfo   []string
	Depends    []Dependency
	Components []FileComponent
}

// Dependency is a `depends <Module> <version>` line.
type Dependency struct {
	Module  string
	Version string
}

// FileComponent is a `<Type> <version> <File.qml>` line.
type FileComponent struct {
	Name     string
	Version  string
	File     string
	Internal bool
}

// ParseQmldir reads a qmldir file. Unknown directives are ignored.
func ParseQmldir(data []byte) Qmldir {
	var q Qmldir
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if i := strings.Index(line, "#"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "module":
			if len(fields) > 1 {
				q.Module = fields[1]
			}
		case "plugin":
			if len(fields) > 1 {
				q.Plugins = append(q.Plugins, fields[1])
			}
		case "typeinfo":
			if len(fields) > 1 {
				q.TypeInfo = append(q.TypeInfo, fields[1])
			}
		case "depends":
			if len(fields) > 1 {
				d := Dependency{Module: fields[1]}
				if len(fields) > 2 {
					d.Version = fields[2]
				}
				q.Depends = append(q.Depends, d)
			}
		case "internal":
			if len(fields) == 3 {
				q.Components = append(q.Components, FileComponent{Name: fields[1], File: fields[2], Internal: true})
			}
		case "singleton", "classname", "designersupported", "optional", "import":
		default:
			if len(fields) == 3 && strings.HasSuffix(fields[2], ".qml") {
				q.Components = append(q.Components, FileComponent{Name: fields[0], Version: fields[1], File: fields[2]})
			}
		}
	}
	return q
}
