// Package qmlhover answers hover requests for QML documents: what the
// identifier under the cursor is, which library an import resolves to, the
// color a color literal denotes, and which documentation covers a component
// or property.
//
// # Pipeline
//
// A document goes through two stages when it is opened:
//
//  1. Parse: the source is parsed into an AST. Syntax errors become
//     diagnostics; parsing never fails.
//
//  2. Analyse: imports are resolved against the import paths (library
//     directories with a qmltypes.yaml type-info file or a plugin.risor dump
//     script), JavaScript files and sibling component files. Unknown
//     component types and property names become semantic diagnostics.
//
// Hover requests then run against the analysed document. A request made
// while a newer revision replaces the document yields an empty result.
//
// # Usage
//
//	e, err := qmlhover.New(".qmlhover/help.db",
//		qmlhover.WithRoot("path/to/project"),
//		qmlhover.WithImportPaths("/opt/qt/qml"),
//	)
//	if err != nil { ... }
//	defer e.Close()
//
//	q := e.Query()
//	res, err := q.HoverAt("main.qml", 10, 5)
//
// # Query API
//
// The [QueryBuilder] returned by [Engine.Query] provides:
//
//   - [QueryBuilder.HoverAt] and [QueryBuilder.Hover]: the hover result at a
//     line and column or a byte offset.
//   - [QueryBuilder.Diagnostics]: syntax and semantic diagnostics.
//   - [QueryBuilder.Imports]: each import with what it resolved to.
//   - [QueryBuilder.HelpLinks]: documentation links for a help identifier.
//
// # Help index
//
// Help links live in a SQLite database filled from YAML import files (see
// [Engine.ImportHelpFile]). Without a database hovers still carry labels,
// imports and colors, only the links are missing.
package qmlhover
