// Package libraries embeds the QML libraries available without any import
// path: QtQuick (type-info file) and QtQuick.Controls (dump script).
package libraries

import "embed"

// FS holds the library directories, laid out as on an import path.
//
//go:embed QtQuick
var FS embed.FS

// RootName labels library paths that come from FS.
const RootName = "builtin:"
