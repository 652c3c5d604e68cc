package qmlhover

import (
	"github.com/jward/qmlhover/internal/colors"
	"github.com/jward/qmlhover/internal/document"
	"github.com/jward/qmlhover/internal/hover"
	"github.com/jward/qmlhover/internal/interp"
	"github.com/jward/qmlhover/internal/store"
)

// Public type aliases for internal types used in the Engine and
// QueryBuilder API. These are Go type aliases (=): identical to the internal
// types at compile time, so no conversion is needed.

type Result = hover.Result
type Kind = hover.Kind
type HelpItem = hover.HelpItem
type Diagnostic = document.Diagnostic
type Color = colors.Color
type LibraryInfo = interp.LibraryInfo
type Store = store.Store
type HelpLink = store.Link
type ImportStats = store.ImportStats

// Result kinds.
const (
	KindEmpty = hover.Empty
	KindText  = hover.Text
	KindColor = hover.Color
	KindHelp  = hover.Help
)
