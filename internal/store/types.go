package store

import "time"

// Source is a help import file. Hash is the content hash recorded at
// import, used to skip unchanged files.
type Source struct {
	ID         int64
	Path       string
	Hash       string
	ImportedAt time.Time
}

// Link is one documentation link for a help identifier such as
// `QML.Rectangle` or `Item::width`. SourceID is nil for links added by hand.
type Link struct {
	ID         int64
	SourceID   *int64
	Identifier string
	Title      string
	URL        string
}

// IdentifierCount summarises the links stored for one identifier.
type IdentifierCount struct {
	Identifier string
	Links      int
}
