package store

// LinkWriter is the interface for import-phase data access. Both Store
// (direct SQLite) and BatchedStore (in-memory buffering committed in one
// transaction) implement this interface.
type LinkWriter interface {
	// Inserts return the assigned ID.
	InsertSource(src *Source) (int64, error)
	InsertLink(l *Link) (int64, error)

	// Lookups used while importing to detect unchanged sources.
	SourceByPath(path string) (*Source, error)
	LinksForIdentifier(identifier string) (map[string]string, error)
}

// Compile-time check: *Store satisfies LinkWriter.
var _ LinkWriter = (*Store)(nil)
