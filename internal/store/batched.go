package store

import "sync"

// BatchedStore buffers help inserts in memory using fake (negative) IDs.
// It implements LinkWriter so importers can write to it without knowing
// whether they're hitting SQLite or an in-memory buffer.
//
// Thread safety: the mutex protects fake ID allocation and slice appends.
// Read queries are passed through to the underlying Store and merged with
// the buffered rows.
type BatchedStore struct {
	store *Store // for read passthrough
	mu    sync.Mutex

	// Buffered import data.
	Sources []Source
	Links   []Link

	nextFakeID int64 // starts at -1, decrements
}

// Compile-time check: *BatchedStore satisfies LinkWriter.
var _ LinkWriter = (*BatchedStore)(nil)

// NewBatchedStore creates a BatchedStore backed by the given Store for read queries.
func NewBatchedStore(s *Store) *BatchedStore {
	return &BatchedStore{
		store:      s,
		nextFakeID: -1,
	}
}

func (b *BatchedStore) allocFakeID() int64 {
	id := b.nextFakeID
	b.nextFakeID--
	return id
}

func (b *BatchedStore) InsertSource(src *Source) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fakeID := b.allocFakeID()
	src.ID = fakeID
	b.Sources = append(b.Sources, *src)
	return fakeID, nil
}

func (b *BatchedStore) InsertLink(l *Link) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fakeID := b.allocFakeID()
	l.ID = fakeID
	b.Links = append(b.Links, *l)
	return fakeID, nil
}

// SourceByPath returns a buffered source for path, falling back to the
// database.
func (b *BatchedStore) SourceByPath(path string) (*Source, error) {
	b.mu.Lock()
	for i := range b.Sources {
		if b.Sources[i].Path == path {
			src := b.Sources[i]
			b.mu.Unlock()
			return &src, nil
		}
	}
	b.mu.Unlock()
	return b.store.SourceByPath(path)
}

// LinksForIdentifier returns committed links merged with buffered ones.
// Buffered links win on title clashes.
func (b *BatchedStore) LinksForIdentifier(identifier string) (map[string]string, error) {
	out, err := b.store.LinksForIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, l := range b.Links {
		if l.Identifier == identifier {
			out[l.Title] = l.URL
		}
	}
	return out, nil
}

// Len reports the number of buffered rows.
func (b *BatchedStore) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Sources) + len(b.Links)
}
