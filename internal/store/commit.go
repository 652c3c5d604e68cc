package store

import (
	"database/sql"
	"fmt"
)

// CommitBatch inserts all buffered data from a BatchedStore into SQLite
// within a single transaction. Fake (negative) IDs are remapped to real
// (positive) IDs, and link source references within the batch are
// rewritten using the fakeToReal mapping.
//
// A buffered source whose path already exists replaces it: the old row and
// its links are deleted first.
//
// Insert order respects FK dependencies:
//  1. Sources
//  2. Links (depend on source_id)
func (s *Store) CommitBatch(batch *BatchedStore) error {
	batch.mu.Lock()
	defer batch.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("commit batch: begin: %w", err)
	}
	defer tx.Rollback()

	fakeToReal := make(map[int64]int64)

	// 1. Sources
	for _, src := range batch.Sources {
		if err := replaceSourceTx(tx, src.Path); err != nil {
			return fmt.Errorf("commit batch: source %q: %w", src.Path, err)
		}
		realID, err := insertSourceTx(tx, &src)
		if err != nil {
			return fmt.Errorf("commit batch: source %q: %w", src.Path, err)
		}
		fakeToReal[src.ID] = realID
	}

	// 2. Links
	for _, l := range batch.Links {
		if l.SourceID != nil && *l.SourceID < 0 {
			realID, ok := fakeToReal[*l.SourceID]
			if !ok {
				return fmt.Errorf("commit batch: link %q: unknown source %d", l.Identifier, *l.SourceID)
			}
			l.SourceID = &realID
		}
		if _, err := insertLinkTx(tx, &l); err != nil {
			return fmt.Errorf("commit batch: link %q: %w", l.Identifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: commit: %w", err)
	}

	batch.Sources = nil
	batch.Links = nil
	return nil
}

func replaceSourceTx(tx *sql.Tx, path string) error {
	var id int64
	err := tx.QueryRow("SELECT id FROM help_sources WHERE path = ?", path).Scan(&id)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	return deleteSourceTx(tx, id)
}

func insertSourceTx(tx *sql.Tx, src *Source) (int64, error) {
	res, err := tx.Exec(
		"INSERT INTO help_sources (path, hash, imported_at) VALUES (?, ?, ?)",
		src.Path, src.Hash, src.ImportedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
