package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// --- Source operations ---

func (s *Store) InsertSource(src *Source) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO help_sources (path, hash, imported_at) VALUES (?, ?, ?)",
		src.Path, src.Hash, src.ImportedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert source: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	src.ID = id
	return id, nil
}

func (s *Store) SourceByPath(path string) (*Source, error) {
	src := &Source{}
	err := s.db.QueryRow(
		"SELECT id, path, hash, imported_at FROM help_sources WHERE path = ?", path,
	).Scan(&src.ID, &src.Path, &src.Hash, &src.ImportedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("source by path: %w", err)
	}
	return src, nil
}

func (s *Store) Sources() ([]*Source, error) {
	rows, err := s.db.Query("SELECT id, path, hash, imported_at FROM help_sources ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("sources: %w", err)
	}
	defer rows.Close()
	var out []*Source
	for rows.Next() {
		src := &Source{}
		if err := rows.Scan(&src.ID, &src.Path, &src.Hash, &src.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// --- Link operations ---

// InsertLink adds a link. A link with the same source, identifier and title
// is replaced.
func (s *Store) InsertLink(l *Link) (int64, error) {
	id, err := insertLinkTx(s.db, l)
	if err != nil {
		return 0, fmt.Errorf("insert link: %w", err)
	}
	l.ID = id
	return id, nil
}

func (s *Store) scanLink(scanner interface{ Scan(...any) error }) (*Link, error) {
	l := &Link{}
	var sourceID sql.NullInt64
	if err := scanner.Scan(&l.ID, &sourceID, &l.Identifier, &l.Title, &l.URL); err != nil {
		return nil, err
	}
	if sourceID.Valid {
		l.SourceID = &sourceID.Int64
	}
	return l, nil
}

func (s *Store) queryLinks(query string, args ...any) ([]*Link, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Link
	for rows.Next() {
		l, err := s.scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

const linkColumns = "id, source_id, identifier, title, url"

// Links returns the links stored for identifier, oldest first.
func (s *Store) Links(identifier string) ([]*Link, error) {
	links, err := s.queryLinks("SELECT "+linkColumns+" FROM help_links WHERE identifier = ? ORDER BY id", identifier)
	if err != nil {
		return nil, fmt.Errorf("links: %w", err)
	}
	return links, nil
}

// LinksBySource returns the links imported from a source.
func (s *Store) LinksBySource(sourceID int64) ([]*Link, error) {
	links, err := s.queryLinks("SELECT "+linkColumns+" FROM help_links WHERE source_id = ? ORDER BY id", sourceID)
	if err != nil {
		return nil, fmt.Errorf("links by source: %w", err)
	}
	return links, nil
}

// LinksForIdentifier maps link titles to URLs for identifier. When two
// sources use the same title the newer link wins. An identifier with no
// links yields an empty map.
func (s *Store) LinksForIdentifier(identifier string) (map[string]string, error) {
	links, err := s.Links(identifier)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(links))
	for _, l := range links {
		out[l.Title] = l.URL
	}
	return out, nil
}

// Identifiers lists every identifier starting with prefix together with its
// link count, sorted by identifier.
func (s *Store) Identifiers(prefix string) ([]IdentifierCount, error) {
	rows, err := s.db.Query(
		`SELECT identifier, COUNT(*) FROM help_links
		 WHERE identifier LIKE ? ESCAPE '\'
		 GROUP BY identifier ORDER BY identifier`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("identifiers: %w", err)
	}
	defer rows.Close()
	var out []IdentifierCount
	for rows.Next() {
		var ic IdentifierCount
		if err := rows.Scan(&ic.Identifier, &ic.Links); err != nil {
			return nil, fmt.Errorf("scan identifier: %w", err)
		}
		out = append(out, ic)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(s)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertLinkTx(db execer, l *Link) (int64, error) {
	// NULL source ids never conflict, so hand-added links are replaced here.
	if l.SourceID == nil {
		if _, err := db.Exec(
			"DELETE FROM help_links WHERE source_id IS NULL AND identifier = ? AND title = ?",
			l.Identifier, l.Title,
		); err != nil {
			return 0, err
		}
	}
	res, err := db.Exec(
		`INSERT INTO help_links (source_id, identifier, title, url) VALUES (?, ?, ?, ?)
		 ON CONFLICT(source_id, identifier, title) DO UPDATE SET url = excluded.url`,
		l.SourceID, l.Identifier, l.Title, l.URL,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
