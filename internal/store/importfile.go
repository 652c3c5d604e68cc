package store

import (
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// HelpFile is the YAML layout of a help import file:
//
//	links:
//	  QML.Rectangle:
//	    Rectangle: https://doc.qt.io/qt-6/qml-qtquick-rectangle.html
//	  Item::width:
//	    width: https://doc.qt.io/qt-6/qml-qtquick-item.html#width-prop
type HelpFile struct {
	Links map[string]map[string]string `yaml:"links"`
}

// ParseHelpFile decodes a help import file.
func ParseHelpFile(data []byte) (*HelpFile, error) {
	var hf HelpFile
	if err := yaml.Unmarshal(data, &hf); err != nil {
		return nil, fmt.Errorf("parse help file: %w", err)
	}
	for id, links := range hf.Links {
		if id == "" {
			return nil, fmt.Errorf("parse help file: empty identifier")
		}
		for title, url := range links {
			if url == "" {
				return nil, fmt.Errorf("parse help file: %s: link %q has no url", id, title)
			}
		}
	}
	return &hf, nil
}

// ImportStats reports what an import did.
type ImportStats struct {
	Skipped     bool
	Identifiers int
	Links       int
}

// WriteHelpFile records src and the file's links through w. Identifiers and
// titles are written in sorted order.
func WriteHelpFile(w LinkWriter, src *Source, hf *HelpFile) (ImportStats, error) {
	var stats ImportStats
	sourceID, err := w.InsertSource(src)
	if err != nil {
		return stats, err
	}
	ids := make([]string, 0, len(hf.Links))
	for id := range hf.Links {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		links := hf.Links[id]
		titles := make([]string, 0, len(links))
		for title := range links {
			titles = append(titles, title)
		}
		sort.Strings(titles)
		for _, title := range titles {
			if _, err := w.InsertLink(&Link{
				SourceID:   &sourceID,
				Identifier: id,
				Title:      title,
				URL:        links[title],
			}); err != nil {
				return stats, err
			}
			stats.Links++
		}
		stats.Identifiers++
	}
	return stats, nil
}

// ImportHelpFile imports data as the help source at path. When the stored
// source already has the same content hash nothing is written and
// ImportStats.Skipped is set. Otherwise the source's previous links are
// replaced in one transaction.
func (s *Store) ImportHelpFile(path string, data []byte) (ImportStats, error) {
	hash := ComputeContentHash(data)
	existing, err := s.SourceByPath(path)
	if err != nil {
		return ImportStats{}, err
	}
	if existing != nil && existing.Hash == hash {
		return ImportStats{Skipped: true}, nil
	}

	hf, err := ParseHelpFile(data)
	if err != nil {
		return ImportStats{}, err
	}
	batch := NewBatchedStore(s)
	stats, err := WriteHelpFile(batch, &Source{
		Path:       path,
		Hash:       hash,
		ImportedAt: time.Now().UTC(),
	}, hf)
	if err != nil {
		return ImportStats{}, err
	}
	if err := s.CommitBatch(batch); err != nil {
		return ImportStats{}, err
	}
	return stats, nil
}
