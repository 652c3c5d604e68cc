package qmlhover

import (
	"context"
	"fmt"
	"io/fs"
	"runtime"
	"sort"
	"sync"

	"github.com/jward/qmlhover/internal/document"
	"github.com/jward/qmlhover/internal/semantic"
)

// FileDiagnostics is the outcome of checking one document.
type FileDiagnostics struct {
	Path        string
	Diagnostics []Diagnostic
}

// workItem holds everything a check worker needs.
type workItem struct {
	path string
	src  []byte
	rev  int
}

// CheckFiles opens the given documents and returns their diagnostics,
// sorted by path, using a three-phase pipeline:
//
//	Phase A (serial):   Read sources, assign revisions.
//	Phase B (parallel): Parse and analyse via a worker pool.
//	Phase C (serial):   Install the results as the open documents.
//
// Documents that cannot be read are reported together after the others
// are installed.
func (e *Engine) CheckFiles(ctx context.Context, paths []string) ([]FileDiagnostics, error) {
	if e.files == nil {
		return nil, fmt.Errorf("qmlhover: check: no files configured")
	}

	// ---- Phase A: Serial preparation ----
	var errs []error
	var items []workItem
	e.mu.Lock()
	for _, p := range paths {
		src, err := fs.ReadFile(e.files, p)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", p, err))
			continue
		}
		rev := 1
		if prev, ok := e.docs[p]; ok {
			rev = prev.doc.Revision + 1
		}
		items = append(items, workItem{path: p, src: src, rev: rev})
	}
	e.mu.Unlock()

	// ---- Phase B: Parallel analysis ----
	type result struct {
		item workItem
		doc  *document.Document
		info *semantic.Info
	}
	resultCh := make(chan result, len(items))
	if len(items) > 0 {
		numWorkers := min(runtime.NumCPU(), len(items))
		if numWorkers < 1 {
			numWorkers = 1
		}

		workCh := make(chan workItem, len(items))
		for _, item := range items {
			workCh <- item
		}
		close(workCh)

		var wg sync.WaitGroup
		for range numWorkers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for item := range workCh {
					if ctx.Err() != nil {
						continue
					}
					doc := document.New(item.path, item.rev, item.src)
					resultCh <- result{item: item, doc: doc, info: e.builder.Build(ctx, doc)}
				}
			}()
		}
		wg.Wait()
	}
	close(resultCh)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// ---- Phase C: Serial install ----
	var out []FileDiagnostics
	e.mu.Lock()
	for res := range resultCh {
		if prev, ok := e.docs[res.item.path]; ok {
			if prev.doc.Revision >= res.doc.Revision {
				// Opened again while checking; the newer revision stays.
				continue
			}
			prev.info.MarkOutdated()
		}
		e.docs[res.item.path] = &openDocument{doc: res.doc, info: res.info}
		out = append(out, FileDiagnostics{Path: res.item.path, Diagnostics: res.info.Diagnostics})
	}
	e.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	if len(errs) > 0 {
		return out, fmt.Errorf("check had %d error(s): %w", len(errs), errs[0])
	}
	return out, nil
}

// CheckDirectory lists the documents under the Engine's files and checks
// them all.
func (e *Engine) CheckDirectory(ctx context.Context) ([]FileDiagnostics, error) {
	paths, err := e.ListDocuments()
	if err != nil {
		return nil, err
	}
	return e.CheckFiles(ctx, paths)
}
