package search

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/docpatch/docpatch/value"
)

// Hit is one search result.
type Hit struct {
	Document string  `json:"document"`
	Path     string  `json:"path"`
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
}

// Index is an in-memory full-text index over flattened documents.
// All methods are safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	idx     bleve.Index
	entries map[string][]string // document name -> indexed entry IDs
}

// New creates an empty in-memory index.
func New() (*Index, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("search: create index: %w", err)
	}
	return &Index{
		idx:     idx,
		entries: make(map[string][]string),
	}, nil
}

// IndexDocument replaces the indexed entries for doc with a fresh flatten
// of tree.
func (x *Index) IndexDocument(doc string, tree *value.Value) error {
	entries := Flatten(doc, tree)

	x.mu.Lock()
	defer x.mu.Unlock()

	batch := x.idx.NewBatch()
	for _, id := range x.entries[doc] {
		batch.Delete(id)
	}

	ids := make([]string, 0, len(entries))
	for i, e := range entries {
		id := doc + "\x00" + e.Path + "\x00" + strconv.Itoa(i)
		if err := batch.Index(id, e); err != nil {
			return fmt.Errorf("search: index %s: %w", doc, err)
		}
		ids = append(ids, id)
	}
	if err := x.idx.Batch(batch); err != nil {
		return fmt.Errorf("search: index %s: %w", doc, err)
	}
	x.entries[doc] = ids
	return nil
}

// Remove drops all indexed entries for doc.
func (x *Index) Remove(doc string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	batch := x.idx.NewBatch()
	for _, id := range x.entries[doc] {
		batch.Delete(id)
	}
	if err := x.idx.Batch(batch); err != nil {
		return fmt.Errorf("search: remove %s: %w", doc, err)
	}
	delete(x.entries, doc)
	return nil
}

// Search returns up to limit hits for the query, best score first.
func (x *Index) Search(query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}

	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"document", "path", "text"}

	x.mu.RLock()
	res, err := x.idx.Search(req)
	x.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("search: query %q: %w", query, err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{
			Document: fieldString(h.Fields, "document"),
			Path:     fieldString(h.Fields, "path"),
			Text:     fieldString(h.Fields, "text"),
			Score:    h.Score,
		})
	}
	return hits, nil
}

// Close releases the underlying index.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.idx.Close()
}

func fieldString(fields map[string]interface{}, name string) string {
	if s, ok := fields[name].(string); ok {
		return s
	}
	return ""
}
