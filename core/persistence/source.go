package persistence

import (
	"context"
	"maps"
	"sync"

	"github.com/minhloc/listquery/core/schema"
)

// Source supplies the raw records of a collection. Fetch returns a finite,
// fully materialized slice; the engine never pages the source itself.
type Source interface {
	Fetch(ctx context.Context) ([]schema.Document, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]schema.Document, error)

// Fetch calls f(ctx).
func (f SourceFunc) Fetch(ctx context.Context) ([]schema.Document, error) {
	return f(ctx)
}

// MemorySource serves an already loaded collection. Every Fetch returns a
// copy, so callers may not alter the stored records.
type MemorySource struct {
	mu   sync.RWMutex
	docs []schema.Document
}

// NewMemorySource creates a MemorySource holding a copy of docs.
func NewMemorySource(docs []schema.Document) *MemorySource {
	s := &MemorySource{}
	s.Replace(docs)
	return s
}

// Fetch implements Source.
func (s *MemorySource) Fetch(ctx context.Context) ([]schema.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyDocuments(s.docs), nil
}

// Replace swaps the stored records for a copy of docs.
func (s *MemorySource) Replace(docs []schema.Document) {
	c := copyDocuments(docs)
	s.mu.Lock()
	s.docs = c
	s.mu.Unlock()
}

// Len returns the number of stored records.
func (s *MemorySource) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// copyDocuments clones the slice and each top-level map. Nested values are
// shared.
func copyDocuments(docs []schema.Document) []schema.Document {
	out := make([]schema.Document, len(docs))
	for i, d := range docs {
		out[i] = maps.Clone(d)
	}
	return out
}
