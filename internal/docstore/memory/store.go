// Package memory provides an in-memory document store used for tests and
// ephemeral environments.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"mealcore/internal/docstore/core"
)

// Compile-time contract assertion.
var _ core.Store = (*Store)(nil)

// Store keeps collections as maps of cloned documents guarded by a single
// read-write mutex. Documents handed out are always deep copies so callers
// can never mutate stored state in place.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]core.Document
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{collections: make(map[string]map[string]core.Document)}
}

func cloneDocument(doc core.Document) core.Document {
	out := make(core.Document, len(doc))
	for k, v := range doc {
		switch val := v.(type) {
		case []string:
			out[k] = append([]string(nil), val...)
		case []any:
			out[k] = append([]any(nil), val...)
		case core.Document:
			out[k] = cloneDocument(val)
		case map[string]any:
			out[k] = cloneDocument(core.Document(val))
		default:
			out[k] = v
		}
	}
	return out
}

func (s *Store) bucket(collection string) map[string]core.Document {
	b, ok := s.collections[collection]
	if !ok {
		b = make(map[string]core.Document)
		s.collections[collection] = b
	}
	return b
}

// FetchByField returns every document whose field equals value.
func (s *Store) FetchByField(_ context.Context, collection, field, value string) ([]core.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Document
	for id, doc := range s.collections[collection] {
		v, ok := doc[field].(string)
		if !ok || v != value {
			continue
		}
		cp := cloneDocument(doc)
		cp["_id"] = id
		out = append(out, cp)
	}
	return out, nil
}

// FetchAll returns every document in the collection.
func (s *Store) FetchAll(_ context.Context, collection string) ([]core.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Document
	for id, doc := range s.collections[collection] {
		cp := cloneDocument(doc)
		cp["_id"] = id
		out = append(out, cp)
	}
	return out, nil
}

// Get returns the document with the given id or core.ErrNotFound.
func (s *Store) Get(_ context.Context, collection, id string) (core.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := cloneDocument(doc)
	cp["_id"] = id
	return cp, nil
}

// Insert stores a new document under a generated id.
func (s *Store) Insert(_ context.Context, collection string, doc core.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	stored := cloneDocument(doc)
	delete(stored, "_id")
	s.bucket(collection)[id] = stored
	return id, nil
}

// Update merges partial into the stored document.
func (s *Store) Update(_ context.Context, collection, id string, partial core.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return core.ErrNotFound
	}
	for k, v := range cloneDocument(partial) {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}
	return nil
}

// DeleteAll removes every document in the collection.
func (s *Store) DeleteAll(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, collection)
	return nil
}

// Close is a no-op for the memory driver.
func (s *Store) Close(context.Context) error { return nil }
