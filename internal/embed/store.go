// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"fmt"
	"sync"
)

// Store maps document ids to their vectors for one run. Each id is written
// exactly once and all vectors share one dimension. It is safe for
// concurrent Put from worker goroutines.
type Store struct {
	mu   sync.RWMutex
	dim  int
	vecs map[string][]float32
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{vecs: make(map[string][]float32)}
}

// Put records vec for id. Writing an id twice or a vector whose dimension
// differs from earlier ones is an error.
func (s *Store) Put(id string, vec []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.vecs[id]; dup {
		return fmt.Errorf("embedding for %s already stored", id)
	}
	if len(vec) == 0 {
		return fmt.Errorf("empty embedding for %s", id)
	}
	if s.dim == 0 {
		s.dim = len(vec)
	} else if len(vec) != s.dim {
		return fmt.Errorf("embedding for %s has dimension %d, store holds %d", id, len(vec), s.dim)
	}
	s.vecs[id] = vec
	return nil
}

// Get returns the vector for id.
func (s *Store) Get(id string) ([]float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vecs[id]
	return v, ok
}

// MustGet returns the vector for id and panics when it is missing. Callers
// only look up ids whose embedding succeeded.
func (s *Store) MustGet(id string) []float32 {
	v, ok := s.Get(id)
	if !ok {
		panic(fmt.Sprintf("embed: no vector stored for %q", id))
	}
	return v
}

// Has reports whether id has a vector.
func (s *Store) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Len returns the number of stored vectors.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vecs)
}

// Dim returns the shared dimension, or 0 when empty.
func (s *Store) Dim() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}
