// Package memory provides an in-memory catalog store, used in tests and when
// no durable backend is configured.
package memory

import (
	"context"
	"sync"

	"github.com/quizcraft/course-content/pkg/coursecontent"
)

// Store implements coursecontent.Store in memory.
type Store struct {
	mu      sync.RWMutex
	catalog *coursecontent.Catalog
}

// New creates a new in-memory catalog store.
func New() *Store {
	return &Store{catalog: &coursecontent.Catalog{Courses: []coursecontent.Course{}}}
}

// Load returns a deep copy of the stored catalog.
func (s *Store) Load(ctx context.Context) (*coursecontent.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.catalog.Clone(), nil
}

// Save replaces the stored catalog with a deep copy of the given one.
func (s *Store) Save(ctx context.Context, catalog *coursecontent.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = catalog.Clone()
	return nil
}
