// Package redis persists the catalog document as the value of a single
// Redis key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/quizcraft/course-content/pkg/coursecontent"
)

const (
	storeName = "redis"

	// DefaultKey is the key holding the catalog document.
	DefaultKey = "course:catalog"
)

// Store implements coursecontent.Store on a Redis key.
type Store struct {
	client *redis.Client
	key    string
}

// New creates a new Redis-backed catalog store. An empty key falls back to
// DefaultKey.
func New(client *redis.Client, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{client: client, key: key}
}

// Load fetches the catalog document. A missing key yields an empty catalog;
// any other failure is a store error.
func (s *Store) Load(ctx context.Context) (*coursecontent.Catalog, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &coursecontent.Catalog{Courses: []coursecontent.Course{}}, nil
		}
		return nil, coursecontent.NewStoreError(storeName, "load", err)
	}

	var catalog coursecontent.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, coursecontent.NewStoreError(storeName, "load", fmt.Errorf("malformed catalog document: %w", err))
	}
	if catalog.Courses == nil {
		catalog.Courses = []coursecontent.Course{}
	}
	return &catalog, nil
}

// Save replaces the whole catalog document.
func (s *Store) Save(ctx context.Context, catalog *coursecontent.Catalog) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return coursecontent.NewStoreError(storeName, "save", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return coursecontent.NewStoreError(storeName, "save", err)
	}
	return nil
}
