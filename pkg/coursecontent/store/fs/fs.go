// Package fs persists the catalog as a single JSON file on disk, the layout
// the legacy course database used.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/quizcraft/course-content/pkg/coursecontent"
)

const storeName = "fs"

// Config options for the filesystem store.
type Config struct {
	Path string // Path of the catalog JSON file
}

// Store implements coursecontent.Store on a single JSON file. Writes go
// through a temp file in the same directory followed by a rename, so readers
// never see a half-written document.
type Store struct {
	path string
}

// New creates a new filesystem catalog store. The parent directory is
// created if it does not exist.
func New(config Config) (*Store, error) {
	if config.Path == "" {
		return nil, errors.New("catalog file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}
	return &Store{path: config.Path}, nil
}

// Load reads the catalog file. A missing file yields an empty catalog; any
// other failure is reported as a store error, never as an empty result.
func (s *Store) Load(ctx context.Context) (*coursecontent.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
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

// Save writes the whole catalog atomically.
func (s *Store) Save(ctx context.Context, catalog *coursecontent.Catalog) error {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return coursecontent.NewStoreError(storeName, "save", err)
	}

	tmp := fmt.Sprintf("%s.%s.tmp", s.path, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return coursecontent.NewStoreError(storeName, "save", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return coursecontent.NewStoreError(storeName, "save", err)
	}
	return nil
}
