package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizcraft/course-content/pkg/coursecontent"
	"github.com/quizcraft/course-content/pkg/coursecontent/store/fs"
)

func newTestStore(t *testing.T) (*fs.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.json")
	store, err := fs.New(fs.Config{Path: path})
	require.NoError(t, err)
	return store, path
}

func TestNewRequiresPath(t *testing.T) {
	_, err := fs.New(fs.Config{})
	assert.Error(t, err)
}

func TestLoadMissingFileIsEmptyCatalog(t *testing.T) {
	store, _ := newTestStore(t)

	catalog, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, catalog)
	assert.Empty(t, catalog.Courses)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	catalog := &coursecontent.Catalog{Courses: []coursecontent.Course{
		{ID: 10, Name: "Databases", Topics: []coursecontent.Topic{
			{ID: 11, Name: "Indexing", Questions: []coursecontent.Question{
				{ID: 12, Question: "What is a B-tree?", Options: []string{"A balanced tree", "A heap"}, Answer: "A balanced tree"},
			}},
		}},
	}}

	require.NoError(t, store.Save(ctx, catalog))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog, loaded)

	// The document layout on disk is the legacy {"courses": [...]} shape.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"courses"`)
	assert.Contains(t, string(data), `"What is a B-tree?"`)
}

func TestMalformedDocumentIsAStoreError(t *testing.T) {
	store, path := newTestStore(t)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := store.Load(context.Background())
	var se *coursecontent.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "load", se.Op)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &coursecontent.Catalog{Courses: []coursecontent.Course{}}))
	require.NoError(t, store.Save(ctx, &coursecontent.Catalog{Courses: []coursecontent.Course{{ID: 1, Name: "X"}}}))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}
