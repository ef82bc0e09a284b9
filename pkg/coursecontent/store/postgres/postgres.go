// Package postgres persists the catalog document as a single jsonb row.
// Each save stamps a fresh revision so writes are traceable in the table.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quizcraft/course-content/pkg/coursecontent"
)

const (
	storeName = "postgres"

	// catalogKey identifies the single catalog row.
	catalogKey = "catalog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store implements coursecontent.Store using PostgreSQL.
type Store struct {
	db DBTX
}

// New creates a new PostgreSQL catalog store.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// NewWithPool creates a new PostgreSQL catalog store with a connection pool.
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

// Migrate creates the catalog table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS course_catalog (
			key        text PRIMARY KEY,
			doc        jsonb NOT NULL,
			revision   uuid NOT NULL,
			updated_at timestamptz NOT NULL
		)`
	if _, err := s.db.Exec(ctx, query); err != nil {
		return coursecontent.NewStoreError(storeName, "migrate", s.foldError("migrate", err))
	}
	return nil
}

// Load fetches the catalog row. A missing row yields an empty catalog; any
// other failure is a store error.
func (s *Store) Load(ctx context.Context) (*coursecontent.Catalog, error) {
	var data []byte
	query := `SELECT doc FROM course_catalog WHERE key = $1`
	err := s.db.QueryRow(ctx, query, catalogKey).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &coursecontent.Catalog{Courses: []coursecontent.Course{}}, nil
		}
		return nil, coursecontent.NewStoreError(storeName, "load", s.foldError("load", err))
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

// Save upserts the whole catalog document under a fresh revision.
func (s *Store) Save(ctx context.Context, catalog *coursecontent.Catalog) error {
	data, err := json.Marshal(catalog)
	if err != nil {
		return coursecontent.NewStoreError(storeName, "save", err)
	}

	query := `
		INSERT INTO course_catalog (key, doc, revision, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET doc = EXCLUDED.doc, revision = EXCLUDED.revision, updated_at = EXCLUDED.updated_at`
	_, err = s.db.Exec(ctx, query, catalogKey, data, uuid.New(), time.Now().UTC())
	if err != nil {
		return coursecontent.NewStoreError(storeName, "save", s.foldError("save", err))
	}
	return nil
}

// foldError maps common Postgres failure codes to readable messages.
func (s *Store) foldError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01": // undefined_table
			return fmt.Errorf("catalog table does not exist - run Migrate first")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return err
}
