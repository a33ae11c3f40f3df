package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/builderstudio/briefs-backend/internal/apperr"
	"github.com/builderstudio/briefs-backend/internal/store"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	seq        BIGSERIAL,
	id         UUID PRIMARY KEY,
	collection TEXT NOT NULL,
	body       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS documents_collection_seq_idx ON documents (collection, seq DESC);
`

// Store keeps every collection in a single JSONB table keyed by collection
// name.
type Store struct {
	db   *sql.DB
	name string
	now  func() time.Time
}

// New wraps an open database handle. name is reported by Name().
func New(db *sql.DB, name string) *Store {
	return &Store{db: db, name: name, now: time.Now}
}

// Open connects with lib/pq, pings, creates the documents table when missing
// and resolves the database name unless one is given.
func Open(ctx context.Context, dsn, name string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, apperr.Storage("postgres_open", fmt.Errorf("failed to open database: %w", err))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperr.Storage("postgres_open", fmt.Errorf("failed to ping database: %w", describe(err)))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	s := New(db, name)
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if s.name == "" {
		if err := db.QueryRowContext(ctx, `SELECT current_database()`).Scan(&s.name); err != nil {
			_ = db.Close()
			return nil, apperr.Storage("postgres_open", describe(err))
		}
	}
	return s, nil
}

// EnsureSchema creates the documents table and its index if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return apperr.Storage("ensure_schema", describe(err))
	}
	return nil
}

func (s *Store) CreateDocument(ctx context.Context, collection string, doc map[string]any) (string, error) {
	if err := store.ValidateCollection(collection); err != nil {
		return "", err
	}

	now := s.now().UTC()
	body, err := json.Marshal(store.Stamp(doc, now))
	if err != nil {
		return "", apperr.Storage("create_document", fmt.Errorf("failed to marshal document: %w", err))
	}

	id := uuid.New().String()
	query := `
		INSERT INTO documents (id, collection, body, created_at)
		VALUES ($1, $2, $3, $4)
	`
	// lib/pq sends []byte as bytea, which jsonb rejects
	if _, err := s.db.ExecContext(ctx, query, id, collection, string(body), now); err != nil {
		return "", apperr.Storage("create_document", describe(err))
	}
	return id, nil
}

func (s *Store) GetDocuments(ctx context.Context, collection string, limit int) ([]store.Document, error) {
	if err := store.ValidateCollection(collection); err != nil {
		return nil, err
	}
	if err := store.ValidateLimit(limit); err != nil {
		return nil, err
	}

	query := `
		SELECT id, body
		FROM documents
		WHERE collection = $1
		ORDER BY seq DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, collection, limit)
	if err != nil {
		return nil, apperr.Storage("get_documents", describe(err))
	}
	defer rows.Close()

	out := make([]store.Document, 0, min(limit, 64))
	for rows.Next() {
		var (
			id   string
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, apperr.Storage("get_documents", describe(err))
		}
		var doc store.Document
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, apperr.Storage("get_documents", fmt.Errorf("failed to unmarshal document %s: %w", id, err))
		}
		if doc == nil {
			doc = store.Document{}
		}
		doc[store.IDField] = id
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("get_documents", describe(err))
	}
	return out, nil
}

func (s *Store) Name() string {
	return s.name
}

func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT collection FROM documents ORDER BY collection`)
	if err != nil {
		return nil, apperr.Storage("list_collections", describe(err))
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, apperr.Storage("list_collections", describe(err))
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("list_collections", describe(err))
	}
	return names, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return apperr.Storage("ping", s.db.PingContext(ctx))
}

func (s *Store) Close() error {
	return s.db.Close()
}

// describe prefixes server errors with their SQLSTATE condition name.
func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%s (%s): %w", pqErr.Message, pqErr.Code.Name(), err)
	}
	return err
}
