// Package store defines the document persistence gateway shared by the
// Redis and PostgreSQL backends.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/builderstudio/briefs-backend/internal/apperr"
	"github.com/builderstudio/briefs-backend/internal/briefs/domain"
)

// IDField is the key under which backends return the internal document id.
const IDField = "_id"

// Document is a stored record as returned by GetDocuments. It always carries
// IDField.
type Document map[string]any

// Gateway creates and lists documents in named collections.
type Gateway interface {
	// CreateDocument inserts doc into collection and returns the generated id.
	CreateDocument(ctx context.Context, collection string, doc map[string]any) (string, error)
	// GetDocuments returns up to limit documents, most recent first. limit
	// must be positive; no upper bound is applied here.
	GetDocuments(ctx context.Context, collection string, limit int) ([]Document, error)
	// Name is the database name reported by diagnostics.
	Name() string
	ListCollections(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// ErrUnavailable is returned when no store connection could be established.
var ErrUnavailable = apperr.Storage("store", errors.New("database not available"))

var collectionPattern = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

// ValidateCollection checks that name is usable as a collection name.
func ValidateCollection(name string) error {
	if !collectionPattern.MatchString(name) {
		return apperr.Validation("collection", fmt.Errorf("invalid collection name %q", name))
	}
	return nil
}

// ValidateLimit rejects non-positive limits.
func ValidateLimit(limit int) error {
	if limit <= 0 {
		return apperr.Validation("limit", fmt.Errorf("limit must be a positive integer, got %d", limit))
	}
	return nil
}

// Stamp copies doc and sets created_at and updated_at to now. The caller's
// map is not modified. An IDField in doc is dropped.
func Stamp(doc map[string]any, now time.Time) map[string]any {
	out := make(map[string]any, len(doc)+2)
	for k, v := range doc {
		out[k] = v
	}
	delete(out, IDField)
	ts := now.UTC()
	out["created_at"] = ts
	out["updated_at"] = ts
	return out
}

// CreateEntity writes e to its own collection.
func CreateEntity(ctx context.Context, g Gateway, e domain.Entity) (string, error) {
	if g == nil {
		return "", ErrUnavailable
	}
	return g.CreateDocument(ctx, e.Collection(), e.Document())
}
