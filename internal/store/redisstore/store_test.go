package redisstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/builderstudio/briefs-backend/internal/apperr"
	"github.com/builderstudio/briefs-backend/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "db0"), mr
}

func TestStore_CreateAndGet(t *testing.T) {
	s, mr := setupTestRedis(t)
	ctx := context.Background()
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	id, err := s.CreateDocument(ctx, "projectbrief", map[string]any{
		"title":           "Portfolio",
		"key_features":    []string{},
		"target_audience": nil,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.True(t, mr.Exists("doc:projectbrief:"+id))

	docs, err := s.GetDocuments(ctx, "projectbrief", 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, id, doc[store.IDField])
	assert.Equal(t, "Portfolio", doc["title"])
	assert.Equal(t, []any{}, doc["key_features"])
	assert.Contains(t, doc, "target_audience")
	assert.Nil(t, doc["target_audience"])
	assert.Equal(t, "2026-10-19T12:00:00Z", doc["created_at"])
}

func TestStore_GetDocuments_MostRecentFirstAndLimited(t *testing.T) {
	s, _ := setupTestRedis(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		id, err := s.CreateDocument(ctx, "projectbrief", map[string]any{"title": fmt.Sprintf("b%d", i)})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	docs, err := s.GetDocuments(ctx, "projectbrief", 3)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, ids[4], docs[0][store.IDField])
	assert.Equal(t, ids[3], docs[1][store.IDField])
	assert.Equal(t, ids[2], docs[2][store.IDField])

	docs, err = s.GetDocuments(ctx, "projectbrief", 100)
	require.NoError(t, err)
	assert.Len(t, docs, 5)
}

func TestStore_GetDocuments_EmptyCollection(t *testing.T) {
	s, _ := setupTestRedis(t)

	docs, err := s.GetDocuments(context.Background(), "projectbrief", 20)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestStore_GetDocuments_SkipsMissingBodies(t *testing.T) {
	s, mr := setupTestRedis(t)
	ctx := context.Background()

	keep, err := s.CreateDocument(ctx, "projectbrief", map[string]any{"title": "keep"})
	require.NoError(t, err)
	gone, err := s.CreateDocument(ctx, "projectbrief", map[string]any{"title": "gone"})
	require.NoError(t, err)
	mr.Del("doc:projectbrief:" + gone)

	docs, err := s.GetDocuments(ctx, "projectbrief", 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, keep, docs[0][store.IDField])
}

func TestStore_CollectionsAreIsolated(t *testing.T) {
	s, _ := setupTestRedis(t)
	ctx := context.Background()

	_, err := s.CreateDocument(ctx, "projectbrief", map[string]any{"title": "a"})
	require.NoError(t, err)
	_, err = s.CreateDocument(ctx, "user", map[string]any{"name": "b"})
	require.NoError(t, err)

	docs, err := s.GetDocuments(ctx, "user", 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0]["name"])

	names, err := s.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"projectbrief", "user"}, names)
}

func TestStore_RejectsBadInput(t *testing.T) {
	s, _ := setupTestRedis(t)
	ctx := context.Background()

	_, err := s.GetDocuments(ctx, "projectbrief", 0)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = s.CreateDocument(ctx, "Bad:Name", map[string]any{})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestStore_ConnectionLost(t *testing.T) {
	s, mr := setupTestRedis(t)
	mr.Close()
	ctx := context.Background()

	_, err := s.CreateDocument(ctx, "projectbrief", map[string]any{"title": "t"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))

	_, err = s.GetDocuments(ctx, "projectbrief", 1)
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))

	assert.Error(t, s.Ping(ctx))
}

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := Open(context.Background(), "redis://"+mr.Addr()+"/0", "")
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "db0", s.Name())
	assert.NoError(t, s.Ping(context.Background()))

	named, err := Open(context.Background(), "redis://"+mr.Addr(), "briefs")
	require.NoError(t, err)
	defer named.Close()
	assert.Equal(t, "briefs", named.Name())
}

func TestOpen_Failures(t *testing.T) {
	_, err := Open(context.Background(), "not a url", "")
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = Open(ctx, "redis://"+addr, "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
}
