package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/builderstudio/briefs-backend/internal/apperr"
	"github.com/builderstudio/briefs-backend/internal/briefs/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCollection(t *testing.T) {
	assert.NoError(t, ValidateCollection("projectbrief"))
	assert.NoError(t, ValidateCollection("blog_post2"))

	for _, bad := range []string{"", "Project", "doc:index", "a b", "x;drop"} {
		err := ValidateCollection(bad)
		assert.Error(t, err, bad)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
}

func TestValidateLimit(t *testing.T) {
	assert.NoError(t, ValidateLimit(1))
	assert.NoError(t, ValidateLimit(10000))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(ValidateLimit(0)))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(ValidateLimit(-5)))
}

func TestStamp(t *testing.T) {
	in := map[string]any{"title": "t", IDField: "spoofed"}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))

	out := Stamp(in, now)

	assert.Equal(t, "t", out["title"])
	assert.NotContains(t, out, IDField)
	assert.Equal(t, now.UTC(), out["created_at"])
	assert.Equal(t, out["created_at"], out["updated_at"])
	assert.Contains(t, in, IDField, "input must not be modified")
	assert.NotContains(t, in, "created_at")
}

func TestErrUnavailable(t *testing.T) {
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(ErrUnavailable))
	assert.True(t, errors.Is(ErrUnavailable, ErrUnavailable))
}

type recordingGateway struct {
	Gateway
	collection string
	doc        map[string]any
}

func (g *recordingGateway) CreateDocument(_ context.Context, collection string, doc map[string]any) (string, error) {
	g.collection, g.doc = collection, doc
	return "abc", nil
}

func TestCreateEntity(t *testing.T) {
	g := &recordingGateway{}
	id, err := CreateEntity(context.Background(), g, domain.ProjectBrief{Title: "t", Type: "app", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
	assert.Equal(t, domain.CollectionProjectBrief, g.collection)
	assert.Equal(t, []string{}, g.doc["key_features"])

	_, err = CreateEntity(context.Background(), nil, domain.User{})
	assert.ErrorIs(t, err, ErrUnavailable)
}
