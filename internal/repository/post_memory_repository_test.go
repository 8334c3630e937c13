package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postdesk/internal/models"
)

func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func TestMemoryRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository().WithClock(steppingClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	first := &models.Post{Title: "First", Slug: "first", Categories: models.NewCategories("games")}
	second := &models.Post{Title: "Second", Slug: "Second-Slug", Categories: models.NewCategories("music")}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NotEmpty(t, first.ID)
	require.NotEmpty(t, first.Revision)

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Second", posts[0].Title, "newest first")

	count, err := repo.CountBySlug(ctx, "second-slug", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	count, err = repo.CountBySlug(ctx, "second-slug", &second.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	rev, err := repo.SetCategories(ctx, first.ID, models.NewCategories("games", "misc"), first.Revision)
	require.NoError(t, err)
	assert.NotEqual(t, first.Revision, rev)

	_, err = repo.SetCategories(ctx, first.ID, models.NewCategories("misc"), first.Revision)
	assert.True(t, errors.Is(err, ErrRevisionConflict), "stale revision must conflict")

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Categories{"games", "misc"}, got.Categories)

	got.Categories[0] = "mutated"
	again, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "games", again.Categories[0], "returned posts must be copies")

	require.NoError(t, repo.Delete(ctx, first.ID))
	missing, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.SetCategories(ctx, first.ID, models.NewCategories("misc"), "")
	assert.True(t, errors.Is(err, ErrDocumentNotFound))
}
