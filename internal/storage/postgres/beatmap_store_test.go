package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"otr-data-worker/internal/domain"
	"otr-data-worker/internal/storage"
	"otr-data-worker/internal/storage/postgres"
)

func TestBeatmapStore_BulkInsertAndExistingIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewBeatmapStore(pool)
	ctx := context.Background()

	err := store.BulkInsert(ctx, []*domain.Beatmap{
		{OsuID: 2001, Artist: "Artist", Title: "Title", DifficultyName: "Insane", StarRating: 5.4},
		{OsuID: 2002, Artist: "Artist", Title: "Title", DifficultyName: "Extra", StarRating: 6.1},
	})
	require.NoError(t, err)

	existing, err := store.ExistingIDs(ctx, []int64{2001, 2002, 2003})
	require.NoError(t, err)
	assert.True(t, existing[2001])
	assert.True(t, existing[2002])
	assert.False(t, existing[2003])
}

func TestBeatmapStore_InsertConflictIsNotAnError(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewBeatmapStore(pool)
	ctx := context.Background()

	require.NoError(t, store.BulkInsert(ctx, []*domain.Beatmap{{OsuID: 2001, Title: "original"}}))

	// Inserting the same osu! id again means "already exists": no error and
	// the stored row stays as it was.
	require.NoError(t, store.BulkInsert(ctx, []*domain.Beatmap{{OsuID: 2001, Title: "changed"}}))

	stored, err := store.GetByOsuID(ctx, 2001)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Title)
}

func TestBeatmapStore_GetByOsuID_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewBeatmapStore(pool)

	_, err := store.GetByOsuID(context.Background(), 404404)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPlayerStore_EnsureExists(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewPlayerStore(pool)
	ctx := context.Background()

	require.NoError(t, store.EnsureExists(ctx, []int64{101, 102}))

	first, err := store.GetByOsuID(ctx, 101)
	require.NoError(t, err)

	// Repeat calls leave known players untouched.
	require.NoError(t, store.EnsureExists(ctx, []int64{101, 103}))

	again, err := store.GetByOsuID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, err = store.GetByOsuID(ctx, 103)
	require.NoError(t, err)
}
