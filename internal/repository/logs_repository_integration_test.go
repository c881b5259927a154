//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLogsRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()
	require.NoError(t, db.SetLogsTTL(ctx, 30))

	repo := NewLogsRepository(db)
	base := time.Now().Add(-time.Hour).Truncate(time.Millisecond)

	t.Run("create log entry", func(t *testing.T) {
		entry := &LogEntryDocument{
			Timestamp:  base,
			Level:      "info",
			Message:    "Request completed",
			RequestID:  "req-analyze",
			Method:     "POST",
			Path:       "/api/nutrition/analyze",
			StatusCode: 200,
			Duration:   850,
			IP:         "127.0.0.1",
			UserAgent:  "integration-test",
			Subject:    "mobile-client",
			ActionType: "analyze",
			Fields:     map[string]interface{}{"ingredient_count": int32(3)},
		}

		require.NoError(t, repo.Create(ctx, entry))
		assert.False(t, entry.ID.IsZero())
	})

	t.Run("create many log entries", func(t *testing.T) {
		entries := []*LogEntryDocument{
			{Timestamp: base.Add(time.Minute), Level: "info", Message: "normalize", RequestID: "req-1", Path: "/api/nutrition/normalize", ActionType: "normalize"},
			{Timestamp: base.Add(2 * time.Minute), Level: "error", Message: "upstream failed", RequestID: "req-2", Path: "/api/nutrition/analyze", ActionType: "analyze"},
			{Timestamp: base.Add(3 * time.Minute), Level: "warn", Message: "bad body", RequestID: "req-3", Path: "/api/nutrition/normalize"},
		}
		require.NoError(t, repo.CreateMany(ctx, entries))
		for _, e := range entries {
			assert.False(t, e.ID.IsZero())
		}
	})

	t.Run("create many with no entries", func(t *testing.T) {
		assert.NoError(t, repo.CreateMany(ctx, nil))
	})

	t.Run("query by request ID", func(t *testing.T) {
		entries, err := repo.Query(ctx, LogQueryOptions{RequestID: "req-analyze"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "mobile-client", entries[0].Subject)
		assert.EqualValues(t, 3, entries[0].Fields["ingredient_count"])
	})

	t.Run("query newest first", func(t *testing.T) {
		entries, err := repo.Query(ctx, LogQueryOptions{})
		require.NoError(t, err)
		require.Len(t, entries, 4)
		assert.Equal(t, "req-3", entries[0].RequestID)
		assert.Equal(t, "req-analyze", entries[3].RequestID)
	})

	t.Run("query by path prefix and action", func(t *testing.T) {
		entries, err := repo.Query(ctx, LogQueryOptions{Path: "/API/nutrition/analyze", ActionType: "analyze"})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("query with limit and skip", func(t *testing.T) {
		entries, err := repo.Query(ctx, LogQueryOptions{Limit: 2, Skip: 1})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "req-2", entries[0].RequestID)
	})

	t.Run("count matches query filters", func(t *testing.T) {
		start := base.Add(90 * time.Second)
		count, err := repo.Count(ctx, LogQueryOptions{StartTime: &start, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = repo.Count(ctx, LogQueryOptions{Path: "/api/nutrition/normalize"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("create keeps explicit ID", func(t *testing.T) {
		id := primitive.NewObjectID()
		require.NoError(t, repo.Create(ctx, &LogEntryDocument{ID: id, Message: "explicit"}))

		entries, err := repo.Query(ctx, LogQueryOptions{Limit: 1})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, id, entries[0].ID)
	})
}
