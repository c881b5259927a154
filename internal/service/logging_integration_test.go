//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/nutrition-service/internal/circuitbreaker"
	"github.com/guttosm/nutrition-service/internal/domain/model"
	"github.com/guttosm/nutrition-service/internal/repository"
	"github.com/guttosm/nutrition-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingService_Integration(t *testing.T) {
	ctx := context.Background()

	mongoContainer, err := testutil.SetupMongoDB(ctx)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, mongoContainer.Cleanup(ctx))
	}()

	db, err := repository.NewMongoDB(mongoContainer.URI, "test_nutrition_service")
	require.NoError(t, err)
	defer func() {
		_ = db.Close(ctx)
	}()
	require.NoError(t, db.SetLogsTTL(ctx, 30))

	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	svc := NewLoggingService(repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), cb))

	t.Run("create single log", func(t *testing.T) {
		entry := &model.LogEntry{
			Level:      "info",
			Message:    "Nutrition normalized",
			RequestID:  "int-req-1",
			Method:     "POST",
			Path:       "/api/nutrition/normalize",
			ActionType: "normalize",
		}
		require.NoError(t, svc.CreateLog(ctx, entry))
		assert.False(t, entry.ID.IsZero())
	})

	t.Run("create multiple logs", func(t *testing.T) {
		entries := []*model.LogEntry{
			{Timestamp: time.Now().Add(-2 * time.Second), Level: "info", Message: "Photo analyzed", RequestID: "int-req-2", ActionType: "analyze", Subject: "client-1"},
			{Timestamp: time.Now().Add(-time.Second), Level: "error", Message: "Upstream failed", RequestID: "int-req-3", ActionType: "analyze"},
		}
		require.NoError(t, svc.CreateLogs(ctx, entries))
	})

	t.Run("query by action type", func(t *testing.T) {
		entries, err := svc.QueryLogs(ctx, model.LogQueryOptions{ActionType: "analyze"})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "int-req-3", entries[0].RequestID)
	})

	t.Run("count within window", func(t *testing.T) {
		start := time.Now().Add(-time.Minute)
		count, err := svc.CountLogs(ctx, model.LogQueryOptions{StartTime: &start})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}
