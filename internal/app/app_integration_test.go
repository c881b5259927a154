//go:build integration

package app

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guttosm/nutrition-service/config"
	"github.com/guttosm/nutrition-service/internal/domain/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeApp_Integration(t *testing.T) {
	t.Run("audit entries reach the log store", func(t *testing.T) {
		cfg := config.Config{
			Server: config.ServerConfig{Port: "8080", RequestTimeout: 5 * time.Second},
			Cache:  config.CacheConfig{Size: 100, TTL: time.Minute},
		}
		cfg.Database = integrationDatabaseConfig(t)

		application := InitializeApp(cfg)
		require.NotNil(t, application.database, "database should be connected")
		t.Cleanup(func() { _ = application.Close(context.Background()) })

		w := normalize(t, application, `{"ingredients":[{"name":"Egg","calories":70}]}`, nil)
		require.Equal(t, nethttp.StatusOK, w.Code)

		assert.Eventually(t, func() bool {
			req := httptest.NewRequest(nethttp.MethodGet, "/api/logs?action_type=normalize", nil)
			rec := httptest.NewRecorder()
			application.Router.ServeHTTP(rec, req)
			if rec.Code != nethttp.StatusOK {
				return false
			}

			var env struct {
				Data dto.LogsResponse `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				return false
			}
			return env.Data.Total >= 1
		}, 5*time.Second, 100*time.Millisecond)

		rec := httptest.NewRecorder()
		application.Router.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/readyz", nil))
		assert.Equal(t, nethttp.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"mongodb":"ok"`)
	})

	t.Run("unreachable database keeps serving", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Database = config.DatabaseConfig{
			URI:          "mongodb://127.0.0.1:1",
			DatabaseName: "unreachable",
			Enabled:      true,
		}

		application := InitializeApp(cfg)
		t.Cleanup(func() { _ = application.Close(context.Background()) })
		assert.Nil(t, application.database)

		w := normalize(t, application, `{}`, nil)
		assert.Equal(t, nethttp.StatusOK, w.Code)
	})
}
