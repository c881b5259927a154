//go:build !integration

package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/nutrition-service/internal/domain/dto"
	"github.com/guttosm/nutrition-service/internal/middleware"
	"github.com/guttosm/nutrition-service/internal/service"
)

func bearerMode(tokens service.TokenService) func(*RouterConfig) {
	return func(cfg *RouterConfig) {
		cfg.EnableAuth = true
		cfg.TokenService = tokens
	}
}

func newTestTokens() service.TokenService {
	return service.NewTokenService(service.TokenConfig{
		SecretKey:      "router-test-secret",
		Issuer:         "nutrition-service",
		AccessTokenTTL: time.Minute,
	})
}

func TestNewRouter_InfrastructureRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/does-not-exist", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(router, http.MethodGet, tt.path, "", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestNewRouter_PublicMode(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"normalize", http.MethodPost, "/api/nutrition/normalize", `{"ingredients":[{"name":"Rice","calories":200}]}`, http.StatusOK},
		{"placeholder", http.MethodGet, "/api/nutrition/placeholder", "", http.StatusOK},
		{"palette", http.MethodGet, "/api/nutrition/palette", "", http.StatusOK},
		{"mcp", http.MethodPost, "/api/mcp/tools/call", `{"name":"normalize_nutrition","arguments":{}}`, http.StatusOK},
		{"analyze without analyzer", http.MethodPost, "/api/nutrition/analyze", "", http.StatusServiceUnavailable},
		{"logs without store", http.MethodGet, "/api/logs", "", http.StatusServiceUnavailable},
		{"no token exchange", http.MethodPost, "/api/auth/token", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestNewRouter_APIKeyMode(t *testing.T) {
	router := newTestRouter(t, func(cfg *RouterConfig) { cfg.EnableAuth = true })

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"valid key", map[string]string{"X-API-Key": testAPIKey}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodPost, "/api/nutrition/normalize", `{}`, tt.headers)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestNewRouter_BearerMode(t *testing.T) {
	tokens := newTestTokens()
	router := newTestRouter(t, bearerMode(tokens))

	issue := func(t *testing.T, body string) string {
		t.Helper()
		w := serve(router, http.MethodPost, "/api/auth/token", body, map[string]string{"X-API-Key": testAPIKey})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var env struct {
			Data dto.TokenResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		return env.Data.AccessToken
	}

	nutritionToken := issue(t, "")
	logsOnlyToken := issue(t, `{"scopes":["logs:read"]}`)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"token exchange needs an API key", http.MethodPost, "/api/auth/token", "", http.StatusUnauthorized},
		{"nutrition without token", http.MethodGet, "/api/nutrition/palette", "", http.StatusUnauthorized},
		{"nutrition with garbage token", http.MethodGet, "/api/nutrition/palette", "garbage", http.StatusUnauthorized},
		{"nutrition with nutrition scope", http.MethodGet, "/api/nutrition/palette", nutritionToken, http.StatusOK},
		{"nutrition with logs scope only", http.MethodGet, "/api/nutrition/palette", logsOnlyToken, http.StatusForbidden},
		{"logs with nutrition scope only", http.MethodGet, "/api/logs", nutritionToken, http.StatusForbidden},
		{"logs with logs scope and no store", http.MethodGet, "/api/logs", logsOnlyToken, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.token != "" {
				headers["Authorization"] = "Bearer " + tt.token
			}
			w := serve(router, tt.method, tt.path, "", headers)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestNewRouter_IdempotentNormalize(t *testing.T) {
	router := newTestRouter(t, nil)
	headers := map[string]string{middleware.IdempotencyKeyHeader: "meal-123"}

	first := serve(router, http.MethodPost, "/api/nutrition/normalize", `{"ingredients":[{"name":"Oats","calories":150}]}`, headers)
	second := serve(router, http.MethodPost, "/api/nutrition/normalize", `{"ingredients":[{"name":"Oats","calories":150}]}`, headers)
	conflict := serve(router, http.MethodPost, "/api/nutrition/normalize", `{"ingredients":[]}`, headers)

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get(middleware.IdempotencyReplayedHeader))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, http.StatusConflict, conflict.Code)
}

func TestNewRouter_RateLimit(t *testing.T) {
	router := newTestRouter(t, func(cfg *RouterConfig) {
		cfg.RateLimit = 2
		cfg.RateWindow = time.Minute
	})

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/nutrition/palette", "", nil).Code)
	}
	w := serve(router, http.MethodGet, "/api/nutrition/palette", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestNewRouter_SwaggerBasicAuth(t *testing.T) {
	router := newTestRouter(t, func(cfg *RouterConfig) {
		cfg.SwaggerUser = "docs"
		cfg.SwaggerPass = "secret"
	})

	w := serve(router, http.MethodGet, "/swagger/index.html", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNewRouter_TracksCleanupWorkers(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*RouterConfig)
		wantWorkers int
	}{
		{
			name: "no rate limit and no idempotency",
			mutate: func(cfg *RouterConfig) {
				cfg.RateLimit = 0
				cfg.EnableIdempotency = false
			},
			wantWorkers: 0,
		},
		{
			name:        "public mode",
			wantWorkers: 2,
		},
		{
			name: "api key mode adds the subject limiter",
			mutate: func(cfg *RouterConfig) {
				cfg.EnableAuth = true
			},
			wantWorkers: 3,
		},
		{
			name:        "bearer mode adds the subject limiter",
			mutate:      bearerMode(newTestTokens()),
			wantWorkers: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRouterConfig()
			cfg.Normalizer = service.NewNutritionNormalizerService()
			cfg.APIKeys = map[string]string{testAPIKey: "mobile"}
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}

			router, workers := buildRouter(NewHealthHandler(), cfg)
			require.NotNil(t, router)
			assert.Len(t, workers.list, tt.wantWorkers)

			assert.NotPanics(t, func() {
				workers.stop()
				workers.stop()
			})
		})
	}
}

func TestNewRouter_ServesAfterStop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := DefaultRouterConfig()
	cfg.Normalizer = service.NewNutritionNormalizerService()

	router, stop := NewRouter(NewHealthHandler(), cfg)
	stop()

	w := serve(router, http.MethodGet, "/api/nutrition/palette", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
