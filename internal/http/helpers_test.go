package http

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutrition-service/internal/service"
)

const testAPIKey = "key-mobile"

func newTestRouter(t *testing.T, mutate func(*RouterConfig)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := DefaultRouterConfig()
	cfg.RateLimit = 0
	cfg.Normalizer = service.NewNutritionNormalizerService()
	cfg.APIKeys = map[string]string{testAPIKey: "mobile"}
	if mutate != nil {
		mutate(&cfg)
	}
	router, stop := NewRouter(NewHealthHandler(), cfg)
	t.Cleanup(stop)
	return router
}

func serve(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
