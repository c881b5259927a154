package app

import (
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/nutrition-service/config"
)

func baseConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			RequestTimeout: 5 * time.Second,
			MaxUploadBytes: 1 << 20,
		},
		Cache: config.CacheConfig{Size: 100, TTL: time.Minute},
	}
}

func normalize(t *testing.T, application *App, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(nethttp.MethodPost, "/api/nutrition/normalize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	application.Router.ServeHTTP(w, req)
	return w
}
