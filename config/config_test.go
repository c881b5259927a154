package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values", func(t *testing.T) {
		os.Clearenv()

		cfg := Load()

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
		assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
		assert.Equal(t, 1000, cfg.Cache.Size)
		assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
		assert.False(t, cfg.Auth.Enabled)
		assert.False(t, cfg.Auth.BearerEnabled())
		assert.Equal(t, "nutrition_service", cfg.Database.DatabaseName)
		assert.False(t, cfg.Analyzer.Enabled())
		assert.Equal(t, 20*time.Second, cfg.Analyzer.Timeout)
	})

	t.Run("loads values from environment", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("PORT", "9090")
		_ = os.Setenv("RATE_LIMIT", "50")
		_ = os.Setenv("RATE_WINDOW", "30s")
		_ = os.Setenv("CACHE_SIZE", "500")
		_ = os.Setenv("CACHE_TTL", "10m")
		_ = os.Setenv("AUTH_ENABLED", "true")
		_ = os.Setenv("API_KEYS", "mobile:key1,web:key2")
		_ = os.Setenv("JWT_SECRET_KEY", "secret")
		_ = os.Setenv("MAX_UPLOAD_BYTES", "2048")
		_ = os.Setenv("ANALYZER_URL", "http://analyzer:3000/")
		_ = os.Setenv("ANALYZER_TIMEOUT", "5s")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 50, cfg.Server.RateLimit)
		assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
		assert.Equal(t, int64(2048), cfg.Server.MaxUploadBytes)
		assert.Equal(t, 500, cfg.Cache.Size)
		assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
		assert.True(t, cfg.Auth.Enabled)
		assert.True(t, cfg.Auth.BearerEnabled())
		assert.Equal(t, "mobile", cfg.Auth.APIKeys["key1"])
		assert.Equal(t, "web", cfg.Auth.APIKeys["key2"])
		assert.Equal(t, "http://analyzer:3000", cfg.Analyzer.URL)
		assert.True(t, cfg.Analyzer.Enabled())
		assert.Equal(t, 5*time.Second, cfg.Analyzer.Timeout)
	})

	t.Run("handles invalid values gracefully", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("RATE_LIMIT", "invalid")
		_ = os.Setenv("AUTH_ENABLED", "invalid")
		_ = os.Setenv("RATE_WINDOW", "invalid")
		_ = os.Setenv("MAX_UPLOAD_BYTES", "-1")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.False(t, cfg.Auth.Enabled)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	})

	t.Run("parses API keys with whitespace and bare keys", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("API_KEYS", " key1 , mobile : key2 , , key3 ")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, map[string]string{
			"key1": "client-1",
			"key2": "mobile",
			"key3": "client-3",
		}, cfg.Auth.APIKeys)
	})

	t.Run("returns nil for empty API keys", func(t *testing.T) {
		os.Clearenv()

		cfg := Load()

		assert.Nil(t, cfg.Auth.APIKeys)
	})

	t.Run("bearer requires auth to be enabled", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("JWT_SECRET_KEY", "secret")
		defer os.Clearenv()

		cfg := Load()

		assert.False(t, cfg.Auth.BearerEnabled())
	})

	t.Run("reads the env file without overriding the environment", func(t *testing.T) {
		os.Clearenv()
		path := filepath.Join(t.TempDir(), "test.env")
		assert.NoError(t, os.WriteFile(path, []byte("PORT=7070\nCACHE_SIZE=42\n"), 0o600))
		_ = os.Setenv("ENV_FILE", path)
		_ = os.Setenv("CACHE_SIZE", "7")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, "7070", cfg.Server.Port)
		assert.Equal(t, 7, cfg.Cache.Size)
	})

	t.Run("ignores a missing env file", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, "8080", cfg.Server.Port)
	})
}

func TestParseCORSOrigins(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "defaults only",
			input:    "",
			expected: []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:19006"},
		},
		{
			name:     "appends configured origins",
			input:    " https://app.example.com ,",
			expected: []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:19006", "https://app.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseCORSOrigins(tt.input))
		})
	}
}
