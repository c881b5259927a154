package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutrition-service/internal/i18n"
)

const (
	// IdempotencyKeyHeader is the HTTP header name for idempotency key (RFC standard).
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the idempotency cache.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is the TTL for cached idempotency responses.
	IdempotencyKeyTTL = 5 * time.Minute
	// defaultIdempotencyMaxBody bounds the request body read for digesting.
	defaultIdempotencyMaxBody = 1 << 20
)

// IdempotencyConfig holds configuration for idempotency middleware.
type IdempotencyConfig struct {
	Cache   *idempotencyCache
	TTL     time.Duration
	Enabled bool
	// MaxBodyBytes is the largest body that is digested; larger requests bypass the cache.
	MaxBodyBytes int64
}

// DefaultIdempotencyConfig returns default idempotency configuration.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Cache:        newIdempotencyCache(IdempotencyKeyTTL),
		TTL:          IdempotencyKeyTTL,
		Enabled:      true,
		MaxBodyBytes: defaultIdempotencyMaxBody,
	}
}

// Stop releases the cache cleanup goroutine.
func (cfg IdempotencyConfig) Stop() {
	if cfg.Cache != nil {
		cfg.Cache.Stop()
	}
}

// Idempotency returns a middleware that replays the response of an earlier
// POST, PUT or PATCH carrying the same Idempotency-Key. Keys are scoped to the
// caller, method and path. Reusing a key with a different body is a 409.
// Only 2xx responses are stored.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Cache == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultIdempotencyMaxBody
	}

	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		digest, ok := digestBody(c.Request, maxBody)
		if !ok {
			c.Next()
			return
		}

		cacheKey := idempotencyScope(c, key)
		if cached, found := cfg.Cache.Get(cacheKey); found {
			if cached.BodyDigest != digest {
				abortWithError(c, http.StatusConflict, i18n.ErrKeyConflict)
				return
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		if status >= 200 && status < 300 {
			cfg.Cache.Set(cacheKey, &cachedResponse{
				StatusCode:  status,
				ContentType: writer.Header().Get("Content-Type"),
				Body:        writer.body.Bytes(),
				BodyDigest:  digest,
			})
		}
	}
}

func idempotencyScope(c *gin.Context, key string) string {
	return subjectIdentifier(c) + "|" + c.Request.Method + "|" + c.Request.URL.Path + "|" + key
}

// digestBody hashes the request body and restores it for the handler.
// ok is false when the body exceeds limit; the body is still restored.
func digestBody(req *http.Request, limit int64) (digest uint64, ok bool) {
	if req.Body == nil || req.Body == http.NoBody {
		return xxhash.Sum64(nil), true
	}

	buf, err := io.ReadAll(io.LimitReader(req.Body, limit+1))
	rest := req.Body
	req.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(buf), rest), Closer: rest}
	if err != nil || int64(len(buf)) > limit {
		return 0, false
	}
	return xxhash.Sum64(buf), true
}

type readCloser struct {
	io.Reader
	io.Closer
}

// responseWriter tees the response body for caching.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
