package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutrition-service/internal/domain/dto"
	"github.com/guttosm/nutrition-service/internal/i18n"
)

const (
	// APIKeyHeader is the HTTP header name for API key authentication.
	APIKeyHeader = "X-API-Key"
	// APIKeyQuery is the query parameter name for API key authentication.
	APIKeyQuery = "api_key"
)

// Context keys for the authenticated caller.
const (
	SubjectKey ContextKey = "subject"
	ClaimsKey  ContextKey = "claims"
)

// APIKeyAuth returns a middleware that validates API keys.
// It checks the X-API-Key header first, then falls back to api_key query parameter.
// validKeys maps each key to its subject. If it is empty, authentication is disabled.
func APIKeyAuth(validKeys map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(validKeys) == 0 {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			key = c.Query(APIKeyQuery)
		}

		if key == "" {
			abortWithError(c, http.StatusUnauthorized, i18n.ErrKeyAPIKeyRequired)
			return
		}

		subject, ok := validKeys[key]
		if !ok {
			abortWithError(c, http.StatusUnauthorized, i18n.ErrKeyInvalidAPIKey)
			return
		}

		c.Set(string(SubjectKey), subject)
		c.Next()
	}
}

// GetSubject returns the authenticated caller, or "" for anonymous requests.
func GetSubject(c *gin.Context) string {
	if v, exists := c.Get(string(SubjectKey)); exists {
		if subject, ok := v.(string); ok {
			return subject
		}
	}
	return ""
}

// GetClaims returns the bearer token claims, if the request carried one.
func GetClaims(c *gin.Context) *dto.Claims {
	if v, exists := c.Get(string(ClaimsKey)); exists {
		if claims, ok := v.(*dto.Claims); ok {
			return claims
		}
	}
	return nil
}

// abortWithError aborts with a translated error envelope.
func abortWithError(c *gin.Context, status int, messageKey string) {
	message := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(c))
	errorResp := dto.NewError(dto.ErrCodeFromStatus(status), message).
		WithRequestID(GetRequestID(c))
	c.AbortWithStatusJSON(status, errorResp)
}
