package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutrition-service/internal/i18n"
)

// RequireScope returns a middleware that lets a request through only when its
// bearer token grants scope. It must run after JWTAuth.
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortWithError(c, http.StatusUnauthorized, i18n.ErrKeyUnauthorized)
			return
		}
		if !claims.HasScope(scope) {
			abortWithError(c, http.StatusForbidden, i18n.ErrKeyForbidden)
			return
		}
		c.Next()
	}
}
