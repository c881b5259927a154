package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/guttosm/nutrition-service/internal/i18n"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	upstream := errors.New("analyzer returned 500")

	tests := []struct {
		name           string
		handler        gin.HandlerFunc
		acceptLanguage string
		expectedStatus int
		mustContain    []string
		mustNotContain []string
	}{
		{
			name: "plain errors become internal errors",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("test error"))
			},
			expectedStatus: http.StatusInternalServerError,
			mustContain:    []string{"internal_error", "An unexpected error occurred"},
			mustNotContain: []string{"test error"},
		},
		{
			name: "HTTP errors keep their status and message",
			handler: func(c *gin.Context) {
				_ = c.Error(NewHTTPError(http.StatusBadGateway, i18n.ErrKeyAnalysisFailed, upstream))
			},
			expectedStatus: http.StatusBadGateway,
			mustContain:    []string{"bad_gateway", "the photo could not be analyzed"},
			mustNotContain: []string{"analyzer returned 500"},
		},
		{
			name: "messages are translated",
			handler: func(c *gin.Context) {
				_ = c.Error(NewHTTPError(http.StatusServiceUnavailable, i18n.ErrKeyAnalyzerUnavailable, nil))
			},
			acceptLanguage: "nl",
			expectedStatus: http.StatusServiceUnavailable,
			mustContain:    []string{"service_unavailable", "Foto-analyse is momenteel niet beschikbaar"},
		},
		{
			name: "does nothing when no errors",
			handler: func(c *gin.Context) {
				c.String(http.StatusOK, "ok")
			},
			expectedStatus: http.StatusOK,
			mustContain:    []string{"ok"},
		},
		{
			name: "keeps a response that was already written",
			handler: func(c *gin.Context) {
				c.String(http.StatusAccepted, "partial")
				_ = c.Error(errors.New("late error"))
			},
			expectedStatus: http.StatusAccepted,
			mustContain:    []string{"partial"},
			mustNotContain: []string{"internal_error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), ErrorHandler())
			router.GET("/test", tt.handler)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tt.acceptLanguage)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			for _, substr := range tt.mustContain {
				assert.Contains(t, w.Body.String(), substr)
			}
			for _, substr := range tt.mustNotContain {
				assert.NotContains(t, w.Body.String(), substr)
			}
		})
	}
}

func TestHTTPError(t *testing.T) {
	cause := errors.New("boom")

	withCause := NewHTTPError(http.StatusBadGateway, i18n.ErrKeyAnalysisFailed, cause)
	assert.Equal(t, "boom", withCause.Error())
	assert.ErrorIs(t, withCause, cause)

	bare := NewHTTPError(http.StatusServiceUnavailable, i18n.ErrKeyAnalyzerUnavailable, nil)
	assert.Equal(t, "Service Unavailable", bare.Error())
}
