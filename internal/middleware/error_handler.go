package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutrition-service/internal/domain/dto"
	"github.com/guttosm/nutrition-service/internal/i18n"
	"github.com/guttosm/nutrition-service/internal/logger"
)

// HTTPError is an error a handler attaches with c.Error to choose the response
// status and the translated message. Err is logged, never sent to the client.
type HTTPError struct {
	Status     int
	MessageKey string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(status int, messageKey string, err error) *HTTPError {
	return &HTTPError{Status: status, MessageKey: messageKey, Err: err}
}

// ErrorHandler returns a middleware that renders the last gin context error.
// HTTPError values keep their status; anything else becomes a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status, messageKey := http.StatusInternalServerError, i18n.ErrKeyInternalError
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			status, messageKey = httpErr.Status, httpErr.MessageKey
		}

		requestID := GetRequestID(c)
		log := logger.Logger()
		event := log.Error()
		if status < http.StatusInternalServerError {
			event = log.Warn()
		}
		event.
			Str("request_id", requestID).
			Err(err).
			Int("status", status).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Request error")

		if !c.Writer.Written() {
			message := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(c))
			c.JSON(status, dto.NewError(dto.ErrCodeFromStatus(status), message).WithRequestID(requestID))
		}
	}
}
