package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutrition-service/internal/domain/dto"
	"github.com/guttosm/nutrition-service/internal/i18n"
	"github.com/guttosm/nutrition-service/internal/middleware"
	"github.com/guttosm/nutrition-service/internal/service"
)

// AuthHandler exchanges API keys for short-lived bearer tokens.
type AuthHandler struct {
	tokens service.TokenService
	sink   middleware.LogSink
}

// NewAuthHandler creates a new authentication handler.
func NewAuthHandler(tokens service.TokenService, sink middleware.LogSink) *AuthHandler {
	return &AuthHandler{
		tokens: tokens,
		sink:   sink,
	}
}

// IssueToken handles POST /api/auth/token requests.
//
// @Summary      Exchange an API key for a bearer token
// @Description  Issues an HS256 access token for the caller identified by X-API-Key. The body is optional; without scopes the token grants the nutrition scope.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        X-API-Key header string true "API key"
// @Param        request body dto.TokenRequest false "Requested scopes"
// @Success      200 {object} dto.SuccessResponse{data=dto.TokenResponse} "Issued token"
// @Failure      400 {object} dto.ErrorResponse "Invalid body or unknown scope"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid API key"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      503 {object} dto.ErrorResponse "Token exchange disabled"
// @Security     ApiKeyAuth
// @Router       /api/auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if h.tokens == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyTokenExchangeDisabled, errors.New("token service is not configured"))
		return
	}

	req := &dto.TokenRequest{}
	if c.Request.ContentLength != 0 {
		var err error
		if req, err = BuildRequest[dto.TokenRequest](c); err != nil {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
			return
		}
	}
	if err := Validate(req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationScopes, err)
		return
	}

	subject := middleware.GetSubject(c)
	resp, err := h.tokens.IssueAccessToken(subject, req.RequestedScopes())
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	middleware.AuditLog(h.sink, c, middleware.ActionTokenExchange, "Access token issued", map[string]interface{}{
		"scopes": resp.Scopes,
	})
	builder.SuccessOK(resp)
}
