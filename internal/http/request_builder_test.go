//go:build !integration

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/nutrition-service/internal/domain/dto"
	"github.com/guttosm/nutrition-service/internal/i18n"
	"github.com/guttosm/nutrition-service/internal/middleware"
)

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	middleware.RequestID()(c)
	return c, w
}

func TestBuildRequest(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantErr    bool
		wantScopes []string
	}{
		{name: "valid body", body: `{"scopes":["logs:read"]}`, wantScopes: []string{"logs:read"}},
		{name: "empty object", body: `{}`},
		{name: "invalid json", body: `{"scopes":`, wantErr: true},
		{name: "wrong type", body: `{"scopes":"nutrition"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/api/auth/token", tt.body)

			req, err := BuildRequest[dto.TokenRequest](c)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, req)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantScopes, req.Scopes)
		})
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantErr   bool
		wantLimit int
		wantLevel string
	}{
		{name: "filters and paging", query: "?level=warn&limit=20&skip=40", wantLimit: 20, wantLevel: "warn"},
		{name: "time window", query: "?since=2026-04-01T00:00:00Z&until=2026-04-02T00:00:00Z"},
		{name: "unknown level", query: "?level=verbose", wantErr: true},
		{name: "negative limit", query: "?limit=-1", wantErr: true},
		{name: "malformed time", query: "?since=yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodGet, "/api/logs"+tt.query, "")

			req, err := BuildQuery[dto.LogQueryRequest](c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, req.Limit)
			assert.Equal(t, tt.wantLevel, req.Level)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(struct{}{}))
	assert.NoError(t, Validate(&dto.TokenRequest{Scopes: []string{dto.ScopeNutrition}}))

	var verr *dto.ValidationError
	assert.ErrorAs(t, Validate(&dto.TokenRequest{Scopes: []string{"admin"}}), &verr)
}

func TestResponseBuilder_Success(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/api/nutrition/palette", "")

	NewResponseBuilder(c).SuccessOK(dto.PaletteResponse{Colors: []string{"#4CAF50"}, Size: 1})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data      dto.PaletteResponse `json:"data"`
		RequestID string              `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"#4CAF50"}, resp.Data.Colors)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, resp.RequestID, w.Header().Get(middleware.RequestIDHeader))
}

func TestResponseBuilder_Error(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		key         string
		err         error
		details     map[string]string
		wantCode    string
		wantErrors  int
		wantDetails map[string]string
	}{
		{
			name:       "bad request records the cause",
			status:     http.StatusBadRequest,
			key:        i18n.ErrKeyInvalidRequestBody,
			err:        errors.New("unexpected EOF"),
			wantCode:   dto.ErrCodeInvalidRequest,
			wantErrors: 1,
		},
		{
			name:     "gateway error without cause",
			status:   http.StatusBadGateway,
			key:      i18n.ErrKeyAnalysisFailed,
			wantCode: dto.ErrCodeBadGateway,
		},
		{
			name:        "details are rendered",
			status:      http.StatusRequestEntityTooLarge,
			key:         i18n.ErrKeyPhotoTooLarge,
			details:     map[string]string{"max_bytes": "1024"},
			wantCode:    dto.ErrCodePayloadTooLarge,
			wantDetails: map[string]string{"max_bytes": "1024"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodPost, "/api/nutrition/analyze", "")

			NewResponseBuilder(c).ErrorWithDetails(tt.status, tt.key, tt.err, tt.details)

			assert.Equal(t, tt.status, w.Code)
			assert.True(t, c.IsAborted())
			assert.Len(t, c.Errors, tt.wantErrors)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.Equal(t, i18n.GetTranslator().Translate(tt.key, "en"), resp.Message)
			assert.Equal(t, tt.wantDetails, resp.Details)
			assert.NotEmpty(t, resp.RequestID)

			if tt.wantErrors > 0 {
				var httpErr *middleware.HTTPError
				require.ErrorAs(t, c.Errors.Last().Err, &httpErr)
				assert.Equal(t, tt.status, httpErr.Status)
				assert.ErrorIs(t, httpErr, tt.err)
			}
		})
	}
}
