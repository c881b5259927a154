package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutrition-service/internal/domain/dto"
	"github.com/guttosm/nutrition-service/internal/i18n"
	"github.com/guttosm/nutrition-service/internal/service"
)

// LogsHandler serves the persisted activity log.
type LogsHandler struct {
	logs service.LoggingService
}

// NewLogsHandler creates a LogsHandler. A nil service answers 503.
func NewLogsHandler(logs service.LoggingService) *LogsHandler {
	return &LogsHandler{logs: logs}
}

// ListLogs handles GET /api/logs.
//
// @Summary      Query the activity log
// @Description  Returns request and audit log entries, newest first. At most 500 entries are returned per page.
// @Tags         Logs
// @Produce      json
// @Param        request_id  query string false "Filter by request ID"
// @Param        level       query string false "Filter by level" Enums(debug, info, warn, error)
// @Param        method      query string false "Filter by HTTP method"
// @Param        path        query string false "Filter by request path"
// @Param        action_type query string false "Filter by audit action" Enums(normalize, analyze, mcp_normalize, token_exchange)
// @Param        since       query string false "Start of the window (RFC 3339)"
// @Param        until       query string false "End of the window (RFC 3339)"
// @Param        limit       query int    false "Page size"
// @Param        skip        query int    false "Entries to skip"
// @Success      200 {object} dto.SuccessResponse{data=dto.LogsResponse} "Page of entries"
// @Failure      400 {object} dto.ErrorResponse "Invalid filters"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Failure      403 {object} dto.ErrorResponse "Token lacks the logs:read scope"
// @Failure      503 {object} dto.ErrorResponse "Log store unavailable"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/logs [get]
func (h *LogsHandler) ListLogs(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if h.logs == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyLogsUnavailable, errors.New("log store is not configured"))
		return
	}

	req, err := BuildQuery[dto.LogQueryRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}
	if err := Validate(req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationTimeWindow, err)
		return
	}

	opts := req.ToOptions()
	if opts.Limit <= 0 || opts.Limit > service.MaxLogQueryLimit {
		opts.Limit = service.MaxLogQueryLimit
	}

	ctx := c.Request.Context()
	entries, err := h.logs.QueryLogs(ctx, opts)
	if err != nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyLogsUnavailable, err)
		return
	}
	total, err := h.logs.CountLogs(ctx, opts)
	if err != nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyLogsUnavailable, err)
		return
	}

	builder.SuccessOK(dto.LogsResponse{
		Logs:  entries,
		Total: total,
		Limit: opts.Limit,
		Skip:  opts.Skip,
	})
}
