package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutrition-service/internal/analyzer"
	"github.com/guttosm/nutrition-service/internal/circuitbreaker"
	"github.com/guttosm/nutrition-service/internal/domain/dto"
	"github.com/guttosm/nutrition-service/internal/domain/model"
	"github.com/guttosm/nutrition-service/internal/i18n"
	"github.com/guttosm/nutrition-service/internal/middleware"
	"github.com/guttosm/nutrition-service/internal/service"
)

// DefaultMaxUploadBytes caps request bodies when no limit is configured.
const DefaultMaxUploadBytes = 10 << 20

const photoFormField = "photo"

// NutritionHandler serves the nutrition endpoints.
type NutritionHandler struct {
	normalizer     service.NutritionNormalizer
	analyzer       analyzer.Analyzer
	sink           middleware.LogSink
	maxUploadBytes int64
}

// NutritionHandlerOption configures a NutritionHandler.
type NutritionHandlerOption func(*NutritionHandler)

// WithAnalyzer enables photo analysis through a.
func WithAnalyzer(a analyzer.Analyzer) NutritionHandlerOption {
	return func(h *NutritionHandler) {
		h.analyzer = a
	}
}

// WithAuditSink records audit entries for every normalization.
func WithAuditSink(sink middleware.LogSink) NutritionHandlerOption {
	return func(h *NutritionHandler) {
		h.sink = sink
	}
}

// WithMaxUploadBytes limits the size of request bodies.
func WithMaxUploadBytes(n int64) NutritionHandlerOption {
	return func(h *NutritionHandler) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// NewNutritionHandler creates a NutritionHandler.
func NewNutritionHandler(normalizer service.NutritionNormalizer, opts ...NutritionHandlerOption) *NutritionHandler {
	h := &NutritionHandler{
		normalizer:     normalizer,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Normalize handles POST /api/nutrition/normalize.
//
// @Summary      Normalize an analysis result
// @Description  Turns a raw analysis result of any shape into a display-ready nutrition summary. Unusable input yields the placeholder summary. Only syntactically invalid JSON is rejected. Supports idempotency via Idempotency-Key header.
// @Tags         Nutrition
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body object true "Raw analysis result, e.g. {\"total_calories\": 585, \"ingredients\": [...]}"
// @Success      200 {object} dto.SuccessResponse{data=model.NutritionSummary} "Normalized summary"
// @Failure      400 {object} dto.ErrorResponse "Body is not valid JSON"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Failure      403 {object} dto.ErrorResponse "Token lacks the nutrition scope"
// @Failure      409 {object} dto.ErrorResponse "Idempotency key reused with a different body"
// @Failure      413 {object} dto.ErrorResponse "Body too large"
// @Failure      429 {object} dto.ErrorResponse "Rate limit exceeded"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/nutrition/normalize [post]
func (h *NutritionHandler) Normalize(c *gin.Context) {
	builder := NewResponseBuilder(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	payload, err := c.GetRawData()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.tooLarge(builder, err)
			return
		}
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	if !json.Valid(payload) {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, errors.New("request body is not valid JSON"))
		return
	}

	summary := h.normalizer.SummarizePayload(payload, service.SourcePayload)
	h.audit(c, middleware.ActionNormalize, "Nutrition normalized", summary, nil)
	builder.SuccessOK(summary)
}

// Analyze handles POST /api/nutrition/analyze.
//
// @Summary      Analyze a meal photo
// @Description  Forwards the uploaded photo to the analysis service and returns the normalized summary of its result. Upstream failures are reported as errors and never replaced by placeholder data.
// @Tags         Nutrition
// @Accept       multipart/form-data
// @Produce      json
// @Param        photo formData file true "Meal photo"
// @Success      200 {object} dto.SuccessResponse{data=model.NutritionSummary} "Normalized summary"
// @Failure      400 {object} dto.ErrorResponse "Missing or empty photo"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Failure      403 {object} dto.ErrorResponse "Token lacks the nutrition scope"
// @Failure      413 {object} dto.ErrorResponse "Photo too large"
// @Failure      429 {object} dto.ErrorResponse "Rate limit exceeded"
// @Failure      502 {object} dto.ErrorResponse "Analysis service failed"
// @Failure      503 {object} dto.ErrorResponse "Analysis service disabled or circuit open"
// @Failure      504 {object} dto.ErrorResponse "Analysis service timed out"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/nutrition/analyze [post]
func (h *NutritionHandler) Analyze(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if h.analyzer == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyAnalyzerUnavailable, errors.New("analyzer is not configured"))
		return
	}

	if c.Request.ContentLength > h.maxUploadBytes {
		h.tooLarge(builder, errors.New("content length "+strconv.FormatInt(c.Request.ContentLength, 10)))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	header, err := c.FormFile(photoFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.tooLarge(builder, err)
			return
		}
		builder.Error(http.StatusBadRequest, i18n.ErrKeyPhotoRequired, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyPhotoRequired, err)
		return
	}
	defer file.Close()

	payload, err := h.analyzer.Analyze(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		status, key := analyzeErrorStatus(err)
		if status >= http.StatusInternalServerError {
			middleware.AuditLogError(h.sink, c, middleware.ActionAnalyze, "Photo analysis failed", err, map[string]interface{}{
				"filename": header.Filename,
				"status":   status,
			})
		}
		builder.Error(status, key, err)
		return
	}

	summary := h.normalizer.SummarizePayload(payload, service.SourceAnalyzer)
	h.audit(c, middleware.ActionAnalyze, "Photo analyzed", summary, map[string]interface{}{
		"filename":    header.Filename,
		"photo_bytes": header.Size,
	})
	builder.SuccessOK(summary)
}

// Placeholder handles GET /api/nutrition/placeholder.
//
// @Summary      Placeholder summary
// @Description  Returns the fixed sample summary shown when no usable analysis is available.
// @Tags         Nutrition
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=model.NutritionSummary} "Placeholder summary"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/nutrition/placeholder [get]
func (h *NutritionHandler) Placeholder(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(service.BuildSummary(nil))
}

// Palette handles GET /api/nutrition/palette.
//
// @Summary      Ingredient palette
// @Description  Returns the ingredient colors in position order. Ingredient i uses colors[i % size].
// @Tags         Nutrition
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.PaletteResponse} "Palette"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/nutrition/palette [get]
func (h *NutritionHandler) Palette(c *gin.Context) {
	colors := make([]string, service.PaletteSize)
	copy(colors, service.Palette[:])
	NewResponseBuilder(c).SuccessOK(dto.PaletteResponse{Colors: colors, Size: service.PaletteSize})
}

func (h *NutritionHandler) tooLarge(builder *ResponseBuilder, err error) {
	builder.ErrorWithDetails(http.StatusRequestEntityTooLarge, i18n.ErrKeyPhotoTooLarge, err, map[string]string{
		"max_bytes": strconv.FormatInt(h.maxUploadBytes, 10),
	})
}

func (h *NutritionHandler) audit(c *gin.Context, action, message string, summary model.NutritionSummary, extra map[string]interface{}) {
	fields := map[string]interface{}{
		"ingredients":              len(summary.Ingredients),
		"placeholder":              summary.Placeholder,
		"displayed_total_calories": summary.DisplayedTotalCalories,
	}
	for k, v := range extra {
		fields[k] = v
	}
	middleware.AuditLog(h.sink, c, action, message, fields)
}

// analyzeErrorStatus maps an analyzer failure onto a response status and message.
func analyzeErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, analyzer.ErrEmptyPhoto):
		return http.StatusBadRequest, i18n.ErrKeyPhotoEmpty
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return http.StatusServiceUnavailable, i18n.ErrKeyAnalyzerUnavailable
	case analyzer.IsTimeout(err):
		return http.StatusGatewayTimeout, i18n.ErrKeyTimeout
	default:
		return http.StatusBadGateway, i18n.ErrKeyAnalysisFailed
	}
}
