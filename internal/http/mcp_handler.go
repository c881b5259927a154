package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutrition-service/internal/i18n"
	"github.com/guttosm/nutrition-service/internal/middleware"
	"github.com/guttosm/nutrition-service/internal/service"
)

const (
	// ToolNormalizeNutrition is the MCP tool that normalizes an analysis result.
	ToolNormalizeNutrition = "normalize_nutrition"
	// resultArgument carries the raw analysis result of a normalize_nutrition call.
	resultArgument = "result"
)

// MCPHandler exposes the normalizer as MCP tools over HTTP.
type MCPHandler struct {
	normalizer service.NutritionNormalizer
	sink       middleware.LogSink
	tools      map[string]func(*gin.Context, *protocol.CallToolRequest) (*protocol.CallToolResult, error)
}

// NewMCPHandler creates an MCPHandler. sink may be nil.
func NewMCPHandler(normalizer service.NutritionNormalizer, sink middleware.LogSink) *MCPHandler {
	h := &MCPHandler{normalizer: normalizer, sink: sink}
	h.tools = map[string]func(*gin.Context, *protocol.CallToolRequest) (*protocol.CallToolResult, error){
		ToolNormalizeNutrition: h.normalizeNutrition,
	}
	return h
}

// CallTool handles POST /api/mcp/tools/call.
//
// @Summary      Call an MCP tool
// @Description  Runs a tool by name. normalize_nutrition takes the raw analysis result in the "result" argument and answers with the summary as JSON text content.
// @Tags         MCP
// @Accept       json
// @Produce      json
// @Param        request body object true "MCP tool call, e.g. {\"name\": \"normalize_nutrition\", \"arguments\": {\"result\": {...}}}"
// @Success      200 {object} object "MCP CallToolResult"
// @Failure      400 {object} dto.ErrorResponse "Body is not a tool call"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Failure      404 {object} dto.ErrorResponse "Unknown tool"
// @Security     BearerAuth
// @Security     ApiKeyAuth
// @Router       /api/mcp/tools/call [post]
func (h *MCPHandler) CallTool(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[protocol.CallToolRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	tool, ok := h.tools[req.Name]
	if !ok {
		builder.ErrorWithDetails(http.StatusNotFound, i18n.ErrKeyUnknownTool, errors.New("unknown tool "+req.Name), map[string]string{
			"tool": req.Name,
		})
		return
	}

	result, err := tool(c, req)
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MCPHandler) normalizeNutrition(c *gin.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	// A missing argument marshals to null and yields the placeholder.
	payload, err := json.Marshal(req.Arguments[resultArgument])
	if err != nil {
		return nil, err
	}

	summary := h.normalizer.SummarizePayload(payload, service.SourceMCP)
	middleware.AuditLog(h.sink, c, middleware.ActionMCPNormalize, "Nutrition normalized via MCP", map[string]interface{}{
		"ingredients": len(summary.Ingredients),
		"placeholder": summary.Placeholder,
	})
	return textResult(summary)
}

func textResult(v interface{}) (*protocol.CallToolResult, error) {
	text, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(text),
			},
		},
	}, nil
}
