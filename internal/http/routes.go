package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutrition-service/internal/domain/dto"
	"github.com/guttosm/nutrition-service/internal/middleware"
)

// apiRoutes holds the handlers behind /api and registers them per auth mode.
type apiRoutes struct {
	nutrition *NutritionHandler
	mcp       *MCPHandler
	auth      *AuthHandler
	logs      *LogsHandler
	// idempotency wraps the POST endpoints that produce a summary.
	idempotency gin.HandlerFunc
	workers     *routerWorkers
}

func newAPIRoutes(cfg *RouterConfig, workers *routerWorkers) *apiRoutes {
	idempotency := func(c *gin.Context) { c.Next() }
	if cfg.EnableIdempotency {
		idemCfg := middleware.DefaultIdempotencyConfig()
		workers.add(idemCfg)
		idempotency = middleware.Idempotency(idemCfg)
	}

	return &apiRoutes{
		nutrition: NewNutritionHandler(cfg.Normalizer,
			WithAnalyzer(cfg.Analyzer),
			WithAuditSink(cfg.LogSink),
			WithMaxUploadBytes(cfg.MaxUploadBytes),
		),
		mcp:         NewMCPHandler(cfg.Normalizer, cfg.LogSink),
		auth:        NewAuthHandler(cfg.TokenService, cfg.LogSink),
		logs:        NewLogsHandler(cfg.LoggingService),
		idempotency: idempotency,
		workers:     workers,
	}
}

// registerNutritionRoutes registers the nutrition and MCP endpoints on rg.
// Idempotency runs after authentication so keys are scoped to the caller.
func (r *apiRoutes) registerNutritionRoutes(rg *gin.RouterGroup) {
	nutrition := rg.Group("/nutrition")
	{
		nutrition.POST("/normalize", r.idempotency, r.nutrition.Normalize)
		nutrition.POST("/analyze", r.nutrition.Analyze)
		nutrition.GET("/placeholder", r.nutrition.Placeholder)
		nutrition.GET("/palette", r.nutrition.Palette)
	}
	rg.POST("/mcp/tools/call", r.idempotency, r.mcp.CallTool)
}

// registerPublicRoutes registers every endpoint without authentication.
func (r *apiRoutes) registerPublicRoutes(api *gin.RouterGroup) {
	r.registerNutritionRoutes(api)
	api.GET("/logs", r.logs.ListLogs)
}

// registerAPIKeyRoutes guards every endpoint with X-API-Key.
func (r *apiRoutes) registerAPIKeyRoutes(api *gin.RouterGroup, cfg *RouterConfig) {
	protected := api.Group("")
	protected.Use(middleware.APIKeyAuth(cfg.APIKeys))
	r.useSubjectRateLimit(protected, cfg)

	r.registerNutritionRoutes(protected)
	protected.GET("/logs", r.logs.ListLogs)
}

// registerBearerRoutes exposes the token exchange behind X-API-Key and guards
// everything else with scoped bearer tokens.
func (r *apiRoutes) registerBearerRoutes(api *gin.RouterGroup, cfg *RouterConfig) {
	api.POST("/auth/token", middleware.APIKeyAuth(cfg.APIKeys), r.auth.IssueToken)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(cfg.TokenService))
	r.useSubjectRateLimit(protected, cfg)

	nutrition := protected.Group("")
	nutrition.Use(middleware.RequireScope(dto.ScopeNutrition))
	r.registerNutritionRoutes(nutrition)

	protected.GET("/logs", middleware.RequireScope(dto.ScopeLogs), r.logs.ListLogs)
}

func (r *apiRoutes) useSubjectRateLimit(rg *gin.RouterGroup, cfg *RouterConfig) {
	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		r.workers.add(limiter)
		rg.Use(limiter.SubjectRateLimit())
	}
}
