package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/nutrition-service/internal/analyzer"
	"github.com/guttosm/nutrition-service/internal/metrics"
	"github.com/guttosm/nutrition-service/internal/middleware"
	"github.com/guttosm/nutrition-service/internal/service"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit         int
	RateWindow        time.Duration
	RequestTimeout    time.Duration
	MaxUploadBytes    int64
	EnableAuth        bool
	APIKeys           map[string]string
	EnableIdempotency bool
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string

	Normalizer     service.NutritionNormalizer
	Analyzer       analyzer.Analyzer
	LoggingService service.LoggingService
	// TokenService enables bearer tokens; without it API keys guard every route.
	TokenService service.TokenService
	// LogSink receives request and audit entries; nil keeps logs on the console only.
	LogSink middleware.LogSink
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:         100,
		RateWindow:        time.Minute,
		RequestTimeout:    middleware.DefaultRequestTimeout,
		MaxUploadBytes:    DefaultMaxUploadBytes,
		EnableIdempotency: true,
	}
}

// stopper is a background worker started while the router is built.
type stopper interface {
	Stop()
}

// routerWorkers tracks the cleanup goroutines owned by one router.
type routerWorkers struct {
	list []stopper
}

func (w *routerWorkers) add(s stopper) {
	w.list = append(w.list, s)
}

// stop shuts every worker down. Each worker ignores repeated calls.
func (w *routerWorkers) stop() {
	for _, s := range w.list {
		s.Stop()
	}
}

// NewRouter creates and configures the Gin router for the nutrition service.
// The returned func stops the cleanup goroutines of the rate limiters and the
// idempotency cache. Call it once the server no longer serves the router.
func NewRouter(healthHandler *HealthHandler, cfg RouterConfig) (*gin.Engine, func()) {
	router, workers := buildRouter(healthHandler, cfg)
	return router, workers.stop
}

func buildRouter(healthHandler *HealthHandler, cfg RouterConfig) (*gin.Engine, *routerWorkers) {
	router := gin.New()
	workers := &routerWorkers{}

	configureGlobalMiddleware(router, &cfg, workers)
	registerInfrastructureRoutes(router, healthHandler, &cfg)

	api := router.Group("/api")
	configureAPIMiddleware(api, &cfg)

	routes := newAPIRoutes(&cfg, workers)
	switch {
	case cfg.EnableAuth && cfg.TokenService != nil:
		routes.registerBearerRoutes(api, &cfg)
	case cfg.EnableAuth:
		routes.registerAPIKeyRoutes(api, &cfg)
	default:
		routes.registerPublicRoutes(api)
	}

	return router, workers
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig, workers *routerWorkers) {
	allowedOrigins := cfg.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:19006"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Accept-Language", "Authorization", "X-API-Key", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After", middleware.IdempotencyReplayedHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.LogSink),
		middleware.ErrorHandler(),
	)

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		workers.add(limiter)
		router.Use(limiter.RateLimit())
	}
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	if healthHandler == nil {
		healthHandler = NewHealthHandler()
	}
	healthHandler.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// configureAPIMiddleware sets up middleware for the API group.
func configureAPIMiddleware(api *gin.RouterGroup, cfg *RouterConfig) {
	api.Use(middleware.Timeout(cfg.RequestTimeout))
}
