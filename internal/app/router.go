package app

import (
	"github.com/guttosm/nutrition-service/config"
	"github.com/guttosm/nutrition-service/internal/http"
	"github.com/guttosm/nutrition-service/internal/middleware"
)

// mongoCheckerName labels the MongoDB ping in readiness output.
const mongoCheckerName = "mongodb"

// RouterComponents holds everything NewRouter needs.
type RouterComponents struct {
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter builds the router configuration and registers health probes.
// Optional components that are nil stay unset so handlers see a nil interface.
func InitializeRouter(
	services *ServiceComponents,
	db *DatabaseComponents,
	sink *middleware.AsyncLogger,
	cfg config.Config,
) *RouterComponents {
	healthHandler := http.NewHealthHandler()

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		RequestTimeout:    cfg.Server.RequestTimeout,
		MaxUploadBytes:    cfg.Server.MaxUploadBytes,
		EnableAuth:        cfg.Auth.Enabled,
		APIKeys:           cfg.Auth.APIKeys,
		EnableIdempotency: true,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
	}

	if services != nil {
		routerCfg.Normalizer = services.Normalizer
		routerCfg.TokenService = services.Tokens
		if services.Analyzer != nil {
			routerCfg.Analyzer = services.Analyzer
			healthHandler.RegisterCircuitBreaker("analyzer", services.Analyzer.CircuitBreaker())
		}
	}

	if db != nil {
		routerCfg.LoggingService = db.LoggingService
		healthHandler.RegisterCircuitBreaker(logsBreakerName, db.LogsCircuitBreaker)
		if db.DB != nil {
			healthHandler.RegisterChecker(mongoCheckerName, http.HealthCheckFunc(db.DB.HealthCheck))
		}
	}

	if sink != nil {
		routerCfg.LogSink = sink
	}

	return &RouterComponents{
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
