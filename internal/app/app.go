package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutrition-service/config"
	"github.com/guttosm/nutrition-service/internal/http"
	"github.com/guttosm/nutrition-service/internal/middleware"
)

// App is the wired application: the router plus the resources it holds open.
type App struct {
	Router *gin.Engine

	services    *ServiceComponents
	database    *DatabaseComponents
	asyncLogger *middleware.AsyncLogger
	stopRouter  func()
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) *App {
	InitializeLogger()

	services := InitializeServices(cfg)
	database := InitializeDatabase(cfg.Database)

	var asyncLogger *middleware.AsyncLogger
	if database != nil {
		asyncLogger = middleware.NewAsyncLogger(database.LoggingService, middleware.DefaultAsyncLoggerConfig())
	}

	routerComponents := InitializeRouter(services, database, asyncLogger, cfg)
	router, stopRouter := http.NewRouter(routerComponents.HealthHandler, routerComponents.Config)

	return &App{
		Router:      router,
		services:    services,
		database:    database,
		asyncLogger: asyncLogger,
		stopRouter:  stopRouter,
	}
}

// Close stops the router's rate limiters and idempotency cache, flushes
// pending log entries, then releases the cache and the database.
// Call it after the HTTP server has stopped accepting requests.
func (a *App) Close(ctx context.Context) error {
	if a.stopRouter != nil {
		a.stopRouter()
	}
	if a.asyncLogger != nil {
		a.asyncLogger.Stop()
	}
	a.services.Close()
	return a.database.Close(ctx)
}
