// Package main is the entry point for the nutrition-service application.
//
// @title           Nutrition Service API
// @version         1.0.0
// @description     Normalizes meal photo analysis results into display-ready nutrition summaries.
//
//	Raw analyzer output is decoded leniently, mapped onto ingredients with colors and
//	confidence percentages, and summarized into totals and macro availability.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/nutrition-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for authentication. Required if authentication is enabled.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Access token from /api/auth/token, sent as "Bearer <token>".
//
// @tag.name        Nutrition
// @tag.description Nutrition normalization and photo analysis
//
// @tag.name        MCP
// @tag.description Tool calls for agent integrations
//
// @tag.name        Auth
// @tag.description Access token exchange
//
// @tag.name        Logs
// @tag.description Request and audit log queries
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	_ "github.com/guttosm/nutrition-service/docs" // swagger docs

	"github.com/guttosm/nutrition-service/config"
	"github.com/guttosm/nutrition-service/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	application := app.InitializeApp(cfg)
	server := app.NewServer(application.Router, cfg.Server.Port)
	server.OnShutdown(application.Close)

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
