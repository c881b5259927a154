// Package app wires configuration, storage, services and transport into a runnable server.
package app

import (
	"os"
	"strings"

	"github.com/guttosm/nutrition-service/internal/logger"
	"github.com/rs/zerolog/log"
)

const defaultLogLevel = "info"

// InitializeLogger configures the global logger from LOG_LEVEL and LOG_PRETTY.
// It returns the level that was applied.
func InitializeLogger() string {
	level := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if level == "" {
		level = defaultLogLevel
	}
	pretty := os.Getenv("LOG_PRETTY") == "true"

	logger.Init(level, pretty)
	applied := logger.ParseLevel(level).String()
	log.Debug().Str("level", applied).Bool("pretty", pretty).Msg("Logger initialized")
	return applied
}
