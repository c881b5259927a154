package app

import (
	"github.com/guttosm/nutrition-service/config"
	"github.com/guttosm/nutrition-service/internal/analyzer"
	"github.com/guttosm/nutrition-service/internal/service"
	"github.com/rs/zerolog/log"
)

// ServiceComponents holds the business services shared by every transport.
type ServiceComponents struct {
	Normalizer *service.NutritionNormalizerService
	// Tokens is nil unless bearer tokens are configured.
	Tokens service.TokenService
	// Analyzer is nil unless an analyzer URL is configured.
	Analyzer *analyzer.Client
}

// InitializeServices builds the normalizer, the token issuer and the analyzer client.
func InitializeServices(cfg config.Config) *ServiceComponents {
	var opts []service.NormalizerOption
	if cfg.Cache.Size > 0 {
		opts = append(opts, service.WithCache(cfg.Cache.Size, cfg.Cache.TTL))
	}

	components := &ServiceComponents{
		Normalizer: service.NewNutritionNormalizerService(opts...),
	}

	if cfg.Auth.BearerEnabled() {
		components.Tokens = service.NewTokenService(service.NewTokenConfigFromAuthConfig(cfg.Auth))
	}

	if cfg.Analyzer.Enabled() {
		components.Analyzer = analyzer.New(analyzer.NewConfigFromAnalyzerConfig(cfg.Analyzer))
		log.Info().Str("url", cfg.Analyzer.URL).Msg("Photo analyzer enabled")
	}

	return components
}

// Close stops the normalizer's cache.
func (s *ServiceComponents) Close() {
	if s != nil && s.Normalizer != nil {
		s.Normalizer.Close()
	}
}
