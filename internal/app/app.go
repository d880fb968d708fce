// Package app provides the application bootstrap: it wires the cache,
// fetcher, AI backends, news aggregator, and use cases from configuration
// and exposes the HTTP server runner.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/spectrumhq/spectrum/internal/aggregator"
	"github.com/spectrumhq/spectrum/internal/ai"
	"github.com/spectrumhq/spectrum/internal/api"
	"github.com/spectrumhq/spectrum/internal/cache"
	"github.com/spectrumhq/spectrum/internal/core/ports"
	"github.com/spectrumhq/spectrum/internal/fetch"
	"github.com/spectrumhq/spectrum/internal/platform/config"
	"github.com/spectrumhq/spectrum/internal/usecase"
)

// App holds the wired application.
type App struct {
	cfg    *config.Config
	server *api.Server
	logger *zerolog.Logger
}

// New wires all dependencies. It fails fast when the configured default AI
// provider has no API key; a missing news aggregator key only disables the
// related-articles surface.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	store := cache.NewMemory(cfg.CacheMaxSize, logger)
	fetcher := fetch.New(cfg.ScraperRPS, cfg.ScraperTimeout, cfg.ScraperUserAgent, logger)

	registry := ai.NewRegistry(cfg.DefaultAIProvider)

	if cfg.GroqAPIKey != "" {
		registry.Register(ai.NewGroq(cfg.GroqAPIKey, cfg.GroqModel, cfg.AIRateLimitRPS, logger))
	}

	if cfg.AnthropicAPIKey != "" {
		registry.Register(ai.NewClaude(cfg.AnthropicAPIKey, cfg.ClaudeModel, cfg.AIRateLimitRPS, logger))
	}

	if cfg.OpenAIAPIKey != "" {
		registry.Register(ai.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.AIRateLimitRPS, logger))
	}

	provider, err := registry.Default()
	if err != nil {
		return nil, fmt.Errorf("default AI provider %q: %w", cfg.DefaultAIProvider, err)
	}

	logger.Info().
		Strs("providers", registry.Names()).
		Str("default", provider.Name()).
		Msg("AI backends configured")

	news := newAggregator(cfg, logger)
	if news == nil {
		logger.Warn().Msg("no news aggregator configured, related-articles search disabled")
	}

	analyze := usecase.NewAnalyzeArticle(provider, fetcher, store, cfg.MaxKeyPoints, logger)
	compare := usecase.NewCompareArticles(provider, analyze, store, logger)
	related := usecase.NewFindRelated(news, analyze, store, logger)

	server := api.NewServer(
		api.ServerConfig{
			Port:              cfg.HTTPPort,
			RateLimitRequests: cfg.RateLimitRequests,
			RateLimitWindow:   cfg.RateLimitWindow,
		},
		analyze, compare, related,
		fetcher, provider, news,
		logger,
	)

	return &App{cfg: cfg, server: server, logger: logger}, nil
}

// Run serves HTTP until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	return a.server.Start(ctx)
}

func newAggregator(cfg *config.Config, logger *zerolog.Logger) ports.NewsAggregator {
	switch {
	case cfg.DefaultAggregator == "gnews" && cfg.GNewsAPIKey != "":
		return aggregator.NewGNews(cfg.GNewsAPIKey, logger)
	case cfg.NewsAPIKey != "":
		return aggregator.NewNewsAPI(cfg.NewsAPIKey, logger)
	case cfg.GNewsAPIKey != "":
		return aggregator.NewGNews(cfg.GNewsAPIKey, logger)
	default:
		return nil
	}
}
