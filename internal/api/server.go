package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/spectrumhq/spectrum/internal/core/ports"
	"github.com/spectrumhq/spectrum/internal/usecase"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second

	// Comparison fan-out can take several AI round-trips.
	writeTimeout = 180 * time.Second

	readyCheckTimeout = 10 * time.Second
)

// Server is the HTTP front end for the analysis engine.
type Server struct {
	port       int
	handlers   *handlers
	fetcher    ports.ArticleFetcher
	ai         ports.AIProvider
	aggregator ports.NewsAggregator
	limiter    *ipRateLimiter
	logger     *zerolog.Logger
}

// ServerConfig carries the server wiring. Aggregator may be nil when no
// news API is configured; the related endpoints then fail per-request
// while the rest of the API stays up.
type ServerConfig struct {
	Port              int
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewServer wires routes, middleware, and health checks.
func NewServer(
	cfg ServerConfig,
	analyze *usecase.AnalyzeArticle,
	compare *usecase.CompareArticles,
	related *usecase.FindRelated,
	fetcher ports.ArticleFetcher,
	ai ports.AIProvider,
	aggregator ports.NewsAggregator,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		port: cfg.Port,
		handlers: &handlers{
			analyze: analyze,
			compare: compare,
			related: related,
			logger:  logger,
		},
		fetcher:    fetcher,
		ai:         ai,
		aggregator: aggregator,
		limiter:    newIPRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		logger:     logger,
	}
}

// Router builds the route table. Exposed separately so tests can drive the
// full middleware chain through httptest.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	router.HandleFunc("/readyz", s.handleReadyz).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.Use(requestIDMiddleware, loggingMiddleware(s.logger), rateLimitMiddleware(s.limiter))
	v1.HandleFunc("/articles/analyze", s.handlers.handleAnalyze).Methods(http.MethodPost)
	v1.HandleFunc("/articles/related", s.handlers.handleRelated).Methods(http.MethodPost)
	v1.HandleFunc("/comparisons", s.handlers.handleCompare).Methods(http.MethodPost)
	v1.HandleFunc("/comparisons/full", s.handlers.handleFullAnalysis).Methods(http.MethodPost)

	return router
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)

		defer cancel()

		//nolint:errcheck,contextcheck // shutdown in signal handler is best-effort, non-inherited context intentional
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Int("port", s.port).Msg("API server starting")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

// handleReadyz checks every collaborator. The aggregator is optional, so
// a missing one degrades the status without failing readiness.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
	defer cancel()

	services := map[string]bool{
		"ai_provider":     s.ai.HealthCheck(ctx),
		"article_fetcher": s.fetcher.HealthCheck(ctx),
	}

	status := "healthy"

	if s.aggregator != nil {
		services["news_aggregator"] = s.aggregator.HealthCheck(ctx)
		if !services["news_aggregator"] {
			status = "degraded"
		}
	}

	httpStatus := http.StatusOK

	if !services["ai_provider"] || !services["article_fetcher"] {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"services":  services,
	})
}
