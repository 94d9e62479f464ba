package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cprsearch/internal/config"
	"github.com/kailas-cloud/cprsearch/internal/domain"
	logpkg "github.com/kailas-cloud/cprsearch/internal/logger"
	"github.com/kailas-cloud/cprsearch/internal/metrics"
	"github.com/kailas-cloud/cprsearch/internal/transport/cprapi"
	chiTransport "github.com/kailas-cloud/cprsearch/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/cprsearch/internal/transport/openai"
	healthuc "github.com/kailas-cloud/cprsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/cprsearch/internal/usecase/search"
	"github.com/kailas-cloud/cprsearch/internal/version"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting cprsearch proxy",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("api_url", cfg.API.URL),
		zap.Duration("api_timeout", cfg.API.Timeout()),
		zap.Float64("api_rate_limit_rps", cfg.API.RateLimitRPS),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterUpstreamMetrics()
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterHTTPMetrics()

	api, err := cprapi.New(cprapi.Config{
		BaseURL:    cfg.API.URL,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout()},
		Limiter:    cfg.API.Limiter(),
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("Failed to create search API client", zap.Error(err))
	}

	searchSvc := searchuc.New(api)
	healthSvc := healthuc.New(api, optionalCheckers(cfg.Embedding, logger))

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      withCORS(r, cfg.HTTP.CORSOrigins),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// optionalCheckers returns the dependencies that can only degrade health.
// The embedding provider is probed when one is configured.
func optionalCheckers(cfg config.EmbeddingConfig, logger *zap.Logger) map[string]healthuc.Checker {
	if !cfg.Enabled() {
		return nil
	}
	emb, err := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     logger,
	})
	if err != nil {
		logger.Warn("Embedding provider disabled", zap.Error(err))
		return nil
	}
	logger.Info("Embedding provider configured",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
	)
	return map[string]healthuc.Checker{"embedding": newEmbeddingHealthChecker(emb)}
}

// embeddingHealthChecker adapts domain.Embedder to health.Checker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}
