package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"news-hub/internal/config"
	"news-hub/internal/infra/provider"
	"news-hub/internal/infra/worker"
	"news-hub/internal/observability/logging"
	"news-hub/internal/observability/tracing"
	"news-hub/internal/usecase/news"

	hhttp "news-hub/internal/handler/http"
	harticle "news-hub/internal/handler/http/article"
	"news-hub/internal/handler/http/requestid"
	hsrc "news-hub/internal/handler/http/source"
)

const serviceName = "news-hub"

func main() {
	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	tp := tracing.Setup(serviceName, cfg.Server.Version)
	components := setupServer(logger, cfg)

	runServer(logger, cfg.Server, components, tp)
}

// initLogger initializes the process logger from LOG_LEVEL and LOG_FORMAT.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler http.Handler
	Warmer  *worker.Warmer
}

// setupServer builds the provider adapters, the aggregator, the routes and the cache warmer.
func setupServer(logger *slog.Logger, cfg *config.Config) *ServerComponents {
	set := provider.NewSet(provider.Options{
		NewsAPIKey:  cfg.Providers.NewsAPIKey,
		GuardianKey: cfg.Providers.GuardianKey,
		NYTKey:      cfg.Providers.NYTKey,
		RSSFeeds:    cfg.Providers.RSSFeeds,
		Fetcher:     cfg.Providers.Fetcher,
	})
	if len(set.Providers()) == 0 {
		logger.Warn("searches will return empty results", slog.Any("error", news.ErrNoProviders))
	}

	svcCfg := cfg.Aggregator.ServiceConfig()
	svcCfg.RefillTimeout = cfg.Providers.Fetcher.Budget()
	svc := news.NewService(
		set.Providers(),
		news.NewMemoryCache(cfg.Aggregator.Cache.TTL, cfg.Aggregator.Cache.MaxEntries),
		svcCfg,
	)

	mux := setupRoutes(logger, cfg, svc, set)
	handler := applyMiddleware(logger, cfg.Server, mux)

	warmerMetrics := worker.NewWarmerMetrics()
	warmerCfg := worker.LoadWarmerConfig(logger, warmerMetrics.ConfigMetrics)
	warmer, err := worker.NewWarmer(svc, warmerCfg, warmerMetrics, logger)
	if err != nil {
		logger.Error("failed to create cache warmer", slog.Any("error", err))
		os.Exit(1)
	}

	return &ServerComponents{Handler: handler, Warmer: warmer}
}

// setupRoutes registers the API, health and metrics routes.
func setupRoutes(logger *slog.Logger, cfg *config.Config, svc *news.Service, breakers hhttp.BreakerReporter) *http.ServeMux {
	mux := http.NewServeMux()

	harticle.Register(mux, svc, cfg.Aggregator.PaginationConfig(), logger)
	hsrc.Register(mux, svc)

	mux.Handle("GET /health", &hhttp.HealthHandler{Breakers: breakers, Version: cfg.Server.Version})
	mux.Handle("GET /health/live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order, outermost first: Request ID → Recovery → Tracing → Logging → Timeout →
// Input Validation → Rate Limit → Metrics.
//
// Recovery sits outside Timeout because Timeout re-panics on the serving goroutine.
// Metrics wraps the mux directly so it sees the matched route pattern.
func applyMiddleware(logger *slog.Logger, cfg *config.ServerConfig, handler http.Handler) http.Handler {
	middlewareChain := handler

	// Apply in reverse order (innermost to outermost)
	middlewareChain = hhttp.MetricsMiddleware(middlewareChain)

	if cfg.RateLimitRPS > 0 {
		limiter := hhttp.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		middlewareChain = limiter.Limit(middlewareChain)
		logger.Info("rate limiting enabled",
			slog.Float64("rps", cfg.RateLimitRPS),
			slog.Int("burst", cfg.RateLimitBurst))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	middlewareChain = hhttp.InputValidation()(middlewareChain)
	middlewareChain = hhttp.Timeout(cfg.RequestTimeout)(middlewareChain)
	middlewareChain = hhttp.Logging(logger)(middlewareChain)
	middlewareChain = tracing.Middleware(middlewareChain)
	middlewareChain = hhttp.Recover(logger)(middlewareChain)
	middlewareChain = requestid.Middleware(middlewareChain)

	return middlewareChain
}

// runServer starts the HTTP server and the cache warmer, and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg *config.ServerConfig, components *ServerComponents, tp *sdktrace.TracerProvider) {
	// Create a context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := components.Warmer.Start(ctx); err != nil {
		logger.Error("failed to start cache warmer", slog.Any("error", err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := components.Warmer.Stop(shutdownCtx); err != nil {
		logger.Warn("cache warmer did not stop in time", slog.Any("error", err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	// Cancel in-flight request contexts only after the server has drained
	cancel()

	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Error("tracer provider shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
