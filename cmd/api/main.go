// Package main is the entrypoint for the Postdeck API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/postdeck/postdeck/internal/analytics"
	"github.com/postdeck/postdeck/internal/cache"
	"github.com/postdeck/postdeck/internal/config"
	"github.com/postdeck/postdeck/internal/connection"
	"github.com/postdeck/postdeck/internal/handler"
	"github.com/postdeck/postdeck/internal/metrics"
	"github.com/postdeck/postdeck/internal/middleware"
	"github.com/postdeck/postdeck/internal/publish"
	"github.com/postdeck/postdeck/internal/repository"
	"github.com/postdeck/postdeck/internal/server"
	"github.com/postdeck/postdeck/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database. Optional: without it the API stays up and the
	// persistence-backed endpoints answer 503.
	var repo *repository.Repository
	if cfg.DatabaseURL != "" {
		repo, err = repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error(
				"failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		defer repo.Close()
		logger.Info("connected to database")
	} else {
		logger.Warn("DATABASE_URL not set; running without persistence")
	}

	// Initialize cache. Optional: metrics snapshots are fetched directly
	// and connection tokens live in memory when absent.
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		defer cacheClient.Close()
		logger.Info("connected to Redis")
	} else {
		logger.Warn("REDIS_URL not set; running without cache")
	}

	// A nil *Repository must become a nil interface, not an interface
	// holding a nil pointer.
	var postStore service.PostStore
	var workerStore publish.PostStore
	var analyticsStore analytics.PostLister
	var dbChecker handler.HealthChecker
	if repo != nil {
		postStore = repo
		workerStore = repo
		analyticsStore = repo
		dbChecker = repo
	}

	var snapshotCache analytics.SnapshotCache
	var cacheChecker handler.HealthChecker
	tokenStore := connection.TokenStore(connection.NewMemoryTokenStore())
	if cacheClient != nil {
		snapshotCache = cacheClient
		cacheChecker = cacheClient
		tokenStore = cacheClient
	}

	// Initialize services
	recorder := metrics.NewInMemory()
	postService := service.NewPostService(postStore, recorder)
	connectionService := connection.NewService(tokenStore, logger)

	analyticsService := analytics.NewService(analyticsStore, snapshotCache, analytics.NewStubFetcher(), logger, recorder)
	analyticsService.SetCacheTTL(cfg.MetricsCacheTTL)
	analyticsService.SetTopN(cfg.TopPostsLimit)

	// Publish worker
	worker := publish.NewWorker(workerStore, publish.StubPublishers(logger), logger, recorder)
	worker.SetPollInterval(cfg.PublishInterval)
	worker.SetBatchSize(cfg.PublishBatchSize)
	worker.SetPublishTimeout(cfg.PublishTimeout)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(dbChecker, cacheChecker)
	postHandler := handler.NewPostHandler(postService, worker, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, logger)
	authHandler := handler.NewAuthHandler(connectionService, logger)
	metricsHandler := handler.NewMetricsHandler(recorder)

	// Setup router
	r := setupRouter(h, healthHandler, postHandler, analyticsHandler, authHandler, metricsHandler, cfg, logger)

	// Create server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Start the publish worker; it stops when the server shuts down.
	workerCtx, stopWorker := context.WithCancel(ctx)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := worker.Run(workerCtx); err != nil && workerCtx.Err() == nil {
			logger.Error("publish worker exited", "error", err)
		}
	}()
	srv.OnShutdown("publish worker", func(shutdownCtx context.Context) error {
		stopWorker()
		select {
		case <-workerDone:
			return nil
		case <-shutdownCtx.Done():
			return shutdownCtx.Err()
		}
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"publish_interval", cfg.PublishInterval.String(),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	postHandler *handler.PostHandler,
	analyticsHandler *handler.AnalyticsHandler,
	authHandler *handler.AuthHandler,
	metricsHandler *handler.MetricsHandler,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = origins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Metrics endpoint
	r.Get("/metrics", metricsHandler.Metrics)

	// Root info endpoint
	r.Get("/", h.Root)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			r.Post("/", postHandler.Create)
			r.Get("/", postHandler.List)
			r.Get("/{id}", postHandler.Get)
			r.Post("/{id}/publish", postHandler.Publish)
		})

		r.Get("/analytics", analyticsHandler.Unified)

		r.Route("/auth/{platform}", func(r chi.Router) {
			r.Get("/", authHandler.Status)
			r.Post("/", authHandler.Connect)
			r.Delete("/", authHandler.Disconnect)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
