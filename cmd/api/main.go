// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/decorbook/internal/admin"
	"github.com/carterperez-dev/decorbook/internal/auth"
	"github.com/carterperez-dev/decorbook/internal/booking"
	"github.com/carterperez-dev/decorbook/internal/catalog"
	"github.com/carterperez-dev/decorbook/internal/config"
	"github.com/carterperez-dev/decorbook/internal/core"
	"github.com/carterperez-dev/decorbook/internal/events"
	"github.com/carterperez-dev/decorbook/internal/health"
	"github.com/carterperez-dev/decorbook/internal/middleware"
	"github.com/carterperez-dev/decorbook/internal/payment"
	"github.com/carterperez-dev/decorbook/internal/server"
	"github.com/carterperez-dev/decorbook/internal/user"
)

const (
	drainDelay = 5 * time.Second

	checkoutRequestsPerMinute = 5
	checkoutBurst             = 2
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := core.Migrate(ctx, db.DB.DB); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	metrics := core.NewMetrics("decorbook")

	verifier, err := auth.NewVerifier(ctx, cfg.Identity)
	if err != nil {
		return err
	}
	logger.Info("identity verifier initialized",
		"issuer", cfg.Identity.Issuer,
		"jwks", cfg.Identity.JWKSURL != "",
	)

	provider, err := payment.NewProvider(cfg.Payment)
	if err != nil {
		return err
	}

	publisher, err := events.NewPublisher(ctx, cfg.Events, metrics, logger)
	if err != nil {
		return err
	}

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, logger)
	userHandler := user.NewHandler(userSvc)

	guard := auth.NewGuard(userSvc)

	catalogSvc := catalog.NewService(catalog.NewRepository(db.DB), logger)
	catalogHandler := catalog.NewHandler(catalogSvc)

	ledger := payment.NewLedger(db.DB)
	paymentHandler := payment.NewHandler(ledger)

	bookingSvc := booking.NewService(booking.ServiceConfig{
		Repo:       booking.NewRepository(db.DB),
		UnitOfWork: booking.NewUnitOfWork(db.DB),
		Ledger:     ledger,
		Catalog:    catalogSvc,
		Directory:  userSvc,
		Provider:   provider,
		Publisher:  publisher,
		Metrics:    metrics,
		Logger:     logger,
		Currency:   cfg.Payment.Currency,
		SuccessURL: cfg.Payment.SuccessURL,
		CancelURL:  cfg.Payment.CancelURL,
	})
	checkoutLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Scope:    "checkout",
		Limit:    middleware.PerMinute(checkoutRequestsPerMinute, checkoutBurst),
		KeyFunc:  middleware.KeyByUser,
		FailOpen: true,
		Metrics:  metrics,
	})
	bookingHandler := booking.NewHandler(bookingSvc, checkoutLimiter.Handler)

	deps := []health.Dependency{
		{Name: "database", Checker: db},
		{Name: "redis", Checker: redis},
	}
	var brokerPing func(context.Context) error
	if broker, ok := publisher.(*events.AMQPPublisher); ok {
		brokerPing = broker.Ping
		deps = append(deps, health.Dependency{
			Name:     "amqp",
			Checker:  broker,
			Optional: true,
		})
	}
	healthHandler := health.NewHandler(deps...)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Reports:    admin.NewReports(db.DB),
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		BrokerPing: brokerPing,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics(metrics))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen: true,
			Metrics:  metrics,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	authenticator := middleware.Authenticator(verifier)

	router.Route("/v1", func(r chi.Router) {
		userHandler.RegisterRoutes(r, authenticator, guard)
		catalogHandler.RegisterRoutes(r, authenticator, guard)
		bookingHandler.RegisterRoutes(r, authenticator, guard)
		paymentHandler.RegisterRoutes(r, authenticator, guard)

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticator)
			r.Use(middleware.RequireAdmin(guard))

			userHandler.RegisterAdminRoutes(r)
			bookingHandler.RegisterAdminRoutes(r)
			adminHandler.RegisterRoutes(r)
		})
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := publisher.Close(); err != nil {
		logger.Error("event publisher close error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
