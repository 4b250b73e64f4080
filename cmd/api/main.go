// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/snavia68/coffeademo/internal/admin"
	"github.com/snavia68/coffeademo/internal/cart"
	"github.com/snavia68/coffeademo/internal/catalog"
	"github.com/snavia68/coffeademo/internal/config"
	"github.com/snavia68/coffeademo/internal/core"
	"github.com/snavia68/coffeademo/internal/health"
	"github.com/snavia68/coffeademo/internal/identity"
	"github.com/snavia68/coffeademo/internal/middleware"
	"github.com/snavia68/coffeademo/internal/notify"
	"github.com/snavia68/coffeademo/internal/order"
	"github.com/snavia68/coffeademo/internal/seed"
	"github.com/snavia68/coffeademo/internal/server"
)

const (
	drainDelay = 5 * time.Second
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
		"dsn", cfg.Database.DSN,
		"max_open_conns", cfg.Database.MaxOpenConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	if cfg.IsDevelopment() {
		if err := ensureDevKeys(cfg, logger); err != nil {
			return err
		}
	}

	jwtManager, err := identity.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	if cfg.Seed.Enabled {
		if err := seed.Run(ctx, db.DB, logger); err != nil {
			return err
		}
	}

	sessions := identity.NewSessionStore(redis.Client)
	identityRepo := identity.NewRepository(db.DB)
	identitySvc := identity.NewService(identityRepo, jwtManager, sessions)
	identityHandler := identity.NewHandler(identitySvc)

	catalogRepo := catalog.NewRepository(db.DB)
	catalogSvc := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(catalogSvc)

	cartRepo := cart.NewRedisRepository(redis.Client)
	cartSvc := cart.NewService(cartRepo, catalogSvc, cfg.Market.TaxRate)
	cartHandler := cart.NewHandler(cartSvc)

	mailer := notify.NewLogMailer(logger)
	gateway := order.NewSimulatedGateway(
		cfg.Market.PaymentSuccessRate,
		cfg.Market.PaymentDelay,
	)
	orderRepo := order.NewRepository(db.DB)
	orderSvc := order.NewService(order.ServiceParams{
		DB:             db.DB,
		Repo:           orderRepo,
		Carts:          cartSvc,
		Stores:         catalogSvc,
		Users:          identitySvc,
		Gateway:        gateway,
		Idempotency:    order.NewRedisIdempotencyStore(redis.Client, cfg.Market.CheckoutKeyTTL),
		Mailer:         mailer,
		Logger:         logger,
		TaxRate:        cfg.Market.TaxRate,
		CommissionRate: cfg.Market.CommissionRate,
	})
	orderHandler := order.NewHandler(orderSvc)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DB:         db.DB,
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	// Authenticated traffic gets role-aware limits on top of the global
	// IP limiter, so a busy seller dashboard cannot starve buyers.
	roleLimiter := middleware.RoleRateLimiter(
		redis.Client,
		middleware.DefaultRoleLimits,
	)
	authMw := middleware.Authenticator(identitySvc)
	authenticated := func(next http.Handler) http.Handler {
		return authMw(roleLimiter(next))
	}
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		identityHandler.RegisterRoutes(r, authenticated)
		catalogHandler.RegisterRoutes(r, authenticated)
		cartHandler.RegisterRoutes(r, authenticated)
		orderHandler.RegisterRoutes(r, authenticated)
		adminHandler.RegisterRoutes(r, authenticated, adminOnly)
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

// ensureDevKeys writes a throwaway ES256 keypair so a fresh clone boots
// without any provisioning. Production always gets real key files.
func ensureDevKeys(cfg *config.Config, logger *slog.Logger) error {
	if _, err := os.Stat(cfg.JWT.PrivateKeyPath); err == nil {
		return nil
	}

	logger.Warn("JWT key files missing, generating development keypair",
		"private_key", cfg.JWT.PrivateKeyPath,
		"public_key", cfg.JWT.PublicKeyPath,
	)

	return identity.GenerateKeyPair(
		cfg.JWT.PrivateKeyPath,
		cfg.JWT.PublicKeyPath,
	)
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
