package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/finledger/finance-api/internal/api/http"
	"github.com/finledger/finance-api/internal/api/http/handlers"
	"github.com/finledger/finance-api/internal/auth"
	"github.com/finledger/finance-api/internal/config"
	"github.com/finledger/finance-api/internal/observability"
	"github.com/finledger/finance-api/internal/persistence"
	"github.com/finledger/finance-api/internal/repository"
	"github.com/finledger/finance-api/internal/service"
)

const (
	rateLimiterSweepInterval = 5 * time.Minute
	rateLimiterMaxIdle       = 15 * time.Minute
	shutdownTimeout          = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var (
		keySource       auth.KeySource
		redisPinger     handlers.Pinger
		refreshInterval time.Duration
	)
	switch cfg.Auth.KeySource {
	case config.KeySourceRedis:
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		keySource = auth.NewRedisKeySource(redis.Client, cfg.Auth.KeyRedisPrefix)
		redisPinger = redis
		refreshInterval = cfg.Auth.KeyRefreshInterval()
	default:
		keySource = auth.StaticKeySource{ID: cfg.Auth.KeyID, Secret: cfg.Auth.JWTSecret}
	}

	ring := auth.NewKeyRing(nil)
	refresher := auth.NewKeyRefresher(keySource, ring, refreshInterval, logger, metrics)
	if err := refresher.Refresh(ctx); err != nil {
		logger.Fatal("failed to load verification keys", zap.Error(err))
	}
	go refresher.Run(ctx)

	verifier := auth.NewVerifier(ring)
	issuer := auth.NewIssuer(ring, cfg.Auth.AccessTokenTTL())
	authMiddleware := auth.NewAuthMiddleware(verifier, logger, metrics)

	userRepo := repository.NewUserRepository(pool)
	transactionRepo := repository.NewTransactionRepository(pool)
	billingRepo := repository.NewBillingRepository(pool)

	authService := service.NewAuthService(userRepo, issuer, cfg.Auth.BcryptCost)
	profileService := service.NewProfileService(userRepo)
	transactionService := service.NewTransactionService(transactionRepo)
	billingService := service.NewBillingService(billingRepo)
	searchService := service.NewSearchService(transactionRepo, billingRepo)

	limiter := httptransport.NewSubjectRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, metrics)
	go sweepLimiters(ctx, limiter)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.CORSOrigin)

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readinessChecks(pg, redisPinger, ring))

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           handlers.NewAuthHandler(authService),
		Profile:        handlers.NewProfileHandler(profileService),
		Transactions:   handlers.NewTransactionsHandler(transactionService),
		Billings:       handlers.NewBillingsHandler(billingService),
		Search:         handlers.NewSearchHandler(searchService),
		AuthMiddleware: authMiddleware,
		RateLimiter:    limiter,
		Metrics:        metrics,
		UploadsDir:     cfg.App.UploadsDir,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// readinessChecks lists the dependencies /health/ready pings. Redis is only
// included when it serves the signing keys.
func readinessChecks(pg, redis handlers.Pinger, ring *auth.KeyRing) map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{
		"postgres": pg,
		"signing_keys": handlers.PingFunc(func(context.Context) error {
			_, err := ring.Current()
			return err
		}),
	}
	if redis != nil {
		checks["redis"] = redis
	}
	return checks
}

func sweepLimiters(ctx context.Context, limiter *httptransport.SubjectRateLimiter) {
	ticker := time.NewTicker(rateLimiterSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Cleanup(rateLimiterMaxIdle)
		}
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
