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

	httptransport "github.com/spec-kit/advisory-portal/internal/api/http"
	"github.com/spec-kit/advisory-portal/internal/api/http/handlers"
	"github.com/spec-kit/advisory-portal/internal/auth"
	"github.com/spec-kit/advisory-portal/internal/config"
	"github.com/spec-kit/advisory-portal/internal/events"
	"github.com/spec-kit/advisory-portal/internal/observability"
	"github.com/spec-kit/advisory-portal/internal/persistence"
	"github.com/spec-kit/advisory-portal/internal/portal"
	"github.com/spec-kit/advisory-portal/internal/ratelimit"
	"github.com/spec-kit/advisory-portal/internal/repository"
	"github.com/spec-kit/advisory-portal/internal/service"
	"github.com/spec-kit/advisory-portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Configured() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var accountRepo repository.AccountRepository
	if pg.Configured() {
		accountRepo = repository.NewAccountRepository(pg.PoolHandle())
	} else {
		accountRepo = repository.NewMemoryAccountRepository()
	}

	var limiterStore ratelimit.Store
	switch cfg.RateLimit.Backend {
	case config.RateLimitBackendRedis:
		limiterStore = ratelimit.NewRedisStore(redis.Client, cfg.App.Name+":ratelimit:")
	default:
		limiterStore = ratelimit.NewMemoryStore()
	}

	metrics := observability.NewMetrics(metricsNamespace(cfg.App.Name))

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		AccountRepo:  accountRepo,
		TokenManager: tokens,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	proxyService := service.NewProxyService(cfg.Proxy, nil)

	sweeper := worker.NewRateLimitSweeper(limiterStore, cfg.RateLimit.Window(), cfg.RateLimit.SweepInterval(), logger)
	go sweeper.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.App.RequestTimeout(),
		WriteTimeout: cfg.App.RequestTimeout(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.CORS)

	routes := httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, metrics, cfg.Portal.TokenCookie),
		Proxy:          handlers.NewProxyHandler(proxyService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		RateLimiter:    httptransport.NewRateLimiter(limiterStore, cfg.RateLimit.TrustForwardedFor, logger, metrics),
		RegisterPolicy: ratelimit.Policy{Name: "register", Limit: cfg.RateLimit.RegisterLimit, Window: cfg.RateLimit.Window()},
		LoginPolicy:    ratelimit.Policy{Name: "login", Limit: cfg.RateLimit.LoginLimit, Window: cfg.RateLimit.Window()},
		Portal:         portal.NewShell(cfg.Portal),
	}
	if cfg.Metrics.Enabled {
		routes.Metrics = metrics
		routes.MetricsPath = cfg.Metrics.Path
	}
	httptransport.RegisterRoutes(app, routes)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

// metricsNamespace turns the app name into a valid Prometheus namespace.
func metricsNamespace(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
			out = append(out, ch)
		case ch >= '0' && ch <= '9' && len(out) > 0:
			out = append(out, ch)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
