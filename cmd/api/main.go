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

	httptransport "github.com/spec-kit/agent-admin/internal/api/http"
	"github.com/spec-kit/agent-admin/internal/api/http/handlers"
	"github.com/spec-kit/agent-admin/internal/auth"
	"github.com/spec-kit/agent-admin/internal/config"
	"github.com/spec-kit/agent-admin/internal/events"
	"github.com/spec-kit/agent-admin/internal/observability"
	"github.com/spec-kit/agent-admin/internal/persistence"
	"github.com/spec-kit/agent-admin/internal/pinstore"
	"github.com/spec-kit/agent-admin/internal/repository"
	"github.com/spec-kit/agent-admin/internal/service"
	"github.com/spec-kit/agent-admin/internal/worker"
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
	if pg.PoolHandle() == nil {
		logger.Fatal("POSTGRES_DSN is required")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pins, err := newPINStore(ctx, cfg, redis, logger)
	if err != nil {
		logger.Fatal("failed to init pin store", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	agentRepo := repository.NewAgentRepository(pg.PoolHandle())

	agentService := service.NewAgentService(service.AgentDependencies{
		AgentRepo:  agentRepo,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	authService, err := service.NewAuthService(*cfg, service.AuthDependencies{
		Agents:     agentService,
		PINStore:   pins,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	analyticsService := service.NewAnalyticsService(service.AnalyticsDependencies{
		AgentRepo: agentRepo,
		Cache:     redis,
		CacheTTL:  cfg.Analytics.CacheTTL(),
		Logger:    logger,
	})
	historyService := service.NewHistoryService(repository.NewAgentHistoryRepository(pg.PoolHandle()), agentService, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(dispatcher, notificationService, analyticsService, historyService)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService, agentService),
		Agents:         handlers.NewAgentsHandler(agentService, authService, historyService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		LoginRateLimit: cfg.RateLimit,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

// newPINStore selects the configured backend. The memory store receives the
// development PINs only when running in development.
func newPINStore(ctx context.Context, cfg *config.Config, redis *persistence.Redis, logger *zap.Logger) (pinstore.Store, error) {
	if cfg.PIN.Store == config.PINStoreRedis {
		logger.Info("using redis pin store")
		return pinstore.NewRedisStore(redis.Client, pinstore.DefaultRedisKey, cfg.Auth.BcryptCost), nil
	}

	store := pinstore.NewMemoryStore(cfg.Auth.BcryptCost)
	if cfg.App.IsDevelopment() {
		if err := pinstore.Seed(ctx, store, cfg.PIN.DevPINs); err != nil {
			return nil, err
		}
		logger.Info("seeded development pins", zap.Int("count", store.Len()))
	}
	return store, nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
