package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/break-planner/internal/api/http"
	"github.com/spec-kit/break-planner/internal/api/http/handlers"
	"github.com/spec-kit/break-planner/internal/auth"
	"github.com/spec-kit/break-planner/internal/config"
	"github.com/spec-kit/break-planner/internal/events"
	"github.com/spec-kit/break-planner/internal/observability"
	"github.com/spec-kit/break-planner/internal/persistence"
	"github.com/spec-kit/break-planner/internal/presets"
	"github.com/spec-kit/break-planner/internal/repository"
	"github.com/spec-kit/break-planner/internal/service"
	"github.com/spec-kit/break-planner/internal/worker"
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

	defaults, err := presets.LoadSettings(cfg.Planner.PresetFile)
	if err != nil {
		logger.Fatal("failed to load planner preset", zap.Error(err))
	}
	defaults.RolePriority = cfg.Planner.ResolveRolePriority(defaults.RolePriority)

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	deps := &service.PlannerDependencies{
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
		Defaults:   defaults,
		Location:   cfg.Planner.Location(),
	}
	health := map[string]handlers.Pinger{"postgres": nil, "redis": nil}
	if pool := pg.PoolHandle(); pool != nil {
		deps.ScheduleRepo = repository.NewScheduleRepository(pool)
		deps.SettingsRepo = repository.NewSettingsRepository(pool)
		deps.EmployeeRepo = repository.NewEmployeeRepository(pool)
		health["postgres"] = pg
	}
	if client := redis.Handle(); client != nil {
		deps.Cache = repository.NewScheduleCache(client, cfg.Redis.ScheduleTTL())
		health["redis"] = redis
	}
	plannerService := service.NewPlannerService(deps)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	if !cfg.Auth.Enabled {
		logger.Warn("AUTH_ENABLED is false; API requests are not authenticated")
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, health),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Schedules:      handlers.NewScheduleHandler(plannerService),
		Breaks:         handlers.NewBreaksHandler(plannerService),
		Settings:       handlers.NewSettingsHandler(plannerService),
		Employees:      handlers.NewEmployeesHandler(plannerService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, cfg.Auth.Enabled),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
