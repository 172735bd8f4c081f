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

	httptransport "github.com/spec-kit/booknow-hub/internal/api/http"
	"github.com/spec-kit/booknow-hub/internal/api/http/handlers"
	"github.com/spec-kit/booknow-hub/internal/auth"
	"github.com/spec-kit/booknow-hub/internal/config"
	"github.com/spec-kit/booknow-hub/internal/events"
	"github.com/spec-kit/booknow-hub/internal/observability"
	"github.com/spec-kit/booknow-hub/internal/persistence"
	"github.com/spec-kit/booknow-hub/internal/repository"
	"github.com/spec-kit/booknow-hub/internal/service"
	"github.com/spec-kit/booknow-hub/internal/session"
	"github.com/spec-kit/booknow-hub/internal/worker"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics("booknow")

	pool := pg.PoolHandle()
	tenantRepo := repository.NewTenantRepository(pool)
	operatorRepo := repository.NewGlobalOperatorRepository(pool)
	memberRepo := repository.NewTenantMemberRepository(pool)
	branchRepo := repository.NewBranchRepository(pool)
	specialistRepo := repository.NewSpecialistRepository(pool)

	credentials := auth.NewCredentialService(cfg.Auth, auth.CredentialDependencies{
		IdentityRepo: repository.NewIdentityRepository(pool),
		SessionRepo:  repository.NewSessionRepository(redis.Client),
	}, logger)

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, cfg.Audit))

	resolverDeps := session.ResolverDependencies{
		Operators: operatorRepo,
		Tenants:   tenantRepo,
		Members:   memberRepo,
		Metrics:   metrics,
	}
	authService := service.NewAuthService(service.AuthDependencies{
		Resolver:   resolverDeps,
		Dispatcher: dispatcher,
	}, logger)
	tenantService := service.NewTenantService(service.TenantDependencies{
		TenantRepo:     tenantRepo,
		OperatorRepo:   operatorRepo,
		MemberRepo:     memberRepo,
		BranchRepo:     branchRepo,
		SpecialistRepo: specialistRepo,
		Identities:     credentials,
	}, logger)
	scheduleService := service.NewScheduleService(service.ScheduleDependencies{
		WeeklyRepo:     repository.NewWeeklyScheduleRepository(pool),
		ExceptionRepo:  repository.NewScheduleExceptionRepository(pool),
		SpecialistRepo: specialistRepo,
		BranchRepo:     branchRepo,
		Dispatcher:     dispatcher,
	}, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:     handlers.NewAuthHandler(authService),
		Admin:    handlers.NewAdminHandler(tenantService),
		Tenant:   handlers.NewTenantHandler(tenantService),
		Schedule: handlers.NewScheduleHandler(scheduleService),
		Bearer:   auth.NewBearerMiddleware(credentials),
		Guard:    session.NewGuard(resolverDeps, logger),
		Metrics:  metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
