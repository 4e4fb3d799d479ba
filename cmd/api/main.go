package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/brainscan1980/anonaddy/internal/api/http"
	"github.com/brainscan1980/anonaddy/internal/api/http/handlers"
	"github.com/brainscan1980/anonaddy/internal/auth"
	"github.com/brainscan1980/anonaddy/internal/config"
	"github.com/brainscan1980/anonaddy/internal/events"
	"github.com/brainscan1980/anonaddy/internal/observability"
	"github.com/brainscan1980/anonaddy/internal/persistence"
	"github.com/brainscan1980/anonaddy/internal/repository"
	"github.com/brainscan1980/anonaddy/internal/service"
	"github.com/brainscan1980/anonaddy/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	domainRepo := repository.NewDomainRepository(pool)
	recipientRepo := repository.NewRecipientRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	verifier := service.NewVerificationService(redis.Client, nil, cfg.Addy)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
	})
	domainService := service.NewDomainService(cfg.Addy, service.DomainDependencies{
		DomainRepo:    domainRepo,
		RecipientRepo: recipientRepo,
		Verifier:      verifier,
		Dispatcher:    dispatcher,
	})
	recipientService := service.NewRecipientService(service.RecipientDependencies{
		RecipientRepo: recipientRepo,
		Verifier:      verifier,
		Dispatcher:    dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Domains:        handlers.NewDomainsHandler(domainService),
		Recipients:     handlers.NewRecipientsHandler(recipientService),
		AuthMiddleware: authMiddleware,
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
