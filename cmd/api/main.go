package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/pet-adoption-service/internal/api/http"
	"github.com/spec-kit/pet-adoption-service/internal/api/http/handlers"
	"github.com/spec-kit/pet-adoption-service/internal/auth"
	"github.com/spec-kit/pet-adoption-service/internal/config"
	"github.com/spec-kit/pet-adoption-service/internal/events"
	"github.com/spec-kit/pet-adoption-service/internal/observability"
	"github.com/spec-kit/pet-adoption-service/internal/persistence"
	"github.com/spec-kit/pet-adoption-service/internal/repository"
	"github.com/spec-kit/pet-adoption-service/internal/service"
	"github.com/spec-kit/pet-adoption-service/internal/worker"
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

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	petRepo := repository.NewPetRepository(pool)
	campaignRepo := repository.NewCampaignRepository(pool)
	donationRepo := repository.NewDonationRepository(pool)
	adoptionRepo := repository.NewAdoptionRepository(pool)

	roleCache := auth.NewRoleCache(redis.Client, cfg.Auth.RoleCacheTTL())
	resolver := auth.NewRoleResolver(userRepo, roleCache)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		RoleCache:  roleCache,
		Dispatcher: dispatcher,
	})
	donationService := service.NewDonationService(service.DonationDependencies{
		DonationRepo: donationRepo,
		CampaignRepo: campaignRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	petService := service.NewPetService(petRepo, resolver)
	campaignService := service.NewCampaignService(campaignRepo, resolver)
	adoptionService := service.NewAdoptionService(adoptionRepo, petRepo)

	reconciler := worker.NewReconciliationWorker(donationService, logger, cfg.Reconciler)
	reconciler.RegisterHandlers(dispatcher)
	if cfg.Reconciler.Enabled {
		go reconciler.Run(ctx)
	}

	tokenGate := auth.NewTokenMiddleware(authService.TokenManager())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:      handlers.NewAuthHandler(authService),
		Users:     handlers.NewUsersHandler(authService),
		Pets:      handlers.NewPetsHandler(petService),
		Campaigns: handlers.NewCampaignsHandler(campaignService),
		Donations: handlers.NewDonationsHandler(donationService),
		Adoptions: handlers.NewAdoptionsHandler(adoptionService),
		TokenGate: tokenGate,
		Resolver:  resolver,
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
