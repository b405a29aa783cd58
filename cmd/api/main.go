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

	httptransport "github.com/commerce-kit/backoffice-service/internal/api/http"
	"github.com/commerce-kit/backoffice-service/internal/api/http/handlers"
	"github.com/commerce-kit/backoffice-service/internal/auth"
	"github.com/commerce-kit/backoffice-service/internal/config"
	"github.com/commerce-kit/backoffice-service/internal/events"
	"github.com/commerce-kit/backoffice-service/internal/observability"
	"github.com/commerce-kit/backoffice-service/internal/persistence"
	"github.com/commerce-kit/backoffice-service/internal/presence"
	"github.com/commerce-kit/backoffice-service/internal/realtime"
	"github.com/commerce-kit/backoffice-service/internal/repository"
	"github.com/commerce-kit/backoffice-service/internal/service"
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
	adminRepo := repository.NewAdminRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	newsletterRepo := repository.NewNewsletterRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger)
	notificationService.RegisterHandlers()

	hub := realtime.NewHub(logger)
	tracker := presence.NewTracker(staffRepo, hub, dispatcher, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AdminRepo:    adminRepo,
		StaffRepo:    staffRepo,
		CustomerRepo: customerRepo,
		Dispatcher:   dispatcher,
	})
	staffService := service.NewStaffService(staffRepo, adminRepo, tracker, cfg.Auth.BcryptCost)
	couponService := service.NewCouponService(couponRepo)
	newsletterService := service.NewNewsletterService(newsletterRepo, redis.Client, 24*time.Hour)

	authGate := auth.NewAuthGate(authService.TokenManager(), adminRepo, staffRepo, customerRepo)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:         handlers.NewAuthHandler(authService),
		Staff:        handlers.NewStaffHandler(staffService),
		Coupons:      handlers.NewCouponHandler(couponService),
		Newsletter:   handlers.NewNewsletterHandler(newsletterService),
		Gate:         authGate,
		LoginLimiter: httptransport.LoginRateLimiter(redis.Client, cfg.RateLimit, logger),
		Realtime: []fiber.Handler{
			realtime.UpgradeGuard(),
			realtime.Handler(hub, tracker, logger),
		},
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
