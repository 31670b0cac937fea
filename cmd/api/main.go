package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/api/http"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/api/http/handlers"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/auth"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/clock"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/config"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/events"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/observability"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/persistence"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/repository"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/scheduler"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/service"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/worker"
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
	accountRepo := repository.NewAccountRepository(pool)
	driverRepo := repository.NewDriverRepository(pool)
	listingRepo := repository.NewListingRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	disputeRepo := repository.NewDisputeRepository(pool)
	actionRepo := repository.NewDisciplineRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	clk := clock.System()
	metrics := observability.NewMetrics()

	periods := service.NewPeriodTracker(actionRepo, driverRepo, clk)
	tripGuard := service.NewTripGuard(bookingRepo)

	engine := service.NewDisciplineService(service.DisciplineDependencies{
		ActionRepo:  actionRepo,
		DriverRepo:  driverRepo,
		AccountRepo: accountRepo,
		DisputeRepo: disputeRepo,
		Periods:     periods,
		Trips:       tripGuard,
		Dispatcher:  dispatcher,
		Clock:       clk,
		Logger:      logger,
	})

	disputeService := service.NewDisputeService(disputeRepo, bookingRepo, engine, dispatcher, clk, logger)
	bookingService := service.NewBookingService(bookingRepo, engine, dispatcher, clk, logger)
	authService := service.NewAuthService(cfg.Auth, accountRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)

	if cfg.Scheduler.Enabled {
		sweeper := scheduler.NewSweeper(actionRepo, driverRepo, periods, engine, bookingService, clk, logger)
		lock := scheduler.NewSweepLock(redis.ClientHandle(), cfg.Scheduler.SweepLockTTL(), logger)
		sched := scheduler.New(cfg.Scheduler, sweeper, lock, metrics, logger)
		if err := sched.Start(); err != nil {
			logger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accountRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Disputes:       handlers.NewDisputesHandler(disputeService),
		Bookings:       handlers.NewBookingsHandler(bookingService),
		Admin:          handlers.NewAdminDisciplineHandler(engine, listingRepo),
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
