package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KretovDmitry/order-management-service/internal/application/interfaces"
	"github.com/KretovDmitry/order-management-service/internal/application/services"
	"github.com/KretovDmitry/order-management-service/internal/application/validation"
	"github.com/KretovDmitry/order-management-service/internal/config"
	"github.com/KretovDmitry/order-management-service/internal/infrastructure/db/postgres"
	"github.com/KretovDmitry/order-management-service/internal/infrastructure/messaging/kafka"
	rest "github.com/KretovDmitry/order-management-service/internal/interface/api/rest/chi"
	"github.com/KretovDmitry/order-management-service/internal/interface/api/rest/middleware"
	"github.com/KretovDmitry/order-management-service/pkg/limiter"
	"github.com/KretovDmitry/order-management-service/pkg/logger"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	trmcontext "github.com/avito-tech/go-transaction-manager/trm/v2/context"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
)

// Version indicates the current version of the application.
var Version = "1.0.0"

// Auth rate limiter forgets clients idle for that long.
const rateLimitTTL = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Server run context.
	serverCtx, serverStopCtx := context.WithCancel(context.Background())
	defer serverStopCtx()

	// Load application configurations.
	cfg := config.MustLoad()

	// Create root logger tagged with server version.
	logger := logger.New(cfg).With(serverCtx, "version", Version)

	// Open the database with every query logged.
	db, err := postgres.Connect(serverCtx, cfg, logger)
	if err != nil {
		return err
	}

	// Close connection.
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(err)
		}
		_ = logger.Sync()
	}()

	if err = postgres.Migrate(serverCtx, db); err != nil {
		return fmt.Errorf("failed to migrate the database: %w", err)
	}

	// Create default transaction manager for database/sql package.
	trManager := manager.Must(
		trmsql.NewDefaultFactory(db),
		manager.WithCtxManager(trmcontext.DefaultManager),
	)

	// Init repositories.
	userRepo, err := postgres.NewUserRepository(db, trmsql.DefaultCtxGetter, logger)
	if err != nil {
		return fmt.Errorf("failed to init user repository: %w", err)
	}

	orderRepo, err := postgres.NewOrderRepository(db, trmsql.DefaultCtxGetter, logger)
	if err != nil {
		return fmt.Errorf("failed to init order repository: %w", err)
	}

	// Init order validation.
	creditLimitValidator, err := validation.NewBusinessRuleValidator(userRepo)
	if err != nil {
		return fmt.Errorf("failed to init business rule validator: %w", err)
	}

	orderValidator, err := validation.NewOrderValidationEngine(
		creditLimitValidator, validation.NewPaymentConditionalValidator(), logger)
	if err != nil {
		return fmt.Errorf("failed to init order validation engine: %w", err)
	}

	// Init order events publisher.
	events, closeEvents := newEventPublisher(cfg, logger)
	defer func() {
		if err := closeEvents(); err != nil {
			logger.Errorf("close event publisher: %s", err)
		}
	}()

	// Init services.
	userService, err := services.NewUserService(userRepo, trManager, logger, cfg)
	if err != nil {
		return fmt.Errorf("failed to init user service: %w", err)
	}

	authService, err := services.NewAuthService(userRepo, userService, logger, cfg)
	if err != nil {
		return fmt.Errorf("failed to init auth service: %w", err)
	}

	orderService, err := services.NewOrderService(
		orderRepo, userRepo, orderValidator, events, trManager, logger)
	if err != nil {
		return fmt.Errorf("failed to init order service: %w", err)
	}

	// Create root router.
	router := rest.InitChi(logger)

	authLimiter := limiter.NewClientRateLimiter(
		cfg.RateLimit.Interval, cfg.RateLimit.Burst, rateLimitTTL)

	authenticated := []rest.MiddlewareFunc{middleware.Middleware(authService)}

	// Init and group handlers.
	rest.NewAuthController(authService, logger, rest.ChiServerOptions{
		BaseURL:     rest.BaseURL + "/auth",
		BaseRouter:  router,
		Middlewares: []rest.MiddlewareFunc{authLimiter.Middleware},
	})

	rest.NewOrderController(orderService, logger, rest.ChiServerOptions{
		BaseURL:     rest.BaseURL,
		BaseRouter:  router,
		Middlewares: authenticated,
	})

	rest.NewUserController(userService, logger, rest.ChiServerOptions{
		BaseURL:     rest.BaseURL,
		BaseRouter:  router,
		Middlewares: authenticated,
	})

	// Build HTTP server.
	hs := &http.Server{
		Addr:              cfg.HTTPServer.Address,
		ReadHeaderTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:       cfg.HTTPServer.IdleTimeout,
		Handler:           router,
	}

	// Graceful shutdown.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT,
			syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)

		signal := <-sig

		logger.With(serverCtx, "signal", signal.String()).
			Infof("Shutting down server with %s timeout",
				cfg.HTTPServer.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(serverCtx, cfg.HTTPServer.ShutdownTimeout)
		defer cancel()

		if err := hs.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("graceful shutdown failed: %s", err)
		}
		serverStopCtx()
	}()

	// Start the HTTP server with graceful shutdown.
	logger.Infof("Server %v is running at %v", Version, cfg.HTTPServer.Address)
	if err = hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("run server failed: %w", err)
	}

	// Wait for server context to be stopped or force exit if timeout exceeded.
	select {
	case <-serverCtx.Done():
	case <-time.After(cfg.HTTPServer.ShutdownTimeout):
		return errors.New("graceful shutdown timed out.. forcing exit")
	}

	return nil
}

// newEventPublisher returns the Kafka publisher, or a no-op one
// when no brokers are configured.
func newEventPublisher(
	cfg *config.Config, logger logger.Logger,
) (interfaces.OrderEventPublisher, func() error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("no kafka brokers configured, order events are dropped")
		return kafka.NopPublisher{}, kafka.NopPublisher{}.Close
	}

	p, err := kafka.NewOrderPublisher(cfg, logger)
	if err != nil {
		logger.Errorf("init kafka publisher: %s, order events are dropped", err)
		return kafka.NopPublisher{}, kafka.NopPublisher{}.Close
	}

	return p, p.Close
}
