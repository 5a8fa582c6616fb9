package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ledgerpos/backend/internal/application/catalog"
	"github.com/ledgerpos/backend/internal/application/ledger"
	"github.com/ledgerpos/backend/internal/application/notification"
	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/infrastructure/cache"
	"github.com/ledgerpos/backend/internal/infrastructure/config"
	"github.com/ledgerpos/backend/internal/infrastructure/event"
	"github.com/ledgerpos/backend/internal/infrastructure/logger"
	"github.com/ledgerpos/backend/internal/infrastructure/notify"
	"github.com/ledgerpos/backend/internal/infrastructure/persistence"
	"github.com/ledgerpos/backend/internal/infrastructure/telemetry"
	"github.com/ledgerpos/backend/internal/interfaces/http/handler"
	"github.com/ledgerpos/backend/internal/interfaces/http/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync(log) }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Tracing is initialized before the database so query spans have a
	// registered provider to attach to.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shut down tracer provider", zap.Error(err))
		}
	}()

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLogger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()
	log.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled: cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:  cfg.Database.DBName,
	}, log); err != nil {
		return fmt.Errorf("failed to register database tracing: %w", err)
	}

	bus := event.NewInMemoryEventBus(log)
	if err := bus.Start(ctx); err != nil {
		return fmt.Errorf("failed to start event bus: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := bus.Stop(stopCtx); err != nil {
			log.Error("failed to stop event bus", zap.Error(err))
		}
	}()

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore()
	if err != nil {
		return fmt.Errorf("failed to create idempotency store: %w", err)
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("failed to close idempotency store", zap.Error(err))
		}
	}()

	if err := subscribeBalanceReminders(cfg, db, bus, idempotencyStore, log); err != nil {
		return err
	}

	uow := persistence.NewGormUnitOfWork(db.DB)
	coordinator := ledger.NewTransactionCoordinator(uow, bus, log, ledger.Config{
		MaxRetries:   cfg.Coordinator.MaxRetries,
		RetryBackoff: cfg.Coordinator.RetryBackoff,
	})
	catalogService := catalog.NewService(uow, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	routerCfg := router.DefaultConfig()
	routerCfg.ServiceName = cfg.Telemetry.ServiceName
	routerCfg.MaxBodyBytes = cfg.HTTP.MaxBodySize
	routerCfg.TracingEnabled = cfg.Telemetry.Enabled
	engine := router.New(log, routerCfg,
		handler.NewSystemHandler(db),
		handler.NewLedgerHandler(coordinator),
		handler.NewCatalogHandler(catalogService),
	)
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case sig := <-quit:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// subscribeBalanceReminders wires the SMS reminder handler onto the event
// bus. A missing gateway URL disables reminders rather than failing startup
// so local environments can run without an SMS provider.
func subscribeBalanceReminders(cfg *config.Config, db *persistence.Database, bus *event.InMemoryEventBus, store shared.IdempotencyStore, log *zap.Logger) error {
	smsClient, err := notify.NewSMSClient(cfg.Notify, log)
	if err != nil {
		if errors.Is(err, notify.ErrGatewayNotConfigured) {
			log.Warn("sms gateway not configured, balance reminders disabled")
			return nil
		}
		return fmt.Errorf("failed to create sms client: %w", err)
	}

	reminderHandler := notification.NewBalanceReminderHandler(
		persistence.NewGormCustomerRepository(db.DB),
		smsClient,
		store,
		shared.IdempotencyConfig{TTL: cfg.Idempotency.TTL, Enabled: cfg.Idempotency.Enabled},
		log,
	)
	bus.Subscribe(reminderHandler)
	log.Info("balance reminder handler subscribed")
	return nil
}
