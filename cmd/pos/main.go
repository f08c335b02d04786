package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/kedialo/barpos/internal/cart"
	"github.com/kedialo/barpos/internal/catalog"
	"github.com/kedialo/barpos/internal/checkout"
	"github.com/kedialo/barpos/internal/config"
	"github.com/kedialo/barpos/internal/pos"
	"github.com/kedialo/barpos/internal/repository/filecart"
	"github.com/kedialo/barpos/internal/repository/mongocart"
	"github.com/kedialo/barpos/internal/scheduler"
	"github.com/kedialo/barpos/internal/server/handlers"
	"github.com/kedialo/barpos/internal/server/router"
	"github.com/kedialo/barpos/pkg/clients/backend"
	"github.com/kedialo/barpos/pkg/logger"
)

// registerStorage is the full storage surface a driver provides: the cart
// slot plus the sale journal.
type registerStorage interface {
	cart.Storage
	checkout.Journal
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	storage, cleanup, err := buildStorage(cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init cart storage", zap.Error(err))
	}
	defer cleanup()

	apiClient := backend.NewClient(cfg.Backend)

	cartStore := cart.NewStore(storage, baseLogger.Named("cart"))
	if err := cartStore.Hydrate(context.Background()); err != nil {
		// Non-fatal: the register runs in-memory-only for this session.
		baseLogger.Warn("cart storage unavailable", zap.Error(err))
	}

	stockCatalog := catalog.New(apiClient, baseLogger.Named("catalog"))
	coordinator := checkout.New(apiClient, cartStore, stockCatalog, storage, baseLogger.Named("checkout"))
	controller := pos.NewController(stockCatalog, cartStore, coordinator, baseLogger.Named("pos"))

	startCtx, cancelStart := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	controller.Start(startCtx)
	cancelStart()

	posHandler := handlers.NewPosHandler(controller, baseLogger.Named("handlers.pos"))
	engine := router.New(posHandler, baseLogger.Named("router"))

	sched := scheduler.New(cfg.Refresh.CronSchedule, controller, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("register starting",
			zap.String("port", cfg.Server.Port),
			zap.String("register_id", cfg.Storage.RegisterID),
			zap.String("storage_driver", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildStorage(cfg *config.Config, baseLogger *zap.Logger) (registerStorage, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		repo, err := mongocart.New(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDB, cfg.Storage.RegisterID)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := repo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}
		return repo, cleanup, nil
	default:
		repo, err := filecart.New(cfg.Storage.Dir, baseLogger.Named("repo.filecart"))
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}
}
