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

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/commerce"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/importer"
	"storefront/internal/logging"
	"storefront/internal/mock"
	productrepo "storefront/internal/repository/product"
	"storefront/internal/session"
	"storefront/internal/storage"
	"storefront/internal/storefront"
)

const sweepInterval = 10 * time.Minute

func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var pool *pgxpool.Pool
	if cfg.DBConnString != "" {
		pool, err = db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatal("connect to db", zap.Error(err))
		}
		defer pool.Close()
	}

	store := cartStorage(cfg, pool, logger)
	products, err := mockCatalog(ctx, cfg, pool, logger)
	if err != nil {
		logger.Fatal("load mock catalog", zap.Error(err))
	}

	provider := storefront.NewProvider(nil, logger)
	remoteSource := func() catalog.Source {
		if c := provider.Client(config.CommerceFromEnv()); c != nil {
			return c
		}
		return nil
	}
	remoteCart := func(creds config.Commerce) cart.Backend {
		if c := provider.Client(creds); c != nil {
			return c
		}
		return nil
	}

	sessions := session.NewManager(cfg.SessionTTL, func(id string, notices cart.Notifier) *cart.Engine {
		sessionLogger := logger.With(zap.String("session", id))
		selector := cart.ConfiguredSelector(config.CommerceFromEnv, remoteCart, mock.New(products, sessionLogger))
		return cart.New(selector, cart.Options{
			Storage:    store,
			StorageKey: cfg.CartStorageKey + ":" + id,
			Notifier:   cart.Tee(notices, cart.NewLogNotifier(sessionLogger)),
			Logger:     sessionLogger,
		})
	}, logger)
	go sessions.RunSweeper(ctx, sweepInterval)

	var ready func(context.Context) error
	if p, ok := store.(storage.Pinger); ok {
		ready = p.Ping
	}

	if cfg.Commerce.Configured() {
		logger.Info("storefront api configured", zap.String("endpoint", storefront.Endpoint(cfg.Commerce.StoreDomain, cfg.Commerce.APIVersion)))
	} else {
		logger.Info("no storefront credentials, serving mock data")
	}

	srv := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Sessions:    sessions,
		Catalog:     catalog.NewService(remoteSource, mock.New(products, logger), logger),
		Ready:       ready,
		CORSOrigins: cfg.CORSOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

// cartStorage prefers postgres, then a JSON file, then memory.
func cartStorage(cfg config.Config, pool *pgxpool.Pool, logger *zap.Logger) storage.Storage {
	switch {
	case pool != nil:
		logger.Info("cart ids stored in postgres")
		return storage.NewPostgres(pool)
	case cfg.CartStoreFile != "":
		logger.Info("cart ids stored in file", zap.String("path", cfg.CartStoreFile))
		return storage.NewFile(cfg.CartStoreFile)
	default:
		logger.Info("cart ids kept in memory")
		return storage.NewMemory()
	}
}

// mockCatalog prefers a CSV file, then imported products in postgres, then
// the built-in demo catalog.
func mockCatalog(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, logger *zap.Logger) ([]commerce.Product, error) {
	if cfg.MockCatalogFile != "" {
		f, err := os.Open(cfg.MockCatalogFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		products, err := importer.Load(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.MockCatalogFile, err)
		}
		logger.Info("mock catalog loaded from csv", zap.Int("products", len(products)))
		return products, nil
	}
	if pool != nil {
		products, err := productrepo.NewPostgres(pool, logger).List(ctx)
		if err != nil {
			logger.Warn("imported catalog unavailable, using demo catalog", zap.Error(err))
		} else if len(products) > 0 {
			logger.Info("mock catalog loaded from postgres", zap.Int("products", len(products)))
			return products, nil
		}
	}
	return mock.DefaultCatalog(), nil
}
