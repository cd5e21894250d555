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

	"go.uber.org/zap"

	"github.com/shelfmatch/backend/config"
	httpDelivery "github.com/shelfmatch/backend/internal/delivery/http"
	"github.com/shelfmatch/backend/internal/infrastructure/cache"
	"github.com/shelfmatch/backend/internal/infrastructure/catalog"
	"github.com/shelfmatch/backend/internal/logger"
	"github.com/shelfmatch/backend/internal/usecase"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zl.Info("starting ShelfMatch backend",
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()

	repo, closeCatalog, err := catalog.Open(ctx, cfg.Catalog, cfg.RateLimit.Catalog, cfg.Server.Environment == "development", zl)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer func() {
		if err := closeCatalog(); err != nil {
			zl.Warn("closing catalog", zap.Error(err))
		}
	}()

	// Initialize usecase layer
	service, err := usecase.NewMatchmakingService(memoryCache, repo, usecase.MatchmakingServiceConfig{
		CatalogTTL: cfg.Cache.TTL,
		Weights: usecase.Weights{
			CatalogPrior:  cfg.Matching.Weights.CatalogPrior,
			Alignment:     cfg.Matching.Weights.Alignment,
			Certification: cfg.Matching.Weights.Certification,
		},
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	}, zl)
	if err != nil {
		return fmt.Errorf("building matchmaking service: %w", err)
	}

	w := service.Engine().Weights()
	zl.Info("matching configured",
		zap.Float64("w_catalog_prior", w.CatalogPrior),
		zap.Float64("w_alignment", w.Alignment),
		zap.Float64("w_certification", w.Certification),
		zap.Duration("catalog_ttl", cfg.Cache.TTL),
	)

	// Create HTTP handler with dependencies
	metrics := httpDelivery.NewMetrics()
	handler := httpDelivery.NewHandler(service, metrics, zl)
	handler.SetRequestTimeout(cfg.Server.RequestTimeout)

	router := httpDelivery.SetupRouter(cfg, handler, metrics, zl)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
