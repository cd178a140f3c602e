// Package app wires configuration into the catalog engine, repository,
// cache and HTTP server shared by the api binary and the gountain CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gountain/catalog/internal/cache"
	"github.com/gountain/catalog/internal/catalog"
	"github.com/gountain/catalog/internal/config"
	httpapi "github.com/gountain/catalog/internal/http"
	"github.com/gountain/catalog/internal/storage"
)

const cachePrefix = "gountain:"

// Palette loads the configured marker palette, falling back to the
// built-in colours when no file is set or it cannot be read.
func Palette(cfg *config.Config, log *zap.Logger) catalog.Palette {
	if cfg.Data.PalettePath == "" {
		return catalog.DefaultPalette()
	}
	p, err := catalog.LoadPaletteFromFile(cfg.Data.PalettePath)
	if err != nil {
		log.Warn("use default palette", zap.String("path", cfg.Data.PalettePath), zap.Error(err))
	}
	return p
}

// OpenRepository returns the SQLite-backed repository when a database path
// is configured, seeding an empty database from the JSON catalog, and an
// in-memory repository over the JSON catalog otherwise. The returned close
// func is never nil.
func OpenRepository(ctx context.Context, cfg *config.Config, engine *catalog.Engine, log *zap.Logger) (httpapi.Repository, func() error, error) {
	noop := func() error { return nil }

	if cfg.Data.SQLitePath == "" {
		items, err := storage.LoadDestinationsFromFile(cfg.Data.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("load destinations: %w", err)
		}
		log.Info("catalog loaded", zap.String("path", cfg.Data.Path), zap.Int("destinations", len(items)))
		return httpapi.NewMemoryRepo(engine, items), noop, nil
	}

	store, err := storage.OpenSQLite(cfg.Data.SQLitePath)
	if err != nil {
		return nil, noop, fmt.Errorf("open sqlite: %w", err)
	}
	if err := seed(ctx, store, cfg.Data.Path, log); err != nil {
		_ = store.Close()
		return nil, noop, err
	}
	return &httpapi.SQLiteRepo{Store: store}, store.Close, nil
}

func seed(ctx context.Context, store *storage.SQLiteStore, path string, log *zap.Logger) error {
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	n, err := store.CountDestinations(ctx)
	if err != nil {
		return fmt.Errorf("count destinations: %w", err)
	}
	if n > 0 || path == "" {
		log.Info("catalog database ready", zap.Int("destinations", n))
		return nil
	}

	items, err := storage.LoadDestinationsFromFile(path)
	if err != nil {
		return fmt.Errorf("load seed destinations: %w", err)
	}
	if err := store.UpsertMany(ctx, items); err != nil {
		return fmt.Errorf("seed destinations: %w", err)
	}
	log.Info("catalog database seeded", zap.String("path", path), zap.Int("destinations", len(items)))
	return nil
}

// OpenCache connects to Redis when an address is configured. Connection
// failures degrade to an uncached server rather than aborting startup.
func OpenCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (cache.Cache, func() error) {
	if cfg.Redis.Address == "" {
		return cache.NopCache{}, func() error { return nil }
	}
	client, err := cache.Dial(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn("redis unavailable, serving uncached", zap.String("address", cfg.Redis.Address), zap.Error(err))
		return cache.NopCache{}, func() error { return nil }
	}
	log.Info("redis cache enabled", zap.String("address", cfg.Redis.Address), zap.Duration("ttl", cfg.Redis.TTL))
	return cache.NewRedisCache(client, cachePrefix, cfg.Redis.TTL), client.Close
}

// Serve runs the HTTP API until ctx is cancelled, then shuts it down
// gracefully.
func Serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	engine := catalog.NewEngine(Palette(cfg, log))

	repo, closeRepo, err := OpenRepository(ctx, cfg, engine, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	c, closeCache := OpenCache(ctx, cfg, log)
	defer closeCache()

	srv := httpapi.NewServer(engine, repo)
	srv.Cache = c
	srv.Logger = log
	srv.Limiter = httpapi.NewLimiter(cfg.Server.RateLimit, cfg.Server.Burst)
	srv.MapboxToken = cfg.Mapbox.Token
	srv.BuildID = cfg.Build.ID

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", zap.String("addr", httpServer.Addr), zap.String("build", cfg.Build.ID))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
