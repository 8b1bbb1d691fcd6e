// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, storage, caches, metrics, auth) that
// domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/JaimeStill/jobarch/internal/config"
	"github.com/JaimeStill/jobarch/pkg/cache"
	"github.com/JaimeStill/jobarch/pkg/lifecycle"
	"github.com/JaimeStill/jobarch/pkg/metrics"
	"github.com/JaimeStill/jobarch/pkg/middleware"
	"github.com/JaimeStill/jobarch/pkg/storage"
	"github.com/JaimeStill/jobarch/pkg/table"
	"github.com/JaimeStill/jobarch/pkg/watch"
)

// Infrastructure holds the core systems required by all domain modules.
// Tables and Listings are the only shared mutable state: read-through caches
// keyed by storage URI.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Storage   storage.System
	Metrics   *metrics.Metrics
	Tables    *table.Store
	Listings  *cache.Cache[[]storage.BlobMeta]
	Verifier  middleware.TokenVerifier
	Watcher   *watch.Watcher

	profilesLoaded atomic.Bool
}

// Scoped returns a copy sharing every system with i whose logger carries attrs.
// Readiness state stays with i.
func (i *Infrastructure) Scoped(attrs ...any) *Infrastructure {
	return &Infrastructure{
		Lifecycle: i.Lifecycle,
		Logger:    i.Logger.With(attrs...),
		Storage:   i.Storage,
		Metrics:   i.Metrics,
		Tables:    i.Tables,
		Listings:  i.Listings,
		Verifier:  i.Verifier,
		Watcher:   i.Watcher,
	}
}

// NewLogger builds the slog logger selected by cfg.
func NewLogger(cfg *config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, NewLogger(&cfg.Log, os.Stderr))
}

// NewWithLogger is New with an explicit logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Storage:   store,
		Metrics:   metrics.New(),
		Tables: table.NewStore(
			store,
			cache.New[*table.Table](),
			cfg.Data.Sources(),
			logger,
		),
		Listings: cache.New[[]storage.BlobMeta](),
	}

	profileTable := cfg.Data.ProfileTable
	infra.Tables.OnLoad(func(name string, err error) {
		infra.Metrics.ObserveLoad(name, err)
		if name == profileTable {
			infra.profilesLoaded.Store(err == nil)
		}
	})
	infra.Metrics.RegisterCache("tables", infra.Tables.Stats)
	infra.Metrics.RegisterCache("listings", infra.Listings.Stats)

	if cfg.Auth.Enabled {
		verifier, err := middleware.NewOIDCVerifier(
			context.Background(),
			cfg.Auth.IssuerURL,
			cfg.Auth.ClientID,
		)
		if err != nil {
			return nil, fmt.Errorf("auth init failed: %w", err)
		}
		infra.Verifier = verifier
	}

	if cfg.Watch.Enabled {
		if store.Provider() != storage.ProviderFilesystem {
			logger.Warn("file watching requires filesystem storage", "provider", store.Provider())
		} else {
			w, err := watch.New(
				infra.watchDirs(cfg),
				cfg.Watch.DebounceDuration(),
				infra.Invalidate,
				logger,
			)
			if err != nil {
				return nil, fmt.Errorf("watch init failed: %w", err)
			}
			infra.Watcher = w
		}
	}

	return infra, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// The profile table is loaded once at startup to warm the cache; a failed load
// leaves the service running and reports the "tables" check as not ready.
func (i *Infrastructure) Start(profileTable string) error {
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}

	if i.Watcher != nil {
		if err := i.Watcher.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("watch start failed: %w", err)
		}
	}

	i.Lifecycle.Check("tables", lifecycle.ReadinessFunc(i.profilesLoaded.Load))
	i.Lifecycle.OnStartup(func() {
		if _, err := i.Tables.Get(i.Lifecycle.Context(), profileTable); err != nil {
			i.Logger.Warn("profile table unavailable", "table", profileTable, "error", err)
		}
	})
	return nil
}

// Invalidate drops every cached entry affected by a change at path: the table
// stored at path and any listing whose directory contains it.
func (i *Infrastructure) Invalidate(path string) {
	i.Tables.Invalidate(path)

	for _, dir := range i.Listings.Keys() {
		if strings.HasPrefix(path, dir+string(filepath.Separator)) {
			if i.Listings.Invalidate(dir) {
				i.Logger.Info("listing invalidated", "dir", dir, "path", path)
			}
		}
	}
}

// ClearCaches drops every cached table and listing.
func (i *Infrastructure) ClearCaches() {
	i.Tables.Clear()
	i.Listings.Clear()
}

func (i *Infrastructure) watchDirs(cfg *config.Config) []string {
	var dirs []string
	for _, name := range i.Tables.Names() {
		if uri, err := i.Tables.URI(name); err == nil {
			dirs = append(dirs, filepath.Dir(uri))
		}
	}
	for _, d := range cfg.Attachments.Dirs {
		dirs = append(dirs, i.Storage.URI(d))
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}
