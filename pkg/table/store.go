package table

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/JaimeStill/jobarch/pkg/cache"
	"github.com/JaimeStill/jobarch/pkg/storage"
)

// Source binds a logical table name to a storage key and sheet.
type Source struct {
	Key   string
	Sheet string
}

// LoadObserver receives the outcome of every load that reaches storage.
type LoadObserver func(name string, err error)

// Store loads named tables from storage through a read-through cache keyed by
// the storage URI of each source.
type Store struct {
	storage storage.System
	cache   *cache.Cache[*Table]
	sources map[string]Source
	logger  *slog.Logger
	observe LoadObserver
}

// NewStore creates a Store over the given sources.
func NewStore(
	store storage.System,
	c *cache.Cache[*Table],
	sources map[string]Source,
	logger *slog.Logger,
) *Store {
	return &Store{
		storage: store,
		cache:   c,
		sources: sources,
		logger:  logger.With("system", "tables"),
	}
}

// OnLoad registers an observer for storage loads.
func (s *Store) OnLoad(fn LoadObserver) {
	s.observe = fn
}

// Names returns the configured table names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.sources))
	for n := range s.sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// URI returns the cache identity of the named table.
func (s *Store) URI(name string) (string, error) {
	src, ok := s.sources[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	return s.storage.URI(src.Key), nil
}

// Get returns the named table, loading it on first use. Required columns are checked
// on every call so callers with different requirements share one cached table.
func (s *Store) Get(ctx context.Context, name string, required ...string) (*Table, error) {
	src, ok := s.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}

	t, err := s.cache.Get(s.storage.URI(src.Key), func(uri string) (*Table, error) {
		t, err := s.load(context.WithoutCancel(ctx), name, src)
		if s.observe != nil {
			s.observe(name, err)
		}
		return t, err
	})
	if err != nil {
		return nil, err
	}

	if err := t.Require(required...); err != nil {
		return nil, err
	}
	return t, nil
}

// Invalidate drops the cached table stored at uri.
func (s *Store) Invalidate(uri string) bool {
	if s.cache.Invalidate(uri) {
		s.logger.Info("table invalidated", "uri", uri)
		return true
	}
	return false
}

// Clear drops every cached table.
func (s *Store) Clear() {
	s.cache.Clear()
	s.logger.Info("table cache cleared")
}

// Stats reports cache activity.
func (s *Store) Stats() cache.Stats {
	return s.cache.Stats()
}

func (s *Store) load(ctx context.Context, name string, src Source) (*Table, error) {
	res, err := s.storage.Download(ctx, src.Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &LoadError{Path: src.Key, Err: ErrFileNotFound}
		}
		return nil, &LoadError{Path: src.Key, Err: err}
	}
	defer res.Body.Close()

	t, err := Reader{Sheet: src.Sheet}.Read(src.Key, res.Body)
	if err != nil {
		s.logger.Warn("table load failed", "table", name, "key", src.Key, "error", err)
		return nil, err
	}

	t.Name = name
	s.logger.Info("table loaded", "table", name, "key", src.Key, "rows", t.Len())
	return t, nil
}
