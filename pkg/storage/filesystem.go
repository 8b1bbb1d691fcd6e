package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/JaimeStill/jobarch/pkg/lifecycle"
)

type filesystem struct {
	root   string
	logger *slog.Logger
}

func newFilesystem(cfg *Config, logger *slog.Logger) (System, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	return &filesystem{
		root:   root,
		logger: logger.With("system", "storage", "provider", ProviderFilesystem),
	}, nil
}

func (s *filesystem) Provider() string {
	return ProviderFilesystem
}

func (s *filesystem) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting storage system", "root", s.root)

	lc.OnStartup(func() {
		info, err := os.Stat(s.root)
		if err != nil || !info.IsDir() {
			s.logger.Warn("storage root unavailable", "root", s.root, "error", err)
			return
		}
		s.logger.Info("storage root ready", "root", s.root)
	})

	return nil
}

func (s *filesystem) URI(key string) string {
	cleaned, err := CleanKey(key)
	if err != nil {
		return s.root
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned))
}

func (s *filesystem) List(ctx context.Context, prefix string) ([]BlobMeta, error) {
	p, err := CleanPrefix(prefix)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, filepath.FromSlash(strings.TrimSuffix(p, "/")))

	var metas []BlobMeta
	err = filepath.WalkDir(dir, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "~$") {
			return nil
		}

		rel, err := filepath.Rel(s.root, full)
		if err != nil {
			return err
		}

		meta, err := s.stat(filepath.ToSlash(rel), full)
		if err != nil {
			return err
		}
		metas = append(metas, *meta)
		return nil
	})

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("list %s: %w", prefix, ErrNotFound)
		}
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Key < metas[j].Key
	})
	return metas, nil
}

func (s *filesystem) Find(ctx context.Context, key string) (*BlobMeta, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	return s.stat(cleaned, s.URI(cleaned))
}

func (s *filesystem) Download(ctx context.Context, key string) (*BlobResult, error) {
	meta, err := s.Find(ctx, key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(s.URI(meta.Key))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}

	return &BlobResult{
		Body:          f,
		ContentType:   meta.ContentType,
		ContentLength: meta.ContentLength,
	}, nil
}

func (s *filesystem) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Find(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *filesystem) stat(key, full string) (*BlobMeta, error) {
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(full); err == nil {
		contentType = mt.String()
	}

	return &BlobMeta{
		Key:           key,
		ContentType:   contentType,
		ContentLength: info.Size(),
		LastModified:  info.ModTime().UTC(),
	}, nil
}
