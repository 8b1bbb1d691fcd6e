// Package storage provides read access to spreadsheet and attachment files held
// either on the local filesystem or in Azure Blob Storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/JaimeStill/jobarch/pkg/lifecycle"
)

// BlobMeta describes a stored file without its content.
type BlobMeta struct {
	Key           string    `json:"key"`
	ContentType   string    `json:"content_type"`
	ContentLength int64     `json:"content_length"`
	LastModified  time.Time `json:"last_modified"`
}

// BlobResult is an open file stream with its metadata. The caller must close Body.
type BlobResult struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// System manages read-only file access and lifecycle coordination.
type System interface {
	// Start registers startup hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
	// List returns metadata for every file under prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]BlobMeta, error)
	// Find returns metadata for the file at key. Returns ErrNotFound if absent.
	Find(ctx context.Context, key string) (*BlobMeta, error)
	// Download opens the file at key. Returns ErrNotFound if absent.
	Download(ctx context.Context, key string) (*BlobResult, error)
	// Exists reports whether a file exists at key.
	Exists(ctx context.Context, key string) (bool, error)
	// URI returns the canonical location of key, used as a cache identity.
	// For the filesystem provider this is the absolute path.
	URI(key string) string
	// Provider names the backing implementation.
	Provider() string
}

// New creates the storage system selected by cfg.Provider.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	switch cfg.Provider {
	case ProviderFilesystem:
		return newFilesystem(cfg, logger)
	case ProviderAzure:
		return newAzure(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}

// CleanKey validates key and returns it in slash-separated, cleaned form.
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	key = strings.ReplaceAll(key, "\\", "/")
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" {
		return "", ErrEmptyKey
	}
	return cleaned, nil
}

// CleanPrefix normalizes a listing prefix. An empty prefix lists everything.
func CleanPrefix(prefix string) (string, error) {
	if strings.TrimSpace(prefix) == "" || prefix == "." || prefix == "/" {
		return "", nil
	}
	key, err := CleanKey(prefix)
	if err != nil {
		return "", err
	}
	return key + "/", nil
}
