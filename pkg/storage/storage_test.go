package storage_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/jobarch/pkg/lifecycle"
	"github.com/JaimeStill/jobarch/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFilesystem(t *testing.T) (storage.System, string) {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"data/profiles.csv":        "Job Family\nEngineering\n",
		"ppts/Engineer.pptx":       "deck",
		"ppts/finance/Analyst.pdf": "%PDF-1.4",
		"ppts/.hidden":             "skip",
		"ppts/~$Engineer.pptx":     "lock",
	}
	for key, body := range files {
		full := filepath.Join(root, filepath.FromSlash(key))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	sys, err := storage.New(&storage.Config{Provider: storage.ProviderFilesystem, Root: root}, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return sys, root
}

func TestNewAzure(t *testing.T) {
	cfg := &storage.Config{
		Provider:         storage.ProviderAzure,
		ContainerName:    "job-architecture",
		ConnectionString: azuriteConnString,
	}

	sys, err := storage.New(cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sys.Provider() != storage.ProviderAzure {
		t.Errorf("Provider() = %s", sys.Provider())
	}
	if got := sys.URI("/data/profiles.csv"); !strings.HasSuffix(got, "/job-architecture/data/profiles.csv") {
		t.Errorf("URI() = %s", got)
	}
}

func TestNewAzureInvalidConnectionString(t *testing.T) {
	cfg := &storage.Config{
		Provider:         storage.ProviderAzure,
		ContainerName:    "job-architecture",
		ConnectionString: "not-a-connection-string",
	}

	if _, err := storage.New(cfg, discard()); err == nil {
		t.Fatal("expected error for invalid connection string, got nil")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := storage.New(&storage.Config{Provider: "s3"}, discard()); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestFilesystemList(t *testing.T) {
	sys, _ := newFilesystem(t)
	ctx := context.Background()

	metas, err := sys.List(ctx, "ppts")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []string{"ppts/Engineer.pptx", "ppts/finance/Analyst.pdf"}
	if len(metas) != len(want) {
		t.Fatalf("List() = %v, want %v", metas, want)
	}
	for i, key := range want {
		if metas[i].Key != key {
			t.Errorf("metas[%d].Key = %s, want %s", i, metas[i].Key, key)
		}
	}
	if metas[1].ContentType != "application/pdf" {
		t.Errorf("pdf content type = %s", metas[1].ContentType)
	}

	_, err = sys.List(ctx, "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("List(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFilesystemFindAndDownload(t *testing.T) {
	sys, root := newFilesystem(t)
	ctx := context.Background()

	meta, err := sys.Find(ctx, "data/profiles.csv")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if meta.ContentLength != int64(len("Job Family\nEngineering\n")) {
		t.Errorf("ContentLength = %d", meta.ContentLength)
	}

	res, err := sys.Download(ctx, "data/profiles.csv")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "Job Family\nEngineering\n" {
		t.Errorf("body = %q", body)
	}

	if _, err := sys.Download(ctx, "data/nope.csv"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Download(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := sys.Find(ctx, "data"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Find(dir) error = %v, want ErrNotFound", err)
	}

	if got, want := sys.URI("data/profiles.csv"), filepath.Join(root, "data", "profiles.csv"); got != want {
		t.Errorf("URI() = %s, want %s", got, want)
	}
}

func TestFilesystemExists(t *testing.T) {
	sys, _ := newFilesystem(t)
	ctx := context.Background()

	ok, err := sys.Exists(ctx, "ppts/Engineer.pptx")
	if err != nil || !ok {
		t.Errorf("Exists(present) = %v, %v", ok, err)
	}
	ok, err = sys.Exists(ctx, "ppts/Nobody.pptx")
	if err != nil || ok {
		t.Errorf("Exists(absent) = %v, %v", ok, err)
	}
	if _, err := sys.Exists(ctx, "../etc/passwd"); !errors.Is(err, storage.ErrInvalidKey) {
		t.Errorf("Exists(traversal) error = %v, want ErrInvalidKey", err)
	}
}

func TestFilesystemStart(t *testing.T) {
	sys, _ := newFilesystem(t)
	lc := lifecycle.New()

	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	lc.WaitForStartup()
	if !lc.Ready() {
		t.Error("coordinator should be ready after startup")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", storage.ErrNotFound, http.StatusNotFound},
		{"empty key", storage.ErrEmptyKey, http.StatusBadRequest},
		{"invalid key", storage.ErrInvalidKey, http.StatusBadRequest},
		{"unavailable", fmt.Errorf("download: %w: %w", storage.ErrUnavailable, errors.New("dial tcp")), http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storage.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr error
	}{
		{"data/profiles.csv", "data/profiles.csv", nil},
		{"/data//profiles.csv", "data/profiles.csv", nil},
		{`ppts\Engineer.pptx`, "ppts/Engineer.pptx", nil},
		{"", "", storage.ErrEmptyKey},
		{"   ", "", storage.ErrEmptyKey},
		{"/", "", storage.ErrEmptyKey},
		{"../secret", "", storage.ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := storage.CleanKey(tt.key)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CleanKey(%q) error = %v, want %v", tt.key, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CleanKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestCleanPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", ""},
		{".", ""},
		{"/", ""},
		{"ppts", "ppts/"},
		{"ppts/", "ppts/"},
	}

	for _, tt := range tests {
		got, err := storage.CleanPrefix(tt.prefix)
		if err != nil {
			t.Fatalf("CleanPrefix(%q) error = %v", tt.prefix, err)
		}
		if got != tt.want {
			t.Errorf("CleanPrefix(%q) = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}
