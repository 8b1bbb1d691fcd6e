package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/jobarch/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080

[log]
format = "json"
level = "debug"

[data]
profile_table = "profiles"
sections = ["Qualifications", "Skills"]

[data.tables.profiles]
key = "data/job_architecture.xlsx"
sheet = "Profiles"

[data.columns]
grade = "Grade"

[attachments]
dirs = ["ppts", "infographics"]
extensions = ["pptx", ".PDF"]

[storage]
provider = "filesystem"
root = "/srv/jobarch"

[api]
base_path = "/api"

[api.pagination]
default_page_size = 25
max_page_size = 50
`

const overlayConfig = `
[server]
port = 9090

[data.tables.grades]
key = "data/grades.csv"

[watch]
enabled = true
debounce = "1s"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)

	cfg, err := config.LoadFrom(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Log.Format != config.LogFormatJSON || cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Errorf("log: got %+v", cfg.Log)
	}
	if cfg.Storage.Root != "/srv/jobarch" {
		t.Errorf("storage root: got %s", cfg.Storage.Root)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 || cfg.API.Pagination.MaxPageSize != 50 {
		t.Errorf("pagination: got %+v", cfg.API.Pagination)
	}

	src := cfg.Data.Sources()["profiles"]
	if src.Key != "data/job_architecture.xlsx" || src.Sheet != "Profiles" {
		t.Errorf("profiles source: got %+v", src)
	}
	if cfg.Data.Columns.Grade != "Grade" || cfg.Data.Columns.Family != "Job Family" {
		t.Errorf("columns: got %+v", cfg.Data.Columns)
	}
	if !slices.Equal(cfg.Data.Sections, []string{"Qualifications", "Skills"}) {
		t.Errorf("sections: got %v", cfg.Data.Sections)
	}
	if !slices.Equal(cfg.Attachments.Extensions, []string{".pptx", ".pdf"}) {
		t.Errorf("extensions: got %v", cfg.Attachments.Extensions)
	}
	if cfg.Watch.Enabled {
		t.Error("watch should be disabled by default")
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)

	t.Setenv("JOBARCH_ENV", "staging")

	cfg, err := config.LoadFrom(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server host: got %s, want 0.0.0.0 (from base)", cfg.Server.Host)
	}
	if len(cfg.Data.Tables) != 2 {
		t.Errorf("tables: got %v, want base and overlay merged", cfg.Data.Tables)
	}
	if cfg.Data.Tables["profiles"].Sheet != "Profiles" {
		t.Errorf("profiles sheet lost in merge: %+v", cfg.Data.Tables["profiles"])
	}
	if !cfg.Watch.Enabled || cfg.Watch.DebounceDuration() != time.Second {
		t.Errorf("watch: got %+v", cfg.Watch)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)

	t.Setenv("JOBARCH_VERSION", "2.0.0")
	t.Setenv("JOBARCH_SERVER_PORT", "3000")
	t.Setenv("JOBARCH_DATA_PROFILE_KEY", "data/override.csv")
	t.Setenv("JOBARCH_ATTACHMENTS_DIRS", "decks, archive ,")
	t.Setenv("JOBARCH_PAGINATION_DEFAULT_PAGE_SIZE", "10")

	cfg, err := config.LoadFrom(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if key := cfg.Data.Tables["profiles"].Key; key != "data/override.csv" {
		t.Errorf("profile key: got %s", key)
	}
	if !slices.Equal(cfg.Attachments.Dirs, []string{"decks", "archive"}) {
		t.Errorf("dirs: got %v", cfg.Attachments.Dirs)
	}
	if cfg.API.Pagination.DefaultPageSize != 10 {
		t.Errorf("page size: got %d, want 10", cfg.API.Pagination.DefaultPageSize)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	cfg, err := config.LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr: got %s", cfg.Server.Addr())
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("shutdown timeout: got %v", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Storage.Provider != "filesystem" {
		t.Errorf("storage provider: got %s", cfg.Storage.Provider)
	}
	if cfg.Data.Tables["profiles"].Key != "data/job_architecture.xlsx" {
		t.Errorf("default profile table: got %+v", cfg.Data.Tables)
	}
	if len(cfg.Data.Sections) != 10 {
		t.Errorf("sections: got %d, want 10", len(cfg.Data.Sections))
	}
	if !slices.Equal(cfg.Attachments.Dirs, []string{"ppts"}) {
		t.Errorf("dirs: got %v", cfg.Attachments.Dirs)
	}
	if cfg.Attachments.MaxPreviewBytes() != 50*1024*1024 {
		t.Errorf("max preview: got %d", cfg.Attachments.MaxPreviewBytes())
	}
	if cfg.API.SearchLimit != 20 {
		t.Errorf("search limit: got %d", cfg.API.SearchLimit)
	}
	if cfg.Auth.Enabled {
		t.Error("auth should be disabled by default")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{"malformed toml", `server = {`, "parse config"},
		{"invalid port", "[server]\nport = 99999", "invalid port"},
		{"invalid log level", "[log]\nlevel = \"loud\"", "invalid level"},
		{"invalid log format", "[log]\nformat = \"xml\"", "invalid format"},
		{"table without key", "[data.tables.grades]\nsheet = \"Grades\"", "key required"},
		{"auth without issuer", "[auth]\nenabled = true", "issuer_url"},
		{"bad debounce", "[watch]\ndebounce = \"soon\"", "invalid debounce"},
		{"azure without credentials", "[storage]\nprovider = \"azure\"", "connection_string or account_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.config)

			_, err := config.LoadFrom(dir)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
