package storage_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/jobarch/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderFilesystem {
		t.Errorf("provider: got %s, want filesystem", cfg.Provider)
	}
	if cfg.Root != "." {
		t.Errorf("root: got %s, want .", cfg.Root)
	}
	if cfg.ContainerName != "job-architecture" {
		t.Errorf("container_name: got %s, want job-architecture", cfg.ContainerName)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "azure")
	t.Setenv("TEST_CONTAINER", "profiles")
	t.Setenv("TEST_ACCOUNT_URL", "https://example.blob.core.windows.net/")

	env := &storage.Env{
		Provider:      "TEST_PROVIDER",
		ContainerName: "TEST_CONTAINER",
		AccountURL:    "TEST_ACCOUNT_URL",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderAzure {
		t.Errorf("provider: got %s, want azure", cfg.Provider)
	}
	if cfg.ContainerName != "profiles" {
		t.Errorf("container_name: got %s, want profiles", cfg.ContainerName)
	}
	if cfg.AccountURL != "https://example.blob.core.windows.net/" {
		t.Errorf("account_url: got %s", cfg.AccountURL)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "azure without credentials",
			cfg:     storage.Config{Provider: storage.ProviderAzure},
			wantErr: "connection_string or account_url required",
		},
		{
			name:    "azure with connection string",
			cfg:     storage.Config{Provider: storage.ProviderAzure, ConnectionString: "conn"},
			wantErr: "",
		},
		{
			name:    "unknown provider",
			cfg:     storage.Config{Provider: "s3"},
			wantErr: "invalid provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		Provider: storage.ProviderFilesystem,
		Root:     "/srv/data",
	}

	base.Merge(&storage.Config{ContainerName: "overlay"})

	if base.Root != "/srv/data" {
		t.Errorf("root should remain /srv/data, got %s", base.Root)
	}
	if base.ContainerName != "overlay" {
		t.Errorf("container_name: got %s, want overlay", base.ContainerName)
	}
}
