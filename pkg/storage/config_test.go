package storage_test

import (
	"testing"

	"github.com/JaimeStill/redline/pkg/storage"
)

var testEnv = &storage.Env{
	Provider:         "TEST_STORAGE_PROVIDER",
	Path:             "TEST_STORAGE_PATH",
	ContainerName:    "TEST_STORAGE_CONTAINER_NAME",
	ConnectionString: "TEST_STORAGE_CONNECTION_STRING",
	ServiceURL:       "TEST_STORAGE_SERVICE_URL",
}

func TestConfigDefaults(t *testing.T) {
	cfg := &storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Provider != storage.ProviderLocal {
		t.Errorf("Provider = %s, want local", cfg.Provider)
	}
	if cfg.Path == "" {
		t.Error("Path should default to a temp directory")
	}
	if cfg.ContainerName != "uploads" {
		t.Errorf("ContainerName = %s, want uploads", cfg.ContainerName)
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("TEST_STORAGE_PROVIDER", "azure")
	t.Setenv("TEST_STORAGE_CONTAINER_NAME", "contracts")
	t.Setenv("TEST_STORAGE_SERVICE_URL", "https://acct.blob.core.windows.net/")

	cfg := &storage.Config{}
	if err := cfg.Finalize(testEnv); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Provider != storage.ProviderAzure {
		t.Errorf("Provider = %s, want azure", cfg.Provider)
	}
	if cfg.ContainerName != "contracts" {
		t.Errorf("ContainerName = %s, want contracts", cfg.ContainerName)
	}
	if cfg.ServiceURL != "https://acct.blob.core.windows.net/" {
		t.Errorf("ServiceURL = %s", cfg.ServiceURL)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr bool
	}{
		{"local defaults", storage.Config{}, false},
		{"azure without credentials", storage.Config{Provider: storage.ProviderAzure}, true},
		{"azure with connection string", storage.Config{Provider: storage.ProviderAzure, ConnectionString: azuriteConnString}, false},
		{"azure with service url", storage.Config{Provider: storage.ProviderAzure, ServiceURL: "https://acct.blob.core.windows.net/"}, false},
		{"unknown provider", storage.Config{Provider: "ftp"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := &storage.Config{Provider: "local", Path: "/tmp/a", ContainerName: "uploads"}
	base.Merge(&storage.Config{Path: "/tmp/b"})

	if base.Path != "/tmp/b" {
		t.Errorf("Path = %s, want /tmp/b", base.Path)
	}
	if base.Provider != "local" {
		t.Errorf("Provider = %s, want local", base.Provider)
	}
}
