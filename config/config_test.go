package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Store.Type != "redis" {
			t.Errorf("Store.Type = %s, want redis", cfg.Store.Type)
		}
		if cfg.Store.Address != "localhost:6379" {
			t.Errorf("Store.Address = %s, want localhost:6379", cfg.Store.Address)
		}
		if cfg.Search.Deadline != 2800*time.Millisecond {
			t.Errorf("Search.Deadline = %v, want 2.8s", cfg.Search.Deadline)
		}
		if cfg.Search.StatusTTL != 5*time.Minute {
			t.Errorf("Search.StatusTTL = %v, want 5m", cfg.Search.StatusTTL)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		t.Setenv("WAFFAR_SERVER_PORT", "9090")
		t.Setenv("WAFFAR_SERVER_ENVIRONMENT", "production")
		t.Setenv("WAFFAR_STORE_TYPE", "memory")
		t.Setenv("WAFFAR_SEARCH_DEADLINE", "1s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Store.Type != "memory" {
			t.Errorf("Store.Type = %s, want memory", cfg.Store.Type)
		}
		if cfg.Search.Deadline != time.Second {
			t.Errorf("Search.Deadline = %v, want 1s", cfg.Search.Deadline)
		}
	})

	t.Run("rejects an unknown store type", func(t *testing.T) {
		t.Setenv("WAFFAR_STORE_TYPE", "cassandra")

		if _, err := Load(); err == nil {
			t.Fatal("Load() error = nil, want error for unknown store type")
		}
	})

	t.Run("rejects a non-positive search deadline", func(t *testing.T) {
		t.Setenv("WAFFAR_SEARCH_DEADLINE", "0s")

		if _, err := Load(); err == nil {
			t.Fatal("Load() error = nil, want error for zero deadline")
		}
	})
}
