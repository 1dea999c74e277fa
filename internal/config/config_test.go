package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsAndEnvOverrides(t *testing.T) {
	t.Setenv("TASKHIVE_JWT_SECRET", "test-secret")
	t.Setenv("TASKHIVE_ADDR", ":9090")
	t.Setenv("TASKHIVE_ACCESS_TTL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Fatalf("unexpected secret: %s", cfg.JWTSecret)
	}
	if cfg.AccessTTL != 5*time.Minute {
		t.Fatalf("unexpected access ttl: %s", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("unexpected refresh ttl: %s", cfg.RefreshTTL)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("TASKHIVE_JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without jwt secret")
	}
}
