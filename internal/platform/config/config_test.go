package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %s", cfg.Addr)
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Fatalf("expected default token ttl 12h, got %v", cfg.TokenTTL)
	}
	if cfg.LateClockInHour != 10 {
		t.Fatalf("expected default late hour 10, got %d", cfg.LateClockInHour)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()
	if cfg.Addr != ":9090" {
		t.Fatalf("expected addr :9090, got %s", cfg.Addr)
	}
	if cfg.RateLimitPerMinute != 5 {
		t.Fatalf("expected rate limit 5, got %d", cfg.RateLimitPerMinute)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MAX_BODY_BYTES", "not-a-number")
	t.Setenv("RUN_SEED", "maybe")

	cfg := Load()
	if cfg.MaxBodyBytes != 1048576 {
		t.Fatalf("expected fallback body limit, got %d", cfg.MaxBodyBytes)
	}
	if !cfg.RunSeed {
		t.Fatal("expected fallback RunSeed true")
	}
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.DatabaseURL = "postgres://localhost/ems"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	cfg.DatabaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}

	cfg.DatabaseURL = "postgres://localhost/ems"
	cfg.LateClockInHour = 24
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range late hour")
	}

	cfg = Load()
	cfg.DatabaseURL = "postgres://localhost/ems"
	cfg.Environment = "production"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty JWT secret in production")
	}
}
