package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/msomdec/storefront/internal/config"
)

const testSecret = "test-secret-that-is-at-least-32-characters-long"

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DatabasePath != "storefront.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.TokenTTL != 60*time.Minute {
		t.Errorf("TokenTTL = %v, want 60m", cfg.TokenTTL)
	}
	if !cfg.CookieSecure {
		t.Error("expected secure cookies by default")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.ImageBackend != config.ImageBackendLocal || cfg.CartBackend != config.CartBackendSQLite {
		t.Errorf("backends = %s/%s", cfg.ImageBackend, cfg.CartBackend)
	}
	if cfg.CartTTL != 720*time.Hour {
		t.Errorf("CartTTL = %v", cfg.CartTTL)
	}
	if cfg.MessagingNumber != "+917016254510" || cfg.CurrencySymbol != "₹" {
		t.Errorf("messaging = %q %q", cfg.MessagingNumber, cfg.CurrencySymbol)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("CART_BACKEND", "redis")
	t.Setenv("REDIS_DB", "2")

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "9000" || cfg.TokenTTL != 15*time.Minute || cfg.CookieSecure || cfg.BcryptCost != 4 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.CartBackend != config.CartBackendRedis || cfg.RedisDB != 2 {
		t.Errorf("redis settings = %s db %d", cfg.CartBackend, cfg.RedisDB)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}, "JWT_SECRET environment variable is required"},
		{"short secret", map[string]string{"JWT_SECRET": "short"}, "at least 32 characters"},
		{"bcrypt not a number", map[string]string{"BCRYPT_COST": "abc"}, "invalid BCRYPT_COST"},
		{"bcrypt too high", map[string]string{"BCRYPT_COST": "20"}, "between 4 and 14"},
		{"bad token ttl", map[string]string{"TOKEN_TTL": "soon"}, "invalid TOKEN_TTL"},
		{"zero token ttl", map[string]string{"TOKEN_TTL": "0s"}, "TOKEN_TTL must be positive"},
		{"unknown image backend", map[string]string{"IMAGE_BACKEND": "ftp"}, "unknown IMAGE_BACKEND"},
		{"minio without creds", map[string]string{"IMAGE_BACKEND": "minio"}, "requires MINIO_ENDPOINT"},
		{"unknown cart backend", map[string]string{"CART_BACKEND": "memcached"}, "unknown CART_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", testSecret)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.FromEnv()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
