// Package config reads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ImageBackendLocal  = "local"
	ImageBackendMinio  = "minio"
	ImageBackendSQLite = "sqlite"

	CartBackendSQLite = "sqlite"
	CartBackendRedis  = "redis"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port         string
	DatabasePath string
	JWTSecret    string
	TokenTTL     time.Duration
	CookieSecure bool
	BcryptCost   int

	ImageBackend   string
	ImageDir       string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	CartBackend   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CartTTL       time.Duration

	MessagingNumber string
	CurrencySymbol  string
}

// Load reads an optional .env file from the working directory and then
// builds the config from the process environment. Variables already set in
// the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else {
		slog.Info("loaded .env file")
	}
	return FromEnv()
}

// FromEnv builds and validates the config from environment variables.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:         envOrDefault("PORT", "8080"),
		DatabasePath: envOrDefault("DATABASE_PATH", "storefront.db"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		// Default to secure cookies; disable only for local development.
		CookieSecure: os.Getenv("COOKIE_SECURE") != "false",

		ImageBackend:   envOrDefault("IMAGE_BACKEND", ImageBackendLocal),
		ImageDir:       envOrDefault("IMAGE_DIR", "static/images"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    envOrDefault("MINIO_BUCKET", "product-images"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",

		CartBackend:   envOrDefault("CART_BACKEND", CartBackendSQLite),
		RedisAddr:     envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MessagingNumber: envOrDefault("MESSAGING_NUMBER", "+917016254510"),
		CurrencySymbol:  envOrDefault("CURRENCY_SYMBOL", "₹"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}

	var err error
	if cfg.BcryptCost, err = intOrDefault("BCRYPT_COST", 12); err != nil {
		return nil, err
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 14 {
		return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", cfg.BcryptCost)
	}
	if cfg.TokenTTL, err = durationOrDefault("TOKEN_TTL", 60*time.Minute); err != nil {
		return nil, err
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("TOKEN_TTL must be positive")
	}
	if cfg.RedisDB, err = intOrDefault("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.CartTTL, err = durationOrDefault("CART_TTL", 720*time.Hour); err != nil {
		return nil, err
	}

	switch cfg.ImageBackend {
	case ImageBackendLocal, ImageBackendSQLite:
	case ImageBackendMinio:
		if cfg.MinioEndpoint == "" || cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" {
			return nil, errors.New("IMAGE_BACKEND=minio requires MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY")
		}
	default:
		return nil, fmt.Errorf("unknown IMAGE_BACKEND %q", cfg.ImageBackend)
	}

	switch cfg.CartBackend {
	case CartBackendSQLite, CartBackendRedis:
	default:
		return nil, fmt.Errorf("unknown CART_BACKEND %q", cfg.CartBackend)
	}

	return cfg, nil
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func intOrDefault(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func durationOrDefault(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
