package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string

	// Local store (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Media file store
	MediaDir string

	// Fixed local user until sign-in hands us a real one
	UserID string

	// Trip-country upsert behavior: "replace" (last write wins) or
	// "earliest" (keep the minimum first visit date)
	TripCountryConflict string

	// Sync
	SyncTimeout time.Duration

	// Observability (optional)
	SentryDSN string

	// Remote storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, Supabase Storage, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName: envString("APP_NAME", "Tabiroku"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/tabiroku.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		MediaDir: envString("MEDIA_DIR", "./data/media"),

		UserID: envString("USER_ID", "default_user"),

		TripCountryConflict: envString("TRIP_COUNTRY_CONFLICT", "replace"),

		SyncTimeout: envDuration("SYNC_TIMEOUT", 5*time.Minute),

		SentryDSN: envString("SENTRY_DSN", ""),

		// Remote storage (required - carries both media blobs and record rows)
		S3Region:    envRequired("S3_REGION"),
		S3Bucket:    envRequired("S3_BUCKET"),
		S3AccessKey: envRequired("S3_ACCESS_KEY"),
		S3SecretKey: envRequired("S3_SECRET_KEY"),
		S3Endpoint:  envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
	}

	if cfg.TripCountryConflict != "replace" && cfg.TripCountryConflict != "earliest" {
		slog.Warn("config invalid TRIP_COUNTRY_CONFLICT, using replace", "value", cfg.TripCountryConflict)
		cfg.TripCountryConflict = "replace"
	}

	return cfg
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
