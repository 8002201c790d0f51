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
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string
	AutoMigrate  bool // Run goose migrations on startup

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Observability (optional)
	SentryDSN string

	// Attachment storage: "local" (upload directory) or "s3"
	StorageDriver string
	UploadDir     string

	// S3-compatible storage (MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string        // Optional: for S3-compatible services
	S3PresignExpiry time.Duration // Expiry for attachment download links - default: 1 hour
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "RFI Tracker"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envString("APP_URL", "http://localhost:8090"),
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/rfitrack.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),
		AutoMigrate:  envBool("DB_AUTO_MIGRATE", true),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 12*time.Hour),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		StorageDriver: envString("STORAGE_DRIVER", "local"),
		UploadDir:     envString("UPLOAD_DIR", "./data/uploads"),

		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),
	}

	if cfg.StorageDriver == "s3" {
		validateS3(cfg)
	}

	return cfg
}

// validateS3 makes the S3 settings required once the s3 driver is selected.
func validateS3(cfg *Config) {
	if cfg.S3Region == "" || cfg.S3Bucket == "" {
		slog.Error("STORAGE_DRIVER=s3 requires S3_REGION and S3_BUCKET",
			"hint", "set STORAGE_DRIVER=local to keep attachments on disk")
		os.Exit(1)
	}
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
