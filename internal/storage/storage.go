package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	cfg "github.com/buildline/rfitrack/internal/config"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

var (
	ErrNotExist   = errors.New("file does not exist")
	ErrInvalidKey = errors.New("invalid storage key")
)

// Storage stores attachment files by key.
//
// Delete reports every failure (missing file included) as an error and never
// panics, so a caller removing many files can record the failure and move on.
type Storage interface {
	// Save stores a file under key
	Save(ctx context.Context, key string, file io.Reader) error

	// Delete removes the file stored under key
	Delete(ctx context.Context, key string) error

	// URL returns a URL for downloading the file
	URL(key string) string
}

// New creates the storage backend selected by STORAGE_DRIVER.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case DriverS3:
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:        c.S3Region,
			Bucket:        c.S3Bucket,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			Endpoint:      c.S3Endpoint,
			PresignExpiry: c.S3PresignExpiry,
		})
	case DriverLocal, "":
		slog.Info("initializing local storage", "dir", c.UploadDir)
		return NewLocalStorage(c.UploadDir, c.AppURL+"/uploads")
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}
