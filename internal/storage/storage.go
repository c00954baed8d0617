package storage

import (
	"context"
	"io"
	"log/slog"

	"github.com/ataredge/tutorhub/internal/config"
)

// Storage stores tutor photos and other public uploads.
type Storage interface {
	Save(ctx context.Context, path string, r io.Reader) error
	Delete(ctx context.Context, path string) error
	// URL returns a browser-reachable URL for path.
	URL(path string) string
}

// New returns S3 storage when a bucket is configured, local disk otherwise.
func New(c *config.Config) (Storage, error) {
	if c.S3Bucket == "" {
		slog.Info("initializing local storage", "dir", c.UploadsDir)
		return NewLocalStorage(c.UploadsDir, c.UploadsPrefix)
	}

	slog.Info("initializing S3 storage",
		"bucket", c.S3Bucket,
		"region", c.S3Region,
		"endpoint", c.S3Endpoint,
	)
	return NewS3Storage(context.Background(), S3Config{
		Region:    c.S3Region,
		Bucket:    c.S3Bucket,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Endpoint:  c.S3Endpoint,
		PublicURL: c.S3PublicURL,
		URLExpiry: c.S3PresignTTL,
	})
}
