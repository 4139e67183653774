// Package content selects where uploaded bytes and thumbnails are kept.
package content

import (
	"context"
	"fmt"

	"github.com/go-files-api/internal/config"
	"github.com/go-files-api/internal/infrastructure/disk"
	s3infra "github.com/go-files-api/internal/infrastructure/s3"
)

// Store reads and writes content by path.
type Store interface {
	Write(ctx context.Context, path string, data []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, path string) error
}

// Open returns the store selected by cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case config.StorageLocal:
		return disk.NewStore(), nil
	case config.StorageS3:
		client, err := s3infra.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s3infra.NewStore(client, cfg.S3BucketName), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
