package app

import (
	"context"
	"fmt"

	"github.com/g0c0de0rd1e/audiomagister/internal/server/config"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/filestore"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/storage"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/storage/postgres"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/storage/sqlite"
)

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Driver() {
	case config.DriverPostgres:
		st, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres storage: %w", err)
		}
		return st, nil
	case config.DriverSQLite:
		st, err := sqlite.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver())
	}
}

func openBlobs(ctx context.Context, cfg *config.Config) (filestore.Store, error) {
	switch cfg.BlobBackend {
	case config.BlobS3:
		blobs, err := filestore.NewS3Store(ctx, filestore.S3Config{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			Bucket:       cfg.S3.Bucket,
			Prefix:       cfg.S3.Prefix,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 blob store: %w", err)
		}
		return blobs, nil
	case config.BlobLocal:
		blobs, err := filestore.NewLocalStore(cfg.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create upload dir: %w", err)
		}
		return blobs, nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}
