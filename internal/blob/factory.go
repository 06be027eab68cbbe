package blob

import (
	"context"
	"fmt"

	"modelshare/internal/config"
)

// Open selects a blob.Store implementation from configuration. The config
// layer already folds in the environment:
//
//	MODELSHARE_BLOB_DRIVER: fs|s3|memory (default fs)
//	MODELSHARE_BLOB_FS_ROOT: directory root when driver=fs (default ./blobdata)
//	MODELSHARE_BLOB_BASE_URL: URL prefix for fs objects
//	MODELSHARE_BLOB_S3_*: see internal/infra/blob/s3
func Open(ctx context.Context, cfg config.BlobConfig) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(cfg.FSRoot, cfg.BaseURL)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
			URLExpiry:       cfg.S3.URLExpiry,
		})
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
