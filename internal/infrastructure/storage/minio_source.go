package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/specterworks/storefront/internal/application/storefront"
	"github.com/specterworks/storefront/internal/infrastructure/config"
)

var _ storefront.AssetSource = (*MinIOAssetSource)(nil)

// MinIOAssetSource serves assets from a MinIO bucket.
type MinIOAssetSource struct {
	client    *minio.Client
	bucket    string
	keyPrefix string
}

// NewMinIOAssetSource creates a MinIO client for the configured bucket.
// The bucket is expected to exist; it is not created.
func NewMinIOAssetSource(cfg *config.AssetsConfig) (*MinIOAssetSource, error) {
	if cfg == nil {
		return nil, errors.New("assets configuration is required")
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("assets endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("assets bucket is required")
	}

	// MaxRetries counts attempts, so 1 disables retrying.
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:      credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:     cfg.UseSSL,
		Region:     cfg.Region,
		MaxRetries: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIOAssetSource{
		client:    client,
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// Open fetches the object for path. GetObject is lazy, so the object is
// stat'ed first to tell a missing key from a readable one.
func (s *MinIOAssetSource) Open(ctx context.Context, path string) (*storefront.Asset, error) {
	key, ok := objectKey(path)
	if !ok {
		return nil, storefront.ErrAssetNotFound
	}
	key = joinPrefix(s.keyPrefix, key)

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}

	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if isMinIONotFound(err) {
			return nil, storefront.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	contentType := info.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeFor(key)
	}

	return &storefront.Asset{
		Body:        obj,
		ContentType: contentType,
		Size:        info.Size,
		ModTime:     info.LastModified,
	}, nil
}

// Name identifies the source.
func (s *MinIOAssetSource) Name() string {
	return "minio:" + s.bucket
}

func isMinIONotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" || resp.StatusCode == http.StatusNotFound
}
