package storage

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/specterworks/storefront/internal/application/storefront"
	"github.com/specterworks/storefront/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMinIOAssetSource_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewMinIOAssetSource(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing endpoint returns error", func(t *testing.T) {
		_, err := NewMinIOAssetSource(&config.AssetsConfig{Bucket: "b"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "endpoint is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewMinIOAssetSource(&config.AssetsConfig{Endpoint: "localhost:9000"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("valid config creates source", func(t *testing.T) {
		source, err := NewMinIOAssetSource(&config.AssetsConfig{
			Endpoint:  "localhost:9000",
			Bucket:    "storefront-assets",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
		})
		require.NoError(t, err)
		assert.Equal(t, "minio:storefront-assets", source.Name())
	})
}

func TestMinIOAssetSource_SingleAttempt(t *testing.T) {
	srv, requests := failingObjectStore(t)

	source, err := NewMinIOAssetSource(&config.AssetsConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		Region:    "us-east-1",
		Bucket:    "storefront-assets",
		AccessKey: "test",
		SecretKey: "test",
	})
	require.NoError(t, err)

	_, err = source.Open(context.Background(), "/index.html")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storefront.ErrAssetNotFound)
	assert.Equal(t, int32(1), requests.Load())
}

func TestIsMinIONotFound(t *testing.T) {
	assert.True(t, isMinIONotFound(minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}))
	assert.True(t, isMinIONotFound(minio.ErrorResponse{StatusCode: http.StatusNotFound}))
	assert.False(t, isMinIONotFound(minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}))
	assert.False(t, isMinIONotFound(errors.New("connection refused")))
}
