package storage

import (
	"testing"

	"github.com/specterworks/storefront/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewAssetSource(t *testing.T) {
	t.Run("fs", func(t *testing.T) {
		source, err := NewAssetSource(&config.AssetsConfig{Driver: config.AssetsDriverFS, Dir: t.TempDir()}, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &FSAssetSource{}, source)
	})

	t.Run("fs with a missing directory", func(t *testing.T) {
		source, err := NewAssetSource(&config.AssetsConfig{Driver: config.AssetsDriverFS, Dir: "/nonexistent/storefront"}, nil)
		assert.Error(t, err)
		assert.Nil(t, source)
	})

	t.Run("none", func(t *testing.T) {
		source, err := NewAssetSource(&config.AssetsConfig{Driver: config.AssetsDriverNone}, nil)
		require.NoError(t, err)
		assert.Nil(t, source)
	})

	t.Run("s3", func(t *testing.T) {
		source, err := NewAssetSource(&config.AssetsConfig{
			Driver: config.AssetsDriverS3, Bucket: "b", AccessKey: "k", SecretKey: "s", Region: "eu-west-1",
		}, nil)
		require.NoError(t, err)
		assert.IsType(t, &S3AssetSource{}, source)
	})

	t.Run("minio", func(t *testing.T) {
		source, err := NewAssetSource(&config.AssetsConfig{
			Driver: config.AssetsDriverMinIO, Bucket: "b", Endpoint: "localhost:9000",
		}, nil)
		require.NoError(t, err)
		assert.IsType(t, &MinIOAssetSource{}, source)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewAssetSource(&config.AssetsConfig{Driver: "gcs"}, nil)
		assert.Error(t, err)
	})
}
