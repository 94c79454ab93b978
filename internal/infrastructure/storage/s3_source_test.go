package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/specterworks/storefront/internal/application/storefront"
	"github.com/specterworks/storefront/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeS3 struct {
	objects map[string]string
	err     error
	keys    []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Key)
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("binary/octet-stream"),
		LastModified:  aws.Time(time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)),
	}, nil
}

func TestNewS3AssetSource_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3AssetSource(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3AssetSource(&config.AssetsConfig{AccessKey: "k", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		_, err := NewS3AssetSource(&config.AssetsConfig{Bucket: "b", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		_, err := NewS3AssetSource(&config.AssetsConfig{Bucket: "b", AccessKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("valid config creates source", func(t *testing.T) {
		source, err := NewS3AssetSource(&config.AssetsConfig{
			Bucket:       "storefront-assets",
			Endpoint:     "localhost:9000",
			AccessKey:    "k",
			SecretKey:    "s",
			UsePathStyle: true,
		}, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "s3:storefront-assets", source.Name())
	})
}

func TestS3AssetSource_Open(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"public/index.html":          "<h1>landing</h1>",
		"public/templates/game.html": "<!DOCTYPE html><html></html>",
	}}
	source := newS3AssetSource(client, "storefront-assets", "public")
	ctx := context.Background()

	t.Run("fetches under the key prefix", func(t *testing.T) {
		asset, err := source.Open(ctx, "/templates/game.html")
		require.NoError(t, err)

		assert.Equal(t, "text/html; charset=utf-8", asset.ContentType)
		assert.Equal(t, int64(len("<!DOCTYPE html><html></html>")), asset.Size)
		assert.Equal(t, 2025, asset.ModTime.Year())
		assert.Equal(t, "<!DOCTYPE html><html></html>", readAll(t, asset))
	})

	t.Run("root maps to index document", func(t *testing.T) {
		asset, err := source.Open(ctx, "/")
		require.NoError(t, err)
		assert.Equal(t, "<h1>landing</h1>", readAll(t, asset))
	})

	t.Run("missing key is not found", func(t *testing.T) {
		_, err := source.Open(ctx, "/missing.png")
		assert.ErrorIs(t, err, storefront.ErrAssetNotFound)
	})

	t.Run("escape is rejected before any request", func(t *testing.T) {
		before := len(client.keys)
		_, err := source.Open(ctx, "/../secret")
		assert.ErrorIs(t, err, storefront.ErrAssetNotFound)
		assert.Len(t, client.keys, before)
	})
}

func TestS3AssetSource_Failure(t *testing.T) {
	source := newS3AssetSource(&fakeS3{err: errors.New("RequestTimeout: dial tcp: i/o timeout")}, "b", "")

	_, err := source.Open(context.Background(), "/index.html")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storefront.ErrAssetNotFound)
	assert.Contains(t, err.Error(), "i/o timeout")
}

// failingObjectStore answers every request with a retryable 500.
func failingObjectStore(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
			`<Error><Code>InternalError</Code><Message>We encountered an internal error.</Message></Error>`))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestS3AssetSource_SingleAttempt(t *testing.T) {
	srv, requests := failingObjectStore(t)

	source, err := NewS3AssetSource(&config.AssetsConfig{
		Endpoint:     srv.URL,
		Region:       "us-east-1",
		Bucket:       "storefront-assets",
		AccessKey:    "test",
		SecretKey:    "test",
		UsePathStyle: true,
	})
	require.NoError(t, err)

	_, err = source.Open(context.Background(), "/index.html")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storefront.ErrAssetNotFound)
	assert.Equal(t, int32(1), requests.Load())
}

func TestIsS3NotFound(t *testing.T) {
	assert.True(t, isS3NotFound(&types.NoSuchKey{}))
	assert.True(t, isS3NotFound(&types.NotFound{}))
	assert.True(t, isS3NotFound(errors.New("api error NoSuchKey: missing")))
	assert.False(t, isS3NotFound(errors.New("AccessDenied")))
}
