package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/specterworks/storefront/internal/application/storefront"
	"github.com/specterworks/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ storefront.AssetSource = (*S3AssetSource)(nil)

// s3GetObjectAPI is the subset of the S3 client the source needs.
type s3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3AssetSource serves assets from an S3 bucket.
// It is compatible with any S3-compatible storage (AWS S3, MinIO, RustFS, etc.)
type S3AssetSource struct {
	client    s3GetObjectAPI
	bucket    string
	keyPrefix string
	logger    *zap.Logger
}

// S3AssetSourceOption is a functional option for configuring S3AssetSource
type S3AssetSourceOption func(*S3AssetSource)

// WithLogger sets a custom logger for S3AssetSource
func WithLogger(logger *zap.Logger) S3AssetSourceOption {
	return func(s *S3AssetSource) {
		s.logger = logger
	}
}

// NewS3AssetSource creates an S3AssetSource from configuration.
// Without an endpoint the SDK resolves the regional AWS endpoint.
func NewS3AssetSource(cfg *config.AssetsConfig, opts ...S3AssetSourceOption) (*S3AssetSource, error) {
	if cfg == nil {
		return nil, errors.New("assets configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("assets bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("assets access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("assets secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			if cfg.UseSSL {
				endpoint = "https://" + endpoint
			} else {
				endpoint = "http://" + endpoint
			}
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid assets endpoint: %w", err)
		}
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		// One attempt per request; the caller treats a failure as a miss.
		o.Retryer = aws.NopRetryer{}
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return newS3AssetSource(client, cfg.Bucket, cfg.KeyPrefix, opts...), nil
}

func newS3AssetSource(client s3GetObjectAPI, bucket, keyPrefix string, opts ...S3AssetSourceOption) *S3AssetSource {
	s := &S3AssetSource{
		client:    client,
		bucket:    bucket,
		keyPrefix: keyPrefix,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open fetches the object for path.
func (s *S3AssetSource) Open(ctx context.Context, path string) (*storefront.Asset, error) {
	key, ok := objectKey(path)
	if !ok {
		return nil, storefront.ErrAssetNotFound
	}
	key = joinPrefix(s.keyPrefix, key)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, storefront.ErrAssetNotFound
		}
		s.logger.Debug("S3 GetObject failed", zap.String("bucket", s.bucket), zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}

	asset := &storefront.Asset{
		Body:        out.Body,
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
		ModTime:     aws.ToTime(out.LastModified),
	}
	if asset.ContentType == "" || asset.ContentType == "binary/octet-stream" {
		asset.ContentType = contentTypeFor(key)
	}
	return asset, nil
}

// Name identifies the source.
func (s *S3AssetSource) Name() string {
	return "s3:" + s.bucket
}

func isS3NotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return true
	}
	// Some S3-compatible backends only surface the code in the message.
	msg := err.Error()
	return strings.Contains(msg, "NoSuchKey") || strings.Contains(msg, "NotFound")
}
