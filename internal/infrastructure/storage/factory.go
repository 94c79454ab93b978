package storage

import (
	"fmt"

	"github.com/specterworks/storefront/internal/application/storefront"
	"github.com/specterworks/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewAssetSource builds the asset source selected by cfg.Driver.
// The none driver yields a nil source and no error.
func NewAssetSource(cfg *config.AssetsConfig, logger *zap.Logger) (storefront.AssetSource, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		source storefront.AssetSource
		err    error
	)
	switch cfg.Driver {
	case config.AssetsDriverFS:
		source, err = NewFSAssetSource(cfg.Dir)
	case config.AssetsDriverS3:
		source, err = NewS3AssetSource(cfg, WithLogger(logger.Named("s3")))
	case config.AssetsDriverMinIO:
		source, err = NewMinIOAssetSource(cfg)
	case config.AssetsDriverNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown assets driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Asset source configured", zap.String("source", source.Name()))
	return source, nil
}
