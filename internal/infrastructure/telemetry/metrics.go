package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const defaultExportInterval = 60 * time.Second

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ExportInterval    time.Duration
	ServiceName       string
	ServiceVersion    string
	Insecure          bool
}

// MeterProvider wraps the OpenTelemetry MeterProvider with lifecycle management.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
	config   MetricsConfig
}

// NewMeterProvider creates a MeterProvider exporting over OTLP/gRPC.
// When metrics are disabled meters come from the global no-op provider.
func NewMeterProvider(ctx context.Context, cfg MetricsConfig, logger *zap.Logger) (*MeterProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mp := &MeterProvider{
		logger: logger,
		config: cfg,
	}

	if !cfg.Enabled {
		logger.Info("Metrics disabled, using no-op meter provider")
		return mp, nil
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = defaultExportInterval
	}

	exporterOpts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint),
	}
	if cfg.Insecure {
		exporterOpts = append(exporterOpts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.provider)

	logger.Info("OpenTelemetry MeterProvider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", interval),
	)
	return mp, nil
}

// Shutdown flushes pending metrics and stops the reader.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mp.provider.Shutdown(shutdownCtx); err != nil {
		mp.logger.Error("Error shutting down meter provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// Meter returns a named meter from the provider.
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// IsEnabled returns whether metrics are enabled.
func (mp *MeterProvider) IsEnabled() bool {
	return mp.config.Enabled && mp.provider != nil
}

// Attribute keys used by the storefront instruments.
var (
	AttrPageCache  = attribute.Key("page.cache")
	AttrSaveTarget = attribute.Key("save.target")
)

// Attribute values for AttrPageCache and AttrSaveTarget.
const (
	PageCacheHit    = "hit"
	PageCacheMiss   = "miss"
	SaveTargetStore = "store"
	SaveTargetLocal = "local"
)

// StorefrontMetrics records how pages are served and where saves land.
type StorefrontMetrics struct {
	pagesServed metric.Int64Counter
	gamesSaved  metric.Int64Counter
}

// NewStorefrontMetrics creates the storefront instruments on meter.
func NewStorefrontMetrics(meter metric.Meter) (*StorefrontMetrics, error) {
	pages, err := meter.Int64Counter("storefront.pages.served",
		metric.WithDescription("Game pages served, by page cache outcome"),
		metric.WithUnit("{page}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter storefront.pages.served: %w", err)
	}
	saves, err := meter.Int64Counter("storefront.games.saved",
		metric.WithDescription("Accepted game submissions, by where they were persisted"),
		metric.WithUnit("{game}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter storefront.games.saved: %w", err)
	}
	return &StorefrontMetrics{pagesServed: pages, gamesSaved: saves}, nil
}

// PageServed counts one page response.
func (m *StorefrontMetrics) PageServed(ctx context.Context, cached bool) {
	outcome := PageCacheMiss
	if cached {
		outcome = PageCacheHit
	}
	m.pagesServed.Add(ctx, 1, metric.WithAttributes(AttrPageCache.String(outcome)))
}

// GameSaved counts one accepted submission.
func (m *StorefrontMetrics) GameSaved(ctx context.Context, savedToStore bool) {
	target := SaveTargetLocal
	if savedToStore {
		target = SaveTargetStore
	}
	m.gamesSaved.Add(ctx, 1, metric.WithAttributes(AttrSaveTarget.String(target)))
}
