package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recordingExporter keeps exported records in memory.
type recordingExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range records {
		e.records = append(e.records, records[i].Clone())
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func (e *recordingExporter) bodies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.records))
	for _, r := range e.records {
		out = append(out, r.Body().AsString())
	}
	return out
}

func TestLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{Enabled: false}, nil)
	require.NoError(t, err)

	log := zap.NewNop()
	assert.False(t, lp.IsEnabled())
	assert.Same(t, log, lp.Bridge(log, zapcore.InfoLevel))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestLoggerProvider_Bridge(t *testing.T) {
	exporter := &recordingExporter{}
	lp := &LoggerProvider{
		provider: sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter))),
		logger:   zap.NewNop(),
		config:   LogsConfig{Enabled: true, ServiceName: "storefront-test"},
	}
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

	core, logs := observer.New(zapcore.DebugLevel)
	bridged := lp.Bridge(zap.New(core), zapcore.InfoLevel)

	bridged.Debug("cache probe")
	bridged.Info("Game submitted", zap.String("game_id", "42"))
	bridged.With(zap.String("request_id", "r1")).Warn("Asset source failed")

	assert.Equal(t, 3, logs.Len(), "local output keeps every level")
	assert.Equal(t, []string{"Game submitted", "Asset source failed"}, exporter.bodies())
}
