package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func statement(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog, _ := newObservedGormLogger(gormlogger.Info)

	next, ok := gormLog.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	assert.Equal(t, gormlogger.Warn, next.logLevel)
}

func TestGormLogger_Messages(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Warn)
	ctx := context.Background()

	gormLog.Info(ctx, "suppressed %d", 1)
	gormLog.Warn(ctx, "warned %s", "once")
	gormLog.Error(ctx, "failed %s", "twice")

	entries := recorded.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "warned once", entries[0].Message)
	assert.Equal(t, "failed twice", entries[1].Message)
	assert.Equal(t, "sql", entries[0].LoggerName)
}

func TestGormLogger_Trace(t *testing.T) {
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-7")

	t.Run("silent logs nothing", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Silent)
		gormLog.Trace(ctx, time.Now(), statement("SELECT 1", 1), errors.New("boom"))
		assert.Zero(t, recorded.Len())
	})

	t.Run("errors are logged with the request id", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Error)
		gormLog.Trace(ctx, time.Now(), statement(`INSERT INTO "storefront_records"`, 0), errors.New("disk full"))

		entries := recorded.FilterMessage("SQL Error").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
		assert.Equal(t, "disk full", entries[0].ContextMap()["error"])
	})

	t.Run("record not found is a miss", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Info)
		gormLog.Trace(ctx, time.Now(), statement("SELECT * FROM storefront_records", 0), gormlogger.ErrRecordNotFound)

		assert.Zero(t, recorded.FilterMessage("SQL Error").Len())
		assert.Equal(t, 1, recorded.FilterMessage("SQL Query").Len())
	})

	t.Run("slow statements warn", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))
		gormLog.Trace(ctx, time.Now().Add(-time.Second), statement("SELECT 1", 1), nil)

		entries := recorded.FilterMessage("Slow SQL").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("zero threshold disables slow warnings", func(t *testing.T) {
		gormLog, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(0))
		gormLog.Trace(ctx, time.Now().Add(-time.Second), statement("SELECT 1", 1), nil)
		assert.Zero(t, recorded.Len())
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}
