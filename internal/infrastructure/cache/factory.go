package cache

import (
	"fmt"

	"github.com/specterworks/storefront/internal/domain/game"
	"go.uber.org/zap"
)

// RecordStore is a record store that owns a connection.
type RecordStore interface {
	game.RecordStore
	game.BatchWriter
	game.Pinger
	Close() error
}

// RecordStoreFactory creates key-value record stores based on configuration
type RecordStoreFactory struct {
	redisConfig           RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	connect               func(RedisConfig) (RecordStore, error)
}

// RecordStoreFactoryOption is a functional option for configuring the factory
type RecordStoreFactoryOption func(*RecordStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RecordStoreFactoryOption {
	return func(f *RecordStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) RecordStoreFactoryOption {
	return func(f *RecordStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRecordStoreFactory creates a new factory
func NewRecordStoreFactory(cfg RedisConfig, opts ...RecordStoreFactoryOption) *RecordStoreFactory {
	f := &RecordStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		connect: func(cfg RedisConfig) (RecordStore, error) {
			return NewRedisRecordStore(cfg)
		},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-backed record store
func (f *RecordStoreFactory) CreateRedisStore() (RecordStore, error) {
	store, err := f.connect(f.redisConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis record store: %w", err)
	}
	return store, nil
}

// CreateInMemoryStore creates an in-memory record store.
// WARNING: in-memory stores do not share state across process instances, so
// a game saved on one instance renders as missing on another.
func (f *RecordStoreFactory) CreateInMemoryStore() RecordStore {
	return NewInMemoryRecordStore()
}

// CreateStore tries Redis first and falls back to in-memory if Redis is not
// available and fallback is allowed.
func (f *RecordStoreFactory) CreateStore() (RecordStore, error) {
	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis record store", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for record store but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory record store. "+
		"Saved games will not be shared across instances or survive a restart.",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}
