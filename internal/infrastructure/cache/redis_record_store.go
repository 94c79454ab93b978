package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/specterworks/storefront/internal/domain/game"
)

// RedisRecordStore implements game.RecordStore on Redis strings.
// Batches are committed with MULTI/EXEC so the record, its page and the
// index become visible together.
type RedisRecordStore struct {
	client *redis.Client
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewRedisRecordStore connects to Redis and verifies the connection.
// Commands are attempted once; a failed command surfaces to the caller,
// which falls back to its next data source.
func NewRedisRecordStore(cfg RedisConfig) (*RedisRecordStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   -1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}

	return &RedisRecordStore{client: client}, nil
}

// Get returns the value at key or game.ErrKeyNotFound.
func (s *RedisRecordStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", game.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Put stores value at key without expiry.
func (s *RedisRecordStore) Put(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// PutAll writes every entry in one MULTI/EXEC transaction.
func (s *RedisRecordStore) PutAll(ctx context.Context, entries []game.KeyValue) error {
	if len(entries) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range entries {
			pipe.Set(ctx, e.Key, e.Value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to commit %d keys: %w", len(entries), err)
	}
	return nil
}

// Ping checks the connection.
func (s *RedisRecordStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *RedisRecordStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (s *RedisRecordStore) GetClient() *redis.Client {
	return s.client
}

var (
	_ game.RecordStore = (*RedisRecordStore)(nil)
	_ game.BatchWriter = (*RedisRecordStore)(nil)
	_ game.Pinger      = (*RedisRecordStore)(nil)
)
