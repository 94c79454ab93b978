package cache

import (
	"context"
	"sync"

	"github.com/specterworks/storefront/internal/domain/game"
)

// InMemoryRecordStore implements game.RecordStore using an in-memory map.
// This is suitable for single-instance deployments and testing; records do
// not survive a restart.
type InMemoryRecordStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewInMemoryRecordStore creates an empty store.
func NewInMemoryRecordStore() *InMemoryRecordStore {
	return &InMemoryRecordStore{entries: make(map[string]string)}
}

// Get returns the value at key or game.ErrKeyNotFound.
func (s *InMemoryRecordStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return "", game.ErrKeyNotFound
	}
	return value, nil
}

// Put stores value at key.
func (s *InMemoryRecordStore) Put(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value
	return nil
}

// PutAll writes every entry under a single lock.
func (s *InMemoryRecordStore) PutAll(ctx context.Context, entries []game.KeyValue) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		s.entries[e.Key] = e.Value
	}
	return nil
}

// Ping always succeeds.
func (s *InMemoryRecordStore) Ping(context.Context) error {
	return nil
}

// Close is a no-op.
func (s *InMemoryRecordStore) Close() error {
	return nil
}

// Size returns the number of entries in the store (for testing/monitoring)
func (s *InMemoryRecordStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var (
	_ game.RecordStore = (*InMemoryRecordStore)(nil)
	_ game.BatchWriter = (*InMemoryRecordStore)(nil)
	_ game.Pinger      = (*InMemoryRecordStore)(nil)
)
