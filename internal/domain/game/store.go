package game

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a RecordStore when the key is absent.
// Any other error means the store could not answer.
var ErrKeyNotFound = errors.New("record store: key not found")

// RecordStore is a string key/value store.
type RecordStore interface {
	// Get returns the value for key or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value string) error
}

// KeyValue is one entry of a batch write.
type KeyValue struct {
	Key   string
	Value string
}

// BatchWriter is implemented by stores that can commit several writes
// as one unit. Entries are applied in order.
type BatchWriter interface {
	PutAll(ctx context.Context, entries []KeyValue) error
}

// Pinger is implemented by stores that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}
