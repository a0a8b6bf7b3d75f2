package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// DefaultTTL is the freshness window applied when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Entry is the envelope stored in both tiers. Timestamp is unix milliseconds.
type Entry[T any] struct {
	Data      T     `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

// Persister is a persisted tier. It stores opaque envelope bytes per key and
// reports ErrCacheMiss when a key is absent.
type Persister interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}
