package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"SemiDash/pkg/logger"
)

// Store is the two-tier cache: an in-memory map that is always written, plus
// an optional persisted tier that is written best-effort and read first.
// An entry is fresh while now - timestamp < TTL.
type Store[T any] struct {
	memory    *MemoryCache
	persisted Persister
	ttl       time.Duration
	now       func() time.Time
	log       *logger.Logger
}

// NewStore builds a store. persisted may be nil for a memory-only store.
func NewStore[T any](persisted Persister, opts ...StoreOption) *Store[T] {
	cfg := &StoreConfig{
		TTL:           DefaultTTL,
		MemoryMaxSize: 1000,
		Clock:         time.Now,
	}

	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	return &Store[T]{
		memory:    NewMemoryCache(WithMemoryMaxSize(cfg.MemoryMaxSize)),
		persisted: persisted,
		ttl:       cfg.TTL,
		now:       cfg.Clock,
		log:       cfg.Logger,
	}
}

// TTL returns the freshness window.
func (s *Store[T]) TTL() time.Duration {
	return s.ttl
}

// Get returns the fresh value for key from the persisted tier, then memory.
func (s *Store[T]) Get(ctx context.Context, key string) (T, bool) {
	if entry, ok := s.readPersisted(ctx, key); ok && s.fresh(entry.Timestamp) {
		return entry.Data, true
	}

	if raw, ok := s.memory.Get(key); ok {
		if entry, ok := raw.(Entry[T]); ok && s.fresh(entry.Timestamp) {
			return entry.Data, true
		}
	}

	var zero T
	return zero, false
}

// Set replaces the value for key. The memory write always succeeds; a
// persisted-tier failure is logged and dropped.
func (s *Store[T]) Set(ctx context.Context, key string, data T) {
	entry := Entry[T]{Data: data, Timestamp: s.now().UnixMilli()}
	s.memory.Set(key, entry)

	if s.persisted == nil {
		return
	}
	b, err := json.Marshal(entry)
	if err != nil {
		s.log.Warn("cache entry marshal failed", logger.String("key", key), logger.Error(err))
		return
	}
	if err := s.persisted.Write(ctx, key, b); err != nil {
		s.log.Warn("persisted cache write failed", logger.String("key", key), logger.Error(err))
	}
}

// Invalidate removes the given keys from both tiers. With no keys it clears
// everything.
func (s *Store[T]) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		s.memory.Clear()
		if s.persisted != nil {
			if err := s.persisted.Clear(ctx); err != nil {
				s.log.Warn("persisted cache clear failed", logger.Error(err))
			}
		}
		return
	}

	s.memory.Delete(keys...)
	if s.persisted != nil {
		if err := s.persisted.Delete(ctx, keys...); err != nil {
			s.log.Warn("persisted cache delete failed", logger.Strings("keys", keys), logger.Error(err))
		}
	}
}

func (s *Store[T]) readPersisted(ctx context.Context, key string) (Entry[T], bool) {
	var entry Entry[T]
	if s.persisted == nil {
		return entry, false
	}

	b, err := s.persisted.Read(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Debug("persisted cache read failed", logger.String("key", key), logger.Error(err))
		}
		return entry, false
	}
	if err := json.Unmarshal(b, &entry); err != nil {
		s.log.Debug("persisted cache entry unreadable", logger.String("key", key), logger.Error(err))
		return entry, false
	}
	return entry, true
}

func (s *Store[T]) fresh(timestamp int64) bool {
	return s.now().UnixMilli()-timestamp < s.ttl.Milliseconds()
}
