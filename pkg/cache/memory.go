package cache

import (
	"sync"
)

// MemoryCache is the in-process tier: a mutex-guarded map with LRU eviction.
// Values are stored as-is; freshness is judged by the caller.
type MemoryCache struct {
	data    map[string]any
	access  map[string]uint64
	tick    uint64
	mutex   sync.RWMutex
	maxSize int
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize: 1000,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &MemoryCache{
		data:    make(map[string]any),
		access:  make(map[string]uint64),
		maxSize: cfg.MaxSize,
	}
}

func (mc *MemoryCache) Set(key string, value any) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if _, exists := mc.data[key]; !exists && mc.maxSize > 0 && len(mc.data) >= mc.maxSize {
		mc.evictLRU()
	}

	mc.data[key] = value
	mc.touch(key)
}

func (mc *MemoryCache) Get(key string) (any, bool) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	value, exists := mc.data[key]
	if !exists {
		return nil, false
	}
	mc.touch(key)
	return value, true
}

func (mc *MemoryCache) Delete(keys ...string) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	for _, key := range keys {
		delete(mc.data, key)
		delete(mc.access, key)
	}
}

// Clear drops every entry.
func (mc *MemoryCache) Clear() {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	mc.data = make(map[string]any)
	mc.access = make(map[string]uint64)
}

func (mc *MemoryCache) Len() int {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()
	return len(mc.data)
}

func (mc *MemoryCache) touch(key string) {
	mc.tick++
	mc.access[key] = mc.tick
}

func (mc *MemoryCache) evictLRU() {
	if len(mc.data) == 0 {
		return
	}

	var oldestKey string
	var oldestTick uint64

	for key, tick := range mc.access {
		if oldestKey == "" || tick < oldestTick {
			oldestTick = tick
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(mc.data, oldestKey)
		delete(mc.access, oldestKey)
	}
}
