package cache

import (
	"time"

	"SemiDash/pkg/logger"
)

// RedisOption configures Redis cache.
type RedisOption func(*RedisConfig)

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	PoolTimeout  time.Duration
	MinIdleConns int
	Prefix       string
	Expiration   time.Duration
}

// WithRedisAddr sets Redis host:port.
func WithRedisAddr(addr string) RedisOption {
	return func(c *RedisConfig) {
		c.Addr = addr
	}
}

// WithRedisPassword sets Redis password.
func WithRedisPassword(password string) RedisOption {
	return func(c *RedisConfig) {
		c.Password = password
	}
}

// WithRedisDB sets Redis database number.
func WithRedisDB(db int) RedisOption {
	return func(c *RedisConfig) {
		c.DB = db
	}
}

// WithRedisPool sets connection pool settings.
func WithRedisPool(poolSize, minIdleConns int, timeout time.Duration) RedisOption {
	return func(c *RedisConfig) {
		c.PoolSize = poolSize
		c.MinIdleConns = minIdleConns
		c.PoolTimeout = timeout
	}
}

// WithRedisPrefix sets key prefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(c *RedisConfig) {
		c.Prefix = prefix
	}
}

// WithRedisExpiration sets the server-side expiry put on every key. Freshness
// is still decided by the envelope timestamp.
func WithRedisExpiration(d time.Duration) RedisOption {
	return func(c *RedisConfig) {
		c.Expiration = d
	}
}

// MemoryOption configures Memory cache.
type MemoryOption func(*MemoryConfig)

// MemoryConfig holds memory cache configuration.
type MemoryConfig struct {
	MaxSize int
}

// WithMemoryMaxSize sets max cache size.
func WithMemoryMaxSize(size int) MemoryOption {
	return func(c *MemoryConfig) {
		c.MaxSize = size
	}
}

// StoreOption configures a Store.
type StoreOption func(*StoreConfig)

// StoreConfig holds two-tier store configuration.
type StoreConfig struct {
	TTL           time.Duration
	MemoryMaxSize int
	Clock         func() time.Time
	Logger        *logger.Logger
}

// WithTTL sets the freshness window.
func WithTTL(ttl time.Duration) StoreOption {
	return func(c *StoreConfig) {
		c.TTL = ttl
	}
}

// WithStoreMemorySize sets the in-memory tier capacity.
func WithStoreMemorySize(size int) StoreOption {
	return func(c *StoreConfig) {
		c.MemoryMaxSize = size
	}
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) StoreOption {
	return func(c *StoreConfig) {
		c.Clock = clock
	}
}

// WithLogger sets the logger used for persisted-tier failures.
func WithLogger(l *logger.Logger) StoreOption {
	return func(c *StoreConfig) {
		c.Logger = l
	}
}
