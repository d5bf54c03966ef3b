// Package cache provides the key/value cache used to memoize browse results.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCacheMiss indicates a missing or expired key.
var ErrCacheMiss = errors.New("cache miss")

// Client defines the cache interface.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Close() error
}

// Options selects and configures a cache backend.
type Options struct {
	Driver     string // memory or redis
	MaxEntries int
	Redis      RedisConfig
}

// New creates the client named by opts.Driver.
func New(opts Options) (Client, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemoryClient(opts.MaxEntries), nil
	case "redis":
		return NewRedisClient(opts.Redis)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", opts.Driver)
	}
}

// Key joins key components with ':'.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// SessionKey builds a key scoped to a browse session.
func SessionKey(sessionID string, parts ...string) string {
	return Key(append([]string{"s", sessionID}, parts...)...)
}
