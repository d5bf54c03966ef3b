package matching

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/lumiere-aesthetics/matching-engine/internal/cache"
	"github.com/lumiere-aesthetics/matching-engine/internal/criteria"
	"github.com/lumiere-aesthetics/matching-engine/internal/observability"
)

const resultKeyPart = "browse"

// ResultCache memoizes browse results keyed by session id and criteria tuple.
type ResultCache struct {
	client cache.Client
	logger *observability.Logger
	ttl    time.Duration
}

// NewResultCache creates a result cache. A nil client disables caching.
func NewResultCache(client cache.Client, logger *observability.Logger, ttl time.Duration) *ResultCache {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResultCache{client: client, logger: logger, ttl: ttl}
}

// CacheKey returns the key for a session's criteria tuple.
func (c *ResultCache) CacheKey(sessionID string, crit criteria.Criteria) string {
	hash := sha256.Sum256([]byte(crit.Key()))
	return cache.SessionKey(sessionID, resultKeyPart, hex.EncodeToString(hash[:16]))
}

// Get returns a cached result if present.
func (c *ResultCache) Get(ctx context.Context, sessionID string, crit criteria.Criteria) (*BrowseResult, bool) {
	if c.client == nil {
		return nil, false
	}

	key := c.CacheKey(sessionID, crit)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Debug().Err(err).Str("key", key).Msg("Cache get error")
		}
		return nil, false
	}

	var res BrowseResult
	if err := json.Unmarshal(data, &res); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to unmarshal cached result")
		return nil, false
	}
	return &res, true
}

// Set stores a result. Failures are logged and otherwise ignored.
func (c *ResultCache) Set(ctx context.Context, sessionID string, crit criteria.Criteria, res *BrowseResult) {
	if c.client == nil || res == nil {
		return
	}

	key := c.CacheKey(sessionID, crit)
	data, err := json.Marshal(res)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to marshal result")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache result")
	}
}

// Invalidate drops every result cached for a session.
func (c *ResultCache) Invalidate(ctx context.Context, sessionID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.DeleteByPrefix(ctx, cache.SessionKey(sessionID)+":")
}
