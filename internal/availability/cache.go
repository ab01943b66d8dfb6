package availability

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKey = "availability:listing"

// Cache keeps the rendered availability listing in Redis for a short TTL.
// It is strictly best-effort: any Redis failure falls through to the
// database and is logged at debug level.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache creates an availability cache. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached listing payload, or nil on miss.
func (c *Cache) Get(ctx context.Context, out interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("availability cache get", zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Debug("availability cache decode", zap.Error(err))
		return false
	}
	return true
}

// Set stores the listing payload.
func (c *Cache) Set(ctx context.Context, payload interface{}) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("availability cache set", zap.Error(err))
	}
}

// Invalidate drops the cached listing. Called after every successful
// registration, cancellation, or admin schedule mutation.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Debug("availability cache invalidate", zap.Error(err))
	}
}
