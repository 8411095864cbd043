package tree

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"rinkside/internal/org/models"
	orgmetrics "rinkside/internal/org/metrics"
	id "rinkside/pkg/domain"
)

// Provider resolves ancestor chains; Walker is the canonical implementation.
type Provider interface {
	AncestorChain(ctx context.Context, clubID id.ClubID) ([]models.Association, error)
}

// Cached decorates a Provider with a Redis cache. Chains carry each node's
// fee schedule, so fee edits become visible only after the TTL elapses;
// committed registrations are immune regardless (frozen breakdown).
//
// Cache failures degrade to the inner provider, never to an error.
type Cached struct {
	inner   Provider
	redis   redis.Cmdable
	ttl     time.Duration
	logger  *slog.Logger
	metrics *orgmetrics.Metrics
}

func NewCached(inner Provider, client redis.Cmdable, ttl time.Duration, logger *slog.Logger, m *orgmetrics.Metrics) *Cached {
	return &Cached{inner: inner, redis: client, ttl: ttl, logger: logger, metrics: m}
}

func (c *Cached) AncestorChain(ctx context.Context, clubID id.ClubID) ([]models.Association, error) {
	key := "orgchain:" + clubID.String()

	raw, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var chain []models.Association
		if err := json.Unmarshal([]byte(raw), &chain); err == nil {
			if c.metrics != nil {
				c.metrics.IncChainCacheHit()
			}
			return chain, nil
		}
		// Corrupt entry: drop it and fall through to the walker.
		_ = c.redis.Del(ctx, key).Err()
	} else if err != redis.Nil && c.logger != nil {
		c.logger.WarnContext(ctx, "chain cache read failed", "error", err, "club_id", clubID)
	}

	if c.metrics != nil {
		c.metrics.IncChainCacheMiss()
	}

	chain, err := c.inner.AncestorChain(ctx, clubID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(chain); err == nil {
		if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil && c.logger != nil {
			c.logger.WarnContext(ctx, "chain cache write failed", "error", err, "club_id", clubID)
		}
	}
	return chain, nil
}

// Invalidate drops a club's cached chain, used after admin fee edits so
// previews refresh immediately instead of waiting out the TTL.
func (c *Cached) Invalidate(ctx context.Context, clubID id.ClubID) {
	if err := c.redis.Del(ctx, "orgchain:"+clubID.String()).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "chain cache invalidate failed", "error", err, "club_id", clubID)
	}
}
