package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Get retrieves and decodes the value stored at key into T. An entry that
// fails to decode is reported as Unavailable — the source of truth wins over
// an unreadable cache entry.
func Get[T any](ctx context.Context, c *Client, key string) (T, Outcome) {
	var out T
	data, outcome := c.Get(ctx, key)
	if outcome != Hit {
		return out, outcome
	}
	if err := json.Unmarshal(data, &out); err != nil {
		c.log.Error("cache decode failed", zap.String("key", key), zap.Error(err))
		var zero T
		return zero, Unavailable
	}
	return out, Hit
}

// GetOrSet is the cache-aside read path: return the cached value on a hit,
// otherwise invoke produce against the source of truth, store the result
// under ttl, and return it.
//
// produce errors propagate to the caller and nothing is cached, so absent
// records are never stored. A failed Set after a successful produce is
// swallowed — the caller got their value; failing to cache it is a
// degradation, not a failure.
func GetOrSet[T any](ctx context.Context, c *Client, key string, ttl time.Duration, produce func(context.Context) (T, error)) (T, error) {
	if v, outcome := Get[T](ctx, c, key); outcome == Hit {
		return v, nil
	}

	v, err := produce(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.Set(ctx, key, v, ttl)
	return v, nil
}
