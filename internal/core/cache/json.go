package cache

import (
	"context"
	"encoding/json"
	"time"
)

// GetOrLoadJSON is GetOrLoad for values that round-trip through encoding/json.
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	var out T
	if !c.enabled() {
		return load(ctx)
	}
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return out, err
	}
	if e := json.Unmarshal(b, &out); e != nil {
		// a corrupt entry should not take the endpoint down
		_ = c.Invalidate(ctx, key)
		return load(ctx)
	}
	return out, nil
}
