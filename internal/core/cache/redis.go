package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ErrDisabled is returned by Ping when no redis address is configured.
var ErrDisabled = errors.New("cache disabled")

// Cache is a read-through byte cache in front of redis. A nil *Cache, or one
// built with an empty address, always calls the loader. Redis failures are
// treated as misses so the catalog stays available when redis is down.
type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	if addr == "" {
		return &Cache{}
	}
	return &Cache{
		RDB: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     pass,
			DB:           db,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		}),
	}
}

func (c *Cache) enabled() bool { return c != nil && c.RDB != nil }

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if !c.enabled() {
		return load(ctx)
	}
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// concurrent misses on the same key share one load
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate drops keys. The sweets listing is small enough that every
// mutation simply clears it.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if !c.enabled() || len(keys) == 0 {
		return nil
	}
	for _, k := range keys {
		c.sf.Forget(k)
	}
	return c.RDB.Del(ctx, keys...).Err()
}

func (c *Cache) Ping(ctx context.Context) error {
	if !c.enabled() {
		return ErrDisabled
	}
	return c.RDB.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.RDB.Close()
}
