package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachable points at a closed port so every redis call fails fast.
func unreachable() *Cache {
	return &Cache{RDB: redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	})}
}

func TestCache_DisabledAlwaysLoads(t *testing.T) {
	ctx := context.Background()
	for name, c := range map[string]*Cache{"nil": nil, "empty addr": New("", "", 0)} {
		t.Run(name, func(t *testing.T) {
			var calls int32
			load := func(context.Context) ([]string, error) {
				atomic.AddInt32(&calls, 1)
				return []string{"a"}, nil
			}
			for i := 0; i < 3; i++ {
				v, err := GetOrLoadJSON(c, ctx, "k", time.Minute, load)
				require.NoError(t, err)
				assert.Equal(t, []string{"a"}, v)
			}
			assert.Equal(t, int32(3), calls)
			assert.NoError(t, c.Invalidate(ctx, "k"))
			assert.ErrorIs(t, c.Ping(ctx), ErrDisabled)
			assert.NoError(t, c.Close())
		})
	}
}

func TestCache_RedisDownFallsBackToLoader(t *testing.T) {
	ctx := context.Background()
	c := unreachable()
	t.Cleanup(func() { _ = c.Close() })

	v, err := GetOrLoadJSON(c, ctx, "sweets:all", time.Minute, func(context.Context) ([]int, error) {
		return []int{1, 2, 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, v)
	assert.Error(t, c.Ping(ctx))
}

func TestCache_LoaderErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	c := unreachable()
	t.Cleanup(func() { _ = c.Close() })

	_, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) ([]int, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}
