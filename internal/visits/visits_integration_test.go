//go:build integration

package visits

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedis_IncrCount(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rdb.Ping(ctx).Err(), "redis is not reachable")

	key := "hangman:visits:test"
	require.NoError(t, rdb.Del(ctx, key).Err())

	c := NewRedis(rdb, key)
	n, err := c.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), n)

	for i := 1; i <= 3; i++ {
		n, err := c.Incr(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(i), n)
	}

	n, err = c.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}
