// Package visits counts client connections across the whole process.
// The count is informational; nothing in the game depends on it.
package visits

import (
	"context"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "hangman:visits"

type Counter interface {
	Incr(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// Memory is a per-process counter.
type Memory struct {
	n atomic.Int64
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Incr(ctx context.Context) (int64, error) {
	return m.n.Add(1), nil
}

func (m *Memory) Count(ctx context.Context) (int64, error) {
	return m.n.Load(), nil
}

// Redis shares the counter between every server pointed at the same key.
type Redis struct {
	rdb *redis.Client
	key string
}

func NewRedis(rdb *redis.Client, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{rdb: rdb, key: key}
}

func (r *Redis) Incr(ctx context.Context) (int64, error) {
	return r.rdb.Incr(ctx, r.key).Result()
}

func (r *Redis) Count(ctx context.Context) (int64, error) {
	n, err := r.rdb.Get(ctx, r.key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}
