package game

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const outcomesKey = "hangman:outcomes"

// RedisResultStore keeps a JSON snapshot of each finished session for ttl and
// a running count per outcome.
type RedisResultStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisResultStore(rdb *redis.Client, ttl time.Duration) *RedisResultStore {
	return &RedisResultStore{rdb: rdb, ttl: ttl}
}

func (s *RedisResultStore) key(sessionID string) string {
	return fmt.Sprintf("game:%s:result", sessionID)
}

func (s *RedisResultStore) Record(ctx context.Context, r Result) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.key(r.SessionID), b, s.ttl)
	pipe.HIncrBy(ctx, outcomesKey, r.Outcome, 1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis record %s: %w", r.SessionID, err)
	}
	return nil
}

// Outcomes returns the number of recorded sessions per outcome.
func (s *RedisResultStore) Outcomes(ctx context.Context) (map[string]int64, error) {
	raw, err := s.rdb.HGetAll(ctx, outcomesKey).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("outcome %q: %w", k, err)
		}
		out[k] = n
	}
	return out, nil
}
