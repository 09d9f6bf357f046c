package state

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ThiagoPax/wa-autoresponder/internal/engine"
)

const redisKeyPrefix = "wa:throttle:"

// RedisStore keeps throttle state in a Redis hash per scope key, for
// deployments that prefer TTL-expiring state over a relational row.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to Redis. A zero ttl keeps state forever.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}

func (r *RedisStore) Load(ctx context.Context, scopeKey string) (engine.ThrottleState, error) {
	fields, err := r.rdb.HGetAll(ctx, redisKeyPrefix+scopeKey).Result()
	if err != nil {
		return engine.ThrottleState{}, fmt.Errorf("load throttle state: %w", err)
	}
	if len(fields) == 0 {
		return engine.ThrottleState{}, nil
	}

	var st engine.ThrottleState
	if st.LastReplyAt, err = parseTimeField(fields["last_reply_at"]); err != nil {
		return engine.ThrottleState{}, err
	}
	if st.PrevReplyAt, err = parseTimeField(fields["prev_reply_at"]); err != nil {
		return engine.ThrottleState{}, err
	}
	if st.LastHash, err = parseHashField(fields["last_hash"]); err != nil {
		return engine.ThrottleState{}, err
	}
	if st.PrevHash, err = parseHashField(fields["prev_hash"]); err != nil {
		return engine.ThrottleState{}, err
	}
	return st, nil
}

func (r *RedisStore) Save(ctx context.Context, scopeKey string, st engine.ThrottleState) error {
	key := redisKeyPrefix + scopeKey
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"last_reply_at": formatTimeField(st.LastReplyAt),
		"prev_reply_at": formatTimeField(st.PrevReplyAt),
		"last_hash":     strconv.FormatUint(st.LastHash, 10),
		"prev_hash":     strconv.FormatUint(st.PrevHash, 10),
	})
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save throttle state: %w", err)
	}
	return nil
}

func formatTimeField(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimeField(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp: %w", err)
	}
	return t, nil
}

func parseHashField(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	h, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse stored hash: %w", err)
	}
	return h, nil
}
