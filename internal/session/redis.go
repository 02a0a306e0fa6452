package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/warteg-pro/api/internal/logging"
	"github.com/warteg-pro/api/internal/state"
)

// RedisStore keeps slots in Redis with a sliding TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// NewRedisClient dials addr and verifies the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
		ReadTimeout: 2 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}

func (r *RedisStore) Save(ctx context.Context, user state.User) error {
	b, err := encode(user)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, Key(user.ID), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Load reads the slot and refreshes its TTL. A malformed slot is deleted.
func (r *RedisStore) Load(ctx context.Context, userID string) (state.User, bool, error) {
	key := Key(userID)
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return state.User{}, false, nil
	}
	if err != nil {
		return state.User{}, false, fmt.Errorf("redis get: %w", err)
	}

	u, ok := decode(raw, userID)
	if !ok {
		logging.FromCtx(ctx).Warn("discarding malformed session slot", "key", key)
		if err := r.rdb.Del(ctx, key).Err(); err != nil {
			return state.User{}, false, fmt.Errorf("redis del: %w", err)
		}
		return state.User{}, false, nil
	}

	if r.ttl > 0 {
		if err := r.rdb.Expire(ctx, key, r.ttl).Err(); err != nil {
			return state.User{}, false, fmt.Errorf("redis expire: %w", err)
		}
	}
	return u, true, nil
}

func (r *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := r.rdb.Del(ctx, Key(userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
