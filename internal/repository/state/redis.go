package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyFormat is shop:{shopKey}:{key}.
const keyFormat = "shop:%s:%s"

type redisRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedis stores each value as a JSON string. A zero ttl keeps values forever.
func NewRedis(rdb *redis.Client, ttl time.Duration) Repository {
	return &redisRepo{rdb: rdb, ttl: ttl}
}

// NewRedisClient connects to addr.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

func (r *redisRepo) Get(ctx context.Context, shopKey, key string, dst any) (bool, error) {
	raw, err := r.rdb.Get(ctx, fmt.Sprintf(keyFormat, shopKey, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("state redis: decode %s/%s: %w", shopKey, key, err)
	}
	return true, nil
}

func (r *redisRepo) Set(ctx context.Context, shopKey, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("state redis: encode %s/%s: %w", shopKey, key, err)
	}
	return r.rdb.Set(ctx, fmt.Sprintf(keyFormat, shopKey, key), raw, r.ttl).Err()
}

// SetMany sends the writes as one MULTI/EXEC block.
func (r *redisRepo) SetMany(ctx context.Context, shopKey string, entries ...Entry) error {
	values, err := encodeAll("redis", shopKey, entries)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, v := range values {
			pipe.Set(ctx, fmt.Sprintf(keyFormat, shopKey, v.key), v.raw, r.ttl)
		}
		return nil
	})
	return err
}

func (r *redisRepo) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
