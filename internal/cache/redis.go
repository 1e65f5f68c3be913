package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MikeSquared-Agency/Workup/internal/workup"
)

const keyPrefix = "workup:"

// RedisCache implements Cache using Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to addr and verifies the connection.
func NewRedisCache(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// GetWorkup returns the cached result for key, or nil, nil when Redis holds
// no entry for it.
func (c *RedisCache) GetWorkup(ctx context.Context, key string) (*workup.Result, error) {
	if key == "" {
		return nil, errors.New("result key is required")
	}
	data, err := c.client.Get(ctx, workupKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var res workup.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode cached workup: %w", err)
	}
	return &res, nil
}

// SetWorkup stores res as JSON under key for ttl. A zero ttl keeps it until
// evicted.
func (c *RedisCache) SetWorkup(ctx context.Context, key string, res *workup.Result, ttl time.Duration) error {
	if key == "" {
		return errors.New("result key is required")
	}
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, workupKey(key), data, ttl).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func workupKey(key string) string {
	return keyPrefix + "result:" + key
}
