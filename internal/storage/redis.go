package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps slots under prefix+key in Redis, so several clients on
// one machine (or one user across machines) can share a session.
type RedisStore struct {
	Client redis.UniversalClient
	Prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{Client: client, Prefix: prefix}
}

// DialRedis connects to addr and pings it before returning.
func DialRedis(ctx context.Context, addr, prefix string) (*RedisStore, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	if prefix == "" {
		prefix = "storefront:"
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: redis ping %s: %w", addr, err)
	}
	return NewRedisStore(client, prefix), nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.Client.Get(ctx, r.Prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	return r.Client.Set(ctx, r.Prefix+key, value, 0).Err()
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.Client.Del(ctx, r.Prefix+key).Err()
}

func (r *RedisStore) Close() error { return r.Client.Close() }
