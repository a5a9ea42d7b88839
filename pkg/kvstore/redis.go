package kvstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each key as a plain Redis string without expiry.
type RedisBackend struct {
	client redis.Cmdable
	prefix string
}

func NewRedisBackend(client redis.Cmdable, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, prefixed(r.prefix, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (r *RedisBackend) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, prefixed(r.prefix, key), value, 0).Err()
}

func (r *RedisBackend) Remove(ctx context.Context, key string) error {
	return r.client.Del(ctx, prefixed(r.prefix, key)).Err()
}
