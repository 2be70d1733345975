package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorageRepository keeps each namespace in one Redis hash that expires
// after ttl of inactivity. It backs the tab scope.
type RedisStorageRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStorageRepository creates a new instance of RedisStorageRepository.
func NewRedisStorageRepository(client *redis.Client, ttl time.Duration) *RedisStorageRepository {
	return &RedisStorageRepository{
		client: client,
		prefix: "kitchen:tab:",
		ttl:    ttl,
	}
}

func (r *RedisStorageRepository) hashKey(namespace string) string {
	return r.prefix + namespace
}

// Get reads a key.
func (r *RedisStorageRepository) Get(ctx context.Context, namespace, key string) (string, error) {
	val, err := r.client.HGet(ctx, r.hashKey(namespace), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s/%s from redis: %w", namespace, key, err)
	}
	return val, nil
}

// Set writes a key and refreshes the namespace expiry.
func (r *RedisStorageRepository) Set(ctx context.Context, namespace, key, value string) error {
	hk := r.hashKey(namespace)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, hk, key, value)
	if r.ttl > 0 {
		pipe.Expire(ctx, hk, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set %s/%s in redis: %w", namespace, key, err)
	}
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (r *RedisStorageRepository) Delete(ctx context.Context, namespace string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, r.hashKey(namespace), keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys in %s from redis: %w", namespace, err)
	}
	return nil
}

// Clear removes the whole namespace.
func (r *RedisStorageRepository) Clear(ctx context.Context, namespace string) error {
	if err := r.client.Del(ctx, r.hashKey(namespace)).Err(); err != nil {
		return fmt.Errorf("failed to clear %s in redis: %w", namespace, err)
	}
	return nil
}
