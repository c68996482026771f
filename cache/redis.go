package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// The cache is optional. When redis is unreachable client stays nil and every
// read is a miss, so callers fall through to the database.
var client *redis.Client

var errNotInitialized = errors.New("cache: redis client not initialized")

// InitFromEnv connects to redis using REDIS_URL, or REDIS_ADDR plus
// credentials for local development.
func InitFromEnv() error {
	opts, err := optionsFromEnv()
	if err != nil {
		return err
	}

	c := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: connect to redis: %w", err)
	}

	client = c
	return nil
}

func optionsFromEnv() (*redis.Options, error) {
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("cache: parse REDIS_URL: %w", err)
		}
		return opts, nil
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	return &redis.Options{
		Addr:     addr,
		Username: os.Getenv("REDIS_USERNAME"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}, nil
}

// Get returns the cached value, or "" on a miss.
func Get(ctx context.Context, key string) (string, error) {
	if client == nil {
		return "", errNotInitialized
	}
	val, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if client == nil {
		return errNotInitialized
	}
	return client.Set(ctx, key, value, ttl).Err()
}

func Delete(ctx context.Context, key string) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, key).Err()
}

// DeleteByPrefix drops every key under the prefix. A nil client is a no-op.
func DeleteByPrefix(ctx context.Context, prefix string) error {
	if client == nil {
		return nil
	}

	iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
