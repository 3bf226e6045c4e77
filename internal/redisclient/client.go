package redisclient

import (
	"context"
	"fmt"
	"time"

	"quote-templater/internal/config"

	"github.com/redis/go-redis/v9"
)

// New creates a Redis client from configuration.
func New(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping checks the server answers within timeout and returns its reply.
func Ping(ctx context.Context, rdb *redis.Client, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, err := rdb.Ping(ctx).Result()
	if err != nil {
		return "", fmt.Errorf("redis ping %s: %w", rdb.Options().Addr, err)
	}
	return res, nil
}
