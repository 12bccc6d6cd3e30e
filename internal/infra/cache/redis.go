// Package cache provides the Redis connection used as a cache medium.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/txcache/config"
)

const pingTimeout = 5 * time.Second

// NewRedisClient connects to Redis and verifies the connection.
// Password and DB from the config override the ones in the URL when set.
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	slog.Info("Redis connection established", "addr", opts.Addr, "db", opts.DB)

	return client, nil
}

// HealthChecker returns a check reporting whether client answers a ping.
func HealthChecker(client *redis.Client) func() bool {
	return func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		return client.Ping(ctx).Err() == nil
	}
}
