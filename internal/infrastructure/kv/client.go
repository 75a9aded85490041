package kv

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/nonomnouns/clankpad/internal/config"
)

// NewClient creates a Redis client and verifies the connection.
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
