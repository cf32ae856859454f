// Package cache owns the shared Redis client. The Redis session store and
// anything else that needs Redis get their client here.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/storefront/config"
)

// RDB is the connected client, or nil before Connect succeeds.
var RDB *redis.Client

// Connect dials Redis using REDIS_ADDR / REDIS_PASSWORD and pings it.
func Connect(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}

	RDB = client
	return client, nil
}

// Close releases RDB if it was connected.
func Close() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}
