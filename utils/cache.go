package utils

import (
	"context"
	"fmt"
	"time"

	"schooltrip/config"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient opens a client on the configured Redis server and the given DB.
func NewRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis db %d: %w", db, err)
	}
	return client, nil
}
