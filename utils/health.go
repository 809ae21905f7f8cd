package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Mongo     bool      `json:"mongo"`
	Redis     []bool    `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy reports whether the last check reached every backend.
func (h HealthStatus) Healthy() bool {
	if h.CheckedAt.IsZero() || !h.Mongo {
		return false
	}
	for _, ok := range h.Redis {
		if !ok {
			return false
		}
	}
	return true
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// StartHealthMonitor checks once immediately and then every interval until ctx is done.
func StartHealthMonitor(ctx context.Context, interval time.Duration, redisClients []*redis.Client, mongoClient *mongo.Client) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()

		redisHealth := make([]bool, 0, len(redisClients))
		for _, client := range redisClients {
			redisHealth = append(redisHealth, client.Ping(pingCtx).Err() == nil)
		}
		mongoHealthy := mongoClient != nil && mongoClient.Ping(pingCtx, nil) == nil

		mu.Lock()
		currentHealth = HealthStatus{
			Mongo:     mongoHealthy,
			Redis:     redisHealth,
			CheckedAt: time.Now(),
		}
		mu.Unlock()
	}

	check()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				check()
			}
		}
	}()
}
