package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the latest probe of the stores the scheduling subsystem
// depends on: the booking database, the listing cache and the rate-limit
// counters.
type HealthStatus struct {
	Mongo          bool      `json:"mongo"`
	CacheRedis     bool      `json:"redis_cache"`
	RateLimitRedis bool      `json:"redis_rate_limit"`
	CheckedAt      time.Time `json:"checked_at"`
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

// StartHealthMonitor probes the stores once a minute and keeps the snapshot
// in memory. Each probe is bounded so a hung store cannot stall the loop.
func StartHealthMonitor(cache, rateLimit *redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

			status := HealthStatus{
				Mongo:          mongoClient.Ping(ctx, nil) == nil,
				CacheRedis:     cache.Ping(ctx).Err() == nil,
				RateLimitRedis: rateLimit.Ping(ctx).Err() == nil,
				CheckedAt:      time.Now(),
			}
			cancel()

			mu.Lock()
			currentHealth = status
			mu.Unlock()
		}
	}()
}
