// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"stayflow/config"

	"github.com/go-redis/redis/v8"
)

var (
	// ContactCacheClient stores guest contact records and conversation
	// labels written by the coalescing proxy's side tasks.
	ContactCacheClient *redis.Client
)

// InitContactCache initializes the Redis client backing contact upserts and
// conversation labeling (using DB from AppConfig).
func InitContactCache() {
	ContactCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisContactDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := ContactCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Contacts): %v", err)
	}
}

// GetContactCacheClient returns the contact cache client.
func GetContactCacheClient() *redis.Client {
	if ContactCacheClient == nil {
		InitContactCache()
	}
	return ContactCacheClient
}
