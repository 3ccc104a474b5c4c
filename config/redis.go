package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisMu     sync.Mutex
)

// ConnectRedis initializes the shared Redis client from environment
// variables. Redis is opt-in: unless REDIS_ENABLED=true (and outside the
// test environment) it returns nil without error and the callers degrade
// to database-only session checks.
func ConnectRedis() (*redis.Client, error) {
	redisMu.Lock()
	defer redisMu.Unlock()

	if redisClient != nil {
		return redisClient, nil
	}

	cfg := LoadConfig()
	if cfg != nil && cfg.AppEnv == "test" {
		return nil, nil
	}
	if os.Getenv("REDIS_ENABLED") != "true" {
		return nil, nil
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	pass := os.Getenv("REDIS_PASSWORD")
	dbNum := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if v, e := strconv.Atoi(dbStr); e == nil {
			dbNum = v
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       dbNum,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	redisClient = rdb
	log.Printf("Connected to Redis at %s", addr)
	return redisClient, nil
}

// GetRedisClient returns the initialized Redis client (may be nil if ConnectRedis failed or not called).
func GetRedisClient() *redis.Client {
	redisMu.Lock()
	defer redisMu.Unlock()
	return redisClient
}
