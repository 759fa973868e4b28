package config

import (
	"context"
	"log"
	"os"
	"time"

	redis "github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// InitRedis connects the optional balance-snapshot cache. Callers must treat
// a nil Redis as "cache disabled" and read through to the database.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("Redis not configured, balance cache disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Username:    os.Getenv("REDIS_USER"),
		Password:    os.Getenv("REDIS_PASSWORD"),
		DB:          0,
		MaxRetries:  5,
		DialTimeout: 10 * time.Second,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis ping failed, balance cache disabled: %v", err)
		return
	}

	Redis = client
	log.Printf("Successfully connected to Redis at %s", addr)
}
