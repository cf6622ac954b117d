package database

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis connects to redis when an address is configured. Returns nil when
// addr is empty or the server is unreachable; callers fall back to in-process
// alternatives.
func NewRedis(addr string) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis ping failed, continuing without redis: %v", err)
		_ = client.Close()
		return nil
	}
	return client
}
