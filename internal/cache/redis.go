package cache

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces every cache entry so the service can share a
// Redis instance with other deployments.
const keyPrefix = "remitiq:"

// Client is the shared connection handed to the intelligence cache.
var Client *redis.Client

// InitRedis connects using REDIS_URL. Hosted Redis hands out redis://
// URLs while local setups use a bare host:port; both are accepted.
func InitRedis(ctx context.Context) {
	target := os.Getenv("REDIS_URL")
	if target == "" {
		target = "localhost:6379"
	}
	opts, err := redisOptions(target)
	if err != nil {
		log.Fatalf("invalid REDIS_URL %q: %v", target, err)
	}
	Client = redis.NewClient(opts)
	if err := Client.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")
}

func redisOptions(target string) (*redis.Options, error) {
	if strings.Contains(target, "://") {
		return redis.ParseURL(target)
	}
	return &redis.Options{Addr: target}, nil
}
