package infra

import (
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects the client used for webhook event-id deduplication.
func InitRedis() *redis.Client {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("Error parsing REDIS_URL: %v", err)
	}

	return redis.NewClient(opts)
}
