package redis

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

func InitRedis() {
	Client = redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
		DB:   0,
	})

	// Test connection
	_, err := Client.Ping(Ctx).Result()
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	fmt.Println("✅ Connected to Redis")
}

// GetCached returns the cached payload for key, or "" when the client is
// not initialized or the key is missing. Handlers treat any miss the same
// way and fall through to the database.
func GetCached(key string) string {
	if Client == nil {
		return ""
	}
	val, err := Client.Get(Ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// SetCached stores a payload under key with the given TTL. Best effort: a
// nil client or a write error is silently ignored, the cache is an
// optimization only.
func SetCached(key, payload string, ttl time.Duration) {
	if Client == nil {
		return
	}
	Client.Set(Ctx, key, payload, ttl)
}

// Invalidate drops keys after a write so the next read repopulates them.
func Invalidate(keys ...string) {
	if Client == nil {
		return
	}
	Client.Del(Ctx, keys...)
}
