package rdx

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conn is the shared Redis client, used for event pub/sub and read-side caches.
var Conn = redis.NewClient(&redis.Options{
	Addr: redisAddr(),
})

func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// SetCachedJSON marshals v and stores it under key with a TTL.
func SetCachedJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return Conn.Set(ctx, key, data, ttl).Err()
}

// GetCachedJSON loads key into out. Returns false on miss or decode failure.
func GetCachedJSON(ctx context.Context, key string, out any) bool {
	data, err := Conn.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func InvalidateCache(ctx context.Context, keys ...string) {
	if len(keys) > 0 {
		Conn.Del(ctx, keys...)
	}
}
