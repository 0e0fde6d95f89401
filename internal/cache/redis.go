package cache

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

var (
	newRedisClient = func(opts *redis.Options) *redis.Client {
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
	parseRedisURL = redis.ParseURL
)

// InitRedis connects Client to addr, which may be host:port or a redis:// URL.
// An empty addr leaves Client nil and disables caching.
func InitRedis(ctx context.Context, addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		log.Println("REDIS_URL not set, series cache disabled")
		return nil
	}

	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := parseRedisURL(addr)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	}

	client := newRedisClient(opts)
	if err := pingRedis(ctx, client); err != nil {
		client.Close()
		return fmt.Errorf("connect to Redis: %w", err)
	}
	Client = client
	log.Println("Connected to Redis")
	return nil
}

// Close releases the shared client, if any.
func Close() error {
	if Client == nil {
		return nil
	}
	err := Client.Close()
	Client = nil
	return err
}
