package database

import (
	"errors"
	"time"

	"github.com/go-redis/cache/v8"
	"github.com/go-redis/redis/v8"
	"github.com/mnorov/todo-api/config"
)

var (
	redisClient *redis.Client
	userCache   *cache.Cache
)

// GetUserCache returns the cache the auth middleware uses to memoize
// user lookups. Nil until StartRedis succeeds.
func GetUserCache() *cache.Cache {
	return userCache
}

func StartRedis() error {
	url := config.GetEnv("REDIS_URL")
	if url == "" {
		return errors.New("you must set your 'REDIS_URL' environmental variable")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return err
	}
	redisClient = redis.NewClient(opts)

	ctx, cancel := NewDBContext(5 * time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}

	userCache = cache.New(&cache.Options{
		Redis:      redisClient,
		LocalCache: cache.NewTinyLFU(1000, time.Minute),
	})
	return nil
}

func CloseRedis() {
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
