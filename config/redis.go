package config

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis connects the shared client. REDIS_URL may be a full
// redis:// / rediss:// URL or a bare host:port address.
func InitRedis() error {
	val := os.Getenv("REDIS_URL")
	if val == "" {
		val = os.Getenv("REDIS_ADDR")
	}
	if val == "" {
		return errors.New("REDIS_URL (or REDIS_ADDR) environment variable is not set")
	}

	if strings.Contains(val, "://") {
		opt, err := redis.ParseURL(val)
		if err != nil {
			return err
		}
		RedisClient = redis.NewClient(opt)
	} else {
		RedisClient = redis.NewClient(&redis.Options{
			Addr:     val,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return RedisClient.Ping(ctx).Err()
}
