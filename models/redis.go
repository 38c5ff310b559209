package models

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InitRedis connects to Redis from a URL or a plain address. It returns nil
// when Redis is not configured or unreachable; callers then run without cache.
func InitRedis(log *zap.Logger, redisURL, addr, password string) *redis.Client {
	if redisURL == "" && addr == "" {
		log.Info("redis not configured, running without cache")
		return nil
	}

	var opt *redis.Options
	if redisURL != "" {
		parsedOpt, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Warn("failed to parse redis url, running without cache", zap.Error(err))
			return nil
		}
		opt = parsedOpt
	} else {
		opt = &redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Warn("redis connection failed, running without cache", zap.Error(err))
		client.Close()
		return nil
	}

	log.Info("redis connected", zap.String("addr", opt.Addr))
	return client
}

func CloseRedis(client *redis.Client) {
	if client != nil {
		client.Close()
	}
}
