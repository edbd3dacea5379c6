package types

import (
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// Environment holds shared clients. RedisClient may be nil (caching and rate limiting are then disabled).
type Environment struct {
	RedisClient *redis.Client
	Cron        *cron.Cron
}

func NewEnvironment(redisClient *redis.Client) *Environment {
	cr := cron.New()
	return &Environment{
		RedisClient: redisClient,
		Cron:        cr,
	}
}
