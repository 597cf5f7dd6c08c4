package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisLimiter counts requests in a sorted set per key, scored by unix
// nanoseconds, so the window survives restarts and is shared across
// instances. A Redis failure fails open: blocking real traffic because the
// limiter store is down would be worse than letting a burst through.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	max    int
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, maxRequests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		prefix: "portfolio:ratelimit:",
		max:    maxRequests,
		window: window,
	}
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	now := time.Now()
	cutoff := now.Add(-l.window)
	redisKey := l.prefix + key

	pipe := l.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(cutoff.UnixNano(), 10))
	count := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warnf("rate limiter store unavailable, allowing request: %v", err)
		return true
	}

	if count.Val() >= int64(l.max) {
		return false
	}

	member := strconv.FormatInt(now.UnixNano(), 10)
	pipe = l.rdb.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warnf("failed to record rate limiter hit for %s: %v", key, err)
	}

	return true
}
