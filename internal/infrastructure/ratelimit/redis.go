package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript trims the sorted set to the window, then admits and
// records the call when there is room. It runs atomically on the server.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
if redis.call('ZCARD', key) >= limit then
  return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return 1
`)

// RedisLimiter shares sliding windows across replicas through Redis.
type RedisLimiter struct {
	client   redis.UniversalClient
	policies PolicyFunc
	prefix   string
	now      func() time.Time
}

func NewRedisLimiter(client redis.UniversalClient, policies PolicyFunc) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		policies: policies,
		prefix:   "media-studio:ratelimit:",
		now:      time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	policy := l.policies(operationOf(key))
	now := l.now().UnixMilli()

	admitted, err := slidingWindowScript.Run(ctx, l.client,
		[]string{l.prefix + key},
		now, policy.Window.Milliseconds(), policy.Requests, fmt.Sprintf("%d-%s", now, uuid.NewString()),
	).Int()
	if err != nil {
		return false, fmt.Errorf("evaluate rate limit for %s: %w", key, err)
	}
	return admitted == 1, nil
}
