package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindow prunes, counts and conditionally records in one script so
// the read-prune-append sequence is atomic across replicas.
// Returns {allowed, remaining, reset_ms}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)

if count >= limit then
  local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
  return {0, 0, tonumber(oldest[2]) + window}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, limit - count - 1, now + window}
`)

// Redis is the sliding window on a shared Redis instance, used when the API
// runs more than one replica.
type Redis struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

// NewRedis creates a limiter whose keys are namespaced by prefix, keeping
// the auth and api buckets independent even for the same client IP.
func NewRedis(client redis.UniversalClient, prefix string, limit int, window time.Duration) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

func (r *Redis) Allow(ctx context.Context, identifier string) (Result, error) {
	now := time.Now()
	key := r.prefix + ":" + identifier
	member := strconv.FormatInt(now.UnixNano(), 10)

	vals, err := slidingWindow.Run(ctx, r.client,
		[]string{key},
		now.UnixMilli(),
		r.window.Milliseconds(),
		r.limit,
		member,
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit check: %w", err)
	}
	if len(vals) != 3 {
		return Result{}, fmt.Errorf("rate limit check: unexpected reply %v", vals)
	}

	return Result{
		Allowed:   vals[0] == 1,
		Limit:     r.limit,
		Remaining: int(vals[1]),
		Reset:     time.UnixMilli(vals[2]),
	}, nil
}

// Ping reports whether the backing Redis is reachable. Satisfies the health
// checker's Pinger.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
