// Package ratelimit limits redemption attempts per claimant with a token bucket kept in redis.
package ratelimit

import (
	"context"
	"errors"
	"math"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "chinpay:redeem:"

// tokens are returned in milli-tokens, redis truncates lua numbers to integers
const tokenBucketScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local nowData = redis.call("TIME")
local now = (nowData[1] * 1000) + math.floor(nowData[2] / 1000)

local data = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])

if tokens == nil then
  tokens = burst
else
  local delta = now - ts
  if delta < 0 then
    delta = 0
  end
  tokens = math.min(burst, tokens + (delta / 1000) * rate)
end

local allowed = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", now)
redis.call("PEXPIRE", KEYS[1], ttl)

return {allowed, math.floor(tokens * 1000)}
`

// TokenBucket is per-key token bucket. Nil *TokenBucket allows everything.
type TokenBucket struct {
	client redis.Scripter
	script *redis.Script
	rate   float64
	burst  int
}

// Result is outcome of Allow
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// NewTokenBucket creates limiter refilling rate tokens per second up to burst
func NewTokenBucket(client redis.Scripter, rate float64, burst int) (*TokenBucket, error) {
	if client == nil {
		return nil, nil
	}
	if rate <= 0 {
		return nil, errors.New("rate limiter rate must be positive")
	}
	if burst <= 0 {
		return nil, errors.New("rate limiter burst must be positive")
	}

	return &TokenBucket{
		client: client,
		script: redis.NewScript(tokenBucketScript),
		rate:   rate,
		burst:  burst,
	}, nil
}

// Allow takes one token from bucket of key
func (t *TokenBucket) Allow(ctx context.Context, key string) (Result, error) {
	if t == nil {
		return Result{Allowed: true}, nil
	}
	if key == "" {
		return Result{}, errors.New("rate limiter key is empty")
	}

	res, err := t.script.Run(ctx, t.client, []string{keyPrefix + key},
		t.rate,
		t.burst,
		bucketTTL(t.rate, t.burst).Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Result{}, err
	}
	if len(res) < 2 {
		return Result{}, errors.New("invalid rate limit script response")
	}

	remaining := float64(res[1]) / 1000
	r := Result{
		Allowed:   res[0] == 1,
		Remaining: int(remaining),
	}
	if !r.Allowed {
		r.RetryAfter = retryAfter(remaining, t.rate)
	}

	return r, nil
}

// retryAfter returns time needed to refill one token
func retryAfter(tokens, rate float64) time.Duration {
	needed := 1 - tokens
	if needed <= 0 || rate <= 0 {
		return 0
	}
	return time.Duration(math.Ceil(needed / rate * float64(time.Second)))
}

func bucketTTL(rate float64, burst int) time.Duration {
	seconds := math.Ceil(float64(burst) / rate * 2)
	if seconds < 1 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second
}
