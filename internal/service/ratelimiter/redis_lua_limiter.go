// Package ratelimiter throttles provider dispatch with a token bucket
// shared through Redis, so every orchestrator instance draws from the
// same per-provider budget. Buckets refill continuously and the
// dispatcher takes one token per model attempt. Redis being down never
// stalls dispatch: the limiter fails open and provider-side 429
// handling takes over.
package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces bucket keys in Redis.
const keyPrefix = "ratelimit:"

// Limiter admits or defers one dispatch attempt for a logical key.
type Limiter interface {
	Allow(ctx context.Context, key string, cost int64) (allowed bool, retryAfter time.Duration, err error)
}

// ProviderKey builds the bucket key for a provider name.
func ProviderKey(provider string) string {
	return "provider:" + provider
}

// BucketConfig sizes one token bucket.
type BucketConfig struct {
	Capacity   int64
	RefillRate float64 // tokens per second
}

// PerMinute converts a requests-per-minute budget into a bucket holding
// a full minute of burst that refills continuously.
func PerMinute(perMinute int) BucketConfig {
	if perMinute <= 0 {
		return BucketConfig{}
	}
	return BucketConfig{
		Capacity:   int64(perMinute),
		RefillRate: float64(perMinute) / 60.0,
	}
}

// RedisLuaLimiter implements Limiter with a Lua script so the
// read-refill-consume cycle is atomic in Redis. An optional Postgres
// pool mirrors bucket state for dashboards and warm restarts.
type RedisLuaLimiter struct {
	redis  *redis.Client
	pool   *pgxpool.Pool
	script *redis.Script
	now    func() time.Time

	mu      sync.RWMutex
	buckets map[string]BucketConfig
}

// NewRedisLuaLimiter returns a limiter over rdb. A nil rdb yields a nil
// limiter, which admits everything; pool may be nil to skip mirroring.
func NewRedisLuaLimiter(rdb *redis.Client, pool *pgxpool.Pool, buckets map[string]BucketConfig) *RedisLuaLimiter {
	if rdb == nil {
		return nil
	}
	if buckets == nil {
		buckets = map[string]BucketConfig{}
	}
	return &RedisLuaLimiter{
		redis:   rdb,
		pool:    pool,
		script:  redis.NewScript(luaTokenBucketScript),
		now:     time.Now,
		buckets: buckets,
	}
}

const luaTokenBucketScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local cost = tonumber(ARGV[4])

local tokens = capacity
local last_refill = now

local data = redis.call("HMGET", key, "tokens", "last_refill")
if data[1] ~= false and data[1] ~= nil then
  tokens = tonumber(data[1])
end
if data[2] ~= false and data[2] ~= nil then
  last_refill = tonumber(data[2])
end

if last_refill == nil then
  last_refill = now
end

local delta = now - last_refill
if delta < 0 then
  delta = 0
end

tokens = math.min(capacity, tokens + delta * refill_rate)
last_refill = now

local allowed = 0
local retry_after = 0

if tokens >= cost then
  tokens = tokens - cost
  allowed = 1
else
  local shortage = cost - tokens
  if refill_rate > 0 then
    retry_after = shortage / refill_rate
  else
    retry_after = 0
  end
end

redis.call("HMSET", key, "tokens", tokens, "last_refill", last_refill)

return { allowed, tokens, last_refill, retry_after }
`

// bucketState is the decoded script reply.
type bucketState struct {
	allowed    bool
	tokens     float64
	lastRefill float64 // unix seconds with fraction
	retryAfter time.Duration
}

// Allow takes cost tokens from the key's bucket. Keys without a
// configured bucket are admitted unconditionally, as are all calls when
// Redis errors (the error is still returned so callers can observe it).
func (l *RedisLuaLimiter) Allow(ctx context.Context, key string, cost int64) (bool, time.Duration, error) {
	if l == nil || l.redis == nil {
		return true, 0, nil
	}
	l.mu.RLock()
	cfg, ok := l.buckets[key]
	l.mu.RUnlock()
	if !ok || cfg.Capacity <= 0 || cfg.RefillRate <= 0 {
		return true, 0, nil
	}
	if cost <= 0 {
		cost = 1
	}

	nowSec := float64(l.now().UnixNano()) / 1e9
	res, err := l.script.Run(ctx, l.redis, []string{keyPrefix + key}, cfg.Capacity, cfg.RefillRate, nowSec, cost).Result()
	if err != nil {
		slog.Warn("provider throttle unavailable, admitting dispatch",
			slog.String("key", key), slog.Any("error", err))
		return true, 0, err
	}

	st, ok := decodeScriptReply(res)
	if !ok {
		slog.Error("provider throttle script returned malformed reply",
			slog.String("key", key), slog.Any("result", res))
		return true, 0, nil
	}

	if l.pool != nil {
		l.mirrorBucket(ctx, key, cfg, st)
	}
	return st.allowed, st.retryAfter, nil
}

func decodeScriptReply(res any) (bucketState, bool) {
	vals, ok := res.([]any)
	if !ok || len(vals) < 4 {
		return bucketState{}, false
	}
	return bucketState{
		allowed:    toInt64(vals[0]) == 1,
		tokens:     toFloat64(vals[1]),
		lastRefill: toFloat64(vals[2]),
		retryAfter: time.Duration(toFloat64(vals[3]) * float64(time.Second)),
	}, true
}

func (l *RedisLuaLimiter) mirrorBucket(ctx context.Context, key string, cfg BucketConfig, st bucketState) {
	if l.pool == nil {
		return
	}
	sec := int64(st.lastRefill)
	nsec := int64((st.lastRefill - float64(sec)) * 1e9)
	if nsec < 0 {
		nsec = 0
	}
	_, err := l.pool.Exec(ctx,
		`INSERT INTO rate_limit_buckets (bucket_key, capacity, refill_rate, tokens, last_refill)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (bucket_key) DO UPDATE SET
		   capacity = EXCLUDED.capacity,
		   refill_rate = EXCLUDED.refill_rate,
		   tokens = EXCLUDED.tokens,
		   last_refill = EXCLUDED.last_refill`,
		key, cfg.Capacity, cfg.RefillRate, st.tokens, time.Unix(sec, nsec),
	)
	if err != nil {
		slog.Error("rate limit bucket mirror failed",
			slog.String("key", key), slog.Any("error", err))
	}
}

// WarmFromPostgres seeds Redis buckets from the mirror table so a fresh
// Redis does not grant every provider a full burst after restart.
func (l *RedisLuaLimiter) WarmFromPostgres(ctx context.Context) error {
	if l == nil || l.pool == nil || l.redis == nil {
		return nil
	}

	rows, err := l.pool.Query(ctx,
		`SELECT bucket_key, tokens, EXTRACT(EPOCH FROM last_refill) FROM rate_limit_buckets`)
	if err != nil {
		return fmt.Errorf("op=ratelimiter.WarmFromPostgres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var tokens, lastRefillSec float64
		if err := rows.Scan(&key, &tokens, &lastRefillSec); err != nil {
			return fmt.Errorf("op=ratelimiter.WarmFromPostgres: %w", err)
		}
		// Stored as unix seconds with fraction, the representation the
		// Lua script reads back.
		if err := l.redis.HMSet(ctx, keyPrefix+key, "tokens", tokens, "last_refill", lastRefillSec).Err(); err != nil {
			slog.Error("rate limit bucket warm failed",
				slog.String("key", key), slog.Any("error", err))
		}
	}
	return rows.Err()
}

// SetBucketConfig adds or resizes the bucket for key. Callers use it to
// apply limits a provider advertises at runtime. Safe for concurrent
// use; nil receivers are ignored.
func (l *RedisLuaLimiter) SetBucketConfig(key string, cfg BucketConfig) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.buckets == nil {
		l.buckets = map[string]BucketConfig{}
	}
	l.buckets[key] = cfg
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	default:
		return math.NaN()
	}
}
