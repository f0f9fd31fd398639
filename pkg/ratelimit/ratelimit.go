// Package ratelimit throttles requests per caller with a token bucket kept in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/redline/pkg/handlers"
	"github.com/JaimeStill/redline/pkg/lifecycle"
)

// The bucket state lives in a hash so refill and take happen atomically.
var bucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
    tokens = capacity
    last_refill = now_ms
end

local elapsed = math.max(0, now_ms - last_refill)
local intervals = math.floor(elapsed / interval_ms)
if intervals > 0 then
    tokens = math.min(capacity, tokens + (intervals * refill_tokens))
    last_refill = last_refill + (intervals * interval_ms)
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
    allowed = 1
    tokens = tokens - 1
else
    retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// Decision is the outcome of taking one token.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// KeyFunc derives the bucket identity for a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// System applies per-key request limits.
type System interface {
	// Start registers Redis ping and close hooks. No-op when disabled.
	Start(lc *lifecycle.Coordinator) error
	// Allow takes one token from the bucket named key.
	Allow(ctx context.Context, key string) (Decision, error)
	// Middleware rejects requests whose bucket is empty with 429.
	// Redis failures let the request through.
	Middleware(keyFn KeyFunc) func(http.Handler) http.Handler
}

type limiter struct {
	client *redis.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a limiter. When cfg.Enabled is false the returned System lets
// every request through without contacting Redis.
func New(cfg *Config, logger *slog.Logger) System {
	l := &limiter{
		cfg:    *cfg,
		logger: logger.With("system", "ratelimit"),
	}
	if cfg.Enabled {
		l.client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}
	return l
}

func (l *limiter) Start(lc *lifecycle.Coordinator) error {
	if l.client == nil {
		l.logger.Info("rate limiting disabled")
		return nil
	}

	l.logger.Info("starting rate limiter", "addr", l.cfg.Addr)

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), 2*time.Second)
		defer cancel()

		if err := l.client.Ping(ctx).Err(); err != nil {
			l.logger.Warn("redis ping failed, requests will not be limited until it recovers", "error", err)
			return
		}
		l.logger.Info("redis connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := l.client.Close(); err != nil {
			l.logger.Error("redis close failed", "error", err)
			return
		}
		l.logger.Info("redis connection closed")
	})

	return nil
}

func (l *limiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.client == nil {
		return Decision{Allowed: true, Remaining: int64(l.cfg.Capacity)}, nil
	}

	vals, err := bucket.Run(
		ctx, l.client,
		[]string{l.cfg.Prefix + ":" + key},
		time.Now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.RefillTokens,
		l.cfg.RefillIntervalDuration().Milliseconds(),
		int64(l.cfg.TTLDuration()/time.Second),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("run bucket script: %w", err)
	}
	if len(vals) != 3 {
		return Decision{}, fmt.Errorf("unexpected bucket result: %v", vals)
	}

	return Decision{
		Allowed:    vals[0] == 1,
		Remaining:  vals[1],
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

func (l *limiter) Middleware(keyFn KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l.client == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			d, err := l.Allow(r.Context(), key)
			if err != nil {
				l.logger.Warn("rate limit check failed", "key", key, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Capacity))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))

			if !d.Allowed {
				secs := int(math.Ceil(d.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				l.logger.Info("rate limited", "key", key, "retry_after", secs)
				handlers.RespondJSON(w, http.StatusTooManyRequests, handlers.ErrorResponse{
					Error: "rate limit exceeded",
					Code:  "rate_limited",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
