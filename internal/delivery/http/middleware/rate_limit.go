package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/vineshkkmr/job-board/internal/delivery/http/response"
	"github.com/vineshkkmr/job-board/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix for Redis
	KeyPrefix string
	// Reject when Redis errors instead of falling back to memory
	FailClosed bool
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Redis returns the shared client or nil; nil means memory only
	Redis func() *goredis.Client
	Audit *security.SecurityLogger
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// GlobalRateLimitConfig is the per-IP budget for the whole API.
func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:ip:",
	}
}

// VerifyRateLimitConfig guards the token verification endpoint. It fails closed.
func VerifyRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:verify:",
		FailClosed: true,
	}
}

// memoryLimiter is the per-process fallback: one token bucket per key that
// refills Limit tokens per Window.
type memoryLimiter struct {
	limit     rate.Limit
	burst     int
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newMemoryLimiter(limit int, window time.Duration) *memoryLimiter {
	return &memoryLimiter{
		limit:     rate.Limit(float64(limit) / window.Seconds()),
		burst:     limit,
		buckets:   map[string]*bucket{},
		lastSweep: time.Now(),
	}
}

// allow reports whether key may proceed, the tokens left, and when the bucket is full again.
func (m *memoryLimiter) allow(key string, now time.Time) (bool, int, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) > 5*time.Minute {
		for k, b := range m.buckets {
			if now.Sub(b.lastSeen) > 5*time.Minute {
				delete(m.buckets, k)
			}
		}
		m.lastSweep = now
	}

	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.buckets[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)
	remaining := int(math.Max(0, math.Floor(tokens)))
	missing := float64(m.burst) - tokens
	resetAt := now.Add(time.Duration(missing / float64(m.limit) * float64(time.Second)))
	return allowed, remaining, resetAt
}

// checkRateLimitRedis runs the fixed-window counter script
func checkRateLimitRedis(ctx context.Context, client *goredis.Client, key string, window time.Duration) (int, time.Time, error) {
	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key}, int(window.Seconds())).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}

// RateLimitMiddleware uses Redis when available and an in-memory token bucket otherwise.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if config.Audit == nil {
		config.Audit = security.DefaultLogger()
	}
	memory := newMemoryLimiter(config.Limit, config.Window)

	return func(c *gin.Context) {
		key := config.KeyPrefix + config.KeyFunc(c)
		now := time.Now()

		var (
			allowed   bool
			remaining int
			resetAt   time.Time
			usedRedis bool
		)

		if config.Redis != nil {
			if client := config.Redis(); client != nil {
				count, reset, err := checkRateLimitRedis(c.Request.Context(), client, key, config.Window)
				switch {
				case err == nil:
					usedRedis = true
					allowed = count <= config.Limit
					remaining = config.Limit - count
					resetAt = reset
				case config.FailClosed:
					config.Audit.Log(c.Request.Context(), security.SecurityEvent{
						Event:       security.EventRateLimitTriggered,
						SubjectType: "system",
						IP:          c.ClientIP(),
						RequestID:   GetRequestID(c),
						Details:     map[string]interface{}{"error": err.Error()},
					})
					response.Abort(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.")
					return
				}
			}
		}
		if !usedRedis {
			allowed, remaining, resetAt = memory.allow(key, now)
		}
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if !allowed {
			retryAfter := int(math.Ceil(time.Until(resetAt).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			config.Audit.LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), GetRequestID(c), c.FullPath())
			response.Abort(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		c.Next()
	}
}
