package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis (default: "rl:ip:")
	KeyPrefix string
	// Whether to fail closed (reject) when Redis is unavailable
	FailClosed bool
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	count   int
	resetAt time.Time
	mu      sync.Mutex
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

// RateLimiter counts requests in Redis when a client is configured and in
// process memory otherwise (or when Redis fails and the route fails open).
type RateLimiter struct {
	client *goredis.Client
	memory sync.Map
	now    func() time.Time

	cleanupOnce sync.Once
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewRateLimiter creates a limiter. client may be nil.
func NewRateLimiter(client *goredis.Client) *RateLimiter {
	return &RateLimiter{
		client: client,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
}

// Stop ends the background cleanup of in-memory counters.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// startCleanup runs a background goroutine to clean up expired entries
func (rl *RateLimiter) startCleanup() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-rl.stop:
				return
			case <-ticker.C:
				now := rl.now()
				rl.memory.Range(func(key, value any) bool {
					entry := value.(*rateLimitEntry)
					entry.mu.Lock()
					if now.After(entry.resetAt) {
						rl.memory.Delete(key)
					}
					entry.mu.Unlock()
					return true
				})
			}
		}
	}()
}

func byIP(c *gin.Context) string { return c.ClientIP() }

// byUserOrIP keys authenticated routes by user so that a shared NAT does not
// throttle unrelated users.
func byUserOrIP(c *gin.Context) string {
	if id := c.GetString(keyUserID); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}

// LoginRateLimitConfig is the strict per-IP budget for /login.
func LoginRateLimitConfig(limit int, window time.Duration, failClosed bool) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:login:", FailClosed: failClosed, KeyFunc: byIP}
}

// RegisterRateLimitConfig is the per-IP budget for /register.
func RegisterRateLimitConfig(limit int, window time.Duration, failClosed bool) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:register:", FailClosed: failClosed, KeyFunc: byIP}
}

// UploadRateLimitConfig returns config for file upload endpoints
func UploadRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:upload:", KeyFunc: byUserOrIP}
}

// Middleware enforces config on the routes it is attached to.
func (rl *RateLimiter) Middleware(config RateLimitConfig) gin.HandlerFunc {
	rl.cleanupOnce.Do(rl.startCleanup)
	if config.KeyFunc == nil {
		config.KeyFunc = byIP
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rl:ip:"
	}

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)

		var count int
		var resetAt time.Time
		var err error

		if rl.client != nil {
			count, resetAt, err = rl.checkRedis(c.Request.Context(), fullKey, config)
			if err != nil {
				if config.FailClosed {
					logRateLimitError(c, "redis_error", err)
					response.Abort(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.")
					return
				}
				count, resetAt = rl.checkInMemory(fullKey, config)
			}
		} else {
			count, resetAt = rl.checkInMemory(fullKey, config)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(resetAt.Sub(rl.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			logRateLimitTriggered(c)
			response.Abort(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(config.Limit-count, 0)))
		c.Next()
	}
}

// checkRedis checks rate limit using Redis with atomic Lua script
func (rl *RateLimiter) checkRedis(ctx context.Context, key string, config RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := max(int(config.Window.Seconds()), 1)

	result, err := rl.client.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]any)
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), rl.now().Add(time.Duration(ttl) * time.Second), nil
}

// checkInMemory checks rate limit using in-memory store (fallback)
func (rl *RateLimiter) checkInMemory(key string, config RateLimitConfig) (int, time.Time) {
	now := rl.now()
	entryI, _ := rl.memory.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(config.Window)})
	entry := entryI.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(config.Window)
	}
	entry.count++

	return entry.count, entry.resetAt
}

// logRateLimitTriggered logs when rate limiting is triggered
func logRateLimitTriggered(c *gin.Context) {
	security.DefaultLogger().LogRateLimitTriggered(
		c.Request.Context(),
		c.ClientIP(),
		c.GetHeader("User-Agent"),
		c.GetString(response.RequestIDKey),
		c.FullPath(),
	)
}

// logRateLimitError logs Redis errors
func logRateLimitError(c *gin.Context, errorType string, err error) {
	security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventRateLimitTriggered,
		SubjectType: "system",
		IP:          c.ClientIP(),
		RequestID:   c.GetString(response.RequestIDKey),
		Details: map[string]any{
			"error_type": errorType,
			"error":      err.Error(),
		},
	})
}
