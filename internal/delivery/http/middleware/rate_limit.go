package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"koryob-backend/pkg/apperror"
	"koryob-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Sustained requests per minute per key
	PerMinute int
	// Requests allowed at once before the sustained rate applies
	Burst int
	// Key prefix for Redis
	KeyPrefix string
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Whether to fail closed (reject) when Redis is unavailable
	FailClosed bool
	// Idle local limiters older than this are dropped
	CleanupInterval time.Duration
}

// AuthRateLimitConfig returns strict config for authentication endpoints
func AuthRateLimitConfig(perMinute, burst int) RateLimitConfig {
	return RateLimitConfig{
		PerMinute:       perMinute,
		Burst:           burst,
		KeyPrefix:       "rl:auth:",
		FailClosed:      false,
		CleanupInterval: 5 * time.Minute,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
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

type keyLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter counts requests in Redis when a client is given, so limits hold
// across replicas. Without Redis, or when Redis fails and FailClosed is off,
// it uses per-key token buckets in memory.
type RateLimiter struct {
	config RateLimitConfig
	redis  goredis.Scripter

	mu     sync.Mutex
	local  map[string]*keyLimiter
	stopCh chan struct{}
}

// NewRateLimiter starts a cleanup goroutine; call Stop on shutdown.
func NewRateLimiter(config RateLimitConfig, redisClient goredis.Scripter) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if config.PerMinute <= 0 {
		config.PerMinute = 1
	}
	if config.Burst <= 0 {
		config.Burst = config.PerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	rl := &RateLimiter{
		config: config,
		redis:  redisClient,
		local:  make(map[string]*keyLimiter),
		stopCh: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.config.KeyFunc(c)

		allowed, retryAfter, err := rl.allow(c.Request.Context(), key)
		if err != nil {
			logger.Log.Error("Rate limit check failed", "error", err, "key", key)
			_ = c.Error(apperror.New(http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", err))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.PerMinute))
		if !allowed {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logger.Log.Warn("Rate limit exceeded", "key", key, "path", c.FullPath())
			_ = c.Error(apperror.TooManyRequests("Rate limit exceeded. Please try again later."))
			c.Abort()
			return
		}

		c.Next()
	}
}

// allow reports whether the request may proceed and, if not, how many seconds
// to wait.
func (rl *RateLimiter) allow(ctx context.Context, key string) (bool, int, error) {
	if rl.redis != nil {
		count, ttl, err := rl.checkRedis(ctx, rl.config.KeyPrefix+key)
		if err == nil {
			// Redis counts a fixed window; burst on top of the per-minute rate.
			limit := max(rl.config.PerMinute, rl.config.Burst)
			return count <= limit, max(ttl, 1), nil
		}
		if rl.config.FailClosed {
			return false, 0, err
		}
		logger.Log.Warn("Redis rate limit unavailable, using local limiter", "error", err)
	}

	if rl.localLimiter(key).Allow() {
		return true, 0, nil
	}
	perSecond := float64(rl.config.PerMinute) / 60
	return false, max(int(math.Ceil(1/perSecond)), 1), nil
}

// checkRedis checks rate limit using Redis with atomic Lua script
func (rl *RateLimiter) checkRedis(ctx context.Context, key string) (int, int, error) {
	result, err := rl.redis.Eval(ctx, rateLimitLuaScript, []string{key}, 60).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, 0, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)
	return int(count), int(ttl), nil
}

func (rl *RateLimiter) localLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if kl, ok := rl.local[key]; ok {
		kl.lastAccess = time.Now()
		return kl.limiter
	}
	limiter := rate.NewLimiter(rate.Limit(float64(rl.config.PerMinute)/60), rl.config.Burst)
	rl.local[key] = &keyLimiter{limiter: limiter, lastAccess: time.Now()}
	return limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, kl := range rl.local {
		if now.Sub(kl.lastAccess) > ttl {
			delete(rl.local, key)
		}
	}
}
