package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitRule is a token bucket refilled at Rate tokens per second up to Burst.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// Enabled reports whether the rule limits anything.
func (r RateLimitRule) Enabled() bool {
	return r.Rate > 0 && r.Burst > 0
}

// RateLimitConfig configures the RateLimit middleware.
type RateLimitConfig struct {
	// Scope separates buckets of different routes sharing a limiter.
	Scope   string
	Rule    RateLimitRule
	KeyFor  func(*gin.Context) string
	Limiter *RateLimiter
}

type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	now     func() time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

// RateLimit throttles requests per client IP, or per KeyFor when set.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.Scope == "" {
		cfg.Scope = "default"
	}
	return func(c *gin.Context) {
		if !cfg.Rule.Enabled() {
			c.Next()
			return
		}
		principal := ""
		if cfg.KeyFor != nil {
			principal = strings.TrimSpace(cfg.KeyFor(c))
		}
		if principal == "" {
			principal = strings.TrimSpace(c.ClientIP())
		}
		allowed, retryAfter := cfg.Limiter.Allow(principal+"|"+cfg.Scope, cfg.Rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterSeconds := int(math.Ceil(retryAfter.Seconds()))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
	}
}

func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || !rule.Enabled() {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{
			tokens: float64(rule.Burst),
			last:   now,
		}
		l.buckets[key] = bucket
	}
	elapsed := now.Sub(bucket.last).Seconds()
	if elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens -= 1
		return true, 0
	}
	waitSec := (1 - bucket.tokens) / rule.Rate
	if waitSec < 0 {
		waitSec = 0
	}
	return false, time.Duration(math.Ceil(waitSec*1000.0)) * time.Millisecond
}
