package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/SanyamSharma26/universal-website-scraper/config"
	"github.com/SanyamSharma26/universal-website-scraper/models"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*limiterEntry
	rps     rate.Limit
	burst   int
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	rl := &rateLimiter{
		clients: make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *rateLimiter) getLimiter(identity string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.clients[identity]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[identity] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// cleanupLoop evicts identities idle for more than an hour.
func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		for identity, entry := range rl.clients {
			if time.Since(entry.lastSeen) > time.Hour {
				delete(rl.clients, identity)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit returns per-client rate limiting middleware. Clients are
// identified by API key when authentication set one, falling back to
// the client IP.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	rl := newRateLimiter(cfg.RequestsPerSecond, cfg.Burst)

	return func(c *gin.Context) {
		identity := c.ClientIP()
		if key, ok := c.Get("api_key"); ok {
			if s, ok := key.(string); ok && s != "" {
				identity = s
			}
		}

		if !rl.getLimiter(identity).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeRateLimited,
					Message: "rate limit exceeded, slow down",
				},
			})
			return
		}

		c.Next()
	}
}
