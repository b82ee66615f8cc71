package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps a token bucket per client IP. Buckets are created on
// first sight and reaped once fully refilled, so an idle client costs nothing.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewRateLimiter creates a per-IP limiter allowing limit requests per second
// with the given burst, and starts the background reaper.
func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*rate.Limiter),
		limit:   limit,
		burst:   burst,
	}
	go rl.reap(time.Minute)
	return rl
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.clients[ip]
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.clients[ip] = limiter
	}
	return limiter
}

// reap drops buckets that have fully refilled. A full bucket means the client
// has been quiet for at least burst/limit seconds.
func (rl *RateLimiter) reap(every time.Duration) {
	for range time.Tick(every) {
		rl.mu.Lock()
		for ip, limiter := range rl.clients {
			if limiter.Tokens() >= float64(rl.burst) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware rejects requests over the per-IP limit with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
