package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterPool tracks one token bucket per client IP. Entries idle for longer
// than maxIdle are evicted so the map does not grow with every IP ever seen.
type limiterPool struct {
	mu      sync.Mutex
	entries map[string]*poolEntry
	refill  rate.Limit
	burst   int
}

type poolEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const maxIdle = 10 * time.Minute

var (
	// apiPool throttles general API traffic.
	apiPool = newLimiterPool(rate.Every(time.Second), 100)

	// authPool refills far slower, for login and password-reset routes.
	authPool = newLimiterPool(rate.Every(10*time.Second), 100)
)

func newLimiterPool(refill rate.Limit, burst int) *limiterPool {
	pool := &limiterPool{
		entries: make(map[string]*poolEntry),
		refill:  refill,
		burst:   burst,
	}
	go pool.evictIdle()
	return pool
}

func (p *limiterPool) allow(ip string) bool {
	p.mu.Lock()
	entry, ok := p.entries[ip]
	if !ok {
		entry = &poolEntry{limiter: rate.NewLimiter(p.refill, p.burst)}
		p.entries[ip] = entry
	}
	entry.lastSeen = time.Now()
	limiter := entry.limiter
	p.mu.Unlock()

	return limiter.Allow()
}

func (p *limiterPool) evictIdle() {
	for range time.Tick(time.Minute) {
		cutoff := time.Now().Add(-maxIdle)
		p.mu.Lock()
		for ip, entry := range p.entries {
			if entry.lastSeen.Before(cutoff) {
				delete(p.entries, ip)
			}
		}
		p.mu.Unlock()
	}
}

func (p *limiterPool) reset() {
	p.mu.Lock()
	p.entries = make(map[string]*poolEntry)
	p.mu.Unlock()
}

// RateLimitMiddleware applies the general per-IP rate limit for all routes.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !apiPool.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please slow down.",
			})
			return
		}
		c.Next()
	}
}

// LoginRateLimitMiddleware applies the stricter per-IP limit for auth routes.
func LoginRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authPool.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many authentication attempts. Please wait and try again.",
			})
			return
		}
		c.Next()
	}
}
