package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rufuslabs/rufus/config"
	"github.com/rufuslabs/rufus/models"
	"golang.org/x/time/rate"
)

// limiterPool hands out one token bucket per caller identity and evicts
// buckets that have gone quiet, so the map cannot grow without bound.
type limiterPool struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rps     rate.Limit
	burst   int
	ttl     time.Duration
}

type bucket struct {
	limiter *rate.Limiter
	touched time.Time
}

func newLimiterPool(rps float64, burst int, ttl time.Duration) *limiterPool {
	return &limiterPool{
		buckets: make(map[string]*bucket),
		rps:     rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
	}
}

// allow consumes one token from the identity's bucket, creating the
// bucket on first sight.
func (p *limiterPool) allow(identity string) bool {
	p.mu.Lock()
	b, ok := p.buckets[identity]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(p.rps, p.burst)}
		p.buckets[identity] = b
	}
	b.touched = time.Now()
	p.mu.Unlock()

	return b.limiter.Allow()
}

// sweep drops buckets idle longer than the pool's ttl.
func (p *limiterPool) sweep(now time.Time) {
	cutoff := now.Add(-p.ttl)
	p.mu.Lock()
	for identity, b := range p.buckets {
		if b.touched.Before(cutoff) {
			delete(p.buckets, identity)
		}
	}
	p.mu.Unlock()
}

func (p *limiterPool) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		p.sweep(time.Now())
	}
}

// RateLimit returns per-caller token-bucket limiting middleware. The
// identity is the API key stamped by Auth, or the client IP when the
// auth gate is disabled.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	pool := newLimiterPool(cfg.RequestsPerSecond, cfg.Burst, time.Hour)
	go pool.sweepLoop(5 * time.Minute)

	return func(c *gin.Context) {
		identity := c.GetString(identityKey)
		if identity == "" {
			identity = c.ClientIP()
		}

		if !pool.allow(identity) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ScrapeResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeRateLimited,
					Message: "rate limit exceeded, please slow down",
				},
			})
			return
		}

		c.Next()
	}
}
