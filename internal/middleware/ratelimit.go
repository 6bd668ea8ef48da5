package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterPool hands out one token bucket per client key. Buckets idle
// for longer than idle are refilled anyway, so they are dropped on the
// next sweep; sweeps run at most once per idle period.
type limiterPool struct {
	mu        sync.Mutex
	m         map[string]*pooledLimiter
	rps       rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type pooledLimiter struct {
	*rate.Limiter
	lastSeen time.Time
}

func newLimiterPool(rps float64, burst int) *limiterPool {
	idle := time.Minute
	if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > idle {
		idle = refill
	}
	return &limiterPool{
		m:         make(map[string]*pooledLimiter),
		rps:       rate.Limit(rps),
		burst:     burst,
		idle:      idle,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if now.Sub(p.lastSweep) >= p.idle {
		for k, l := range p.m {
			if now.Sub(l.lastSeen) >= p.idle {
				delete(p.m, k)
			}
		}
		p.lastSweep = now
	}

	l, ok := p.m[key]
	if !ok {
		l = &pooledLimiter{Limiter: rate.NewLimiter(p.rps, p.burst)}
		p.m[key] = l
	}
	l.lastSeen = now
	return l.Limiter
}

func (p *limiterPool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}

// RateLimit rejects requests beyond rps (with the given burst) per client
// IP with 429. A non-positive rps disables limiting.
//
// Why a token bucket per IP rather than one global bucket?
//   - A single noisy client (a front-end stuck in a render loop) should
//     not starve a second tab or the native shell.
//   - golang.org/x/time/rate is already safe for concurrent use, so the
//     pool only has to guard the map, not each bucket.
//   - The burst lets a front-end load a whole view (profile, listings,
//     tags, inbox) in one go without tripping the limit.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	pool := newLimiterPool(rps, burst)

	return func(c *gin.Context) {
		if !pool.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests",
			})
			return
		}
		c.Next()
	}
}
