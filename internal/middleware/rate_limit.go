package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubsite/internal/app/models/dto"
	"golang.org/x/time/rate"
)

const (
	// visitorIdle is how long an address may stay silent before its limiter is dropped
	visitorIdle = 10 * time.Minute
	pruneEvery  = time.Minute
	// maxVisitors bounds the map; past it the least recently seen address is evicted
	maxVisitors = 10000
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client address
type IPRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       rate.Limit
	burst     int
	lastPrune time.Time
	capacity  int
	now       func() time.Time
}

// NewIPRateLimiter creates a limiter allowing rps requests per second per address
// with bursts of burst
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		capacity: maxVisitors,
		now:      time.Now,
	}
}

func (l *IPRateLimiter) prune(now time.Time) {
	for addr, v := range l.visitors {
		if now.Sub(v.lastSeen) > visitorIdle {
			delete(l.visitors, addr)
		}
	}
	l.lastPrune = now
}

func (l *IPRateLimiter) evictOldest() {
	for len(l.visitors) > 0 && len(l.visitors) >= l.capacity {
		var oldest string
		var seen time.Time
		for addr, v := range l.visitors {
			if oldest == "" || v.lastSeen.Before(seen) {
				oldest, seen = addr, v.lastSeen
			}
		}
		delete(l.visitors, oldest)
	}
}

// Allow reports whether ip may make another request now
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) > pruneEvery {
		l.prune(now)
	}

	v, ok := l.visitors[ip]
	if !ok {
		if len(l.visitors) >= l.capacity {
			l.prune(now)
			l.evictOldest()
		}
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// RateLimit rejects callers over their budget with 429. Buckets are keyed on
// gin's ClientIP, which only reads forwarding headers sent by trusted proxies.
func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse("Too many requests, please try again later"))
			return
		}
		c.Next()
	}
}
