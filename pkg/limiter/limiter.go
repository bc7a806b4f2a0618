package limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPRateLimiter keeps one token bucket per client IP. Used to throttle
// websocket handshake attempts; established connections are not limited.
type IPRateLimiter struct {
	mu     sync.RWMutex
	limits map[string]*rate.Limiter

	r rate.Limit
	b int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	l := &IPRateLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
	}

	go l.cleanup()

	return l
}

// Allow reports whether a request from the given IP may proceed.
func (l *IPRateLimiter) Allow(ip string) bool {
	return l.getLimiter(ip).Allow()
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.RLock()
	lim, ok := l.limits[ip]
	l.mu.RUnlock()

	if !ok {
		l.mu.Lock()
		lim, ok = l.limits[ip]
		if !ok {
			lim = rate.NewLimiter(l.r, l.b)
			l.limits[ip] = lim
		}
		l.mu.Unlock()
	}

	return lim
}

// cleanup drops limiters whose buckets are full again, so the map does not
// grow unboundedly with one entry per IP ever seen.
func (l *IPRateLimiter) cleanup() {
	ticker := time.NewTicker(3 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		for ip, lim := range l.limits {
			if lim.TokensAt(time.Now()) >= float64(lim.Burst()) {
				delete(l.limits, ip)
			}
		}
		l.mu.Unlock()
	}
}
