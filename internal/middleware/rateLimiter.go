package middleware

import (
	"sync"
	"time"

	"github.com/akolanti/propdocs/internal/config"
	"golang.org/x/time/rate"
)

var limiterInstance = NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND, config.RateLimiterIdleTTL)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client address. Buckets not
// used for idleTTL are dropped on the next sweep.
type IPRateLimiter struct {
	ips       map[string]*visitor
	mu        sync.Mutex
	rateLimit rate.Limit
	burstRate int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int, idleTTL time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		ips:       make(map[string]*visitor),
		rateLimit: r,
		burstRate: b,
		idleTTL:   idleTTL,
		now:       time.Now,
	}
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	i.sweepLocked(now)

	v, exists := i.ips[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.rateLimit, i.burstRate)}
		i.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Allow reports whether a request from ip may proceed now.
func (i *IPRateLimiter) Allow(ip string) bool {
	return i.GetLimiter(ip).Allow()
}

func (i *IPRateLimiter) Tracked() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

func (i *IPRateLimiter) sweepLocked(now time.Time) {
	if i.idleTTL <= 0 || now.Sub(i.lastSweep) < i.idleTTL {
		return
	}
	i.lastSweep = now
	for ip, v := range i.ips {
		if now.Sub(v.lastSeen) > i.idleTTL {
			delete(i.ips, ip)
		}
	}
}

//TODO: move the per-IP limiters into redis so replicas share one budget
