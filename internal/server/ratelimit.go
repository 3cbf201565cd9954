package server

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/osse101/ThrowBot_Go/internal/logger"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands every client IP its own token bucket
type IPRateLimiter struct {
	mu       sync.Mutex
	entries  map[string]*clientLimiter
	rate     rate.Limit
	burst    int
	lifetime time.Duration
}

// NewIPRateLimiter returns nil, meaning unlimited, when either bound is not positive
func NewIPRateLimiter(perSecond float64, burst int) *IPRateLimiter {
	if perSecond <= 0 || burst <= 0 {
		return nil
	}
	return &IPRateLimiter{
		entries:  make(map[string]*clientLimiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		lifetime: RateLimiterIdleLifetime,
	}
}

// Reserve takes a token for ip. When none is available it returns false and how long until one is.
func (l *IPRateLimiter) Reserve(ip string) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[ip]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.entries[ip] = entry
	}
	entry.lastSeen = now

	if len(l.entries) > RateLimiterSweepSize {
		l.cleanup(now)
	}

	if entry.limiter.AllowN(now, 1) {
		return true, 0
	}
	r := entry.limiter.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return false, wait
}

// cleanup drops limiters idle for longer than the lifetime. Caller must hold the mutex.
func (l *IPRateLimiter) cleanup(now time.Time) {
	expireBefore := now.Add(-l.lifetime)
	for ip, entry := range l.entries {
		if entry.lastSeen.Before(expireBefore) {
			delete(l.entries, ip)
		}
	}
}

// RateLimitMiddleware answers 429 with Retry-After once a client exhausts its bucket
func RateLimitMiddleware(limiter *IPRateLimiter, trustedProxies []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractIP(r, trustedProxies)
			if ok, wait := limiter.Reserve(ip); !ok {
				logger.FromContext(r.Context()).Warn(LogMsgIngestThrottled, "ip", ip, "retry_after", wait)
				w.Header().Set(HeaderRetryAfter, strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
