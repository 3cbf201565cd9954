package server

import (
	"crypto/subtle"
	"log/slog"
	"math"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/osse101/ThrowBot_Go/internal/logger"
	"github.com/osse101/ThrowBot_Go/internal/metrics"
)

// TrafficClass groups request paths that share a budget in the AbuseMonitor
type TrafficClass string

const (
	// ClassAPI covers the management API and the public health endpoints
	ClassAPI TrafficClass = "api"
	// ClassIngest is POST /api/v1/events, metered by its own token bucket
	ClassIngest TrafficClass = "ingest"
	// ClassStream is an overlay opening the SSE effect stream
	ClassStream TrafficClass = "stream"
)

// Rejection reasons reported in logs and metrics
const (
	ReasonRateExceeded = "rate_exceeded"
	ReasonAuthLockout  = "auth_lockout"
)

// Classify maps a request path to its traffic class
func Classify(path string) TrafficClass {
	switch {
	case path == IngestPath:
		return ClassIngest
	case strings.HasPrefix(path, StreamPath):
		return ClassStream
	default:
		return ClassAPI
	}
}

func isPublicPath(path string) bool {
	for _, prefix := range PublicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AbuseMonitor counts requests and failed logins per client IP over a fixed
// window. Overlays reconnecting in a loop and key guessing are the patterns
// it stops; event ingestion is left to the ingestion rate limiter.
type AbuseMonitor struct {
	mu          sync.Mutex
	now         func() time.Time
	windowStart time.Time
	budgets     map[TrafficClass]int
	requests    map[TrafficClass]map[string]int
	failedAuth  map[string]int
}

// NewAbuseMonitor creates a monitor with the default per-class budgets
func NewAbuseMonitor() *AbuseMonitor {
	return newAbuseMonitor(time.Now)
}

func newAbuseMonitor(now func() time.Time) *AbuseMonitor {
	m := &AbuseMonitor{
		now: now,
		budgets: map[TrafficClass]int{
			ClassAPI:    MaxAPIRequestsPerWindow,
			ClassStream: MaxStreamOpensPerWindow,
		},
	}
	m.reset()
	return m
}

func (m *AbuseMonitor) reset() {
	m.windowStart = m.now()
	m.requests = make(map[TrafficClass]map[string]int, len(m.budgets))
	m.failedAuth = make(map[string]int)
}

// caller holds mu
func (m *AbuseMonitor) rollWindow() {
	if m.now().Sub(m.windowStart) > MonitorWindow {
		m.reset()
	}
}

// Allow records one request and reports whether it may proceed. The reason
// is empty when it may. A lockout only covers keyed routes, so an overlay
// sharing an address with a misconfigured client keeps its stream.
func (m *AbuseMonitor) Allow(ip string, class TrafficClass, public bool) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollWindow()

	if !public && m.failedAuth[ip] >= FailedAuthLockoutCount {
		return false, ReasonAuthLockout
	}

	budget, metered := m.budgets[class]
	if !metered {
		return true, ""
	}
	counts := m.requests[class]
	if counts == nil {
		counts = make(map[string]int)
		m.requests[class] = counts
	}
	counts[ip]++

	if n := counts[ip]; n > budget {
		if (n-budget)%HighRateLogEvery == 1 {
			slog.Warn(SecurityAlertHighRate, "ip", ip, "class", class, "count", n, "budget", budget)
		}
		return false, ReasonRateExceeded
	}
	return true, ""
}

// RecordFailedAuth counts a rejected API key. Reaching FailedAuthLockoutCount
// refuses keyed requests from ip until the window rolls over.
func (m *AbuseMonitor) RecordFailedAuth(ip string, class TrafficClass) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollWindow()

	m.failedAuth[ip]++
	switch n := m.failedAuth[ip]; {
	case n == FailedAuthLockoutCount:
		slog.Warn(SecurityAlertLockout, "ip", ip, "class", class, "count", n)
	case n >= FailedAuthAlertCount && n < FailedAuthLockoutCount:
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "class", class, "count", n)
	}
}

// UntilReset reports how long until the current window rolls over
func (m *AbuseMonitor) UntilReset() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return max(m.windowStart.Add(MonitorWindow).Sub(m.now()), 0)
}

// Requests returns the metered requests of class from ip in the current window
func (m *AbuseMonitor) Requests(ip string, class TrafficClass) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[class][ip]
}

// AbuseGuardMiddleware refuses clients that are over their class budget or
// locked out after repeated bad keys. It runs before AuthMiddleware so a
// locked-out client never reaches the key comparison.
func AbuseGuardMiddleware(trustedProxies []string, monitor *AbuseMonitor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class := Classify(r.URL.Path)
			ip := extractIP(r, trustedProxies)

			if ok, reason := monitor.Allow(ip, class, isPublicPath(r.URL.Path)); !ok {
				metrics.HTTPRequestsRejected.WithLabelValues(string(class), reason).Inc()
				wait := monitor.UntilReset()
				w.Header().Set(HeaderRetryAfter, strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware validates the X-API-Key header on everything outside PublicPaths
func AuthMiddleware(apiKey string, trustedProxies []string, monitor *AbuseMonitor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				class := Classify(r.URL.Path)
				ip := extractIP(r, trustedProxies)
				monitor.RecordFailedAuth(ip, class)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"ip", ip,
					"path", r.URL.Path,
					"class", class,
					"has_key", providedKey != "")

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// BodyLimitMiddleware caps request bodies. Ingested events are single chat
// or alert payloads and get the smaller limit.
func BodyLimitMiddleware(maxBytes, maxEventBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := maxBytes
			if Classify(r.URL.Path) == ClassIngest {
				limit = maxEventBytes
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// extractIP trusts X-Forwarded-For only from a trusted proxy, and then takes
// the rightmost hop
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if slices.Contains(trustedProxies, remoteIP) {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			ips := strings.Split(forwarded, ",")
			return strings.TrimSpace(ips[len(ips)-1])
		}
	}
	return remoteIP
}

// SecurityHeadersMiddleware sets the browser hardening headers. API responses
// carry rule and role data and are never cached; the effect stream sets its
// own caching headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentType, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueSameOrigin)
			h.Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
			if strings.HasPrefix(r.URL.Path, APIPrefix) {
				h.Set(HeaderCacheControl, HeaderValueNoStore)
			}
			next.ServeHTTP(w, r)
		})
	}
}
