package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "⚠️ SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "⚠️ SECURITY ALERT: Blocking high request rate"
	SecurityAlertLockout    = "⚠️ SECURITY ALERT: Locking out client after repeated failed authentication"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
	LogMsgIngestThrottled  = "Event ingestion throttled"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderCacheControl   = "Cache-Control"
	HeaderReferrerPolicy = "Referrer-Policy"
	HeaderRetryAfter     = "Retry-After"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueNoStore              = "no-store"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// Route paths the middleware classifies traffic by
const (
	APIPrefix  = "/api/"
	IngestPath = "/api/v1/events"
	StreamPath = "/events/stream"
)

// Request limits
const (
	MaxRequestBodyBytes = 1 << 20  // 1MB, rule and asset payloads
	MaxEventBodyBytes   = 64 << 10 // 64KB, one ingested event
	ReadHeaderTimeout   = 5 * time.Second

	// Abuse monitor thresholds, per IP per window
	MonitorWindow           = 5 * time.Minute
	MaxAPIRequestsPerWindow = 1000
	MaxStreamOpensPerWindow = 30
	FailedAuthAlertCount    = 5
	FailedAuthLockoutCount  = 25
	HighRateLogEvery        = 100

	RateLimiterIdleLifetime = 5 * time.Minute
	RateLimiterSweepSize    = 1024
)

// Public path prefixes that bypass authentication
var PublicPaths = []string{
	"/swagger/",
	"/healthz",
	"/readyz",
	"/metrics",
	"/version",
	StreamPath,
}

// Header redaction marker
const (
	RedactedValue = "[REDACTED]"
)
