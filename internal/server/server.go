package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/ThrowBot_Go/internal/database"
	"github.com/osse101/ThrowBot_Go/internal/handler"
	"github.com/osse101/ThrowBot_Go/internal/logger"
	"github.com/osse101/ThrowBot_Go/internal/metrics"
	"github.com/osse101/ThrowBot_Go/internal/repository"
	"github.com/osse101/ThrowBot_Go/internal/sse"
)

// Options configures the listener and the security middleware
type Options struct {
	Port            int
	APIKey          string
	TrustedProxies  []string
	IngestRateLimit float64
	IngestBurst     int
	// Monitor is shared across routers when set; NewRouter creates one otherwise
	Monitor *AbuseMonitor
}

// Dependencies are the services the HTTP API exposes
type Dependencies struct {
	DBPool     database.Pool
	Rules      repository.Rule
	Assets     repository.Asset
	Executions repository.Execution
	Roles      handler.RoleManager
	Timers     handler.TimerReloader
	Tester     handler.RuleTester
	Events     handler.EventSubmitter
	Source     handler.EventSource
	Hub        *sse.Hub
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, deps Dependencies) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, deps),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter builds the full route tree. It is separate from NewServer so tests can drive it directly.
func NewRouter(opts Options, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	monitor := opts.Monitor
	if monitor == nil {
		monitor = NewAbuseMonitor()
	}

	r.Use(SecurityHeadersMiddleware())
	r.Use(AbuseGuardMiddleware(opts.TrustedProxies, monitor))
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, monitor))
	r.Use(BodyLimitMiddleware(MaxRequestBodyBytes, MaxEventBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.DBPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Overlay effect stream (public, browser sources cannot send headers)
	r.Get(StreamPath, sse.Handler(deps.Hub))

	ingestLimiter := NewIPRateLimiter(opts.IngestRateLimit, opts.IngestBurst)

	r.Route("/api/v1", func(r chi.Router) {
		ruleHandler := handler.NewRuleHandler(deps.Rules, deps.Timers, deps.Tester)
		executionHandler := handler.NewExecutionHandler(deps.Executions)

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", ruleHandler.HandleList)
			r.Post("/", ruleHandler.HandleCreate)
			r.Put("/order", ruleHandler.HandleReorder)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", ruleHandler.HandleGet)
				r.Put("/", ruleHandler.HandleUpdate)
				r.Delete("/", ruleHandler.HandleDelete)
				r.Post("/test", ruleHandler.HandleTest)
				r.Get("/executions", executionHandler.HandleListForRule)
			})
		})

		r.Delete("/executions", executionHandler.HandleDelete)

		r.With(RateLimitMiddleware(ingestLimiter, opts.TrustedProxies)).
			Post("/events", handler.HandleSubmitEvent(deps.Events))

		// Asset routes
		assetHandler := handler.NewAssetHandler(deps.Assets)
		r.Route("/items", func(r chi.Router) {
			r.Get("/", assetHandler.HandleListItems)
			r.Post("/", assetHandler.HandleCreateItem)
			r.Delete("/{id}", assetHandler.HandleDeleteItem)
		})
		r.Route("/sounds", func(r chi.Router) {
			r.Get("/", assetHandler.HandleListSounds)
			r.Post("/", assetHandler.HandleCreateSound)
			r.Delete("/{id}", assetHandler.HandleDeleteSound)
		})

		// Role routes
		roleHandler := handler.NewRoleHandler(deps.Roles)
		r.Route("/roles/{role}", func(r chi.Router) {
			r.Get("/", roleHandler.HandleList)
			r.Post("/", roleHandler.HandleGrant)
			r.Delete("/{userID}", roleHandler.HandleRevoke)
		})

		// Event source routes
		r.Route("/source", func(r chi.Router) {
			r.Get("/status", handler.HandleSourceStatus(deps.Source))
			r.Post("/reconnect", handler.HandleSourceReconnect(deps.Source))
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush keeps the SSE stream working through the wrapper
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
