package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/coverkeep/coverkeep/internal/logger"
	"github.com/coverkeep/coverkeep/pkg/api/auth"
	"github.com/coverkeep/coverkeep/pkg/api/handlers"
	"github.com/coverkeep/coverkeep/pkg/api/middleware"
	"github.com/coverkeep/coverkeep/pkg/media"
	"github.com/coverkeep/coverkeep/pkg/metrics"
	"github.com/coverkeep/coverkeep/pkg/store"
)

// RouterDeps carries the collaborators the router wires into handlers.
//
// HTTPMetrics may be nil to disable request metrics; Uploader may be
// nil only when the warranty creation endpoint is not exercised (the
// handler then fails uploads with a 500).
type RouterDeps struct {
	Store       store.Store
	JWTService  *auth.JWTService
	Resolver    handlers.IdentityResolver
	Uploader    media.Uploader
	HTTPMetrics metrics.HTTPMetrics
}

// NewRouter creates and configures the chi router with all middleware and routes.
//
// The router is configured with:
//   - Request ID middleware for request tracking
//   - Real IP extraction for proper client identification
//   - Custom request logging using the internal logger
//   - Panic recovery to prevent server crashes
//   - Request timeout to prevent hung requests
//
// Routes:
//   - POST /api/v1/auth/signup, /signin, /refresh - unauthenticated
//   - GET  /api/v1/auth/me - authenticated
//   - POST /api/v1/warranties - authenticated, multipart creation
//   - GET  /api/v1/warranties - authenticated, optional ?warrantyId=
//   - GET  /health, /health/ready - unauthenticated probes
//   - GET  /metrics - Prometheus scrape endpoint (when enabled)
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(requestMetrics(deps.HTTPMetrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	authHandler := handlers.NewAuthHandler(deps.Store, deps.JWTService)
	warrantyHandler := handlers.NewWarrantyHandler(deps.Store, deps.Resolver, deps.Uploader)
	healthHandler := handlers.NewHealthHandler(deps.Store)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/signin", authHandler.Signin)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(middleware.JWTAuth(deps.JWTService))
				r.Get("/me", authHandler.Me)
			})
		})

		r.Route("/warranties", func(r chi.Router) {
			r.Use(middleware.JWTAuth(deps.JWTService))
			r.Post("/", warrantyHandler.Create)
			r.Get("/", warrantyHandler.List)
		})
	})

	// Health routes - unauthenticated
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	if h := metrics.Handler(); h != nil {
		r.Method("GET", "/metrics", h)
	}

	// Root redirect to health for convenience
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	return r
}

// requestLogger is a custom middleware that logs requests using the internal logger.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): method, path, status, duration
//
// Health probes complete at DEBUG to keep steady-state logs quiet.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := chimiddleware.GetReqID(r.Context())

		lc := logger.NewLogContext(r.Method, r.URL.Path, r.RemoteAddr)
		lc = lc.WithRequestID(requestID)
		ctx := logger.WithContext(r.Context(), lc)
		r = r.WithContext(ctx)

		logger.DebugCtx(ctx, "API request started")

		// Wrap response writer to capture status code
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logFn := logger.InfoCtx
		if isHealthPath(r.URL.Path) {
			logFn = logger.DebugCtx
		}
		logFn(ctx, "API request completed",
			logger.Status(ww.Status()),
			"bytes", ww.BytesWritten(),
			logger.DurationMs(logger.Duration(start)),
		)
	})
}

// requestMetrics records per-request counters against the matched chi
// route pattern, so path parameters don't explode label cardinality.
func requestMetrics(m metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			m.RecordRequestStart()
			next.ServeHTTP(ww, r)
			m.RecordRequestEnd()

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.RecordRequest(r.Method, route, ww.Status(), time.Since(start))
		})
	}
}

func isHealthPath(path string) bool {
	return path == "/health" || path == "/health/" || path == "/health/ready"
}
