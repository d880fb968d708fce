package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/spectrumhq/spectrum/internal/platform/observability"
)

const requestIDHeader = "X-Request-ID"

// requestIDMiddleware assigns each request an ID, honoring one supplied by
// the client, and echoes it in the response.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs one line per request and records duration metrics
// keyed by route template so URL parameters do not explode cardinality.
func loggingMiddleware(logger *zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			duration := time.Since(start)
			route := routeTemplate(r)

			observability.HTTPRequestDuration.
				WithLabelValues(route, r.Method, strconv.Itoa(recorder.status)).
				Observe(duration.Seconds())

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("request_id", w.Header().Get(requestIDHeader)).
				Int("status", recorder.status).
				Dur("duration", duration).
				Msg("request")
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			return template
		}
	}

	return "unmatched"
}

// ipRateLimiter keeps one token bucket per client IP. Buckets are pruned
// after an idle period so the map stays bounded under IP churn.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipBucket
	limit    rate.Limit
	burst    int
}

type ipBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const bucketIdleTTL = 10 * time.Minute

func newIPRateLimiter(requestsPerWindow int, window time.Duration) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*ipBucket),
		limit:    rate.Limit(float64(requestsPerWindow) / window.Seconds()),
		burst:    requestsPerWindow,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	bucket, ok := l.limiters[ip]
	if !ok {
		for key, b := range l.limiters {
			if now.Sub(b.lastSeen) > bucketIdleTTL {
				delete(l.limiters, key)
			}
		}

		bucket = &ipBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = bucket
	}

	bucket.lastSeen = now

	return bucket.limiter.Allow()
}

// rateLimitMiddleware rejects clients over their per-IP budget with the
// structured 429 envelope.
func rateLimitMiddleware(limiter *ipRateLimiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.allow(clientIP(r)) {
				writeJSON(w, http.StatusTooManyRequests, errorResponse{
					Success: false,
					Error: errorBody{
						Code:       "RATE_LIMITED",
						Message:    "Too many requests. Please slow down.",
						Suggestion: "Wait a minute before trying again.",
						Retryable:  true,
					},
				})

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
