package server

import (
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/diewo77/invoicing-app/internal/httpx"
	"github.com/diewo77/invoicing-app/internal/ratelimit"
)

// limited rejects the request with 429 before the handler runs when the
// caller's bucket for this route is empty. A nil limiter admits everything.
func limited(rl *ratelimit.Limiter, route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl != nil && !rl.Allow(route, clientKey(r)) {
			httpx.JSONError(w, http.StatusTooManyRequests, "rate_limit_exceeded", nil)
			return
		}
		next(w, r)
	})
}

// clientKey identifies the caller for rate limiting purposes; remote IP for
// now, swap for an authenticated principal when one exists.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withLogging(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func withRecover(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
