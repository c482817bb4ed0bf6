// Package middleware carries the HTTP middleware chain for The Signal:
// request logging, panic recovery, security headers, session loading,
// CSRF protection, and the login rate limit.
package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder remembers the status a handler wrote so the request
// log line can include it.
type statusRecorder struct {
	http.ResponseWriter
	code  int
	wrote bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.wrote {
		sr.code = code
		sr.wrote = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write records the implicit 200 when a handler never calls WriteHeader.
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.wrote {
		sr.code = http.StatusOK
		sr.wrote = true
	}
	return sr.ResponseWriter.Write(b)
}

// Logger emits one slog line per request: method, path, status, and
// wall time. The remote address is included so login failures can be
// correlated with the rate limiter.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.code,
			"elapsed", time.Since(start).String(),
			"remote", r.RemoteAddr,
		)
	})
}
