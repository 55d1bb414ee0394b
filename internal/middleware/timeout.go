package middleware

import (
	"context"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds request handling. Every handler is a local
// KV read or write, so 15 seconds is already generous.
const DefaultRequestTimeout = 15 * time.Second

// Timeout enforces a deadline on request handlers
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			handler := http.TimeoutHandler(next, timeout, "Request Timeout")
			handler.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
