package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrorResponse is the panic-recovery error body
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// ErrorHandler recovers panics from downstream handlers, logging the detail
// server-side and returning a generic 500 body.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic_recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					response := ErrorResponse{
						Success:   false,
						Error:     "Internal Server Error",
						Message:   "An unexpected error occurred",
						Timestamp: time.Now().UTC().Format(time.RFC3339),
						Path:      r.URL.Path,
					}
					if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
						logger.Error("error_response_encode_failed",
							zap.Error(encodeErr),
							zap.String("path", r.URL.Path),
						)
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
