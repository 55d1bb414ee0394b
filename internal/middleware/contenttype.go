package middleware

import (
	"net/http"
	"strings"
)

// ContentType validates the Content-Type header for requests that carry a
// body. Bodyless POSTs (focus start/pause/end and the check-all sweep send
// none) pass through.
func ContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasBody := r.Method == "POST" || r.Method == "PUT" || r.Method == "PATCH"
		if hasBody && r.ContentLength > 0 {
			contentType := strings.ToLower(r.Header.Get("Content-Type"))
			if !strings.HasPrefix(contentType, "application/json") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
