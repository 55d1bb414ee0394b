package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORS builds the CORS layer for the local API. Extension pages load from
// chrome-extension:// and moz-extension:// origins whose host part is the
// install-specific extension ID, so those schemes are allowed wholesale;
// anything else must be listed explicitly (the popup dev server, typically).
func CORS(extraOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(extraOrigins))
	for _, origin := range extraOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed[origin] = struct{}{}
		}
	}

	c := cors.New(cors.Options{
		AllowOriginFunc: func(origin string) bool {
			if strings.HasPrefix(origin, "chrome-extension://") ||
				strings.HasPrefix(origin, "moz-extension://") {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           86400,
	})
	return c.Handler
}

// CORSFromEnv parses a comma-separated origin list, always including the
// local popup dev server.
func CORSFromEnv(originsEnv string) func(http.Handler) http.Handler {
	origins := []string{"http://localhost:3000"}
	for _, origin := range strings.Split(originsEnv, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" && origin != origins[0] {
			origins = append(origins, origin)
		}
	}
	return CORS(origins)
}
