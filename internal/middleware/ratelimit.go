package middleware

import (
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// DefaultRateLimit is the default rate in limiter notation. The extension
// shim fires a burst of tab events on browser startup, so the per-second
// rate is deliberately high.
const DefaultRateLimit = "50-S"

// clientIP extracts the client IP for the rate limit key. The daemon sits
// on loopback, so X-Forwarded-For only matters when someone fronts it with
// a local proxy.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}

// RateLimit builds rate limiting middleware backed by Redis, keyed by
// client IP. An empty rate falls back to DefaultRateLimit.
func RateLimit(redisClient *redis.Client, rateStr string) (func(http.Handler) http.Handler, error) {
	if rateStr == "" {
		rateStr = DefaultRateLimit
	}
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		return nil, err
	}

	store, err := redisstore.NewStore(redisClient)
	if err != nil {
		return nil, err
	}

	instance := limiter.New(store, rate)
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(clientIP))
	return mw.Handler, nil
}

// RateLimitInMemory is the Redis-free variant for tests and for running
// without a synced partition.
func RateLimitInMemory(rateStr string) (func(http.Handler) http.Handler, error) {
	if rateStr == "" {
		rateStr = DefaultRateLimit
	}
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		return nil, err
	}

	instance := limiter.New(memorystore.NewStore(), rate)
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(clientIP))
	return mw.Handler, nil
}
