package middleware

import (
	"net"
	"net/http"
	"time"

	"fittrack-backend/internal/cache"

	"github.com/rs/zerolog/log"
)

// RateLimitMiddleware throttles clients to a fixed number of requests
// per window, counted per IP in the injected cache. When the cache is
// unreachable the request is allowed through rather than failing closed.
func RateLimitMiddleware(c *cache.Cache, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			count, err := c.Increment(r.Context(), "rate_limit:"+ip, window)
			if err != nil {
				log.Warn().Err(err).Str("ip", ip).Msg("Rate limit check failed")
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				respondError(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the remote address without the port. chi's RealIP
// middleware has already resolved forwarding headers upstream.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
