package middleware

import (
	"net/http"

	"github.com/acorvin/shelf/internal/limits"
	pkghttp "github.com/acorvin/shelf/pkg/http"
)

// RateLimit returns a middleware that enforces the sliding-window limiter
// keyed by client IP. A request at or over the limit is rejected with 429
// without consuming a window slot.
func RateLimit(window *limits.SlidingWindow, ipConfig *pkghttp.IPConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := pkghttp.ExtractClientIP(r, ipConfig)

			if !window.Allow(clientIP) {
				pkghttp.WriteTooManyRequests(w, "Too many requests. Try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
