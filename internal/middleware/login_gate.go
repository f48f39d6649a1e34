package middleware

import (
	"net/http"

	"github.com/acorvin/shelf/internal/limits"
	pkghttp "github.com/acorvin/shelf/pkg/http"
	"github.com/go-chi/chi/v5/middleware"
)

// LoginGate returns a middleware guarding the login endpoint against brute
// force. A locked client is rejected with 429 before the handler runs.
// Otherwise the downstream status is observed: 401 counts as a failure,
// anything else clears the client's failure history. Requests to other
// paths or methods pass through untouched.
func LoginGate(tracker *limits.AttemptTracker, loginPath string, ipConfig *pkghttp.IPConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != loginPath {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := pkghttp.ExtractClientIP(r, ipConfig)

			if tracker.Locked(clientIP) {
				pkghttp.WriteError(w, http.StatusTooManyRequests, "LOGIN_LOCKED",
					"Too many failed attempts. Try again in 15 minutes.")
				return
			}

			wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(wrapped, r)

			if wrapped.Status() == http.StatusUnauthorized {
				tracker.RecordFailure(clientIP)
			} else {
				tracker.Reset(clientIP)
			}
		})
	}
}
