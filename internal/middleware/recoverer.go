package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	pkghttp "github.com/acorvin/shelf/pkg/http"
)

// Recoverer returns a last-resort middleware that converts panics into
// opaque 500 responses. The panic value and stack are logged server-side;
// nothing internal reaches the caller.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("request_id", RequestIDFromContext(r.Context())),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)
					pkghttp.WriteInternalError(w, "An unexpected error occurred")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
