package middleware

import (
	"net/http"

	pkghttp "github.com/acorvin/shelf/pkg/http"
)

// DefaultMaxBodyBytes is the default request body limit (1 MiB)
const DefaultMaxBodyBytes = 1 << 20

// RequestSize returns a middleware that rejects requests whose declared
// Content-Length exceeds maxBytes with 413 before any handler runs. The
// body reader is also capped so chunked requests without a declared length
// cannot exceed the limit either.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				pkghttp.WritePayloadTooLarge(w, "Request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
