package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	pkglogger "github.com/acorvin/shelf/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestLogger returns a middleware that assigns each request a unique ID,
// logs entry and exit with duration, and attaches the ID as the
// X-Request-ID response header
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()
			w.Header().Set("X-Request-ID", requestID)

			// Redact query strings that carry sensitive parameters
			path := r.URL.Path
			if pkglogger.SanitizeQueryString(r.URL.RawQuery) {
				path = path + "?[REDACTED]"
			} else if r.URL.RawQuery != "" {
				path = r.URL.Path + "?" + r.URL.RawQuery
			}

			logger.LogAttrs(r.Context(), slog.LevelInfo, "request_started",
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", path),
				slog.String("remote_addr", r.RemoteAddr),
			)

			start := time.Now()
			wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			duration := time.Since(start)
			logger.LogAttrs(r.Context(), slog.LevelInfo, "request_completed",
				slog.String("request_id", requestID),
				slog.Int("status", wrapped.Status()),
				slog.Int64("bytes", int64(wrapped.BytesWritten())),
				slog.String("duration", duration.String()),
			)
		})
	}
}

// RequestIDFromContext returns the request ID assigned by RequestLogger,
// or "" if the request did not pass through it
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
