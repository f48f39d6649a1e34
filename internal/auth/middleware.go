package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/acorvin/shelf/internal/models"
	pkghttp "github.com/acorvin/shelf/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key for storing the authenticated user in context
	UserContextKey contextKey = "user"
)

// UserFetcher resolves a token subject to a stored user
type UserFetcher interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Middleware validates bearer tokens and injects the authenticated user into
// the request context. A missing, malformed or expired token, or a subject
// with no matching user, yields 401.
func Middleware(tm *TokenManager, users UserFetcher) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				pkghttp.WriteUnauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				pkghttp.WriteUnauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := tm.ValidateToken(parts[1])
			if err != nil {
				pkghttp.WriteUnauthorized(w, "Invalid or expired token")
				return
			}

			user, err := users.GetByID(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					pkghttp.WriteUnauthorized(w, "User not found")
					return
				}
				pkghttp.WriteInternalError(w, "Internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user from the request context.
// Returns nil if the request did not pass through Middleware.
func UserFromContext(r *http.Request) *models.User {
	user, _ := r.Context().Value(UserContextKey).(*models.User)
	return user
}
