package routes

import (
	"net/http"

	"github.com/acorvin/shelf/internal/auth"
	"github.com/acorvin/shelf/internal/handlers"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	itemHandler *handlers.ItemHandler,
	tokenManager *auth.TokenManager,
	userFetcher auth.UserFetcher,
) {
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Welcome to the shelf API"}`))
	})

	// Public routes - no authentication required
	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager, userFetcher))

		r.Post("/items/", itemHandler.Create)
		r.Get("/items/", itemHandler.List)
		r.Get("/items/{id}", itemHandler.Get)
		r.Put("/items/{id}", itemHandler.Update)
		r.Delete("/items/{id}", itemHandler.Delete)
	})
}
