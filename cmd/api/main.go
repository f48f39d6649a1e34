package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acorvin/shelf/internal/auth"
	"github.com/acorvin/shelf/internal/config"
	"github.com/acorvin/shelf/internal/database"
	"github.com/acorvin/shelf/internal/handlers"
	"github.com/acorvin/shelf/internal/limits"
	middlewareCustom "github.com/acorvin/shelf/internal/middleware"
	"github.com/acorvin/shelf/internal/repositories"
	"github.com/acorvin/shelf/internal/routes"
	"github.com/acorvin/shelf/internal/services"
	pkghttp "github.com/acorvin/shelf/pkg/http"
	"github.com/go-chi/chi/v5"
)

const loginPath = "/auth/login"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	itemRepo := repositories.NewItemRepository(db)

	// Initialize token manager
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry)

	// Request-gating state, shared across all requests and scoped to the
	// process lifetime. All of it is in-memory and lost on restart.
	rateWindow := limits.NewSlidingWindow(cfg.Limits.MaxRequests, cfg.Limits.RateWindow)
	attemptTracker := limits.NewAttemptTracker(cfg.Limits.MaxLoginFails, cfg.Limits.LockoutDuration, logger)
	idempotencyCache := limits.NewIdempotencyCache()

	ipConfig := &pkghttp.IPConfig{}

	corsConfig := middlewareCustom.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenManager, logger)
	itemService := services.NewItemService(itemRepo, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	itemHandler := handlers.NewItemHandler(itemService)

	// Setup router. Outermost first: logging wraps everything, then size
	// check, security headers, CORS, rate limit, login gate, idempotency.
	// CORS sits above the gates so preflights answer without consuming
	// rate-limit slots.
	router := chi.NewRouter()
	router.Use(middlewareCustom.RequestLogger(logger))
	router.Use(middlewareCustom.Recoverer(logger))
	router.Use(middlewareCustom.RequestSize(cfg.Limits.MaxBodyBytes))
	router.Use(middlewareCustom.SecurityHeaders())
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.RateLimit(rateWindow, ipConfig))
	router.Use(middlewareCustom.LoginGate(attemptTracker, loginPath, ipConfig))
	router.Use(middlewareCustom.Idempotency(idempotencyCache, logger))

	// Register routes
	routes.RegisterRoutes(router, authHandler, itemHandler, tokenManager, userRepo)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
