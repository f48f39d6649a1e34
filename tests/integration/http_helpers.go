package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/acorvin/shelf/internal/auth"
	"github.com/acorvin/shelf/internal/database"
	"github.com/acorvin/shelf/internal/handlers"
	"github.com/acorvin/shelf/internal/limits"
	middlewareCustom "github.com/acorvin/shelf/internal/middleware"
	"github.com/acorvin/shelf/internal/repositories"
	"github.com/acorvin/shelf/internal/routes"
	"github.com/acorvin/shelf/internal/services"
	pkghttp "github.com/acorvin/shelf/pkg/http"
)

const (
	testJWTSecret  = "integration-test-secret-32-chars"
	loginPath      = "/auth/login"
	testCORSOrigin = "http://localhost:3000"
)

// TestServer wraps httptest.Server with the full middleware pipeline wired
// the same way cmd/api does it. The attempt tracker and rate window use an
// adjustable clock so lockout expiry can be simulated.
type TestServer struct {
	Server         *httptest.Server
	AttemptTracker *limits.AttemptTracker
	RateWindow     *limits.SlidingWindow
	Idempotency    *limits.IdempotencyCache

	clock *fakeClock
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// Advance moves the simulated clock forward
func (ts *TestServer) Advance(d time.Duration) {
	ts.clock.now = ts.clock.now.Add(d)
}

// NewTestServer builds a complete HTTP server over a real database
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userRepo := repositories.NewUserRepository(db)
	itemRepo := repositories.NewItemRepository(db)

	tokenManager := auth.NewTokenManager(testJWTSecret, 30*time.Minute)

	clock := &fakeClock{now: time.Now()}
	rateWindow := limits.NewSlidingWindow(100, 60*time.Second)
	rateWindow.SetClock(clock.Now)
	attemptTracker := limits.NewAttemptTracker(5, 15*time.Minute, logger)
	attemptTracker.SetClock(clock.Now)
	idempotencyCache := limits.NewIdempotencyCache()

	ipConfig := &pkghttp.IPConfig{}

	corsConfig := middlewareCustom.DefaultCORSConfig()
	corsConfig.AllowedOrigins = []string{testCORSOrigin}

	authService := services.NewAuthService(userRepo, tokenManager, logger)
	itemService := services.NewItemService(itemRepo, logger)

	authHandler := handlers.NewAuthHandler(authService)
	itemHandler := handlers.NewItemHandler(itemService)

	router := chi.NewRouter()
	router.Use(middlewareCustom.RequestLogger(logger))
	router.Use(middlewareCustom.Recoverer(logger))
	router.Use(middlewareCustom.RequestSize(1024 * 1024))
	router.Use(middlewareCustom.SecurityHeaders())
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.RateLimit(rateWindow, ipConfig))
	router.Use(middlewareCustom.LoginGate(attemptTracker, loginPath, ipConfig))
	router.Use(middlewareCustom.Idempotency(idempotencyCache, logger))

	routes.RegisterRoutes(router, authHandler, itemHandler, tokenManager, userRepo)

	return &TestServer{
		Server:         httptest.NewServer(router),
		AttemptTracker: attemptTracker,
		RateWindow:     rateWindow,
		Idempotency:    idempotencyCache,
		clock:          clock,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// Request performs an HTTP request against the test server
func (ts *TestServer) Request(method, path string, body interface{}, headers map[string]string) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to encode body: %w", err)
		}
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return ts.Server.Client().Do(req)
}

// RequestWithAuth performs an authenticated request with a bearer token
func (ts *TestServer) RequestWithAuth(method, path, accessToken string, body interface{}) (*http.Response, error) {
	return ts.Request(method, path, body, map[string]string{
		"Authorization": "Bearer " + accessToken,
	})
}

// ParseJSONResponse decodes a response body into target
func ParseJSONResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}

// RegisterAndLogin creates a user and returns an access token
func (ts *TestServer) RegisterAndLogin(email, password string) (string, error) {
	resp, err := ts.Request("POST", "/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if err != nil {
		return "", err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("register: unexpected status %d", resp.StatusCode)
	}

	resp, err = ts.Request("POST", loginPath, map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return "", fmt.Errorf("login: unexpected status %d", resp.StatusCode)
	}

	var authResp services.AuthResponse
	if err := ParseJSONResponse(resp, &authResp); err != nil {
		return "", err
	}
	return authResp.AccessToken, nil
}
