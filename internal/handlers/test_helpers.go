package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/acorvin/shelf/internal/auth"
	"github.com/acorvin/shelf/internal/models"
	"github.com/acorvin/shelf/internal/services"
	pkghttp "github.com/acorvin/shelf/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext injects an authenticated user into the request context
func WithAuthContext(req *http.Request, userID, email string) *http.Request {
	user := &models.User{ID: userID, Email: email}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, user)
	return req.WithContext(ctx)
}

// WithChiParam injects a chi URL parameter into the request context
func WithChiParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that the response carries the error envelope
// with the expected status and code
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedCode string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedCode, resp.Error.Code, "Error code mismatch")
	assert.NotEmpty(t, resp.Error.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc func(ctx context.Context, email, password string) (*models.User, error)
	LoginFunc    func(ctx context.Context, email, password string) (*services.AuthResponse, error)
}

func (m *MockAuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	return m.RegisterFunc(ctx, email, password)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.AuthResponse, error) {
	return m.LoginFunc(ctx, email, password)
}

// MockItemService implements ItemServiceInterface for testing
type MockItemService struct {
	CreateItemFunc func(ctx context.Context, ownerID, title string, description *string) (*models.Item, error)
	ListItemsFunc  func(ctx context.Context, ownerID string) ([]*models.Item, error)
	GetItemFunc    func(ctx context.Context, id, ownerID string) (*models.Item, error)
	UpdateItemFunc func(ctx context.Context, id, ownerID string, update services.ItemUpdate) (*models.Item, error)
	DeleteItemFunc func(ctx context.Context, id, ownerID string) error
}

func (m *MockItemService) CreateItem(ctx context.Context, ownerID, title string, description *string) (*models.Item, error) {
	return m.CreateItemFunc(ctx, ownerID, title, description)
}

func (m *MockItemService) ListItems(ctx context.Context, ownerID string) ([]*models.Item, error) {
	return m.ListItemsFunc(ctx, ownerID)
}

func (m *MockItemService) GetItem(ctx context.Context, id, ownerID string) (*models.Item, error) {
	return m.GetItemFunc(ctx, id, ownerID)
}

func (m *MockItemService) UpdateItem(ctx context.Context, id, ownerID string, update services.ItemUpdate) (*models.Item, error) {
	return m.UpdateItemFunc(ctx, id, ownerID, update)
}

func (m *MockItemService) DeleteItem(ctx context.Context, id, ownerID string) error {
	return m.DeleteItemFunc(ctx, id, ownerID)
}
