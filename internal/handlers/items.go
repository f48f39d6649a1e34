package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/acorvin/shelf/internal/auth"
	"github.com/acorvin/shelf/internal/models"
	"github.com/acorvin/shelf/internal/services"
	pkghttp "github.com/acorvin/shelf/pkg/http"
	"github.com/go-chi/chi/v5"
)

// ItemServiceInterface defines the interface for item business logic
type ItemServiceInterface interface {
	CreateItem(ctx context.Context, ownerID, title string, description *string) (*models.Item, error)
	ListItems(ctx context.Context, ownerID string) ([]*models.Item, error)
	GetItem(ctx context.Context, id, ownerID string) (*models.Item, error)
	UpdateItem(ctx context.Context, id, ownerID string, update services.ItemUpdate) (*models.Item, error)
	DeleteItem(ctx context.Context, id, ownerID string) error
}

// ItemHandler handles item CRUD requests
type ItemHandler struct {
	service ItemServiceInterface
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(service ItemServiceInterface) *ItemHandler {
	return &ItemHandler{service: service}
}

// ItemCreateRequest represents the request body for item creation
type ItemCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// ItemUpdateRequest represents a partial update; absent fields stay unchanged
type ItemUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// ItemResponse is the public view of an item
type ItemResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func toItemResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		OwnerID:     item.OwnerID,
		CreatedAt:   item.CreatedAt,
	}
}

// currentUser returns the authenticated user or writes a 401
func currentUser(w http.ResponseWriter, r *http.Request) *models.User {
	user := auth.UserFromContext(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
	}
	return user
}

// Create handles POST /items/
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var req ItemCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteValidationError(w, []FieldError{{Field: "body", Message: "invalid JSON"}})
		return
	}

	if details := ValidateRequest(req); details != nil {
		pkghttp.WriteValidationError(w, details)
		return
	}

	item, err := h.service.CreateItem(r.Context(), user.ID, req.Title, req.Description)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toItemResponse(item))
}

// List handles GET /items/
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	items, err := h.service.ListItems(r.Context(), user.ID)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	resp := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toItemResponse(item))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Get handles GET /items/{id}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	id := chi.URLParam(r, "id")

	item, err := h.service.GetItem(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "Item not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(toItemResponse(item))
}

// Update handles PUT /items/{id}
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	id := chi.URLParam(r, "id")

	var req ItemUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteValidationError(w, []FieldError{{Field: "body", Message: "invalid JSON"}})
		return
	}

	if details := ValidateRequest(req); details != nil {
		pkghttp.WriteValidationError(w, details)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), id, user.ID, services.ItemUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "Item not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(toItemResponse(item))
}

// Delete handles DELETE /items/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.DeleteItem(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "Item not found")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
