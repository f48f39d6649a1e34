package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/acorvin/shelf/internal/models"
)

// ItemRepository defines the interface for item data access
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Item, error)
	GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) (*models.Item, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// ItemUpdate carries a partial update; nil fields are left unchanged
type ItemUpdate struct {
	Title       *string
	Description *string
}

// ItemService handles item business logic
type ItemService struct {
	repo   ItemRepository
	logger *slog.Logger
}

// NewItemService creates a new ItemService
func NewItemService(repo ItemRepository, logger *slog.Logger) *ItemService {
	return &ItemService{
		repo:   repo,
		logger: logger,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, ownerID, title string, description *string) (*models.Item, error) {
	item, err := s.repo.Create(ctx, &models.Item{
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
	})
	if err != nil {
		s.logger.Error("failed to create item", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("item created",
		slog.String("item_id", item.ID),
		slog.String("owner_id", ownerID))
	return item, nil
}

func (s *ItemService) ListItems(ctx context.Context, ownerID string) ([]*models.Item, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list items", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return items, nil
}

func (s *ItemService) GetItem(ctx context.Context, id, ownerID string) (*models.Item, error) {
	item, err := s.repo.GetByIDForOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get item", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return item, nil
}

// UpdateItem applies a partial update: only the fields present in update
// change, the rest keep their stored values
func (s *ItemService) UpdateItem(ctx context.Context, id, ownerID string, update ItemUpdate) (*models.Item, error) {
	item, err := s.GetItem(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		item.Title = *update.Title
	}
	if update.Description != nil {
		item.Description = update.Description
	}

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update item", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return updated, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, id, ownerID string) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete item", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("item deleted", slog.String("item_id", id))
	return nil
}
