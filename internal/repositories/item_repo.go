package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/acorvin/shelf/internal/database"
	"github.com/acorvin/shelf/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ItemRepository is the data access layer for items. Every query is scoped
// to the owning user, so a cross-owner lookup is indistinguishable from a
// missing row.
type ItemRepository struct {
	db *database.DB
}

func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

type itemRowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItemRow(scanner itemRowScanner) (*models.Item, error) {
	var item models.Item
	err := scanner.Scan(
		&item.ID, &item.Title, &item.Description, &item.OwnerID, &item.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &item, nil
}

func scanItemRows(rows pgx.Rows) ([]*models.Item, error) {
	defer rows.Close()

	items := make([]*models.Item, 0)

	for rows.Next() {
		item, err := scanItemRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

func (r *ItemRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	item.ID = uuid.New().String()
	item.CreatedAt = time.Now()

	query := `
		INSERT INTO items (id, title, description, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		item.ID, item.Title, item.Description, item.OwnerID, item.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return item, nil
}

func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Item, error) {
	query := `
		SELECT id, title, description, owner_id, created_at
		FROM items WHERE owner_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}

	return scanItemRows(rows)
}

func (r *ItemRepository) GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.Item, error) {
	query := `
		SELECT id, title, description, owner_id, created_at
		FROM items WHERE id = $1 AND owner_id = $2
	`

	return scanItemRow(r.db.Pool.QueryRow(ctx, query, id, ownerID))
}

func (r *ItemRepository) Update(ctx context.Context, item *models.Item) (*models.Item, error) {
	query := `
		UPDATE items SET title = $1, description = $2
		WHERE id = $3 AND owner_id = $4
	`

	tag, err := r.db.Pool.Exec(ctx, query, item.Title, item.Description, item.ID, item.OwnerID)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}

	return item, nil
}

func (r *ItemRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM items WHERE id = $1 AND owner_id = $2`

	tag, err := r.db.Pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
