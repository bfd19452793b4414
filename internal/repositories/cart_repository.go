package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/furniro/storefront/internal/models"
	"github.com/furniro/storefront/internal/utils"
	"github.com/google/uuid"
)

type CartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	UpsertItem(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error)
	DeleteItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error)
	ClearUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

const cartItemColumns = `id, user_id, product_id, name, price, image, quantity, size, color, created_at, updated_at`

func scanCartItem(row interface{ Scan(...any) error }, item *models.CartItem) error {
	return row.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Name, &item.Price,
		&item.Image, &item.Quantity, &item.Size, &item.Color, &item.CreatedAt, &item.UpdatedAt)
}

func (r *cartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + cartItemColumns + `
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}

	for rows.Next() {
		var item models.CartItem
		if err := scanCartItem(rows, &item); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cart items: %w", err)
	}

	return items, nil
}

// UpsertItem creates the line, or — when the (user, product, size, color)
// tuple already exists — accumulates quantity onto the existing line in one
// atomic statement. The conflict arm deliberately leaves name, price and
// image untouched: the cart keeps the snapshot taken at first add.
func (r *cartRepository) UpsertItem(ctx context.Context, item *models.CartItem) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (user_id, product_id, name, price, image, quantity, size, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT ON CONSTRAINT cart_items_line_key
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING ` + cartItemColumns + `
	`

	row := r.DB.QueryRowContext(dbCtx, query,
		item.UserID, item.ProductID, item.Name, item.Price, item.Image,
		item.Quantity, item.Size, item.Color)

	if err := scanCartItem(row, item); err != nil {
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return nil
}

// UpdateQuantity is scoped to the owning user so one user cannot touch
// another user's line even with a known item id.
func (r *cartRepository) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING ` + cartItemColumns + `
	`

	item := &models.CartItem{}

	if err := scanCartItem(r.DB.QueryRowContext(dbCtx, query, quantity, itemID, userID), item); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to update cart item quantity: %w", err)
	}

	return item, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		DELETE FROM cart_items
		WHERE id = $1 AND user_id = $2
		RETURNING ` + cartItemColumns + `
	`

	item := &models.CartItem{}

	if err := scanCartItem(r.DB.QueryRowContext(dbCtx, query, itemID, userID), item); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to delete cart item: %w", err)
	}

	return item, nil
}

func (r *cartRepository) ClearUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get removed rows: %w", err)
	}

	return removed, nil
}

func (r *cartRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM cart_items
		WHERE user_id = $1
	`

	var count int64

	if err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}

	return count, nil
}
