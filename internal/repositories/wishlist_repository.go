package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/furniro/storefront/internal/models"
	"github.com/furniro/storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type WishlistRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
	Insert(ctx context.Context, item *models.WishlistItem) error
	Delete(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error)
	ClearUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	FilterLiked(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) ([]uuid.UUID, error)
}

type wishlistRepository struct {
	DB *sql.DB
}

func NewWishlistRepo(db *sql.DB) WishlistRepository {
	return &wishlistRepository{DB: db}
}

// ListByUser resolves the product on each entry via an inner join, so
// entries whose product has since been deleted simply drop out of the
// result. Orphans are tolerated in storage, never surfaced in reads.
func (r *wishlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT w.id, w.user_id, w.product_id, w.added_at, ` + productColumnsPrefixed("p") + `
		FROM wishlist_items w
		INNER JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.added_at DESC
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	items := []models.WishlistItem{}

	for rows.Next() {
		var item models.WishlistItem
		var row productRow

		dest := append([]any{&item.ID, &item.UserID, &item.ProductID, &item.AddedAt}, row.scanDest()...)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}

		product, err := row.toModel()
		if err != nil {
			return nil, err
		}

		item.Product = product
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read wishlist items: %w", err)
	}

	return items, nil
}

// Insert relies on the (user_id, product_id) unique constraint; callers
// check IsUniqueViolation to translate a duplicate into a conflict.
func (r *wishlistRepository) Insert(ctx context.Context, item *models.WishlistItem) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO wishlist_items (user_id, product_id, added_at)
		VALUES ($1, $2, NOW())
		RETURNING id, added_at
	`

	return r.DB.QueryRowContext(dbCtx, query, item.UserID, item.ProductID).
		Scan(&item.ID, &item.AddedAt)
}

func (r *wishlistRepository) Delete(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		DELETE FROM wishlist_items
		WHERE user_id = $1 AND product_id = $2
		RETURNING id, user_id, product_id, added_at
	`

	item := &models.WishlistItem{}

	err := r.DB.QueryRowContext(dbCtx, query, userID, productID).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.AddedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("failed to delete wishlist item: %w", err)
	}

	return item, nil
}

func (r *wishlistRepository) ClearUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM wishlist_items WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear wishlist: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get removed rows: %w", err)
	}

	return removed, nil
}

func (r *wishlistRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var count int64

	err := r.DB.QueryRowContext(dbCtx,
		`SELECT COUNT(*) FROM wishlist_items WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count wishlist items: %w", err)
	}

	return count, nil
}

// FilterLiked returns the subset of productIDs present in the user's
// wishlist. Feeds the liked-state icons across a product grid in one query.
func (r *wishlistRepository) FilterLiked(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) ([]uuid.UUID, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	ids := make([]string, len(productIDs))
	for i, id := range productIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT product_id
		FROM wishlist_items
		WHERE user_id = $1 AND product_id = ANY($2)
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to check wishlist status: %w", err)
	}
	defer rows.Close()

	liked := []uuid.UUID{}

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist product id: %w", err)
		}

		liked = append(liked, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read wishlist status: %w", err)
	}

	return liked, nil
}
