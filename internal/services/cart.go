package service

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/furniro/storefront/internal/errors"
	"github.com/furniro/storefront/internal/models"
	repository "github.com/furniro/storefront/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	AddItem(ctx context.Context, req *models.AddCartItemRequest) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error)
	ClearCart(ctx context.Context, userID uuid.UUID) (int64, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
}

type cartService struct {
	repo     repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(repo repository.CartRepository, products repository.ProductRepository) CartService {
	return &cartService{repo: repo, products: products}
}

// GetCart returns the user's lines with the referenced product resolved for
// display. The line itself keeps its add-time snapshot; the resolved product
// rides alongside and may carry a newer price.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to fetch cart items").WithError(err)
	}

	if len(items) == 0 {
		return items, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool)

	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to resolve cart products").WithError(err)
	}

	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for i := range items {
		items[i].Product = byID[items[i].ProductID]
	}

	return items, nil
}

func (s *cartService) AddItem(ctx context.Context, req *models.AddCartItemRequest) (*models.CartItem, error) {

	if req.Price == nil {
		return nil, apperrors.ValidationError("Price is required")
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to look up product").WithError(err)
	}

	size := req.Size
	if size == "" {
		size = models.DefaultCartSize
	}

	image := req.Image
	if image == "" {
		image = product.Image
	}

	item := &models.CartItem{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     *req.Price,
		Image:     image,
		Quantity:  req.Quantity,
		Size:      size,
		Color:     req.Color,
	}

	// Single atomic statement: either a fresh line or quantity accumulated
	// onto the line matching (user, product, size, color).
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return nil, apperrors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	return item, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {

	if quantity < 1 {
		return nil, apperrors.ValidationError("Quantity must be at least 1")
	}

	item, err := s.repo.UpdateQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Cart item not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to update cart item").WithError(err)
	}

	return item, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {

	item, err := s.repo.DeleteItem(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Cart item not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	return item, nil
}

// ClearCart removes every line the user owns. Zero removals is a valid
// outcome, not an error.
func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) (int64, error) {

	removed, err := s.repo.ClearUser(ctx, userID)
	if err != nil {
		return 0, apperrors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return removed, nil
}

// Count sums quantities across the user's lines (badge display).
func (s *cartService) Count(ctx context.Context, userID uuid.UUID) (int64, error) {

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return 0, apperrors.DatabaseError("Failed to count cart items").WithError(err)
	}

	return count, nil
}
