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

type WishlistService interface {
	GetWishlist(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
	Add(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error)
	Toggle(ctx context.Context, userID, productID uuid.UUID) (*models.ToggleResult, error)
	Clear(ctx context.Context, userID uuid.UUID) (int64, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
	CheckStatus(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) ([]uuid.UUID, error)
}

type wishlistService struct {
	repo     repository.WishlistRepository
	products repository.ProductRepository
}

func NewWishlistService(repo repository.WishlistRepository, products repository.ProductRepository) WishlistService {
	return &wishlistService{repo: repo, products: products}
}

// GetWishlist lists entries newest-first. Entries whose product was deleted
// are filtered out by the read itself.
func (s *wishlistService) GetWishlist(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to fetch wishlist").WithError(err)
	}

	return items, nil
}

// Add fails with a conflict when the pair already exists; that distinguishes
// it from Toggle.
func (s *wishlistService) Add(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error) {

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to look up product").WithError(err)
	}

	item := &models.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.DuplicateEntryError("Product already in wishlist").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to add to wishlist").WithError(err)
	}

	item.Product = product

	return item, nil
}

func (s *wishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error) {

	item, err := s.repo.Delete(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Product not found in wishlist").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to remove from wishlist").WithError(err)
	}

	return item, nil
}

// Toggle removes the entry when present, creates it when absent. Delete runs
// first so the present case needs no read. When two toggles race on the
// absent case, the unique pair constraint lets exactly one insert win; the
// loser surfaces a conflict instead of a silent duplicate.
func (s *wishlistService) Toggle(ctx context.Context, userID, productID uuid.UUID) (*models.ToggleResult, error) {

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to look up product").WithError(err)
	}

	if _, err := s.repo.Delete(ctx, userID, productID); err == nil {
		return &models.ToggleResult{
			Action:  models.WishlistActionRemoved,
			IsLiked: false,
		}, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.DatabaseError("Failed to update wishlist").WithError(err)
	}

	item := &models.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.DuplicateEntryError("Product already in wishlist").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to update wishlist").WithError(err)
	}

	item.Product = product

	return &models.ToggleResult{
		Action:  models.WishlistActionAdded,
		IsLiked: true,
		Item:    item,
	}, nil
}

func (s *wishlistService) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {

	removed, err := s.repo.ClearUser(ctx, userID)
	if err != nil {
		return 0, apperrors.DatabaseError("Failed to clear wishlist").WithError(err)
	}

	return removed, nil
}

func (s *wishlistService) Count(ctx context.Context, userID uuid.UUID) (int64, error) {

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return 0, apperrors.DatabaseError("Failed to count wishlist items").WithError(err)
	}

	return count, nil
}

// CheckStatus returns which of the candidate products are in the user's
// wishlist, so a product grid can light its liked icons in one request.
func (s *wishlistService) CheckStatus(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) ([]uuid.UUID, error) {

	if len(productIDs) == 0 {
		return []uuid.UUID{}, nil
	}

	liked, err := s.repo.FilterLiked(ctx, userID, productIDs)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to check wishlist status").WithError(err)
	}

	return liked, nil
}
