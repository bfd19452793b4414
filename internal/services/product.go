package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/furniro/storefront/internal/cache"
	"github.com/furniro/storefront/internal/config"
	apperrors "github.com/furniro/storefront/internal/errors"
	"github.com/furniro/storefront/internal/models"
	repository "github.com/furniro/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

const (
	defaultPage      = 1
	defaultPageSize  = 10
	maxPageSize      = 100
	relatedLimit     = 4
	shortDescTarget  = 150
	shortDescMedium  = 100
	shortDescMinimum = 50
)

type ProductService interface {
	Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProductDetail, error)
	List(ctx context.Context, filter *models.ProductFilter) (*models.ProductPage, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo      repository.ProductRepository
	cache     cache.Cache
	cacheCfg  *config.CacheConfig
	sanitizer *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository, c cache.Cache, cacheCfg *config.CacheConfig) ProductService {
	return &productService{
		repo:      repo,
		cache:     c,
		cacheCfg:  cacheCfg,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (s *productService) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	status := req.Status
	if status == "" {
		status = models.ProductStatusActive
	}

	sku := req.SKU
	if sku == "" {
		sku = fmt.Sprintf("SKU%d", time.Now().UnixMilli())
	}

	description := s.sanitizer.Sanitize(req.Description)

	product := &models.Product{
		Name:             strings.TrimSpace(req.Name),
		Brand:            strings.TrimSpace(req.Brand),
		Category:         req.Category,
		Price:            req.Price,
		OriginalPrice:    req.OriginalPrice,
		Description:      description,
		ShortDescription: s.sanitizer.Sanitize(req.ShortDescription),
		Image:            req.Image,
		Images:           req.Images,
		Stock:            req.Stock,
		Status:           status,
		Variants:         req.Variants,
		Tags:             req.Tags,
		IsNew:            req.IsNew,
		SKU:              sku,
	}

	if product.ShortDescription == "" {
		product.ShortDescription = truncateDescription(description)
	}

	if len(product.Images) == 0 && product.Image != "" {
		product.Images = []models.ProductImage{{URL: product.Image, IsMain: true}}
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.DuplicateEntryError("Product with this SKU already exists").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

// GetByID serves the detail view: the product plus up to four related
// active products from the same category. The detail is cached; related
// products ride in the cached payload so a hit needs no queries at all.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductDetail, error) {

	key := cache.Key(cache.ProductKeyPrefix, id.String())

	var cached models.ProductDetail

	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		slog.WarnContext(ctx, "product cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if found {
		return &cached, nil
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	related, err := s.repo.GetRelated(ctx, id, product.Category, relatedLimit)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to fetch related products").WithError(err)
	}

	detail := &models.ProductDetail{
		Product:         *product,
		RelatedProducts: related,
	}

	if err := s.cache.Set(ctx, key, detail, s.cacheCfg.ProductTTL); err != nil {
		slog.WarnContext(ctx, "product cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	return detail, nil
}

func (s *productService) List(ctx context.Context, filter *models.ProductFilter) (*models.ProductPage, error) {

	if filter == nil {
		filter = &models.ProductFilter{}
	}

	if filter.Page < 1 {
		filter.Page = defaultPage
	}

	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}

	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, apperrors.ValidationError("minPrice cannot exceed maxPrice")
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return &models.ProductPage{
		Products:      products,
		TotalPages:    totalPages,
		CurrentPage:   filter.Page,
		TotalProducts: total,
	}, nil
}

// Update is read-modify-write: only fields present in the request change,
// everything else keeps its stored value.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}

	if req.Brand != nil {
		product.Brand = strings.TrimSpace(*req.Brand)
	}

	if req.Category != nil {
		product.Category = *req.Category
	}

	if req.Price != nil {
		product.Price = *req.Price
	}

	if req.OriginalPrice != nil {
		product.OriginalPrice = req.OriginalPrice
	}

	if req.Description != nil {
		product.Description = s.sanitizer.Sanitize(*req.Description)
	}

	if req.ShortDescription != nil {
		product.ShortDescription = s.sanitizer.Sanitize(*req.ShortDescription)
	}

	if req.Image != nil {
		product.Image = *req.Image
	}

	if req.Images != nil {
		product.Images = req.Images
	}

	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if req.Status != nil {
		product.Status = *req.Status
	}

	if req.Variants != nil {
		product.Variants = req.Variants
	}

	if req.Tags != nil {
		product.Tags = req.Tags
	}

	if req.IsNew != nil {
		product.IsNew = *req.IsNew
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, apperrors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidate(ctx, id)

	return product, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFoundError("Product not found").WithError(err)
		}

		return apperrors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {

	key := cache.Key(cache.ProductKeyPrefix, id.String())

	if err := s.cache.Delete(ctx, key); err != nil {
		slog.WarnContext(ctx, "product cache invalidation failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// truncateDescription derives a card-length summary from the full
// description: cut at the last sentence boundary within 150 characters,
// else the last word boundary past 100, else a hard cut with an ellipsis.
// Counts runes, not bytes, so a cut never splits a multi-byte character.
func truncateDescription(description string) string {

	runes := []rune(description)

	if len(runes) <= shortDescTarget {
		return description
	}

	window := string(runes[:shortDescTarget])

	if idx := strings.LastIndex(window, ". "); idx >= shortDescMinimum {
		return window[:idx+1]
	}

	if idx := strings.LastIndex(window, " "); idx >= shortDescMedium {
		return window[:idx] + "..."
	}

	return window + "..."
}
