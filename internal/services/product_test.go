package service_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/furniro/storefront/internal/config"
	appErrors "github.com/furniro/storefront/internal/errors"
	"github.com/furniro/storefront/internal/models"
	"github.com/furniro/storefront/internal/repositories/mocks"
	service "github.com/furniro/storefront/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, value any) (bool, error) {
	args := m.Called(ctx, key, value)

	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)

	return args.Error(0)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)

	return args.Error(0)
}

func (m *mockCache) Close() error {
	return nil
}

func setupProductServiceTest() (*mocks.ProductRepository, *mockCache, service.ProductService) {
	mockProductRepo := new(mocks.ProductRepository)
	cache := new(mockCache)

	cacheCfg := &config.CacheConfig{
		DefaultTTL: 10 * time.Minute,
		ProductTTL: 5 * time.Minute,
	}

	productService := service.NewProductService(mockProductRepo, cache, cacheCfg)

	return mockProductRepo, cache, productService
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	request := func() *models.CreateProductRequest {
		return &models.CreateProductRequest{
			Name:        "Syltherine Sofa",
			Brand:       "Furniro",
			Category:    "sofas",
			Price:       2500,
			Description: "Stylish cafe sofa with a sturdy hardwood frame.",
			Image:       "https://cdn.example.com/sofa.jpg",
			Stock:       10,
		}
	}

	t.Run("Success - Defaults Applied", func(t *testing.T) {
		// Arrange
		mockProductRepo, _, productService := setupProductServiceTest()

		mockProductRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).
			Run(func(args mock.Arguments) {
				product := args.Get(1).(*models.Product)
				product.ID = uuid.New()
			}).Return(nil).Once()

		// Act
		product, err := productService.Create(ctx, request())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.ProductStatusActive, product.Status)
		assert.True(t, strings.HasPrefix(product.SKU, "SKU"), "a missing SKU gets generated")
		assert.NotEmpty(t, product.ShortDescription, "short description derives from the description")
		require.Len(t, product.Images, 1, "the primary image seeds the gallery")
		assert.True(t, product.Images[0].IsMain)
		mockProductRepo.AssertExpectations(t)
	})

	t.Run("Success - Description Sanitized", func(t *testing.T) {
		// Arrange
		mockProductRepo, _, productService := setupProductServiceTest()

		req := request()
		req.Description = `Great sofa<script>alert("x")</script> for living rooms.`

		mockProductRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()

		// Act
		product, err := productService.Create(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.NotContains(t, product.Description, "<script>")
		mockProductRepo.AssertExpectations(t)
	})

	t.Run("Success - Multibyte Description Cut On Rune Boundary", func(t *testing.T) {
		// Arrange
		mockProductRepo, _, productService := setupProductServiceTest()

		req := request()
		req.Description = strings.Repeat("é", 200)

		mockProductRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()

		// Act
		product, err := productService.Create(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(product.ShortDescription), "the cut must not split a rune")
		assert.Equal(t, 153, len([]rune(product.ShortDescription)), "150 runes plus the ellipsis")
		assert.True(t, strings.HasSuffix(product.ShortDescription, "..."))
		mockProductRepo.AssertExpectations(t)
	})

	t.Run("Failure - Duplicate SKU", func(t *testing.T) {
		// Arrange
		mockProductRepo, _, productService := setupProductServiceTest()

		mockProductRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).
			Return(uniqueViolation("products_sku_key")).Once()

		// Act
		product, err := productService.Create(ctx, request())

		// Assert
		assert.Nil(t, product)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, appErr.Code)
		mockProductRepo.AssertExpectations(t)
	})
}

func TestGetProductByID(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	cacheKey := "product:" + productID.String()

	t.Run("Success - Cache Miss Fills Cache", func(t *testing.T) {
		// Arrange
		mockProductRepo, cache, productService := setupProductServiceTest()

		product := &models.Product{ID: productID, Name: "Syltherine Sofa", Category: "sofas"}
		related := []models.Product{{ID: uuid.New(), Category: "sofas"}}

		cache.On("Get", ctx, cacheKey, mock.Anything).Return(false, nil).Once()
		mockProductRepo.On("GetByID", ctx, productID).Return(product, nil).Once()
		mockProductRepo.On("GetRelated", ctx, productID, "sofas", 4).Return(related, nil).Once()
		cache.On("Set", ctx, cacheKey, mock.Anything, 5*time.Minute).Return(nil).Once()

		// Act
		detail, err := productService.GetByID(ctx, productID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, productID, detail.ID)
		assert.Len(t, detail.RelatedProducts, 1)
		mockProductRepo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("Success - Cache Hit Skips Database", func(t *testing.T) {
		// Arrange
		mockProductRepo, cache, productService := setupProductServiceTest()

		cache.On("Get", ctx, cacheKey, mock.Anything).
			Run(func(args mock.Arguments) {
				detail := args.Get(2).(*models.ProductDetail)
				detail.ID = productID
				detail.Name = "Syltherine Sofa"
			}).Return(true, nil).Once()

		// Act
		detail, err := productService.GetByID(ctx, productID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, productID, detail.ID)
		mockProductRepo.AssertNotCalled(t, "GetByID")
		cache.AssertExpectations(t)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		mockProductRepo, cache, productService := setupProductServiceTest()

		cache.On("Get", ctx, cacheKey, mock.Anything).Return(false, nil).Once()
		mockProductRepo.On("GetByID", ctx, productID).Return(nil, sql.ErrNoRows).Once()

		// Act
		detail, err := productService.GetByID(ctx, productID)

		// Assert
		assert.Nil(t, detail)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		mockProductRepo.AssertExpectations(t)
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Defaults And Paging Math", func(t *testing.T) {
		// Arrange
		mockProductRepo, _, productService := setupProductServiceTest()

		mockProductRepo.On("List", ctx, mock.MatchedBy(func(f *models.ProductFilter) bool {
			return f.Page == 1 && f.Limit == 10
		})).Return([]models.Product{{ID: uuid.New()}}, int64(25), nil).Once()

		// Act
		page, err := productService.List(ctx, &models.ProductFilter{})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 1, page.CurrentPage)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, int64(25), page.TotalProducts)
		mockProductRepo.AssertExpectations(t)
	})

	t.Run("Failure - Inverted Price Range", func(t *testing.T) {
		// Arrange
		mockProductRepo, _, productService := setupProductServiceTest()

		minPrice := 500.0
		maxPrice := 100.0

		// Act
		page, err := productService.List(ctx, &models.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})

		// Assert
		assert.Nil(t, page)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		mockProductRepo.AssertNotCalled(t, "List")
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	cacheKey := "product:" + productID.String()

	t.Run("Success - Partial Update And Invalidation", func(t *testing.T) {
		// Arrange
		mockProductRepo, cache, productService := setupProductServiceTest()

		existing := &models.Product{
			ID: productID, Name: "Syltherine Sofa", Brand: "Furniro",
			Category: "sofas", Price: 2500, Stock: 10, Status: models.ProductStatusActive,
		}

		newPrice := 1999.0

		mockProductRepo.On("GetByID", ctx, productID).Return(existing, nil).Once()
		mockProductRepo.On("Update", ctx, mock.MatchedBy(func(p *models.Product) bool {
			return p.Price == newPrice && p.Name == "Syltherine Sofa"
		})).Return(nil).Once()
		cache.On("Delete", ctx, cacheKey).Return(nil).Once()

		// Act
		product, err := productService.Update(ctx, productID, &models.UpdateProductRequest{Price: &newPrice})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, newPrice, product.Price)
		assert.Equal(t, "Furniro", product.Brand, "untouched fields keep stored values")
		mockProductRepo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		mockProductRepo, cache, productService := setupProductServiceTest()

		mockProductRepo.On("GetByID", ctx, productID).Return(nil, sql.ErrNoRows).Once()

		// Act
		product, err := productService.Update(ctx, productID, &models.UpdateProductRequest{})

		// Assert
		assert.Nil(t, product)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		cache.AssertNotCalled(t, "Delete")
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	cacheKey := "product:" + productID.String()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockProductRepo, cache, productService := setupProductServiceTest()

		mockProductRepo.On("Delete", ctx, productID).Return(nil).Once()
		cache.On("Delete", ctx, cacheKey).Return(nil).Once()

		// Act
		err := productService.Delete(ctx, productID)

		// Assert
		assert.NoError(t, err)
		mockProductRepo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		mockProductRepo, cache, productService := setupProductServiceTest()

		mockProductRepo.On("Delete", ctx, productID).Return(sql.ErrNoRows).Once()

		// Act
		err := productService.Delete(ctx, productID)

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		cache.AssertNotCalled(t, "Delete")
	})
}
