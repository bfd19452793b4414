package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	appErrors "github.com/furniro/storefront/internal/errors"
	"github.com/furniro/storefront/internal/models"
	"github.com/furniro/storefront/internal/repositories/mocks"
	service "github.com/furniro/storefront/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupCartServiceTest() (*mocks.CartRepository, *mocks.ProductRepository, service.CartService) {
	mockCartRepo := new(mocks.CartRepository)
	mockProductRepo := new(mocks.ProductRepository)
	cartService := service.NewCartService(mockCartRepo, mockProductRepo)

	return mockCartRepo, mockProductRepo, cartService
}

func TestGetCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success - Resolves Products", func(t *testing.T) {
		// Arrange
		mockCartRepo, mockProductRepo, cartService := setupCartServiceTest()

		productID := uuid.New()
		items := []models.CartItem{
			{ID: uuid.New(), UserID: userID, ProductID: productID, Name: "Syltherine Sofa", Quantity: 2},
		}
		products := []models.Product{{ID: productID, Name: "Syltherine Sofa", Price: 2500}}

		mockCartRepo.On("ListByUser", ctx, userID).Return(items, nil).Once()
		mockProductRepo.On("GetByIDs", ctx, []uuid.UUID{productID}).Return(products, nil).Once()

		// Act
		result, err := cartService.GetCart(ctx, userID)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, result, 1)
		assert.NotNil(t, result[0].Product)
		assert.Equal(t, productID, result[0].Product.ID)
		mockCartRepo.AssertExpectations(t)
		mockProductRepo.AssertExpectations(t)
	})

	t.Run("Success - Deleted Product Keeps The Line", func(t *testing.T) {
		// Arrange
		mockCartRepo, mockProductRepo, cartService := setupCartServiceTest()

		goneID := uuid.New()
		items := []models.CartItem{
			{ID: uuid.New(), UserID: userID, ProductID: goneID, Name: "Discontinued Chair", Price: 900, Quantity: 1},
		}

		mockCartRepo.On("ListByUser", ctx, userID).Return(items, nil).Once()
		mockProductRepo.On("GetByIDs", ctx, []uuid.UUID{goneID}).Return([]models.Product{}, nil).Once()

		// Act
		result, err := cartService.GetCart(ctx, userID)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, result, 1, "the line survives on its snapshot even when the product is gone")
		assert.Nil(t, result[0].Product)
		assert.Equal(t, float64(900), result[0].Price)
		mockCartRepo.AssertExpectations(t)
		mockProductRepo.AssertExpectations(t)
	})

	t.Run("Success - Empty Cart", func(t *testing.T) {
		// Arrange
		mockCartRepo, mockProductRepo, cartService := setupCartServiceTest()

		mockCartRepo.On("ListByUser", ctx, userID).Return([]models.CartItem{}, nil).Once()

		// Act
		result, err := cartService.GetCart(ctx, userID)

		// Assert
		assert.NoError(t, err)
		assert.Empty(t, result)
		mockProductRepo.AssertNotCalled(t, "GetByIDs")
		mockCartRepo.AssertExpectations(t)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		mockCartRepo, _, cartService := setupCartServiceTest()

		dbError := errors.New("database connection failed")
		mockCartRepo.On("ListByUser", ctx, userID).Return(nil, dbError).Once()

		// Act
		result, err := cartService.GetCart(ctx, userID)

		// Assert
		assert.Nil(t, result)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
		assert.ErrorIs(t, err, dbError)
		mockCartRepo.AssertExpectations(t)
	})
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	baseRequest := func() *models.AddCartItemRequest {
		price := 2500.0

		return &models.AddCartItemRequest{
			UserID:    userID,
			ProductID: productID,
			Name:      "Syltherine Sofa",
			Price:     &price,
			Quantity:  2,
			Size:      "XL",
			Color:     "beige",
		}
	}

	product := &models.Product{ID: productID, Name: "Syltherine Sofa", Price: 2500, Image: "https://cdn.example.com/sofa.jpg"}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartRepo, mockProductRepo, cartService := setupCartServiceTest()

		mockProductRepo.On("GetByID", ctx, productID).Return(product, nil).Once()
		mockCartRepo.On("UpsertItem", ctx, mock.AnythingOfType("*models.CartItem")).
			Run(func(args mock.Arguments) {
				item := args.Get(1).(*models.CartItem)
				item.ID = uuid.New()
			}).Return(nil).Once()

		// Act
		item, err := cartService.AddItem(ctx, baseRequest())

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, item)
		assert.Equal(t, "XL", item.Size)
		assert.Equal(t, "beige", item.Color)
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, 2500.0, item.Price)
		mockCartRepo.AssertExpectations(t)
		mockProductRepo.AssertExpectations(t)
	})

	t.Run("Failure - Missing Price", func(t *testing.T) {
		// Arrange
		mockCartRepo, mockProductRepo, cartService := setupCartServiceTest()

		req := baseRequest()
		req.Price = nil

		// Act
		item, err := cartService.AddItem(ctx, req)

		// Assert
		assert.Nil(t, item)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		mockProductRepo.AssertNotCalled(t, "GetByID")
		mockCartRepo.AssertNotCalled(t, "UpsertItem")
	})

	t.Run("Success - Defaults Applied", func(t *testing.T) {
		// Arrange
		mockCartRepo, mockProductRepo, cartService := setupCartServiceTest()

		req := baseRequest()
		req.Size = ""
		req.Image = ""

		mockProductRepo.On("GetByID", ctx, productID).Return(product, nil).Once()
		mockCartRepo.On("UpsertItem", ctx, mock.AnythingOfType("*models.CartItem")).Return(nil).Once()

		// Act
		item, err := cartService.AddItem(ctx, req)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, models.DefaultCartSize, item.Size, "a missing size defaults to L")
		assert.Equal(t, product.Image, item.Image, "a missing image falls back to the catalog image")
		mockCartRepo.AssertExpectations(t)
		mockProductRepo.AssertExpectations(t)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		mockCartRepo, mockProductRepo, cartService := setupCartServiceTest()

		mockProductRepo.On("GetByID", ctx, productID).Return(nil, sql.ErrNoRows).Once()

		// Act
		item, err := cartService.AddItem(ctx, baseRequest())

		// Assert
		assert.Nil(t, item)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		mockCartRepo.AssertNotCalled(t, "UpsertItem")
		mockProductRepo.AssertExpectations(t)
	})

	t.Run("Failure - Upsert Error", func(t *testing.T) {
		// Arrange
		mockCartRepo, mockProductRepo, cartService := setupCartServiceTest()

		dbError := errors.New("connection reset")
		mockProductRepo.On("GetByID", ctx, productID).Return(product, nil).Once()
		mockCartRepo.On("UpsertItem", ctx, mock.AnythingOfType("*models.CartItem")).Return(dbError).Once()

		// Act
		item, err := cartService.AddItem(ctx, baseRequest())

		// Assert
		assert.Nil(t, item)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
		mockCartRepo.AssertExpectations(t)
	})
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	itemID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartRepo, _, cartService := setupCartServiceTest()

		updated := &models.CartItem{ID: itemID, UserID: userID, Quantity: 5}
		mockCartRepo.On("UpdateQuantity", ctx, userID, itemID, 5).Return(updated, nil).Once()

		// Act
		item, err := cartService.UpdateQuantity(ctx, userID, itemID, 5)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, 5, item.Quantity)
		mockCartRepo.AssertExpectations(t)
	})

	t.Run("Failure - Quantity Below One", func(t *testing.T) {
		// Arrange
		mockCartRepo, _, cartService := setupCartServiceTest()

		// Act
		item, err := cartService.UpdateQuantity(ctx, userID, itemID, 0)

		// Assert
		assert.Nil(t, item)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		mockCartRepo.AssertNotCalled(t, "UpdateQuantity")
	})

	t.Run("Failure - Item Not Found", func(t *testing.T) {
		// Arrange
		mockCartRepo, _, cartService := setupCartServiceTest()

		mockCartRepo.On("UpdateQuantity", ctx, userID, itemID, 2).Return(nil, sql.ErrNoRows).Once()

		// Act
		item, err := cartService.UpdateQuantity(ctx, userID, itemID, 2)

		// Assert
		assert.Nil(t, item)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		mockCartRepo.AssertExpectations(t)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	itemID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartRepo, _, cartService := setupCartServiceTest()

		removed := &models.CartItem{ID: itemID, UserID: userID, Quantity: 1}
		mockCartRepo.On("DeleteItem", ctx, userID, itemID).Return(removed, nil).Once()

		// Act
		item, err := cartService.RemoveItem(ctx, userID, itemID)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, itemID, item.ID)
		mockCartRepo.AssertExpectations(t)
	})

	t.Run("Failure - Item Not Found", func(t *testing.T) {
		// Arrange
		mockCartRepo, _, cartService := setupCartServiceTest()

		mockCartRepo.On("DeleteItem", ctx, userID, itemID).Return(nil, sql.ErrNoRows).Once()

		// Act
		item, err := cartService.RemoveItem(ctx, userID, itemID)

		// Assert
		assert.Nil(t, item)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		mockCartRepo.AssertExpectations(t)
	})
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartRepo, _, cartService := setupCartServiceTest()

		mockCartRepo.On("ClearUser", ctx, userID).Return(int64(4), nil).Once()

		// Act
		removed, err := cartService.ClearCart(ctx, userID)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, int64(4), removed)
		mockCartRepo.AssertExpectations(t)
	})

	t.Run("Success - Already Empty", func(t *testing.T) {
		// Arrange
		mockCartRepo, _, cartService := setupCartServiceTest()

		mockCartRepo.On("ClearUser", ctx, userID).Return(int64(0), nil).Once()

		// Act
		removed, err := cartService.ClearCart(ctx, userID)

		// Assert
		assert.NoError(t, err, "clearing an empty cart is not an error")
		assert.Equal(t, int64(0), removed)
		mockCartRepo.AssertExpectations(t)
	})
}

func TestCartCount(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartRepo, _, cartService := setupCartServiceTest()

		mockCartRepo.On("CountByUser", ctx, userID).Return(int64(7), nil).Once()

		// Act
		count, err := cartService.Count(ctx, userID)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		mockCartRepo.AssertExpectations(t)
	})
}
