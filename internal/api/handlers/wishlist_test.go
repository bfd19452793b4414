package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/furniro/storefront/internal/api/handlers"
	appErrors "github.com/furniro/storefront/internal/errors"
	"github.com/furniro/storefront/internal/models"
	"github.com/furniro/storefront/internal/services/mocks"
	"github.com/furniro/storefront/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupWishlistHandlerTest() (*mocks.WishlistService, *handlers.WishlistHandler) {
	mockWishlistService := new(mocks.WishlistService)
	wishlistHandler := handlers.NewWishlistHandler(mockWishlistService)

	return mockWishlistService, wishlistHandler
}

func TestGetWishlistHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockWishlistService, wishlistHandler := setupWishlistHandlerTest()

		items := []models.WishlistItem{
			{ID: uuid.New(), UserID: userID, ProductID: uuid.New(), Product: &models.Product{Name: "Leviosa Chair"}},
		}

		mockWishlistService.On("GetWishlist", mock.Anything, userID).Return(items, nil).Once()

		req := testutils.CreateTestRequestWithContext("GET", "/wishlist/"+userID.String(), nil, userID,
			map[string]string{"userId": userID.String()})
		recorder := httptest.NewRecorder()

		// Act
		wishlistHandler.GetWishlist()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		resp := decodeEnvelope(t, recorder)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Count)
		assert.Equal(t, int64(1), *resp.Count)
		mockWishlistService.AssertExpectations(t)
	})

	t.Run("Failure - Another User's Wishlist", func(t *testing.T) {
		// Arrange
		mockWishlistService, wishlistHandler := setupWishlistHandlerTest()

		otherUser := uuid.New()
		req := testutils.CreateTestRequestWithContext("GET", "/wishlist/"+otherUser.String(), nil, userID,
			map[string]string{"userId": otherUser.String()})
		recorder := httptest.NewRecorder()

		// Act
		wishlistHandler.GetWishlist()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusForbidden, recorder.Code)
		mockWishlistService.AssertNotCalled(t, "GetWishlist")
	})
}

func TestToggleWishlistHandler(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	requestBody := func() []byte {
		body, _ := json.Marshal(models.WishlistRequest{UserID: userID, ProductID: productID})

		return body
	}

	t.Run("Success - Added", func(t *testing.T) {
		// Arrange
		mockWishlistService, wishlistHandler := setupWishlistHandlerTest()

		result := &models.ToggleResult{
			Action:  models.WishlistActionAdded,
			IsLiked: true,
			Item:    &models.WishlistItem{ID: uuid.New(), UserID: userID, ProductID: productID},
		}

		mockWishlistService.On("Toggle", mock.Anything, userID, productID).Return(result, nil).Once()

		req := testutils.CreateTestRequestWithContext("POST", "/wishlist/toggle", bytes.NewReader(requestBody()), userID, nil)
		recorder := httptest.NewRecorder()

		// Act
		wishlistHandler.Toggle()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		resp := decodeEnvelope(t, recorder)
		assert.True(t, resp.Success)

		data, _ := json.Marshal(resp.Data)
		var toggled models.ToggleResult
		require.NoError(t, json.Unmarshal(data, &toggled))
		assert.Equal(t, models.WishlistActionAdded, toggled.Action)
		assert.True(t, toggled.IsLiked)
		mockWishlistService.AssertExpectations(t)
	})

	t.Run("Success - Removed", func(t *testing.T) {
		// Arrange
		mockWishlistService, wishlistHandler := setupWishlistHandlerTest()

		result := &models.ToggleResult{Action: models.WishlistActionRemoved, IsLiked: false}

		mockWishlistService.On("Toggle", mock.Anything, userID, productID).Return(result, nil).Once()

		req := testutils.CreateTestRequestWithContext("POST", "/wishlist/toggle", bytes.NewReader(requestBody()), userID, nil)
		recorder := httptest.NewRecorder()

		// Act
		wishlistHandler.Toggle()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockWishlistService.AssertExpectations(t)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		mockWishlistService, wishlistHandler := setupWishlistHandlerTest()

		mockWishlistService.On("Toggle", mock.Anything, userID, productID).
			Return(nil, appErrors.NotFoundError("Product not found")).Once()

		req := testutils.CreateTestRequestWithContext("POST", "/wishlist/toggle", bytes.NewReader(requestBody()), userID, nil)
		recorder := httptest.NewRecorder()

		// Act
		wishlistHandler.Toggle()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		mockWishlistService.AssertExpectations(t)
	})
}

func TestAddWishlistHandler(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("Failure - Already In Wishlist", func(t *testing.T) {
		// Arrange
		mockWishlistService, wishlistHandler := setupWishlistHandlerTest()

		mockWishlistService.On("Add", mock.Anything, userID, productID).
			Return(nil, appErrors.DuplicateEntryError("Product already in wishlist")).Once()

		body, _ := json.Marshal(models.WishlistRequest{UserID: userID, ProductID: productID})

		req := testutils.CreateTestRequestWithContext("POST", "/wishlist", bytes.NewReader(body), userID, nil)
		recorder := httptest.NewRecorder()

		// Act
		wishlistHandler.Add()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusConflict, recorder.Code)

		resp := decodeEnvelope(t, recorder)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, resp.Error.Code)
		mockWishlistService.AssertExpectations(t)
	})
}

func TestCheckWishlistHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockWishlistService, wishlistHandler := setupWishlistHandlerTest()

		liked := uuid.New()
		candidates := []uuid.UUID{liked, uuid.New()}

		mockWishlistService.On("CheckStatus", mock.Anything, userID, candidates).
			Return([]uuid.UUID{liked}, nil).Once()

		body, _ := json.Marshal(models.WishlistCheckRequest{ProductIDs: candidates})

		req := testutils.CreateTestRequestWithContext("POST", "/wishlist/"+userID.String()+"/check",
			bytes.NewReader(body), userID, map[string]string{"userId": userID.String()})
		recorder := httptest.NewRecorder()

		// Act
		wishlistHandler.CheckStatus()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		resp := decodeEnvelope(t, recorder)
		data, _ := json.Marshal(resp.Data)
		var status models.WishlistStatus
		require.NoError(t, json.Unmarshal(data, &status))
		assert.Equal(t, []uuid.UUID{liked}, status.LikedProducts)
		mockWishlistService.AssertExpectations(t)
	})
}

func TestRemoveWishlistHandler(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("Failure - Not In Wishlist", func(t *testing.T) {
		// Arrange
		mockWishlistService, wishlistHandler := setupWishlistHandlerTest()

		mockWishlistService.On("Remove", mock.Anything, userID, productID).
			Return(nil, appErrors.NotFoundError("Product not found in wishlist")).Once()

		req := testutils.CreateTestRequestWithContext("DELETE",
			"/wishlist/"+userID.String()+"/"+productID.String(), nil, userID,
			map[string]string{"userId": userID.String(), "productId": productID.String()})
		recorder := httptest.NewRecorder()

		// Act
		wishlistHandler.Remove()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		mockWishlistService.AssertExpectations(t)
	})
}
