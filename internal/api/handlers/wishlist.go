package handlers

import (
	"log/slog"
	"net/http"

	"github.com/furniro/storefront/internal/api/middleware"
	"github.com/furniro/storefront/internal/models"
	service "github.com/furniro/storefront/internal/services"
	"github.com/furniro/storefront/internal/utils"
	"github.com/furniro/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type WishlistHandler struct {
	wishlistService service.WishlistService
	validator       *validator.Validate
}

func NewWishlistHandler(svc service.WishlistService) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: svc,
		validator:       validator.New(),
	}
}

func (h *WishlistHandler) GetWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, err := pathUUID(r, "userId")
		if err != nil {
			response.Error(w, err)

			return
		}

		if _, ok := authorizeUser(w, r, userID); !ok {
			return
		}

		items, err := h.wishlistService.GetWishlist(r.Context(), userID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.SuccessWithCount(w, http.StatusOK, int64(len(items)), items)
	}
}

func (h *WishlistHandler) Add() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.WishlistRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if _, ok := authorizeUser(w, r, req.UserID); !ok {
			return
		}

		item, err := h.wishlistService.Add(r.Context(), req.UserID, req.ProductID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.SuccessWithMessage(w, http.StatusCreated, "Product added to wishlist", item)
	}
}

func (h *WishlistHandler) Toggle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.WishlistRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if _, ok := authorizeUser(w, r, req.UserID); !ok {
			return
		}

		result, err := h.wishlistService.Toggle(r.Context(), req.UserID, req.ProductID)
		if err != nil {
			response.Error(w, err)

			return
		}

		logger := middleware.LoggerFromContext(r.Context())
		logger.Info("wishlist toggled",
			slog.String("user_id", req.UserID.String()),
			slog.String("product_id", req.ProductID.String()),
			slog.String("action", result.Action),
		)

		response.Success(w, http.StatusOK, result)
	}
}

func (h *WishlistHandler) Remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, err := pathUUID(r, "userId")
		if err != nil {
			response.Error(w, err)

			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			response.Error(w, err)

			return
		}

		if _, ok := authorizeUser(w, r, userID); !ok {
			return
		}

		item, err := h.wishlistService.Remove(r.Context(), userID, productID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.SuccessWithMessage(w, http.StatusOK, "Product removed from wishlist", item)
	}
}

func (h *WishlistHandler) Clear() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, err := pathUUID(r, "userId")
		if err != nil {
			response.Error(w, err)

			return
		}

		if _, ok := authorizeUser(w, r, userID); !ok {
			return
		}

		removed, err := h.wishlistService.Clear(r.Context(), userID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.SuccessWithMessage(w, http.StatusOK, "Wishlist cleared", models.ClearResult{RemovedCount: removed})
	}
}

func (h *WishlistHandler) Count() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, err := pathUUID(r, "userId")
		if err != nil {
			response.Error(w, err)

			return
		}

		if _, ok := authorizeUser(w, r, userID); !ok {
			return
		}

		count, err := h.wishlistService.Count(r.Context(), userID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.SuccessWithCount(w, http.StatusOK, count, nil)
	}
}

func (h *WishlistHandler) CheckStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, err := pathUUID(r, "userId")
		if err != nil {
			response.Error(w, err)

			return
		}

		if _, ok := authorizeUser(w, r, userID); !ok {
			return
		}

		var req models.WishlistCheckRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		liked, err := h.wishlistService.CheckStatus(r.Context(), userID, req.ProductIDs)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.WishlistStatus{LikedProducts: liked})
	}
}
