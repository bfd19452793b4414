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

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(svc service.CartService) *CartHandler {
	return &CartHandler{
		cartService: svc,
		validator:   validator.New(),
	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, err := pathUUID(r, "userId")
		if err != nil {
			response.Error(w, err)

			return
		}

		if _, ok := authorizeUser(w, r, userID); !ok {
			return
		}

		items, err := h.cartService.GetCart(r.Context(), userID)
		if err != nil {
			response.Error(w, err)

			return
		}

		var total int64
		for _, item := range items {
			total += int64(item.Quantity)
		}

		response.SuccessWithCount(w, http.StatusOK, total, items)
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.AddCartItemRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if _, ok := authorizeUser(w, r, req.UserID); !ok {
			return
		}

		item, err := h.cartService.AddItem(r.Context(), &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		logger := middleware.LoggerFromContext(r.Context())
		logger.Info("cart item added",
			slog.String("user_id", req.UserID.String()),
			slog.String("product_id", req.ProductID.String()),
			slog.Int("quantity", item.Quantity),
		)

		response.SuccessWithMessage(w, http.StatusCreated, "Item added to cart", item)
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			response.Error(w, err)

			return
		}

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errUnauthorized())

			return
		}

		var req models.UpdateCartQuantityRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		item, err := h.cartService.UpdateQuantity(r.Context(), claims.UserID, itemID, req.Quantity)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.SuccessWithMessage(w, http.StatusOK, "Cart item updated", item)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			response.Error(w, err)

			return
		}

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errUnauthorized())

			return
		}

		item, err := h.cartService.RemoveItem(r.Context(), claims.UserID, itemID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.SuccessWithMessage(w, http.StatusOK, "Item removed from cart", item)
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, err := pathUUID(r, "userId")
		if err != nil {
			response.Error(w, err)

			return
		}

		if _, ok := authorizeUser(w, r, userID); !ok {
			return
		}

		removed, err := h.cartService.ClearCart(r.Context(), userID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.SuccessWithMessage(w, http.StatusOK, "Cart cleared", models.ClearResult{RemovedCount: removed})
	}
}

func (h *CartHandler) Count() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		userID, err := pathUUID(r, "userId")
		if err != nil {
			response.Error(w, err)

			return
		}

		if _, ok := authorizeUser(w, r, userID); !ok {
			return
		}

		count, err := h.cartService.Count(r.Context(), userID)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.SuccessWithCount(w, http.StatusOK, count, nil)
	}
}
