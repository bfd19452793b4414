package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/furniro/storefront/internal/api/middleware"
	apperrors "github.com/furniro/storefront/internal/errors"
	"github.com/furniro/storefront/internal/models"
	service "github.com/furniro/storefront/internal/services"
	"github.com/furniro/storefront/internal/utils"
	"github.com/furniro/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: svc,
		validator:      validator.New(),
	}
}

func (h *ProductHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		filter, err := parseProductFilter(r)
		if err != nil {
			response.Error(w, err)

			return
		}

		page, err := h.productService.List(r.Context(), filter)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.SuccessWithCount(w, http.StatusOK, page.TotalProducts, page)
	}
}

func (h *ProductHandler) GetByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := pathUUID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		detail, err := h.productService.GetByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, detail)
	}
}

func (h *ProductHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.CreateProductRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.Create(r.Context(), &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		logger := middleware.LoggerFromContext(r.Context())
		logger.Info("product created",
			slog.String("product_id", product.ID.String()),
			slog.String("sku", product.SKU),
		)

		response.SuccessWithMessage(w, http.StatusCreated, "Product created", product)
	}
}

func (h *ProductHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := pathUUID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		var req models.UpdateProductRequest

		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.Update(r.Context(), id, &req)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.SuccessWithMessage(w, http.StatusOK, "Product updated", product)
	}
}

func (h *ProductHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := pathUUID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		if err := h.productService.Delete(r.Context(), id); err != nil {
			response.Error(w, err)

			return
		}

		response.SuccessWithMessage(w, http.StatusOK, "Product deleted", nil)
	}
}

func parseProductFilter(r *http.Request) (*models.ProductFilter, error) {

	q := r.URL.Query()

	filter := &models.ProductFilter{
		Brand:    q.Get("brand"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Order:    q.Get("order"),
	}

	if raw := q.Get("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return nil, apperrors.BadRequestError("minPrice must be a non-negative number")
		}

		filter.MinPrice = &v
	}

	if raw := q.Get("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return nil, apperrors.BadRequestError("maxPrice must be a non-negative number")
		}

		filter.MaxPrice = &v
	}

	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return nil, apperrors.BadRequestError("page must be a positive integer")
		}

		filter.Page = v
	}

	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return nil, apperrors.BadRequestError("limit must be a positive integer")
		}

		filter.Limit = v
	}

	return filter, nil
}
