// Package client is a typed Go client for the storefront REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/furniro/storefront/internal/models"
	"github.com/furniro/storefront/internal/utils/response"
	"github.com/google/uuid"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetToken installs the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) (*response.APIResponse, error) {

	var reqBody io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}

		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var envelope struct {
		Success bool                    `json:"success"`
		Message string                  `json:"message"`
		Data    json.RawMessage         `json:"data"`
		Count   *int64                  `json:"count"`
		Error   *response.ErrorResponse `json:"error"`
	}

	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !envelope.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: envelope.Message}

		if envelope.Error != nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
			apiErr.Details = envelope.Error.Details
		}

		return nil, apiErr
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return &response.APIResponse{
		Success: envelope.Success,
		Message: envelope.Message,
		Count:   envelope.Count,
	}, nil
}

func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	var auth models.AuthResponse

	if _, err := c.do(ctx, http.MethodPost, "/api/v1/users/register", req, &auth); err != nil {
		return nil, err
	}

	c.token = auth.Token

	return &auth, nil
}

func (c *Client) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	var auth models.AuthResponse

	if _, err := c.do(ctx, http.MethodPost, "/api/v1/users/login", req, &auth); err != nil {
		return nil, err
	}

	c.token = auth.Token

	return &auth, nil
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User

	if _, err := c.do(ctx, http.MethodGet, "/api/v1/users/profile", nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.User, error) {
	var user models.User

	if _, err := c.do(ctx, http.MethodPut, "/api/v1/users/profile", req, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, req *models.ChangePasswordRequest) error {
	_, err := c.do(ctx, http.MethodPut, "/api/v1/users/password", req, nil)

	return err
}

func (c *Client) ListProducts(ctx context.Context, filter *models.ProductFilter) (*models.ProductPage, error) {

	path := "/api/v1/products"

	if filter != nil {
		q := url.Values{}

		if filter.Brand != "" {
			q.Set("brand", filter.Brand)
		}

		if filter.Category != "" {
			q.Set("category", filter.Category)
		}

		if filter.Search != "" {
			q.Set("search", filter.Search)
		}

		if filter.Sort != "" {
			q.Set("sort", filter.Sort)
		}

		if filter.Order != "" {
			q.Set("order", filter.Order)
		}

		if filter.MinPrice != nil {
			q.Set("minPrice", strconv.FormatFloat(*filter.MinPrice, 'f', -1, 64))
		}

		if filter.MaxPrice != nil {
			q.Set("maxPrice", strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64))
		}

		if filter.Page > 0 {
			q.Set("page", strconv.Itoa(filter.Page))
		}

		if filter.Limit > 0 {
			q.Set("limit", strconv.Itoa(filter.Limit))
		}

		if encoded := q.Encode(); encoded != "" {
			path += "?" + encoded
		}
	}

	var page models.ProductPage

	if _, err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (*models.ProductDetail, error) {
	var detail models.ProductDetail

	if _, err := c.do(ctx, http.MethodGet, "/api/v1/products/"+id.String(), nil, &detail); err != nil {
		return nil, err
	}

	return &detail, nil
}

func (c *Client) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem

	if _, err := c.do(ctx, http.MethodGet, "/api/v1/cart/"+userID.String(), nil, &items); err != nil {
		return nil, err
	}

	return items, nil
}

func (c *Client) AddCartItem(ctx context.Context, req *models.AddCartItemRequest) (*models.CartItem, error) {
	var item models.CartItem

	if _, err := c.do(ctx, http.MethodPost, "/api/v1/cart", req, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

func (c *Client) UpdateCartQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	var item models.CartItem

	req := models.UpdateCartQuantityRequest{Quantity: quantity}

	if _, err := c.do(ctx, http.MethodPut, "/api/v1/cart/items/"+itemID.String(), req, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem

	if _, err := c.do(ctx, http.MethodDelete, "/api/v1/cart/items/"+itemID.String(), nil, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

func (c *Client) ClearCart(ctx context.Context, userID uuid.UUID) (int64, error) {
	var result models.ClearResult

	if _, err := c.do(ctx, http.MethodDelete, "/api/v1/cart/"+userID.String(), nil, &result); err != nil {
		return 0, err
	}

	return result.RemovedCount, nil
}

func (c *Client) CartCount(ctx context.Context, userID uuid.UUID) (int64, error) {

	resp, err := c.do(ctx, http.MethodGet, "/api/v1/cart/"+userID.String()+"/count", nil, nil)
	if err != nil {
		return 0, err
	}

	if resp.Count == nil {
		return 0, nil
	}

	return *resp.Count, nil
}

func (c *Client) GetWishlist(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	var items []models.WishlistItem

	if _, err := c.do(ctx, http.MethodGet, "/api/v1/wishlist/"+userID.String(), nil, &items); err != nil {
		return nil, err
	}

	return items, nil
}

func (c *Client) AddToWishlist(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error) {
	var item models.WishlistItem

	req := models.WishlistRequest{UserID: userID, ProductID: productID}

	if _, err := c.do(ctx, http.MethodPost, "/api/v1/wishlist", req, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

func (c *Client) ToggleWishlist(ctx context.Context, userID, productID uuid.UUID) (*models.ToggleResult, error) {
	var result models.ToggleResult

	req := models.WishlistRequest{UserID: userID, ProductID: productID}

	if _, err := c.do(ctx, http.MethodPost, "/api/v1/wishlist/toggle", req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error) {
	var item models.WishlistItem

	path := "/api/v1/wishlist/" + userID.String() + "/" + productID.String()

	if _, err := c.do(ctx, http.MethodDelete, path, nil, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

func (c *Client) ClearWishlist(ctx context.Context, userID uuid.UUID) (int64, error) {
	var result models.ClearResult

	if _, err := c.do(ctx, http.MethodDelete, "/api/v1/wishlist/"+userID.String(), nil, &result); err != nil {
		return 0, err
	}

	return result.RemovedCount, nil
}

func (c *Client) WishlistCount(ctx context.Context, userID uuid.UUID) (int64, error) {

	resp, err := c.do(ctx, http.MethodGet, "/api/v1/wishlist/"+userID.String()+"/count", nil, nil)
	if err != nil {
		return 0, err
	}

	if resp.Count == nil {
		return 0, nil
	}

	return *resp.Count, nil
}

func (c *Client) CheckWishlist(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) ([]uuid.UUID, error) {
	var status models.WishlistStatus

	req := models.WishlistCheckRequest{ProductIDs: productIDs}

	path := "/api/v1/wishlist/" + userID.String() + "/check"

	if _, err := c.do(ctx, http.MethodPost, path, req, &status); err != nil {
		return nil, err
	}

	return status.LikedProducts, nil
}
