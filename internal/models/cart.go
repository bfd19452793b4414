package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCartSize is applied when an add request carries no size.
const DefaultCartSize = "L"

// CartItem is one line of a user's cart. Name, price and image are a
// snapshot taken when the line was created; a later change to the product
// does not flow back into existing lines.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image,omitempty"`
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Price is a pointer so an absent field fails validation instead of
// freezing a zero into the line's snapshot; an explicit 0 stays valid.
type AddCartItemRequest struct {
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Price     *float64  `json:"price" validate:"required,gte=0"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
	Size      string    `json:"size,omitempty"`
	Color     string    `json:"color,omitempty"`
	Image     string    `json:"image,omitempty"`
}

type UpdateCartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type ClearResult struct {
	RemovedCount int64 `json:"removed_count"`
}
