package models

import (
	"time"

	"github.com/google/uuid"
)

type WishlistItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
	Product   *Product  `json:"product,omitempty"`
}

type WishlistRequest struct {
	UserID    uuid.UUID `json:"user_id" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type WishlistCheckRequest struct {
	ProductIDs []uuid.UUID `json:"product_ids" validate:"required"`
}

const (
	WishlistActionAdded   = "added"
	WishlistActionRemoved = "removed"
)

// ToggleResult reports which way a toggle went.
type ToggleResult struct {
	Action  string        `json:"action"`
	IsLiked bool          `json:"is_liked"`
	Item    *WishlistItem `json:"item,omitempty"`
}

type WishlistStatus struct {
	LikedProducts []uuid.UUID `json:"liked_products"`
}
