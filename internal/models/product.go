package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProductStatusActive     = "active"
	ProductStatusInactive   = "inactive"
	ProductStatusOutOfStock = "out_of_stock"
)

type ProductImage struct {
	URL    string `json:"url"`
	Alt    string `json:"alt,omitempty"`
	IsMain bool   `json:"is_main,omitempty"`
}

type SizeVariant struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Stock     int    `json:"stock"`
}

type ColorVariant struct {
	Name      string `json:"name"`
	HexCode   string `json:"hex_code,omitempty"`
	Available bool   `json:"available"`
}

type ProductVariants struct {
	Sizes  []SizeVariant  `json:"sizes,omitempty"`
	Colors []ColorVariant `json:"colors,omitempty"`
}

type Product struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Brand            string           `json:"brand"`
	Category         string           `json:"category"`
	Price            float64          `json:"price"`
	OriginalPrice    *float64         `json:"original_price,omitempty"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"short_description,omitempty"`
	Image            string           `json:"image"`
	Images           []ProductImage   `json:"images,omitempty"`
	Stock            int              `json:"stock"`
	Status           string           `json:"status"`
	Variants         *ProductVariants `json:"variants,omitempty"`
	AverageRating    float64          `json:"average_rating"`
	TotalReviews     int              `json:"total_reviews"`
	Tags             []string         `json:"tags,omitempty"`
	IsNew            bool             `json:"is_new"`
	SKU              string           `json:"sku"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// DiscountPercentage mirrors the display-only virtual on the catalog:
// rounded percentage off when an original price is set above the price.
func (p *Product) DiscountPercentage() int {
	if p.OriginalPrice != nil && *p.OriginalPrice > p.Price {
		return int(((*p.OriginalPrice - p.Price) / *p.OriginalPrice * 100) + 0.5)
	}

	return 0
}

type ProductDetail struct {
	Product
	RelatedProducts []Product `json:"related_products"`
}

type CreateProductRequest struct {
	Name             string           `json:"name" validate:"required,min=1,max=200"`
	Brand            string           `json:"brand" validate:"required"`
	Category         string           `json:"category" validate:"required"`
	Price            float64          `json:"price" validate:"gte=0"`
	OriginalPrice    *float64         `json:"original_price,omitempty" validate:"omitempty,gte=0"`
	Description      string           `json:"description" validate:"required"`
	ShortDescription string           `json:"short_description,omitempty"`
	Image            string           `json:"image" validate:"required,url"`
	Images           []ProductImage   `json:"images,omitempty"`
	Stock            int              `json:"stock" validate:"gte=0"`
	Status           string           `json:"status,omitempty" validate:"omitempty,oneof=active inactive out_of_stock"`
	Variants         *ProductVariants `json:"variants,omitempty"`
	Tags             []string         `json:"tags,omitempty"`
	IsNew            bool             `json:"is_new,omitempty"`
	SKU              string           `json:"sku,omitempty"`
}

type UpdateProductRequest struct {
	Name             *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Brand            *string          `json:"brand,omitempty"`
	Category         *string          `json:"category,omitempty"`
	Price            *float64         `json:"price,omitempty" validate:"omitempty,gte=0"`
	OriginalPrice    *float64         `json:"original_price,omitempty" validate:"omitempty,gte=0"`
	Description      *string          `json:"description,omitempty"`
	ShortDescription *string          `json:"short_description,omitempty"`
	Image            *string          `json:"image,omitempty" validate:"omitempty,url"`
	Images           []ProductImage   `json:"images,omitempty"`
	Stock            *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Status           *string          `json:"status,omitempty" validate:"omitempty,oneof=active inactive out_of_stock"`
	Variants         *ProductVariants `json:"variants,omitempty"`
	Tags             []string         `json:"tags,omitempty"`
	IsNew            *bool            `json:"is_new,omitempty"`
}

// ProductFilter is everything the catalog list endpoint accepts.
type ProductFilter struct {
	Brand    string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Search   string
	Sort     string
	Order    string
	Page     int
	Limit    int
}

type ProductPage struct {
	Products      []Product `json:"products"`
	TotalPages    int       `json:"totalPages"`
	CurrentPage   int       `json:"currentPage"`
	TotalProducts int64     `json:"totalProducts"`
}
