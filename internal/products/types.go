package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tigraytip/storefront-backend/internal/cart"
	"github.com/tigraytip/storefront-backend/pkg/db/models"
)

// ProductDTO is the catalog shape served to clients.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CartSummary converts the product into the snapshot shape carts capture.
func (p ProductDTO) CartSummary() cart.ProductSummary {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	return cart.ProductSummary{
		ID:    p.ID,
		Title: p.Title,
		Price: p.Price,
		Image: image,
	}
}

// FromModel converts a stored product into its DTO shape.
func FromModel(record models.Product) ProductDTO {
	return toDTO(record)
}

func toDTO(record models.Product) ProductDTO {
	description := ""
	if record.Description != nil {
		description = *record.Description
	}
	return ProductDTO{
		ID:          record.ID,
		Title:       record.Title,
		Description: description,
		Category:    record.Category,
		Price:       record.Price,
		Images:      record.Images,
		Stock:       record.Stock,
		IsActive:    record.IsActive,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

// ProductsPageDTO wraps a catalog page and the cursor for the next page.
type ProductsPageDTO struct {
	Items  []ProductDTO `json:"items"`
	Cursor string       `json:"cursor"`
}

// CreateProductInput carries a new catalog listing.
type CreateProductInput struct {
	Title       string
	Description string
	Category    string
	Price       decimal.Decimal
	Images      []string
	Stock       int
}

// UpdateProductInput carries a partial catalog edit; nil fields are left
// untouched.
type UpdateProductInput struct {
	Title       *string
	Description *string
	Category    *string
	Price       *decimal.Decimal
	Images      []string
	Stock       *int
	IsActive    *bool
}

// ListParams configures catalog listing.
type ListParams struct {
	Category      string
	Cursor        string
	Limit         int
	IncludeHidden bool
}
