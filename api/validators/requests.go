package validators

import (
	"github.com/shopspring/decimal"

	"github.com/tigraytip/storefront-backend/pkg/types"
)

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=120"`
}

// LoginRequest signs an existing account in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges an expired access token for a fresh pair.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest edits the caller's display name.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// ChangePasswordRequest rotates the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// CreateProductRequest adds a catalog entry.
type CreateProductRequest struct {
	Title       string          `json:"title" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Category    string          `json:"category" validate:"required,min=1,max=100"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Images      []string        `json:"images" validate:"dive,url"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// UpdateProductRequest partially edits a catalog entry.
type UpdateProductRequest struct {
	Title       *string          `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Images      []string         `json:"images,omitempty" validate:"omitempty,dive,url"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// CartAddRequest merges a product into the cart. The product snapshot is
// captured server-side from the catalog.
type CartAddRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CartQuantityRequest sets the absolute quantity of one line.
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// PlaceOrderRequest turns the cart into an order.
type PlaceOrderRequest struct {
	ShippingAddress *types.ShippingAddress `json:"shipping_address"`
}

// UpdateOrderStatusRequest applies a fulfilment transition.
type UpdateOrderStatusRequest struct {
	Status         string  `json:"status" validate:"required,oneof=placed processing shipped delivered"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
}

// WishlistAddRequest saves a product for later.
type WishlistAddRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// AddReviewRequest posts a product review.
type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// UpdateReviewRequest edits the caller's review.
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// SaveAddressRequest creates or edits a delivery address.
type SaveAddressRequest struct {
	FullName   string  `json:"full_name" validate:"required,min=1,max=120"`
	Phone      string  `json:"phone" validate:"required,min=5,max=32"`
	Line1      string  `json:"line1" validate:"required,min=1,max=200"`
	Line2      *string `json:"line2,omitempty" validate:"omitempty,max=200"`
	City       string  `json:"city" validate:"required,min=1,max=100"`
	Province   string  `json:"province" validate:"required,min=1,max=100"`
	PostalCode string  `json:"postal_code" validate:"required,min=1,max=20"`
	IsDefault  bool    `json:"is_default"`
}
