package wishlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/tigraytip/storefront-backend/internal/products"
)

// WishlistItemDTO pairs a saved product with when it was saved.
type WishlistItemDTO struct {
	Product products.ProductDTO `json:"product"`
	SavedAt time.Time           `json:"saved_at"`
}

// WishlistPageDTO wraps a page of saved products and the next-page cursor.
type WishlistPageDTO struct {
	Items  []WishlistItemDTO `json:"items"`
	Cursor string            `json:"cursor"`
}

// WishlistIDsDTO lists only the saved product ids, for quick membership
// checks on catalog pages.
type WishlistIDsDTO struct {
	ProductIDs []uuid.UUID `json:"product_ids"`
}
