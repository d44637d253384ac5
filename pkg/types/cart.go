package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is the product snapshot captured when an item enters a cart.
// Price and title are frozen at add time so later catalog edits do not
// rewrite history.
type CartLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
}

// CartLines is the JSONB column shape for a persisted cart snapshot.
type CartLines []CartLine
