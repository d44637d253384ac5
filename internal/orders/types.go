package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tigraytip/storefront-backend/pkg/db/models"
	"github.com/tigraytip/storefront-backend/pkg/enums"
	"github.com/tigraytip/storefront-backend/pkg/types"
)

// OrderDTO is the order shape served to clients and carried in change events.
type OrderDTO struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"user_id"`
	Items           types.CartLines        `json:"items"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	ShippingFee     decimal.Decimal        `json:"shipping_fee"`
	Tax             decimal.Decimal        `json:"tax"`
	Total           decimal.Decimal        `json:"total"`
	PaymentMethod   enums.PaymentMethod    `json:"payment_method"`
	PaymentStatus   enums.PaymentStatus    `json:"payment_status"`
	OrderStatus     enums.OrderStatus      `json:"order_status"`
	TrackingNumber  *string                `json:"tracking_number,omitempty"`
	ShippingAddress *types.ShippingAddress `json:"shipping_address,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// Key implements the reconciled-list identity.
func (o OrderDTO) Key() string {
	return o.ID.String()
}

func toDTO(record models.Order) OrderDTO {
	return OrderDTO{
		ID:              record.ID,
		UserID:          record.UserID,
		Items:           record.Items,
		Subtotal:        record.Subtotal,
		ShippingFee:     record.ShippingFee,
		Tax:             record.Tax,
		Total:           record.Total,
		PaymentMethod:   record.PaymentMethod,
		PaymentStatus:   record.PaymentStatus,
		OrderStatus:     record.OrderStatus,
		TrackingNumber:  record.TrackingNumber,
		ShippingAddress: record.ShippingAddress,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

// OrdersPageDTO wraps a page of orders and the cursor for the next page.
type OrdersPageDTO struct {
	Items  []OrderDTO `json:"items"`
	Cursor string     `json:"cursor"`
}

// PlaceOrderInput carries everything needed to turn a cart snapshot into an
// order.
type PlaceOrderInput struct {
	UserID          uuid.UUID
	Items           types.CartLines
	ShippingAddress *types.ShippingAddress
}

// ListParams configures order listing. A nil UserID lists all orders
// (back-office view); otherwise the list is scoped to the user.
type ListParams struct {
	UserID *uuid.UUID
	Cursor string
	Limit  int
}

// UpdateStatusInput carries a fulfilment transition.
type UpdateStatusInput struct {
	OrderID        uuid.UUID
	Status         enums.OrderStatus
	TrackingNumber *string
}
