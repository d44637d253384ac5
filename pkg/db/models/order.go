package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tigraytip/storefront-backend/pkg/enums"
	"github.com/tigraytip/storefront-backend/pkg/types"
)

// Order captures a placed checkout: the line snapshots, the computed totals
// and the fulfilment state.
type Order struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	Items           types.CartLines        `gorm:"column:items;type:jsonb;serializer:json;not null"`
	Subtotal        decimal.Decimal        `gorm:"column:subtotal;type:numeric(12,2);not null"`
	ShippingFee     decimal.Decimal        `gorm:"column:shipping_fee;type:numeric(12,2);not null"`
	Tax             decimal.Decimal        `gorm:"column:tax;type:numeric(12,2);not null"`
	Total           decimal.Decimal        `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentMethod   enums.PaymentMethod    `gorm:"column:payment_method;type:text;not null;default:'cod'"`
	PaymentStatus   enums.PaymentStatus    `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	OrderStatus     enums.OrderStatus      `gorm:"column:order_status;type:text;not null;default:'placed'"`
	TrackingNumber  *string                `gorm:"column:tracking_number"`
	ShippingAddress *types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
