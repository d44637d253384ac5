package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tigraytip/storefront-backend/pkg/types"
)

// UserCart mirrors the active cart of a signed-in user. The row is replaced
// wholesale on every sync; the latest write wins.
type UserCart struct {
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;primaryKey"`
	Items     types.CartLines `gorm:"column:items;type:jsonb;serializer:json;not null"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
