package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/tigraytip/storefront-backend/pkg/db/models"
	"github.com/tigraytip/storefront-backend/pkg/enums"
)

// NotificationDTO is the in-app notification shape served to clients.
type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	OrderID   *uuid.UUID             `json:"order_id,omitempty"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func toDTO(record models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        record.ID,
		Type:      record.Type,
		Title:     record.Title,
		Message:   record.Message,
		OrderID:   record.OrderID,
		ReadAt:    record.ReadAt,
		CreatedAt: record.CreatedAt,
	}
}

// NotificationsPageDTO is one cursor page of notifications.
type NotificationsPageDTO struct {
	Items  []NotificationDTO `json:"items"`
	Cursor string            `json:"cursor,omitempty"`
	Unread int64             `json:"unread"`
}
