package addresses

import (
	"time"

	"github.com/google/uuid"

	"github.com/tigraytip/storefront-backend/pkg/db/models"
)

// AddressDTO is the saved address shape served to clients.
type AddressDTO struct {
	ID         uuid.UUID `json:"id"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Line1      string    `json:"line1"`
	Line2      *string   `json:"line2,omitempty"`
	City       string    `json:"city"`
	Province   string    `json:"province"`
	PostalCode string    `json:"postal_code"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

func toDTO(record models.Address) AddressDTO {
	return AddressDTO{
		ID:         record.ID,
		FullName:   record.FullName,
		Phone:      record.Phone,
		Line1:      record.Line1,
		Line2:      record.Line2,
		City:       record.City,
		Province:   record.Province,
		PostalCode: record.PostalCode,
		IsDefault:  record.IsDefault,
		CreatedAt:  record.CreatedAt,
	}
}

// SaveAddressInput carries a new or edited delivery address.
type SaveAddressInput struct {
	UserID     uuid.UUID
	AddressID  uuid.UUID // zero on create
	FullName   string
	Phone      string
	Line1      string
	Line2      *string
	City       string
	Province   string
	PostalCode string
	IsDefault  bool
}
