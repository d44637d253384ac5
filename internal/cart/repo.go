package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tigraytip/storefront-backend/pkg/db/models"
	"github.com/tigraytip/storefront-backend/pkg/types"
)

// Repository persists the user_carts mirror.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart mirror repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert replaces the user's mirrored cart wholesale. Last write wins.
func (r *Repository) Upsert(ctx context.Context, userID uuid.UUID, items types.CartLines) error {
	if userID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if items == nil {
		items = types.CartLines{}
	}

	record := models.UserCart{
		UserID: userID,
		Items:  items,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
		}).
		Create(&record).
		Error
}

// Fetch returns the user's mirrored cart. A missing row is an empty cart,
// not an error.
func (r *Repository) Fetch(ctx context.Context, userID uuid.UUID) (types.CartLines, error) {
	var record models.UserCart
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&record).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.CartLines{}, nil
		}
		return nil, err
	}
	if record.Items == nil {
		return types.CartLines{}, nil
	}
	return record.Items, nil
}
