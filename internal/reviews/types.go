package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/tigraytip/storefront-backend/pkg/db/models"
)

// ReviewDTO is the review shape served to clients.
type ReviewDTO struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	UserID       uuid.UUID `json:"user_id"`
	ReviewerName string    `json:"reviewer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

func toDTO(record models.Review) ReviewDTO {
	return ReviewDTO{
		ID:           record.ID,
		ProductID:    record.ProductID,
		UserID:       record.UserID,
		ReviewerName: record.ReviewerName,
		Rating:       record.Rating,
		Comment:      record.Comment,
		CreatedAt:    record.CreatedAt,
	}
}

// AddReviewInput carries a new product review.
type AddReviewInput struct {
	ProductID uuid.UUID
	UserID    uuid.UUID
	Rating    int
	Comment   string
}

// UpdateReviewInput carries an edit to an existing review.
type UpdateReviewInput struct {
	ReviewID uuid.UUID
	UserID   uuid.UUID
	Rating   int
	Comment  string
}
