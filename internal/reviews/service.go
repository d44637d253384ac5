package reviews

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tigraytip/storefront-backend/pkg/db/models"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
)

// AnonymousReviewer is used when the reviewer's profile name is missing.
const AnonymousReviewer = "Anonymous"

type repository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (models.Review, error)
	Update(ctx context.Context, id uuid.UUID, rating int, comment string) (models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

// ServiceParams groups dependencies for the reviews service.
type ServiceParams struct {
	ReviewRepo repository
	UserRepo   userFinder
}

// Service exposes product review management.
type Service interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error)
	Add(ctx context.Context, input AddReviewInput) (ReviewDTO, error)
	Update(ctx context.Context, input UpdateReviewInput) (ReviewDTO, error)
	Delete(ctx context.Context, reviewID, userID uuid.UUID) error
}

type service struct {
	reviewRepo repository
	userRepo   userFinder
}

// NewService builds a reviews service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ReviewRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{
		reviewRepo: params.ReviewRepo,
		userRepo:   params.UserRepo,
	}, nil
}

// ListByProduct returns a product's reviews newest-first.
func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	records, err := s.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	items := make([]ReviewDTO, 0, len(records))
	for _, record := range records {
		items = append(items, toDTO(record))
	}
	return items, nil
}

// Add creates a review, freezing the reviewer's display name at submit time.
func (s *service) Add(ctx context.Context, input AddReviewInput) (ReviewDTO, error) {
	if input.ProductID == uuid.Nil {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.UserID == uuid.Nil {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	record := models.Review{
		ProductID:    input.ProductID,
		UserID:       input.UserID,
		ReviewerName: s.reviewerName(ctx, input.UserID),
		Rating:       input.Rating,
		Comment:      strings.TrimSpace(input.Comment),
	}
	if err := s.reviewRepo.Create(ctx, &record); err != nil {
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return toDTO(record), nil
}

// Update edits the caller's own review.
func (s *service) Update(ctx context.Context, input UpdateReviewInput) (ReviewDTO, error) {
	if input.ReviewID == uuid.Nil {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "review id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	existing, err := s.reviewRepo.FindByID(ctx, input.ReviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "review not found")
		}
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if existing.UserID != input.UserID {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "cannot edit another user's review")
	}

	record, err := s.reviewRepo.Update(ctx, input.ReviewID, input.Rating, strings.TrimSpace(input.Comment))
	if err != nil {
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
	}
	return toDTO(record), nil
}

// Delete removes the caller's own review.
func (s *service) Delete(ctx context.Context, reviewID, userID uuid.UUID) error {
	if reviewID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "review id is required")
	}

	existing, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if existing.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot delete another user's review")
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

// reviewerName resolves the display name, falling back to Anonymous when the
// profile is missing or has no name.
func (s *service) reviewerName(ctx context.Context, userID uuid.UUID) string {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return AnonymousReviewer
	}
	if name := strings.TrimSpace(user.Name); name != "" {
		return name
	}
	return AnonymousReviewer
}
