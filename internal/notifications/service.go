package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tigraytip/storefront-backend/pkg/db/models"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
	"github.com/tigraytip/storefront-backend/pkg/pagination"
)

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, params pagination.Params) ([]models.Notification, string, error)
	CountUnread(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkAllRead(ctx context.Context, at time.Time) error
}

// ServiceParams groups dependencies for the notifications service.
type ServiceParams struct {
	Repo repository
	Now  func() time.Time
}

// Service exposes the back-office notification inbox.
type Service interface {
	List(ctx context.Context, params pagination.Params) (NotificationsPageDTO, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) error
}

type service struct {
	repo repository
	now  func() time.Time
}

// NewService builds a notifications service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notification repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, now: now}, nil
}

// List returns notifications newest-first plus the unread count.
func (s *service) List(ctx context.Context, params pagination.Params) (NotificationsPageDTO, error) {
	records, cursor, err := s.repo.List(ctx, params)
	if err != nil {
		return NotificationsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	unread, err := s.repo.CountUnread(ctx)
	if err != nil {
		return NotificationsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}

	items := make([]NotificationDTO, 0, len(records))
	for _, record := range records {
		items = append(items, toDTO(record))
	}
	return NotificationsPageDTO{Items: items, Cursor: cursor, Unread: unread}, nil
}

// MarkRead stamps one notification as read.
func (s *service) MarkRead(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id is required")
	}
	if err := s.repo.MarkRead(ctx, id, s.now().UTC()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "notification not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	return nil
}

// MarkAllRead stamps every unread notification.
func (s *service) MarkAllRead(ctx context.Context) error {
	if err := s.repo.MarkAllRead(ctx, s.now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark all notifications read")
	}
	return nil
}
