package notifications

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tigraytip/storefront-backend/pkg/db/models"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
	"github.com/tigraytip/storefront-backend/pkg/logger"
	"github.com/tigraytip/storefront-backend/pkg/pagination"
)

type fakeNotificationRepo struct {
	createFn      func(ctx context.Context, notification *models.Notification) error
	listFn        func(ctx context.Context, params pagination.Params) ([]models.Notification, string, error)
	countUnreadFn func(ctx context.Context) (int64, error)
	markReadFn    func(ctx context.Context, id uuid.UUID, at time.Time) error
	markAllFn     func(ctx context.Context, at time.Time) error
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, notification)
	}
	notification.ID = uuid.New()
	return nil
}

func (f *fakeNotificationRepo) List(ctx context.Context, params pagination.Params) ([]models.Notification, string, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, "", nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context) (int64, error) {
	if f.countUnreadFn != nil {
		return f.countUnreadFn(ctx)
	}
	return 0, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, id, at)
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, at time.Time) error {
	if f.markAllFn != nil {
		return f.markAllFn(ctx, at)
	}
	return nil
}

func TestListIncludesUnreadCount(t *testing.T) {
	first := uuid.New()
	repo := &fakeNotificationRepo{
		listFn: func(_ context.Context, params pagination.Params) ([]models.Notification, string, error) {
			if params.Limit != 10 {
				t.Fatalf("expected limit passthrough, got %d", params.Limit)
			}
			return []models.Notification{{ID: first, Title: "New order received"}}, "next", nil
		},
		countUnreadFn: func(context.Context) (int64, error) {
			return 3, nil
		},
	}
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	page, err := svc.List(context.Background(), pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != first {
		t.Fatalf("unexpected items %+v", page.Items)
	}
	if page.Cursor != "next" || page.Unread != 3 {
		t.Fatalf("unexpected page meta cursor=%q unread=%d", page.Cursor, page.Unread)
	}
}

func TestMarkReadStampsFixedClock(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var stamped time.Time
	repo := &fakeNotificationRepo{
		markReadFn: func(_ context.Context, _ uuid.UUID, at time.Time) error {
			stamped = at
			return nil
		},
	}
	svc, err := NewService(ServiceParams{Repo: repo, Now: func() time.Time { return fixed }})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.MarkRead(context.Background(), uuid.New()); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !stamped.Equal(fixed) {
		t.Fatalf("expected %s, got %s", fixed, stamped)
	}
}

func TestMarkReadMissingNotification(t *testing.T) {
	repo := &fakeNotificationRepo{
		markReadFn: func(context.Context, uuid.UUID, time.Time) error {
			return gorm.ErrRecordNotFound
		},
	}
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	err = svc.MarkRead(context.Background(), uuid.New())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkAllReadDependencyFailure(t *testing.T) {
	repo := &fakeNotificationRepo{
		markAllFn: func(context.Context, time.Time) error {
			return errors.New("db offline")
		},
	}
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	err = svc.MarkAllRead(context.Background())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestNewConsumerRequiresDependencies(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "notifications-test", Output: io.Discard})
	if _, err := NewConsumer(ConsumerParams{Repo: &fakeNotificationRepo{}, Logger: logg}); err == nil {
		t.Fatalf("expected error without subscription")
	}
	if _, err := NewConsumer(ConsumerParams{Subscription: stubReceiver{}, Logger: logg}); err == nil {
		t.Fatalf("expected error without repo")
	}
	if _, err := NewConsumer(ConsumerParams{Subscription: stubReceiver{}, Repo: &fakeNotificationRepo{}}); err == nil {
		t.Fatalf("expected error without logger")
	}
}

type stubReceiver struct{}

func (stubReceiver) Receive(ctx context.Context, _ func(context.Context, *pubsub.Message)) error {
	<-ctx.Done()
	return ctx.Err()
}
