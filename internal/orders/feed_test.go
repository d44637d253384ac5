package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/tigraytip/storefront-backend/internal/reconcile"
	"github.com/tigraytip/storefront-backend/pkg/db/models"
	"github.com/tigraytip/storefront-backend/pkg/enums"
)

type fakeOrderStream struct {
	mu      sync.Mutex
	handler func(reconcile.Event[OrderDTO])
}

func (s *fakeOrderStream) Subscribe(_ context.Context, fn func(reconcile.Event[OrderDTO]), _ func(error)) (reconcile.CancelFunc, error) {
	s.mu.Lock()
	s.handler = fn
	s.mu.Unlock()
	return func() {}, nil
}

func (s *fakeOrderStream) emit(ev reconcile.Event[OrderDTO]) {
	s.mu.Lock()
	fn := s.handler
	s.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

func TestLiveFeedLoadsAndFoldsChanges(t *testing.T) {
	o1 := uuid.New()
	o2 := uuid.New()
	repo := &fakeRepository{
		listFn: func(context.Context, ListParams) ([]models.Order, string, error) {
			return []models.Order{{ID: o1}, {ID: o2}}, "", nil
		},
	}
	stream := &fakeOrderStream{}

	feed, err := NewLiveFeed(FeedParams{Repo: repo, Stream: stream})
	if err != nil {
		t.Fatalf("NewLiveFeed: %v", err)
	}
	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	var notified []uuid.UUID
	cancel, err := feed.Subscribe(context.Background(), func(o OrderDTO) {
		notified = append(notified, o.ID)
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer cancel()

	o3 := uuid.New()
	stream.emit(reconcile.Event[OrderDTO]{Kind: enums.ChangeInserted, Record: OrderDTO{ID: o3}})
	stream.emit(reconcile.Event[OrderDTO]{Kind: enums.ChangeDeleted, Record: OrderDTO{ID: o1}})

	items := feed.Items()
	if len(items) != 2 || items[0].ID != o3 || items[1].ID != o2 {
		t.Fatalf("expected [o3 o2], got %v", items)
	}
	if len(notified) != 1 || notified[0] != o3 {
		t.Fatalf("expected insert notification for o3, got %v", notified)
	}
}
