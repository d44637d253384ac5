package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tigraytip/storefront-backend/pkg/enums"
)

type record struct {
	ID     string
	Status string
}

func (r record) Key() string { return r.ID }

func keysOf(items []record) []string {
	keys := make([]string, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.ID)
	}
	return keys
}

func sameKeys(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestListInsertPrependsNewestFirst(t *testing.T) {
	var list List[record]
	list.Replace([]record{{ID: "o1"}, {ID: "o2"}})

	list.Apply(Event[record]{Kind: enums.ChangeInserted, Record: record{ID: "o3"}})

	if got := keysOf(list.Items()); !sameKeys(got, "o3", "o1", "o2") {
		t.Fatalf("expected [o3 o1 o2], got %v", got)
	}
}

func TestListUpdatePreservesPosition(t *testing.T) {
	var list List[record]
	list.Replace([]record{{ID: "o3", Status: "placed"}, {ID: "o1"}, {ID: "o2"}})

	if changed := list.Apply(Event[record]{Kind: enums.ChangeUpdated, Record: record{ID: "o3", Status: "shipped"}}); !changed {
		t.Fatalf("expected update to apply")
	}

	items := list.Items()
	if got := keysOf(items); !sameKeys(got, "o3", "o1", "o2") {
		t.Fatalf("expected order preserved, got %v", got)
	}
	if items[0].Status != "shipped" {
		t.Fatalf("expected o3 status shipped, got %q", items[0].Status)
	}
}

func TestListDeleteRemoves(t *testing.T) {
	var list List[record]
	list.Replace([]record{{ID: "o3"}, {ID: "o1"}, {ID: "o2"}})

	list.Apply(Event[record]{Kind: enums.ChangeDeleted, Record: record{ID: "o1"}})

	if got := keysOf(list.Items()); !sameKeys(got, "o3", "o2") {
		t.Fatalf("expected [o3 o2], got %v", got)
	}
}

func TestListDuplicateEventsAreIdempotent(t *testing.T) {
	var list List[record]

	ins := Event[record]{Kind: enums.ChangeInserted, Record: record{ID: "o1", Status: "placed"}}
	list.Apply(ins)
	list.Apply(ins)
	if list.Len() != 1 {
		t.Fatalf("expected single record after replayed insert, got %d", list.Len())
	}

	del := Event[record]{Kind: enums.ChangeDeleted, Record: record{ID: "o1"}}
	if changed := list.Apply(del); !changed {
		t.Fatalf("expected first delete to apply")
	}
	if changed := list.Apply(del); changed {
		t.Fatalf("expected repeat delete to be a no-op")
	}
	if list.Len() != 0 {
		t.Fatalf("expected empty list, got %d records", list.Len())
	}
}

func TestListUpdateUnknownIdentityDropped(t *testing.T) {
	var list List[record]
	if changed := list.Apply(Event[record]{Kind: enums.ChangeUpdated, Record: record{ID: "ghost"}}); changed {
		t.Fatalf("expected update for unknown identity to be dropped")
	}
}

func TestListInterleavedFold(t *testing.T) {
	var list List[record]
	list.Apply(Event[record]{Kind: enums.ChangeInserted, Record: record{ID: "a", Status: "v1"}})
	list.Apply(Event[record]{Kind: enums.ChangeInserted, Record: record{ID: "b", Status: "v1"}})
	list.Apply(Event[record]{Kind: enums.ChangeUpdated, Record: record{ID: "a", Status: "v2"}})
	list.Apply(Event[record]{Kind: enums.ChangeDeleted, Record: record{ID: "b"}})
	list.Apply(Event[record]{Kind: enums.ChangeInserted, Record: record{ID: "c", Status: "v1"}})

	items := list.Items()
	if got := keysOf(items); !sameKeys(got, "c", "a") {
		t.Fatalf("expected [c a], got %v", got)
	}
	if items[1].Status != "v2" {
		t.Fatalf("expected latest payload for a, got %q", items[1].Status)
	}
}

type fakeStream struct {
	mu        sync.Mutex
	handler   func(Event[record])
	onErr     func(error)
	cancelled bool
	err       error
}

func (s *fakeStream) Subscribe(_ context.Context, fn func(Event[record]), onErr func(error)) (CancelFunc, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	s.handler = fn
	s.onErr = onErr
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.cancelled = true
		s.mu.Unlock()
	}, nil
}

func (s *fakeStream) emit(ev Event[record]) {
	s.mu.Lock()
	fn := s.handler
	s.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

func (s *fakeStream) breakWith(cause error) {
	s.mu.Lock()
	onErr := s.onErr
	s.mu.Unlock()
	if onErr != nil {
		onErr(cause)
	}
}

func TestFeedLoadReady(t *testing.T) {
	stream := &fakeStream{}
	feed, err := NewFeed(func(context.Context) ([]record, error) {
		return []record{{ID: "o1"}, {ID: "o2"}}, nil
	}, stream)
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}

	if feed.State() != StateUninitialized {
		t.Fatalf("expected uninitialized, got %s", feed.State())
	}
	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if feed.State() != StateReady {
		t.Fatalf("expected ready, got %s", feed.State())
	}
	if got := keysOf(feed.Items()); !sameKeys(got, "o1", "o2") {
		t.Fatalf("expected [o1 o2], got %v", got)
	}
}

func TestFeedLoadEmptyIsReadyNotError(t *testing.T) {
	feed, err := NewFeed(func(context.Context) ([]record, error) {
		return nil, nil
	}, &fakeStream{})
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}

	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if feed.State() != StateReady {
		t.Fatalf("empty result must be ready, got %s", feed.State())
	}
	if len(feed.Items()) != 0 {
		t.Fatalf("expected no items")
	}
}

func TestFeedLoadFailureSurfacesError(t *testing.T) {
	boom := errors.New("db offline")
	feed, err := NewFeed(func(context.Context) ([]record, error) {
		return nil, boom
	}, &fakeStream{})
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}

	if err := feed.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
	if feed.State() != StateError {
		t.Fatalf("expected error state, got %s", feed.State())
	}
	if !errors.Is(feed.Err(), boom) {
		t.Fatalf("expected cause retained, got %v", feed.Err())
	}
}

func TestFeedSubscribeFoldsAndNotifiesInserts(t *testing.T) {
	stream := &fakeStream{}
	feed, err := NewFeed(func(context.Context) ([]record, error) {
		return []record{{ID: "o1"}, {ID: "o2"}}, nil
	}, stream)
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}
	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	var inserted []string
	cancel, err := feed.Subscribe(context.Background(), func(r record) {
		inserted = append(inserted, r.ID)
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	stream.emit(Event[record]{Kind: enums.ChangeInserted, Record: record{ID: "o3", Status: "placed"}})
	stream.emit(Event[record]{Kind: enums.ChangeDeleted, Record: record{ID: "o1"}})
	stream.emit(Event[record]{Kind: enums.ChangeUpdated, Record: record{ID: "o3", Status: "shipped"}})

	items := feed.Items()
	if got := keysOf(items); !sameKeys(got, "o3", "o2") {
		t.Fatalf("expected [o3 o2], got %v", got)
	}
	if items[0].Status != "shipped" {
		t.Fatalf("expected o3 shipped, got %q", items[0].Status)
	}
	if len(inserted) != 1 || inserted[0] != "o3" {
		t.Fatalf("expected insert callback for o3 only, got %v", inserted)
	}

	cancel()
	if !stream.cancelled {
		t.Fatalf("expected upstream cancellation")
	}
}

func TestFeedCancelStopsMutation(t *testing.T) {
	stream := &fakeStream{}
	feed, err := NewFeed(func(context.Context) ([]record, error) {
		return nil, nil
	}, stream)
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}
	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cancel, err := feed.Subscribe(context.Background(), nil)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	cancel()

	stream.emit(Event[record]{Kind: enums.ChangeInserted, Record: record{ID: "late"}})
	if len(feed.Items()) != 0 {
		t.Fatalf("expected no mutation after cancel, got %v", keysOf(feed.Items()))
	}
}

func TestFeedSubscribeStreamFailure(t *testing.T) {
	boom := errors.New("subscription missing")
	feed, err := NewFeed(func(context.Context) ([]record, error) {
		return nil, nil
	}, &fakeStream{err: boom})
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}

	if _, err := feed.Subscribe(context.Background(), nil); !errors.Is(err, boom) {
		t.Fatalf("expected stream error, got %v", err)
	}
}

func TestFeedStreamFailureAfterSubscribeSurfaces(t *testing.T) {
	stream := &fakeStream{}
	feed, err := NewFeed(func(context.Context) ([]record, error) {
		return []record{{ID: "o1"}}, nil
	}, stream)
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}
	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := feed.Subscribe(context.Background(), nil); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	boom := errors.New("receive stopped")
	stream.breakWith(boom)

	if feed.State() != StateError {
		t.Fatalf("expected error state after stream failure, got %s", feed.State())
	}
	if !errors.Is(feed.Err(), boom) {
		t.Fatalf("expected cause retained, got %v", feed.Err())
	}
	// the already-loaded list is kept for display
	if got := keysOf(feed.Items()); !sameKeys(got, "o1") {
		t.Fatalf("expected [o1], got %v", got)
	}
}

func TestFeedStreamFailureAfterCancelIgnored(t *testing.T) {
	stream := &fakeStream{}
	feed, err := NewFeed(func(context.Context) ([]record, error) {
		return nil, nil
	}, stream)
	if err != nil {
		t.Fatalf("NewFeed: %v", err)
	}
	if err := feed.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cancel, err := feed.Subscribe(context.Background(), nil)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	cancel()

	stream.breakWith(errors.New("late failure"))

	if feed.State() != StateReady {
		t.Fatalf("expected detached feed to stay ready, got %s", feed.State())
	}
}
