package reconcile

import (
	"context"
	"sync"

	"github.com/tigraytip/storefront-backend/pkg/enums"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
)

// FeedState tracks the load lifecycle of a Feed.
type FeedState int

const (
	StateUninitialized FeedState = iota
	StateLoading
	StateReady
	StateError
)

func (s FeedState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Loader performs the initial bulk fetch, newest-first.
type Loader[T Keyed] func(ctx context.Context) ([]T, error)

// CancelFunc detaches a subscription. Safe to call more than once.
type CancelFunc func()

// Stream delivers change events to a subscriber until cancelled. onErr
// reports an asynchronous stream failure after Subscribe has returned; once
// it fires no further events are delivered.
type Stream[T Keyed] interface {
	Subscribe(ctx context.Context, fn func(Event[T]), onErr func(error)) (CancelFunc, error)
}

// Feed owns a reconciled list plus its load/subscribe lifecycle. A failed
// load is surfaced as StateError with the cause retained; an empty result is
// StateReady with zero records. The two are never conflated.
type Feed[T Keyed] struct {
	mu     sync.Mutex
	state  FeedState
	err    error
	list   List[T]
	loader Loader[T]
	stream Stream[T]
}

// NewFeed wires a feed to its bulk loader and event stream.
func NewFeed[T Keyed](loader Loader[T], stream Stream[T]) (*Feed[T], error) {
	if loader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "feed loader is required")
	}
	if stream == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "feed stream is required")
	}
	return &Feed[T]{
		state:  StateUninitialized,
		loader: loader,
		stream: stream,
	}, nil
}

// Load runs the bulk fetch and replaces the list contents. On failure the
// previous contents are kept and the feed moves to StateError.
func (f *Feed[T]) Load(ctx context.Context) error {
	f.mu.Lock()
	f.state = StateLoading
	f.mu.Unlock()

	items, err := f.loader(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateError
		f.err = err
		return err
	}
	f.list.Replace(items)
	f.state = StateReady
	f.err = nil
	return nil
}

// Subscribe attaches the event stream and folds every delivered event into
// the list. onInsert additionally fires for inserted events; it may be nil.
// A stream that fails after attaching moves the feed to StateError with the
// cause retained; a dead stream is never presented as a live one. The
// returned handle detaches the stream; once it returns, no further event
// mutates the feed. Event arrival order is trusted as delivered.
func (f *Feed[T]) Subscribe(ctx context.Context, onInsert func(T)) (CancelFunc, error) {
	var (
		detachMu sync.Mutex
		detached bool
	)

	streamCancel, err := f.stream.Subscribe(ctx, func(ev Event[T]) {
		detachMu.Lock()
		defer detachMu.Unlock()
		if detached {
			return
		}

		f.mu.Lock()
		f.list.Apply(ev)
		f.mu.Unlock()

		if onInsert != nil && ev.Kind == enums.ChangeInserted {
			onInsert(ev.Record)
		}
	}, func(cause error) {
		detachMu.Lock()
		defer detachMu.Unlock()
		if detached {
			return
		}

		f.mu.Lock()
		f.state = StateError
		f.err = cause
		f.mu.Unlock()
	})
	if err != nil {
		return nil, err
	}

	return func() {
		detachMu.Lock()
		detached = true
		detachMu.Unlock()
		streamCancel()
	}, nil
}

// Items returns a snapshot of the reconciled list.
func (f *Feed[T]) Items() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list.Items()
}

// State reports the current lifecycle state.
func (f *Feed[T]) State() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err returns the failure behind StateError, nil otherwise.
func (f *Feed[T]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
