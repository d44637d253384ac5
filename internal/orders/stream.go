package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/tigraytip/storefront-backend/internal/reconcile"
	"github.com/tigraytip/storefront-backend/pkg/logger"
)

type subscriberReceiver interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

type streamHandler struct {
	fn    func(reconcile.Event[OrderDTO])
	onErr func(error)
}

// Stream adapts the orders Pub/Sub subscription to the reconciler's stream
// port. A Pub/Sub subscription load-balances messages across receivers, so
// the process runs exactly one Receive loop (Run) and fans every decoded
// event out to all registered subscribers; each live feed sees every event.
// Messages that do not decode are acked and dropped; the feeds only ever see
// well-formed events.
type Stream struct {
	sub  subscriberReceiver
	logg *logger.Logger

	mu       sync.Mutex
	nextID   int
	handlers map[int]streamHandler
	err      error
}

// NewStream wraps an orders subscription. Call Run once to start receiving.
func NewStream(sub subscriberReceiver, logg *logger.Logger) (*Stream, error) {
	if sub == nil {
		return nil, fmt.Errorf("orders subscription required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Stream{
		sub:      sub,
		logg:     logg,
		handlers: make(map[int]streamHandler),
	}, nil
}

// Run receives from the subscription until ctx is cancelled, fanning each
// event out to every registered subscriber. A receive failure is terminal:
// all current subscribers are notified through their error callbacks and
// later Subscribe calls are refused.
func (s *Stream) Run(ctx context.Context) error {
	err := s.sub.Receive(ctx, func(mctx context.Context, msg *pubsub.Message) {
		var event ChangeEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logCtx := s.logg.WithField(mctx, "message_id", msg.ID)
			s.logg.Error(logCtx, "dropping undecodable order event", err)
			msg.Ack()
			return
		}
		for _, h := range s.snapshot() {
			h.fn(reconcile.Event[OrderDTO]{Kind: event.Kind, Record: event.Order})
		}
		msg.Ack()
	})
	if err != nil && ctx.Err() == nil {
		s.fail(err)
		return err
	}
	return nil
}

// Subscribe registers a fan-out handler. Events are delivered in arrival
// order; no resequencing is attempted. The returned handle detaches the
// handler and may be called more than once.
func (s *Stream) Subscribe(_ context.Context, fn func(reconcile.Event[OrderDTO]), onErr func(error)) (reconcile.CancelFunc, error) {
	if fn == nil {
		return nil, fmt.Errorf("event handler required")
	}

	s.mu.Lock()
	if s.err != nil {
		cause := s.err
		s.mu.Unlock()
		return nil, fmt.Errorf("orders stream stopped: %w", cause)
	}
	s.nextID++
	id := s.nextID
	s.handlers[id] = streamHandler{fn: fn, onErr: onErr}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.handlers, id)
		s.mu.Unlock()
	}, nil
}

func (s *Stream) snapshot() []streamHandler {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]streamHandler, 0, len(s.handlers))
	for _, h := range s.handlers {
		out = append(out, h)
	}
	return out
}

func (s *Stream) fail(cause error) {
	s.mu.Lock()
	s.err = cause
	stale := make([]streamHandler, 0, len(s.handlers))
	for _, h := range s.handlers {
		stale = append(stale, h)
	}
	s.handlers = make(map[int]streamHandler)
	s.mu.Unlock()

	s.logg.Error(context.Background(), "orders stream receive stopped", cause)
	for _, h := range stale {
		if h.onErr != nil {
			h.onErr(cause)
		}
	}
}
