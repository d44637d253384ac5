package orders

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/tigraytip/storefront-backend/pkg/enums"
)

// EventTypeOrderChanged tags order change messages on the orders topic.
const EventTypeOrderChanged = "order.changed"

// ChangeEvent is the wire payload published for every order transition.
type ChangeEvent struct {
	Kind  enums.ChangeKind `json:"kind"`
	Order OrderDTO         `json:"order"`
}

// EventPublisher pushes order change events to the stream feeding live
// consumers. Implementations must be safe for concurrent use.
type EventPublisher interface {
	PublishChange(ctx context.Context, kind enums.ChangeKind, order OrderDTO) error
}

type topicPublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// PubSubPublisher publishes change events to the configured orders topic.
type PubSubPublisher struct {
	topic topicPublisher
}

// NewPubSubPublisher wraps a Pub/Sub publisher handle.
func NewPubSubPublisher(topic topicPublisher) (*PubSubPublisher, error) {
	if topic == nil {
		return nil, fmt.Errorf("orders topic publisher required")
	}
	return &PubSubPublisher{topic: topic}, nil
}

// PublishChange encodes and publishes one change event, waiting for the
// server acknowledgement.
func (p *PubSubPublisher) PublishChange(ctx context.Context, kind enums.ChangeKind, order OrderDTO) error {
	payload, err := json.Marshal(ChangeEvent{Kind: kind, Order: order})
	if err != nil {
		return fmt.Errorf("encoding order event: %w", err)
	}

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_type": EventTypeOrderChanged,
			"kind":       string(kind),
			"order_id":   order.ID.String(),
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing order event: %w", err)
	}
	return nil
}
