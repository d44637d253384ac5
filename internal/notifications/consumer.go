package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/tigraytip/storefront-backend/internal/orders"
	"github.com/tigraytip/storefront-backend/pkg/db/models"
	"github.com/tigraytip/storefront-backend/pkg/enums"
	"github.com/tigraytip/storefront-backend/pkg/logger"
	"github.com/tigraytip/storefront-backend/pkg/metrics"
)

const consumerName = "order-notifications"

type subscriberReceiver interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

type notificationCreator interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// ConsumerParams groups dependencies for the order-event consumer.
type ConsumerParams struct {
	Subscription subscriberReceiver
	Repo         notificationCreator
	Logger       *logger.Logger
	Metrics      *metrics.ConsumerMetrics
}

// Consumer turns newly placed orders into back-office inbox notifications.
// Status transitions are acked and ignored; only fresh orders notify.
type Consumer struct {
	sub     subscriberReceiver
	repo    notificationCreator
	logg    *logger.Logger
	metrics *metrics.ConsumerMetrics
}

// NewConsumer builds the consumer with the required dependencies.
func NewConsumer(params ConsumerParams) (*Consumer, error) {
	if params.Subscription == nil {
		return nil, fmt.Errorf("notification subscription required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("notification repo required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		sub:     params.Subscription,
		repo:    params.Repo,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

// Run blocks receiving order events until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.logg.Info(ctx, "order notification consumer started")
	err := c.sub.Receive(ctx, c.handle)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("notification consumer receive: %w", err)
	}
	return nil
}

func (c *Consumer) handle(ctx context.Context, msg *pubsub.Message) {
	started := time.Now()
	defer func() {
		c.metrics.ObserveDuration(consumerName, time.Since(started))
	}()

	var event orders.ChangeEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logCtx := c.logg.WithField(ctx, "message_id", msg.ID)
		c.logg.Error(logCtx, "dropping undecodable order event", err)
		c.metrics.IncFailed(consumerName)
		msg.Ack()
		return
	}

	if event.Kind != enums.ChangeInserted {
		msg.Ack()
		return
	}

	orderID := event.Order.ID
	record := models.Notification{
		Type:    enums.NotificationTypeOrder,
		Title:   "New order received",
		Message: fmt.Sprintf("Order %s placed for %s", orderID, event.Order.Total.StringFixed(2)),
		OrderID: &orderID,
	}
	if err := c.repo.Create(ctx, &record); err != nil {
		logCtx := c.logg.WithOrderID(ctx, orderID.String())
		c.logg.Error(logCtx, "storing order notification", err)
		c.metrics.IncFailed(consumerName)
		msg.Nack()
		return
	}

	c.metrics.IncHandled(consumerName)
	msg.Ack()
}
