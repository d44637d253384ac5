package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tigraytip/storefront-backend/internal/cart"
	"github.com/tigraytip/storefront-backend/pkg/db/models"
	"github.com/tigraytip/storefront-backend/pkg/enums"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
	"github.com/tigraytip/storefront-backend/pkg/logger"
)

type repository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (models.Order, error)
	List(ctx context.Context, params ListParams) ([]models.Order, string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, tracking *string) (models.Order, error)
}

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Repo      repository
	Publisher EventPublisher
	Pricing   cart.Pricing
	Logger    *logger.Logger
}

// Service exposes order placement and fulfilment.
type Service interface {
	Place(ctx context.Context, input PlaceOrderInput) (OrderDTO, error)
	Get(ctx context.Context, orderID, requesterID uuid.UUID, admin bool) (OrderDTO, error)
	List(ctx context.Context, params ListParams) (OrdersPageDTO, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (OrderDTO, error)
}

type service struct {
	repo      repository
	publisher EventPublisher
	pricing   cart.Pricing
	logg      *logger.Logger
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.Publisher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event publisher is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:      params.Repo,
		publisher: params.Publisher,
		pricing:   params.Pricing,
		logg:      params.Logger,
	}, nil
}

// Place turns a cart snapshot into a placed cash-on-delivery order. Totals
// are recomputed server-side from the snapshot lines.
func (s *service) Place(ctx context.Context, input PlaceOrderInput) (OrderDTO, error) {
	if input.UserID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if len(input.Items) == 0 {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, line := range input.Items {
		if line.ProductID == uuid.Nil || line.Quantity < 1 {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid cart line")
		}
	}

	totals := cart.NewState(s.pricing)
	totals.Lines = input.Items

	record := models.Order{
		UserID:          input.UserID,
		Items:           input.Items,
		Subtotal:        totals.Subtotal(),
		ShippingFee:     totals.ShippingFee(),
		Tax:             totals.Tax(),
		Total:           totals.TotalWithTax(),
		PaymentMethod:   enums.PaymentMethodCOD,
		PaymentStatus:   enums.PaymentStatusPending,
		OrderStatus:     enums.OrderStatusPlaced,
		ShippingAddress: input.ShippingAddress,
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	dto := toDTO(record)
	s.publish(ctx, enums.ChangeInserted, dto)
	return dto, nil
}

// Get loads one order; customers only see their own.
func (s *service) Get(ctx context.Context, orderID, requesterID uuid.UUID, admin bool) (OrderDTO, error) {
	if orderID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	record, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if !admin && record.UserID != requesterID {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return toDTO(record), nil
}

// List returns orders newest-first, optionally scoped to one user.
func (s *service) List(ctx context.Context, params ListParams) (OrdersPageDTO, error) {
	records, cursor, err := s.repo.List(ctx, params)
	if err != nil {
		return OrdersPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	items := make([]OrderDTO, 0, len(records))
	for _, record := range records {
		items = append(items, toDTO(record))
	}
	return OrdersPageDTO{Items: items, Cursor: cursor}, nil
}

// UpdateStatus applies a fulfilment transition. Shipping without a tracking
// number auto-generates one.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (OrderDTO, error) {
	if input.OrderID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !input.Status.IsValid() {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Status))
	}

	tracking := input.TrackingNumber
	if input.Status == enums.OrderStatusShipped && (tracking == nil || strings.TrimSpace(*tracking) == "") {
		generated := NewTrackingNumber(time.Now())
		tracking = &generated
	}

	record, err := s.repo.UpdateStatus(ctx, input.OrderID, input.Status, tracking)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	dto := toDTO(record)
	s.publish(ctx, enums.ChangeUpdated, dto)
	return dto, nil
}

// publish pushes a change event. The order is already durable; a publish
// failure is logged, never surfaced to the caller.
func (s *service) publish(ctx context.Context, kind enums.ChangeKind, order OrderDTO) {
	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	if err := s.publisher.PublishChange(ctx, kind, order); err != nil {
		s.logg.Error(ctx, "publishing order change event", err)
	}
}

// NewTrackingNumber derives a tracking id from the shipment instant.
func NewTrackingNumber(now time.Time) string {
	return fmt.Sprintf("TRK%d", now.UnixMilli())
}
