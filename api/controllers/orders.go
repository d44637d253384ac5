package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tigraytip/storefront-backend/api/middleware"
	"github.com/tigraytip/storefront-backend/api/responses"
	"github.com/tigraytip/storefront-backend/api/validators"
	"github.com/tigraytip/storefront-backend/internal/orders"
	"github.com/tigraytip/storefront-backend/internal/reconcile"
	"github.com/tigraytip/storefront-backend/pkg/enums"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
	"github.com/tigraytip/storefront-backend/pkg/logger"
)

// OrdersController serves checkout, order history, and admin fulfilment.
type OrdersController struct {
	svc    orders.Service
	repo   *orders.Repository
	stream reconcile.Stream[orders.OrderDTO]
	carts  *CartController
	logg   *logger.Logger
}

// NewOrdersController wires the order dependencies. The repository and
// stream feed the live admin order feed.
func NewOrdersController(
	svc orders.Service,
	repo *orders.Repository,
	stream reconcile.Stream[orders.OrderDTO],
	carts *CartController,
	logg *logger.Logger,
) *OrdersController {
	return &OrdersController{svc: svc, repo: repo, stream: stream, carts: carts, logg: logg}
}

// Place turns the caller's cart into a cash-on-delivery order and clears the
// cart on success.
func (c *OrdersController) Place(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	var req validators.PlaceOrderRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	session, err := c.carts.OpenForRequest(w, r)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	order, err := c.svc.Place(r.Context(), orders.PlaceOrderInput{
		UserID:          principal.UserID,
		Items:           session.Snapshot(),
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	session.Clear(r.Context())
	responses.WriteSuccess(w, http.StatusCreated, order)
}

// Get returns one order; customers only see their own.
func (c *OrdersController) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	orderID, err := pathUUID(r, "orderID")
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	order, err := c.svc.Get(r.Context(), orderID, principal.UserID, principal.Role == enums.RoleAdmin)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, order)
}

// List returns the caller's own orders newest-first.
func (c *OrdersController) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}

	userID := principal.UserID
	page, err := c.svc.List(r.Context(), orders.ListParams{
		UserID: &userID,
		Cursor: queryCursor(r),
		Limit:  queryLimit(r),
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, page)
}

// AdminList returns every order newest-first for the back office.
func (c *OrdersController) AdminList(w http.ResponseWriter, r *http.Request) {
	page, err := c.svc.List(r.Context(), orders.ListParams{
		Cursor: queryCursor(r),
		Limit:  queryLimit(r),
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, page)
}

// UpdateStatus applies a fulfilment transition.
func (c *OrdersController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathUUID(r, "orderID")
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	var req validators.UpdateOrderStatusRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	order, err := c.svc.UpdateStatus(r.Context(), orders.UpdateStatusInput{
		OrderID:        orderID,
		Status:         enums.OrderStatus(req.Status),
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, order)
}

// Feed streams the reconciled order list over server-sent events. The first
// event carries the bulk-loaded snapshot; every subsequent change event
// re-sends the folded list.
func (c *OrdersController) Feed(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
		return
	}

	updates := make(chan struct{}, 1)
	wakeup := func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	}

	feed, err := orders.NewLiveFeed(orders.FeedParams{
		Repo:   c.repo,
		Stream: notifyingStream{inner: c.stream, after: wakeup},
		Limit:  queryLimit(r),
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	if err := feed.Load(r.Context()); err != nil {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order feed"))
		return
	}

	cancel, err := feed.Subscribe(r.Context(), nil)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "subscribing to order feed"))
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c.writeFeedEvent(r, w, feed)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-updates:
			c.writeFeedEvent(r, w, feed)
			flusher.Flush()
			if feed.State() == reconcile.StateError {
				return
			}
		}
	}
}

// notifyingStream wakes the SSE loop after the feed has folded each event or
// absorbed a stream failure.
type notifyingStream struct {
	inner reconcile.Stream[orders.OrderDTO]
	after func()
}

func (n notifyingStream) Subscribe(ctx context.Context, fn func(reconcile.Event[orders.OrderDTO]), onErr func(error)) (reconcile.CancelFunc, error) {
	return n.inner.Subscribe(ctx, func(ev reconcile.Event[orders.OrderDTO]) {
		fn(ev)
		n.after()
	}, func(err error) {
		if onErr != nil {
			onErr(err)
		}
		n.after()
	})
}

func (c *OrdersController) writeFeedEvent(r *http.Request, w http.ResponseWriter, feed *reconcile.Feed[orders.OrderDTO]) {
	payload, err := json.Marshal(map[string]any{
		"state": feed.State().String(),
		"items": feed.Items(),
	})
	if err != nil {
		c.logg.Error(r.Context(), "encoding order feed event", err)
		return
	}
	fmt.Fprintf(w, "event: orders\ndata: %s\n\n", payload)
}
