package orders

import (
	"context"

	"github.com/google/uuid"

	"github.com/tigraytip/storefront-backend/internal/reconcile"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
)

// FeedParams wires a live order feed: the repository serves the initial bulk
// fetch, the stream keeps it current.
type FeedParams struct {
	Repo   repository
	Stream reconcile.Stream[OrderDTO]
	// UserID scopes the feed to one customer; nil feeds all orders
	// (back-office view).
	UserID *uuid.UUID
	Limit  int
}

// NewLiveFeed builds a reconciled order feed. Callers run Load for the
// initial fetch and Subscribe to fold change events as they arrive.
func NewLiveFeed(params FeedParams) (*reconcile.Feed[OrderDTO], error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if params.Stream == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders stream is required")
	}

	loader := func(ctx context.Context) ([]OrderDTO, error) {
		records, _, err := params.Repo.List(ctx, ListParams{
			UserID: params.UserID,
			Limit:  params.Limit,
		})
		if err != nil {
			return nil, err
		}
		items := make([]OrderDTO, 0, len(records))
		for _, record := range records {
			items = append(items, toDTO(record))
		}
		return items, nil
	}

	return reconcile.NewFeed(loader, params.Stream)
}
