package controllers

import (
	"net/http"

	"github.com/tigraytip/storefront-backend/api/middleware"
	"github.com/tigraytip/storefront-backend/api/responses"
	"github.com/tigraytip/storefront-backend/api/validators"
	"github.com/tigraytip/storefront-backend/internal/reviews"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
	"github.com/tigraytip/storefront-backend/pkg/logger"
)

// ReviewsController serves product reviews.
type ReviewsController struct {
	svc  reviews.Service
	logg *logger.Logger
}

// NewReviewsController wires the reviews service.
func NewReviewsController(svc reviews.Service, logg *logger.Logger) *ReviewsController {
	return &ReviewsController{svc: svc, logg: logg}
}

// ListByProduct returns a product's reviews newest-first. Public.
func (c *ReviewsController) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "productID")
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	items, err := c.svc.ListByProduct(r.Context(), productID)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, items)
}

// Add posts a review on a product.
func (c *ReviewsController) Add(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	productID, err := pathUUID(r, "productID")
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	var req validators.AddReviewRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	review, err := c.svc.Add(r.Context(), reviews.AddReviewInput{
		ProductID: productID,
		UserID:    principal.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusCreated, review)
}

// Update edits the caller's own review.
func (c *ReviewsController) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	reviewID, err := pathUUID(r, "reviewID")
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	var req validators.UpdateReviewRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	review, err := c.svc.Update(r.Context(), reviews.UpdateReviewInput{
		ReviewID: reviewID,
		UserID:   principal.UserID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, review)
}

// Delete removes the caller's own review.
func (c *ReviewsController) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	reviewID, err := pathUUID(r, "reviewID")
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	if err := c.svc.Delete(r.Context(), reviewID, principal.UserID); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}
