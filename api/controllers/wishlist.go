package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tigraytip/storefront-backend/api/middleware"
	"github.com/tigraytip/storefront-backend/api/responses"
	"github.com/tigraytip/storefront-backend/api/validators"
	"github.com/tigraytip/storefront-backend/internal/wishlist"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
	"github.com/tigraytip/storefront-backend/pkg/logger"
)

// WishlistController serves the caller's saved products.
type WishlistController struct {
	svc  wishlist.Service
	logg *logger.Logger
}

// NewWishlistController wires the wishlist service.
func NewWishlistController(svc wishlist.Service, logg *logger.Logger) *WishlistController {
	return &WishlistController{svc: svc, logg: logg}
}

// List returns the saved products newest-first.
func (c *WishlistController) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	page, err := c.svc.GetWishlist(r.Context(), principal.UserID, queryCursor(r), queryLimit(r))
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, page)
}

// IDs returns the saved product ids for fast heart-icon lookups.
func (c *WishlistController) IDs(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	ids, err := c.svc.GetWishlistIDs(r.Context(), principal.UserID)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, ids)
}

// Add saves a product for later.
func (c *WishlistController) Add(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	var req validators.WishlistAddRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
		return
	}

	if err := c.svc.AddItem(r.Context(), principal.UserID, productID); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusCreated, map[string]string{"status": "saved"})
}

// Remove drops a saved product.
func (c *WishlistController) Remove(w http.ResponseWriter, r *http.Request) {
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

	if err := c.svc.RemoveItem(r.Context(), principal.UserID, productID); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "removed"})
}
