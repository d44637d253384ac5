package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tigraytip/storefront-backend/api/middleware"
	"github.com/tigraytip/storefront-backend/api/responses"
	"github.com/tigraytip/storefront-backend/api/validators"
	"github.com/tigraytip/storefront-backend/internal/addresses"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
	"github.com/tigraytip/storefront-backend/pkg/logger"
)

// AddressesController serves the caller's saved delivery addresses.
type AddressesController struct {
	svc  addresses.Service
	logg *logger.Logger
}

// NewAddressesController wires the addresses service.
func NewAddressesController(svc addresses.Service, logg *logger.Logger) *AddressesController {
	return &AddressesController{svc: svc, logg: logg}
}

// List returns the saved addresses, default first.
func (c *AddressesController) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	items, err := c.svc.List(r.Context(), principal.UserID)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, items)
}

// Create saves a new address.
func (c *AddressesController) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	var req validators.SaveAddressRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	address, err := c.svc.Create(r.Context(), saveInput(principal.UserID, req))
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusCreated, address)
}

// Update edits the caller's own address.
func (c *AddressesController) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	addressID, err := pathUUID(r, "addressID")
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	var req validators.SaveAddressRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	input := saveInput(principal.UserID, req)
	input.AddressID = addressID
	address, err := c.svc.Update(r.Context(), input)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, address)
}

// Delete removes the caller's own address.
func (c *AddressesController) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	addressID, err := pathUUID(r, "addressID")
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	if err := c.svc.Delete(r.Context(), principal.UserID, addressID); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// SetDefault promotes one address to the default destination.
func (c *AddressesController) SetDefault(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	addressID, err := pathUUID(r, "addressID")
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	if err := c.svc.SetDefault(r.Context(), principal.UserID, addressID); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "default set"})
}

func saveInput(userID uuid.UUID, req validators.SaveAddressRequest) addresses.SaveAddressInput {
	return addresses.SaveAddressInput{
		UserID:     userID,
		FullName:   req.FullName,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		Province:   req.Province,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	}
}
