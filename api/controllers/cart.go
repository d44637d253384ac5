package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tigraytip/storefront-backend/api/responses"
	"github.com/tigraytip/storefront-backend/api/validators"
	"github.com/tigraytip/storefront-backend/internal/cart"
	"github.com/tigraytip/storefront-backend/internal/products"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
	"github.com/tigraytip/storefront-backend/pkg/logger"
	"github.com/tigraytip/storefront-backend/pkg/types"
)

const (
	// CartSessionHeader carries the anonymous cart session id.
	CartSessionHeader = "X-Cart-Session"
	cartSessionCookie = "cart_session"
)

// CartView is the cart shape served to clients, totals included. Total is
// pre-tax; TotalWithTax is what checkout charges.
type CartView struct {
	SessionID    string          `json:"session_id"`
	Items        types.CartLines `json:"items"`
	ItemCount    int             `json:"item_count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingFee  decimal.Decimal `json:"shipping_fee"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	TotalWithTax decimal.Decimal `json:"total_with_tax"`
}

// CartController binds HTTP requests to per-session cart state. Sessions are
// identified by header or cookie and survive sign-in; signing in only adds
// the remote mirror.
type CartController struct {
	deps         cart.SessionDeps
	catalog      products.Service
	logg         *logger.Logger
	cookieMaxAge int
}

// NewCartController wires the cart dependencies.
func NewCartController(deps cart.SessionDeps, catalog products.Service, logg *logger.Logger) *CartController {
	return &CartController{
		deps:         deps,
		catalog:      catalog,
		logg:         logg,
		cookieMaxAge: int(deps.TTL / time.Second),
	}
}

// Get returns the cart with totals.
func (c *CartController) Get(w http.ResponseWriter, r *http.Request) {
	session, err := c.openSession(w, r)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, c.view(session))
}

// AddItem merges a product into the cart, capturing its current catalog
// snapshot.
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var req validators.CartAddRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
		return
	}

	product, err := c.catalog.Get(r.Context(), productID)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	session, err := c.openSession(w, r)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	session.AddItem(r.Context(), product.CartSummary(), req.Quantity)
	responses.WriteSuccess(w, http.StatusOK, c.view(session))
}

// UpdateQuantity sets the absolute quantity of one line; zero removes it.
func (c *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "productID")
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	var req validators.CartQuantityRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	session, err := c.openSession(w, r)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	session.UpdateQuantity(r.Context(), productID, req.Quantity)
	responses.WriteSuccess(w, http.StatusOK, c.view(session))
}

// RemoveItem drops one line.
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := pathUUID(r, "productID")
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	session, err := c.openSession(w, r)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	session.RemoveItem(r.Context(), productID)
	responses.WriteSuccess(w, http.StatusOK, c.view(session))
}

// Clear empties the cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	session, err := c.openSession(w, r)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	session.Clear(r.Context())
	responses.WriteSuccess(w, http.StatusOK, c.view(session))
}

// Sync pushes the local cart to the signed-in user's mirror record.
func (c *CartController) Sync(w http.ResponseWriter, r *http.Request) {
	session, err := c.openSession(w, r)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	session.SyncWithServer(r.Context())
	responses.WriteSuccess(w, http.StatusOK, c.view(session))
}

// Restore replaces the local cart with the signed-in user's mirror record.
func (c *CartController) Restore(w http.ResponseWriter, r *http.Request) {
	session, err := c.openSession(w, r)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	session.LoadFromServer(r.Context())
	responses.WriteSuccess(w, http.StatusOK, c.view(session))
}

// OpenForRequest resolves the caller's cart session for other controllers,
// checkout in particular.
func (c *CartController) OpenForRequest(w http.ResponseWriter, r *http.Request) (*cart.Session, error) {
	return c.openSession(w, r)
}

func (c *CartController) openSession(w http.ResponseWriter, r *http.Request) (*cart.Session, error) {
	sessionID := c.sessionID(w, r)
	session, err := cart.NewSession(sessionID, c.deps)
	if err != nil {
		return nil, err
	}
	session.Open(r.Context())
	return session, nil
}

// sessionID pulls the cart session from header or cookie, minting one when
// the caller has none yet.
func (c *CartController) sessionID(w http.ResponseWriter, r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(CartSessionHeader)); id != "" {
		return id
	}
	if cookie, err := r.Cookie(cartSessionCookie); err == nil && strings.TrimSpace(cookie.Value) != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cartSessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   c.cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(CartSessionHeader, id)
	return id
}

func (c *CartController) view(session *cart.Session) CartView {
	subtotal, shipping, tax, total := session.Totals()
	return CartView{
		SessionID:    session.ID(),
		Items:        session.Snapshot(),
		ItemCount:    session.ItemCount(),
		Subtotal:     subtotal,
		ShippingFee:  shipping,
		Tax:          tax,
		Total:        total,
		TotalWithTax: total.Add(tax),
	}
}
