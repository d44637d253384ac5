package controllers

import (
	"net/http"

	"github.com/tigraytip/storefront-backend/api/responses"
	"github.com/tigraytip/storefront-backend/api/validators"
	"github.com/tigraytip/storefront-backend/internal/products"
	"github.com/tigraytip/storefront-backend/pkg/logger"
)

// ProductsController serves the public catalog and admin catalog management.
type ProductsController struct {
	svc  products.Service
	logg *logger.Logger
}

// NewProductsController wires the catalog service.
func NewProductsController(svc products.Service, logg *logger.Logger) *ProductsController {
	return &ProductsController{svc: svc, logg: logg}
}

// List returns active products newest-first, optionally filtered by category.
func (c *ProductsController) List(w http.ResponseWriter, r *http.Request) {
	page, err := c.svc.List(r.Context(), products.ListParams{
		Category: r.URL.Query().Get("category"),
		Cursor:   queryCursor(r),
		Limit:    queryLimit(r),
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, page)
}

// AdminList includes hidden products for back-office views.
func (c *ProductsController) AdminList(w http.ResponseWriter, r *http.Request) {
	page, err := c.svc.List(r.Context(), products.ListParams{
		Category:      r.URL.Query().Get("category"),
		Cursor:        queryCursor(r),
		Limit:         queryLimit(r),
		IncludeHidden: true,
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, page)
}

// Get returns one product.
func (c *ProductsController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "productID")
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	product, err := c.svc.Get(r.Context(), id)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, product)
}

// Create adds a catalog entry.
func (c *ProductsController) Create(w http.ResponseWriter, r *http.Request) {
	var req validators.CreateProductRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	product, err := c.svc.Create(r.Context(), products.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Images:      req.Images,
		Stock:       req.Stock,
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusCreated, product)
}

// Update partially edits a catalog entry.
func (c *ProductsController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "productID")
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	var req validators.UpdateProductRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	product, err := c.svc.Update(r.Context(), id, products.UpdateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Images:      req.Images,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, product)
}

// Delete removes a catalog entry.
func (c *ProductsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "productID")
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	if err := c.svc.Delete(r.Context(), id); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}
