package controllers

import (
	"net/http"

	"github.com/tigraytip/storefront-backend/api/middleware"
	"github.com/tigraytip/storefront-backend/api/responses"
	"github.com/tigraytip/storefront-backend/api/validators"
	"github.com/tigraytip/storefront-backend/internal/auth"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
	"github.com/tigraytip/storefront-backend/pkg/logger"
)

// AuthController serves registration, login, and session management.
type AuthController struct {
	svc  auth.Service
	logg *logger.Logger
}

// NewAuthController wires the auth service.
func NewAuthController(svc auth.Service, logg *logger.Logger) *AuthController {
	return &AuthController{svc: svc, logg: logg}
}

// Register creates an account and opens a session.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req validators.RegisterRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	pair, err := c.svc.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusCreated, pair)
}

// Login verifies credentials and opens a session.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req validators.LoginRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	pair, err := c.svc.Login(r.Context(), auth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, pair)
}

// Refresh rotates the caller's token pair.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req validators.RefreshRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	pair, err := c.svc.Refresh(r.Context(), auth.RefreshInput{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, pair)
}

// Logout revokes the caller's session.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	if err := c.svc.Logout(r.Context(), principal.AccessID); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Profile returns the caller's account.
func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	user, err := c.svc.Profile(r.Context(), principal.UserID)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, user)
}

// UpdateProfile edits the caller's display name.
func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	var req validators.UpdateProfileRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	user, err := c.svc.UpdateProfile(r.Context(), auth.UpdateProfileInput{UserID: principal.UserID, Name: req.Name})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, user)
}

// ChangePassword rotates the caller's password.
func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.CurrentPrincipal(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	var req validators.ChangePasswordRequest
	if err := validators.DecodeAndValidate(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	if err := c.svc.ChangePassword(r.Context(), auth.ChangePasswordInput{
		UserID:          principal.UserID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "password changed"})
}
