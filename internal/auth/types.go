package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/tigraytip/storefront-backend/pkg/db/models"
	"github.com/tigraytip/storefront-backend/pkg/enums"
)

// UserDTO is the profile shape served to clients. The password hash never
// leaves this package.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Role        enums.UserRole `json:"role"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func toDTO(record models.User) UserDTO {
	return UserDTO{
		ID:          record.ID,
		Email:       record.Email,
		Name:        record.Name,
		Role:        record.Role,
		LastLoginAt: record.LastLoginAt,
		CreatedAt:   record.CreatedAt,
	}
}

// RegisterInput carries a new account request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// LoginInput carries credentials for an existing account.
type LoginInput struct {
	Email    string
	Password string
}

// TokenPairDTO is the session material issued on login and refresh.
type TokenPairDTO struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         UserDTO `json:"user"`
}

// RefreshInput carries the expired access token and its refresh companion.
type RefreshInput struct {
	AccessToken  string
	RefreshToken string
}

// UpdateProfileInput edits the caller's display name.
type UpdateProfileInput struct {
	UserID uuid.UUID
	Name   string
}

// ChangePasswordInput rotates the caller's password.
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}
