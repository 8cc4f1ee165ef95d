package dto

import (
	"time"

	"github.com/spec-kit/pet-adoption-service/internal/domain"
)

// TokenRequest carries the identity claim to sign.
type TokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResponse standard response for token issuing.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// EnsureUserRequest payload for first-sign-in account creation.
type EnsureUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BanRequest payload for set-ban-status.
type BanRequest struct {
	Banned bool `json:"banned"`
}

// UserResponse is the outward account shape.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Banned    bool      `json:"banned"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Banned:    user.Banned,
		CreatedAt: user.CreatedAt,
	}
}
