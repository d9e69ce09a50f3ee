package dto

import (
	"time"

	"github.com/spec-kit/gallery-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the signed-in user.
type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      *domain.PublicUser `json:"user"`
}

// UpdateProfileRequest carries the partial profile fields. Pointers
// distinguish "absent" from "set to empty".
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// ChangePasswordRequest payload for the self-service password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ResetPasswordRequest payload for the admin password reset.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// UpdateRoleRequest payload for the admin role change.
type UpdateRoleRequest struct {
	Role domain.Role `json:"role"`
}
