package auth

import (
	"time"

	"github.com/angelmondragon/cardshop-backend/internal/users"
)

// DevLoginRequest names the identity to mint a token for.
type DevLoginRequest struct {
	Email string  `json:"email" validate:"required,email"`
	Name  *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Role  string  `json:"role,omitempty" validate:"omitempty,oneof=CUSTOMER ADMIN"`
}

// LoginResponse contains the bearer token and the resolved user.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        *users.UserDTO `json:"user"`
}
