package dto

import (
	"time"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
)

// LoginRequest carries user credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Role      domain.UserRole `json:"role"`
}
