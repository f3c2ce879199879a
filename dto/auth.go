package dto

import (
	"time"

	"github.com/donely-api/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents our custom JWT claims
type TokenClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the response after authentication
type AuthResponse struct {
	Token     string         `json:"token"`
	User      models.Profile `json:"user"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// ChangePasswordRequest carries the current and the new password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// PasswordResetRequest starts the email reset flow
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmRequest completes the email reset flow
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// SessionResponse describes the caller's session state
type SessionResponse struct {
	State     string          `json:"state"`
	User      *models.Profile `json:"user,omitempty"`
	ExpiresAt *time.Time      `json:"expiresAt,omitempty"`
	Error     string          `json:"error,omitempty"`
}
