package dto

import (
	"github.com/donely-api/models"
)

// ClientListResponse represents paginated client list response
type ClientListResponse struct {
	Clients    []models.Profile `json:"clients"`
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// CreateClientRequest represents the payload for creating a client account
type CreateClientRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Name     string  `json:"name" binding:"required"`
	Username *string `json:"username"`
	Password string  `json:"password" binding:"omitempty,min=8"`
}

// UpdateClientRequest represents the payload for updating a client account
type UpdateClientRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Name     string  `json:"name" binding:"required"`
	Username *string `json:"username"`
}

// CreateClientResponse carries the generated password exactly once
type CreateClientResponse struct {
	Client            models.Profile `json:"client"`
	TemporaryPassword string         `json:"temporaryPassword,omitempty"`
}
