package services

import (
	"github.com/donely-api/models"
)

// Viewer identifies the authenticated caller of a service method
type Viewer struct {
	UserID string
	Role   models.Role
}

// IsAdmin reports whether the caller is an administrator
func (v Viewer) IsAdmin() bool {
	return v.Role == models.RoleAdmin
}
