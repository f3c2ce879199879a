package models

import (
	"time"
)

// Role represents profile role types
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleClient Role = "CLIENT"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleClient
}

// Profile represents an administrator or a client account
type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"` // Password is not exposed in JSON
	Username  *string   `json:"username" gorm:"default:null;uniqueIndex"`
	Name      string    `json:"name" gorm:"not null"`
	Role      Role      `json:"role" gorm:"type:varchar(10);not null;default:'CLIENT'"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName sets the table name for Profile model
func (Profile) TableName() string {
	return "profiles"
}

// IsAdmin reports whether the profile has the admin role
func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
