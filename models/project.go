package models

import (
	"time"
)

// ProjectStatus represents the delivery state of a project
type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "PLANNING"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusPaused     ProjectStatus = "PAUSED"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
)

// IsValid reports whether s is a known project status
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusPaused, ProjectStatusCompleted:
		return true
	}
	return false
}

// Project represents a client engagement tracked by Donely
type Project struct {
	ID            string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name          string        `json:"name" gorm:"not null"`
	Slug          string        `json:"slug" gorm:"uniqueIndex;not null"`
	Description   string        `json:"description" gorm:"default:null"`
	Status        ProjectStatus `json:"status" gorm:"type:varchar(20);not null;default:'PLANNING'"`
	Progress      int           `json:"progress" gorm:"not null;default:0"`
	ClientName    string        `json:"clientName" gorm:"default:null"`
	StartDate     *time.Time    `json:"startDate" gorm:"type:date"`
	TargetEndDate *time.Time    `json:"targetEndDate" gorm:"type:date"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ClientProjectAccess grants a client visibility into a project
type ClientProjectAccess struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ClientID    string     `json:"clientId" gorm:"type:uuid;not null;uniqueIndex:idx_client_project"`
	ProjectID   string     `json:"projectId" gorm:"type:uuid;not null;uniqueIndex:idx_client_project;index"`
	Active      bool       `json:"active" gorm:"not null;default:true"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Relations
	Client  *Profile `json:"client,omitempty" gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for ClientProjectAccess model
func (ClientProjectAccess) TableName() string {
	return "client_project_access"
}
