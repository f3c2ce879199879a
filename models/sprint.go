package models

import (
	"time"
)

// SprintStatus represents the state of a sprint
type SprintStatus string

const (
	SprintStatusPlanned   SprintStatus = "PLANNED"
	SprintStatusActive    SprintStatus = "ACTIVE"
	SprintStatusCompleted SprintStatus = "COMPLETED"
)

// IsValid reports whether s is a known sprint status
func (s SprintStatus) IsValid() bool {
	switch s {
	case SprintStatusPlanned, SprintStatusActive, SprintStatusCompleted:
		return true
	}
	return false
}

// Sprint represents a dated work period belonging to a project
type Sprint struct {
	ID            string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProjectID     string       `json:"projectId" gorm:"type:uuid;not null;index"`
	RoadmapItemID *string      `json:"roadmapItemId" gorm:"type:uuid;index"`
	SprintNumber  int          `json:"sprintNumber" gorm:"not null"`
	Goal          string       `json:"goal" gorm:"default:null"`
	StartDate     *time.Time   `json:"startDate" gorm:"type:date"`
	EndDate       *time.Time   `json:"endDate" gorm:"type:date"`
	Status        SprintStatus `json:"status" gorm:"type:varchar(20);not null;default:'PLANNED'"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`

	// Planned scope
	Tasks      []SprintTask     `json:"tasks" gorm:"foreignKey:SprintID;constraint:OnDelete:CASCADE"`
	Deliveries []SprintDelivery `json:"deliveries" gorm:"foreignKey:SprintID;constraint:OnDelete:CASCADE"`
}

// SprintTask is a unit of planned work inside a sprint
type SprintTask struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SprintID    string     `json:"sprintId" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"default:null"`
	Status      WorkStatus `json:"status" gorm:"type:varchar(20);not null;default:'NOT_STARTED'"`
	OrderIndex  int        `json:"orderIndex" gorm:"not null;default:0"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SprintDelivery is a deliverable promised for a sprint
type SprintDelivery struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SprintID    string     `json:"sprintId" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"default:null"`
	Delivered   bool       `json:"delivered" gorm:"not null;default:false"`
	DeliveredAt *time.Time `json:"deliveredAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
