package models

import (
	"time"

	"github.com/lib/pq"
)

// WorkStatus is shared by roadmap items and sprint tasks
type WorkStatus string

const (
	WorkStatusNotStarted WorkStatus = "NOT_STARTED"
	WorkStatusInProgress WorkStatus = "IN_PROGRESS"
	WorkStatusDone       WorkStatus = "DONE"
)

// IsValid reports whether s is a known work status
func (s WorkStatus) IsValid() bool {
	switch s {
	case WorkStatusNotStarted, WorkStatusInProgress, WorkStatusDone:
		return true
	}
	return false
}

// RoadmapItem represents a planned unit of work belonging to a project
type RoadmapItem struct {
	ID             string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProjectID      string         `json:"projectId" gorm:"type:uuid;not null;index"`
	Title          string         `json:"title" gorm:"not null"`
	Description    string         `json:"description" gorm:"default:null"`
	Status         WorkStatus     `json:"status" gorm:"type:varchar(20);not null;default:'NOT_STARTED'"`
	EffortEstimate float64        `json:"effortEstimate" gorm:"not null;default:0"` // person-days
	StartDate      *time.Time     `json:"startDate" gorm:"type:date"`
	EndDate        *time.Time     `json:"endDate" gorm:"type:date"`
	OrderIndex     int            `json:"orderIndex" gorm:"not null;default:0"`
	Dependencies   pq.StringArray `json:"dependencies" gorm:"type:text[]"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}
