package models

import (
	"time"
)

// Report is a markdown delivery report for a project
type Report struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProjectID   string     `json:"projectId" gorm:"type:uuid;not null;index"`
	SprintID    *string    `json:"sprintId" gorm:"type:uuid;index"`
	Title       string     `json:"title" gorm:"not null"`
	Content     string     `json:"content" gorm:"type:text"`
	Published   bool       `json:"published" gorm:"not null;default:false"`
	PublishedAt *time.Time `json:"publishedAt"`
	Version     int        `json:"version" gorm:"not null;default:1"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Evidences []Evidence `json:"evidences,omitempty" gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
}

// Comment is a note left on a project or one of its reports
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProjectID string    `json:"projectId" gorm:"type:uuid;not null;index"`
	ReportID  *string   `json:"reportId" gorm:"type:uuid;index"`
	AuthorID  string    `json:"authorId" gorm:"type:uuid;not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Visible   bool      `json:"visible" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author *Profile `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}
