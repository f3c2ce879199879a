package models

import (
	"time"
)

// EvidenceType represents the kind of uploaded media
type EvidenceType string

const (
	EvidenceTypeImage EvidenceType = "IMAGE"
	EvidenceTypeVideo EvidenceType = "VIDEO"
)

// Evidence is an uploaded image or video substantiating a report
type Evidence struct {
	ID           string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProjectID    string       `json:"projectId" gorm:"type:uuid;not null;index"`
	ReportID     string       `json:"reportId" gorm:"type:uuid;not null;index"`
	SprintTaskID *string      `json:"sprintTaskId" gorm:"type:uuid"`
	Type         EvidenceType `json:"type" gorm:"type:varchar(10);not null"`
	StorageKey   string       `json:"storageKey" gorm:"not null"`
	URL          string       `json:"url" gorm:"not null"`
	ThumbnailURL string       `json:"thumbnailUrl" gorm:"default:null"`
	MimeType     string       `json:"mimeType" gorm:"not null"`
	SizeBytes    int64        `json:"sizeBytes" gorm:"not null"`
	FileName     string       `json:"fileName" gorm:"not null"`
	UploadedBy   string       `json:"uploadedBy" gorm:"type:uuid;not null"`
	CreatedAt    time.Time    `json:"createdAt"`
}
