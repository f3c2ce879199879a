package dto

import (
	"github.com/donely-api/models"
)

// ReportRequest represents the payload for creating or updating a report
type ReportRequest struct {
	Title    string  `json:"title" binding:"required,max=200"`
	Content  string  `json:"content"`
	SprintID *string `json:"sprintId"`
}

// PublishRequest sets the publication flag of a report
type PublishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// CommentRequest represents the payload for a new comment
type CommentRequest struct {
	Content  string  `json:"content" binding:"required,max=5000"`
	ReportID *string `json:"reportId"`
}

// UploadResult reports the outcome of one file in a multi-file upload
type UploadResult struct {
	FileName string           `json:"fileName"`
	Evidence *models.Evidence `json:"evidence,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// UploadResponse summarizes a multi-file upload
type UploadResponse struct {
	Results   []UploadResult `json:"results"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
}
