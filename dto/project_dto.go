package dto

import (
	"github.com/donely-api/models"
)

// ListFilter represents pagination, search and sort criteria shared by admin lists
type ListFilter struct {
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ProjectListResponse represents paginated project list response
type ProjectListResponse struct {
	Projects   []models.Project `json:"projects"`
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// ProjectRequest represents the payload for creating or updating a project
type ProjectRequest struct {
	Name          string               `json:"name" binding:"required,max=200"`
	Slug          string               `json:"slug" binding:"omitempty,slug"`
	Description   string               `json:"description"`
	Status        models.ProjectStatus `json:"status"`
	Progress      *int                 `json:"progress" binding:"omitempty,min=0,max=100"`
	ClientName    string               `json:"clientName"`
	StartDate     *Date                `json:"startDate"`
	TargetEndDate *Date                `json:"targetEndDate"`
}

// GrantAccessRequest grants a client visibility into a project
type GrantAccessRequest struct {
	ClientID string `json:"clientId" binding:"required"`
}

// SwapRequest names two siblings whose positions are exchanged
type SwapRequest struct {
	FirstID  string `json:"firstId" binding:"required"`
	SecondID string `json:"secondId" binding:"required"`
}
