package dto

import (
	"github.com/donely-api/models"
)

// RoadmapItemRequest represents the payload for creating or updating a roadmap item
type RoadmapItemRequest struct {
	Title          string            `json:"title" binding:"required,max=200"`
	Description    string            `json:"description"`
	Status         models.WorkStatus `json:"status"`
	EffortEstimate float64           `json:"effortEstimate" binding:"min=0"`
	StartDate      *Date             `json:"startDate"`
	EndDate        *Date             `json:"endDate"`
	Dependencies   []string          `json:"dependencies"`
}

// SprintRequest represents the payload for creating or updating a sprint
type SprintRequest struct {
	SprintNumber  int                 `json:"sprintNumber" binding:"min=0"`
	Goal          string              `json:"goal"`
	RoadmapItemID *string             `json:"roadmapItemId"`
	StartDate     *Date               `json:"startDate"`
	EndDate       *Date               `json:"endDate"`
	Status        models.SprintStatus `json:"status"`
}

// SprintTaskRequest represents the payload for a sprint task
type SprintTaskRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Status      models.WorkStatus `json:"status"`
}

// SprintDeliveryRequest represents the payload for a sprint delivery
type SprintDeliveryRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Delivered   bool   `json:"delivered"`
}
