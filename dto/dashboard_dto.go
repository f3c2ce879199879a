package dto

import (
	"time"

	"github.com/donely-api/models"
)

// ClientProject is a project as listed on the client dashboard
type ClientProject struct {
	models.Project
	LastLoginAt *time.Time `json:"lastLoginAt"`
}

// ProjectDashboard is everything a client sees for one project
type ProjectDashboard struct {
	Project  models.Project       `json:"project"`
	Roadmap  []models.RoadmapItem `json:"roadmap"`
	Sprints  []models.Sprint      `json:"sprints"`
	Reports  []models.Report      `json:"reports"` // published only, evidences attached
	Comments []models.Comment     `json:"comments"`
}

// OverviewClient is the root of the admin client-centered tree
type OverviewClient struct {
	Client   models.Profile    `json:"client"`
	Projects []OverviewProject `json:"projects"`
}

// OverviewProject groups everything under one project
type OverviewProject struct {
	Project      models.Project       `json:"project"`
	AccessActive bool                 `json:"accessActive"`
	Roadmap      []models.RoadmapItem `json:"roadmap"`
	Sprints      []models.Sprint      `json:"sprints"`
	Reports      []models.Report      `json:"reports"`
}

// OverviewData is the flat row set the overview tree is assembled from
type OverviewData struct {
	Clients   []models.Profile
	Access    []models.ClientProjectAccess
	Projects  []models.Project
	Roadmap   []models.RoadmapItem
	Sprints   []models.Sprint
	Reports   []models.Report
	Evidences []models.Evidence
}
