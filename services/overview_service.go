package services

import (
	"context"
	"sort"

	"github.com/donely-api/dto"
	"github.com/donely-api/models"
)

// OverviewService builds the admin client-centered overview
type OverviewService struct {
	source OverviewSource
}

// NewOverviewService creates a new overview service instance
func NewOverviewService(source OverviewSource) *OverviewService {
	return &OverviewService{source: source}
}

// GetOverview loads every table once and assembles the tree in memory
func (s *OverviewService) GetOverview(ctx context.Context) ([]dto.OverviewClient, error) {
	data, err := s.source.LoadOverview(ctx)
	if err != nil {
		return nil, err
	}
	return assembleOverview(data), nil
}

// assembleOverview nests the flat rows through maps keyed by parent id.
// Clients keep the order they were loaded in; projects follow access row order.
func assembleOverview(data dto.OverviewData) []dto.OverviewClient {
	projects := make(map[string]models.Project, len(data.Projects))
	for _, p := range data.Projects {
		projects[p.ID] = p
	}

	roadmapByProject := make(map[string][]models.RoadmapItem)
	for _, item := range data.Roadmap {
		roadmapByProject[item.ProjectID] = append(roadmapByProject[item.ProjectID], item)
	}
	for _, items := range roadmapByProject {
		sort.SliceStable(items, func(i, j int) bool { return items[i].OrderIndex < items[j].OrderIndex })
	}

	sprintsByProject := make(map[string][]models.Sprint)
	for _, sprint := range data.Sprints {
		sprintsByProject[sprint.ProjectID] = append(sprintsByProject[sprint.ProjectID], sprint)
	}
	for _, sprints := range sprintsByProject {
		sort.SliceStable(sprints, func(i, j int) bool { return sprints[i].SprintNumber < sprints[j].SprintNumber })
	}

	evidencesByReport := make(map[string][]models.Evidence)
	for _, evidence := range data.Evidences {
		evidencesByReport[evidence.ReportID] = append(evidencesByReport[evidence.ReportID], evidence)
	}

	reportsByProject := make(map[string][]models.Report)
	for _, report := range data.Reports {
		report.Evidences = evidencesByReport[report.ID]
		if report.Evidences == nil {
			report.Evidences = []models.Evidence{}
		}
		reportsByProject[report.ProjectID] = append(reportsByProject[report.ProjectID], report)
	}

	accessByClient := make(map[string][]models.ClientProjectAccess)
	for _, access := range data.Access {
		accessByClient[access.ClientID] = append(accessByClient[access.ClientID], access)
	}

	tree := make([]dto.OverviewClient, 0, len(data.Clients))
	for _, client := range data.Clients {
		node := dto.OverviewClient{Client: client, Projects: []dto.OverviewProject{}}
		for _, access := range accessByClient[client.ID] {
			project, ok := projects[access.ProjectID]
			if !ok {
				continue
			}
			node.Projects = append(node.Projects, dto.OverviewProject{
				Project:      project,
				AccessActive: access.Active,
				Roadmap:      orEmpty(roadmapByProject[project.ID]),
				Sprints:      orEmpty(sprintsByProject[project.ID]),
				Reports:      orEmpty(reportsByProject[project.ID]),
			})
		}
		tree = append(tree, node)
	}
	return tree
}

// orEmpty keeps empty collections serialized as [] instead of null
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
