package services

import (
	"context"
	"fmt"

	"github.com/donely-api/dto"
	"github.com/donely-api/models"
)

// DashboardService serves the read-only client views
type DashboardService struct {
	projectRepo ProjectStore
	accessRepo  AccessStore
	roadmapRepo RoadmapStore
	sprintRepo  SprintStore
	reportRepo  ReportStore
	commentRepo CommentStore
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(projects ProjectStore, access AccessStore, roadmap RoadmapStore, sprints SprintStore, reports ReportStore, comments CommentStore) *DashboardService {
	return &DashboardService{
		projectRepo: projects,
		accessRepo:  access,
		roadmapRepo: roadmap,
		sprintRepo:  sprints,
		reportRepo:  reports,
		commentRepo: comments,
	}
}

// ListProjects returns the projects the client has active access to
func (s *DashboardService) ListProjects(ctx context.Context, clientID string) ([]dto.ClientProject, error) {
	grants, err := s.accessRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	projects := make([]dto.ClientProject, 0, len(grants))
	for _, grant := range grants {
		if !grant.Active || grant.Project == nil {
			continue
		}
		projects = append(projects, dto.ClientProject{
			Project:     *grant.Project,
			LastLoginAt: grant.LastLoginAt,
		})
	}
	return projects, nil
}

// ResolveProject finds a project by slug and checks the viewer may see it.
// Projects without access answer not found so their existence is not revealed.
func (s *DashboardService) ResolveProject(ctx context.Context, viewer Viewer, slug string) (models.Project, error) {
	project, err := s.projectRepo.FindBySlug(ctx, slug)
	if err != nil {
		return models.Project{}, notFound("project", err)
	}
	allowed, err := canView(ctx, s.accessRepo, viewer, project.ID)
	if err != nil {
		return models.Project{}, err
	}
	if !allowed {
		return models.Project{}, fmt.Errorf("project %w", ErrNotFound)
	}
	return project, nil
}

// GetDashboard assembles everything a client sees for one project
func (s *DashboardService) GetDashboard(ctx context.Context, viewer Viewer, slug string) (dto.ProjectDashboard, error) {
	project, err := s.ResolveProject(ctx, viewer, slug)
	if err != nil {
		return dto.ProjectDashboard{}, err
	}

	roadmap, err := s.roadmapRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return dto.ProjectDashboard{}, fmt.Errorf("error fetching roadmap: %w", err)
	}
	sprints, err := s.sprintRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return dto.ProjectDashboard{}, fmt.Errorf("error fetching sprints: %w", err)
	}
	reports, err := s.reportRepo.ListByProject(ctx, project.ID, true)
	if err != nil {
		return dto.ProjectDashboard{}, fmt.Errorf("error fetching reports: %w", err)
	}
	comments, err := s.commentRepo.ListByProject(ctx, project.ID, true)
	if err != nil {
		return dto.ProjectDashboard{}, fmt.Errorf("error fetching comments: %w", err)
	}

	return dto.ProjectDashboard{
		Project:  project,
		Roadmap:  roadmap,
		Sprints:  sprints,
		Reports:  reports,
		Comments: comments,
	}, nil
}

// GetPublishedReport returns one published report of a project the viewer can see
func (s *DashboardService) GetPublishedReport(ctx context.Context, viewer Viewer, slug, reportID string) (models.Report, error) {
	project, err := s.ResolveProject(ctx, viewer, slug)
	if err != nil {
		return models.Report{}, err
	}

	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		return models.Report{}, notFound("report", err)
	}
	if report.ProjectID != project.ID || !report.Published {
		return models.Report{}, fmt.Errorf("report %w", ErrNotFound)
	}
	return report, nil
}
