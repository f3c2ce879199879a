package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/donely-api/dto"
	"github.com/donely-api/lib/storage"
	"github.com/donely-api/models"
	"github.com/donely-api/utils"
)

// slugAttempts bounds how many random suffixes are tried for a taken slug
const slugAttempts = 5

// ProjectService handles business logic for projects
type ProjectService struct {
	projectRepo  ProjectStore
	roadmapRepo  RoadmapStore
	evidenceRepo EvidenceStore
	storage      storage.Storage
}

// NewProjectService creates a new project service instance
func NewProjectService(projects ProjectStore, roadmap RoadmapStore, evidences EvidenceStore, store storage.Storage) *ProjectService {
	return &ProjectService{
		projectRepo:  projects,
		roadmapRepo:  roadmap,
		evidenceRepo: evidences,
		storage:      store,
	}
}

// normalizeFilter applies defaults and the sort column whitelist
func normalizeFilter(filter dto.ListFilter, validSortColumns map[string]bool) dto.ListFilter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	if filter.SortOrder != "asc" && filter.SortOrder != "desc" {
		filter.SortOrder = "desc"
	}
	if !validSortColumns[filter.SortBy] {
		filter.SortBy = "created_at"
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return filter
}

// ListProjects retrieves projects with pagination, filtering and sorting
func (s *ProjectService) ListProjects(ctx context.Context, filter dto.ListFilter) (dto.ProjectListResponse, error) {
	filter = normalizeFilter(filter, map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
		"status":     true,
		"progress":   true,
	})

	projects, totalCount, err := s.projectRepo.FindWithPagination(ctx, filter)
	if err != nil {
		return dto.ProjectListResponse{}, err
	}

	return dto.ProjectListResponse{
		Projects:   projects,
		TotalCount: totalCount,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: utils.TotalPages(totalCount, filter.PageSize),
	}, nil
}

// GetProject retrieves a project by ID
func (s *ProjectService) GetProject(ctx context.Context, id string) (models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return models.Project{}, notFound("project", err)
	}
	return project, nil
}

// GetProjectBySlug retrieves a project by its URL slug
func (s *ProjectService) GetProjectBySlug(ctx context.Context, slug string) (models.Project, error) {
	project, err := s.projectRepo.FindBySlug(ctx, slug)
	if err != nil {
		return models.Project{}, notFound("project", err)
	}
	return project, nil
}

// CreateProject validates the request and inserts a project with a unique slug
func (s *ProjectService) CreateProject(ctx context.Context, req dto.ProjectRequest) (models.Project, error) {
	project := models.Project{Status: models.ProjectStatusPlanning}
	if err := applyProjectRequest(&project, req); err != nil {
		return models.Project{}, err
	}
	if req.Progress != nil {
		project.Progress = *req.Progress
	}

	slug, err := s.resolveSlug(ctx, req.Slug, req.Name, "")
	if err != nil {
		return models.Project{}, err
	}
	project.Slug = slug

	if err := s.projectRepo.Create(ctx, &project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// UpdateProject updates an existing project
func (s *ProjectService) UpdateProject(ctx context.Context, id string, req dto.ProjectRequest) (models.Project, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if err := applyProjectRequest(&project, req); err != nil {
		return models.Project{}, err
	}

	if req.Slug != "" && req.Slug != project.Slug {
		slug, err := s.resolveSlug(ctx, req.Slug, req.Name, project.ID)
		if err != nil {
			return models.Project{}, err
		}
		project.Slug = slug
	}

	// Progress is derived from the roadmap once the project has one
	total, done, err := s.roadmapRepo.CountProgress(ctx, project.ID)
	if err != nil {
		return models.Project{}, err
	}
	if total > 0 {
		project.Progress = progressPercent(total, done)
	} else if req.Progress != nil {
		project.Progress = *req.Progress
	}

	if err := s.projectRepo.Update(ctx, &project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// DeleteProject removes stored evidence files, then the project and everything under it
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return err
	}

	evidences, err := s.evidenceRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return fmt.Errorf("error fetching project evidences: %w", err)
	}

	// Continue with the remaining files even if one fails
	for _, evidence := range evidences {
		if err := s.storage.Delete(ctx, evidence.StorageKey); err != nil {
			log.Printf("Warning: Failed to delete object %s: %v", evidence.StorageKey, err)
		}
	}

	return s.projectRepo.Delete(ctx, project.ID)
}

// recalculateProgress derives progress from the share of DONE roadmap items
func recalculateProgress(ctx context.Context, projects ProjectStore, roadmap RoadmapStore, projectID string) (int, error) {
	total, done, err := roadmap.CountProgress(ctx, projectID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		project, err := projects.FindByID(ctx, projectID)
		if err != nil {
			return 0, notFound("project", err)
		}
		return project.Progress, nil
	}
	progress := progressPercent(total, done)
	if err := projects.UpdateProgress(ctx, projectID, progress); err != nil {
		return 0, err
	}
	return progress, nil
}

func progressPercent(total, done int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// resolveSlug returns an unused slug; explicit slugs conflict, derived ones get a suffix
func (s *ProjectService) resolveSlug(ctx context.Context, requested, name, excludeID string) (string, error) {
	if requested != "" {
		if !utils.IsValidSlug(requested) {
			return "", validationError("slug %q must be lowercase words separated by hyphens", requested)
		}
		taken, err := s.projectRepo.ExistsBySlug(ctx, requested, excludeID)
		if err != nil {
			return "", err
		}
		if taken {
			return "", conflictError("slug %q is already used by another project", requested)
		}
		return requested, nil
	}

	base := utils.Slugify(name)
	if base == "" {
		base = "project"
	}
	candidate := base
	for i := 0; i < slugAttempts; i++ {
		taken, err := s.projectRepo.ExistsBySlug(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + utils.GenerateShortID()
	}
	return "", conflictError("could not find a free slug for %q", name)
}

func applyProjectRequest(project *models.Project, req dto.ProjectRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return validationError("name is required")
	}
	if req.Status != "" {
		if !req.Status.IsValid() {
			return validationError("unknown project status %q", req.Status)
		}
		project.Status = req.Status
	}
	start, end := req.StartDate.Ptr(), req.TargetEndDate.Ptr()
	if start != nil && end != nil && end.Before(*start) {
		return validationError("target end date must not be before start date")
	}

	project.Name = name
	project.Description = req.Description
	project.ClientName = strings.TrimSpace(req.ClientName)
	project.StartDate = start
	project.TargetEndDate = end
	return nil
}
