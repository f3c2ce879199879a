package services

import (
	"context"
	"errors"
	"strings"

	"github.com/donely-api/dto"
	"github.com/donely-api/models"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// RoadmapService handles business logic for roadmap items
type RoadmapService struct {
	roadmapRepo RoadmapStore
	projectRepo ProjectStore
}

// NewRoadmapService creates a new roadmap service instance
func NewRoadmapService(roadmap RoadmapStore, projects ProjectStore) *RoadmapService {
	return &RoadmapService{
		roadmapRepo: roadmap,
		projectRepo: projects,
	}
}

// ListItems retrieves the roadmap of a project in display order
func (s *RoadmapService) ListItems(ctx context.Context, projectID string) ([]models.RoadmapItem, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, notFound("project", err)
	}
	return s.roadmapRepo.ListByProject(ctx, projectID)
}

// GetItem retrieves a roadmap item by ID
func (s *RoadmapService) GetItem(ctx context.Context, id string) (models.RoadmapItem, error) {
	item, err := s.roadmapRepo.FindByID(ctx, id)
	if err != nil {
		return models.RoadmapItem{}, notFound("roadmap item", err)
	}
	return item, nil
}

// CreateItem appends a roadmap item to the end of the project's roadmap
func (s *RoadmapService) CreateItem(ctx context.Context, projectID string, req dto.RoadmapItemRequest) (models.RoadmapItem, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return models.RoadmapItem{}, notFound("project", err)
	}

	item := models.RoadmapItem{ProjectID: projectID, Status: models.WorkStatusNotStarted}
	if err := s.apply(ctx, &item, req); err != nil {
		return models.RoadmapItem{}, err
	}

	maxIndex, err := s.roadmapRepo.MaxOrderIndex(ctx, projectID)
	if err != nil {
		return models.RoadmapItem{}, err
	}
	item.OrderIndex = maxIndex + 1

	if err := s.roadmapRepo.Create(ctx, &item); err != nil {
		return models.RoadmapItem{}, err
	}
	if _, err := recalculateProgress(ctx, s.projectRepo, s.roadmapRepo, projectID); err != nil {
		return models.RoadmapItem{}, err
	}
	return item, nil
}

// UpdateItem updates a roadmap item; its position is changed only through SwapItems
func (s *RoadmapService) UpdateItem(ctx context.Context, id string, req dto.RoadmapItemRequest) (models.RoadmapItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return models.RoadmapItem{}, err
	}
	if err := s.apply(ctx, &item, req); err != nil {
		return models.RoadmapItem{}, err
	}
	if err := s.roadmapRepo.Update(ctx, &item); err != nil {
		return models.RoadmapItem{}, err
	}
	if _, err := recalculateProgress(ctx, s.projectRepo, s.roadmapRepo, item.ProjectID); err != nil {
		return models.RoadmapItem{}, err
	}
	return item, nil
}

// DeleteItem removes a roadmap item
func (s *RoadmapService) DeleteItem(ctx context.Context, id string) error {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.roadmapRepo.Delete(ctx, item.ID); err != nil {
		return err
	}
	_, err = recalculateProgress(ctx, s.projectRepo, s.roadmapRepo, item.ProjectID)
	return err
}

// SwapItems exchanges the order index of two items of the same project
func (s *RoadmapService) SwapItems(ctx context.Context, projectID string, req dto.SwapRequest) ([]models.RoadmapItem, error) {
	if req.FirstID == req.SecondID {
		return nil, validationError("cannot swap an item with itself")
	}
	first, err := s.GetItem(ctx, req.FirstID)
	if err != nil {
		return nil, err
	}
	second, err := s.GetItem(ctx, req.SecondID)
	if err != nil {
		return nil, err
	}
	if first.ProjectID != projectID || second.ProjectID != projectID {
		return nil, validationError("both items must belong to project %s", projectID)
	}

	if err := s.roadmapRepo.Swap(ctx, first, second); err != nil {
		return nil, err
	}
	return s.roadmapRepo.ListByProject(ctx, projectID)
}

func (s *RoadmapService) apply(ctx context.Context, item *models.RoadmapItem, req dto.RoadmapItemRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return validationError("title is required")
	}
	if req.Status != "" {
		if !req.Status.IsValid() {
			return validationError("unknown roadmap status %q", req.Status)
		}
		item.Status = req.Status
	}
	if req.EffortEstimate < 0 {
		return validationError("effort estimate must not be negative")
	}
	start, end := req.StartDate.Ptr(), req.EndDate.Ptr()
	if start != nil && end != nil && end.Before(*start) {
		return validationError("end date must not be before start date")
	}

	deps, err := s.validateDependencies(ctx, item, req.Dependencies)
	if err != nil {
		return err
	}

	item.Title = title
	item.Description = req.Description
	item.EffortEstimate = req.EffortEstimate
	item.StartDate = start
	item.EndDate = end
	item.Dependencies = deps
	return nil
}

// validateDependencies deduplicates ids and checks they are other items of the same project
func (s *RoadmapService) validateDependencies(ctx context.Context, item *models.RoadmapItem, ids []string) (pq.StringArray, error) {
	deps := pq.StringArray{}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		if item.ID != "" && id == item.ID {
			return nil, validationError("a roadmap item cannot depend on itself")
		}
		dep, err := s.roadmapRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, validationError("dependency %s does not exist", id)
			}
			return nil, err
		}
		if dep.ProjectID != item.ProjectID {
			return nil, validationError("dependency %s belongs to another project", id)
		}
		seen[id] = true
		deps = append(deps, id)
	}
	return deps, nil
}
