package services

import (
	"context"
	"strings"
	"time"

	"github.com/donely-api/dto"
	"github.com/donely-api/models"
)

// SprintService handles business logic for sprints and their planned scope
type SprintService struct {
	sprintRepo  SprintStore
	projectRepo ProjectStore
	roadmapRepo RoadmapStore
	now         func() time.Time
}

// NewSprintService creates a new sprint service instance
func NewSprintService(sprints SprintStore, projects ProjectStore, roadmap RoadmapStore) *SprintService {
	return &SprintService{
		sprintRepo:  sprints,
		projectRepo: projects,
		roadmapRepo: roadmap,
		now:         time.Now,
	}
}

// ListSprints retrieves the sprints of a project ordered by sprint number
func (s *SprintService) ListSprints(ctx context.Context, projectID string) ([]models.Sprint, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, notFound("project", err)
	}
	return s.sprintRepo.ListByProject(ctx, projectID)
}

// GetSprint retrieves a sprint with its tasks and deliveries
func (s *SprintService) GetSprint(ctx context.Context, id string) (models.Sprint, error) {
	sprint, err := s.sprintRepo.FindByID(ctx, id)
	if err != nil {
		return models.Sprint{}, notFound("sprint", err)
	}
	return sprint, nil
}

// CreateSprint creates a sprint; a zero sprint number means "next"
func (s *SprintService) CreateSprint(ctx context.Context, projectID string, req dto.SprintRequest) (models.Sprint, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return models.Sprint{}, notFound("project", err)
	}

	sprint := models.Sprint{ProjectID: projectID, Status: models.SprintStatusPlanned}
	if err := s.apply(ctx, &sprint, req); err != nil {
		return models.Sprint{}, err
	}

	if req.SprintNumber > 0 {
		sprint.SprintNumber = req.SprintNumber
	} else {
		maxNumber, err := s.sprintRepo.MaxSprintNumber(ctx, projectID)
		if err != nil {
			return models.Sprint{}, err
		}
		sprint.SprintNumber = maxNumber + 1
	}

	if err := s.sprintRepo.Create(ctx, &sprint); err != nil {
		return models.Sprint{}, err
	}
	sprint.Tasks = []models.SprintTask{}
	sprint.Deliveries = []models.SprintDelivery{}
	return sprint, nil
}

// UpdateSprint updates sprint fields; tasks and deliveries have their own operations
func (s *SprintService) UpdateSprint(ctx context.Context, id string, req dto.SprintRequest) (models.Sprint, error) {
	sprint, err := s.GetSprint(ctx, id)
	if err != nil {
		return models.Sprint{}, err
	}
	if err := s.apply(ctx, &sprint, req); err != nil {
		return models.Sprint{}, err
	}
	if req.SprintNumber > 0 {
		sprint.SprintNumber = req.SprintNumber
	}
	if err := s.sprintRepo.Update(ctx, &sprint); err != nil {
		return models.Sprint{}, err
	}
	return sprint, nil
}

// DeleteSprint removes a sprint with its tasks and deliveries and unlinks its reports
func (s *SprintService) DeleteSprint(ctx context.Context, id string) error {
	sprint, err := s.GetSprint(ctx, id)
	if err != nil {
		return err
	}
	return s.sprintRepo.Delete(ctx, sprint.ID)
}

// SwapSprints exchanges the sprint numbers of two sprints of the same project
func (s *SprintService) SwapSprints(ctx context.Context, projectID string, req dto.SwapRequest) ([]models.Sprint, error) {
	if req.FirstID == req.SecondID {
		return nil, validationError("cannot swap a sprint with itself")
	}
	first, err := s.GetSprint(ctx, req.FirstID)
	if err != nil {
		return nil, err
	}
	second, err := s.GetSprint(ctx, req.SecondID)
	if err != nil {
		return nil, err
	}
	if first.ProjectID != projectID || second.ProjectID != projectID {
		return nil, validationError("both sprints must belong to project %s", projectID)
	}
	if err := s.sprintRepo.Swap(ctx, first, second); err != nil {
		return nil, err
	}
	return s.sprintRepo.ListByProject(ctx, projectID)
}

// CreateTask appends a task to a sprint
func (s *SprintService) CreateTask(ctx context.Context, sprintID string, req dto.SprintTaskRequest) (models.SprintTask, error) {
	sprint, err := s.GetSprint(ctx, sprintID)
	if err != nil {
		return models.SprintTask{}, err
	}

	task := models.SprintTask{SprintID: sprint.ID, Status: models.WorkStatusNotStarted}
	if err := applyTaskRequest(&task, req); err != nil {
		return models.SprintTask{}, err
	}

	maxOrder, err := s.sprintRepo.MaxTaskOrder(ctx, sprint.ID)
	if err != nil {
		return models.SprintTask{}, err
	}
	task.OrderIndex = maxOrder + 1

	if err := s.sprintRepo.CreateTask(ctx, &task); err != nil {
		return models.SprintTask{}, err
	}
	return task, nil
}

// UpdateTask updates a sprint task
func (s *SprintService) UpdateTask(ctx context.Context, id string, req dto.SprintTaskRequest) (models.SprintTask, error) {
	task, err := s.sprintRepo.FindTask(ctx, id)
	if err != nil {
		return models.SprintTask{}, notFound("sprint task", err)
	}
	if err := applyTaskRequest(&task, req); err != nil {
		return models.SprintTask{}, err
	}
	if err := s.sprintRepo.UpdateTask(ctx, &task); err != nil {
		return models.SprintTask{}, err
	}
	return task, nil
}

// DeleteTask removes a sprint task
func (s *SprintService) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.sprintRepo.FindTask(ctx, id); err != nil {
		return notFound("sprint task", err)
	}
	return s.sprintRepo.DeleteTask(ctx, id)
}

// CreateDelivery adds a deliverable to a sprint
func (s *SprintService) CreateDelivery(ctx context.Context, sprintID string, req dto.SprintDeliveryRequest) (models.SprintDelivery, error) {
	sprint, err := s.GetSprint(ctx, sprintID)
	if err != nil {
		return models.SprintDelivery{}, err
	}

	delivery := models.SprintDelivery{SprintID: sprint.ID}
	if err := s.applyDeliveryRequest(&delivery, req); err != nil {
		return models.SprintDelivery{}, err
	}
	if err := s.sprintRepo.CreateDelivery(ctx, &delivery); err != nil {
		return models.SprintDelivery{}, err
	}
	return delivery, nil
}

// UpdateDelivery updates a deliverable; marking it delivered stamps the time
func (s *SprintService) UpdateDelivery(ctx context.Context, id string, req dto.SprintDeliveryRequest) (models.SprintDelivery, error) {
	delivery, err := s.sprintRepo.FindDelivery(ctx, id)
	if err != nil {
		return models.SprintDelivery{}, notFound("sprint delivery", err)
	}
	if err := s.applyDeliveryRequest(&delivery, req); err != nil {
		return models.SprintDelivery{}, err
	}
	if err := s.sprintRepo.UpdateDelivery(ctx, &delivery); err != nil {
		return models.SprintDelivery{}, err
	}
	return delivery, nil
}

// DeleteDelivery removes a deliverable
func (s *SprintService) DeleteDelivery(ctx context.Context, id string) error {
	if _, err := s.sprintRepo.FindDelivery(ctx, id); err != nil {
		return notFound("sprint delivery", err)
	}
	return s.sprintRepo.DeleteDelivery(ctx, id)
}

func (s *SprintService) apply(ctx context.Context, sprint *models.Sprint, req dto.SprintRequest) error {
	if req.Status != "" {
		if !req.Status.IsValid() {
			return validationError("unknown sprint status %q", req.Status)
		}
		sprint.Status = req.Status
	}
	start, end := req.StartDate.Ptr(), req.EndDate.Ptr()
	if start != nil && end != nil && end.Before(*start) {
		return validationError("end date must not be before start date")
	}

	sprint.RoadmapItemID = nil
	if req.RoadmapItemID != nil && *req.RoadmapItemID != "" {
		item, err := s.roadmapRepo.FindByID(ctx, *req.RoadmapItemID)
		if err != nil {
			return validationError("roadmap item %s does not exist", *req.RoadmapItemID)
		}
		if item.ProjectID != sprint.ProjectID {
			return validationError("roadmap item %s belongs to another project", item.ID)
		}
		id := item.ID
		sprint.RoadmapItemID = &id
	}

	sprint.Goal = strings.TrimSpace(req.Goal)
	sprint.StartDate = start
	sprint.EndDate = end
	return nil
}

func applyTaskRequest(task *models.SprintTask, req dto.SprintTaskRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return validationError("title is required")
	}
	if req.Status != "" {
		if !req.Status.IsValid() {
			return validationError("unknown task status %q", req.Status)
		}
		task.Status = req.Status
	}
	task.Title = title
	task.Description = req.Description
	return nil
}

func (s *SprintService) applyDeliveryRequest(delivery *models.SprintDelivery, req dto.SprintDeliveryRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return validationError("title is required")
	}
	if req.Delivered && !delivery.Delivered {
		now := s.now()
		delivery.DeliveredAt = &now
	}
	if !req.Delivered {
		delivery.DeliveredAt = nil
	}
	delivery.Title = title
	delivery.Description = req.Description
	delivery.Delivered = req.Delivered
	return nil
}
