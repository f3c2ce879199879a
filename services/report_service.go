package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/donely-api/dto"
	"github.com/donely-api/lib/storage"
	"github.com/donely-api/models"
)

// ReportService handles business logic for project reports
type ReportService struct {
	reportRepo   ReportStore
	projectRepo  ProjectStore
	sprintRepo   SprintStore
	evidenceRepo EvidenceStore
	storage      storage.Storage
	now          func() time.Time
}

// NewReportService creates a new report service instance
func NewReportService(reports ReportStore, projects ProjectStore, sprints SprintStore, evidences EvidenceStore, store storage.Storage) *ReportService {
	return &ReportService{
		reportRepo:   reports,
		projectRepo:  projects,
		sprintRepo:   sprints,
		evidenceRepo: evidences,
		storage:      store,
		now:          time.Now,
	}
}

// ListReports retrieves all reports of a project, drafts included
func (s *ReportService) ListReports(ctx context.Context, projectID string) ([]models.Report, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, notFound("project", err)
	}
	return s.reportRepo.ListByProject(ctx, projectID, false)
}

// GetReport retrieves a report with its evidences
func (s *ReportService) GetReport(ctx context.Context, id string) (models.Report, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return models.Report{}, notFound("report", err)
	}
	return report, nil
}

// CreateReport creates an unpublished report at version 1
func (s *ReportService) CreateReport(ctx context.Context, projectID string, req dto.ReportRequest) (models.Report, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return models.Report{}, notFound("project", err)
	}

	report := models.Report{
		ProjectID: projectID,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Version:   1,
	}
	if report.Title == "" {
		return models.Report{}, validationError("title is required")
	}
	sprintID, err := s.resolveSprint(ctx, projectID, req.SprintID)
	if err != nil {
		return models.Report{}, err
	}
	report.SprintID = sprintID

	if err := s.reportRepo.Create(ctx, &report); err != nil {
		return models.Report{}, err
	}
	report.Evidences = []models.Evidence{}
	return report, nil
}

// UpdateReport updates a report; the version increments when title or content change
func (s *ReportService) UpdateReport(ctx context.Context, id string, req dto.ReportRequest) (models.Report, error) {
	report, err := s.GetReport(ctx, id)
	if err != nil {
		return models.Report{}, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.Report{}, validationError("title is required")
	}
	sprintID, err := s.resolveSprint(ctx, report.ProjectID, req.SprintID)
	if err != nil {
		return models.Report{}, err
	}

	if title != report.Title || req.Content != report.Content {
		report.Version++
	}
	report.Title = title
	report.Content = req.Content
	report.SprintID = sprintID

	if err := s.reportRepo.Update(ctx, &report); err != nil {
		return models.Report{}, err
	}
	return report, nil
}

// SetPublished publishes or unpublishes a report
func (s *ReportService) SetPublished(ctx context.Context, id string, published bool) (models.Report, error) {
	report, err := s.GetReport(ctx, id)
	if err != nil {
		return models.Report{}, err
	}
	if report.Published == published {
		return report, nil
	}

	var at *time.Time
	if published {
		now := s.now()
		at = &now
	}
	if err := s.reportRepo.SetPublished(ctx, report.ID, published, at); err != nil {
		return models.Report{}, err
	}
	report.Published = published
	report.PublishedAt = at
	return report, nil
}

// DeleteReport removes the report's stored files, then the report with its evidences and comments
func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	report, err := s.GetReport(ctx, id)
	if err != nil {
		return err
	}

	evidences, err := s.evidenceRepo.ListByReport(ctx, report.ID)
	if err != nil {
		return fmt.Errorf("error fetching report evidences: %w", err)
	}
	for _, evidence := range evidences {
		if err := s.storage.Delete(ctx, evidence.StorageKey); err != nil {
			log.Printf("Warning: Failed to delete object %s: %v", evidence.StorageKey, err)
		}
	}

	return s.reportRepo.Delete(ctx, report.ID)
}

func (s *ReportService) resolveSprint(ctx context.Context, projectID string, sprintID *string) (*string, error) {
	if sprintID == nil || *sprintID == "" {
		return nil, nil
	}
	sprint, err := s.sprintRepo.FindByID(ctx, *sprintID)
	if err != nil {
		return nil, notFound("sprint", err)
	}
	if sprint.ProjectID != projectID {
		return nil, validationError("sprint %s belongs to another project", sprint.ID)
	}
	id := sprint.ID
	return &id, nil
}
