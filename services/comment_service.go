package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/donely-api/dto"
	"github.com/donely-api/models"
)

// CommentService handles project comments
type CommentService struct {
	commentRepo CommentStore
	projectRepo ProjectStore
	reportRepo  ReportStore
	accessRepo  AccessStore
}

// NewCommentService creates a new comment service instance
func NewCommentService(comments CommentStore, projects ProjectStore, reports ReportStore, access AccessStore) *CommentService {
	return &CommentService{
		commentRepo: comments,
		projectRepo: projects,
		reportRepo:  reports,
		accessRepo:  access,
	}
}

// ListByProject retrieves every comment of a project, hidden ones included
func (s *CommentService) ListByProject(ctx context.Context, projectID string) ([]models.Comment, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, notFound("project", err)
	}
	return s.commentRepo.ListByProject(ctx, projectID, false)
}

// CreateComment adds a comment by viewer on a project they can see.
// A comment may point at a report only when that report is published.
func (s *CommentService) CreateComment(ctx context.Context, viewer Viewer, projectID string, req dto.CommentRequest) (models.Comment, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return models.Comment{}, notFound("project", err)
	}

	allowed, err := canView(ctx, s.accessRepo, viewer, projectID)
	if err != nil {
		return models.Comment{}, err
	}
	if !allowed {
		return models.Comment{}, fmt.Errorf("%w: no access to this project", ErrForbidden)
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return models.Comment{}, validationError("content is required")
	}

	comment := models.Comment{
		ProjectID: projectID,
		AuthorID:  viewer.UserID,
		Content:   content,
		Visible:   true,
	}
	if req.ReportID != nil && *req.ReportID != "" {
		report, err := s.reportRepo.FindByID(ctx, *req.ReportID)
		if err != nil {
			return models.Comment{}, notFound("report", err)
		}
		if report.ProjectID != projectID || (!viewer.IsAdmin() && !report.Published) {
			return models.Comment{}, fmt.Errorf("report %w", ErrNotFound)
		}
		reportID := report.ID
		comment.ReportID = &reportID
	}

	if err := s.commentRepo.Create(ctx, &comment); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// ToggleVisibility flips the visible flag of a comment and nothing else
func (s *CommentService) ToggleVisibility(ctx context.Context, id string) (models.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return models.Comment{}, notFound("comment", err)
	}
	comment.Visible = !comment.Visible
	if err := s.commentRepo.SetVisible(ctx, comment.ID, comment.Visible); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// DeleteComment removes a comment
func (s *CommentService) DeleteComment(ctx context.Context, id string) error {
	if _, err := s.commentRepo.FindByID(ctx, id); err != nil {
		return notFound("comment", err)
	}
	return s.commentRepo.Delete(ctx, id)
}
