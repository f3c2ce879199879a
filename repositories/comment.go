package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/donely-api/models"
)

// CommentRepository handles database operations for comments
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository instance
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// ListByProject retrieves the comments of a project with their authors, newest first
func (r *CommentRepository) ListByProject(ctx context.Context, projectID string, visibleOnly bool) ([]models.Comment, error) {
	comments := []models.Comment{}
	db := r.db.WithContext(ctx).Preload("Author").Where("project_id = ?", projectID)
	if visibleOnly {
		db = db.Where("visible = ?", true)
	}
	result := db.Order("created_at DESC").Find(&comments)
	return comments, result.Error
}

// FindByID retrieves a comment by its ID
func (r *CommentRepository) FindByID(ctx context.Context, id string) (models.Comment, error) {
	var comment models.Comment
	result := r.db.WithContext(ctx).First(&comment, "id = ?", id)
	return comment, result.Error
}

// Create inserts a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

// SetVisible updates only the visible flag
func (r *CommentRepository) SetVisible(ctx context.Context, id string, visible bool) error {
	return r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("visible", visible).Error
}

// Delete removes a comment
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id).Error
}
