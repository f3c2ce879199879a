package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/donely-api/dto"
	"github.com/donely-api/models"
)

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// FindByID retrieves a project by its ID
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (models.Project, error) {
	var project models.Project
	result := r.db.WithContext(ctx).First(&project, "id = ?", id)
	return project, result.Error
}

// FindBySlug retrieves a project by its slug
func (r *ProjectRepository) FindBySlug(ctx context.Context, slug string) (models.Project, error) {
	var project models.Project
	result := r.db.WithContext(ctx).First(&project, "slug = ?", slug)
	return project, result.Error
}

// ExistsBySlug checks whether another project already uses slug
func (r *ProjectRepository) ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&models.Project{}).Where("slug = ?", slug)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}

// Create inserts a new project into the database
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update modifies an existing project
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(project).Error
}

// UpdateProgress stores a derived progress value
func (r *ProjectRepository) UpdateProgress(ctx context.Context, id string, progress int) error {
	return r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Update("progress", progress).Error
}

// Delete removes a project and everything below it
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sprintIDs := tx.Model(&models.Sprint{}).Select("id").Where("project_id = ?", id)

		steps := []struct {
			model interface{}
			query string
			arg   interface{}
		}{
			{&models.ClientProjectAccess{}, "project_id = ?", id},
			{&models.Comment{}, "project_id = ?", id},
			{&models.Evidence{}, "project_id = ?", id},
			{&models.Report{}, "project_id = ?", id},
			{&models.SprintTask{}, "sprint_id IN (?)", sprintIDs},
			{&models.SprintDelivery{}, "sprint_id IN (?)", sprintIDs},
			{&models.Sprint{}, "project_id = ?", id},
			{&models.RoadmapItem{}, "project_id = ?", id},
		}
		for _, step := range steps {
			if err := tx.Where(step.query, step.arg).Delete(step.model).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
}

// FindWithPagination retrieves projects with pagination, filtering and sorting.
// filter.SortBy must already be whitelisted by the caller.
func (r *ProjectRepository) FindWithPagination(ctx context.Context, filter dto.ListFilter) ([]models.Project, int64, error) {
	var projects []models.Project
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&models.Project{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		db = db.Where("(name ILIKE ? OR slug ILIKE ? OR client_name ILIKE ?)", searchPattern, searchPattern, searchPattern)
	}

	// Count total records with the same filter
	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	orderString := filter.SortBy + " " + filter.SortOrder
	if err := db.Order(orderString).Limit(filter.PageSize).Offset(offset).Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, totalCount, nil
}
