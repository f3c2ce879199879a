package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/donely-api/models"
)

// AccessRepository handles database operations for client project access
type AccessRepository struct {
	db *gorm.DB
}

// NewAccessRepository creates a new access repository instance
func NewAccessRepository(db *gorm.DB) *AccessRepository {
	return &AccessRepository{db: db}
}

// FindByID retrieves an access grant by its ID
func (r *AccessRepository) FindByID(ctx context.Context, id string) (models.ClientProjectAccess, error) {
	var access models.ClientProjectAccess
	result := r.db.WithContext(ctx).First(&access, "id = ?", id)
	return access, result.Error
}

// FindByClientAndProject retrieves the grant linking a client to a project
func (r *AccessRepository) FindByClientAndProject(ctx context.Context, clientID, projectID string) (models.ClientProjectAccess, error) {
	var access models.ClientProjectAccess
	result := r.db.WithContext(ctx).First(&access, "client_id = ? AND project_id = ?", clientID, projectID)
	return access, result.Error
}

// ListByProject retrieves the grants of a project with their clients
func (r *AccessRepository) ListByProject(ctx context.Context, projectID string) ([]models.ClientProjectAccess, error) {
	grants := []models.ClientProjectAccess{}
	result := r.db.WithContext(ctx).Preload("Client").
		Where("project_id = ?", projectID).Order("created_at ASC").Find(&grants)
	return grants, result.Error
}

// ListByClient retrieves the grants of a client with their projects
func (r *AccessRepository) ListByClient(ctx context.Context, clientID string) ([]models.ClientProjectAccess, error) {
	grants := []models.ClientProjectAccess{}
	result := r.db.WithContext(ctx).Preload("Project").
		Where("client_id = ?", clientID).Order("created_at ASC").Find(&grants)
	return grants, result.Error
}

// Create inserts a new access grant
func (r *AccessRepository) Create(ctx context.Context, access *models.ClientProjectAccess) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(access).Error
}

// SetActive updates only the active flag
func (r *AccessRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).Model(&models.ClientProjectAccess{}).Where("id = ?", id).Update("active", active).Error
}

// TouchLastLogin stamps every grant of a client with its latest login
func (r *AccessRepository) TouchLastLogin(ctx context.Context, clientID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.ClientProjectAccess{}).Where("client_id = ?", clientID).Update("last_login_at", at).Error
}

// Delete removes an access grant
func (r *AccessRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.ClientProjectAccess{}, "id = ?", id).Error
}
