package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/donely-api/models"
)

// EvidenceRepository handles database operations for evidence metadata
type EvidenceRepository struct {
	db *gorm.DB
}

// NewEvidenceRepository creates a new evidence repository instance
func NewEvidenceRepository(db *gorm.DB) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

// ListByReport retrieves the evidences of a report in upload order
func (r *EvidenceRepository) ListByReport(ctx context.Context, reportID string) ([]models.Evidence, error) {
	evidences := []models.Evidence{}
	result := r.db.WithContext(ctx).Where("report_id = ?", reportID).Order("created_at ASC").Find(&evidences)
	return evidences, result.Error
}

// ListByProject retrieves every evidence of a project
func (r *EvidenceRepository) ListByProject(ctx context.Context, projectID string) ([]models.Evidence, error) {
	evidences := []models.Evidence{}
	result := r.db.WithContext(ctx).Where("project_id = ?", projectID).Find(&evidences)
	return evidences, result.Error
}

// FindByID retrieves an evidence by its ID
func (r *EvidenceRepository) FindByID(ctx context.Context, id string) (models.Evidence, error) {
	var evidence models.Evidence
	result := r.db.WithContext(ctx).First(&evidence, "id = ?", id)
	return evidence, result.Error
}

// Create inserts evidence metadata; a pre-generated ID is kept
func (r *EvidenceRepository) Create(ctx context.Context, evidence *models.Evidence) error {
	return r.db.WithContext(ctx).Create(evidence).Error
}

// Delete removes evidence metadata
func (r *EvidenceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Evidence{}, "id = ?", id).Error
}
