package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/donely-api/models"
)

// ReportRepository handles database operations for reports
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository instance
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) withEvidences(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Evidences", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

// ListByProject retrieves the reports of a project, newest first
func (r *ReportRepository) ListByProject(ctx context.Context, projectID string, publishedOnly bool) ([]models.Report, error) {
	reports := []models.Report{}
	db := r.withEvidences(ctx).Where("project_id = ?", projectID)
	if publishedOnly {
		db = db.Where("published = ?", true)
	}
	result := db.Order("created_at DESC").Find(&reports)
	return reports, result.Error
}

// FindByID retrieves a report with its evidences
func (r *ReportRepository) FindByID(ctx context.Context, id string) (models.Report, error) {
	var report models.Report
	result := r.withEvidences(ctx).First(&report, "id = ?", id)
	return report, result.Error
}

// Create inserts a new report
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(report).Error
}

// Update modifies report columns; evidences are managed separately
func (r *ReportRepository) Update(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(report).Error
}

// SetPublished updates the publication flag and timestamp together
func (r *ReportRepository) SetPublished(ctx context.Context, id string, published bool, at *time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).Updates(map[string]interface{}{
		"published":    published,
		"published_at": at,
	}).Error
}

// Delete removes a report with its evidence rows and comments
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("report_id = ?", id).Delete(&models.Evidence{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Report{}, "id = ?", id).Error
	})
}
