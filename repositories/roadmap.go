package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/donely-api/models"
)

// RoadmapRepository handles database operations for roadmap items
type RoadmapRepository struct {
	db *gorm.DB
}

// NewRoadmapRepository creates a new roadmap repository instance
func NewRoadmapRepository(db *gorm.DB) *RoadmapRepository {
	return &RoadmapRepository{db: db}
}

// ListByProject retrieves the roadmap of a project in display order
func (r *RoadmapRepository) ListByProject(ctx context.Context, projectID string) ([]models.RoadmapItem, error) {
	items := []models.RoadmapItem{}
	result := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("order_index ASC").Find(&items)
	return items, result.Error
}

// FindByID retrieves a roadmap item by its ID
func (r *RoadmapRepository) FindByID(ctx context.Context, id string) (models.RoadmapItem, error) {
	var item models.RoadmapItem
	result := r.db.WithContext(ctx).First(&item, "id = ?", id)
	return item, result.Error
}

// MaxOrderIndex returns the highest order index in a project, 0 when empty
func (r *RoadmapRepository) MaxOrderIndex(ctx context.Context, projectID string) (int, error) {
	var maxIndex int
	err := r.db.WithContext(ctx).Model(&models.RoadmapItem{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(order_index), 0)").
		Scan(&maxIndex).Error
	return maxIndex, err
}

// CountProgress counts all and DONE items of a project
func (r *RoadmapRepository) CountProgress(ctx context.Context, projectID string) (int64, int64, error) {
	var counts struct {
		Total int64
		Done  int64
	}
	err := r.db.WithContext(ctx).Model(&models.RoadmapItem{}).
		Where("project_id = ?", projectID).
		Select("COUNT(*) AS total, COUNT(*) FILTER (WHERE status = ?) AS done", models.WorkStatusDone).
		Scan(&counts).Error
	return counts.Total, counts.Done, err
}

// Create inserts a new roadmap item
func (r *RoadmapRepository) Create(ctx context.Context, item *models.RoadmapItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update modifies an existing roadmap item
func (r *RoadmapRepository) Update(ctx context.Context, item *models.RoadmapItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Swap exchanges the order index of two items in one transaction
func (r *RoadmapRepository) Swap(ctx context.Context, first, second models.RoadmapItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RoadmapItem{}).Where("id = ?", first.ID).Update("order_index", second.OrderIndex).Error; err != nil {
			return err
		}
		return tx.Model(&models.RoadmapItem{}).Where("id = ?", second.ID).Update("order_index", first.OrderIndex).Error
	})
}

// Delete removes an item, unlinking sprints and dropping it from sibling dependencies
func (r *RoadmapRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Sprint{}).Where("roadmap_item_id = ?", id).Update("roadmap_item_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.RoadmapItem{}).
			Where("? = ANY(dependencies)", id).
			Update("dependencies", gorm.Expr("array_remove(dependencies, ?)", id)).Error; err != nil {
			return err
		}
		return tx.Delete(&models.RoadmapItem{}, "id = ?", id).Error
	})
}
