package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/donely-api/models"
)

// SprintRepository handles database operations for sprints, their tasks and deliveries
type SprintRepository struct {
	db *gorm.DB
}

// NewSprintRepository creates a new sprint repository instance
func NewSprintRepository(db *gorm.DB) *SprintRepository {
	return &SprintRepository{db: db}
}

func (r *SprintRepository) withScope(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Deliveries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

// ListByProject retrieves the sprints of a project ordered by number
func (r *SprintRepository) ListByProject(ctx context.Context, projectID string) ([]models.Sprint, error) {
	sprints := []models.Sprint{}
	result := r.withScope(ctx).Where("project_id = ?", projectID).Order("sprint_number ASC").Find(&sprints)
	return sprints, result.Error
}

// FindByID retrieves a sprint with its tasks and deliveries
func (r *SprintRepository) FindByID(ctx context.Context, id string) (models.Sprint, error) {
	var sprint models.Sprint
	result := r.withScope(ctx).First(&sprint, "id = ?", id)
	return sprint, result.Error
}

// MaxSprintNumber returns the highest sprint number in a project, 0 when empty
func (r *SprintRepository) MaxSprintNumber(ctx context.Context, projectID string) (int, error) {
	var maxNumber int
	err := r.db.WithContext(ctx).Model(&models.Sprint{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(sprint_number), 0)").
		Scan(&maxNumber).Error
	return maxNumber, err
}

// Create inserts a new sprint without its scope
func (r *SprintRepository) Create(ctx context.Context, sprint *models.Sprint) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(sprint).Error
}

// Update modifies sprint columns; tasks and deliveries are left alone
func (r *SprintRepository) Update(ctx context.Context, sprint *models.Sprint) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(sprint).Error
}

// Swap exchanges two sprint numbers in one transaction
func (r *SprintRepository) Swap(ctx context.Context, first, second models.Sprint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Sprint{}).Where("id = ?", first.ID).Update("sprint_number", second.SprintNumber).Error; err != nil {
			return err
		}
		return tx.Model(&models.Sprint{}).Where("id = ?", second.ID).Update("sprint_number", first.SprintNumber).Error
	})
}

// Delete removes a sprint with its tasks and deliveries and unlinks its reports
func (r *SprintRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.SprintTask{}).Select("id").Where("sprint_id = ?", id)
		if err := tx.Model(&models.Evidence{}).Where("sprint_task_id IN (?)", taskIDs).Update("sprint_task_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("sprint_id = ?", id).Delete(&models.SprintTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sprint_id = ?", id).Delete(&models.SprintDelivery{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Report{}).Where("sprint_id = ?", id).Update("sprint_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Sprint{}, "id = ?", id).Error
	})
}

// FindTask retrieves a sprint task by its ID
func (r *SprintRepository) FindTask(ctx context.Context, id string) (models.SprintTask, error) {
	var task models.SprintTask
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	return task, result.Error
}

// MaxTaskOrder returns the highest task order in a sprint, 0 when empty
func (r *SprintRepository) MaxTaskOrder(ctx context.Context, sprintID string) (int, error) {
	var maxOrder int
	err := r.db.WithContext(ctx).Model(&models.SprintTask{}).
		Where("sprint_id = ?", sprintID).
		Select("COALESCE(MAX(order_index), 0)").
		Scan(&maxOrder).Error
	return maxOrder, err
}

// CreateTask inserts a sprint task
func (r *SprintRepository) CreateTask(ctx context.Context, task *models.SprintTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// UpdateTask modifies a sprint task
func (r *SprintRepository) UpdateTask(ctx context.Context, task *models.SprintTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// DeleteTask removes a sprint task and unlinks evidences pointing at it
func (r *SprintRepository) DeleteTask(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Evidence{}).Where("sprint_task_id = ?", id).Update("sprint_task_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.SprintTask{}, "id = ?", id).Error
	})
}

// FindDelivery retrieves a sprint delivery by its ID
func (r *SprintRepository) FindDelivery(ctx context.Context, id string) (models.SprintDelivery, error) {
	var delivery models.SprintDelivery
	result := r.db.WithContext(ctx).First(&delivery, "id = ?", id)
	return delivery, result.Error
}

// CreateDelivery inserts a sprint delivery
func (r *SprintRepository) CreateDelivery(ctx context.Context, delivery *models.SprintDelivery) error {
	return r.db.WithContext(ctx).Create(delivery).Error
}

// UpdateDelivery modifies a sprint delivery
func (r *SprintRepository) UpdateDelivery(ctx context.Context, delivery *models.SprintDelivery) error {
	return r.db.WithContext(ctx).Save(delivery).Error
}

// DeleteDelivery removes a sprint delivery
func (r *SprintRepository) DeleteDelivery(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.SprintDelivery{}, "id = ?", id).Error
}
