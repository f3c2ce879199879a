package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/donely-api/dto"
	"github.com/donely-api/models"
)

// ProfileRepository handles database operations for admin and client profiles
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository instance
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByID retrieves a profile by its ID
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (models.Profile, error) {
	var profile models.Profile
	result := r.db.WithContext(ctx).First(&profile, "id = ?", id)
	return profile, result.Error
}

// FindByEmail retrieves a profile by its email address
func (r *ProfileRepository) FindByEmail(ctx context.Context, email string) (models.Profile, error) {
	var profile models.Profile
	result := r.db.WithContext(ctx).First(&profile, "email = ?", email)
	return profile, result.Error
}

func (r *ProfileRepository) exists(ctx context.Context, column, value, excludeID string) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&models.Profile{}).Where(column+" = ?", value)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks whether another profile uses email
func (r *ProfileRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

// ExistsByUsername checks whether another profile uses username
func (r *ProfileRepository) ExistsByUsername(ctx context.Context, username, excludeID string) (bool, error) {
	return r.exists(ctx, "username", username, excludeID)
}

// ListClients retrieves client profiles with pagination, search and sorting
func (r *ProfileRepository) ListClients(ctx context.Context, filter dto.ListFilter) ([]models.Profile, int64, error) {
	var clients []models.Profile
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&models.Profile{}).Where("role = ?", models.RoleClient)
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		db = db.Where("(name ILIKE ? OR email ILIKE ? OR username ILIKE ?)", searchPattern, searchPattern, searchPattern)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	if err := db.Order(filter.SortBy + " " + filter.SortOrder).Limit(filter.PageSize).Offset(offset).Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, totalCount, nil
}

// Create inserts a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// Update stores the identity fields of a profile
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Model(profile).Select("email", "username", "name").Updates(profile).Error
}

// UpdatePassword replaces the password hash; a missing profile is ErrRecordNotFound
func (r *ProfileRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Update("password", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetActive updates only the active flag
func (r *ProfileRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Update("active", active).Error
}

// Delete removes a profile with its access grants and authored comments
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", id).Delete(&models.ClientProjectAccess{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Profile{}, "id = ?", id).Error
	})
}
