package notices

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mahallahub/mahalla-backend/pkg/db/models"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
)

// SettingsRepository persists the per-category submission switches.
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository builds the repository on the shared GORM DB.
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// FindByCategory loads the switch row for a category, nil when absent.
func (r *SettingsRepository) FindByCategory(ctx context.Context, category enums.NoticeCategory) (*models.CategorySetting, error) {
	var setting models.CategorySetting
	err := r.db.WithContext(ctx).
		First(&setting, "category = ?", string(category)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// Upsert writes the switch state for a category.
func (r *SettingsRepository) Upsert(ctx context.Context, setting *models.CategorySetting) error {
	existing, err := r.FindByCategory(ctx, setting.Category)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.WithContext(ctx).Create(setting).Error
	}
	return r.db.WithContext(ctx).
		Model(&models.CategorySetting{}).
		Where("id = ?", existing.ID).
		Updates(map[string]any{
			"enabled":     setting.Enabled,
			"modified_by": setting.ModifiedBy,
		}).Error
}
