package preferences

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahallahub/mahalla-backend/pkg/db/models"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
)

// Repository persists per-user category opt-ins.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByUser returns every stored preference row for the user.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.NoticePreference, error) {
	var prefs []models.NoticePreference
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}

// Upsert writes the opt-in flag for one (user, category) pair.
func (r *Repository) Upsert(ctx context.Context, userID uuid.UUID, category enums.NoticeCategory, enabled bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.NoticePreference{}).
		Where("user_id = ? AND category = ?", userID, string(category)).
		Update("enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&models.NoticePreference{
		UserID:   userID,
		Category: category,
		Enabled:  enabled,
	}).Error
}

// EnsureDefaults backfills missing preference rows for the user from
// the category default policy. Existing rows are left untouched.
func (r *Repository) EnsureDefaults(ctx context.Context, userID uuid.UUID) error {
	existing, err := r.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	present := make(map[enums.NoticeCategory]bool, len(existing))
	for _, p := range existing {
		present[p.Category] = true
	}

	var missing []models.NoticePreference
	for _, category := range enums.NoticeCategories() {
		if present[category] {
			continue
		}
		missing = append(missing, models.NoticePreference{
			UserID:   userID,
			Category: category,
			Enabled:  category.Capabilities().DefaultOptIn,
		})
	}
	if len(missing) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&missing).Error
}

// DisabledUserIDs returns the subset of userIDs that explicitly opted
// out of the category. A missing row never counts as opted out.
func (r *Repository) DisabledUserIDs(ctx context.Context, category enums.NoticeCategory, userIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.userIDsByFlag(ctx, category, userIDs, false)
}

// EnabledUserIDs returns the subset of userIDs with an explicit opt-in
// row for the category. Used for categories that default to opted out,
// where a missing row means no delivery.
func (r *Repository) EnabledUserIDs(ctx context.Context, category enums.NoticeCategory, userIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return r.userIDsByFlag(ctx, category, userIDs, true)
}

func (r *Repository) userIDsByFlag(ctx context.Context, category enums.NoticeCategory, userIDs []uuid.UUID, enabled bool) (map[uuid.UUID]bool, error) {
	matched := make(map[uuid.UUID]bool)
	if len(userIDs) == 0 {
		return matched, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.NoticePreference{}).
		Where("category = ? AND enabled = ? AND user_id IN ?", string(category), enabled, userIDs).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		matched[id] = true
	}
	return matched, nil
}
