package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahallahub/mahalla-backend/pkg/db/models"
)

// EligibilityFilter mirrors a notice's targeting constraints.
type EligibilityFilter struct {
	Languages    []string
	Citizenships []string
	CouriersOnly bool
}

// Repository reads the user directory. The broadcast pipeline never
// writes to it.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a single user.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByChatID loads a user by their chat identity, nil when absent.
func (r *Repository) FindByChatID(ctx context.Context, chatID int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "chat_id = ?", chatID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListEligible returns users who pass the directory-level reachability
// gates and the notice's targeting filters, in stable creation order.
func (r *Repository) ListEligible(ctx context.Context, filter EligibilityFilter) ([]models.User, error) {
	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_banned = ?", false).
		Where("notifications_enabled = ?", true)

	if len(filter.Languages) > 0 {
		query = query.Where("language IN ?", filter.Languages)
	}
	if len(filter.Citizenships) > 0 {
		query = query.Where("citizenship IN ?", filter.Citizenships)
	}
	if filter.CouriersOnly {
		query = query.Where("is_courier = ?", true)
	}

	var users []models.User
	if err := query.
		Order("created_at ASC").
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
