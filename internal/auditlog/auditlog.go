package auditlog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahallahub/mahalla-backend/pkg/db/models"
)

// Moderation actions recorded against the trail.
const (
	ActionNoticeApproved    = "notice_approved"
	ActionNoticeRejected    = "notice_rejected"
	ActionNoticeRebroadcast = "notice_rebroadcast"
	ActionCategoryToggled   = "category_toggled"
)

// Entity types referenced by audit entries.
const (
	EntityTypeNotice   = "notice"
	EntityTypeCategory = "category"
)

// Entry is the input for one audit record.
type Entry struct {
	ActorID    uuid.UUID
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	Details    map[string]any
}

// Recorder appends entries to the audit trail.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Lister reads the trail back, newest first.
type Lister interface {
	ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// Repository persists the append-only audit trail.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record appends one entry.
func (r *Repository) Record(ctx context.Context, entry Entry) error {
	if entry.Action == "" {
		return fmt.Errorf("audit action required")
	}
	if entry.EntityType == "" {
		return fmt.Errorf("audit entity type required")
	}
	return r.db.WithContext(ctx).Create(&models.AuditLog{
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    entry.Details,
	}).Error
}

// ListRecent returns the newest entries first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []models.AuditLog
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteOlderThan prunes entries created before the cutoff. Returns the
// number of rows removed.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
