package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mahallahub/mahalla-backend/pkg/enums"
)

// NoticePreference is the per-user, per-category opt-in flag. A missing
// row is resolved through the category default policy, not assumed.
type NoticePreference struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID            `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_notice_prefs_user_category"`
	Category  enums.NoticeCategory `gorm:"column:category;type:notice_category;not null;uniqueIndex:idx_notice_prefs_user_category"`
	Enabled   bool                 `gorm:"column:enabled;not null"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
