package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mahallahub/mahalla-backend/pkg/enums"
)

// CategorySetting is the per-category submission kill switch. Absence of
// a row means the category is enabled (fail open).
type CategorySetting struct {
	ID       uuid.UUID            `gorm:"type:uuid;primaryKey"`
	Category enums.NoticeCategory `gorm:"column:category;type:notice_category;not null;uniqueIndex"`
	// No gorm default tag here: with one, GORM omits a zero-value false
	// on insert and the column default wins. Defaults live in the
	// migration.
	Enabled    bool       `gorm:"column:enabled;not null"`
	ModifiedBy *uuid.UUID `gorm:"column:modified_by;type:uuid"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
