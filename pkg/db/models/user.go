package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the directory entity behind recipients and moderators. The
// broadcast pipeline only ever reads it.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatID      int64     `gorm:"column:chat_id;not null;uniqueIndex"`
	Username    *string   `gorm:"column:username"`
	FirstName   *string   `gorm:"column:first_name"`
	Phone       *string   `gorm:"column:phone"`
	Language    string    `gorm:"column:language;not null;default:RU"`
	Citizenship *string   `gorm:"column:citizenship"`
	IsModerator bool      `gorm:"column:is_moderator;not null;default:false"`
	IsCourier   bool      `gorm:"column:is_courier;not null;default:false"`
	IsBanned    bool      `gorm:"column:is_banned;not null;default:false"`
	// No default tag: GORM would omit an explicit false on insert and
	// let the column default flip it to true. The migration carries the
	// DB-side default.
	NotificationsEnabled bool       `gorm:"column:notifications_enabled;not null"`
	LastActiveAt         *time.Time `gorm:"column:last_active_at"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
