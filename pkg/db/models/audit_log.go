package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/mahallahub/mahalla-backend/pkg/db/types"
)

// AuditLog is an append-only record of moderator/admin actions.
type AuditLog struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ActorID    uuid.UUID       `gorm:"column:actor_id;type:uuid;not null;index"`
	Action     string          `gorm:"column:action;not null"`
	EntityType string          `gorm:"column:entity_type;not null"`
	EntityID   *uuid.UUID      `gorm:"column:entity_id;type:uuid"`
	Details    dbtypes.JSONMap `gorm:"column:details;type:jsonb"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime;index"`
}
