package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/mahallahub/mahalla-backend/pkg/db/types"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
)

// Notice is a moderated, categorized piece of community information
// eligible for mass delivery.
type Notice struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey"`
	Category  enums.NoticeCategory `gorm:"column:category;type:notice_category;not null;index"`
	CreatorID uuid.UUID            `gorm:"column:creator_id;type:uuid;not null"`

	Title       *string             `gorm:"column:title"`
	Description string              `gorm:"column:description;type:text;not null"`
	PhotoRef    *string             `gorm:"column:photo_ref"`
	ExtraFiles  dbtypes.StringSlice `gorm:"column:extra_files;type:jsonb"`

	LocationType *enums.NoticeLocationType `gorm:"column:location_type;type:notice_location_type"`
	AddressText  *string                   `gorm:"column:address_text"`
	Latitude     *float64                  `gorm:"column:latitude"`
	Longitude    *float64                  `gorm:"column:longitude"`
	GeoName      *string                   `gorm:"column:geo_name"`
	MapsURL      *string                   `gorm:"column:maps_url"`

	Phone       *string         `gorm:"column:phone"`
	ContactInfo dbtypes.JSONMap `gorm:"column:contact_info;type:jsonb"`

	TargetLanguages    dbtypes.StringSlice `gorm:"column:target_languages;type:jsonb"`
	TargetCitizenships dbtypes.StringSlice `gorm:"column:target_citizenships;type:jsonb"`
	CouriersOnly       bool                `gorm:"column:couriers_only;not null;default:false"`

	IsApproved      bool       `gorm:"column:is_approved;not null;default:false"`
	IsModerated     bool       `gorm:"column:is_moderated;not null;default:false"`
	ModeratorID     *uuid.UUID `gorm:"column:moderator_id;type:uuid"`
	ModeratedAt     *time.Time `gorm:"column:moderated_at"`
	RejectionReason *string    `gorm:"column:rejection_reason;type:text"`
	IsActive        bool       `gorm:"column:is_active;not null;default:true"`

	BroadcastSent  bool       `gorm:"column:broadcast_sent;not null;default:false"`
	BroadcastCount int        `gorm:"column:broadcast_count;not null;default:0"`
	BroadcastAt    *time.Time `gorm:"column:broadcast_at"`

	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
}
