package notices

import (
	"time"

	"github.com/google/uuid"

	"github.com/mahallahub/mahalla-backend/pkg/db/models"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
)

// NoticeDTO is the API-facing projection of a notice.
type NoticeDTO struct {
	ID        uuid.UUID            `json:"id"`
	Category  enums.NoticeCategory `json:"category"`
	CreatorID uuid.UUID            `json:"creator_id"`

	Title       *string  `json:"title,omitempty"`
	Description string   `json:"description"`
	PhotoRef    *string  `json:"photo_ref,omitempty"`
	ExtraFiles  []string `json:"extra_files,omitempty"`

	LocationType *enums.NoticeLocationType `json:"location_type,omitempty"`
	AddressText  *string                   `json:"address_text,omitempty"`
	Latitude     *float64                  `json:"latitude,omitempty"`
	Longitude    *float64                  `json:"longitude,omitempty"`
	GeoName      *string                   `json:"geo_name,omitempty"`
	MapsURL      *string                   `json:"maps_url,omitempty"`

	Phone       *string        `json:"phone,omitempty"`
	ContactInfo map[string]any `json:"contact_info,omitempty"`

	TargetLanguages    []string `json:"target_languages,omitempty"`
	TargetCitizenships []string `json:"target_citizenships,omitempty"`
	CouriersOnly       bool     `json:"couriers_only"`

	IsApproved      bool       `json:"is_approved"`
	IsModerated     bool       `json:"is_moderated"`
	ModeratorID     *uuid.UUID `json:"moderator_id,omitempty"`
	ModeratedAt     *time.Time `json:"moderated_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	IsActive        bool       `json:"is_active"`

	BroadcastSent  bool       `json:"broadcast_sent"`
	BroadcastCount int        `json:"broadcast_count"`
	BroadcastAt    *time.Time `json:"broadcast_at,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ToDTO converts the persistence model to its API projection.
func ToDTO(n *models.Notice) *NoticeDTO {
	if n == nil {
		return nil
	}
	return &NoticeDTO{
		ID:                 n.ID,
		Category:           n.Category,
		CreatorID:          n.CreatorID,
		Title:              n.Title,
		Description:        n.Description,
		PhotoRef:           n.PhotoRef,
		ExtraFiles:         n.ExtraFiles,
		LocationType:       n.LocationType,
		AddressText:        n.AddressText,
		Latitude:           n.Latitude,
		Longitude:          n.Longitude,
		GeoName:            n.GeoName,
		MapsURL:            n.MapsURL,
		Phone:              n.Phone,
		ContactInfo:        n.ContactInfo,
		TargetLanguages:    n.TargetLanguages,
		TargetCitizenships: n.TargetCitizenships,
		CouriersOnly:       n.CouriersOnly,
		IsApproved:         n.IsApproved,
		IsModerated:        n.IsModerated,
		ModeratorID:        n.ModeratorID,
		ModeratedAt:        n.ModeratedAt,
		RejectionReason:    n.RejectionReason,
		IsActive:           n.IsActive,
		BroadcastSent:      n.BroadcastSent,
		BroadcastCount:     n.BroadcastCount,
		BroadcastAt:        n.BroadcastAt,
		CreatedAt:          n.CreatedAt,
		ExpiresAt:          n.ExpiresAt,
	}
}

// ToDTOs maps a slice of notices.
func ToDTOs(items []models.Notice) []NoticeDTO {
	out := make([]NoticeDTO, 0, len(items))
	for i := range items {
		out = append(out, *ToDTO(&items[i]))
	}
	return out
}
