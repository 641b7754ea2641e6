package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mahallahub/mahalla-backend/api/middleware"
	"github.com/mahallahub/mahalla-backend/api/responses"
	"github.com/mahallahub/mahalla-backend/api/validators"
	"github.com/mahallahub/mahalla-backend/internal/notices"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
	pkgerrors "github.com/mahallahub/mahalla-backend/pkg/errors"
	"github.com/mahallahub/mahalla-backend/pkg/logger"
)

// SubmitNoticeRequest is the payload for notice submission.
type SubmitNoticeRequest struct {
	Category    string   `json:"category" validate:"required"`
	Title       *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Description string   `json:"description" validate:"required,min=3,max=4000"`
	PhotoRef    *string  `json:"photo_ref,omitempty"`
	ExtraFiles  []string `json:"extra_files,omitempty" validate:"omitempty,max=10"`

	LocationType *string  `json:"location_type,omitempty" validate:"omitempty,oneof=address geopoint map_link"`
	AddressText  *string  `json:"address_text,omitempty" validate:"omitempty,max=500"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	GeoName      *string  `json:"geo_name,omitempty" validate:"omitempty,max=200"`
	MapsURL      *string  `json:"maps_url,omitempty" validate:"omitempty,url"`

	Phone       *string        `json:"phone,omitempty" validate:"omitempty,max=32"`
	ContactInfo map[string]any `json:"contact_info,omitempty"`

	TargetLanguages    []string `json:"target_languages,omitempty"`
	TargetCitizenships []string `json:"target_citizenships,omitempty"`
	CouriersOnly       bool     `json:"couriers_only"`

	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// SubmitNotice accepts a community notice into the moderation queue.
func SubmitNotice(svc notices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creatorID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req SubmitNoticeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseNoticeCategory(req.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
			return
		}

		input := notices.SubmitInput{
			Category:           category,
			Title:              req.Title,
			Description:        req.Description,
			PhotoRef:           req.PhotoRef,
			ExtraFiles:         req.ExtraFiles,
			AddressText:        req.AddressText,
			Latitude:           req.Latitude,
			Longitude:          req.Longitude,
			GeoName:            req.GeoName,
			MapsURL:            req.MapsURL,
			Phone:              req.Phone,
			ContactInfo:        req.ContactInfo,
			TargetLanguages:    req.TargetLanguages,
			TargetCitizenships: req.TargetCitizenships,
			CouriersOnly:       req.CouriersOnly,
			ExpiresAt:          req.ExpiresAt,
		}
		if req.LocationType != nil {
			locationType, err := enums.ParseNoticeLocationType(*req.LocationType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location type"))
				return
			}
			input.LocationType = &locationType
		}

		dto, err := svc.Submit(r.Context(), creatorID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// GetNotice returns a single notice by id.
func GetNotice(svc notices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		noticeID, err := uuid.Parse(chi.URLParam(r, "noticeID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notice id"))
			return
		}

		dto, err := svc.Get(r.Context(), noticeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

func callerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller identity")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid caller identity")
	}
	return id, nil
}
