package controllers

import (
	"net/http"

	"github.com/mahallahub/mahalla-backend/api/responses"
	"github.com/mahallahub/mahalla-backend/api/validators"
	"github.com/mahallahub/mahalla-backend/internal/preferences"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
	pkgerrors "github.com/mahallahub/mahalla-backend/pkg/errors"
	"github.com/mahallahub/mahalla-backend/pkg/logger"
)

// GetPreferences returns the caller's per-category opt-in view.
func GetPreferences(svc preferences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make(map[string]bool, len(view))
		for category, enabled := range view {
			out[string(category)] = enabled
		}
		responses.WriteSuccess(w, map[string]any{"preferences": out})
	}
}

// BootstrapPreferences backfills the caller's preference rows from the
// category default policy. Existing rows are left untouched.
func BootstrapPreferences(svc preferences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.EnsureDefaults(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "bootstrapped"})
	}
}

// UpdatePreferenceRequest sets one category opt-in flag.
type UpdatePreferenceRequest struct {
	Category string `json:"category" validate:"required"`
	Enabled  *bool  `json:"enabled" validate:"required"`
}

// UpdatePreference writes one opt-in flag for the caller.
func UpdatePreference(svc preferences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req UpdatePreferenceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseNoticeCategory(req.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
			return
		}

		if err := svc.Set(r.Context(), userID, category, *req.Enabled); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"category": string(category),
			"enabled":  *req.Enabled,
		})
	}
}
