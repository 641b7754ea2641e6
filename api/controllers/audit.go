package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mahallahub/mahalla-backend/api/responses"
	"github.com/mahallahub/mahalla-backend/api/validators"
	"github.com/mahallahub/mahalla-backend/internal/auditlog"
	"github.com/mahallahub/mahalla-backend/pkg/logger"
)

// AuditEntryDTO is the JSON projection of one audit record.
type AuditEntryDTO struct {
	ID         uuid.UUID      `json:"id"`
	ActorID    uuid.UUID      `json:"actor_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   *uuid.UUID     `json:"entity_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// RecentAuditEntries returns the newest trail entries for the admin view.
func RecentAuditEntries(trail auditlog.Lister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := trail.ListRecent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]AuditEntryDTO, 0, len(entries))
		for _, entry := range entries {
			out = append(out, AuditEntryDTO{
				ID:         entry.ID,
				ActorID:    entry.ActorID,
				Action:     entry.Action,
				EntityType: entry.EntityType,
				EntityID:   entry.EntityID,
				Details:    entry.Details,
				CreatedAt:  entry.CreatedAt,
			})
		}
		responses.WriteSuccess(w, map[string]any{"entries": out})
	}
}
