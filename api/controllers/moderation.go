package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mahallahub/mahalla-backend/api/responses"
	"github.com/mahallahub/mahalla-backend/api/validators"
	"github.com/mahallahub/mahalla-backend/internal/moderation"
	"github.com/mahallahub/mahalla-backend/internal/notices"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
	pkgerrors "github.com/mahallahub/mahalla-backend/pkg/errors"
	"github.com/mahallahub/mahalla-backend/pkg/logger"
	"github.com/mahallahub/mahalla-backend/pkg/pagination"
)

// PendingNoticesResponse is one page of the moderation queue.
type PendingNoticesResponse struct {
	Items  []notices.NoticeDTO `json:"items"`
	Total  int64               `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// ListPendingNotices returns the undecided queue, newest first.
func ListPendingNotices(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter notices.PendingFilter

		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseNoticeCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			filter.Category = &category
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("language")); raw != "" {
			filter.Language = &raw
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("citizenship")); raw != "" {
			filter.Citizenship = &raw
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
			since, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "since must be RFC3339"))
				return
			}
			filter.Since = &since
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListPending(r.Context(), filter, pagination.Params{Limit: limit, Offset: offset})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, PendingNoticesResponse{
			Items:  list.Items,
			Total:  list.Total,
			Limit:  list.Limit,
			Offset: list.Offset,
		})
	}
}

// PendingCounts returns the queue depth per category, zero-filled.
func PendingCounts(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := svc.PendingCounts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make(map[string]int64, len(counts))
		for category, count := range counts {
			out[string(category)] = count
		}
		responses.WriteSuccess(w, map[string]any{"counts": out})
	}
}

// DecisionResponse reports the post-decision notice state.
type DecisionResponse struct {
	Notice  *notices.NoticeDTO `json:"notice"`
	Applied bool               `json:"applied"`
}

// ApproveNotice approves a pending notice and queues its delivery.
func ApproveNotice(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moderatorID, noticeID, err := decisionIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Approve(r.Context(), moderatorID, noticeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, DecisionResponse{Notice: result.Notice, Applied: result.Applied})
	}
}

// RejectNoticeRequest carries the optional rejection reason.
type RejectNoticeRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// RejectNotice rejects a pending notice.
func RejectNotice(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moderatorID, noticeID, err := decisionIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// A reason is optional, so the body may be absent entirely.
		var req RejectNoticeRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		result, err := svc.Reject(r.Context(), moderatorID, noticeID, req.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, DecisionResponse{Notice: result.Notice, Applied: result.Applied})
	}
}

// RebroadcastNotice re-queues an approved notice for delivery.
func RebroadcastNotice(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moderatorID, noticeID, err := decisionIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Rebroadcast(r.Context(), moderatorID, noticeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "queued"})
	}
}

// UpdateCategorySettingRequest flips the submission switch for one category.
type UpdateCategorySettingRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// UpdateCategorySetting enables or disables submissions for a category.
func UpdateCategorySetting(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moderatorID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseNoticeCategory(chi.URLParam(r, "category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
			return
		}

		var req UpdateCategorySettingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetCategoryEnabled(r.Context(), moderatorID, category, *req.Enabled); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"category": string(category),
			"enabled":  *req.Enabled,
		})
	}
}

// ModerationStatistics returns the dashboard aggregates.
func ModerationStatistics(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Statistics(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{
			"pending":     stats.Pending,
			"approved":    stats.Approved,
			"broadcast":   stats.Broadcast,
			"total_reach": stats.TotalReach,
			"expired":     stats.Expired,
		})
	}
}

func decisionIDs(r *http.Request) (moderatorID, noticeID uuid.UUID, err error) {
	moderatorID, err = callerID(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	noticeID, err = uuid.Parse(chi.URLParam(r, "noticeID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notice id")
	}
	return moderatorID, noticeID, nil
}
