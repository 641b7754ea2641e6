package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahallahub/mahalla-backend/internal/auditlog"
	"github.com/mahallahub/mahalla-backend/internal/notices"
	"github.com/mahallahub/mahalla-backend/pkg/db/models"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
	pkgerrors "github.com/mahallahub/mahalla-backend/pkg/errors"
	"github.com/mahallahub/mahalla-backend/pkg/logger"
	"github.com/mahallahub/mahalla-backend/pkg/pagination"
)

// Service exposes the moderator surface: queue review, decisions, and
// the dashboard.
type Service interface {
	ListPending(ctx context.Context, filter notices.PendingFilter, page pagination.Params) (*PendingList, error)
	PendingCounts(ctx context.Context) (map[enums.NoticeCategory]int64, error)
	Approve(ctx context.Context, moderatorID, noticeID uuid.UUID) (*DecisionResult, error)
	Reject(ctx context.Context, moderatorID, noticeID uuid.UUID, reason string) (*DecisionResult, error)
	Rebroadcast(ctx context.Context, moderatorID, noticeID uuid.UUID) error
	SetCategoryEnabled(ctx context.Context, moderatorID uuid.UUID, category enums.NoticeCategory, enabled bool) error
	Statistics(ctx context.Context) (*notices.Statistics, error)
}

// PendingList is one page of the moderation queue.
type PendingList struct {
	Items  []notices.NoticeDTO
	Total  int64
	Limit  int
	Offset int
}

// DecisionResult reports what a decision call actually did.
type DecisionResult struct {
	Notice *notices.NoticeDTO
	// Applied is false when the notice was already decided and the call
	// changed nothing.
	Applied bool
}

type decisionStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Notice, error)
	ListPending(ctx context.Context, filter notices.PendingFilter, page pagination.Params) ([]models.Notice, int64, error)
	PendingCountByCategory(ctx context.Context) (map[enums.NoticeCategory]int64, error)
	ApplyDecision(ctx context.Context, id uuid.UUID, decision notices.Decision) (int64, error)
	CollectStatistics(ctx context.Context, now time.Time) (*notices.Statistics, error)
}

// DeliveryQueue accepts approved notices for asynchronous delivery.
type DeliveryQueue interface {
	Enqueue(noticeID uuid.UUID) error
}

type settingsStore interface {
	Upsert(ctx context.Context, setting *models.CategorySetting) error
}

type service struct {
	repo     decisionStore
	settings settingsStore
	audit    auditlog.Recorder
	queue    DeliveryQueue
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs the moderation service.
func NewService(repo decisionStore, settings settingsStore, audit auditlog.Recorder, queue DeliveryQueue, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notice repository required")
	}
	if settings == nil {
		return nil, fmt.Errorf("category settings store required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if queue == nil {
		return nil, fmt.Errorf("delivery queue required")
	}
	return &service{
		repo:     repo,
		settings: settings,
		audit:    audit,
		queue:    queue,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// ListPending returns one page of the queue, newest first.
func (s *service) ListPending(ctx context.Context, filter notices.PendingFilter, page pagination.Params) (*PendingList, error) {
	page = page.Normalize()
	items, total, err := s.repo.ListPending(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing pending notices")
	}
	return &PendingList{
		Items:  notices.ToDTOs(items),
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}, nil
}

// PendingCounts returns the zero-filled per-category queue depth.
func (s *service) PendingCounts(ctx context.Context) (map[enums.NoticeCategory]int64, error) {
	counts, err := s.repo.PendingCountByCategory(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting pending notices")
	}
	return counts, nil
}

// Approve marks the notice approved and hands it to the delivery queue.
// Repeating the call on a decided notice is a no-op and never enqueues
// a second delivery.
func (s *service) Approve(ctx context.Context, moderatorID, noticeID uuid.UUID) (*DecisionResult, error) {
	affected, err := s.repo.ApplyDecision(ctx, noticeID, notices.Decision{
		Approved:    true,
		ModeratorID: moderatorID,
		ModeratedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "approving notice")
	}

	notice, err := s.loadNotice(ctx, noticeID)
	if err != nil {
		return nil, err
	}

	if affected == 0 {
		return &DecisionResult{Notice: notices.ToDTO(notice), Applied: false}, nil
	}

	s.recordAudit(ctx, moderatorID, auditlog.ActionNoticeApproved, notice, nil)

	if err := s.queue.Enqueue(noticeID); err != nil {
		// The decision is already durable; delivery can be retriggered
		// through rebroadcast.
		if s.logg != nil {
			s.logg.Error(ctx, "enqueueing approved notice for delivery", err)
		}
	}

	if s.logg != nil {
		lctx := s.logg.WithNoticeID(ctx, noticeID.String())
		lctx = s.logg.WithModeratorID(lctx, moderatorID.String())
		s.logg.Info(lctx, "notice approved")
	}
	return &DecisionResult{Notice: notices.ToDTO(notice), Applied: true}, nil
}

// Reject marks the notice rejected and deactivates it.
func (s *service) Reject(ctx context.Context, moderatorID, noticeID uuid.UUID, reason string) (*DecisionResult, error) {
	reason = strings.TrimSpace(reason)
	var storedReason *string
	if reason != "" {
		storedReason = &reason
	}

	affected, err := s.repo.ApplyDecision(ctx, noticeID, notices.Decision{
		Approved:        false,
		ModeratorID:     moderatorID,
		ModeratedAt:     s.now().UTC(),
		RejectionReason: storedReason,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rejecting notice")
	}

	notice, err := s.loadNotice(ctx, noticeID)
	if err != nil {
		return nil, err
	}

	if affected == 0 {
		return &DecisionResult{Notice: notices.ToDTO(notice), Applied: false}, nil
	}

	details := map[string]any{}
	if storedReason != nil {
		details["reason"] = *storedReason
	}
	s.recordAudit(ctx, moderatorID, auditlog.ActionNoticeRejected, notice, details)

	if s.logg != nil {
		lctx := s.logg.WithNoticeID(ctx, noticeID.String())
		lctx = s.logg.WithModeratorID(lctx, moderatorID.String())
		s.logg.Info(lctx, "notice rejected")
	}
	return &DecisionResult{Notice: notices.ToDTO(notice), Applied: true}, nil
}

// Rebroadcast re-queues an already approved notice for delivery.
func (s *service) Rebroadcast(ctx context.Context, moderatorID, noticeID uuid.UUID) error {
	notice, err := s.loadNotice(ctx, noticeID)
	if err != nil {
		return err
	}
	if !notice.IsModerated || !notice.IsApproved {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only approved notices can be rebroadcast")
	}
	if !notice.IsActive {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "notice is no longer active")
	}

	if err := s.queue.Enqueue(noticeID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "enqueueing rebroadcast")
	}

	s.recordAudit(ctx, moderatorID, auditlog.ActionNoticeRebroadcast, notice, map[string]any{
		"previous_count": notice.BroadcastCount,
	})
	return nil
}

// SetCategoryEnabled flips the per-category submission switch.
func (s *service) SetCategoryEnabled(ctx context.Context, moderatorID uuid.UUID, category enums.NoticeCategory, enabled bool) error {
	if !category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown notice category")
	}

	err := s.settings.Upsert(ctx, &models.CategorySetting{
		Category:   category,
		Enabled:    enabled,
		ModifiedBy: &moderatorID,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating category setting")
	}

	auditErr := s.audit.Record(ctx, auditlog.Entry{
		ActorID:    moderatorID,
		Action:     auditlog.ActionCategoryToggled,
		EntityType: auditlog.EntityTypeCategory,
		Details: map[string]any{
			"category": string(category),
			"enabled":  enabled,
		},
	})
	if auditErr != nil && s.logg != nil {
		s.logg.Error(ctx, "recording audit entry", auditErr)
	}

	if s.logg != nil {
		lctx := s.logg.WithCategory(ctx, string(category))
		lctx = s.logg.WithModeratorID(lctx, moderatorID.String())
		s.logg.Info(lctx, "category submission switch updated")
	}
	return nil
}

// Statistics gathers the dashboard aggregates.
func (s *service) Statistics(ctx context.Context) (*notices.Statistics, error) {
	stats, err := s.repo.CollectStatistics(ctx, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "collecting statistics")
	}
	return stats, nil
}

func (s *service) loadNotice(ctx context.Context, id uuid.UUID) (*models.Notice, error) {
	notice, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "notice not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading notice")
	}
	return notice, nil
}

// recordAudit keeps the decision durable even when the trail write
// fails; the failure is only logged.
func (s *service) recordAudit(ctx context.Context, actorID uuid.UUID, action string, notice *models.Notice, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	details["category"] = string(notice.Category)

	entityID := notice.ID
	err := s.audit.Record(ctx, auditlog.Entry{
		ActorID:    actorID,
		Action:     action,
		EntityType: auditlog.EntityTypeNotice,
		EntityID:   &entityID,
		Details:    details,
	})
	if err != nil && s.logg != nil {
		s.logg.Error(ctx, "recording audit entry", err)
	}
}
