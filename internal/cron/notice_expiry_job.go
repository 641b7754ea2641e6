package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/mahallahub/mahalla-backend/pkg/logger"
)

type expiringNoticeRepo interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// NoticeExpiryJobParams configure the expiry sweep.
type NoticeExpiryJobParams struct {
	Logger     *logger.Logger
	Repository expiringNoticeRepo
}

// NewNoticeExpiryJob builds the job that deactivates notices whose
// expiry window has passed.
func NewNoticeExpiryJob(params NoticeExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("notice repository required")
	}
	return &noticeExpiryJob{
		logg: params.Logger,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type noticeExpiryJob struct {
	logg *logger.Logger
	repo expiringNoticeRepo
	now  func() time.Time
}

func (j *noticeExpiryJob) Name() string { return "notice-expiry" }

func (j *noticeExpiryJob) Run(ctx context.Context) error {
	deactivated, err := j.repo.DeactivateExpired(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("notice expiry: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "rows_deactivated", deactivated)
	j.logg.Info(logCtx, "notice expiry sweep complete")
	return nil
}
