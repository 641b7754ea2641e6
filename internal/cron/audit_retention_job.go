package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/mahallahub/mahalla-backend/pkg/logger"
)

const defaultAuditRetentionDays = 90

type auditTrailPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditRetentionJobParams configure the audit trail pruning job.
type AuditRetentionJobParams struct {
	Logger        *logger.Logger
	Repository    auditTrailPruner
	RetentionDays int
}

// NewAuditRetentionJob builds the job that prunes audit entries older
// than the retention window.
func NewAuditRetentionJob(params AuditRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	retention := params.RetentionDays
	if retention <= 0 {
		retention = defaultAuditRetentionDays
	}
	return &auditRetentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type auditRetentionJob struct {
	logg      *logger.Logger
	repo      auditTrailPruner
	retention int
	now       func() time.Time
}

func (j *auditRetentionJob) Name() string { return "audit-retention" }

func (j *auditRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("audit retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "audit retention sweep complete")
	return nil
}
