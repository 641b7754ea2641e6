package broadcast

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/mahallahub/mahalla-backend/pkg/errors"
	"github.com/mahallahub/mahalla-backend/pkg/logger"
	"github.com/mahallahub/mahalla-backend/pkg/redis"
)

const lockScopeBroadcast = "broadcast"

type runLocker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// Dispatcher decouples moderation decisions from delivery. Approvals
// enqueue the notice id; a single worker drains the queue and runs the
// executor. A per-notice lock keeps concurrent processes from running
// the same delivery twice.
type Dispatcher struct {
	queue    chan uuid.UUID
	executor *Executor
	locker   runLocker
	lockTTL  time.Duration
	logg     *logger.Logger
}

// NewDispatcher constructs the dispatcher. locker may be nil, which
// disables cross-process exclusion (single-instance deployments and
// tests).
func NewDispatcher(queueSize int, executor *Executor, locker runLocker, lockTTL time.Duration, logg *logger.Logger) (*Dispatcher, error) {
	if executor == nil {
		return nil, fmt.Errorf("executor required")
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		queue:    make(chan uuid.UUID, queueSize),
		executor: executor,
		locker:   locker,
		lockTTL:  lockTTL,
		logg:     logg,
	}, nil
}

// Enqueue hands a notice to the delivery worker. It never blocks: a
// full queue is reported to the caller instead.
func (d *Dispatcher) Enqueue(noticeID uuid.UUID) error {
	select {
	case d.queue <- noticeID:
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, "delivery queue is full")
	}
}

// Run drains the queue until the context is cancelled. Queued
// deliveries that were not started yet are abandoned on shutdown; the
// notices stay approved and can be rebroadcast.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			if d.logg != nil && len(d.queue) > 0 {
				d.logg.Warn(ctx, fmt.Sprintf("shutting down with %d queued deliveries abandoned", len(d.queue)))
			}
			return
		case noticeID := <-d.queue:
			d.process(ctx, noticeID)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, noticeID uuid.UUID) {
	if d.locker != nil {
		key := redis.LockKey(lockScopeBroadcast, noticeID.String())
		acquired, err := d.locker.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), d.lockTTL)
		if err != nil {
			if d.logg != nil {
				d.logg.Error(ctx, "acquiring delivery lock", err)
			}
			return
		}
		if !acquired {
			if d.logg != nil {
				d.logg.Warn(ctx, fmt.Sprintf("delivery for notice %s already in progress elsewhere", noticeID))
			}
			return
		}
		defer func() {
			// release with a fresh context so shutdown does not leak the lock
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := d.locker.Del(releaseCtx, key); err != nil && d.logg != nil {
				d.logg.Warn(releaseCtx, fmt.Sprintf("releasing delivery lock failed: %v", err))
			}
		}()
	}

	if _, err := d.executor.Execute(ctx, noticeID); err != nil && d.logg != nil {
		d.logg.Error(ctx, "delivery run failed", err)
	}
}
