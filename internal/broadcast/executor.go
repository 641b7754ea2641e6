package broadcast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahallahub/mahalla-backend/internal/audience"
	"github.com/mahallahub/mahalla-backend/pkg/config"
	"github.com/mahallahub/mahalla-backend/pkg/db/models"
	pkgerrors "github.com/mahallahub/mahalla-backend/pkg/errors"
	"github.com/mahallahub/mahalla-backend/pkg/logger"
	"github.com/mahallahub/mahalla-backend/pkg/metrics"
)

// Result reports what one delivery run did.
type Result struct {
	Total  int
	Sent   int
	Failed int
}

type noticeLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Notice, error)
	MarkBroadcast(ctx context.Context, id uuid.UUID, sentCount int, at time.Time) error
}

// Executor runs one delivery end to end: resolve the audience, fan the
// message out, and record the outcome.
type Executor struct {
	store     noticeLoader
	resolver  audience.Resolver
	transport Transport
	cfg       config.BroadcastConfig
	chatID    int64
	metrics   *metrics.BroadcastMetrics
	logg      *logger.Logger
	now       func() time.Time
	sleep     func(time.Duration)
}

// NewExecutor constructs the delivery executor. moderationChatID may be
// zero, in which case run summaries are not posted anywhere.
func NewExecutor(
	store noticeLoader,
	resolver audience.Resolver,
	transport Transport,
	cfg config.BroadcastConfig,
	moderationChatID int64,
	broadcastMetrics *metrics.BroadcastMetrics,
	logg *logger.Logger,
) (*Executor, error) {
	if store == nil {
		return nil, fmt.Errorf("notice store required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("audience resolver required")
	}
	if transport == nil {
		return nil, fmt.Errorf("transport required")
	}
	return &Executor{
		store:     store,
		resolver:  resolver,
		transport: transport,
		cfg:       cfg,
		chatID:    moderationChatID,
		metrics:   broadcastMetrics,
		logg:      logg,
		now:       time.Now,
		sleep:     time.Sleep,
	}, nil
}

// Execute delivers the notice to its resolved audience. A failure for
// one recipient never aborts the run; the recipient is counted and the
// loop moves on. The broadcast outcome is recorded exactly once per
// run, after the loop finishes.
func (e *Executor) Execute(ctx context.Context, noticeID uuid.UUID) (Result, error) {
	started := e.now()
	var result Result

	notice, err := e.store.FindByID(ctx, noticeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return result, pkgerrors.New(pkgerrors.CodeNotFound, "notice not found")
	}
	if err != nil {
		return result, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading notice")
	}
	if !notice.IsApproved || !notice.IsActive {
		return result, pkgerrors.New(pkgerrors.CodeStateConflict, "notice is not deliverable")
	}

	category := string(notice.Category)
	ctx = e.logCtx(ctx, notice)

	recipients, err := e.resolver.Resolve(ctx, notice)
	if err != nil {
		e.metrics.IncRun(category, "error")
		return result, err
	}

	result.Total = len(recipients)
	if result.Total == 0 {
		// A zero-recipient run still marks the notice processed; it is
		// a first-class outcome, not a skipped one.
		e.info(ctx, "no recipients resolved")
		if err := e.store.MarkBroadcast(ctx, noticeID, 0, e.now().UTC()); err != nil {
			e.metrics.IncRun(category, "error")
			return result, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording broadcast outcome")
		}
		e.metrics.IncRun(category, "empty")
		e.postSummary(ctx, notice, result)
		return result, nil
	}

	e.info(ctx, fmt.Sprintf("starting delivery to %d recipients", result.Total))

	for i, recipient := range recipients {
		if ctx.Err() != nil {
			e.metrics.IncRun(category, "aborted")
			return result, ctx.Err()
		}

		if err := e.deliverOne(ctx, notice, recipient); err != nil {
			result.Failed++
			e.metrics.IncDelivered(category, "failed")
			e.warn(ctx, fmt.Sprintf("delivery to chat %d failed: %v", recipient.ChatID, err))
		} else {
			result.Sent++
			e.metrics.IncDelivered(category, "sent")
		}

		if i < result.Total-1 && e.cfg.SendDelay > 0 {
			e.sleep(e.cfg.SendDelay)
		}
		if (i+1)%50 == 0 {
			e.info(ctx, fmt.Sprintf("delivery progress %d/%d", i+1, result.Total))
		}
	}

	if err := e.store.MarkBroadcast(ctx, noticeID, result.Sent, e.now().UTC()); err != nil {
		e.metrics.IncRun(category, "error")
		return result, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording broadcast outcome")
	}

	e.metrics.ObserveRun(category, e.now().Sub(started))
	e.metrics.IncRun(category, "ok")
	e.info(ctx, fmt.Sprintf("delivery finished: sent=%d failed=%d", result.Sent, result.Failed))
	e.postSummary(ctx, notice, result)
	return result, nil
}

// deliverOne sends the rendered notice to a single recipient. The photo
// carries the text as its caption; a standalone geopoint follows the
// main message.
func (e *Executor) deliverOne(ctx context.Context, notice *models.Notice, recipient audience.Recipient) error {
	text := RenderMessage(notice, recipient.Language)

	if notice.PhotoRef != nil && *notice.PhotoRef != "" {
		if err := e.transport.SendPhoto(ctx, recipient.ChatID, *notice.PhotoRef, text); err != nil {
			return err
		}
	} else {
		if err := e.transport.SendText(ctx, recipient.ChatID, text); err != nil {
			return err
		}
	}

	if notice.Latitude != nil && notice.Longitude != nil {
		return e.transport.SendLocation(ctx, recipient.ChatID, *notice.Latitude, *notice.Longitude)
	}
	return nil
}

func (e *Executor) postSummary(ctx context.Context, notice *models.Notice, result Result) {
	if e.chatID == 0 {
		return
	}
	if err := e.transport.SendText(ctx, e.chatID, RenderRunSummary(notice, result)); err != nil {
		e.warn(ctx, fmt.Sprintf("posting run summary failed: %v", err))
	}
}

func (e *Executor) logCtx(ctx context.Context, notice *models.Notice) context.Context {
	if e.logg == nil {
		return ctx
	}
	ctx = e.logg.WithNoticeID(ctx, notice.ID.String())
	return e.logg.WithCategory(ctx, string(notice.Category))
}

func (e *Executor) info(ctx context.Context, msg string) {
	if e.logg != nil {
		e.logg.Info(ctx, msg)
	}
}

func (e *Executor) warn(ctx context.Context, msg string) {
	if e.logg != nil {
		e.logg.Warn(ctx, msg)
	}
}
