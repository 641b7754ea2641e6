package audience

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mahallahub/mahalla-backend/internal/directory"
	"github.com/mahallahub/mahalla-backend/pkg/db/models"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
	pkgerrors "github.com/mahallahub/mahalla-backend/pkg/errors"
)

// Recipient is one resolved delivery target.
type Recipient struct {
	UserID   uuid.UUID
	ChatID   int64
	Language string
}

// Resolver computes the final recipient set for a notice.
type Resolver interface {
	Resolve(ctx context.Context, notice *models.Notice) ([]Recipient, error)
}

type eligibleLister interface {
	ListEligible(ctx context.Context, filter directory.EligibilityFilter) ([]models.User, error)
}

type preferenceLookup interface {
	DisabledUserIDs(ctx context.Context, category enums.NoticeCategory, userIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	EnabledUserIDs(ctx context.Context, category enums.NoticeCategory, userIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type resolver struct {
	directory   eligibleLister
	preferences preferenceLookup
}

// NewResolver constructs the audience resolver.
func NewResolver(directoryRepo eligibleLister, preferenceRepo preferenceLookup) (Resolver, error) {
	if directoryRepo == nil {
		return nil, fmt.Errorf("directory repository required")
	}
	if preferenceRepo == nil {
		return nil, fmt.Errorf("preference repository required")
	}
	return &resolver{directory: directoryRepo, preferences: preferenceRepo}, nil
}

// Resolve narrows the directory to users who pass the notice's
// targeting filters and have not opted out of its category.
func (r *resolver) Resolve(ctx context.Context, notice *models.Notice) ([]Recipient, error) {
	if notice == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notice required")
	}

	candidates, err := r.directory.ListEligible(ctx, directory.EligibilityFilter{
		Languages:    notice.TargetLanguages,
		Citizenships: notice.TargetCitizenships,
		CouriersOnly: notice.CouriersOnly,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing eligible users")
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, u := range candidates {
		ids = append(ids, u.ID)
	}

	// A missing preference row resolves through the category default
	// policy: default-enabled categories drop only explicit opt-outs,
	// default-disabled ones deliver only to explicit opt-ins.
	var keep func(uuid.UUID) bool
	if notice.Category.Capabilities().DefaultOptIn {
		disabled, err := r.preferences.DisabledUserIDs(ctx, notice.Category, ids)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking category opt-outs")
		}
		keep = func(id uuid.UUID) bool { return !disabled[id] }
	} else {
		enabled, err := r.preferences.EnabledUserIDs(ctx, notice.Category, ids)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking category opt-ins")
		}
		keep = func(id uuid.UUID) bool { return enabled[id] }
	}

	recipients := make([]Recipient, 0, len(candidates))
	for _, u := range candidates {
		if !keep(u.ID) {
			continue
		}
		recipients = append(recipients, Recipient{
			UserID:   u.ID,
			ChatID:   u.ChatID,
			Language: u.Language,
		})
	}
	return recipients, nil
}
