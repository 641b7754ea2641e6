package preferences

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mahallahub/mahalla-backend/pkg/db/models"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
	pkgerrors "github.com/mahallahub/mahalla-backend/pkg/errors"
)

// Service exposes the subscription preference surface.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (map[enums.NoticeCategory]bool, error)
	Set(ctx context.Context, userID uuid.UUID, category enums.NoticeCategory, enabled bool) error
	EnsureDefaults(ctx context.Context, userID uuid.UUID) error
}

type preferenceStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.NoticePreference, error)
	Upsert(ctx context.Context, userID uuid.UUID, category enums.NoticeCategory, enabled bool) error
	EnsureDefaults(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo preferenceStore
}

// NewService constructs the preference service.
func NewService(repo preferenceStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("preference repository required")
	}
	return &service{repo: repo}, nil
}

// Get resolves the full per-category view. Categories with no stored
// row fall back to the default policy.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (map[enums.NoticeCategory]bool, error) {
	stored, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading preferences")
	}

	view := make(map[enums.NoticeCategory]bool, len(enums.NoticeCategories()))
	for _, category := range enums.NoticeCategories() {
		view[category] = category.Capabilities().DefaultOptIn
	}
	for _, p := range stored {
		if _, ok := view[p.Category]; ok {
			view[p.Category] = p.Enabled
		}
	}
	return view, nil
}

// Set writes one opt-in flag.
func (s *service) Set(ctx context.Context, userID uuid.UUID, category enums.NoticeCategory, enabled bool) error {
	if !category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown notice category")
	}
	if err := s.repo.Upsert(ctx, userID, category, enabled); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving preference")
	}
	return nil
}

// EnsureDefaults backfills the user's rows from the default policy.
func (s *service) EnsureDefaults(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.EnsureDefaults(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "seeding default preferences")
	}
	return nil
}
