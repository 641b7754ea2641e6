package notices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahallahub/mahalla-backend/pkg/config"
	"github.com/mahallahub/mahalla-backend/pkg/db/models"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
	pkgerrors "github.com/mahallahub/mahalla-backend/pkg/errors"
	"github.com/mahallahub/mahalla-backend/pkg/logger"
)

// Service exposes notice submission and lookup.
type Service interface {
	Submit(ctx context.Context, creatorID uuid.UUID, input SubmitInput) (*NoticeDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*NoticeDTO, error)
}

// SubmitInput holds the validated payload for a new notice.
type SubmitInput struct {
	Category    enums.NoticeCategory
	Title       *string
	Description string
	PhotoRef    *string
	ExtraFiles  []string

	LocationType *enums.NoticeLocationType
	AddressText  *string
	Latitude     *float64
	Longitude    *float64
	GeoName      *string
	MapsURL      *string

	Phone       *string
	ContactInfo map[string]any

	TargetLanguages    []string
	TargetCitizenships []string
	CouriersOnly       bool

	ExpiresAt *time.Time
}

type settingsReader interface {
	FindByCategory(ctx context.Context, category enums.NoticeCategory) (*models.CategorySetting, error)
}

type noticeStore interface {
	Create(ctx context.Context, notice *models.Notice) (*models.Notice, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Notice, error)
}

type service struct {
	repo     noticeStore
	settings settingsReader
	cfg      config.BroadcastConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs the notice service.
func NewService(repo noticeStore, settings settingsReader, cfg config.BroadcastConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notice repository required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{
		repo:     repo,
		settings: settings,
		cfg:      cfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Submit validates the category switch and persists the notice in the
// pending state. A missing expiry falls back to the configured window.
func (s *service) Submit(ctx context.Context, creatorID uuid.UUID, input SubmitInput) (*NoticeDTO, error) {
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown notice category")
	}
	if input.LocationType != nil && !input.LocationType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown location type")
	}

	// Category switch rows are opt-out: no row means the category accepts
	// submissions.
	setting, err := s.settings.FindByCategory(ctx, input.Category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category setting")
	}
	if setting != nil && !setting.Enabled {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "submissions for this category are temporarily disabled")
	}

	expiresAt := input.ExpiresAt
	if expiresAt == nil {
		deadline := s.now().UTC().Add(time.Duration(s.cfg.DefaultHours) * time.Hour)
		expiresAt = &deadline
	}

	notice := &models.Notice{
		Category:           input.Category,
		CreatorID:          creatorID,
		Title:              input.Title,
		Description:        input.Description,
		PhotoRef:           input.PhotoRef,
		ExtraFiles:         input.ExtraFiles,
		LocationType:       input.LocationType,
		AddressText:        input.AddressText,
		Latitude:           input.Latitude,
		Longitude:          input.Longitude,
		GeoName:            input.GeoName,
		MapsURL:            input.MapsURL,
		Phone:              input.Phone,
		ContactInfo:        input.ContactInfo,
		TargetLanguages:    input.TargetLanguages,
		TargetCitizenships: input.TargetCitizenships,
		CouriersOnly:       input.CouriersOnly,
		IsActive:           true,
		ExpiresAt:          expiresAt,
	}

	created, err := s.repo.Create(ctx, notice)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating notice")
	}

	if s.logg != nil {
		ctx = s.logg.WithNoticeID(ctx, created.ID.String())
		ctx = s.logg.WithCategory(ctx, string(created.Category))
		s.logg.Info(ctx, "notice submitted")
	}
	return ToDTO(created), nil
}

// Get loads a single notice by id.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*NoticeDTO, error) {
	notice, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "notice not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading notice")
	}
	return ToDTO(notice), nil
}
