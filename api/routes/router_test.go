package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mahallahub/mahalla-backend/internal/moderation"
	"github.com/mahallahub/mahalla-backend/internal/notices"
	pkgAuth "github.com/mahallahub/mahalla-backend/pkg/auth"
	"github.com/mahallahub/mahalla-backend/pkg/config"
	"github.com/mahallahub/mahalla-backend/pkg/db/models"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
	"github.com/mahallahub/mahalla-backend/pkg/logger"
	"github.com/mahallahub/mahalla-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubNoticesService struct{}

func (stubNoticesService) Submit(ctx context.Context, creatorID uuid.UUID, input notices.SubmitInput) (*notices.NoticeDTO, error) {
	return &notices.NoticeDTO{ID: uuid.New(), Category: input.Category}, nil
}

func (stubNoticesService) Get(ctx context.Context, id uuid.UUID) (*notices.NoticeDTO, error) {
	return &notices.NoticeDTO{ID: id}, nil
}

type stubModerationService struct {
	listFn func(ctx context.Context, filter notices.PendingFilter, page pagination.Params) (*moderation.PendingList, error)
}

func (s stubModerationService) ListPending(ctx context.Context, filter notices.PendingFilter, page pagination.Params) (*moderation.PendingList, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter, page)
	}
	return &moderation.PendingList{Limit: page.Limit, Offset: page.Offset}, nil
}

func (stubModerationService) PendingCounts(ctx context.Context) (map[enums.NoticeCategory]int64, error) {
	return map[enums.NoticeCategory]int64{}, nil
}

func (stubModerationService) Approve(ctx context.Context, moderatorID, noticeID uuid.UUID) (*moderation.DecisionResult, error) {
	return &moderation.DecisionResult{Applied: true}, nil
}

func (stubModerationService) Reject(ctx context.Context, moderatorID, noticeID uuid.UUID, reason string) (*moderation.DecisionResult, error) {
	return &moderation.DecisionResult{Applied: true}, nil
}

func (stubModerationService) Rebroadcast(ctx context.Context, moderatorID, noticeID uuid.UUID) error {
	return nil
}

func (stubModerationService) SetCategoryEnabled(ctx context.Context, moderatorID uuid.UUID, category enums.NoticeCategory, enabled bool) error {
	return nil
}

func (stubModerationService) Statistics(ctx context.Context) (*notices.Statistics, error) {
	return &notices.Statistics{}, nil
}

type stubPreferencesService struct{}

func (stubPreferencesService) Get(ctx context.Context, userID uuid.UUID) (map[enums.NoticeCategory]bool, error) {
	return map[enums.NoticeCategory]bool{}, nil
}

func (stubPreferencesService) Set(ctx context.Context, userID uuid.UUID, category enums.NoticeCategory, enabled bool) error {
	return nil
}

func (stubPreferencesService) EnsureDefaults(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type stubAuditTrail struct{}

func (stubAuditTrail) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(RouterParams{
		Config:      cfg,
		Logger:      logg,
		DB:          stubPinger{},
		Redis:       stubPinger{},
		Notices:     stubNoticesService{},
		Moderation:  stubModerationService{},
		Preferences: stubPreferencesService{},
		AuditTrail:  stubAuditTrail{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.ActorRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/preferences", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/preferences", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for preferences got %d", resp.Code)
	}
}

func TestModerationGroupRequiresModeratorRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	plainUser := httptest.NewRequest(http.MethodGet, "/api/v1/moderation/notices", nil)
	plainUser.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, plainUser)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-moderator got %d", resp.Code)
	}

	moderator := httptest.NewRequest(http.MethodGet, "/api/v1/moderation/notices", nil)
	moderator.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleModerator))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, moderator)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for moderator got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/moderation/statistics", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin statistics got %d", resp.Code)
	}
}

func TestModerationListForwardsPagination(t *testing.T) {
	cfg := testConfig()
	var captured pagination.Params
	svc := stubModerationService{
		listFn: func(ctx context.Context, filter notices.PendingFilter, page pagination.Params) (*moderation.PendingList, error) {
			captured = page
			return &moderation.PendingList{Limit: page.Limit, Offset: page.Offset}, nil
		},
	}
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	router := NewRouter(RouterParams{
		Config:      cfg,
		Logger:      logg,
		DB:          stubPinger{},
		Redis:       stubPinger{},
		Notices:     stubNoticesService{},
		Moderation:  svc,
		Preferences: stubPreferencesService{},
		AuditTrail:  stubAuditTrail{},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/moderation/notices?limit=5&offset=10", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleModerator))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 listing notices got %d", resp.Code)
	}
	if captured.Limit != 5 || captured.Offset != 10 {
		t.Fatalf("expected limit=5 offset=10 got %+v", captured)
	}
}

func TestSubmitNoticeRejectsMalformedBody(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notices", strings.NewReader(`{"category":"lost_person"`))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body got %d", resp.Code)
	}
}
