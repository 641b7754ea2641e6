package preferences

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mahallahub/mahalla-backend/pkg/db/models"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.NoticePreference{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func TestUpsertCreatesThenUpdates(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Upsert(ctx, userID, enums.NoticeCategorySafetyAlert, false))

	prefs, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	require.False(t, prefs[0].Enabled)

	require.NoError(t, repo.Upsert(ctx, userID, enums.NoticeCategorySafetyAlert, true))

	prefs, err = repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	require.True(t, prefs[0].Enabled)
}

func TestEnsureDefaultsBackfillsMissingRows(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	userID := uuid.New()

	// a pre-existing opt-out must survive the backfill
	require.NoError(t, repo.Upsert(ctx, userID, enums.NoticeCategoryJobPosting, false))

	require.NoError(t, repo.EnsureDefaults(ctx, userID))

	prefs, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, prefs, len(enums.NoticeCategories()))

	byCategory := make(map[enums.NoticeCategory]bool, len(prefs))
	for _, p := range prefs {
		byCategory[p.Category] = p.Enabled
	}
	require.False(t, byCategory[enums.NoticeCategoryJobPosting])
	require.True(t, byCategory[enums.NoticeCategorySafetyAlert])
	require.False(t, byCategory[enums.NoticeCategoryCourierNeeded])

	// idempotent
	require.NoError(t, repo.EnsureDefaults(ctx, userID))
	prefs, err = repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, prefs, len(enums.NoticeCategories()))
}

func TestDisabledUserIDs(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	optedOut := uuid.New()
	optedIn := uuid.New()
	noRow := uuid.New()

	require.NoError(t, repo.Upsert(ctx, optedOut, enums.NoticeCategoryScamWarning, false))
	require.NoError(t, repo.Upsert(ctx, optedIn, enums.NoticeCategoryScamWarning, true))
	// an opt-out for a different category must not leak
	require.NoError(t, repo.Upsert(ctx, noRow, enums.NoticeCategoryLostItem, false))

	disabled, err := repo.DisabledUserIDs(ctx, enums.NoticeCategoryScamWarning,
		[]uuid.UUID{optedOut, optedIn, noRow})
	require.NoError(t, err)
	require.Len(t, disabled, 1)
	require.True(t, disabled[optedOut])
}

func TestEnabledUserIDs(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	optedIn := uuid.New()
	optedOut := uuid.New()
	noRow := uuid.New()

	require.NoError(t, repo.Upsert(ctx, optedIn, enums.NoticeCategoryCourierNeeded, true))
	require.NoError(t, repo.Upsert(ctx, optedOut, enums.NoticeCategoryCourierNeeded, false))

	enabled, err := repo.EnabledUserIDs(ctx, enums.NoticeCategoryCourierNeeded,
		[]uuid.UUID{optedIn, optedOut, noRow})
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	require.True(t, enabled[optedIn])
}

func TestServiceGetResolvesDefaults(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)

	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.Set(ctx, userID, enums.NoticeCategorySafetyAlert, false))

	view, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	require.Len(t, view, len(enums.NoticeCategories()))
	require.False(t, view[enums.NoticeCategorySafetyAlert])
	require.True(t, view[enums.NoticeCategoryMissingPerson])
	require.False(t, view[enums.NoticeCategoryCourierNeeded])
}

func TestServiceSetRejectsUnknownCategory(t *testing.T) {
	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	err = svc.Set(context.Background(), uuid.New(), enums.NoticeCategory("weather"), true)
	require.Error(t, err)
}
