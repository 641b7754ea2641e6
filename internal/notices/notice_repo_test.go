package notices

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mahallahub/mahalla-backend/pkg/db/models"
	dbtypes "github.com/mahallahub/mahalla-backend/pkg/db/types"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
	"github.com/mahallahub/mahalla-backend/pkg/pagination"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Notice{
		Category:        enums.NoticeCategoryLostItem,
		CreatorID:       uuid.New(),
		Description:     "black backpack left on the 12 bus",
		TargetLanguages: []string{"RU", "UZ"},
		IsActive:        true,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)
	require.Equal(t, enums.NoticeCategoryLostItem, found.Category)
	require.Equal(t, []string{"RU", "UZ"}, []string(found.TargetLanguages))
	require.False(t, found.IsModerated)
	require.True(t, found.IsActive)
}

func TestRepositoryListPendingOrderingAndFilters(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := mustCreateTestNotice(t, conn, func(n *models.Notice) {
		n.CreatedAt = base
	})
	newer := mustCreateTestNotice(t, conn, func(n *models.Notice) {
		n.CreatedAt = base.Add(time.Hour)
	})
	// decided notices never show in the queue
	mustCreateTestNotice(t, conn, func(n *models.Notice) {
		n.IsModerated = true
		n.IsApproved = true
	})
	// courier requests are routed outside moderation
	mustCreateTestNotice(t, conn, func(n *models.Notice) {
		n.Category = enums.NoticeCategoryCourierNeeded
	})
	scam := mustCreateTestNotice(t, conn, func(n *models.Notice) {
		n.Category = enums.NoticeCategoryScamWarning
		n.CreatedAt = base.Add(2 * time.Hour)
	})

	items, total, err := repo.ListPending(ctx, PendingFilter{}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, items, 3)
	require.Equal(t, scam.ID, items[0].ID)
	require.Equal(t, newer.ID, items[1].ID)
	require.Equal(t, older.ID, items[2].ID)

	category := enums.NoticeCategoryScamWarning
	items, total, err = repo.ListPending(ctx, PendingFilter{Category: &category}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, scam.ID, items[0].ID)

	since := base.Add(30 * time.Minute)
	items, total, err = repo.ListPending(ctx, PendingFilter{Since: &since}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, items, 2)

	items, total, err = repo.ListPending(ctx, PendingFilter{}, pagination.Params{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, items, 1)
	require.Equal(t, older.ID, items[0].ID)
}

func TestRepositoryListPendingTargetingFilters(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	everyone := mustCreateTestNotice(t, conn, nil)
	uzOnly := mustCreateTestNotice(t, conn, func(n *models.Notice) {
		n.TargetLanguages = dbtypes.StringSlice{"uz"}
	})
	ruCitizens := mustCreateTestNotice(t, conn, func(n *models.Notice) {
		n.TargetLanguages = dbtypes.StringSlice{"ru"}
		n.TargetCitizenships = dbtypes.StringSlice{"ru"}
	})

	// untargeted notices match any language filter
	lang := "uz"
	items, total, err := repo.ListPending(ctx, PendingFilter{Language: &lang}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	ids := []uuid.UUID{items[0].ID, items[1].ID}
	require.Contains(t, ids, everyone.ID)
	require.Contains(t, ids, uzOnly.ID)

	citizenship := "ru"
	items, total, err = repo.ListPending(ctx, PendingFilter{Citizenship: &citizenship}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, items, 3)

	citizenship = "uz"
	items, total, err = repo.ListPending(ctx, PendingFilter{Citizenship: &citizenship}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	for _, item := range items {
		require.NotEqual(t, ruCitizens.ID, item.ID)
	}
}

func TestRepositoryListPendingFilterWildcardsMatchLiterally(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	everyone := mustCreateTestNotice(t, conn, nil)
	mustCreateTestNotice(t, conn, func(n *models.Notice) {
		n.TargetLanguages = dbtypes.StringSlice{"uz"}
	})

	// "u_" is not a wildcard for "uz"; only untargeted notices qualify
	lang := "u_"
	items, total, err := repo.ListPending(ctx, PendingFilter{Language: &lang}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, everyone.ID, items[0].ID)

	lang = "%"
	_, total, err = repo.ListPending(ctx, PendingFilter{Language: &lang}, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestRepositoryPendingCountsZeroFilled(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	mustCreateTestNotice(t, conn, nil)
	mustCreateTestNotice(t, conn, nil)
	mustCreateTestNotice(t, conn, func(n *models.Notice) {
		n.Category = enums.NoticeCategoryJobPosting
	})

	counts, err := repo.PendingCountByCategory(ctx)
	require.NoError(t, err)
	require.Len(t, counts, len(enums.ModerationCategories()))
	require.EqualValues(t, 2, counts[enums.NoticeCategorySafetyAlert])
	require.EqualValues(t, 1, counts[enums.NoticeCategoryJobPosting])
	require.EqualValues(t, 0, counts[enums.NoticeCategoryMissingPerson])
	require.NotContains(t, counts, enums.NoticeCategoryCourierNeeded)
}

func TestRepositoryApplyDecisionIsFirstWriterWins(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	notice := mustCreateTestNotice(t, conn, nil)
	moderator := uuid.New()
	decidedAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	affected, err := repo.ApplyDecision(ctx, notice.ID, Decision{
		Approved:    true,
		ModeratorID: moderator,
		ModeratedAt: decidedAt,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	// the second decision is a no-op
	reason := "duplicate"
	affected, err = repo.ApplyDecision(ctx, notice.ID, Decision{
		Approved:        false,
		ModeratorID:     uuid.New(),
		ModeratedAt:     decidedAt.Add(time.Minute),
		RejectionReason: &reason,
	})
	require.NoError(t, err)
	require.EqualValues(t, 0, affected)

	stored, err := repo.FindByID(ctx, notice.ID)
	require.NoError(t, err)
	require.True(t, stored.IsApproved)
	require.True(t, stored.IsModerated)
	require.Equal(t, moderator, *stored.ModeratorID)
	require.Nil(t, stored.RejectionReason)
	require.True(t, stored.IsActive)
}

func TestRepositoryRejectDeactivates(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	notice := mustCreateTestNotice(t, conn, nil)
	reason := "not enough detail"

	affected, err := repo.ApplyDecision(ctx, notice.ID, Decision{
		Approved:        false,
		ModeratorID:     uuid.New(),
		ModeratedAt:     time.Now().UTC(),
		RejectionReason: &reason,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	stored, err := repo.FindByID(ctx, notice.ID)
	require.NoError(t, err)
	require.False(t, stored.IsApproved)
	require.True(t, stored.IsModerated)
	require.Equal(t, reason, *stored.RejectionReason)
	require.False(t, stored.IsActive)
}

func TestRepositoryMarkBroadcastOverwrites(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	notice := mustCreateTestNotice(t, conn, nil)

	first := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkBroadcast(ctx, notice.ID, 42, first))

	second := first.Add(time.Hour)
	require.NoError(t, repo.MarkBroadcast(ctx, notice.ID, 17, second))

	stored, err := repo.FindByID(ctx, notice.ID)
	require.NoError(t, err)
	require.True(t, stored.BroadcastSent)
	require.Equal(t, 17, stored.BroadcastCount)
	require.Equal(t, second.Unix(), stored.BroadcastAt.Unix())
}

func TestRepositoryDeactivateExpired(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	now := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)
	expired := mustCreateTestNotice(t, conn, func(n *models.Notice) {
		n.ExpiresAt = timePtr(now.Add(-time.Minute))
	})
	alive := mustCreateTestNotice(t, conn, func(n *models.Notice) {
		n.ExpiresAt = timePtr(now.Add(time.Hour))
	})
	noDeadline := mustCreateTestNotice(t, conn, nil)

	affected, err := repo.DeactivateExpired(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	stored, err := repo.FindByID(ctx, expired.ID)
	require.NoError(t, err)
	require.False(t, stored.IsActive)

	for _, id := range []uuid.UUID{alive.ID, noDeadline.ID} {
		stored, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		require.True(t, stored.IsActive)
	}
}

func TestRepositoryCollectStatistics(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

	mustCreateTestNotice(t, conn, nil) // pending
	mustCreateTestNotice(t, conn, func(n *models.Notice) {
		n.IsModerated = true
		n.IsApproved = true
		n.BroadcastSent = true
		n.BroadcastCount = 30
	})
	mustCreateTestNotice(t, conn, func(n *models.Notice) {
		n.IsModerated = true
		n.IsApproved = true
		n.BroadcastSent = true
		n.BroadcastCount = 12
		n.ExpiresAt = timePtr(now.Add(-time.Hour))
	})
	mustCreateTestNotice(t, conn, func(n *models.Notice) {
		n.IsModerated = true
		n.IsApproved = false
		n.IsActive = false
	})

	stats, err := repo.CollectStatistics(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.Pending)
	require.EqualValues(t, 2, stats.Approved)
	require.EqualValues(t, 2, stats.Broadcast)
	require.EqualValues(t, 42, stats.TotalReach)
	require.EqualValues(t, 1, stats.Expired)
}

func TestSettingsRepositoryUpsert(t *testing.T) {
	conn := openTestDB(t)
	repo := NewSettingsRepository(conn)
	ctx := context.Background()

	missing, err := repo.FindByCategory(ctx, enums.NoticeCategoryRideShare)
	require.NoError(t, err)
	require.Nil(t, missing)

	admin := uuid.New()
	require.NoError(t, repo.Upsert(ctx, &models.CategorySetting{
		Category:   enums.NoticeCategoryRideShare,
		Enabled:    false,
		ModifiedBy: &admin,
	}))

	stored, err := repo.FindByCategory(ctx, enums.NoticeCategoryRideShare)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.False(t, stored.Enabled)

	require.NoError(t, repo.Upsert(ctx, &models.CategorySetting{
		Category: enums.NoticeCategoryRideShare,
		Enabled:  true,
	}))

	stored, err = repo.FindByCategory(ctx, enums.NoticeCategoryRideShare)
	require.NoError(t, err)
	require.True(t, stored.Enabled)
}
