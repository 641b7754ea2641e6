package auditlog

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mahallahub/mahalla-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.AuditLog{}); err != nil {
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

func TestRecordAndListRecent(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	actor := uuid.New()
	noticeID := uuid.New()

	require.NoError(t, repo.Record(ctx, Entry{
		ActorID:    actor,
		Action:     ActionNoticeApproved,
		EntityType: EntityTypeNotice,
		EntityID:   &noticeID,
		Details:    map[string]any{"category": "safety_alert"},
	}))

	entries, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, actor, entries[0].ActorID)
	require.Equal(t, ActionNoticeApproved, entries[0].Action)
	require.Equal(t, noticeID, *entries[0].EntityID)
	require.Equal(t, "safety_alert", entries[0].Details["category"])
}

func TestRecordRequiresAction(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	err := repo.Record(context.Background(), Entry{
		ActorID:    uuid.New(),
		EntityType: EntityTypeNotice,
	})
	require.Error(t, err)
}

func TestDeleteOlderThan(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	cutoff := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	old := &models.AuditLog{
		ActorID:    uuid.New(),
		Action:     ActionNoticeRejected,
		EntityType: EntityTypeNotice,
		CreatedAt:  cutoff.Add(-time.Hour),
	}
	recent := &models.AuditLog{
		ActorID:    uuid.New(),
		Action:     ActionNoticeApproved,
		EntityType: EntityTypeNotice,
		CreatedAt:  cutoff.Add(time.Hour),
	}
	require.NoError(t, conn.Create(old).Error)
	require.NoError(t, conn.Create(recent).Error)

	removed, err := repo.DeleteOlderThan(ctx, cutoff)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	entries, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, ActionNoticeApproved, entries[0].Action)
}
