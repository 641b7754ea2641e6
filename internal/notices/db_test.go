package notices

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mahallahub/mahalla-backend/pkg/db/models"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// One shared in-memory database per test, torn down with the pool.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Notice{},
		&models.NoticePreference{},
		&models.CategorySetting{},
		&models.AuditLog{},
	); err != nil {
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

func mustCreateTestNotice(t *testing.T, conn *gorm.DB, mutate func(*models.Notice)) *models.Notice {
	t.Helper()

	notice := &models.Notice{
		Category:    enums.NoticeCategorySafetyAlert,
		CreatorID:   uuid.New(),
		Description: "suspicious activity near the market",
		IsActive:    true,
	}
	if mutate != nil {
		mutate(notice)
	}
	if err := conn.Create(notice).Error; err != nil {
		t.Fatalf("create test notice: %v", err)
	}
	return notice
}

func timePtr(v time.Time) *time.Time { return &v }
