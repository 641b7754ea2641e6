package notices

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahallahub/mahalla-backend/pkg/db/models"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
	"github.com/mahallahub/mahalla-backend/pkg/pagination"
)

// PendingFilter narrows the moderation queue listing. Language and
// Citizenship match against the notice targeting lists; a notice with an
// empty list targets everyone and matches any value.
type PendingFilter struct {
	Category    *enums.NoticeCategory
	Language    *string
	Citizenship *string
	Since       *time.Time
}

// Decision captures the moderation fields written when a notice is
// approved or rejected.
type Decision struct {
	Approved        bool
	ModeratorID     uuid.UUID
	ModeratedAt     time.Time
	RejectionReason *string
}

// Statistics aggregates the moderator dashboard counters.
type Statistics struct {
	Pending    int64
	Approved   int64
	Broadcast  int64
	TotalReach int64
	Expired    int64
}

// Repository wires notice persistence against the shared GORM handle.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create persists a new notice.
func (r *Repository) Create(ctx context.Context, notice *models.Notice) (*models.Notice, error) {
	if err := r.db.WithContext(ctx).Create(notice).Error; err != nil {
		return nil, err
	}
	return notice, nil
}

// FindByID loads the notice without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Notice, error) {
	var notice models.Notice
	if err := r.db.WithContext(ctx).First(&notice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notice, nil
}

// ListPending returns undecided notices newest-first. Categories hidden
// from the moderation queue are excluded regardless of filter.
func (r *Repository) ListPending(ctx context.Context, filter PendingFilter, page pagination.Params) ([]models.Notice, int64, error) {
	page = page.Normalize()

	query := r.db.WithContext(ctx).
		Model(&models.Notice{}).
		Where("is_moderated = ? AND is_active = ?", false, true).
		Where("category IN ?", categoryStrings(enums.ModerationCategories()))

	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}
	if filter.Language != nil {
		query = query.Where(targetListMatches("target_languages"), jsonElementPattern(*filter.Language))
	}
	if filter.Citizenship != nil {
		query = query.Where(targetListMatches("target_citizenships"), jsonElementPattern(*filter.Citizenship))
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Notice
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// PendingCountByCategory returns pending counts keyed by category. Every
// moderation-visible category is present in the result, zero-filled.
func (r *Repository) PendingCountByCategory(ctx context.Context) (map[enums.NoticeCategory]int64, error) {
	type row struct {
		Category string
		Total    int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Notice{}).
		Select("category, COUNT(*) AS total").
		Where("is_moderated = ? AND is_active = ?", false, true).
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[enums.NoticeCategory]int64)
	for _, category := range enums.ModerationCategories() {
		counts[category] = 0
	}
	for _, r := range rows {
		category := enums.NoticeCategory(r.Category)
		if _, ok := counts[category]; ok {
			counts[category] = r.Total
		}
	}
	return counts, nil
}

// ApplyDecision records a moderation decision. The update only lands if
// the notice is still undecided, which makes concurrent decisions on
// the same notice collapse to the first one. Returns the number of rows
// updated (0 or 1).
func (r *Repository) ApplyDecision(ctx context.Context, id uuid.UUID, decision Decision) (int64, error) {
	updates := map[string]any{
		"is_approved":  decision.Approved,
		"is_moderated": true,
		"moderator_id": decision.ModeratorID,
		"moderated_at": decision.ModeratedAt,
	}
	if !decision.Approved {
		updates["rejection_reason"] = decision.RejectionReason
		updates["is_active"] = false
	}

	result := r.db.WithContext(ctx).
		Model(&models.Notice{}).
		Where("id = ? AND is_moderated = ?", id, false).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// MarkBroadcast records the outcome of a delivery run. Rebroadcasts
// overwrite the previous count and timestamp.
func (r *Repository) MarkBroadcast(ctx context.Context, id uuid.UUID, sentCount int, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Notice{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"broadcast_sent":  true,
			"broadcast_count": sentCount,
			"broadcast_at":    at,
		}).Error
}

// DeactivateExpired flips is_active off for notices whose expiry has
// passed. Returns the number of notices deactivated.
func (r *Repository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notice{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
		Update("is_active", false)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CollectStatistics gathers the dashboard aggregates in one pass per
// counter.
func (r *Repository) CollectStatistics(ctx context.Context, now time.Time) (*Statistics, error) {
	var stats Statistics
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Notice{})
	}

	if err := base().
		Where("is_moderated = ? AND is_active = ?", false, true).
		Count(&stats.Pending).Error; err != nil {
		return nil, err
	}
	if err := base().
		Where("is_moderated = ? AND is_approved = ?", true, true).
		Count(&stats.Approved).Error; err != nil {
		return nil, err
	}
	if err := base().
		Where("broadcast_sent = ?", true).
		Count(&stats.Broadcast).Error; err != nil {
		return nil, err
	}

	var reach sql.NullInt64
	if err := base().
		Where("broadcast_sent = ?", true).
		Select("SUM(broadcast_count)").
		Scan(&reach).Error; err != nil {
		return nil, err
	}
	if reach.Valid {
		stats.TotalReach = reach.Int64
	}

	if err := base().
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Count(&stats.Expired).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

// targetListMatches builds the clause for a JSON targeting column: an
// absent or empty list targets everyone, otherwise the value must be an
// element. The text cast keeps the expression valid on both Postgres
// jsonb and the SQLite test driver.
func targetListMatches(column string) string {
	return "(" + column + " IS NULL" +
		" OR CAST(" + column + " AS TEXT) = '[]'" +
		` OR CAST(` + column + ` AS TEXT) LIKE ? ESCAPE '\')`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// jsonElementPattern quotes the filter value so LIKE wildcards in it
// match literally.
func jsonElementPattern(value string) string {
	return `%"` + likeEscaper.Replace(value) + `"%`
}

func categoryStrings(categories []enums.NoticeCategory) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, string(c))
	}
	return out
}
