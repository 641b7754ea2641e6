package audience

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mahallahub/mahalla-backend/internal/directory"
	"github.com/mahallahub/mahalla-backend/pkg/db/models"
	"github.com/mahallahub/mahalla-backend/pkg/enums"
)

type fakeDirectory struct {
	users      []models.User
	lastFilter directory.EligibilityFilter
}

func (f *fakeDirectory) ListEligible(_ context.Context, filter directory.EligibilityFilter) ([]models.User, error) {
	f.lastFilter = filter
	return f.users, nil
}

type fakePrefs struct {
	disabled      map[uuid.UUID]bool
	enabled       map[uuid.UUID]bool
	called        bool
	enabledCalled bool
}

func (f *fakePrefs) DisabledUserIDs(_ context.Context, _ enums.NoticeCategory, _ []uuid.UUID) (map[uuid.UUID]bool, error) {
	f.called = true
	if f.disabled == nil {
		return map[uuid.UUID]bool{}, nil
	}
	return f.disabled, nil
}

func (f *fakePrefs) EnabledUserIDs(_ context.Context, _ enums.NoticeCategory, _ []uuid.UUID) (map[uuid.UUID]bool, error) {
	f.enabledCalled = true
	if f.enabled == nil {
		return map[uuid.UUID]bool{}, nil
	}
	return f.enabled, nil
}

func testUser(chatID int64, language string) models.User {
	return models.User{ID: uuid.New(), ChatID: chatID, Language: language}
}

func TestResolvePassesTargetingToDirectory(t *testing.T) {
	dir := &fakeDirectory{}
	prefs := &fakePrefs{}
	r, err := NewResolver(dir, prefs)
	require.NoError(t, err)

	notice := &models.Notice{
		Category:           enums.NoticeCategoryRideShare,
		TargetLanguages:    []string{"UZ"},
		TargetCitizenships: []string{"UZ", "KG"},
		CouriersOnly:       true,
	}
	recipients, err := r.Resolve(context.Background(), notice)
	require.NoError(t, err)
	require.Empty(t, recipients)

	require.Equal(t, []string{"UZ"}, dir.lastFilter.Languages)
	require.Equal(t, []string{"UZ", "KG"}, dir.lastFilter.Citizenships)
	require.True(t, dir.lastFilter.CouriersOnly)
	// the opt-out lookup is skipped for an empty candidate set
	require.False(t, prefs.called)
}

func TestResolveDropsOptedOutUsers(t *testing.T) {
	a := testUser(1, "RU")
	b := testUser(2, "UZ")
	c := testUser(3, "RU")

	dir := &fakeDirectory{users: []models.User{a, b, c}}
	prefs := &fakePrefs{disabled: map[uuid.UUID]bool{b.ID: true}}
	r, err := NewResolver(dir, prefs)
	require.NoError(t, err)

	recipients, err := r.Resolve(context.Background(), &models.Notice{
		Category: enums.NoticeCategoryScamWarning,
	})
	require.NoError(t, err)
	require.Len(t, recipients, 2)
	require.Equal(t, a.ChatID, recipients[0].ChatID)
	require.Equal(t, c.ChatID, recipients[1].ChatID)
	require.Equal(t, "RU", recipients[0].Language)
}

func TestResolveKeepsUsersWithoutPreferenceRow(t *testing.T) {
	a := testUser(10, "RU")
	dir := &fakeDirectory{users: []models.User{a}}
	prefs := &fakePrefs{}
	r, err := NewResolver(dir, prefs)
	require.NoError(t, err)

	recipients, err := r.Resolve(context.Background(), &models.Notice{
		Category: enums.NoticeCategorySafetyAlert,
	})
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	require.Equal(t, a.ID, recipients[0].UserID)
}

func TestResolveDefaultDisabledCategoryNeedsExplicitOptIn(t *testing.T) {
	optedIn := testUser(20, "RU")
	noRow := testUser(21, "UZ")

	dir := &fakeDirectory{users: []models.User{optedIn, noRow}}
	prefs := &fakePrefs{enabled: map[uuid.UUID]bool{optedIn.ID: true}}
	r, err := NewResolver(dir, prefs)
	require.NoError(t, err)

	recipients, err := r.Resolve(context.Background(), &models.Notice{
		Category: enums.NoticeCategoryCourierNeeded,
	})
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	require.Equal(t, optedIn.ID, recipients[0].UserID)
	require.True(t, prefs.enabledCalled)
	// the opt-out path is never consulted for a default-disabled category
	require.False(t, prefs.called)
}
