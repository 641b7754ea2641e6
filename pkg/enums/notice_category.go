package enums

import "fmt"

// NoticeCategory maps to the notice_category enum in Postgres.
type NoticeCategory string

const (
	NoticeCategorySafetyAlert       NoticeCategory = "safety_alert"
	NoticeCategoryMissingPerson     NoticeCategory = "missing_person"
	NoticeCategoryLostItem          NoticeCategory = "lost_item"
	NoticeCategoryScamWarning       NoticeCategory = "scam_warning"
	NoticeCategoryMedicalEmergency  NoticeCategory = "medical_emergency"
	NoticeCategoryHousingNeeded     NoticeCategory = "housing_needed"
	NoticeCategoryRideShare         NoticeCategory = "ride_share"
	NoticeCategoryJobPosting        NoticeCategory = "job_posting"
	NoticeCategoryLostDocument      NoticeCategory = "lost_document"
	NoticeCategoryEventAnnouncement NoticeCategory = "event_announcement"
	NoticeCategoryCourierNeeded     NoticeCategory = "courier_needed"
)

var validNoticeCategories = []NoticeCategory{
	NoticeCategorySafetyAlert,
	NoticeCategoryMissingPerson,
	NoticeCategoryLostItem,
	NoticeCategoryScamWarning,
	NoticeCategoryMedicalEmergency,
	NoticeCategoryHousingNeeded,
	NoticeCategoryRideShare,
	NoticeCategoryJobPosting,
	NoticeCategoryLostDocument,
	NoticeCategoryEventAnnouncement,
	NoticeCategoryCourierNeeded,
}

// CategoryCapabilities describes per-category policy that the pipeline
// consults instead of special-casing categories at call sites.
type CategoryCapabilities struct {
	// VisibleInModeration controls whether the category appears in the
	// moderator-facing queue. Courier requests are handled by the courier
	// dispatch flow and never surface there.
	VisibleInModeration bool
	// DefaultOptIn is the value assumed when a user has no preference row
	// for the category, and the value seeded by the preference backfill.
	DefaultOptIn bool
}

var categoryCapabilities = map[NoticeCategory]CategoryCapabilities{
	NoticeCategorySafetyAlert:       {VisibleInModeration: true, DefaultOptIn: true},
	NoticeCategoryMissingPerson:     {VisibleInModeration: true, DefaultOptIn: true},
	NoticeCategoryLostItem:          {VisibleInModeration: true, DefaultOptIn: true},
	NoticeCategoryScamWarning:       {VisibleInModeration: true, DefaultOptIn: true},
	NoticeCategoryMedicalEmergency:  {VisibleInModeration: true, DefaultOptIn: true},
	NoticeCategoryHousingNeeded:     {VisibleInModeration: true, DefaultOptIn: true},
	NoticeCategoryRideShare:         {VisibleInModeration: true, DefaultOptIn: true},
	NoticeCategoryJobPosting:        {VisibleInModeration: true, DefaultOptIn: true},
	NoticeCategoryLostDocument:      {VisibleInModeration: true, DefaultOptIn: true},
	NoticeCategoryEventAnnouncement: {VisibleInModeration: true, DefaultOptIn: true},
	NoticeCategoryCourierNeeded:     {VisibleInModeration: false, DefaultOptIn: false},
}

// IsValid checks whether the given category matches the canonical enum.
func (c NoticeCategory) IsValid() bool {
	for _, candidate := range validNoticeCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// Capabilities returns the policy flags for the category. Unknown
// categories get zero-value capabilities (hidden, opted out).
func (c NoticeCategory) Capabilities() CategoryCapabilities {
	return categoryCapabilities[c]
}

// NoticeCategories returns every canonical category.
func NoticeCategories() []NoticeCategory {
	out := make([]NoticeCategory, len(validNoticeCategories))
	copy(out, validNoticeCategories)
	return out
}

// ModerationCategories returns the categories that appear in the
// moderator-facing queue.
func ModerationCategories() []NoticeCategory {
	out := make([]NoticeCategory, 0, len(validNoticeCategories))
	for _, candidate := range validNoticeCategories {
		if candidate.Capabilities().VisibleInModeration {
			out = append(out, candidate)
		}
	}
	return out
}

// ParseNoticeCategory converts raw strings into NoticeCategory.
func ParseNoticeCategory(value string) (NoticeCategory, error) {
	for _, candidate := range validNoticeCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notice category %q", value)
}
