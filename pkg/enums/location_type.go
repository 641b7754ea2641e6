package enums

import "fmt"

// NoticeLocationType tags which location fields a notice carries.
type NoticeLocationType string

const (
	// NoticeLocationAddress means a free-text address.
	NoticeLocationAddress NoticeLocationType = "address"
	// NoticeLocationGeoPoint means latitude/longitude coordinates.
	NoticeLocationGeoPoint NoticeLocationType = "geopoint"
	// NoticeLocationMapLink means an external map URL.
	NoticeLocationMapLink NoticeLocationType = "map_link"
)

var validNoticeLocationTypes = []NoticeLocationType{
	NoticeLocationAddress,
	NoticeLocationGeoPoint,
	NoticeLocationMapLink,
}

// IsValid checks whether the given type matches the canonical enum.
func (t NoticeLocationType) IsValid() bool {
	for _, candidate := range validNoticeLocationTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseNoticeLocationType converts raw strings into NoticeLocationType.
func ParseNoticeLocationType(value string) (NoticeLocationType, error) {
	for _, candidate := range validNoticeLocationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notice location type %q", value)
}
