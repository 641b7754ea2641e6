package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice stores a list of strings as a JSON column. JSON keeps the
// column portable between Postgres jsonb and the SQLite test driver.
type StringSlice []string

func (s *StringSlice) Scan(src any) error {
	if src == nil {
		*s = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return s.unmarshal(v)
	case string:
		return s.unmarshal([]byte(v))
	default:
		return fmt.Errorf("StringSlice: unsupported Scan type %T", src)
	}
}

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	raw, err := json.Marshal([]string(s))
	if err != nil {
		return nil, fmt.Errorf("StringSlice: marshal: %w", err)
	}
	return string(raw), nil
}

func (s *StringSlice) unmarshal(raw []byte) error {
	if len(raw) == 0 {
		*s = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringSlice: unmarshal: %w", err)
	}
	*s = StringSlice(out)
	return nil
}

// Contains reports whether the slice holds the given value.
func (s StringSlice) Contains(value string) bool {
	for _, candidate := range s {
		if candidate == value {
			return true
		}
	}
	return false
}

// JSONMap stores loosely structured key/value data as a JSON column.
type JSONMap map[string]any

func (m *JSONMap) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return m.unmarshal(v)
	case string:
		return m.unmarshal([]byte(v))
	default:
		return fmt.Errorf("JSONMap: unsupported Scan type %T", src)
	}
}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, fmt.Errorf("JSONMap: marshal: %w", err)
	}
	return string(raw), nil
}

func (m *JSONMap) unmarshal(raw []byte) error {
	if len(raw) == 0 {
		*m = nil
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("JSONMap: unmarshal: %w", err)
	}
	*m = JSONMap(out)
	return nil
}
