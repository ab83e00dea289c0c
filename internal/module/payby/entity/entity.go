// Package entity holds the persistence models for the payby module.
// Entities carry GORM tags and convert to and from the domain types;
// nothing outside the repository layer touches them.
package entity

import "encoding/json"

// encodeMap serializes a map attribute for a jsonb column. A nil or
// empty map is stored as NULL-ish empty string rather than "{}" so
// round trips preserve absence.
func encodeMap(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}

// decodeMap deserializes a jsonb column back into a map attribute.
func decodeMap(s string) map[string]any {
	if s == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}
