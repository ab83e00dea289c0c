package payby

import (
	"fmt"
	"time"
)

// stringField reads an optional string field from a gateway payload.
// Missing or non-string values read as empty.
func stringField(m map[string]any, key string) string {
	v, ok := m[key].(string)
	if !ok {
		return ""
	}
	return v
}

// gatewayTimeLayouts are the timestamp renderings the gateway has been
// seen to emit.
var gatewayTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseGatewayTime parses a gateway timestamp field.
func parseGatewayTime(s string) (time.Time, error) {
	for _, layout := range gatewayTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format %q", s)
}
