package params

import (
	"fmt"
	"strings"
)

// ParseKeyValuePairs converts a slice of "key=value" strings into a map.
// Keys may carry the @ sigil or not; they are stored as given and
// sigil-handling is the consumer's concern.
//
// Example:
//
//	overrides, err := ParseKeyValuePairs([]string{"strName=Alpha", "@intOwnerID=7"})
//	// Returns: map[string]string{"strName": "Alpha", "@intOwnerID": "7"}
func ParseKeyValuePairs(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q is not in key=value format (example: --param strName=Alpha)", pair)
		}

		if key == "" {
			return nil, fmt.Errorf("parameter has empty key: %q", pair)
		}

		result[key] = value
	}

	return result, nil
}
