package search

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuery is returned for queries that cannot form a domain label.
var ErrInvalidQuery = errors.New("search: invalid query")

const maxLabelLength = 63

// NormalizeQuery turns user input into a bare second-level label.
// "WWW.Example.com" becomes "example".
func NormalizeQuery(query string) (string, error) {
	label := strings.ToLower(strings.TrimSpace(query))
	label = strings.TrimPrefix(label, "http://")
	label = strings.TrimPrefix(label, "https://")
	label = strings.TrimPrefix(label, "www.")
	label = strings.TrimSuffix(label, "/")
	if idx := strings.Index(label, "."); idx >= 0 {
		label = label[:idx]
	}
	if label == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidQuery)
	}
	if len(label) > maxLabelLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidQuery, maxLabelLength)
	}
	if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
		return "", fmt.Errorf("%w: %q starts or ends with a hyphen", ErrInvalidQuery, label)
	}
	for _, r := range label {
		if !isLabelRune(r) {
			return "", fmt.Errorf("%w: %q contains %q", ErrInvalidQuery, label, r)
		}
	}
	return label, nil
}

func isLabelRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
}
