package normalize

import (
	"regexp"
	"strings"
)

// Recognized date shapes, checked against the start of the string:
//   - 1900-01-01 (ISO)
//   - 1900-01-01 12:00:00 (SQL datetime)
//   - 01/01/1900, 1/1/1900 (slash-delimited)
//   - Jan 1 1900 (month name)
//   - Jan 1 1900 12:00AM (month name with time)
var dateShapePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}`),
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}`),
	regexp.MustCompile(`^[A-Za-z]{3}\s+\d{1,2}\s+\d{4}`),
	regexp.MustCompile(`^[A-Za-z]{3}\s+\d{1,2}\s+\d{4}\s+\d{1,2}:\d{2}`),
}

// LooksLikeDate reports whether a string value looks like a date.
// Guards integer-family normalization against corrupting a date string
// mistakenly routed to an integer parameter.
func LooksLikeDate(value string) bool {
	value = strings.TrimSpace(value)
	for _, p := range dateShapePatterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}
