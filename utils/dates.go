package utils

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD), the only date
// format accepted at the API boundary.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders t as an ISO-8601 calendar date.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
