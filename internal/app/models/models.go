package models

import (
	"fmt"
	"strings"
	"time"
)

// parseEnum normalises raw and checks it against the allowed values
func parseEnum[T ~string](raw string, allowed []T) (T, error) {
	value := T(strings.ToLower(strings.TrimSpace(raw)))
	for _, a := range allowed {
		if value == a {
			return value, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("status must be one of: %s", strings.Join(names, ", "))
}

// calendarDay keeps t's date as read in its own location, pinned to UTC
// midnight so dates from different zones compare by calendar day alone
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
