package utils

import (
	"time"
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock, always in UTC
type SystemClock struct{}

// Now returns the current UTC time truncated to microseconds, matching DATETIME(6) storage
func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// FormatTime formats time in ISO 8601 format
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParseTime parses ISO 8601 formatted time string
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(time.RFC3339, timeStr)
}

// IsWithinWindow reports whether t lies in [now-window, now]
func IsWithinWindow(now, t time.Time, window time.Duration) bool {
	start := now.Add(-window)
	return !t.Before(start) && !t.After(now)
}
