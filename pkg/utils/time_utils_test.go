package utils

import (
	"testing"
	"time"
)

func TestIsWithinWindow(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	window := 90 * time.Second

	tests := []struct {
		name     string
		value    time.Time
		expected bool
	}{
		{name: "Now", value: now, expected: true},
		{name: "Window start", value: now.Add(-90 * time.Second), expected: true},
		{name: "One second in the future", value: now.Add(time.Second), expected: false},
		{name: "Ninety one seconds ago", value: now.Add(-91 * time.Second), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWithinWindow(now, tt.value, window); got != tt.expected {
				t.Errorf("IsWithinWindow(%v) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestSystemClock_ReturnsUTC(t *testing.T) {
	now := SystemClock{}.Now()
	if now.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", now.Location())
	}
}

func TestFormatAndParseTime(t *testing.T) {
	original := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	parsed, err := ParseTime(FormatTime(original))
	if err != nil {
		t.Fatalf("ParseTime returned error: %v", err)
	}
	if !parsed.Equal(original) {
		t.Errorf("got %v, want %v", parsed, original)
	}
}
