package format

import (
	"testing"
	"time"
)

func TestAge(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		ago      time.Duration
		expected string
	}{
		// Now (sub-hour)
		{"zero", 0, "now"},
		{"59 minutes", 59 * time.Minute, "now"},

		// Hours
		{"1 hour", time.Hour, "1h"},
		{"23 hours", 23 * time.Hour, "23h"},

		// Days
		{"1 day", 24 * time.Hour, "1d"},
		{"6 days", 6 * 24 * time.Hour, "6d"},

		// Weeks
		{"7 days", 7 * 24 * time.Hour, "1w"},
		{"27 days", 27 * 24 * time.Hour, "3w"},

		// Dates
		{"28 days", 28 * 24 * time.Hour, "2026-02-15"},
		{"a year", 365 * 24 * time.Hour, "2025-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Age(now.Add(-tt.ago), now)
			if got != tt.expected {
				t.Errorf("Age(-%v) = %q, want %q", tt.ago, got, tt.expected)
			}
		})
	}
}

func TestAgeZeroTime(t *testing.T) {
	if got := Age(time.Time{}, time.Now()); got != "-" {
		t.Errorf("Age(zero) = %q, want %q", got, "-")
	}
	if got := Date(time.Time{}); got != "-" {
		t.Errorf("Date(zero) = %q, want %q", got, "-")
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2024, 7, 4, 10, 0, 0, 0, time.Local)
	if got := Date(d); got != "2024-07-04" {
		t.Errorf("Date() = %q", got)
	}
}
