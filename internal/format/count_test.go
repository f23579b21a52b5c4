package format

import (
	"testing"

	"github.com/spiffcs/explore/internal/model"
)

func TestCount(t *testing.T) {
	tests := []struct {
		n        int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0k"},
		{1234, "1.2k"},
		{228500, "228.5k"},
		{2500000, "2.5M"},
	}

	for _, tt := range tests {
		if got := Count(tt.n); got != tt.expected {
			t.Errorf("Count(%d) = %q, want %q", tt.n, got, tt.expected)
		}
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		max      int
		expected string
	}{
		{"none", nil, 3, ""},
		{"under limit", []string{"bug", "ui"}, 3, "bug, ui"},
		{"at limit", []string{"a", "b", "c"}, 3, "a, b, c"},
		{"over limit", []string{"a", "b", "c", "d", "e"}, 3, "a, b, c +2"},
		{"no limit", []string{"a", "b", "c", "d"}, 0, "a, b, c, d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Labels(tt.names, tt.max); got != tt.expected {
				t.Errorf("Labels() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIssueMarker(t *testing.T) {
	if IssueMarker(model.Issue{}) != MarkerIssue {
		t.Error("issue marker wrong")
	}
	if IssueMarker(model.Issue{IsPullRequest: true}) != MarkerPullRequest {
		t.Error("pull request marker wrong")
	}
}
