package format

import "github.com/spiffcs/explore/internal/model"

// Markers shown in front of list rows.
const (
	MarkerIssue       = "●"
	MarkerPullRequest = "⇄"
	MarkerStar        = "★"
	MarkerFork        = "⑂"
)

// IssueMarker returns the marker for an entry of the issues list, which
// also carries pull requests.
func IssueMarker(i model.Issue) string {
	if i.IsPullRequest {
		return MarkerPullRequest
	}
	return MarkerIssue
}
