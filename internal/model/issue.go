package model

import "time"

// Label is a label attached to an issue.
type Label struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// Issue is an open issue of a repository. The issues endpoint also returns
// pull requests; those are flagged with IsPullRequest.
type Issue struct {
	ID            int64     `json:"id"`
	Number        int       `json:"number"`
	Title         string    `json:"title"`
	User          User      `json:"user"`
	Labels        []Label   `json:"labels,omitempty"`
	State         string    `json:"state"`
	Comments      int       `json:"comments"`
	Body          string    `json:"body,omitempty"`
	HTMLURL       string    `json:"html_url"`
	IsPullRequest bool      `json:"is_pull_request,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LabelNames returns the names of the issue's labels in order.
func (i Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		names = append(names, l.Name)
	}
	return names
}
